package usecase

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/cache"
	"clinic-booking/pkg/metrics"
	"clinic-booking/pkg/notify"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ==================== USERS ====================

type memUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[uuid.UUID]*entity.User{}}
}

func (m *memUsers) Create(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, user.Email) && u.DeletedAt == nil {
			return apperror.Conflict("Email already registered")
		}
	}
	cp := *user
	m.rows[user.ID] = &cp
	return nil
}

func (m *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, email) && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.User
	for _, u := range m.rows {
		if u.DeletedAt == nil {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

func (m *memUsers) CountAll(ctx context.Context) (int64, error) {
	all, _ := m.FindAll(ctx, 1<<30, 0)
	return int64(len(all)), nil
}

func (m *memUsers) CountByRole(ctx context.Context, role entity.UserRole) (int64, error) {
	all, _ := m.FindAll(ctx, 1<<30, 0)
	var n int64
	for _, u := range all {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *memUsers) Update(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[user.ID]; !ok {
		return apperror.NotFound("User")
	}
	cp := *user
	m.rows[user.ID] = &cp
	return nil
}

func (m *memUsers) UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok || u.DeletedAt != nil {
		return apperror.NotFound("User")
	}
	u.Role = role
	return nil
}

func (m *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok || u.DeletedAt != nil {
		return apperror.NotFound("User")
	}
	now := time.Now()
	u.DeletedAt = &now
	u.IsActive = false
	return nil
}

// ==================== SESSIONS ====================

type memSessions struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Session
}

func newMemSessions() *memSessions {
	return &memSessions{rows: map[uuid.UUID]*entity.Session{}}
}

func (m *memSessions) Create(ctx context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.rows[session.Token] = &cp
	return nil
}

func (m *memSessions) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[token]
	if !ok || !s.ActiveAt(time.Now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) Revoke(ctx context.Context, token uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[token]
	if !ok || s.RevokedAt != nil {
		return apperror.NotFound("Session")
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (m *memSessions) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var n int64
	for _, s := range m.rows {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (m *memSessions) CleanExpiredSessions(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for token, s := range m.rows {
		if !s.ActiveAt(time.Now()) {
			delete(m.rows, token)
			n++
		}
	}
	return n, nil
}

// ==================== CATALOG ====================

type memDoctors struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Doctor
}

func (m *memDoctors) Create(ctx context.Context, doctor *entity.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doctor
	m.rows[doctor.ID] = &cp
	return nil
}

func (m *memDoctors) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (m *memDoctors) FindAll(ctx context.Context) ([]*entity.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Doctor, 0, len(m.rows))
	for _, d := range m.rows {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memDoctors) CountAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memDoctors) Update(ctx context.Context, doctor *entity.Doctor) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[doctor.ID]; !ok {
		return 0, nil
	}
	cp := *doctor
	m.rows[doctor.ID] = &cp
	return 1, nil
}

func (m *memDoctors) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

type memServices struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Service
}

func (m *memServices) Create(ctx context.Context, service *entity.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *service
	m.rows[service.ID] = &cp
	return nil
}

func (m *memServices) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memServices) FindAll(ctx context.Context) ([]*entity.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Service, 0, len(m.rows))
	for _, s := range m.rows {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memServices) CountAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memServices) Update(ctx context.Context, service *entity.Service) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[service.ID]; !ok {
		return 0, nil
	}
	cp := *service
	m.rows[service.ID] = &cp
	return 1, nil
}

func (m *memServices) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

// ==================== APPOINTMENTS ====================

// memAppointments mirrors the database guarantees the booking flow relies on:
// the patient-day lock and the unique active slot.
type memAppointments struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*entity.Appointment
	dayLocks sync.Map

	// afterSlotRead runs once, right after the next GetBookedSlots releases the lock
	afterSlotRead func()

	users    *memUsers
	doctors  *memDoctors
	services *memServices
}

func (m *memAppointments) CountByPatientAndDate(ctx context.Context, patientID uuid.UUID, date string, statuses ...entity.AppointmentStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.rows {
		if a.UserID == patientID && a.Date == date && matchStatus(a.Status, statuses) {
			n++
		}
	}
	return n, nil
}

func (m *memAppointments) GetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string, statuses ...entity.AppointmentStatus) ([]string, error) {
	m.mu.Lock()
	slots := []string{}
	for _, a := range m.rows {
		if a.DoctorID == doctorID && a.Date == date && matchStatus(a.Status, statuses) && !slices.Contains(slots, a.Time) {
			slots = append(slots, a.Time)
		}
	}
	hook := m.afterSlotRead
	m.afterSlotRead = nil
	m.mu.Unlock()

	sort.Strings(slots)
	if hook != nil {
		hook()
	}
	return slots, nil
}

func matchStatus(status entity.AppointmentStatus, statuses []entity.AppointmentStatus) bool {
	return len(statuses) == 0 || slices.Contains(statuses, status)
}

func (m *memAppointments) Create(ctx context.Context, appointment *entity.Appointment) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.DoctorID == appointment.DoctorID && a.Date == appointment.Date && a.Time == appointment.Time && a.Status.Active() {
			return uuid.Nil, apperror.SlotUnavailable()
		}
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := time.Now()
	appointment.Status = entity.AppointmentPending
	appointment.PaymentStatus = entity.PaymentPending
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	cp := *appointment
	m.rows[appointment.ID] = &cp
	return appointment.ID, nil
}

// seed inserts a row as-is, bypassing the slot check
func (m *memAppointments) seed(a *entity.Appointment) *entity.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = entity.PaymentPending
	}
	cp := *a
	m.rows[a.ID] = &cp
	return a
}

func (m *memAppointments) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memAppointments) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentDetail, error) {
	a, err := m.FindByID(ctx, id)
	if err != nil || a == nil {
		return nil, err
	}
	return m.detail(ctx, a), nil
}

func (m *memAppointments) detail(ctx context.Context, a *entity.Appointment) *entity.AppointmentDetail {
	d := &entity.AppointmentDetail{Appointment: *a}
	if doc, _ := m.doctors.FindByID(ctx, a.DoctorID); doc != nil {
		d.DoctorName = doc.Name
		d.DoctorSpecialization = doc.Specialization
	}
	if svc, _ := m.services.FindByID(ctx, a.ServiceID); svc != nil {
		d.ServiceName = svc.Name
		d.ServicePrice = svc.Price
	}
	if u, _ := m.users.FindByID(ctx, a.UserID); u != nil {
		d.PatientFirstName = u.FirstName
		d.PatientLastName = u.LastName
		d.PatientEmail = u.Email
	}
	return d
}

func (m *memAppointments) list(ctx context.Context, keep func(*entity.Appointment) bool) []*entity.AppointmentDetail {
	m.mu.Lock()
	var rows []*entity.Appointment
	for _, a := range m.rows {
		if keep(a) {
			cp := *a
			rows = append(rows, &cp)
		}
	}
	m.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date+rows[i].Time > rows[j].Date+rows[j].Time
	})
	out := make([]*entity.AppointmentDetail, 0, len(rows))
	for _, a := range rows {
		out = append(out, m.detail(ctx, a))
	}
	return out
}

func (m *memAppointments) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]*entity.AppointmentDetail, error) {
	return m.list(ctx, func(a *entity.Appointment) bool { return a.UserID == patientID }), nil
}

func (m *memAppointments) FindAll(ctx context.Context) ([]*entity.AppointmentDetail, error) {
	return m.list(ctx, func(a *entity.Appointment) bool { return true }), nil
}

func (m *memAppointments) FindByMonth(ctx context.Context, month, year int) ([]*entity.AppointmentDetail, error) {
	return m.list(ctx, func(a *entity.Appointment) bool {
		d, err := utils.ParseDate(a.Date)
		return err == nil && int(d.Month()) == month && d.Year() == year
	}), nil
}

func (m *memAppointments) CountByStatus(ctx context.Context, statuses ...entity.AppointmentStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.rows {
		if matchStatus(a.Status, statuses) {
			n++
		}
	}
	return n, nil
}

func (m *memAppointments) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus, from ...entity.AppointmentStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok || !matchStatus(a.Status, from) {
		return 0, nil
	}
	if status.Active() {
		for _, other := range m.rows {
			if other.ID != a.ID && other.DoctorID == a.DoctorID && other.Date == a.Date &&
				other.Time == a.Time && other.Status.Active() {
				return 0, apperror.SlotUnavailable()
			}
		}
	}
	a.Status = status
	return 1, nil
}

func (m *memAppointments) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, reference *string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return 0, nil
	}
	a.PaymentStatus = status
	a.PaymentReference = reference
	return 1, nil
}

func (m *memAppointments) AppendDeclineNote(ctx context.Context, id uuid.UUID, reason string, from ...entity.AppointmentStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok || !matchStatus(a.Status, from) {
		return 0, nil
	}
	note := "Decline Reason: " + reason
	if a.Notes != nil && *a.Notes != "" {
		note = *a.Notes + "\n\n" + note
	}
	a.Notes = &note
	a.Status = entity.AppointmentDeclined
	return 1, nil
}

func (m *memAppointments) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

func (m *memAppointments) CompletePast(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := before.Format(utils.DateLayout)
	var n int64
	for _, a := range m.rows {
		if a.Status == entity.AppointmentConfirmed && a.Date < cutoff {
			a.Status = entity.AppointmentCompleted
			n++
		}
	}
	return n, nil
}

func (m *memAppointments) LockPatientDay(ctx context.Context, patientID uuid.UUID, date string) error {
	return nil
}

func (m *memAppointments) WithTx(tx pgx.Tx) repository.AppointmentRepository {
	return m
}

func (m *memAppointments) InTx(ctx context.Context, fn func(repo repository.AppointmentRepository) error) error {
	tx := &memAppointmentTx{memAppointments: m}
	defer tx.release()
	return fn(tx)
}

// memAppointmentTx holds patient-day locks until the surrounding InTx returns
type memAppointmentTx struct {
	*memAppointments
	held []*sync.Mutex
}

func (t *memAppointmentTx) LockPatientDay(ctx context.Context, patientID uuid.UUID, date string) error {
	lock, _ := t.dayLocks.LoadOrStore(patientID.String()+":"+date, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	t.held = append(t.held, mu)
	return nil
}

func (t *memAppointmentTx) InTx(ctx context.Context, fn func(repo repository.AppointmentRepository) error) error {
	return fn(t)
}

func (t *memAppointmentTx) release() {
	for _, mu := range t.held {
		mu.Unlock()
	}
}

// ==================== NOTIFIER ====================

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *recordingNotifier) Notify(msg notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.sent)
}

// ==================== FIXTURE ====================

type fixture struct {
	repo         *repository.Repository
	users        *memUsers
	sessions     *memSessions
	doctors      *memDoctors
	services     *memServices
	appointments *memAppointments
	notifier     *recordingNotifier
	metrics      *metrics.Metrics
	config       *utils.Config
	svc          *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := newMemUsers()
	doctors := &memDoctors{rows: map[uuid.UUID]*entity.Doctor{}}
	services := &memServices{rows: map[uuid.UUID]*entity.Service{}}
	f := &fixture{
		users:    users,
		sessions: newMemSessions(),
		doctors:  doctors,
		services: services,
		appointments: &memAppointments{
			rows:     map[uuid.UUID]*entity.Appointment{},
			users:    users,
			doctors:  doctors,
			services: services,
		},
		notifier: &recordingNotifier{},
		metrics:  metrics.New(),
		config: &utils.Config{
			JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
			Booking: utils.BookingConfig{
				DailyLimit:       5,
				CountAllStatuses: true,
				OpenTime:         "09:00",
				CloseTime:        "18:00",
				SlotMinutes:      30,
			},
		},
	}
	f.repo = &repository.Repository{
		User:        f.users,
		Session:     f.sessions,
		Doctor:      f.doctors,
		Service:     f.services,
		Appointment: f.appointments,
	}
	f.svc = NewService(f.repo, f.config, cache.NewMemoryCache(time.Minute), f.metrics, f.notifier, zap.NewNop())
	return f
}

func (f *fixture) addPatient(t *testing.T, email string) *entity.User {
	t.Helper()
	return f.addUser(t, email, entity.RolePatient)
}

func (f *fixture) addUser(t *testing.T, email string, role entity.UserRole) *entity.User {
	t.Helper()
	hashed, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		FirstName:    "Test",
		LastName:     strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) addDoctor(name string) *entity.Doctor {
	d := &entity.Doctor{
		BaseNoDelete:   entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		Name:           name,
		Specialization: "General",
		Availability:   entity.DefaultAvailability,
	}
	_ = f.doctors.Create(context.Background(), d)
	return d
}

func (f *fixture) addService(name string, price float64) *entity.Service {
	s := &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		Name:         name,
		Price:        price,
		DurationMins: 30,
	}
	_ = f.services.Create(context.Background(), s)
	return s
}
