package booking

import (
	"context"
	"slices"
	"sync"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

// memStore is an in-memory appointment table for policy and transition tests
type memStore struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*entity.Appointment
	err   error
	races map[uuid.UUID]entity.AppointmentStatus
}

func newMemStore(rows ...*entity.Appointment) *memStore {
	s := &memStore{
		rows:  make(map[uuid.UUID]*entity.Appointment),
		races: make(map[uuid.UUID]entity.AppointmentStatus),
	}
	for _, r := range rows {
		s.rows[r.ID] = r
	}
	return s
}

func matches(status entity.AppointmentStatus, statuses []entity.AppointmentStatus) bool {
	return len(statuses) == 0 || slices.Contains(statuses, status)
}

func (s *memStore) CountByPatientAndDate(ctx context.Context, patientID uuid.UUID, date string, statuses ...entity.AppointmentStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}

	n := 0
	for _, r := range s.rows {
		if r.UserID == patientID && r.Date == date && matches(r.Status, statuses) {
			n++
		}
	}
	return n, nil
}

func (s *memStore) GetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string, statuses ...entity.AppointmentStatus) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	slots := []string{}
	for _, r := range s.rows {
		if r.DoctorID == doctorID && r.Date == date && matches(r.Status, statuses) && !slices.Contains(slots, r.Time) {
			slots = append(slots, r.Time)
		}
	}
	slices.Sort(slots)
	return slots, nil
}

func (s *memStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	// simulate another request changing the row right after it was read
	if status, raced := s.races[id]; raced {
		r.Status = status
	}
	return &cp, nil
}

func (s *memStore) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus, from ...entity.AppointmentStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok || !matches(r.Status, from) {
		return 0, nil
	}
	if status.Active() && s.slotTakenByOther(r) {
		return 0, apperror.SlotUnavailable()
	}
	r.Status = status
	return 1, nil
}

func (s *memStore) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, reference *string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok {
		return 0, nil
	}
	r.PaymentStatus = status
	r.PaymentReference = reference
	return 1, nil
}

func (s *memStore) AppendDeclineNote(ctx context.Context, id uuid.UUID, reason string, from ...entity.AppointmentStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok || !matches(r.Status, from) {
		return 0, nil
	}
	note := "Decline Reason: " + reason
	if r.Notes != nil && *r.Notes != "" {
		note = *r.Notes + "\n\nDecline Reason: " + reason
	}
	r.Notes = &note
	r.Status = entity.AppointmentDeclined
	return 1, nil
}

func appointment(patient, doctor uuid.UUID, date, slot string, status entity.AppointmentStatus) *entity.Appointment {
	a := &entity.Appointment{
		UserID:        patient,
		DoctorID:      doctor,
		ServiceID:     uuid.New(),
		Date:          date,
		Time:          slot,
		Status:        status,
		PaymentStatus: entity.PaymentPending,
	}
	a.ID = uuid.New()
	return a
}

// slotTakenByOther mirrors the partial unique index on active slots
func (s *memStore) slotTakenByOther(r *entity.Appointment) bool {
	for _, other := range s.rows {
		if other.ID != r.ID && other.DoctorID == r.DoctorID && other.Date == r.Date &&
			other.Time == r.Time && other.Status.Active() {
			return true
		}
	}
	return false
}
