package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const activeSlotConstraint = "uq_appointments_active_slot"

type AppointmentRepository interface {
	// Booking policy reads
	CountByPatientAndDate(ctx context.Context, patientID uuid.UUID, date string, statuses ...entity.AppointmentStatus) (int, error)
	GetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string, statuses ...entity.AppointmentStatus) ([]string, error)

	Create(ctx context.Context, appointment *entity.Appointment) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentDetail, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]*entity.AppointmentDetail, error)
	FindAll(ctx context.Context) ([]*entity.AppointmentDetail, error)
	FindByMonth(ctx context.Context, month, year int) ([]*entity.AppointmentDetail, error)
	CountByStatus(ctx context.Context, statuses ...entity.AppointmentStatus) (int64, error)

	// Guarded writes report affected rows, 0 means the row was missing or not in a from-state
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus, from ...entity.AppointmentStatus) (int64, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, reference *string) (int64, error)
	AppendDeclineNote(ctx context.Context, id uuid.UUID, reason string, from ...entity.AppointmentStatus) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CompletePast(ctx context.Context, before time.Time) (int64, error)

	// Transactions
	LockPatientDay(ctx context.Context, patientID uuid.UUID, date string) error
	WithTx(tx pgx.Tx) AppointmentRepository
	InTx(ctx context.Context, fn func(repo AppointmentRepository) error) error
}

type appointmentRepository struct {
	pool database.PgxIface
	db   database.Querier
	inTx bool
	log  *zap.Logger
}

func NewAppointmentRepository(db database.PgxIface, log *zap.Logger) AppointmentRepository {
	return &appointmentRepository{
		pool: db,
		db:   db,
		log:  log.With(zap.String("repository", "appointment")),
	}
}

const appointmentColumns = `
	a.id, a.user_id, a.doctor_id, a.service_id,
	to_char(a.appointment_date, 'YYYY-MM-DD'), to_char(a.appointment_time, 'HH24:MI:SS'),
	a.status, a.payment_status, a.payment_reference, a.notes, a.created_at, a.updated_at`

const appointmentDetailQuery = `
	SELECT ` + appointmentColumns + `,
	       d.name, d.specialization, s.name, s.price,
	       u.first_name, u.last_name, u.email
	FROM appointments a
	JOIN doctors d ON d.id = a.doctor_id
	JOIN services s ON s.id = a.service_id
	JOIN users u ON u.id = a.user_id`

func statusStrings(statuses []entity.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *appointmentRepository) WithTx(tx pgx.Tx) AppointmentRepository {
	return &appointmentRepository{
		pool: r.pool,
		db:   tx,
		inTx: true,
		log:  r.log,
	}
}

// InTx runs fn against a repository bound to a fresh transaction. Calls on a
// repository that is already transaction-bound reuse that transaction.
func (r *appointmentRepository) InTx(ctx context.Context, fn func(repo AppointmentRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(r.WithTx(tx))
	})
}

// LockPatientDay serializes bookings of one patient on one date until the
// surrounding transaction ends.
func (r *appointmentRepository) LockPatientDay(ctx context.Context, patientID uuid.UUID, date string) error {
	query := `SELECT pg_advisory_xact_lock(hashtext($1))`

	if _, err := r.db.Exec(ctx, query, patientID.String()+":"+date); err != nil {
		r.log.Error("Failed to lock patient day",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
			zap.String("date", date),
		)
		return fmt.Errorf("lock patient %s day %s: %w", patientID.String(), date, err)
	}
	return nil
}

func (r *appointmentRepository) CountByPatientAndDate(ctx context.Context, patientID uuid.UUID, date string, statuses ...entity.AppointmentStatus) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE user_id = $1 AND appointment_date = $2::date`
	args := []any{patientID, date}
	if len(statuses) > 0 {
		query += ` AND status = ANY($3)`
		args = append(args, statusStrings(statuses))
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count appointments by patient and date",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
			zap.String("date", date),
		)
		return 0, fmt.Errorf("count appointments of patient %s on %s: %w", patientID.String(), date, err)
	}

	return count, nil
}

func (r *appointmentRepository) GetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string, statuses ...entity.AppointmentStatus) ([]string, error) {
	query := `
		SELECT DISTINCT to_char(appointment_time, 'HH24:MI:SS') AS slot
		FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2::date`
	args := []any{doctorID, date}
	if len(statuses) > 0 {
		query += ` AND status = ANY($3)`
		args = append(args, statusStrings(statuses))
	}
	query += ` ORDER BY slot`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to get booked slots",
			zap.Error(err),
			zap.String("doctor_id", doctorID.String()),
			zap.String("date", date),
		)
		return nil, fmt.Errorf("get booked slots of doctor %s on %s: %w", doctorID.String(), date, err)
	}
	defer rows.Close()

	slots := []string{}
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			r.log.Error("Failed to scan booked slot", zap.Error(err))
			return nil, fmt.Errorf("scan booked slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked slots: %w", err)
	}

	return slots, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) (uuid.UUID, error) {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := time.Now()
	appointment.Status = entity.AppointmentPending
	appointment.PaymentStatus = entity.PaymentPending
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	query := `
		INSERT INTO appointments (id, user_id, doctor_id, service_id, appointment_date, appointment_time,
		                          status, payment_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::date, $6::time, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		appointment.ID,
		appointment.UserID,
		appointment.DoctorID,
		appointment.ServiceID,
		appointment.Date,
		appointment.Time,
		string(appointment.Status),
		string(appointment.PaymentStatus),
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok && constraint == activeSlotConstraint {
			return uuid.Nil, apperror.SlotUnavailable()
		}
		if constraint, ok := database.ForeignKeyViolation(err); ok {
			return uuid.Nil, apperror.NotFound(referencedEntity(constraint))
		}

		r.log.Error("Failed to create appointment",
			zap.Error(err),
			zap.String("user_id", appointment.UserID.String()),
			zap.String("doctor_id", appointment.DoctorID.String()),
			zap.String("date", appointment.Date),
			zap.String("time", appointment.Time),
		)
		return uuid.Nil, fmt.Errorf("create appointment: %w", err)
	}

	return appointment.ID, nil
}

func referencedEntity(constraint string) string {
	switch {
	case strings.Contains(constraint, "doctor"):
		return "Doctor"
	case strings.Contains(constraint, "service"):
		return "Service"
	case strings.Contains(constraint, "user"):
		return "Patient"
	default:
		return "Referenced record"
	}
}

func scanAppointment(row pgx.Row, a *entity.Appointment, extra ...any) error {
	var status, paymentStatus string
	dest := []any{
		&a.ID,
		&a.UserID,
		&a.DoctorID,
		&a.ServiceID,
		&a.Date,
		&a.Time,
		&status,
		&paymentStatus,
		&a.PaymentReference,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	a.Status = entity.AppointmentStatus(status)
	a.PaymentStatus = entity.PaymentStatus(paymentStatus)
	return nil
}

func scanAppointmentDetail(row pgx.Row) (*entity.AppointmentDetail, error) {
	var d entity.AppointmentDetail
	err := scanAppointment(row, &d.Appointment,
		&d.DoctorName,
		&d.DoctorSpecialization,
		&d.ServiceName,
		&d.ServicePrice,
		&d.PatientFirstName,
		&d.PatientLastName,
		&d.PatientEmail,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments a WHERE a.id = $1`

	var appointment entity.Appointment
	err := scanAppointment(r.db.QueryRow(ctx, query, id), &appointment)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find appointment by ID",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return nil, fmt.Errorf("find appointment by ID %s: %w", id.String(), err)
	}

	return &appointment, nil
}

func (r *appointmentRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.AppointmentDetail, error) {
	query := appointmentDetailQuery + ` WHERE a.id = $1`

	detail, err := scanAppointmentDetail(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find appointment detail",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return nil, fmt.Errorf("find appointment detail %s: %w", id.String(), err)
	}

	return detail, nil
}

func (r *appointmentRepository) queryDetails(ctx context.Context, op string, query string, args ...any) ([]*entity.AppointmentDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query appointments", zap.Error(err), zap.String("op", op))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	appointments := []*entity.AppointmentDetail{}
	for rows.Next() {
		detail, err := scanAppointmentDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan appointment row", zap.Error(err))
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		appointments = append(appointments, detail)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate appointment rows: %w", err)
	}

	return appointments, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]*entity.AppointmentDetail, error) {
	query := appointmentDetailQuery + `
		WHERE a.user_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC`

	return r.queryDetails(ctx, "find appointments by patient "+patientID.String(), query, patientID)
}

func (r *appointmentRepository) FindAll(ctx context.Context) ([]*entity.AppointmentDetail, error) {
	query := appointmentDetailQuery + `
		ORDER BY a.appointment_date DESC, a.appointment_time DESC`

	return r.queryDetails(ctx, "find all appointments", query)
}

func (r *appointmentRepository) FindByMonth(ctx context.Context, month, year int) ([]*entity.AppointmentDetail, error) {
	query := appointmentDetailQuery + `
		WHERE EXTRACT(MONTH FROM a.appointment_date) = $1
		  AND EXTRACT(YEAR FROM a.appointment_date) = $2
		ORDER BY a.appointment_date, a.appointment_time`

	return r.queryDetails(ctx, fmt.Sprintf("find appointments of %04d-%02d", year, month), query, month, year)
}

func (r *appointmentRepository) CountByStatus(ctx context.Context, statuses ...entity.AppointmentStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments`
	var args []any
	if len(statuses) > 0 {
		query += ` WHERE status = ANY($1)`
		args = append(args, statusStrings(statuses))
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Database error counting appointments", zap.Error(err))
		return 0, fmt.Errorf("count appointments: %w", err)
	}

	return count, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus, from ...entity.AppointmentStatus) (int64, error) {
	query := `UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`
	args := []any{id, string(status)}
	if len(from) > 0 {
		query += ` AND status = ANY($3)`
		args = append(args, statusStrings(from))
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		// reactivating a cancelled or declined row whose slot was rebooked
		if constraint, ok := database.UniqueViolation(err); ok && constraint == activeSlotConstraint {
			r.log.Info("Status change blocked by active booking on the same slot",
				zap.String("appointment_id", id.String()),
				zap.String("status", string(status)),
			)
			return 0, apperror.SlotUnavailable()
		}

		r.log.Error("Failed to update appointment status",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
			zap.String("status", string(status)),
		)
		return 0, fmt.Errorf("update appointment %s status to %s: %w", id.String(), string(status), err)
	}

	return result.RowsAffected(), nil
}

func (r *appointmentRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, reference *string) (int64, error) {
	query := `
		UPDATE appointments
		SET payment_status = $2, payment_reference = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, string(status), reference)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
			zap.String("payment_status", string(status)),
		)
		return 0, fmt.Errorf("update appointment %s payment to %s: %w", id.String(), string(status), err)
	}

	return result.RowsAffected(), nil
}

func (r *appointmentRepository) AppendDeclineNote(ctx context.Context, id uuid.UUID, reason string, from ...entity.AppointmentStatus) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'declined',
		    notes = CASE
		        WHEN notes IS NULL OR notes = '' THEN 'Decline Reason: ' || $2
		        ELSE notes || E'\n\nDecline Reason: ' || $2
		    END,
		    updated_at = NOW()
		WHERE id = $1`
	args := []any{id, reason}
	if len(from) > 0 {
		query += ` AND status = ANY($3)`
		args = append(args, statusStrings(from))
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to decline appointment",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return 0, fmt.Errorf("decline appointment %s: %w", id.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `DELETE FROM appointments WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete appointment",
			zap.Error(err),
			zap.String("appointment_id", id.String()),
		)
		return 0, fmt.Errorf("delete appointment %s: %w", id.String(), err)
	}

	if result.RowsAffected() > 0 {
		r.log.Info("Appointment deleted", zap.String("appointment_id", id.String()))
	}
	return result.RowsAffected(), nil
}

// CompletePast marks confirmed appointments dated before the given day as completed
func (r *appointmentRepository) CompletePast(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE appointments
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'confirmed' AND appointment_date < $1::date
	`

	result, err := r.db.Exec(ctx, query, before.Format("2006-01-02"))
	if err != nil {
		r.log.Error("Failed to complete past appointments", zap.Error(err))
		return 0, fmt.Errorf("complete past appointments: %w", err)
	}

	return result.RowsAffected(), nil
}
