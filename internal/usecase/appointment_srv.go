package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-booking/internal/booking"
	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/pkg/apperror"
	"clinic-booking/pkg/cache"
	"clinic-booking/pkg/metrics"
	"clinic-booking/pkg/notify"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentService interface {
	// Patient endpoints
	Book(ctx context.Context, patientID uuid.UUID, req *request.CreateAppointmentRequest) (*response.CreateAppointmentResponse, error)
	ListMine(ctx context.Context, patientID uuid.UUID) ([]response.AppointmentResponse, error)
	Get(ctx context.Context, actor booking.Actor, id uuid.UUID) (*response.AppointmentResponse, error)
	Cancel(ctx context.Context, actor booking.Actor, id uuid.UUID) error

	// Public availability
	BookedSlots(ctx context.Context, req *request.SlotQuery) (*response.BookedSlotsResponse, error)
	AvailableSlots(ctx context.Context, req *request.SlotQuery) (*response.AvailableSlotsResponse, error)

	// Staff endpoints
	ListAll(ctx context.Context) ([]response.AppointmentResponse, error)
	ListByMonth(ctx context.Context, req *request.MonthQuery) ([]response.AppointmentResponse, error)
	Confirm(ctx context.Context, actor booking.Actor, id uuid.UUID) error
	Decline(ctx context.Context, actor booking.Actor, id uuid.UUID, req *request.DeclineRequest) error
	UpdateStatus(ctx context.Context, actor booking.Actor, id uuid.UUID, req *request.UpdateStatusRequest) error
	MarkPaid(ctx context.Context, actor booking.Actor, id uuid.UUID) error
	UpdatePayment(ctx context.Context, actor booking.Actor, id uuid.UUID, req *request.UpdatePaymentRequest) error
	Delete(ctx context.Context, actor booking.Actor, id uuid.UUID) error

	// Background jobs
	CompletePast(ctx context.Context, before time.Time) (int64, error)
}

type appointmentService struct {
	repo     *repository.Repository
	policy   booking.Policy
	grid     []string
	cache    cache.SlotCache
	metrics  *metrics.Metrics
	notifier notify.Notifier
	log      *zap.Logger
}

func NewAppointmentService(
	repo *repository.Repository,
	cfg utils.BookingConfig,
	slotCache cache.SlotCache,
	m *metrics.Metrics,
	notifier notify.Notifier,
	log *zap.Logger,
) AppointmentService {
	log = log.With(zap.String("service", "appointment"))

	step := time.Duration(cfg.SlotMinutes) * time.Minute
	grid, err := booking.GenerateSlots(cfg.OpenTime, cfg.CloseTime, step)
	if err != nil {
		log.Warn("Invalid slot grid config, using clinic defaults", zap.Error(err))
		grid, _ = booking.GenerateSlots(booking.DefaultOpenTime, booking.DefaultCloseTime, booking.DefaultSlotMinutes*time.Minute)
	}

	return &appointmentService{
		repo: repo,
		policy: booking.Policy{
			DailyLimit:       cfg.DailyLimit,
			CountAllStatuses: cfg.CountAllStatuses,
			SlotActiveOnly:   cfg.SlotActiveOnly,
		},
		grid:     grid,
		cache:    slotCache,
		metrics:  m,
		notifier: notifier,
		log:      log,
	}
}

func (s *appointmentService) Book(ctx context.Context, patientID uuid.UUID, req *request.CreateAppointmentRequest) (*response.CreateAppointmentResponse, error) {
	// 1. Normalize input
	date, err := utils.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, s.reject(apperror.InvalidInput("appointment_date must be a valid date (YYYY-MM-DD)"))
	}
	slot, err := utils.NormalizeSlotTime(req.AppointmentTime)
	if err != nil {
		return nil, s.reject(apperror.InvalidInput("appointment_time must be a valid time (HH:MM or HH:MM:SS)"))
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, s.reject(apperror.InvalidInput("Invalid doctor ID"))
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, s.reject(apperror.InvalidInput("Invalid service ID"))
	}

	// 2. Referenced doctor and service must exist
	doctor, err := s.repo.Doctor.FindByID(ctx, doctorID)
	if err != nil {
		return nil, s.reject(apperror.Storage(err))
	}
	if doctor == nil {
		return nil, s.reject(apperror.NotFound("Doctor"))
	}
	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, s.reject(apperror.Storage(err))
	}
	if service == nil {
		return nil, s.reject(apperror.NotFound("Service"))
	}

	appointment := &entity.Appointment{
		UserID:    patientID,
		DoctorID:  doctorID,
		ServiceID: serviceID,
		Date:      date.Format(utils.DateLayout),
		Time:      slot,
		Notes:     trimmedNote(req.Notes),
	}

	// 3. Admit and insert while holding the patient-day lock
	err = s.repo.Appointment.InTx(ctx, func(tx repository.AppointmentRepository) error {
		if err := tx.LockPatientDay(ctx, patientID, appointment.Date); err != nil {
			return err
		}

		policyReq := booking.Request{
			PatientID: patientID,
			DoctorID:  doctorID,
			Date:      appointment.Date,
			Time:      appointment.Time,
		}
		if err := s.policy.Validate(ctx, tx, policyReq); err != nil {
			return err
		}

		_, err := tx.Create(ctx, appointment)
		return err
	})
	if err != nil {
		err = s.reject(err)
		if apperror.KindOf(err) == apperror.KindStorage {
			s.log.Error("Failed to book appointment",
				zap.Error(err),
				zap.String("user_id", patientID.String()),
				zap.String("doctor_id", doctorID.String()),
				zap.String("date", appointment.Date),
				zap.String("time", appointment.Time),
			)
		} else {
			s.log.Info("Appointment rejected",
				zap.String("reason", apperror.KindOf(err).String()),
				zap.String("user_id", patientID.String()),
				zap.String("doctor_id", doctorID.String()),
				zap.String("date", appointment.Date),
				zap.String("time", appointment.Time),
			)
		}
		return nil, err
	}

	s.metrics.ObserveBooking(metrics.ResultBooked)
	s.invalidate(ctx, doctorID, appointment.Date)

	s.log.Info("Appointment booked",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("user_id", patientID.String()),
		zap.String("doctor_id", doctorID.String()),
		zap.String("date", appointment.Date),
		zap.String("time", appointment.Time),
	)

	if detail := s.detail(ctx, appointment.ID); detail != nil {
		s.notifier.Notify(notify.AppointmentBooked(
			detail.PatientEmail,
			patientName(detail),
			detail.DoctorName,
			detail.Date,
			detail.Time,
		))
	}

	return &response.CreateAppointmentResponse{AppointmentID: appointment.ID.String()}, nil
}

// reject records the failed attempt and returns err as a typed error
func (s *appointmentService) reject(err error) error {
	err = appErr(err)

	result := metrics.ResultRejected
	switch apperror.KindOf(err) {
	case apperror.KindDailyLimitExceeded:
		result = metrics.ResultDailyLimitExceeded
	case apperror.KindSlotUnavailable:
		result = metrics.ResultSlotUnavailable
	case apperror.KindStorage:
		result = metrics.ResultError
	}
	s.metrics.ObserveBooking(result)

	return err
}

func (s *appointmentService) ListMine(ctx context.Context, patientID uuid.UUID) ([]response.AppointmentResponse, error) {
	details, err := s.repo.Appointment.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return response.AppointmentDetailsToResponse(details), nil
}

func (s *appointmentService) ListAll(ctx context.Context) ([]response.AppointmentResponse, error) {
	details, err := s.repo.Appointment.FindAll(ctx)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return response.AppointmentDetailsToResponse(details), nil
}

func (s *appointmentService) ListByMonth(ctx context.Context, req *request.MonthQuery) ([]response.AppointmentResponse, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, apperror.InvalidInput("month must be between 1 and 12")
	}

	details, err := s.repo.Appointment.FindByMonth(ctx, req.Month, req.Year)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return response.AppointmentDetailsToResponse(details), nil
}

func (s *appointmentService) Get(ctx context.Context, actor booking.Actor, id uuid.UUID) (*response.AppointmentResponse, error) {
	detail, err := s.repo.Appointment.FindDetailByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if detail == nil {
		return nil, apperror.NotFound("Appointment")
	}
	if !actor.Role.IsStaff() && detail.UserID != actor.UserID {
		return nil, apperror.Forbidden("You can only view your own appointments.")
	}

	resp := response.AppointmentDetailToResponse(detail)
	return &resp, nil
}

func (s *appointmentService) BookedSlots(ctx context.Context, req *request.SlotQuery) (*response.BookedSlotsResponse, error) {
	doctorID, date, err := parseSlotQuery(req)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookedSlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	return &response.BookedSlotsResponse{BookedSlots: booked}, nil
}

func (s *appointmentService) AvailableSlots(ctx context.Context, req *request.SlotQuery) (*response.AvailableSlotsResponse, error) {
	doctorID, date, err := parseSlotQuery(req)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookedSlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	return &response.AvailableSlotsResponse{
		DoctorID: doctorID.String(),
		Date:     date,
		Slots:    booking.MarkBooked(s.grid, booked),
	}, nil
}

// bookedSlots reads through the slot cache. Cache failures degrade to a database read.
func (s *appointmentService) bookedSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if s.cache == nil {
		return s.loadBookedSlots(ctx, doctorID, date)
	}

	slots, ok, err := s.cache.GetBookedSlots(ctx, doctorID, date)
	if err != nil {
		s.log.Warn("Slot cache read failed", zap.Error(err), zap.String("doctor_id", doctorID.String()))
	} else if ok {
		return slots, nil
	}

	// the generation is taken before the query so a booking committed in
	// between keeps the stale list out of the cache
	generation, genErr := s.cache.Generation(ctx, doctorID, date)
	if genErr != nil {
		s.log.Warn("Slot cache generation read failed", zap.Error(genErr), zap.String("doctor_id", doctorID.String()))
	}

	slots, err = s.loadBookedSlots(ctx, doctorID, date)
	if err != nil || genErr != nil {
		return slots, err
	}

	stored, err := s.cache.SetBookedSlots(ctx, doctorID, date, generation, slots)
	if err != nil {
		s.log.Warn("Slot cache write failed", zap.Error(err), zap.String("doctor_id", doctorID.String()))
	} else if !stored {
		s.log.Debug("Slot cache write skipped after invalidation",
			zap.String("doctor_id", doctorID.String()),
			zap.String("date", date),
		)
	}
	return slots, nil
}

func (s *appointmentService) loadBookedSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	slots, err := s.repo.Appointment.GetBookedSlots(ctx, doctorID, date, s.policy.SlotStatuses()...)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return slots, nil
}

func parseSlotQuery(req *request.SlotQuery) (uuid.UUID, string, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return uuid.Nil, "", apperror.InvalidInput("doctor_id must be a valid UUID")
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return uuid.Nil, "", apperror.InvalidInput("date must be a valid date (YYYY-MM-DD)")
	}
	return doctorID, date.Format(utils.DateLayout), nil
}

func (s *appointmentService) Confirm(ctx context.Context, actor booking.Actor, id uuid.UUID) error {
	_, err := s.apply(ctx, booking.Transition{
		Action:        booking.ActionConfirm,
		AppointmentID: id,
		Actor:         actor,
	})
	return err
}

func (s *appointmentService) Cancel(ctx context.Context, actor booking.Actor, id uuid.UUID) error {
	_, err := s.apply(ctx, booking.Transition{
		Action:        booking.ActionCancel,
		AppointmentID: id,
		Actor:         actor,
	})
	return err
}

func (s *appointmentService) Decline(ctx context.Context, actor booking.Actor, id uuid.UUID, req *request.DeclineRequest) error {
	_, err := s.apply(ctx, booking.Transition{
		Action:        booking.ActionDecline,
		AppointmentID: id,
		Actor:         actor,
		Reason:        req.DeclineMessage,
	})
	return err
}

func (s *appointmentService) UpdateStatus(ctx context.Context, actor booking.Actor, id uuid.UUID, req *request.UpdateStatusRequest) error {
	result, err := s.apply(ctx, booking.Transition{
		Action:        booking.ActionOverride,
		AppointmentID: id,
		Actor:         actor,
		Status:        entity.AppointmentStatus(strings.ToLower(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		return err
	}

	// status overrides bypass the named transitions, keep an audit line
	s.log.Info("Appointment status overridden",
		zap.String("appointment_id", id.String()),
		zap.String("actor_id", actor.UserID.String()),
		zap.String("actor_role", string(actor.Role)),
		zap.String("previous_status", string(result.Previous.Status)),
		zap.String("status", string(result.Status)),
	)
	return nil
}

func (s *appointmentService) MarkPaid(ctx context.Context, actor booking.Actor, id uuid.UUID) error {
	_, err := s.apply(ctx, booking.Transition{
		Action:        booking.ActionMarkPaid,
		AppointmentID: id,
		Actor:         actor,
	})
	return err
}

func (s *appointmentService) UpdatePayment(ctx context.Context, actor booking.Actor, id uuid.UUID, req *request.UpdatePaymentRequest) error {
	_, err := s.apply(ctx, booking.Transition{
		Action:           booking.ActionUpdatePayment,
		AppointmentID:    id,
		Actor:            actor,
		PaymentStatus:    entity.PaymentStatus(strings.ToLower(strings.TrimSpace(req.PaymentStatus))),
		PaymentReference: req.PaymentReference,
	})
	return err
}

// apply runs one state machine transition and its side effects
func (s *appointmentService) apply(ctx context.Context, t booking.Transition) (*booking.Result, error) {
	result, err := booking.Apply(ctx, s.repo.Appointment, t)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindStorage {
			s.log.Error("Failed to apply appointment transition",
				zap.Error(err),
				zap.String("action", string(t.Action)),
				zap.String("appointment_id", t.AppointmentID.String()),
			)
		}
		return nil, err
	}

	s.metrics.ObserveTransition(string(t.Action))
	s.invalidate(ctx, result.Previous.DoctorID, result.Previous.Date)

	s.log.Info("Appointment updated",
		zap.String("action", string(t.Action)),
		zap.String("appointment_id", t.AppointmentID.String()),
		zap.String("status", string(result.Status)),
		zap.String("payment_status", string(result.PaymentStatus)),
	)

	if result.StatusChanged() {
		if detail := s.detail(ctx, t.AppointmentID); detail != nil {
			note := ""
			if t.Action == booking.ActionDecline {
				note = strings.TrimSpace(t.Reason)
			}
			s.notifier.Notify(notify.AppointmentStatusChanged(
				detail.PatientEmail,
				patientName(detail),
				string(result.Status),
				detail.Date,
				detail.Time,
				note,
			))
		}
	}

	return result, nil
}

func (s *appointmentService) Delete(ctx context.Context, actor booking.Actor, id uuid.UUID) error {
	if actor.Role != entity.RoleAdmin {
		return apperror.Forbidden("Access denied. Admin only.")
	}

	appointment, err := s.repo.Appointment.FindByID(ctx, id)
	if err != nil {
		return apperror.Storage(err)
	}
	if appointment == nil {
		return apperror.NotFound("Appointment")
	}

	affected, err := s.repo.Appointment.Delete(ctx, id)
	if err != nil {
		s.log.Error("Failed to delete appointment", zap.Error(err), zap.String("appointment_id", id.String()))
		return apperror.Storage(err)
	}
	if affected == 0 {
		return apperror.NotFound("Appointment")
	}

	s.invalidate(ctx, appointment.DoctorID, appointment.Date)
	s.log.Info("Appointment deleted",
		zap.String("appointment_id", id.String()),
		zap.String("actor_id", actor.UserID.String()),
	)
	return nil
}

func (s *appointmentService) CompletePast(ctx context.Context, before time.Time) (int64, error) {
	affected, err := s.repo.Appointment.CompletePast(ctx, before)
	if err != nil {
		return 0, apperror.Storage(err)
	}
	if affected > 0 {
		s.log.Info("Past appointments completed", zap.Int64("count", affected))
	}
	return affected, nil
}

func (s *appointmentService) invalidate(ctx context.Context, doctorID uuid.UUID, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, doctorID, date); err != nil {
		s.log.Warn("Slot cache invalidation failed",
			zap.Error(err),
			zap.String("doctor_id", doctorID.String()),
			zap.String("date", date),
		)
	}
}

// detail loads the joined row for notifications; failures only skip the notification
func (s *appointmentService) detail(ctx context.Context, id uuid.UUID) *entity.AppointmentDetail {
	detail, err := s.repo.Appointment.FindDetailByID(ctx, id)
	if err != nil {
		s.log.Warn("Failed to load appointment for notification", zap.Error(err), zap.String("appointment_id", id.String()))
		return nil
	}
	return detail
}

func patientName(d *entity.AppointmentDetail) string {
	return strings.TrimSpace(d.PatientFirstName + " " + d.PatientLastName)
}

func trimmedNote(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
