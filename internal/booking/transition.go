package booking

import (
	"context"
	"slices"
	"strings"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
)

type Action string

const (
	ActionConfirm       Action = "confirm"
	ActionDecline       Action = "decline"
	ActionCancel        Action = "cancel"
	ActionOverride      Action = "override"
	ActionMarkPaid      Action = "mark_paid"
	ActionUpdatePayment Action = "update_payment"
)

// allowedFrom lists the source statuses of the named status transitions.
// Override and payment actions apply from any status.
var allowedFrom = map[Action][]entity.AppointmentStatus{
	ActionConfirm: {entity.AppointmentPending},
	ActionDecline: {entity.AppointmentPending, entity.AppointmentConfirmed},
	ActionCancel:  {entity.AppointmentPending, entity.AppointmentConfirmed},
}

var targetStatus = map[Action]entity.AppointmentStatus{
	ActionConfirm: entity.AppointmentConfirmed,
	ActionDecline: entity.AppointmentDeclined,
	ActionCancel:  entity.AppointmentCancelled,
}

// Store is the slice of the appointment repository the state machine writes through
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus, from ...entity.AppointmentStatus) (int64, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, reference *string) (int64, error)
	AppendDeclineNote(ctx context.Context, id uuid.UUID, reason string, from ...entity.AppointmentStatus) (int64, error)
}

type Actor struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

// Transition is one requested change to an appointment
type Transition struct {
	Action        Action
	AppointmentID uuid.UUID
	Actor         Actor

	Status           entity.AppointmentStatus // override target
	Reason           string                   // decline
	PaymentStatus    entity.PaymentStatus     // update_payment
	PaymentReference *string                  // update_payment
}

// Result describes an applied transition
type Result struct {
	Previous      *entity.Appointment
	Status        entity.AppointmentStatus
	PaymentStatus entity.PaymentStatus
}

// StatusChanged reports whether the appointment status moved
func (r *Result) StatusChanged() bool {
	return r.Previous.Status != r.Status
}

func (t Transition) validate() error {
	switch t.Action {
	case ActionConfirm, ActionCancel, ActionMarkPaid:
	case ActionDecline:
		if strings.TrimSpace(t.Reason) == "" {
			return apperror.InvalidInput("Decline message is required.")
		}
	case ActionOverride:
		if !t.Status.Valid() {
			return apperror.InvalidInput("Invalid status value.")
		}
	case ActionUpdatePayment:
		if !t.PaymentStatus.Valid() {
			return apperror.InvalidInput("Invalid payment status value.")
		}
	default:
		return apperror.InvalidInput("Unknown appointment action.")
	}

	if t.Action != ActionCancel && !t.Actor.Role.IsStaff() {
		return apperror.Forbidden("Access denied. Staff or admin only.")
	}
	return nil
}

// Apply checks the transition against the current row and writes it with a
// from-state guard. A row that changed in between yields a Conflict error.
func Apply(ctx context.Context, store Store, t Transition) (*Result, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	current, err := store.FindByID(ctx, t.AppointmentID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if current == nil {
		return nil, apperror.NotFound("Appointment")
	}

	if t.Action == ActionCancel && !t.Actor.Role.IsStaff() && current.UserID != t.Actor.UserID {
		return nil, apperror.Forbidden("You can only cancel your own appointments.")
	}

	result := &Result{
		Previous:      current,
		Status:        current.Status,
		PaymentStatus: current.PaymentStatus,
	}

	var affected int64
	switch t.Action {
	case ActionConfirm, ActionCancel, ActionDecline:
		from := allowedFrom[t.Action]
		if !slices.Contains(from, current.Status) {
			return nil, invalidTransition(t.Action, current.Status)
		}
		// the guard is the status we observed, so a concurrent change loses
		guard := []entity.AppointmentStatus{current.Status}
		if t.Action == ActionDecline {
			affected, err = store.AppendDeclineNote(ctx, current.ID, strings.TrimSpace(t.Reason), guard...)
		} else {
			affected, err = store.UpdateStatus(ctx, current.ID, targetStatus[t.Action], guard...)
		}
		result.Status = targetStatus[t.Action]

	case ActionOverride:
		affected, err = store.UpdateStatus(ctx, current.ID, t.Status, current.Status)
		result.Status = t.Status

	case ActionMarkPaid:
		affected, err = store.UpdatePaymentStatus(ctx, current.ID, entity.PaymentPaid, nil)
		result.PaymentStatus = entity.PaymentPaid

	case ActionUpdatePayment:
		affected, err = store.UpdatePaymentStatus(ctx, current.ID, t.PaymentStatus, t.PaymentReference)
		result.PaymentStatus = t.PaymentStatus
	}

	if err != nil {
		return nil, apperror.Classify(err)
	}
	if affected == 0 {
		if t.Action == ActionMarkPaid || t.Action == ActionUpdatePayment {
			return nil, apperror.NotFound("Appointment")
		}
		return nil, apperror.Conflict("Appointment was modified by another request. Please reload and try again.")
	}

	return result, nil
}

func invalidTransition(action Action, from entity.AppointmentStatus) error {
	if action == ActionCancel && from == entity.AppointmentCancelled {
		return apperror.InvalidTransition("Appointment is already cancelled.")
	}
	return apperror.InvalidTransition("Cannot " + string(action) + " an appointment that is " + string(from) + ".")
}
