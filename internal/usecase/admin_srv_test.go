package usecase

import (
	"context"
	"testing"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/dto/request"
	"clinic-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	f := newFixture(t)
	patient := f.addPatient(t, "ana@example.com")
	f.addPatient(t, "ben@example.com")
	f.addUser(t, "staff@example.com", entity.RoleStaff)
	f.addUser(t, "admin@example.com", entity.RoleAdmin)
	appt := seedPending(f, patient)
	_, err := f.appointments.UpdateStatus(context.Background(), appt.ID, entity.AppointmentConfirmed)
	require.NoError(t, err)
	seedPending(f, patient)

	stats, err := f.svc.Admin.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalPatients)
	assert.Equal(t, int64(1), stats.TotalStaff)
	assert.Equal(t, int64(1), stats.TotalAdmins)
	assert.Equal(t, int64(2), stats.TotalAppointments)
	assert.Equal(t, int64(1), stats.PendingAppointments)
	assert.Equal(t, int64(1), stats.ConfirmedAppointments)
	assert.Equal(t, int64(2), stats.TotalDoctors)
	assert.Equal(t, int64(2), stats.TotalServices)
}

func TestListUsersPaginates(t *testing.T) {
	f := newFixture(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		f.addPatient(t, email)
	}

	page, err := f.svc.Admin.ListUsers(context.Background(), &request.PaginatedRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "c@example.com", page.Data[0].Email)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestCreateStaff(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Admin.CreateStaff(context.Background(), &request.CreateStaffRequest{
		FirstName: "Sam",
		LastName:  "Desk",
		Email:     "sam@example.com",
		Password:  "secret123",
		Role:      "staff",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, resp.Role)

	_, err = f.svc.Admin.CreateStaff(context.Background(), &request.CreateStaffRequest{
		FirstName: "Pat",
		LastName:  "Ient",
		Email:     "pat@example.com",
		Password:  "secret123",
		Role:      "patient",
	})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestUpdateRole(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", entity.RoleAdmin)
	patient := f.addPatient(t, "ana@example.com")

	err := f.svc.Admin.UpdateRole(context.Background(), admin.ID, admin.ID, "staff")
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	err = f.svc.Admin.UpdateRole(context.Background(), admin.ID, patient.ID, "wizard")
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	require.NoError(t, f.svc.Admin.UpdateRole(context.Background(), admin.ID, patient.ID, "staff"))
	stored, _ := f.users.FindByID(context.Background(), patient.ID)
	assert.Equal(t, entity.RoleStaff, stored.Role)

	err = f.svc.Admin.UpdateRole(context.Background(), admin.ID, uuid.New(), "staff")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	f := newFixture(t)
	admin := f.addUser(t, "admin@example.com", entity.RoleAdmin)
	f.addPatient(t, "ana@example.com")

	resp, err := f.svc.Auth.Login(context.Background(), &request.LoginRequest{Email: "ana@example.com", Password: "secret123"}, SessionMeta{})
	require.NoError(t, err)
	userID := uuid.MustParse(resp.UserID)

	err = f.svc.Admin.DeleteUser(context.Background(), admin.ID, admin.ID)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	require.NoError(t, f.svc.Admin.DeleteUser(context.Background(), admin.ID, userID))

	stored, _ := f.users.FindByID(context.Background(), userID)
	assert.Nil(t, stored)
	for _, s := range f.sessions.rows {
		if s.UserID == userID {
			assert.NotNil(t, s.RevokedAt)
		}
	}
}

func TestCreateAdminCommand(t *testing.T) {
	f := newFixture(t)

	user, err := CreateAdmin(context.Background(), f.users, "Root", "Admin", "root@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)

	_, err = CreateAdmin(context.Background(), f.users, "Root", "Admin", "root@example.com", "secret123")
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}
