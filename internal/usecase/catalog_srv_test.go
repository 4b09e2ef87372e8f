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

func TestCatalogListsDoctorsAndServices(t *testing.T) {
	f := newFixture(t)
	f.addDoctor("Dr. Grey")
	f.addDoctor("Dr. Adams")
	f.addService("Checkup", 50)

	catalog, err := f.svc.Catalog.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Doctors, 2)
	assert.Equal(t, "Dr. Adams", catalog.Doctors[0].Name)
	require.Len(t, catalog.Services, 1)
	assert.Equal(t, 50.0, catalog.Services[0].Price)
}

func TestDoctorCrud(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Doctor.Create(context.Background(), &request.DoctorRequest{Name: " Dr. Who ", Specialization: "Time"})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Who", created.Name)
	assert.Equal(t, entity.DefaultAvailability, created.Availability)

	id := uuid.MustParse(created.ID)
	hours := "Weekends"
	updated, err := f.svc.Doctor.Update(context.Background(), id, &request.DoctorRequest{Name: "Dr. Who", Specialization: "Space", Availability: &hours})
	require.NoError(t, err)
	assert.Equal(t, "Space", updated.Specialization)
	assert.Equal(t, "Weekends", updated.Availability)

	require.NoError(t, f.svc.Doctor.Delete(context.Background(), id))

	_, err = f.svc.Doctor.Get(context.Background(), id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	err = f.svc.Doctor.Delete(context.Background(), id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestOfferingCrud(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Offering.Create(context.Background(), &request.ServiceRequest{Name: "X-Ray", Price: 120})
	require.NoError(t, err)
	assert.Equal(t, 30, created.DurationMins)

	id := uuid.MustParse(created.ID)
	updated, err := f.svc.Offering.Update(context.Background(), id, &request.ServiceRequest{Name: "X-Ray", Price: 90, DurationMins: 15})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.Price)
	assert.Equal(t, 15, updated.DurationMins)

	_, err = f.svc.Offering.Update(context.Background(), uuid.New(), &request.ServiceRequest{Name: "Nope"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	list, err := f.svc.Offering.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
