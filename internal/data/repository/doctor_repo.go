package repository

import (
	"context"
	"errors"
	"fmt"

	"clinic-booking/internal/data/entity"
	"clinic-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context) ([]*entity.Doctor, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, doctor *entity.Doctor) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type doctorRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDoctorRepository(db database.PgxIface, log *zap.Logger) DoctorRepository {
	return &doctorRepository{
		db:  db,
		log: log.With(zap.String("repository", "doctor")),
	}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	query := `
		INSERT INTO doctors (id, name, specialization, email, phone, availability, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Specialization,
		doctor.Email,
		doctor.Phone,
		doctor.Availability,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create doctor",
			zap.Error(err),
			zap.String("name", doctor.Name),
		)
		return fmt.Errorf("create doctor %s: %w", doctor.Name, err)
	}

	return nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	query := `
		SELECT id, name, specialization, email, phone, availability, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`

	var doctor entity.Doctor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Specialization,
		&doctor.Email,
		&doctor.Phone,
		&doctor.Availability,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find doctor by ID",
			zap.Error(err),
			zap.String("doctor_id", id.String()),
		)
		return nil, fmt.Errorf("find doctor by ID %s: %w", id.String(), err)
	}

	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context) ([]*entity.Doctor, error) {
	query := `
		SELECT id, name, specialization, email, phone, availability, created_at, updated_at
		FROM doctors
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to get all doctors", zap.Error(err))
		return nil, fmt.Errorf("find all doctors: %w", err)
	}
	defer rows.Close()

	doctors := []*entity.Doctor{}
	for rows.Next() {
		var doctor entity.Doctor
		err := rows.Scan(
			&doctor.ID,
			&doctor.Name,
			&doctor.Specialization,
			&doctor.Email,
			&doctor.Phone,
			&doctor.Availability,
			&doctor.CreatedAt,
			&doctor.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan doctor row", zap.Error(err))
			return nil, fmt.Errorf("scan doctor row: %w", err)
		}
		doctors = append(doctors, &doctor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctor rows: %w", err)
	}

	return doctors, nil
}

func (r *doctorRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&count); err != nil {
		r.log.Error("Database error counting doctors", zap.Error(err))
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return count, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) (int64, error) {
	query := `
		UPDATE doctors
		SET name = $2, specialization = $3, email = $4, phone = $5, availability = $6, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Specialization,
		doctor.Email,
		doctor.Phone,
		doctor.Availability,
	)
	if err != nil {
		r.log.Error("Failed to update doctor",
			zap.Error(err),
			zap.String("doctor_id", doctor.ID.String()),
		)
		return 0, fmt.Errorf("update doctor %s: %w", doctor.ID.String(), err)
	}

	return result.RowsAffected(), nil
}

// Delete removes the doctor together with their appointments
func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete doctor",
			zap.Error(err),
			zap.String("doctor_id", id.String()),
		)
		return 0, fmt.Errorf("delete doctor %s: %w", id.String(), err)
	}

	return result.RowsAffected(), nil
}
