package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hangil-edu/timetable-api/internal/models"
)

// RosterRepository persists the teacher pools, their availability constraints
// and homeroom pins that feed generation requests.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// ListTeachers returns active pool members in their configured scan order.
func (r *RosterRepository) ListTeachers(ctx context.Context, pool string) ([]models.RosterTeacher, error) {
	const query = `SELECT id, name, role, pool, position, active, created_at, updated_at
FROM roster_teachers WHERE pool = $1 AND active = TRUE ORDER BY position ASC, name ASC`
	var teachers []models.RosterTeacher
	if err := r.db.SelectContext(ctx, &teachers, query, pool); err != nil {
		return nil, fmt.Errorf("list roster teachers: %w", err)
	}
	return teachers, nil
}

// UpsertTeacher creates or replaces a pool member keyed by name.
func (r *RosterRepository) UpsertTeacher(ctx context.Context, teacher *models.RosterTeacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	const query = `INSERT INTO roster_teachers (id, name, role, pool, position, active, created_at, updated_at)
		VALUES (:id, :name, :role, :pool, :position, :active, :created_at, :updated_at)
		ON CONFLICT (name) DO UPDATE
		SET role = EXCLUDED.role,
		    pool = EXCLUDED.pool,
		    position = EXCLUDED.position,
		    active = EXCLUDED.active,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("upsert roster teacher: %w", err)
	}
	return nil
}

// DeleteTeacher removes a pool member by name.
func (r *RosterRepository) DeleteTeacher(ctx context.Context, name string) error {
	const query = `DELETE FROM roster_teachers WHERE name = $1`
	result, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("delete roster teacher: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("roster teacher rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListConstraints returns every stored availability record.
func (r *RosterRepository) ListConstraints(ctx context.Context) ([]models.RosterConstraint, error) {
	const query = `SELECT id, teacher_name, homeroom_disabled, max_homerooms, unavailable, created_at, updated_at
FROM roster_constraints ORDER BY teacher_name ASC`
	var constraints []models.RosterConstraint
	if err := r.db.SelectContext(ctx, &constraints, query); err != nil {
		return nil, fmt.Errorf("list roster constraints: %w", err)
	}
	return constraints, nil
}

// UpsertConstraint creates or updates a teacher's availability record.
func (r *RosterRepository) UpsertConstraint(ctx context.Context, constraint *models.RosterConstraint) error {
	if constraint.ID == "" {
		constraint.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if constraint.CreatedAt.IsZero() {
		constraint.CreatedAt = now
	}
	constraint.UpdatedAt = now
	if len(constraint.Unavailable) == 0 {
		constraint.Unavailable = []byte("[]")
	}

	const query = `INSERT INTO roster_constraints (id, teacher_name, homeroom_disabled, max_homerooms, unavailable, created_at, updated_at)
		VALUES (:id, :teacher_name, :homeroom_disabled, :max_homerooms, :unavailable, :created_at, :updated_at)
		ON CONFLICT (teacher_name) DO UPDATE
		SET homeroom_disabled = EXCLUDED.homeroom_disabled,
		    max_homerooms = EXCLUDED.max_homerooms,
		    unavailable = EXCLUDED.unavailable,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, constraint); err != nil {
		return fmt.Errorf("upsert roster constraint: %w", err)
	}
	return nil
}

// DeleteConstraint removes the availability record of a teacher.
func (r *RosterRepository) DeleteConstraint(ctx context.Context, teacherName string) error {
	const query = `DELETE FROM roster_constraints WHERE teacher_name = $1`
	result, err := r.db.ExecContext(ctx, query, teacherName)
	if err != nil {
		return fmt.Errorf("delete roster constraint: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("roster constraint rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListFixedHomerooms returns all homeroom pins keyed by class.
func (r *RosterRepository) ListFixedHomerooms(ctx context.Context) ([]models.FixedHomeroom, error) {
	const query = `SELECT id, class_id, teacher_name, created_at FROM fixed_homerooms ORDER BY class_id ASC`
	var pins []models.FixedHomeroom
	if err := r.db.SelectContext(ctx, &pins, query); err != nil {
		return nil, fmt.Errorf("list fixed homerooms: %w", err)
	}
	return pins, nil
}

// PinHomeroom fixes a teacher to a class, replacing any previous pin.
func (r *RosterRepository) PinHomeroom(ctx context.Context, pin *models.FixedHomeroom) error {
	if pin.ID == "" {
		pin.ID = uuid.NewString()
	}
	if pin.CreatedAt.IsZero() {
		pin.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO fixed_homerooms (id, class_id, teacher_name, created_at)
		VALUES (:id, :class_id, :teacher_name, :created_at)
		ON CONFLICT (class_id) DO UPDATE
		SET teacher_name = EXCLUDED.teacher_name`
	if _, err := r.db.NamedExecContext(ctx, query, pin); err != nil {
		return fmt.Errorf("pin homeroom: %w", err)
	}
	return nil
}

// UnpinHomeroom removes the pin of a class.
func (r *RosterRepository) UnpinHomeroom(ctx context.Context, classID string) error {
	const query = `DELETE FROM fixed_homerooms WHERE class_id = $1`
	result, err := r.db.ExecContext(ctx, query, classID)
	if err != nil {
		return fmt.Errorf("unpin homeroom: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fixed homeroom rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
