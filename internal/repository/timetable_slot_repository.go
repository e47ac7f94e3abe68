package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hangil-edu/timetable-api/internal/models"
)

// TimetableSlotRepository manages flattened slots of stored timetables.
type TimetableSlotRepository struct {
	db *sqlx.DB
}

// NewTimetableSlotRepository builds the repository.
func NewTimetableSlotRepository(db *sqlx.DB) *TimetableSlotRepository {
	return &TimetableSlotRepository{db: db}
}

func (r *TimetableSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch stores the slots of a freshly saved timetable version.
func (r *TimetableSlotRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error {
	if len(slots) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO timetable_slots (id, timetable_id, day_group, day, period, class_id, teacher_name, role, start_time, is_exam, created_at)
VALUES (:id, :timetable_id, :day_group, :day, :period, :class_id, :teacher_name, :role, :start_time, :is_exam, :created_at)`

	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, slot); err != nil {
			return fmt.Errorf("insert timetable slot: %w", err)
		}
	}
	return nil
}

// ListByTimetable returns slots ordered by day/period for a timetable.
func (r *TimetableSlotRepository) ListByTimetable(ctx context.Context, timetableID string) ([]models.TimetableSlot, error) {
	const query = `SELECT id, timetable_id, day_group, day, period, class_id, teacher_name, role, start_time, is_exam, created_at
FROM timetable_slots WHERE timetable_id = $1 ORDER BY day ASC, period ASC, class_id ASC`
	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, query, timetableID); err != nil {
		return nil, fmt.Errorf("list timetable slots: %w", err)
	}
	return slots, nil
}

// DeleteByTimetable removes all slots of a timetable version.
func (r *TimetableSlotRepository) DeleteByTimetable(ctx context.Context, exec sqlx.ExtContext, timetableID string) error {
	target := r.exec(exec)
	const query = `DELETE FROM timetable_slots WHERE timetable_id = $1`
	if _, err := target.ExecContext(ctx, query, timetableID); err != nil {
		return fmt.Errorf("delete timetable slots: %w", err)
	}
	return nil
}
