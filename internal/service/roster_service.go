package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/hangil-edu/timetable-api/internal/dto"
	"github.com/hangil-edu/timetable-api/internal/models"
	appErrors "github.com/hangil-edu/timetable-api/pkg/errors"
)

type rosterRepository interface {
	ListTeachers(ctx context.Context, pool string) ([]models.RosterTeacher, error)
	UpsertTeacher(ctx context.Context, teacher *models.RosterTeacher) error
	DeleteTeacher(ctx context.Context, name string) error
	ListConstraints(ctx context.Context) ([]models.RosterConstraint, error)
	UpsertConstraint(ctx context.Context, constraint *models.RosterConstraint) error
	DeleteConstraint(ctx context.Context, teacherName string) error
	ListFixedHomerooms(ctx context.Context) ([]models.FixedHomeroom, error)
	PinHomeroom(ctx context.Context, pin *models.FixedHomeroom) error
	UnpinHomeroom(ctx context.Context, classID string) error
}

// RosterService manages the stored teacher pools feeding generation runs.
type RosterService struct {
	roster    rosterRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService wires roster dependencies.
func NewRosterService(roster rosterRepository, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{roster: roster, validator: validate, logger: logger}
}

// ListTeachers returns a pool's members in scan order.
func (s *RosterService) ListTeachers(ctx context.Context, pool string) ([]models.RosterTeacher, error) {
	if pool != models.PoolHomeroom && pool != models.PoolForeign {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pool must be homeroom or foreign")
	}
	teachers, err := s.roster.ListTeachers(ctx, pool)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster teachers")
	}
	return teachers, nil
}

// UpsertTeacher creates or replaces a pool member.
func (s *RosterService) UpsertTeacher(ctx context.Context, req dto.UpsertTeacherRequest) (*models.RosterTeacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster teacher payload")
	}
	if req.Pool == models.PoolForeign && req.Role != "F" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "foreign pool members must carry role F")
	}
	if req.Pool == models.PoolHomeroom && req.Role == "F" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "homeroom pool members must carry role H or K")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	teacher := &models.RosterTeacher{
		Name:     req.Name,
		Role:     req.Role,
		Pool:     req.Pool,
		Position: req.Position,
		Active:   active,
	}
	if err := s.roster.UpsertTeacher(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert roster teacher")
	}
	return teacher, nil
}

// DeleteTeacher removes a pool member.
func (s *RosterService) DeleteTeacher(ctx context.Context, name string) error {
	if name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "teacher name is required")
	}
	if err := s.roster.DeleteTeacher(ctx, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "roster teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete roster teacher")
	}
	return nil
}

// ListConstraints returns all stored availability records.
func (s *RosterService) ListConstraints(ctx context.Context) ([]models.RosterConstraint, error) {
	constraints, err := s.roster.ListConstraints(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster constraints")
	}
	return constraints, nil
}

// UpsertConstraint stores a teacher's availability rules.
func (s *RosterService) UpsertConstraint(ctx context.Context, req dto.UpsertConstraintRequest) (*models.RosterConstraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster constraint payload")
	}
	tokens, err := json.Marshal(req.Unavailable)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode unavailability tokens")
	}
	constraint := &models.RosterConstraint{
		TeacherName:      req.TeacherName,
		HomeroomDisabled: req.HomeroomDisabled,
		MaxHomerooms:     req.MaxHomerooms,
		Unavailable:      types.JSONText(tokens),
	}
	if err := s.roster.UpsertConstraint(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert roster constraint")
	}
	return constraint, nil
}

// DeleteConstraint removes a teacher's availability record.
func (s *RosterService) DeleteConstraint(ctx context.Context, teacherName string) error {
	if teacherName == "" {
		return appErrors.Clone(appErrors.ErrValidation, "teacher name is required")
	}
	if err := s.roster.DeleteConstraint(ctx, teacherName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "roster constraint not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete roster constraint")
	}
	return nil
}

// ListFixedHomerooms returns stored class pins.
func (s *RosterService) ListFixedHomerooms(ctx context.Context) ([]models.FixedHomeroom, error) {
	pins, err := s.roster.ListFixedHomerooms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fixed homerooms")
	}
	return pins, nil
}

// PinHomeroom fixes a teacher to a class.
func (s *RosterService) PinHomeroom(ctx context.Context, req dto.PinHomeroomRequest) (*models.FixedHomeroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homeroom pin payload")
	}
	pin := &models.FixedHomeroom{ClassID: req.ClassID, TeacherName: req.TeacherName}
	if err := s.roster.PinHomeroom(ctx, pin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pin homeroom")
	}
	return pin, nil
}

// UnpinHomeroom removes a class pin.
func (s *RosterService) UnpinHomeroom(ctx context.Context, classID string) error {
	if classID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}
	if err := s.roster.UnpinHomeroom(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "fixed homeroom not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unpin homeroom")
	}
	return nil
}

// BuildGenerationRequest assembles a generation payload from the stored
// roster, so callers can run the engine without restating pools and
// constraints on every request.
func (s *RosterService) BuildGenerationRequest(ctx context.Context, options dto.OptionsInput) (*dto.GenerateTimetableRequest, error) {
	homeroom, err := s.roster.ListTeachers(ctx, models.PoolHomeroom)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load homeroom pool")
	}
	if len(homeroom) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "homeroom pool is empty")
	}
	foreign, err := s.roster.ListTeachers(ctx, models.PoolForeign)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load foreign pool")
	}
	constraints, err := s.roster.ListConstraints(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster constraints")
	}
	pins, err := s.roster.ListFixedHomerooms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fixed homerooms")
	}

	req := &dto.GenerateTimetableRequest{Options: options}
	for _, t := range homeroom {
		req.HomeroomPool = append(req.HomeroomPool, dto.TeacherInput{Name: t.Name, Role: t.Role})
	}
	for _, t := range foreign {
		req.ForeignPool = append(req.ForeignPool, dto.TeacherInput{Name: t.Name, Role: t.Role})
	}
	for _, c := range constraints {
		var tokens []string
		if len(c.Unavailable) > 0 {
			if err := json.Unmarshal(c.Unavailable, &tokens); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
					fmt.Sprintf("stored unavailability for %s is not valid JSON", c.TeacherName))
			}
		}
		req.Constraints = append(req.Constraints, dto.ConstraintInput{
			TeacherName:      c.TeacherName,
			HomeroomDisabled: c.HomeroomDisabled,
			MaxHomerooms:     c.MaxHomerooms,
			Unavailable:      tokens,
		})
	}
	if len(pins) > 0 {
		req.FixedHomerooms = make(map[string]string, len(pins))
		for _, pin := range pins {
			req.FixedHomerooms[pin.ClassID] = pin.TeacherName
		}
	}
	return req, nil
}
