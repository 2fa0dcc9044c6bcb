package service

import (
	"context"
	"errors"
	"time"

	availabilityerrors "tutormatch/internal/availability/errors"
	"tutormatch/internal/availability/repository"
	"tutormatch/internal/availability/validator"
	"tutormatch/pkg/config"
	apperrors "tutormatch/pkg/errors"
	"tutormatch/pkg/model"
)

type AvailabilityService interface {
	Create(ctx context.Context, a *model.Availability) error
	GetByTutorID(ctx context.Context, tutorID string) (*model.Availability, error)
	Update(ctx context.Context, id string, updates *model.AvailabilityUpdate) error
	Delete(ctx context.Context, id string) error
	IsOpen(ctx context.Context, tutorID, date, startTime, endTime string) (bool, error)
	Location(ctx context.Context, tutorID string) *time.Location
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	validator *validator.AvailabilityValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *availabilityService) Create(ctx context.Context, a *model.Availability) error {
	if err := s.validator.Validate(a); err != nil {
		s.cfg.Log.Warn("Availability validation failed",
			"tutor_id", a.TutorID,
			"error", err,
		)
		return apperrors.Validation("Availability validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, availabilityerrors.ErrDuplicateTutor) {
			return apperrors.Conflict("Availability calendar already exists for this tutor")
		}
		s.cfg.Log.Error("Failed to create availability",
			"tutor_id", a.TutorID,
			"error", err,
		)
		return apperrors.Internal("Failed to create availability", err)
	}

	s.cfg.Log.Info("Availability created successfully",
		"id", a.ID,
		"tutor_id", a.TutorID,
	)
	return nil
}

func (s *availabilityService) GetByTutorID(ctx context.Context, tutorID string) (*model.Availability, error) {
	if tutorID == "" {
		return nil, apperrors.InvalidInput("Tutor ID cannot be empty")
	}

	a, err := s.repo.FindByTutorID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Availability", tutorID)
		}
		s.cfg.Log.Error("Failed to get availability by tutor",
			"tutor_id", tutorID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	return a, nil
}

func (s *availabilityService) Update(ctx context.Context, id string, updates *model.AvailabilityUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Availability ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability", id)
		}
		if errors.Is(err, availabilityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid availability ID format")
		}
		return apperrors.Internal("Failed to check availability existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Availability update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Availability validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability", id)
		}
		s.cfg.Log.Error("Failed to update availability", "id", id, "error", err)
		return apperrors.Internal("Failed to update availability", err)
	}

	s.cfg.Log.Info("Availability updated successfully", "id", id)
	return nil
}

func (s *availabilityService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Availability ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability", id)
		}
		if errors.Is(err, availabilityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid availability ID format")
		}
		s.cfg.Log.Error("Failed to delete availability", "id", id, "error", err)
		return apperrors.Internal("Failed to delete availability", err)
	}

	s.cfg.Log.Info("Availability deleted successfully", "id", id)
	return nil
}

// IsOpen reports whether [startTime, endTime) on date falls entirely inside
// one of the tutor's declared open windows. A tutor with no calendar at all
// is treated as open; a date override, including an empty one, beats the
// weekly template.
func (s *availabilityService) IsOpen(ctx context.Context, tutorID, date, startTime, endTime string) (bool, error) {
	a, err := s.repo.FindByTutorID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return true, nil
		}
		return false, apperrors.Internal("Failed to load tutor availability", err)
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false, apperrors.InvalidInput("Invalid booking date format")
	}

	windows := a.WindowsFor(date, parsed.Weekday())
	for _, w := range windows {
		if w.Contains(startTime, endTime) {
			return true, nil
		}
	}
	return false, nil
}

// Location resolves the time zone booking timestamps are interpreted in.
// A tutor with no calendar, no declared zone, or an unloadable zone falls
// back to the server zone.
func (s *availabilityService) Location(ctx context.Context, tutorID string) *time.Location {
	a, err := s.repo.FindByTutorID(ctx, tutorID)
	if err != nil || a.TimeZone == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		s.cfg.Log.Warn("Failed to load tutor time zone, using server zone",
			"tutor_id", tutorID,
			"time_zone", a.TimeZone,
			"error", err,
		)
		return time.Local
	}
	return loc
}

func (s *availabilityService) mergeUpdates(existing *model.Availability, updates *model.AvailabilityUpdate) *model.Availability {
	merged := *existing

	if updates.Weekly != nil {
		merged.Weekly = *updates.Weekly
	}
	if updates.DateOverrides != nil {
		merged.DateOverrides = *updates.DateOverrides
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}

	merged.ID = existing.ID
	merged.TutorID = existing.TutorID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}
