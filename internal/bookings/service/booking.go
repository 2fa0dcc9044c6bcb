package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "tutormatch/internal/bookings/errors"
	"tutormatch/internal/bookings/repository"
	"tutormatch/internal/bookings/validator"
	"tutormatch/internal/pricing"
	searcherrors "tutormatch/internal/search/errors"
	"tutormatch/pkg/config"
	apperrors "tutormatch/pkg/errors"
	"tutormatch/pkg/model"
	"tutormatch/pkg/notify"
	"tutormatch/pkg/payments"
	"tutormatch/pkg/sanitizer"
)

// TutorDirectory is the read side of the tutor profile store the booking
// flow consults to verify an offering before committing a slot.
type TutorDirectory interface {
	FindByID(ctx context.Context, id string) (*model.TutorCandidate, error)
}

// CalendarChecker answers whether a window falls inside a tutor's declared
// availability and which time zone the tutor's wall-clock values live in.
type CalendarChecker interface {
	IsOpen(ctx context.Context, tutorID, date, startTime, endTime string) (bool, error)
	Location(ctx context.Context, tutorID string) *time.Location
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByTutor(ctx context.Context, tutorID, fromDate, toDate string, page, limit int) ([]*model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, id string, req *model.CancellationRequest) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	tutors    TutorDirectory
	calendar  CalendarChecker
	gateway   payments.Gateway
	notifier  notify.Notifier
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	tutors TutorDirectory,
	calendar CalendarChecker,
	gateway payments.Gateway,
	notifier notify.Notifier,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		tutors:    tutors,
		calendar:  calendar,
		gateway:   gateway,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(ctx, booking); err != nil {
		return err
	}

	offering, err := s.resolveOffering(ctx, booking)
	if err != nil {
		return err
	}
	booking.Pricing = pricing.ComputePrice(offering.PricePerHour, booking.DurationMin)

	open, err := s.calendar.IsOpen(ctx, booking.TutorID, booking.Date, booking.StartTime, booking.EndTime)
	if err != nil {
		return err
	}
	if !open {
		return apperrors.Conflict("Tutor is not available in the requested window")
	}

	// Advisory locks cover every half-hour bucket the window touches, so
	// two creates with intersecting windows always contend on a common
	// lock document. The in-transaction re-check below then runs serialized
	// per slot.
	lockIDs, err := s.acquireSlotLocks(ctx, booking.TutorID, booking.Date, booking.StartTime, booking.EndTime)
	if err != nil {
		return err
	}
	defer s.releaseSlotLocks(ctx, lockIDs)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.notifier.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"tutor_id", booking.TutorID,
		"student_id", booking.StudentID,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"total_amount", booking.Pricing.TotalAmount,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListByTutor(ctx context.Context, tutorID, fromDate, toDate string, page, limit int) ([]*model.Booking, int64, error) {
	if tutorID == "" {
		return nil, 0, apperrors.InvalidInput("Tutor ID is required")
	}
	if fromDate != "" && !model.ValidCalendarDate(fromDate) {
		return nil, 0, apperrors.InvalidInput("from_date must be a valid YYYY-MM-DD value")
	}
	if toDate != "" && !model.ValidCalendarDate(toDate) {
		return nil, 0, apperrors.InvalidInput("to_date must be a valid YYYY-MM-DD value")
	}

	page = config.NormalizePage(page)
	limit = config.NormalizePaginationLimit(limit)
	offset := int64(page-1) * int64(limit)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByTutor(ctx, tutorID, fromDate, toDate)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "tutor_id", tutorID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByTutor(ctx, tutorID, fromDate, toDate, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"tutor_id", tutorID,
				"page", page,
				"limit", limit,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Status update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}
	if update.Status == model.StatusCancelled {
		return nil, apperrors.InvalidInput("Use the cancellation endpoint to cancel a booking")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := booking.Status

	if !transitionAllowed(previous, update.Status) {
		return nil, apperrors.InvalidTransition(previous, update.Status)
	}
	if !roleAllowed(update.ActorRole, update.Status) {
		return nil, apperrors.Forbidden(fmt.Sprintf("role %s may not set status %s", update.ActorRole, update.Status))
	}

	switch update.Status {
	case model.StatusConfirmed:
		if err := s.confirmWithPayment(ctx, booking, update); err != nil {
			return nil, err
		}
	case model.StatusRescheduled:
		if err := s.reschedule(ctx, booking, update); err != nil {
			return nil, err
		}
	default:
		booking.Status = update.Status
		if _, err := s.repo.Update(ctx, id, booking); err != nil {
			s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
			return nil, apperrors.Internal("Failed to update booking", err)
		}
	}

	s.notifier.BookingStatusChanged(ctx, booking, previous)

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"from", previous,
		"to", booking.Status,
		"actor_role", update.ActorRole,
	)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, req *model.CancellationRequest) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateCancellation(req); err != nil {
		s.cfg.Log.Warn("Cancellation validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid cancellation request", map[string]any{"error": err.Error()})
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := booking.Status

	if !transitionAllowed(previous, model.StatusCancelled) {
		return nil, apperrors.InvalidTransition(previous, model.StatusCancelled)
	}
	if !roleAllowed(req.ActorRole, model.StatusCancelled) {
		return nil, apperrors.Forbidden(fmt.Sprintf("role %s may not cancel bookings", req.ActorRole))
	}

	// The lead-time gate measures against the session start in the tutor's
	// declared zone, not the server zone.
	startsAt, err := booking.StartsAt(s.calendar.Location(ctx, booking.TutorID))
	if err != nil {
		return nil, apperrors.Internal("Stored booking has an invalid schedule", err)
	}
	cancelledAt := s.now()
	if !pricing.CanCancel(startsAt, cancelledAt) {
		return nil, apperrors.NotCancellable("bookings may only be cancelled at least 2 hours before the session start")
	}

	refund := pricing.ComputeRefund(booking)
	booking.Cancellation = &model.CancellationRecord{
		Reason:         req.Reason,
		CancelledBy:    req.ActorRole,
		CancelledAt:    cancelledAt,
		RefundEligible: refund > 0,
		RefundAmount:   refund,
	}
	booking.Status = model.StatusCancelled

	if _, err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	if refund > 0 {
		s.issueRefund(ctx, booking)
	}

	s.notifier.BookingCancelled(ctx, booking)

	s.cfg.Log.Info("Booking cancelled",
		"id", id,
		"previous_status", previous,
		"cancelled_by", req.ActorRole,
		"refund_amount", refund,
	)
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusScheduled
	}
	if b.Payment.Status == "" {
		b.Payment.Status = model.PaymentPending
	}
	if b.DurationMin == 0 && model.ValidHHMM(b.StartTime) && model.ValidHHMM(b.EndTime) {
		b.DurationMin = model.MinutesBetween(b.StartTime, b.EndTime)
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Subject = sanitizer.NormalizeSubject(b.Subject)
	b.Class = sanitizer.NormalizeToken(b.Class)
	b.Board = sanitizer.NormalizeToken(b.Board)
	b.Mode = sanitizer.NormalizeToken(b.Mode)
	b.Location = sanitizer.TrimAndNormalize(b.Location)
	b.Topics = sanitizer.NormalizeSlice(b.Topics, sanitizer.TrimAndNormalize)
}

func (s *bookingService) validate(ctx context.Context, b *model.Booking) error {
	if err := s.validator.Validate(b, s.calendar.Location(ctx, b.TutorID)); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// resolveOffering verifies the tutor exists, is bookable, teaches in the
// requested mode, and offers the subject for the class and board. Returns
// the matched offering whose rate prices the session.
func (s *bookingService) resolveOffering(ctx context.Context, b *model.Booking) (*model.SubjectOffering, error) {
	tutor, err := s.tutors.FindByID(ctx, b.TutorID)
	if err != nil {
		if errors.Is(err, searcherrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tutor", b.TutorID)
		}
		if errors.Is(err, searcherrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid tutor ID format")
		}
		return nil, apperrors.Internal("Failed to load tutor profile", err)
	}

	if !tutor.Eligible() {
		return nil, apperrors.Conflict("Tutor is not currently accepting bookings")
	}
	if !tutor.TeachesMode(b.Mode) {
		return nil, apperrors.Validation("Tutor does not teach in the requested mode", map[string]any{
			"mode": b.Mode,
		})
	}

	matched := tutor.MatchingOfferings(b.Subject, b.Class, b.Board)
	if len(matched) == 0 {
		return nil, apperrors.Validation("Tutor does not offer this subject for the requested class and board", map[string]any{
			"subject": b.Subject,
			"class":   b.Class,
			"board":   b.Board,
		})
	}

	return &matched[0], nil
}

func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindActiveByTutorAndDate(ctx, booking.TutorID, booking.Date)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, e := range existing {
		if e.ID != "" && e.ID == booking.ID {
			continue
		}
		if model.WindowsOverlap(e.StartTime, e.EndTime, booking.StartTime, booking.EndTime) {
			return apperrors.Conflict(fmt.Sprintf(
				"Requested slot overlaps an existing booking (%s - %s)",
				e.StartTime,
				e.EndTime,
			))
		}
	}
	return nil
}

// confirmWithPayment gates the confirmed state on a captured gateway payment.
func (s *bookingService) confirmWithPayment(ctx context.Context, booking *model.Booking, update *model.StatusUpdate) error {
	transactionID := update.TransactionID
	if transactionID == "" {
		transactionID = booking.Payment.TransactionID
	}
	if transactionID == "" {
		return apperrors.InvalidInput("transaction_id is required to confirm a booking")
	}

	verification, err := s.gateway.VerifyPayment(ctx, transactionID)
	if err != nil {
		return err
	}
	if !verification.Captured {
		return apperrors.Conflict("Payment has not been captured for this booking")
	}

	booking.Payment = model.PaymentRecord{
		Status:        model.PaymentCaptured,
		Method:        verification.Method,
		TransactionID: transactionID,
		PaidAt:        verification.PaidAt,
	}
	booking.Status = model.StatusConfirmed

	if _, err := s.repo.Update(ctx, booking.ID, booking); err != nil {
		s.cfg.Log.Error("Failed to confirm booking", "id", booking.ID, "error", err)
		return apperrors.Internal("Failed to confirm booking", err)
	}
	return nil
}

// reschedule moves the booking to a new slot. The conflict check runs again
// for the target slot under the advisory lock and transaction; the original
// pricing snapshot is kept untouched. Status loops back to scheduled.
func (s *bookingService) reschedule(ctx context.Context, booking *model.Booking, update *model.StatusUpdate) error {
	open, err := s.calendar.IsOpen(ctx, booking.TutorID, update.Date, update.StartTime, update.EndTime)
	if err != nil {
		return err
	}
	if !open {
		return apperrors.Conflict("Tutor is not available in the requested window")
	}

	lockIDs, err := s.acquireSlotLocks(ctx, booking.TutorID, update.Date, update.StartTime, update.EndTime)
	if err != nil {
		return err
	}
	defer s.releaseSlotLocks(ctx, lockIDs)

	moved := *booking
	moved.Date = update.Date
	moved.StartTime = update.StartTime
	moved.EndTime = update.EndTime
	moved.DurationMin = model.MinutesBetween(update.StartTime, update.EndTime)
	moved.Status = model.StatusScheduled

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, &moved); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, booking.ID, &moved); err != nil {
			return apperrors.Internal("Failed to reschedule booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reschedule booking", "id", booking.ID, "error", err)
		return err
	}

	*booking = moved
	return nil
}

// issueRefund is best-effort: a gateway failure is logged, never unwinds the
// cancellation that already stands.
func (s *bookingService) issueRefund(ctx context.Context, booking *model.Booking) {
	refund, err := s.gateway.IssueRefund(ctx, booking.Payment.TransactionID, booking.Cancellation.RefundAmount)
	if err != nil {
		s.cfg.Log.Error("Failed to issue refund",
			"booking_id", booking.ID,
			"transaction_id", booking.Payment.TransactionID,
			"amount", booking.Cancellation.RefundAmount,
			"error", err,
		)
		return
	}

	booking.Payment.Status = model.PaymentRefunded
	if _, err := s.repo.Update(ctx, booking.ID, booking); err != nil {
		s.cfg.Log.Error("Failed to record refund on booking", "booking_id", booking.ID, "error", err)
		return
	}

	s.cfg.Log.Info("Refund issued",
		"booking_id", booking.ID,
		"refund_id", refund.RefundID,
		"amount", refund.Amount,
	)
}

// acquireSlotLocks creates the advisory locks for every bucket the window
// spans, in bucket order. A duplicate key means another request is
// mid-flight on an intersecting slot; locks already taken are released
// before returning.
func (s *bookingService) acquireSlotLocks(ctx context.Context, tutorID, date, startTime, endTime string) ([]string, error) {
	expiresAt := time.Now().Add(s.cfg.BookingLockTTL)

	var acquired []string
	for _, lockID := range model.SlotLockIDs(tutorID, date, startTime, endTime) {
		_, err := s.lockRepo.Create(ctx, &model.BookingLock{
			ID:        lockID,
			ExpiresAt: expiresAt,
		})
		if err != nil {
			s.releaseSlotLocks(ctx, acquired)
			if mongo.IsDuplicateKeyError(err) {
				return nil, apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
			}
			return nil, apperrors.Internal("Failed to acquire booking lock", err)
		}
		acquired = append(acquired, lockID)
	}

	return acquired, nil
}

func (s *bookingService) releaseSlotLocks(ctx context.Context, lockIDs []string) {
	for _, lockID := range lockIDs {
		if err := s.lockRepo.Delete(ctx, lockID); err != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
		}
	}
}
