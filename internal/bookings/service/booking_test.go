package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"tutormatch/internal/bookings/validator"
	"tutormatch/pkg/config"
	mongotx "tutormatch/pkg/db/mongo"
	apperrors "tutormatch/pkg/errors"
	"tutormatch/pkg/logger"
	"tutormatch/pkg/model"
	"tutormatch/pkg/notify"
	"tutormatch/pkg/payments"
)

// Mock repositories for testing

type mockBookingRepository struct {
	createFunc         func(ctx context.Context, booking *model.Booking) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Booking, error)
	findActiveFunc     func(ctx context.Context, tutorID, date string) ([]*model.Booking, error)
	findByTutorFunc    func(ctx context.Context, tutorID, fromDate, toDate string, limit int, offset int64) ([]*model.Booking, error)
	countByTutorFunc   func(ctx context.Context, tutorID, fromDate, toDate string) (int64, error)
	updateFunc         func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error)
	transactionCalled  bool
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "66f000000000000000000099"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindActiveByTutorAndDate(ctx context.Context, tutorID, date string) ([]*model.Booking, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, tutorID, date)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByTutor(ctx context.Context, tutorID, fromDate, toDate string, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByTutorFunc != nil {
		return m.findByTutorFunc(ctx, tutorID, fromDate, toDate, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByTutor(ctx context.Context, tutorID, fromDate, toDate string) (int64, error) {
	if m.countByTutorFunc != nil {
		return m.countByTutorFunc(ctx, tutorID, fromDate, toDate)
	}
	return 0, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, booking)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.transactionCalled = true
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockTutorDirectory struct {
	findByIDFunc func(ctx context.Context, id string) (*model.TutorCandidate, error)
}

func (m *mockTutorDirectory) FindByID(ctx context.Context, id string) (*model.TutorCandidate, error) {
	return m.findByIDFunc(ctx, id)
}

type mockCalendar struct {
	isOpenFunc   func(ctx context.Context, tutorID, date, startTime, endTime string) (bool, error)
	locationFunc func(ctx context.Context, tutorID string) *time.Location
}

func (m *mockCalendar) IsOpen(ctx context.Context, tutorID, date, startTime, endTime string) (bool, error) {
	if m.isOpenFunc != nil {
		return m.isOpenFunc(ctx, tutorID, date, startTime, endTime)
	}
	return true, nil
}

func (m *mockCalendar) Location(ctx context.Context, tutorID string) *time.Location {
	if m.locationFunc != nil {
		return m.locationFunc(ctx, tutorID)
	}
	return time.Local
}

type mockGateway struct {
	verifyFunc  func(ctx context.Context, transactionID string) (*payments.Verification, error)
	refundFunc  func(ctx context.Context, transactionID string, amount float64) (*payments.Refund, error)
	refundCalls int
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount float64, receipt string) (*payments.Order, error) {
	return &payments.Order{TransactionID: "txn-1", Amount: amount, Receipt: receipt, Status: "created"}, nil
}

func (m *mockGateway) VerifyPayment(ctx context.Context, transactionID string) (*payments.Verification, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, transactionID)
	}
	return &payments.Verification{TransactionID: transactionID, Captured: true, Method: "upi"}, nil
}

func (m *mockGateway) IssueRefund(ctx context.Context, transactionID string, amount float64) (*payments.Refund, error) {
	m.refundCalls++
	if m.refundFunc != nil {
		return m.refundFunc(ctx, transactionID, amount)
	}
	return &payments.Refund{TransactionID: transactionID, RefundID: "rf-1", Amount: amount, Status: "processed"}, nil
}

const (
	testTutorID   = "66f000000000000000000001"
	testStudentID = "66f000000000000000000002"
	testBookingID = "66f000000000000000000099"
)

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
		BookingLockTTL: 10 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	}
}

func testTutor() *model.TutorCandidate {
	return &model.TutorCandidate{
		ID:   testTutorID,
		Name: "Asha Verma",
		Subjects: []model.SubjectOffering{
			{Subject: "Math", Classes: []string{"10"}, Boards: []string{"cbse"}, PricePerHour: 600},
			{Subject: "Physics", Classes: []string{"11", "12"}, Boards: []string{"cbse"}, PricePerHour: 800},
		},
		TeachingModes:      []string{model.ModeBoth},
		RatingAvg:          4.6,
		VerificationStatus: model.VerificationVerified,
		IsBookingEnabled:   true,
	}
}

func newTestService(repo *mockBookingRepository, locks *mockLockRepository, tutors *mockTutorDirectory, calendar *mockCalendar, gateway *mockGateway) *bookingService {
	cfg := testConfig()
	return &bookingService{
		repo:      repo,
		lockRepo:  locks,
		tutors:    tutors,
		calendar:  calendar,
		gateway:   gateway,
		notifier:  notify.NopNotifier{},
		validator: validator.NewBookingValidator(cfg.Log),
		cfg:       cfg,
		now:       time.Now,
	}
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func newBookingRequest() *model.Booking {
	return &model.Booking{
		TutorID:     testTutorID,
		StudentID:   testStudentID,
		Subject:     "Math",
		Class:       "10",
		Board:       "CBSE",
		Date:        futureDate(),
		StartTime:   "10:00",
		EndTime:     "11:00",
		DurationMin: 60,
		Mode:        model.ModeOnline,
	}
}

func TestCreate_StampsPricingSnapshot(t *testing.T) {
	repo := &mockBookingRepository{}
	locks := &mockLockRepository{}
	tutors := &mockTutorDirectory{findByIDFunc: func(ctx context.Context, id string) (*model.TutorCandidate, error) {
		return testTutor(), nil
	}}
	svc := newTestService(repo, locks, tutors, &mockCalendar{}, &mockGateway{})

	booking := newBookingRequest()
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusScheduled {
		t.Errorf("expected status scheduled, got %s", booking.Status)
	}
	if booking.Pricing.BaseAmount != 600 {
		t.Errorf("expected base 600, got %v", booking.Pricing.BaseAmount)
	}
	if booking.Pricing.TaxAmount != 108 {
		t.Errorf("expected tax 108, got %v", booking.Pricing.TaxAmount)
	}
	if booking.Pricing.TotalAmount != 708 {
		t.Errorf("expected total 708, got %v", booking.Pricing.TotalAmount)
	}
	if !repo.transactionCalled {
		t.Error("expected create to run inside a transaction")
	}
	// 10:00-11:00 spans the 10:00 and 10:30 buckets.
	if len(locks.deleted) != 2 {
		t.Errorf("expected both bucket locks released, got %d", len(locks.deleted))
	}
}

func TestCreate_RejectsOverlappingSlot(t *testing.T) {
	repo := &mockBookingRepository{
		findActiveFunc: func(ctx context.Context, tutorID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "66f000000000000000000010", StartTime: "10:30", EndTime: "11:30", Status: model.StatusConfirmed},
			}, nil
		},
	}
	tutors := &mockTutorDirectory{findByIDFunc: func(ctx context.Context, id string) (*model.TutorCandidate, error) {
		return testTutor(), nil
	}}
	svc := newTestService(repo, &mockLockRepository{}, tutors, &mockCalendar{}, &mockGateway{})

	err := svc.Create(context.Background(), newBookingRequest())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreate_AllowsBackToBackSlots(t *testing.T) {
	repo := &mockBookingRepository{
		findActiveFunc: func(ctx context.Context, tutorID, date string) ([]*model.Booking, error) {
			// Ends exactly when the new booking starts; half-open windows touch
			// without overlapping.
			return []*model.Booking{
				{ID: "66f000000000000000000010", StartTime: "09:00", EndTime: "10:00", Status: model.StatusScheduled},
			}, nil
		},
	}
	tutors := &mockTutorDirectory{findByIDFunc: func(ctx context.Context, id string) (*model.TutorCandidate, error) {
		return testTutor(), nil
	}}
	svc := newTestService(repo, &mockLockRepository{}, tutors, &mockCalendar{}, &mockGateway{})

	if err := svc.Create(context.Background(), newBookingRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreate_LockContention(t *testing.T) {
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		},
	}
	tutors := &mockTutorDirectory{findByIDFunc: func(ctx context.Context, id string) (*model.TutorCandidate, error) {
		return testTutor(), nil
	}}
	svc := newTestService(&mockBookingRepository{}, locks, tutors, &mockCalendar{}, &mockGateway{})

	err := svc.Create(context.Background(), newBookingRequest())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreate_ContendsOnSharedBucket(t *testing.T) {
	// Another request holds only the 10:30 bucket, as a 10:30-11:30 booking
	// would. A 10:00-11:00 create shares that bucket, so it must back off
	// and release the 10:00 bucket it already took.
	heldID := model.BookingLockID(testTutorID, futureDate(), "10:30")
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			if lock.ID == heldID {
				return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
			}
			return lock, nil
		},
	}
	tutors := &mockTutorDirectory{findByIDFunc: func(ctx context.Context, id string) (*model.TutorCandidate, error) {
		return testTutor(), nil
	}}
	svc := newTestService(&mockBookingRepository{}, locks, tutors, &mockCalendar{}, &mockGateway{})

	err := svc.Create(context.Background(), newBookingRequest())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}

	wantReleased := model.BookingLockID(testTutorID, futureDate(), "10:00")
	if len(locks.deleted) != 1 || locks.deleted[0] != wantReleased {
		t.Errorf("expected acquired lock %s released on back-off, got %v", wantReleased, locks.deleted)
	}
}

func TestCreate_ClosedCalendar(t *testing.T) {
	tutors := &mockTutorDirectory{findByIDFunc: func(ctx context.Context, id string) (*model.TutorCandidate, error) {
		return testTutor(), nil
	}}
	calendar := &mockCalendar{isOpenFunc: func(ctx context.Context, tutorID, date, startTime, endTime string) (bool, error) {
		return false, nil
	}}
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, tutors, calendar, &mockGateway{})

	err := svc.Create(context.Background(), newBookingRequest())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreate_TutorDoesNotOfferSubject(t *testing.T) {
	tutors := &mockTutorDirectory{findByIDFunc: func(ctx context.Context, id string) (*model.TutorCandidate, error) {
		return testTutor(), nil
	}}
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, tutors, &mockCalendar{}, &mockGateway{})

	booking := newBookingRequest()
	booking.Subject = "Chemistry"
	err := svc.Create(context.Background(), booking)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestCreate_DurationMismatchRejected(t *testing.T) {
	tutors := &mockTutorDirectory{findByIDFunc: func(ctx context.Context, id string) (*model.TutorCandidate, error) {
		return testTutor(), nil
	}}
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, tutors, &mockCalendar{}, &mockGateway{})

	booking := newBookingRequest()
	booking.DurationMin = 90
	err := svc.Create(context.Background(), booking)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func storedBooking(status string, startsIn time.Duration, base time.Time) *model.Booking {
	startsAt := base.Add(startsIn)
	endsAt := startsAt.Add(time.Hour)
	return &model.Booking{
		ID:          testBookingID,
		TutorID:     testTutorID,
		StudentID:   testStudentID,
		Subject:     "Math",
		Class:       "10",
		Board:       "cbse",
		Date:        startsAt.Format("2006-01-02"),
		StartTime:   startsAt.Format("15:04"),
		EndTime:     endsAt.Format("15:04"),
		DurationMin: 60,
		Mode:        model.ModeOnline,
		Pricing:     model.PricingSnapshot{BaseAmount: 600, TaxAmount: 108, TotalAmount: 708},
		Payment:     model.PaymentRecord{Status: model.PaymentPending},
		Status:      status,
	}
}

func TestCancel_ExactlyAtLeadTimeBoundary(t *testing.T) {
	// 10:00 on a fixed day, session at 12:00: exactly two hours of lead
	// time, which the gate permits.
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	existing := storedBooking(model.StatusScheduled, 2*time.Hour, base)

	repo := &mockBookingRepository{findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}}
	svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, &mockGateway{})
	svc.now = func() time.Time { return base }

	booking, err := svc.Cancel(context.Background(), testBookingID, &model.CancellationRequest{
		ActorRole: model.RoleStudent,
		Reason:    "schedule clash",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusCancelled {
		t.Errorf("expected status cancelled, got %s", booking.Status)
	}
	if booking.Cancellation == nil {
		t.Fatal("expected cancellation record")
	}
	if booking.Cancellation.RefundEligible {
		t.Error("no captured payment, refund should not be eligible")
	}
}

func TestCancel_InsideLeadTimeWindow(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	existing := storedBooking(model.StatusConfirmed, time.Hour, base)

	repo := &mockBookingRepository{findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}}
	gateway := &mockGateway{}
	svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, gateway)
	svc.now = func() time.Time { return base }

	_, err := svc.Cancel(context.Background(), testBookingID, &model.CancellationRequest{
		ActorRole: model.RoleStudent,
		Reason:    "something came up",
	})
	if err == nil {
		t.Fatal("expected not-cancellable error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotCancellable {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotCancellable, appErr.Code)
	}
	if gateway.refundCalls != 0 {
		t.Error("rejected cancellation must not trigger a refund")
	}
}

func TestCancel_RefundsCapturedPayment(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	existing := storedBooking(model.StatusConfirmed, 5*time.Hour, base)
	existing.Payment = model.PaymentRecord{Status: model.PaymentCaptured, TransactionID: "txn-42"}

	var refundedAmount float64
	repo := &mockBookingRepository{findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}}
	gateway := &mockGateway{refundFunc: func(ctx context.Context, transactionID string, amount float64) (*payments.Refund, error) {
		refundedAmount = amount
		return &payments.Refund{TransactionID: transactionID, RefundID: "rf-9", Amount: amount, Status: "processed"}, nil
	}}
	svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, gateway)
	svc.now = func() time.Time { return base }

	booking, err := svc.Cancel(context.Background(), testBookingID, &model.CancellationRequest{
		ActorRole: model.RoleTutor,
		Reason:    "unavailable",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !booking.Cancellation.RefundEligible {
		t.Error("captured payment should be refund eligible")
	}
	if booking.Cancellation.RefundAmount != 708 {
		t.Errorf("expected full refund 708, got %v", booking.Cancellation.RefundAmount)
	}
	if refundedAmount != 708 {
		t.Errorf("expected gateway refund of 708, got %v", refundedAmount)
	}
	if booking.Payment.Status != model.PaymentRefunded {
		t.Errorf("expected payment status refunded, got %s", booking.Payment.Status)
	}
}

func TestCancel_UsesTutorTimeZoneForLeadTime(t *testing.T) {
	// Session at 12:00 in the tutor's zone (Asia/Kolkata) is 06:30 UTC.
	// At 05:00 UTC only 1.5 hours remain, so the gate must reject even
	// though a naive UTC reading of 12:00 would leave 7 hours.
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}

	existing := storedBooking(model.StatusScheduled, 0, time.Time{})
	existing.Date = "2026-09-10"
	existing.StartTime = "12:00"
	existing.EndTime = "13:00"

	repo := &mockBookingRepository{findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}}
	calendar := &mockCalendar{locationFunc: func(ctx context.Context, tutorID string) *time.Location {
		return kolkata
	}}
	gateway := &mockGateway{}
	svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, calendar, gateway)
	svc.now = func() time.Time { return time.Date(2026, 9, 10, 5, 0, 0, 0, time.UTC) }

	_, err = svc.Cancel(context.Background(), testBookingID, &model.CancellationRequest{
		ActorRole: model.RoleStudent,
		Reason:    "schedule clash",
	})
	if err == nil {
		t.Fatal("expected not-cancellable error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotCancellable {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotCancellable, appErr.Code)
	}
	if gateway.refundCalls != 0 {
		t.Error("rejected cancellation must not trigger a refund")
	}
}

func TestCancel_TerminalBookingRejected(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	existing := storedBooking(model.StatusCompleted, 5*time.Hour, base)

	repo := &mockBookingRepository{findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}}
	svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, &mockGateway{})
	svc.now = func() time.Time { return base }

	_, err := svc.Cancel(context.Background(), testBookingID, &model.CancellationRequest{
		ActorRole: model.RoleAdmin,
		Reason:    "cleanup",
	})
	if err == nil {
		t.Fatal("expected invalid transition error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidTransition {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidTransition, appErr.Code)
	}
}

func TestUpdateStatus_ConfirmRequiresCapturedPayment(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	existing := storedBooking(model.StatusScheduled, 5*time.Hour, base)

	repo := &mockBookingRepository{findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}}
	gateway := &mockGateway{verifyFunc: func(ctx context.Context, transactionID string) (*payments.Verification, error) {
		return &payments.Verification{TransactionID: transactionID, Captured: false}, nil
	}}
	svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, gateway)

	_, err := svc.UpdateStatus(context.Background(), testBookingID, &model.StatusUpdate{
		ActorRole:     model.RoleTutor,
		Status:        model.StatusConfirmed,
		TransactionID: "txn-42",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestUpdateStatus_ConfirmWithCapturedPayment(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	existing := storedBooking(model.StatusScheduled, 5*time.Hour, base)

	repo := &mockBookingRepository{findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}}
	svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, &mockGateway{})

	booking, err := svc.UpdateStatus(context.Background(), testBookingID, &model.StatusUpdate{
		ActorRole:     model.RoleTutor,
		Status:        model.StatusConfirmed,
		TransactionID: "txn-42",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected status confirmed, got %s", booking.Status)
	}
	if booking.Payment.Status != model.PaymentCaptured {
		t.Errorf("expected payment captured, got %s", booking.Payment.Status)
	}
	if booking.Payment.TransactionID != "txn-42" {
		t.Errorf("expected transaction id recorded, got %s", booking.Payment.TransactionID)
	}
}

func TestUpdateStatus_GuardTable(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		current  string
		actor    string
		target   string
		wantCode string
	}{
		{"completed cannot be confirmed", model.StatusCompleted, model.RoleAdmin, model.StatusConfirmed, apperrors.CodeInvalidTransition},
		{"scheduled cannot jump to completed", model.StatusScheduled, model.RoleTutor, model.StatusCompleted, apperrors.CodeInvalidTransition},
		{"scheduled cannot start before confirmation", model.StatusScheduled, model.RoleTutor, model.StatusInProgress, apperrors.CodeInvalidTransition},
		{"student cannot confirm", model.StatusScheduled, model.RoleStudent, model.StatusConfirmed, apperrors.CodeForbidden},
		{"student cannot complete", model.StatusInProgress, model.RoleStudent, model.StatusCompleted, apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := storedBooking(tt.current, 5*time.Hour, base)
			repo := &mockBookingRepository{findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return existing, nil
			}}
			svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, &mockGateway{})

			_, err := svc.UpdateStatus(context.Background(), testBookingID, &model.StatusUpdate{
				ActorRole: tt.actor,
				Status:    tt.target,
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if appErr := apperrors.AsAppError(err); appErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
		})
	}
}

func TestUpdateStatus_CancelledGoesThroughCancelEndpoint(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, &mockGateway{})

	_, err := svc.UpdateStatus(context.Background(), testBookingID, &model.StatusUpdate{
		ActorRole: model.RoleStudent,
		Status:    model.StatusCancelled,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestUpdateStatus_RescheduleKeepsPricing(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	existing := storedBooking(model.StatusScheduled, 5*time.Hour, base)
	originalPricing := existing.Pricing

	repo := &mockBookingRepository{findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
		return existing, nil
	}}
	locks := &mockLockRepository{}
	svc := newTestService(repo, locks, &mockTutorDirectory{}, &mockCalendar{}, &mockGateway{})

	booking, err := svc.UpdateStatus(context.Background(), testBookingID, &model.StatusUpdate{
		ActorRole: model.RoleStudent,
		Status:    model.StatusRescheduled,
		Date:      "2026-09-12",
		StartTime: "14:00",
		EndTime:   "15:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusScheduled {
		t.Errorf("reschedule should loop back to scheduled, got %s", booking.Status)
	}
	if booking.Date != "2026-09-12" || booking.StartTime != "14:00" || booking.EndTime != "15:30" {
		t.Errorf("slot not moved: %s %s-%s", booking.Date, booking.StartTime, booking.EndTime)
	}
	if booking.DurationMin != 90 {
		t.Errorf("expected duration 90, got %d", booking.DurationMin)
	}
	if booking.Pricing != originalPricing {
		t.Errorf("pricing snapshot must not change on reschedule: %+v", booking.Pricing)
	}
	if !repo.transactionCalled {
		t.Error("expected reschedule to run inside a transaction")
	}
	// 14:00-15:30 spans the 14:00, 14:30 and 15:00 buckets.
	if len(locks.deleted) != 3 {
		t.Errorf("expected all bucket locks released, got %d", len(locks.deleted))
	}
}

func TestUpdateStatus_RescheduleConflictsWithExisting(t *testing.T) {
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	existing := storedBooking(model.StatusScheduled, 5*time.Hour, base)

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
		findActiveFunc: func(ctx context.Context, tutorID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "66f000000000000000000010", StartTime: "14:30", EndTime: "15:30", Status: model.StatusScheduled},
			}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, &mockGateway{})

	_, err := svc.UpdateStatus(context.Background(), testBookingID, &model.StatusUpdate{
		ActorRole: model.RoleStudent,
		Status:    model.StatusRescheduled,
		Date:      "2026-09-12",
		StartTime: "14:00",
		EndTime:   "15:00",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestListByTutor_PaginatesFromPage(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	repo := &mockBookingRepository{
		countByTutorFunc: func(ctx context.Context, tutorID, fromDate, toDate string) (int64, error) {
			return 25, nil
		},
		findByTutorFunc: func(ctx context.Context, tutorID, fromDate, toDate string, limit int, offset int64) ([]*model.Booking, error) {
			gotLimit = limit
			gotOffset = offset
			return []*model.Booking{{ID: testBookingID}}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockTutorDirectory{}, &mockCalendar{}, &mockGateway{})

	bookings, count, err := svc.ListByTutor(context.Background(), testTutorID, "", "", 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 25 {
		t.Errorf("expected count 25, got %d", count)
	}
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking, got %d", len(bookings))
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Errorf("expected limit 10 offset 20, got %d %d", gotLimit, gotOffset)
	}
}
