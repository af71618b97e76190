package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AnubhavPadiyar/spotscout-server/internal/clock"
	"github.com/AnubhavPadiyar/spotscout-server/internal/model"
	"github.com/AnubhavPadiyar/spotscout-server/internal/repository"
	"go.uber.org/zap"
)

// ScanAction classifies the outcome of presenting an entrance code.
type ScanAction string

const (
	ScanActionCheckIn  ScanAction = "checkin"  // pending booking confirmed, session started
	ScanActionCheckOut ScanAction = "checkout" // confirmed booking completed, seat released
	ScanActionExpired  ScanAction = "expired"  // pending booking was past its deadline
	ScanActionNone     ScanAction = "none"     // no active booking at this library
)

// ScanOutcome is the discriminated result of HandleScan. Booking is nil
// only for ScanActionNone.
type ScanOutcome struct {
	Action  ScanAction     `json:"action"`
	Booking *model.Booking `json:"booking"`
}

// BookingService is the seat-inventory and booking-lifecycle engine.
//
// Every mutating operation is a read-compute-write over the roster and
// ledger documents, serialized by one mutex so no caller observes a
// partially applied state. The engine maintains the core invariant:
// for every library, availableSpots plus its pending/confirmed
// bookings equals totalSpots.
type BookingService struct {
	mu sync.Mutex

	libraryRepo *repository.LibraryRepository
	bookingRepo *repository.BookingRepository
	clk         clock.Clock

	reserveWindow time.Duration
	sessionWindow time.Duration

	logger *zap.Logger
}

func NewBookingService(
	libraryRepo *repository.LibraryRepository,
	bookingRepo *repository.BookingRepository,
	clk clock.Clock,
	reserveWindow time.Duration,
	sessionWindow time.Duration,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		libraryRepo:   libraryRepo,
		bookingRepo:   bookingRepo,
		clk:           clk,
		reserveWindow: reserveWindow,
		sessionWindow: sessionWindow,
		logger:        logger,
	}
}

// CreateBooking reserves one seat at the library for the student. The
// booking starts pending with a deadline of now + the reserve window;
// the seat is held from this moment. Fails with ErrNoSeats when the
// library is full and ErrDuplicateActiveBooking when the student
// already holds a pending or confirmed booking there; neither failure
// mutates anything.
func (s *BookingService) CreateBooking(ctx context.Context, libraryID string, student *model.Student) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Settle overdue deadlines first so a seat freed by an expired
	// reservation is bookable immediately.
	if _, err := s.sweepLocked(ctx); err != nil {
		return nil, err
	}

	libs := s.libraryRepo.GetAll(ctx)
	lib := findLibrary(libs, libraryID)
	if lib == nil {
		return nil, ErrLibraryNotFound
	}
	if lib.AvailableSpots <= 0 {
		return nil, ErrNoSeats
	}

	bookings := s.bookingRepo.GetAll(ctx)
	for _, b := range bookings {
		if b.LibraryID == libraryID && b.StudentERP == student.ERPID && b.Status.Active() {
			return nil, ErrDuplicateActiveBooking
		}
	}

	now := s.clk.Now()
	seq := nextSeq(bookings)
	booking := &model.Booking{
		ID:          fmt.Sprintf("%06d", seq),
		Seq:         seq,
		LibraryID:   lib.ID,
		LibraryName: lib.Name,
		Building:    lib.Building,
		StudentName: student.Name,
		StudentERP:  student.ERPID,
		Department:  student.Department,
		Year:        student.Year,
		Section:     student.Section,
		Status:      model.BookingStatusPending,
		BookedAt:    now,
		ExpiresAt:   now.Add(s.reserveWindow),
	}

	lib.Adjust(-1)
	bookings = append([]*model.Booking{booking}, bookings...)

	if err := s.bookingRepo.SaveAll(ctx, bookings); err != nil {
		return nil, err
	}
	if err := s.libraryRepo.SaveAll(ctx, libs); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("library_id", lib.ID),
		zap.String("student_erp", student.ERPID),
		zap.Time("expires_at", booking.ExpiresAt),
	)
	return booking, nil
}

// HandleScan resolves an entrance-code scan for the student. The code
// payload is exactly the library id: no signature, no expiry. Any
// reproduction of a library's poster produces valid scans; the
// deployment trusts physical access to the real poster. A rotating
// signed token would close that gap and is deliberately out of scope.
//
// A confirmed booking checks out; a pending booking checks in unless
// its deadline has passed, in which case the scan only reveals the
// expiry. When a student somehow holds both a confirmed and a pending
// booking at the library, checkout wins: the lookup prefers confirmed
// over pending, newest first within a status.
func (s *BookingService) HandleScan(ctx context.Context, libraryID string, student *model.Student) (*ScanOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings := s.bookingRepo.GetAll(ctx)
	booking := findActiveBooking(bookings, libraryID, student.ERPID)
	if booking == nil {
		return &ScanOutcome{Action: ScanActionNone}, nil
	}

	now := s.clk.Now()

	if booking.Status == model.BookingStatusConfirmed {
		booking.Status = model.BookingStatusCompleted
		booking.CheckedOutAt = &now
		if err := s.saveWithRelease(ctx, bookings, booking.LibraryID, 1); err != nil {
			return nil, err
		}
		s.logger.Info("checked out",
			zap.String("booking_id", booking.ID),
			zap.String("library_id", booking.LibraryID),
		)
		return &ScanOutcome{Action: ScanActionCheckOut, Booking: booking}, nil
	}

	if now.After(booking.ExpiresAt) {
		// Scanning late does not check in; it only surfaces the
		// expiry the sweep would have applied.
		booking.Status = model.BookingStatusExpired
		if err := s.saveWithRelease(ctx, bookings, booking.LibraryID, 1); err != nil {
			return nil, err
		}
		s.logger.Info("reservation expired on scan",
			zap.String("booking_id", booking.ID),
			zap.String("library_id", booking.LibraryID),
		)
		return &ScanOutcome{Action: ScanActionExpired, Booking: booking}, nil
	}

	sessionEnds := now.Add(s.sessionWindow)
	booking.Status = model.BookingStatusConfirmed
	booking.CheckedInAt = &now
	booking.SessionEndsAt = &sessionEnds

	// The seat was already decremented at booking time; check-in
	// changes no inventory.
	if err := s.bookingRepo.SaveAll(ctx, bookings); err != nil {
		return nil, err
	}
	s.logger.Info("checked in",
		zap.String("booking_id", booking.ID),
		zap.String("library_id", booking.LibraryID),
		zap.Time("session_ends_at", sessionEnds),
	)
	return &ScanOutcome{Action: ScanActionCheckIn, Booking: booking}, nil
}

// ReconcileExpirations settles every booking that is past its deadline:
// pending past expiresAt becomes expired, confirmed past sessionEndsAt
// becomes completed with checkedOutAt stamped. Freed seats are summed
// per library and applied as one clamped delta each. Returns the number
// of transitions; running it again without a time change returns zero.
func (s *BookingService) ReconcileExpirations(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(ctx)
}

func (s *BookingService) sweepLocked(ctx context.Context) (int, error) {
	bookings := s.bookingRepo.GetAll(ctx)
	now := s.clk.Now()

	deltas := make(map[string]int)
	transitions := 0

	for _, b := range bookings {
		switch {
		case b.Status == model.BookingStatusPending && b.ExpiresAt.Before(now):
			b.Status = model.BookingStatusExpired
			deltas[b.LibraryID]++
			transitions++
		case b.Status == model.BookingStatusConfirmed && b.SessionEndsAt != nil && b.SessionEndsAt.Before(now):
			stamp := now
			b.Status = model.BookingStatusCompleted
			b.CheckedOutAt = &stamp
			deltas[b.LibraryID]++
			transitions++
		}
	}

	if transitions == 0 {
		return 0, nil
	}

	if err := s.bookingRepo.SaveAll(ctx, bookings); err != nil {
		return 0, err
	}

	libs := s.libraryRepo.GetAll(ctx)
	for _, lib := range libs {
		if delta := deltas[lib.ID]; delta > 0 {
			lib.Adjust(delta)
		}
	}
	if err := s.libraryRepo.SaveAll(ctx, libs); err != nil {
		return 0, err
	}

	s.logger.Info("expiry sweep settled bookings", zap.Int("transitions", transitions))
	return transitions, nil
}

// Bookings returns the ledger for display. Documents are stored
// newest-first; callers that need a deterministic order sort by Seq.
func (s *BookingService) Bookings(ctx context.Context) []*model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingRepo.GetAll(ctx)
}

// AdminRelease force-completes up to count confirmed bookings at the
// library, earliest-created first, stamping checkedOutAt. Returns how
// many were actually released.
func (s *BookingService) AdminRelease(ctx context.Context, libraryID string, count int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count <= 0 {
		return 0, nil
	}

	bookings := s.bookingRepo.GetAll(ctx)

	var confirmed []*model.Booking
	for _, b := range bookings {
		if b.LibraryID == libraryID && b.Status == model.BookingStatusConfirmed {
			confirmed = append(confirmed, b)
		}
	}
	sort.Slice(confirmed, func(i, j int) bool { return confirmed[i].Seq < confirmed[j].Seq })

	released := 0
	now := s.clk.Now()
	for _, b := range confirmed {
		if released == count {
			break
		}
		stamp := now
		b.Status = model.BookingStatusReleased
		b.CheckedOutAt = &stamp
		released++
	}

	if released == 0 {
		return 0, nil
	}
	if err := s.saveWithRelease(ctx, bookings, libraryID, released); err != nil {
		return 0, err
	}

	s.logger.Info("admin released seats",
		zap.String("library_id", libraryID),
		zap.Int("requested", count),
		zap.Int("released", released),
	)
	return released, nil
}

// saveWithRelease persists the ledger, then returns the given number of
// seats to the library with a single clamped adjustment.
func (s *BookingService) saveWithRelease(ctx context.Context, bookings []*model.Booking, libraryID string, seats int) error {
	if err := s.bookingRepo.SaveAll(ctx, bookings); err != nil {
		return err
	}

	libs := s.libraryRepo.GetAll(ctx)
	if lib := findLibrary(libs, libraryID); lib != nil {
		lib.Adjust(seats)
	}
	return s.libraryRepo.SaveAll(ctx, libs)
}

func findLibrary(libs []*model.Library, id string) *model.Library {
	for _, l := range libs {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// findActiveBooking returns the student's booking at the library to
// resolve a scan against: confirmed before pending, newest first within
// a status. The ordering is deliberate so that checkout always takes
// priority over check-in when both states coexist.
func findActiveBooking(bookings []*model.Booking, libraryID, studentERP string) *model.Booking {
	var best *model.Booking
	for _, b := range bookings {
		if b.LibraryID != libraryID || b.StudentERP != studentERP || !b.Status.Active() {
			continue
		}
		if best == nil {
			best = b
			continue
		}
		if rank(b.Status) > rank(best.Status) {
			best = b
			continue
		}
		if rank(b.Status) == rank(best.Status) && b.Seq > best.Seq {
			best = b
		}
	}
	return best
}

func rank(s model.BookingStatus) int {
	if s == model.BookingStatusConfirmed {
		return 1
	}
	return 0
}

func nextSeq(bookings []*model.Booking) int64 {
	var max int64
	for _, b := range bookings {
		if b.Seq > max {
			max = b.Seq
		}
	}
	return max + 1
}
