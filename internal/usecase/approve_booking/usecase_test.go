package approve_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	bookingRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/booking"
)

// Фейки

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking

	updated []int64
	deleted []int64
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetActiveOverlapping(_ context.Context, mentorID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.MentorID == mentorID && b.IsActive() && b.Overlaps(start, end) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, expected, next domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != expected {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = next
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(f.bookings, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDispatcher struct {
	approved  []*domain.Booking
	conflicts int
}

func (f *fakeDispatcher) BookingApproved(_ context.Context, booking *domain.Booking) {
	f.approved = append(f.approved, booking)
}

func (f *fakeDispatcher) BookingConflict(_ context.Context) {
	f.conflicts++
}

type fakeInvalidator struct {
	mentorIDs []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, mentorID int64) {
	f.mentorIDs = append(f.mentorIDs, mentorID)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	slotStart = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	slotEnd   = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
)

func pendingBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		MentorID:  11,
		MenteeID:  42,
		StartTime: slotStart,
		EndTime:   slotEnd,
		Status:    domain.StatusPendingApproval,
	}
}

func newUseCase(repo *fakeBookingRepo) (*UseCase, *fakeDispatcher, *fakeInvalidator) {
	dispatcher := &fakeDispatcher{}
	invalidator := &fakeInvalidator{}
	uc := NewUseCase(repo, fakeTxManager{}, dispatcher, invalidator, nopLogger{})
	return uc, dispatcher, invalidator
}

// Тесты

func TestExecute_ConfirmsPendingBooking(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	uc, dispatcher, invalidator := newUseCase(repo)

	resp, err := uc.Execute(context.Background(), 1, 11)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, domain.StatusConfirmed, repo.bookings[1].Status)
	require.Len(t, dispatcher.approved, 1)
	assert.Equal(t, []int64{11}, invalidator.mentorIDs)
}

func TestExecute_AlreadyConfirmedIsNoOp(t *testing.T) {
	confirmed := pendingBooking(1)
	confirmed.Status = domain.StatusConfirmed
	repo := newFakeBookingRepo(confirmed)
	uc, dispatcher, invalidator := newUseCase(repo)

	resp, err := uc.Execute(context.Background(), 1, 11)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	// Повтор не порождает эффектов
	assert.Empty(t, dispatcher.approved)
	assert.Empty(t, invalidator.mentorIDs)
	assert.Empty(t, repo.updated)
}

func TestExecute_ConflictDeletesLoser(t *testing.T) {
	winner := pendingBooking(2)
	winner.MenteeID = 43
	winner.Status = domain.StatusConfirmed

	repo := newFakeBookingRepo(pendingBooking(1), winner)
	uc, dispatcher, invalidator := newUseCase(repo)

	_, err := uc.Execute(context.Background(), 1, 11)
	assert.ErrorIs(t, err, ErrApproveConflict)

	// Проигравший pending-запрос физически удалён, победитель не тронут
	assert.Equal(t, []int64{1}, repo.deleted)
	assert.NotContains(t, repo.bookings, int64(1))
	assert.Equal(t, domain.StatusConfirmed, repo.bookings[2].Status)

	// Кэш сброшен, конфликт учтён, но событие подтверждения не отправляется
	assert.Equal(t, []int64{11}, invalidator.mentorIDs)
	assert.Equal(t, 1, dispatcher.conflicts)
	assert.Empty(t, dispatcher.approved)
}

func TestExecute_PendingOverlapDoesNotBlock(t *testing.T) {
	other := pendingBooking(2)
	other.MenteeID = 43

	repo := newFakeBookingRepo(pendingBooking(1), other)
	uc, _, _ := newUseCase(repo)

	// Пересечение с другим pending не мешает: подтверждается первый
	resp, err := uc.Execute(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, domain.StatusPendingApproval, repo.bookings[2].Status)
}

func TestExecute_NotFound(t *testing.T) {
	uc, _, _ := newUseCase(newFakeBookingRepo())

	_, err := uc.Execute(context.Background(), 99, 11)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	uc, _, _ := newUseCase(repo)

	_, err := uc.Execute(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPendingApproval, repo.bookings[1].Status)
}

func TestExecute_CancelledBookingCannotBeApproved(t *testing.T) {
	cancelled := pendingBooking(1)
	cancelled.Status = domain.StatusCancelled

	repo := newFakeBookingRepo(cancelled)
	uc, _, _ := newUseCase(repo)

	_, err := uc.Execute(context.Background(), 1, 11)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
