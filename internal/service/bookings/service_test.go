package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	bookingRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/booking"
	"github.com/v-gridnev/MH-BookingService/internal/service/bookings/models"
	"github.com/v-gridnev/MH-BookingService/pkg/ptr"
)

// Фейки

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
	deleted  []int64
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

func (f *fakeBookingRepo) GetByMenteeID(_ context.Context, menteeID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.MenteeID != menteeID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByMentorWithFilter(_ context.Context, filter domain.MentorBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.MentorID != filter.MentorID {
			continue
		}
		if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason *string, actor domain.CancelActor) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = reason
	b.CancelledBy = &actor
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

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDispatcher struct {
	declined  []*domain.Booking
	cancelled []*domain.Booking
}

func (f *fakeDispatcher) BookingDeclined(_ context.Context, booking *domain.Booking) {
	f.declined = append(f.declined, booking)
}

func (f *fakeDispatcher) BookingCancelled(_ context.Context, booking *domain.Booking) {
	f.cancelled = append(f.cancelled, booking)
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

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:        id,
		MentorID:  11,
		MenteeID:  42,
		StartTime: time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

func newTestService(repo *fakeBookingRepo) (*Service, *fakeDispatcher, *fakeInvalidator) {
	dispatcher := &fakeDispatcher{}
	invalidator := &fakeInvalidator{}
	svc := NewService(repo, fakeTxManager{}, dispatcher, invalidator, nopLogger{})
	return svc, dispatcher, invalidator
}

// GetByID

func TestGetByID_VisibleToParticipants(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc, _, _ := newTestService(repo)

	for _, userID := range []int64{11, 42} {
		resp, err := svc.GetByID(context.Background(), 1, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	}
}

func TestGetByID_AccessDeniedForStranger(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc, _, _ := newTestService(repo)

	_, err := svc.GetByID(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _ := newTestService(newFakeBookingRepo())

	_, err := svc.GetByID(context.Background(), 99, 11)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// GetMenteeBookings / GetMentorBookings

func TestGetMenteeBookings_FiltersByStatus(t *testing.T) {
	cancelled := testBooking(2, domain.StatusCancelled)
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed), cancelled)
	svc, _, _ := newTestService(repo)

	resp, err := svc.GetMenteeBookings(context.Background(), &models.GetMenteeBookingsRequest{
		MenteeID: 42,
		Status:   ptr.Ptr("cancelled"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(2), resp.Bookings[0].ID)
}

func TestGetMenteeBookings_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService(newFakeBookingRepo())

	_, err := svc.GetMenteeBookings(context.Background(), &models.GetMenteeBookingsRequest{
		MenteeID: 42,
		Status:   ptr.Ptr("rejected"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetMentorBookings_OnlyForTheMentorItself(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc, _, _ := newTestService(repo)

	_, err := svc.GetMentorBookings(context.Background(), &models.GetMentorBookingsRequest{
		MentorID: 11,
		UserID:   42,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetMentorBookings_ExcludesInactiveByDefault(t *testing.T) {
	repo := newFakeBookingRepo(
		testBooking(1, domain.StatusConfirmed),
		testBooking(2, domain.StatusCancelled),
	)
	svc, _, _ := newTestService(repo)

	resp, err := svc.GetMentorBookings(context.Background(), &models.GetMentorBookingsRequest{
		MentorID: 11,
		UserID:   11,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	withInactive, err := svc.GetMentorBookings(context.Background(), &models.GetMentorBookingsRequest{
		MentorID:        11,
		UserID:          11,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, withInactive.Bookings, 2)
}

// Decline

func TestDecline_DeletesPendingBooking(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPendingApproval))
	svc, dispatcher, invalidator := newTestService(repo)

	err := svc.Decline(context.Background(), 1, &models.DeclineBookingRequest{MentorID: 11})
	require.NoError(t, err)

	// Запись удалена физически, слот освобождён
	assert.Equal(t, []int64{1}, repo.deleted)
	assert.NotContains(t, repo.bookings, int64(1))
	require.Len(t, dispatcher.declined, 1)
	assert.Equal(t, []int64{11}, invalidator.mentorIDs)
}

func TestDecline_OnlyMentor(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPendingApproval))
	svc, _, _ := newTestService(repo)

	err := svc.Decline(context.Background(), 1, &models.DeclineBookingRequest{MentorID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Contains(t, repo.bookings, int64(1))
}

func TestDecline_OnlyPending(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc, dispatcher, _ := newTestService(repo)

	err := svc.Decline(context.Background(), 1, &models.DeclineBookingRequest{MentorID: 11})
	assert.ErrorIs(t, err, ErrCannotDecline)
	assert.Empty(t, dispatcher.declined)
}

// Cancel

func TestCancel_ByMentee(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc, dispatcher, invalidator := newTestService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             42,
		CancellationReason: ptr.Ptr("sick leave"),
	})
	require.NoError(t, err)

	b := repo.bookings[1]
	assert.Equal(t, domain.StatusCancelled, b.Status)
	require.NotNil(t, b.CancelledBy)
	assert.Equal(t, domain.CancelledByMentee, *b.CancelledBy)
	require.NotNil(t, b.CancellationReason)
	assert.Equal(t, "sick leave", *b.CancellationReason)

	require.Len(t, dispatcher.cancelled, 1)
	assert.Equal(t, []int64{11}, invalidator.mentorIDs)
}

func TestCancel_ByMentor(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusPendingApproval))
	svc, _, _ := newTestService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 11})
	require.NoError(t, err)

	b := repo.bookings[1]
	require.NotNil(t, b.CancelledBy)
	assert.Equal(t, domain.CancelledByMentor, *b.CancelledBy)
	assert.Nil(t, b.CancellationReason)
}

func TestCancel_SecondCancelIsNoOp(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc, dispatcher, invalidator := newTestService(repo)

	require.NoError(t, svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 42}))
	require.NoError(t, svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 42}))

	// Эффекты отправлены ровно один раз
	assert.Len(t, dispatcher.cancelled, 1)
	assert.Len(t, invalidator.mentorIDs, 1)
}

func TestCancel_AccessDeniedForStranger(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc, _, _ := newTestService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 999})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusConfirmed, repo.bookings[1].Status)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	repo := newFakeBookingRepo(testBooking(1, domain.StatusConfirmed))
	svc, _, _ := newTestService(repo)

	reason := strings.Repeat("x", domain.MaxCancellationReasonLength+1)
	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID:             42,
		CancellationReason: &reason,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
