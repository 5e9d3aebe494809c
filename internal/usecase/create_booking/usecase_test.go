package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	availabilityRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/availability"
	"github.com/v-gridnev/MH-BookingService/internal/integrations/profileservice"
	"github.com/v-gridnev/MH-BookingService/pkg/types"
)

// Фейки

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	existing []*domain.Booking
	created  []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stored := *booking
	stored.ID = f.nextID
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	f.existing = append(f.existing, &stored)
	f.created = append(f.created, &stored)
	return &stored, nil
}

func (f *fakeBookingRepo) GetActiveOverlapping(_ context.Context, _ int64, start, end time.Time, _ *int64) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range f.existing {
		if b.IsActive() && b.Overlaps(start, end) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeAvailabilityRepo struct {
	cfg *domain.MentorAvailability
	err error
}

func (f *fakeAvailabilityRepo) GetByMentorID(_ context.Context, _ int64) (*domain.MentorAvailability, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

type fakeProfileClient struct {
	profile *profileservice.Profile
	err     error
}

func (f *fakeProfileClient) GetProfile(_ context.Context, _ int64) (*profileservice.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// fakeTxManager выполняет функции последовательно под мьютексом,
// эмулируя изоляцию сериализуемых транзакций.
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeDispatcher struct {
	mu        sync.Mutex
	created   []*domain.Booking
	conflicts int
}

func (f *fakeDispatcher) BookingCreated(_ context.Context, booking *domain.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, booking)
}

func (f *fakeDispatcher) BookingConflict(_ context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conflicts++
}

type fakeInvalidator struct {
	mu        sync.Mutex
	mentorIDs []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, mentorID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mentorIDs = append(f.mentorIDs, mentorID)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Окружение с разумными дефолтами: понедельник 09:00-17:00 MSK,
// слоты по 60 минут, ручное подтверждение.

type testEnv struct {
	uc          *UseCase
	bookingRepo *fakeBookingRepo
	availRepo   *fakeAvailabilityRepo
	dispatcher  *fakeDispatcher
	invalidator *fakeInvalidator
}

func newTestEnv(cfg *domain.MentorAvailability, now time.Time) *testEnv {
	env := &testEnv{
		bookingRepo: &fakeBookingRepo{},
		availRepo:   &fakeAvailabilityRepo{cfg: cfg},
		dispatcher:  &fakeDispatcher{},
		invalidator: &fakeInvalidator{},
	}
	env.uc = NewUseCase(
		env.bookingRepo,
		env.availRepo,
		&fakeProfileClient{profile: &profileservice.Profile{ID: 42, Timezone: "Europe/Moscow"}},
		&fakeTxManager{},
		env.dispatcher,
		env.invalidator,
		2*time.Hour,
		60*24*time.Hour,
		nopLogger{},
	)
	env.uc.timeProvider = fixedTime{now: now}
	return env
}

func mondayConfig(autoApprove bool) *domain.MentorAvailability {
	return &domain.MentorAvailability{
		MentorID:            11,
		Timezone:            "Europe/Moscow",
		SlotDurationMinutes: 60,
		AutoApprove:         autoApprove,
		Weekly: map[time.Weekday][]domain.TimeRange{
			time.Monday: {{Start: types.TimeString("09:00"), End: types.TimeString("17:00")}},
		},
	}
}

// Понедельник 2 марта 2026, слот 10:00-11:00 MSK = 07:00-08:00 UTC
var (
	testNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	slotStart = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	slotEnd   = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
)

func validRequest() *Request {
	return &Request{
		MentorID:  11,
		MenteeID:  42,
		StartTime: slotStart,
		EndTime:   slotEnd,
	}
}

// Тесты

func TestExecute_CreatesPendingBooking(t *testing.T) {
	env := newTestEnv(mondayConfig(false), testNow)

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPendingApproval), resp.Status)
	assert.Equal(t, "Europe/Moscow", resp.RequesterTimezone)
	assert.True(t, resp.StartTime.Equal(slotStart))

	// Пост-коммитные эффекты
	require.Len(t, env.dispatcher.created, 1)
	assert.Equal(t, domain.StatusPendingApproval, env.dispatcher.created[0].Status)
	assert.Equal(t, []int64{11}, env.invalidator.mentorIDs)
}

func TestExecute_AutoApproveCreatesConfirmed(t *testing.T) {
	env := newTestEnv(mondayConfig(true), testNow)

	resp, err := env.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.Len(t, env.dispatcher.created, 1)
	assert.Equal(t, domain.StatusConfirmed, env.dispatcher.created[0].Status)
}

func TestExecute_ExplicitTimezoneWinsOverProfile(t *testing.T) {
	env := newTestEnv(mondayConfig(false), testNow)

	req := validRequest()
	req.Timezone = "America/New_York"

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", resp.RequesterTimezone)
}

func TestExecute_SlotTaken(t *testing.T) {
	env := newTestEnv(mondayConfig(false), testNow)
	env.bookingRepo.existing = []*domain.Booking{{
		ID:        77,
		MentorID:  11,
		StartTime: slotStart,
		EndTime:   slotEnd,
		Status:    domain.StatusConfirmed,
	}}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, env.dispatcher.created)
	assert.Empty(t, env.invalidator.mentorIDs)
	assert.Equal(t, 1, env.dispatcher.conflicts)
}

func TestExecute_PendingOverlapAlsoBlocks(t *testing.T) {
	env := newTestEnv(mondayConfig(false), testNow)
	// Пересечение частичное: существующий 10:30-11:30 MSK
	env.bookingRepo.existing = []*domain.Booking{{
		ID:        77,
		MentorID:  11,
		StartTime: slotStart.Add(30 * time.Minute),
		EndTime:   slotEnd.Add(30 * time.Minute),
		Status:    domain.StatusPendingApproval,
	}}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_OffGridInterval(t *testing.T) {
	env := newTestEnv(mondayConfig(false), testNow)

	// 10:30-11:30 MSK не совпадает ни с одним слотом сетки 09:00+60m
	req := validRequest()
	req.StartTime = slotStart.Add(30 * time.Minute)
	req.EndTime = slotEnd.Add(30 * time.Minute)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotBookable)
}

func TestExecute_OverriddenDate(t *testing.T) {
	cfg := mondayConfig(false)
	cfg.Overrides = []domain.DateOverride{
		{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	env := newTestEnv(cfg, testNow)

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotBookable)
}

func TestExecute_WrongDuration(t *testing.T) {
	env := newTestEnv(mondayConfig(false), testNow)

	req := validRequest()
	req.EndTime = slotStart.Add(30 * time.Minute)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_TooLateToBook(t *testing.T) {
	// Сейчас за час до слота, lead time два часа
	env := newTestEnv(mondayConfig(false), slotStart.Add(-time.Hour))

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_TooFarInFuture(t *testing.T) {
	env := newTestEnv(mondayConfig(false), slotStart.Add(-61*24*time.Hour))

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooFarInFuture)
}

func TestExecute_MenteeNotFound(t *testing.T) {
	env := newTestEnv(mondayConfig(false), testNow)
	env.uc.profileClient = &fakeProfileClient{err: profileservice.ErrProfileNotFound}

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrMenteeNotFound)
}

func TestExecute_MentorNotConfigured(t *testing.T) {
	env := newTestEnv(mondayConfig(false), testNow)
	env.availRepo.cfg = nil
	env.availRepo.err = availabilityRepo.ErrConfigNotFound

	_, err := env.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrMentorNotConfigured)
}

func TestExecute_ConcurrentSameSlotOneWinner(t *testing.T) {
	env := newTestEnv(mondayConfig(false), testNow)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.MenteeID = int64(100 + i)
			_, errs[i] = env.uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	var won, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case assert.ErrorIs(t, err, ErrSlotTaken):
			taken++
		}
	}
	assert.Equal(t, 1, won, "exactly one concurrent request must win the slot")
	assert.Equal(t, attempts-1, taken)
	assert.Len(t, env.bookingRepo.created, 1)
	assert.Equal(t, attempts-1, env.dispatcher.conflicts)
}
