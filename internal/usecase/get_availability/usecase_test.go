package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	availabilityRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/availability"
	"github.com/v-gridnev/MH-BookingService/pkg/localtime"
	"github.com/v-gridnev/MH-BookingService/pkg/ptr"
	"github.com/v-gridnev/MH-BookingService/pkg/types"
)

// Фейки

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetActiveOverlapping(_ context.Context, _ int64, start, end time.Time, _ *int64) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.Overlaps(start, end) {
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

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func workweekConfig(timezone string, slotMinutes int) *domain.MentorAvailability {
	return &domain.MentorAvailability{
		MentorID:            11,
		Timezone:            timezone,
		SlotDurationMinutes: slotMinutes,
		Weekly: map[time.Weekday][]domain.TimeRange{
			time.Monday:    {{Start: types.TimeString("09:00"), End: types.TimeString("17:00")}},
			time.Tuesday:   {{Start: types.TimeString("09:00"), End: types.TimeString("17:00")}},
			time.Wednesday: {{Start: types.TimeString("09:00"), End: types.TimeString("17:00")}},
			time.Thursday:  {{Start: types.TimeString("09:00"), End: types.TimeString("17:00")}},
			time.Friday:    {{Start: types.TimeString("09:00"), End: types.TimeString("17:00")}},
		},
	}
}

func newTestUseCase(cfg *domain.MentorAvailability, bookings []*domain.Booking, now time.Time) *UseCase {
	uc := NewUseCase(
		&fakeBookingRepo{bookings: bookings},
		&fakeAvailabilityRepo{cfg: cfg},
		nil,
		DefaultPolicy(),
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Тесты

func TestExecute_FullWorkday(t *testing.T) {
	cfg := workweekConfig("Europe/Moscow", 30)
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(cfg, nil, now)

	// Понедельник 2 марта 2026
	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 2),
	})
	require.NoError(t, err)

	slots := resp.Days["2026-03-02"]
	// 8 часов по 30 минут = 16 слотов
	require.Len(t, slots, 16)

	// Москва UTC+3: первый слот 09:00 MSK = 06:00 UTC
	assert.Equal(t, time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC), slots[0].End)
	assert.Equal(t, "2026-03-02 09:00 AM", slots[0].DisplayTime)

	// Последний слот 16:30 MSK
	last := slots[len(slots)-1]
	assert.Equal(t, time.Date(2026, 3, 2, 13, 30, 0, 0, time.UTC), last.Start)
	assert.Equal(t, "2026-03-02 04:30 PM", last.DisplayTime)
}

func TestExecute_WeekendIsEmpty(t *testing.T) {
	cfg := workweekConfig("Europe/Moscow", 30)
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(cfg, nil, now)

	// Суббота 7 марта 2026: дня нет в недельном расписании
	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 7),
		EndDate:   date(2026, 3, 7),
	})
	require.NoError(t, err)

	slots, ok := resp.Days["2026-03-07"]
	require.True(t, ok, "the date must be present with an empty list, not absent")
	assert.Empty(t, slots)
}

func TestExecute_OverrideBlocksWholeDay(t *testing.T) {
	cfg := workweekConfig("Europe/Moscow", 30)
	cfg.Overrides = []domain.DateOverride{
		{Date: date(2026, 3, 2), Reason: ptr.Ptr("conference")},
	}
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(cfg, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 3),
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Days["2026-03-02"], "override day yields no slots")
	assert.Len(t, resp.Days["2026-03-03"], 16, "the next day is unaffected")
}

func TestExecute_BookedSlotsAreDropped(t *testing.T) {
	cfg := workweekConfig("Europe/Moscow", 30)
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)

	// Подтверждённое бронирование 09:00-10:00 MSK = 06:00-07:00 UTC
	bookings := []*domain.Booking{{
		MentorID:  11,
		StartTime: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC),
		Status:    domain.StatusConfirmed,
	}}
	uc := newTestUseCase(cfg, bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 2),
	})
	require.NoError(t, err)

	slots := resp.Days["2026-03-02"]
	require.Len(t, slots, 14, "two 30-minute slots are covered by the booking")
	assert.Equal(t, time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC), slots[0].Start)
}

func TestExecute_PendingBookingAlsoBlocks(t *testing.T) {
	cfg := workweekConfig("Europe/Moscow", 30)
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)

	bookings := []*domain.Booking{{
		MentorID:  11,
		StartTime: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC),
		Status:    domain.StatusPendingApproval,
	}}
	uc := newTestUseCase(cfg, bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 2),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Days["2026-03-02"], 15)
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	cfg := workweekConfig("Europe/Moscow", 30)
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)

	bookings := []*domain.Booking{{
		MentorID:  11,
		StartTime: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC),
		Status:    domain.StatusCancelled,
	}}
	uc := newTestUseCase(cfg, bookings, now)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 2),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Days["2026-03-02"], 16)
}

func TestExecute_LeadTimeCutsNearSlots(t *testing.T) {
	cfg := workweekConfig("Europe/Moscow", 30)
	// Сейчас 09:10 MSK понедельника = 06:10 UTC. Lead time 2 часа:
	// первый доступный слот начинается не раньше 11:10 MSK, то есть 11:30 MSK.
	now := time.Date(2026, 3, 2, 6, 10, 0, 0, time.UTC)
	uc := newTestUseCase(cfg, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 2),
	})
	require.NoError(t, err)

	slots := resp.Days["2026-03-02"]
	require.NotEmpty(t, slots)
	// 11:30 MSK = 08:30 UTC
	assert.Equal(t, time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC), slots[0].Start)
	// 09:00..11:00 отрезаны: 16 - 5 = 11 слотов
	assert.Len(t, slots, 11)
}

func TestExecute_SlotsStayOnWallClockAcrossDST(t *testing.T) {
	// Понедельники по обе стороны мартовского перевода America/New_York:
	// 2 марта (EST, UTC-5) и 9 марта (EDT, UTC-4). Настенное время слотов
	// неизменно, UTC-моменты сдвигаются на час.
	cfg := &domain.MentorAvailability{
		MentorID:            11,
		Timezone:            "America/New_York",
		SlotDurationMinutes: 30,
		Weekly: map[time.Weekday][]domain.TimeRange{
			time.Monday: {{Start: types.TimeString("09:00"), End: types.TimeString("10:00")}},
		},
	}
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(cfg, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 9),
	})
	require.NoError(t, err)

	before := resp.Days["2026-03-02"]
	require.Len(t, before, 2)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), before[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC), before[1].Start)

	after := resp.Days["2026-03-09"]
	require.Len(t, after, 2)
	assert.Equal(t, time.Date(2026, 3, 9, 13, 0, 0, 0, time.UTC), after[0].Start)
	assert.Equal(t, time.Date(2026, 3, 9, 13, 30, 0, 0, time.UTC), after[1].Start)

	// Настенное время в обоих случаях одно и то же
	assert.Equal(t, "2026-03-02 09:00 AM", before[0].DisplayTime)
	assert.Equal(t, "2026-03-09 09:00 AM", after[0].DisplayTime)
}

func TestExecute_SpringForwardProducesNoPhantomSlots(t *testing.T) {
	// Диапазон 01:00-04:00 в день весеннего перевода America/New_York
	// содержит несуществующий час 02:00-03:00: в UTC диапазон длится
	// два часа, слотов ровно четыре.
	cfg := &domain.MentorAvailability{
		MentorID:            11,
		Timezone:            "America/New_York",
		SlotDurationMinutes: 30,
		Weekly: map[time.Weekday][]domain.TimeRange{
			time.Sunday: {{Start: types.TimeString("01:00"), End: types.TimeString("04:00")}},
		},
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(cfg, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 8),
		EndDate:   date(2026, 3, 8),
	})
	require.NoError(t, err)

	slots := resp.Days["2026-03-08"]
	require.Len(t, slots, 4)

	// 01:00 EST = 06:00 UTC, конец диапазона 04:00 EDT = 08:00 UTC
	assert.Equal(t, time.Date(2026, 3, 8, 6, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2026, 3, 8, 7, 30, 0, 0, time.UTC), slots[3].Start)
	assert.Equal(t, time.Date(2026, 3, 8, 8, 0, 0, 0, time.UTC), slots[3].End)
}

func TestExecute_DisplayTimeRoundTripsToUTC(t *testing.T) {
	cfg := workweekConfig("America/New_York", 60)
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(cfg, nil, now)

	resp, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 2),
	})
	require.NoError(t, err)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	for _, slot := range resp.Days["2026-03-02"] {
		parsed, err := localtime.ParseDisplay(slot.DisplayTime, loc)
		require.NoError(t, err)
		assert.True(t, parsed.Equal(slot.Start),
			"display time %q must round trip to %s", slot.DisplayTime, slot.Start)
	}
}

type fakeCache struct {
	stored  []byte
	hits    int
	misses  int
	setKeys []string
}

func (f *fakeCache) Get(_ context.Context, _ int64, _, _ string) ([]byte, bool) {
	if f.stored != nil {
		f.hits++
		return f.stored, true
	}
	f.misses++
	return nil, false
}

func (f *fakeCache) Set(_ context.Context, _ int64, startDate, endDate string, payload []byte) {
	f.stored = payload
	f.setKeys = append(f.setKeys, startDate+"/"+endDate)
}

func TestExecute_CachePopulatedAndServed(t *testing.T) {
	cfg := workweekConfig("Europe/Moscow", 30)
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)

	cache := &fakeCache{}
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{cfg: cfg},
		cache,
		DefaultPolicy(),
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: now}

	req := &Request{MentorID: 11, StartDate: date(2026, 3, 2), EndDate: date(2026, 3, 2)}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.misses)
	require.Equal(t, []string{"2026-03-02/2026-03-02"}, cache.setKeys)

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.Days, second.Days)
}

func TestExecute_RangeTooWide(t *testing.T) {
	cfg := workweekConfig("Europe/Moscow", 30)
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(cfg, nil, now)

	_, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 1),
		EndDate:   date(2026, 5, 15),
	})
	assert.ErrorIs(t, err, ErrRangeTooWide)
}

func TestExecute_MentorNotConfigured(t *testing.T) {
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{err: availabilityRepo.ErrConfigNotFound},
		nil,
		DefaultPolicy(),
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 2),
	})
	assert.ErrorIs(t, err, ErrMentorNotConfigured)
}

func TestExecute_BrokenTimezone(t *testing.T) {
	cfg := workweekConfig("Mars/Olympus", 30)
	now := time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)
	uc := newTestUseCase(cfg, nil, now)

	_, err := uc.Execute(context.Background(), &Request{
		MentorID:  11,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 2),
	})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
