package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/v-gridnev/MH-BookingService/internal/domain"
	"github.com/v-gridnev/MH-BookingService/pkg/dbmetrics"
	"github.com/v-gridnev/MH-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий конфигурации доступности менторов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByMentorID получает конфигурацию доступности ментора вместе с оверрайдами дат
func (r *Repository) GetByMentorID(ctx context.Context, mentorID int64) (*domain.MentorAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"mentor_id",
		"timezone",
		"slot_duration_minutes",
		"auto_approve",
		"weekly",
		"created_at",
		"updated_at",
	).
		From("mentor_availability").
		Where(squirrel.Eq{"mentor_id": mentorID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByMentorID - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.MentorAvailability
	var weeklyRaw []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.MentorID,
		&cfg.Timezone,
		&cfg.SlotDurationMinutes,
		&cfg.AutoApprove,
		&weeklyRaw,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMentorID - scan config: %v", ErrScanRow, err)
	}

	cfg.Weekly, err = weeklyFromJSON(weeklyRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByMentorID - decode weekly: %v", ErrScanRow, err)
	}
	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	overrides, err := r.getOverrides(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	cfg.Overrides = overrides

	return &cfg, nil
}

// Replace полностью заменяет конфигурацию доступности ментора (не patch).
// Вызывается внутри транзакции, чтобы upsert конфигурации и замена
// оверрайдов были атомарны.
func (r *Repository) Replace(ctx context.Context, cfg *domain.MentorAvailability) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weeklyRaw, err := weeklyToJSON(cfg.Weekly)
	if err != nil {
		return fmt.Errorf("%w: Replace: %v", ErrEncodeWeekly, err)
	}

	query, args, err := psqlbuilder.Insert("mentor_availability").
		Columns("mentor_id", "timezone", "slot_duration_minutes", "auto_approve", "weekly").
		Values(cfg.MentorID, cfg.Timezone, cfg.SlotDurationMinutes, cfg.AutoApprove, weeklyRaw).
		Suffix(`ON CONFLICT (mentor_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			auto_approve = EXCLUDED.auto_approve,
			weekly = EXCLUDED.weekly,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Replace - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - execute upsert: %v", ErrExecQuery, err)
	}

	// Полная замена оверрайдов
	delQuery, delArgs, err := psqlbuilder.Delete("mentor_unavailable_dates").
		Where(squirrel.Eq{"mentor_id": cfg.MentorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build delete overrides: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return fmt.Errorf("%w: Replace - delete overrides: %v", ErrExecQuery, err)
	}

	if len(cfg.Overrides) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("mentor_unavailable_dates").
		Columns("mentor_id", "date", "reason")
	for _, o := range cfg.Overrides {
		insertBuilder = insertBuilder.Values(cfg.MentorID, o.Date, o.Reason)
	}

	insQuery, insArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert overrides: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insQuery, insArgs...); err != nil {
		return fmt.Errorf("%w: Replace - insert overrides: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getOverrides(ctx context.Context, mentorID int64) ([]domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "reason").
		From("mentor_unavailable_dates").
		Where(squirrel.Eq{"mentor_id": mentorID}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]domain.DateOverride, 0)
	for rows.Next() {
		var o domain.DateOverride
		if err := rows.Scan(&o.Date, &o.Reason); err != nil {
			return nil, fmt.Errorf("%w: getOverrides - scan row: %v", ErrScanRow, err)
		}
		o.Date = o.Date.UTC()
		overrides = append(overrides, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getOverrides - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// weekdayNames имена дней недели в JSONB-колонке weekly
var weekdayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

func weeklyToJSON(weekly map[time.Weekday][]domain.TimeRange) ([]byte, error) {
	out := make(map[string][]domain.TimeRange, len(weekly))
	for day, ranges := range weekly {
		if len(ranges) == 0 {
			continue
		}
		out[weekdayNames[day]] = ranges
	}
	return json.Marshal(out)
}

func weeklyFromJSON(raw []byte) (map[time.Weekday][]domain.TimeRange, error) {
	var decoded map[string][]domain.TimeRange
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}

	weekly := make(map[time.Weekday][]domain.TimeRange, len(decoded))
	for name, ranges := range decoded {
		day, err := weekdayFromName(name)
		if err != nil {
			return nil, err
		}
		weekly[day] = ranges
	}
	return weekly, nil
}

func weekdayFromName(name string) (time.Weekday, error) {
	for day, n := range weekdayNames {
		if n == strings.ToLower(name) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
