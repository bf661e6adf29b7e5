// Package database is the gorm-backed domain.Store. Production runs on
// PostgreSQL; tests run the same code on in-memory SQLite.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts   = 5
	initialBackoff    = 500 * time.Millisecond
	maxConnectBackoff = 8 * time.Second
)

// Store implements domain.Store on gorm.
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL, retrying with exponential backoff while the
// server comes up, and creates the tables.
func Open(ctx context.Context, dsn string, log *slog.Logger) (*Store, error) {
	var (
		db  *gorm.DB
		err error
	)
	backoff := initialBackoff
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			break
		}
		log.Warn("database connect failed", "attempt", attempt, "error", err)
		if attempt == connectAttempts || !sleepWithContext(ctx, backoff) {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		backoff = nextBackoff(backoff, maxConnectBackoff)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return New(db)
}

// New wraps an open gorm connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&eventModel{}, &alertModel{}, &evidenceModel{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) InsertEvents(ctx context.Context, events []domain.Event) ([]domain.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	var existing []string
	if err := s.db.WithContext(ctx).Model(&eventModel{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return nil, fmt.Errorf("look up existing events: %w", err)
	}
	seen := make(map[string]bool, len(existing)+len(events))
	for _, id := range existing {
		seen[id] = true
	}

	inserted := make([]domain.Event, 0, len(events))
	rows := make([]eventModel, 0, len(events))
	for _, e := range events {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		inserted = append(inserted, e)
		rows = append(rows, fromEvent(e))
	}
	if len(rows) == 0 {
		return inserted, nil
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 200).Error
	if err != nil {
		return nil, fmt.Errorf("insert %d events: %w", len(rows), err)
	}
	return inserted, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	var m eventModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		return domain.Event{}, notFound(err, "event %s", id)
	}
	return m.toDomain(), nil
}

func (s *Store) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	q := s.db.WithContext(ctx).Model(&eventModel{})
	if filter.Type != "" {
		q = q.Where("events.event_type = ?", string(filter.Type))
	}
	if filter.Severity != "" {
		q = q.Joins("JOIN alerts ON alerts.event_id = events.id").
			Where("alerts.severity = ?", string(filter.Severity))
	}

	var rows []eventModel
	err := q.Select("events.*").
		Order("events.created_at DESC").
		Limit(domain.ClampLimit(filter.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]domain.Event, len(rows))
	for i, m := range rows {
		out[i] = m.toDomain()
	}
	return out, nil
}

func (s *Store) InsertAlerts(ctx context.Context, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	rows := make([]alertModel, len(alerts))
	for i, a := range alerts {
		rows[i] = fromAlert(a)
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 200).Error
	if err != nil {
		return fmt.Errorf("insert %d alerts: %w", len(rows), err)
	}
	return nil
}

func (s *Store) GetAlert(ctx context.Context, id string) (domain.AlertDetail, error) {
	var m alertModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		return domain.AlertDetail{}, notFound(err, "alert %s", id)
	}

	detail := domain.AlertDetail{Alert: m.toDomain()}
	event, err := s.GetEvent(ctx, m.EventID)
	switch {
	case err == nil:
		detail.Event = &event
	case !errors.Is(err, domain.ErrNotFound):
		return domain.AlertDetail{}, err
	}

	evidences, err := s.ListEvidence(ctx, m.EventID)
	if err != nil {
		return domain.AlertDetail{}, err
	}
	if len(evidences) > 0 {
		detail.Evidences = evidences
	}
	return detail, nil
}

func (s *Store) AlertForEvent(ctx context.Context, eventID string) (domain.Alert, error) {
	var m alertModel
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at").
		Take(&m).Error
	if err != nil {
		return domain.Alert{}, notFound(err, "alert for event %s", eventID)
	}
	return m.toDomain(), nil
}

func (s *Store) ListAlerts(ctx context.Context, filter domain.AlertFilter) ([]domain.AlertDetail, error) {
	q := s.db.WithContext(ctx).Model(&alertModel{})
	if filter.Severity != "" {
		q = q.Where("severity = ?", string(filter.Severity))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	var rows []alertModel
	if err := q.Order("created_at DESC").Limit(domain.ClampLimit(filter.Limit)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	if len(rows) == 0 {
		return []domain.AlertDetail{}, nil
	}

	eventIDs := make([]string, len(rows))
	for i, m := range rows {
		eventIDs[i] = m.EventID
	}
	var events []eventModel
	if err := s.db.WithContext(ctx).Where("id IN ?", eventIDs).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("join alert events: %w", err)
	}
	byID := make(map[string]domain.Event, len(events))
	for _, m := range events {
		byID[m.ID] = m.toDomain()
	}

	out := make([]domain.AlertDetail, len(rows))
	for i, m := range rows {
		out[i] = domain.AlertDetail{Alert: m.toDomain()}
		if e, ok := byID[m.EventID]; ok {
			out[i].Event = &e
		}
	}
	return out, nil
}

func (s *Store) UpdateAlert(ctx context.Context, alert domain.Alert) error {
	m := fromAlert(alert)
	res := s.db.WithContext(ctx).Model(&alertModel{}).Where("id = ?", alert.ID).Updates(map[string]any{
		"severity":          m.Severity,
		"status":            m.Status,
		"suggested_actions": m.SuggestedActions,
		"generated_pdf_url": m.GeneratedPDFURL,
		"updated_at":        m.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update alert %s: %w", alert.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("alert %s: %w", alert.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) InsertEvidence(ctx context.Context, ev domain.Evidence) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&eventModel{}).Where("id = ?", ev.EventID).Count(&n).Error; err != nil {
		return fmt.Errorf("look up event %s: %w", ev.EventID, err)
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", ev.EventID, domain.ErrNotFound)
	}
	m := fromEvidence(ev)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert evidence %s: %w", ev.ID, err)
	}
	return nil
}

func (s *Store) ListEvidence(ctx context.Context, eventID string) ([]domain.Evidence, error) {
	var rows []evidenceModel
	if err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("added_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list evidence for %s: %w", eventID, err)
	}
	out := make([]domain.Evidence, len(rows))
	for i, m := range rows {
		out[i] = m.toDomain()
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CheckReadiness reports whether the database answers a ping.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
