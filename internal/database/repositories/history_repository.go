package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// HistoryEntry is one persisted evaluation run summary.
type HistoryEntry struct {
	Date           string  `json:"date"`
	RiskScore      int     `json:"risk_score"`
	RiskLevel      string  `json:"risk_level"`
	TotalValue     float64 `json:"total_value"`
	TotalChangePct float64 `json:"total_change_pct"`
	AvailableFunds float64 `json:"available_funds"`
}

// HistoryRepository persists daily evaluation summaries.
type HistoryRepository struct {
	*BaseRepository
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *sql.DB, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		BaseRepository: NewBase(db, log.With().Str("repo", "history").Logger()),
	}
}

// Save upserts the entry for its date. Re-running an evaluation for the same
// day replaces that day's row rather than duplicating it.
func (r *HistoryRepository) Save(e HistoryEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO evaluation_history (date, risk_score, risk_level, total_value, total_change_pct, available_funds)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			risk_score = excluded.risk_score,
			risk_level = excluded.risk_level,
			total_value = excluded.total_value,
			total_change_pct = excluded.total_change_pct,
			available_funds = excluded.available_funds`,
		e.Date, e.RiskScore, e.RiskLevel, e.TotalValue, e.TotalChangePct, e.AvailableFunds,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	r.log.Debug().Str("date", e.Date).Int("risk_score", e.RiskScore).Msg("History entry saved")
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *HistoryRepository) Recent(limit int) ([]HistoryEntry, error) {
	rows, err := r.db.Query(`
		SELECT date, risk_score, risk_level, total_value, total_change_pct, available_funds
		FROM evaluation_history
		ORDER BY date DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Date, &e.RiskScore, &e.RiskLevel, &e.TotalValue, &e.TotalChangePct, &e.AvailableFunds); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ForDate returns the entry for one day, or nil when that day has no run.
func (r *HistoryRepository) ForDate(date time.Time) (*HistoryEntry, error) {
	var e HistoryEntry
	err := r.db.QueryRow(`
		SELECT date, risk_score, risk_level, total_value, total_change_pct, available_funds
		FROM evaluation_history
		WHERE date = ?`, date.Format("2006-01-02"),
	).Scan(&e.Date, &e.RiskScore, &e.RiskLevel, &e.TotalValue, &e.TotalChangePct, &e.AvailableFunds)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history for date: %w", err)
	}
	return &e, nil
}
