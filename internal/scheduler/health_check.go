package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/database"
)

// HealthCheckJob performs database integrity checks. Runs every 6 hours.
type HealthCheckJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewHealthCheckJob creates a new health check job
func NewHealthCheckJob(db *database.DB, log zerolog.Logger) *HealthCheckJob {
	return &HealthCheckJob{
		db:  db,
		log: log.With().Str("job", "health_check").Logger(),
	}
}

// Name returns the job name
func (j *HealthCheckJob) Name() string {
	return "health_check"
}

// Run executes the health check
func (j *HealthCheckJob) Run() error {
	startTime := time.Now()

	if err := j.checkIntegrity(); err != nil {
		j.log.Error().Err(err).Msg("Database integrity check failed")
		return err
	}

	j.checkWALCheckpoint()

	j.log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Health check completed")

	return nil
}

// checkIntegrity runs SQLite's PRAGMA integrity_check
func (j *HealthCheckJob) checkIntegrity() error {
	var result string
	if err := j.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}

	j.log.Debug().Msg("Database integrity OK")
	return nil
}

// checkWALCheckpoint monitors WAL checkpoint status
func (j *HealthCheckJob) checkWALCheckpoint() {
	var mode, busy, walFrames, checkpointed int
	err := j.db.QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&mode, &busy, &walFrames, &checkpointed)
	if err != nil {
		j.log.Warn().Err(err).Msg("Failed to check WAL checkpoint")
		return
	}

	if walFrames > 1000 {
		j.log.Warn().
			Int("wal_frames", walFrames).
			Int("checkpointed", checkpointed).
			Msg("WAL file is large, checkpoint may be needed")
	} else {
		j.log.Debug().Int("wal_frames", walFrames).Msg("WAL checkpoint status OK")
	}
}
