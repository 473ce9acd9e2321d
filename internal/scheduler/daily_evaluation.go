package scheduler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/modules/evaluation"
)

// DailyEvaluationJob runs the full portfolio evaluation on its cron schedule.
// Weekends are excluded by the schedule itself; the calendar catches full-day
// market closures the cron expression cannot express.
type DailyEvaluationJob struct {
	runner   *evaluation.Runner
	calendar *TradingCalendar
	log      zerolog.Logger
}

// NewDailyEvaluationJob creates the daily evaluation job.
func NewDailyEvaluationJob(runner *evaluation.Runner, calendar *TradingCalendar, log zerolog.Logger) *DailyEvaluationJob {
	return &DailyEvaluationJob{
		runner:   runner,
		calendar: calendar,
		log:      log.With().Str("job", "daily_evaluation").Logger(),
	}
}

// Name returns the job name
func (j *DailyEvaluationJob) Name() string {
	return "daily_evaluation"
}

// Run executes one evaluation pass.
func (j *DailyEvaluationJob) Run() error {
	if j.calendar != nil && !j.calendar.IsTradingDay(time.Now()) {
		j.log.Info().Msg("Market closed today, skipping evaluation")
		return nil
	}

	res, err := j.runner.Run()
	if err != nil {
		return err
	}

	j.log.Info().
		Str("date", res.AsOf.Format("2006-01-02")).
		Int("risk_score", res.Risk.Score).
		Str("risk_level", string(res.Risk.Level)).
		Msg("Daily evaluation finished")

	return nil
}
