package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lankastocks/cse-analyzer/internal/modules/history"
)

// RetentionJob prunes analysis history rows older than the retention window.
type RetentionJob struct {
	repo          *history.Repository
	retentionDays int
	log           zerolog.Logger
}

// NewRetentionJob creates a history retention job.
func NewRetentionJob(repo *history.Repository, retentionDays int, log zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		repo:          repo,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "history_retention").Logger(),
	}
}

// Name returns the job name.
func (j *RetentionJob) Name() string {
	return "history_retention"
}

// Run deletes history rows older than the configured retention window.
// A retention of zero or less disables pruning.
func (j *RetentionJob) Run() error {
	if j.retentionDays <= 0 {
		j.log.Debug().Msg("Retention disabled, skipping prune")
		return nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)

	deleted, err := j.repo.PruneOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("retention prune failed: %w", err)
	}

	j.log.Info().
		Int64("deleted", deleted).
		Int("retention_days", j.retentionDays).
		Msg("History retention completed")

	return nil
}
