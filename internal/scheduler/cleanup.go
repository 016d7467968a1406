package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/labplanner/internal/db"
	dbgen "github.com/codr1/labplanner/internal/db/generated"
	"github.com/codr1/labplanner/internal/layout"
)

const OverrideCleanupJobName = "capacity_override_cleanup"

// RegisterOverrideCleanup schedules removal of capacity overrides that ended
// before today.
func RegisterOverrideCleanup(svc *Service, database *db.DB, cronExpr string, cache *layout.Cache) error {
	if database == nil {
		return fmt.Errorf("override cleanup requires database")
	}

	jobLogger := log.With().
		Str("component", "capacity_override_cleanup_job").
		Str("job_name", OverrideCleanupJobName).
		Str("cron", cronExpr).
		Logger()

	_, err := svc.AddJob(OverrideCleanupJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		removed, err := CleanupExpiredOverrides(ctx, database.Queries, cache, time.Now())
		if err != nil {
			jobLogger.Error().Err(err).Msg("Capacity override cleanup failed")
			return
		}
		jobLogger.Info().Int64("removed", removed).Msg("Capacity override cleanup completed")
	})
	return err
}

// CleanupExpiredOverrides deletes overrides whose end_date is before now's
// calendar day and invalidates the layout cache when any were removed.
func CleanupExpiredOverrides(ctx context.Context, q *dbgen.Queries, cache *layout.Cache, now time.Time) (int64, error) {
	today := layout.FormatDay(now)
	removed, err := q.DeleteExpiredCapacityOverrides(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("delete overrides before %s: %w", today, err)
	}
	if removed > 0 && cache != nil {
		cache.Invalidate()
	}
	return removed, nil
}
