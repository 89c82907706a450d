package migrations

import (
	"context"
	"fmt"

	"github.com/lifehubapp/lifehub/pkg/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Print(" [up migration] ")

		for _, model := range []interface{}{
			(*models.User)(nil),
			(*models.UserPreference)(nil),
			(*models.HealthMetric)(nil),
			(*models.WorkMetric)(nil),
		} {
			if _, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}

		_, err := db.NewCreateTable().
			Model((*models.ExternalConnection)(nil)).
			IfNotExists().
			ForeignKey(`("user_id") REFERENCES users ("id") ON DELETE CASCADE`).
			Exec(ctx)
		if err != nil {
			return err
		}

		_, err = db.NewCreateTable().
			Model((*models.Activity)(nil)).
			IfNotExists().
			ForeignKey(`("user_id") REFERENCES users ("id") ON DELETE CASCADE`).
			Exec(ctx)
		if err != nil {
			return err
		}

		// Natural keys for upserts and the one-connection-per-provider rule.
		for _, idx := range []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS external_connections_user_provider_idx
				ON external_connections (user_id, provider)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS health_metrics_user_date_idx
				ON health_metrics (user_id, date)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS activities_user_provider_activity_idx
				ON activities (user_id, provider_activity_id)`,
			`CREATE INDEX IF NOT EXISTS work_metrics_user_ts_idx
				ON work_metrics (user_id, timestamp)`,
		} {
			if _, err := db.NewRaw(idx).Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Print(" [down migration] ")

		for _, model := range []interface{}{
			(*models.Activity)(nil),
			(*models.ExternalConnection)(nil),
			(*models.WorkMetric)(nil),
			(*models.HealthMetric)(nil),
			(*models.UserPreference)(nil),
			(*models.User)(nil),
		} {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	})
}
