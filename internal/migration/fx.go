package migration

import (
	actordomain "github.com/smallbiznis/crewlink/internal/actor/domain"
	affiliationdomain "github.com/smallbiznis/crewlink/internal/affiliation/domain"
	"github.com/smallbiznis/crewlink/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Versioned migrations target postgres; other dialects are for
		// local development and get the gorm schema directly.
		return AutoMigrateDev(conn)
	}),
)

// AutoMigrateDev builds the schema through gorm for the non-postgres
// dialects, including the partial unique index that backstops the
// one-pending-request invariant. MySQL has no partial indexes, so there the
// invariant rests on the service's pre-checks alone.
func AutoMigrateDev(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&actordomain.Worker{},
		&actordomain.Agency{},
		&actordomain.AgencyMember{},
		&affiliationdomain.AffiliationRequest{},
	); err != nil {
		return err
	}

	if conn.Dialector.Name() == "sqlite" {
		return conn.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_affiliation_requests_pending
			 ON affiliation_requests (worker_id, agency_id, direction)
			 WHERE status = 'PENDING'`,
		).Error
	}

	return nil
}
