package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billboards/internal/config"
	"github.com/smallbiznis/billboards/internal/seed"
	"github.com/smallbiznis/billboards/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, pricing *config.PricingConfigHolder, node *snowflake.Node, log *zap.Logger) error {
		switch {
		case db.IsPostgres(conn):
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		case cfg.DBAutoMigrate:
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		default:
			log.Warn("schema management skipped", zap.String("dialect", conn.Dialector.Name()))
		}

		written, err := seed.EnsureRateCard(conn, node, pricing.Get().SeedRateCard)
		if err != nil {
			return err
		}
		if written > 0 {
			log.Info("rate card seeded", zap.Int("entries", written))
		}
		return nil
	}),
)
