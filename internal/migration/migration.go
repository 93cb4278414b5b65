package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	billboarddomain "github.com/smallbiznis/billboards/internal/billboard/domain"
	contractdomain "github.com/smallbiznis/billboards/internal/contract/domain"
	customerdomain "github.com/smallbiznis/billboards/internal/customer/domain"
	paymentdomain "github.com/smallbiznis/billboards/internal/payment/domain"
	ratecarddomain "github.com/smallbiznis/billboards/internal/ratecard/domain"
	"gorm.io/gorm"
)

// RunMigrations applies the embedded SQL migrations to a PostgreSQL database.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// Models lists every persisted type, in creation order.
func Models() []any {
	return []any{
		&billboarddomain.Billboard{},
		&ratecarddomain.RateCardEntry{},
		&customerdomain.Customer{},
		&contractdomain.Contract{},
		&paymentdomain.Entry{},
	}
}

// AutoMigrate creates the schema from the models. It serves the SQLite and
// MySQL dialects, which the SQL migrations do not target.
func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
