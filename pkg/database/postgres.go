package database

import (
	"fmt"

	"github.com/hostelhq/reservation-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema and installs the no-double-booking guard. The
// exclusion constraint is the single storage-level enforcement point: two
// transactions that both saw a bed as free cannot both commit an overlapping
// active stay on it; the loser fails atomically and the service reports the
// bed as unavailable.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Office{},
		&models.Room{},
		&models.Bed{},
		&models.EligibleGenderSchedule{},
		&models.Reservation{},
		&models.Guest{},
		&models.StayDetail{},
		&models.Payment{},
		&models.ExtendedReservation{},
		&models.RebookReservation{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist extension: %w", err)
	}

	// Closed-interval overlap on the same bed, active stays only. ADD
	// CONSTRAINT has no IF NOT EXISTS, hence the DO block.
	err := db.Exec(`
		DO $$ BEGIN
			ALTER TABLE stay_details
			ADD CONSTRAINT stay_details_no_double_booking
			EXCLUDE USING gist (
				bed_id WITH =,
				daterange(check_in_date, check_out_date, '[]') WITH &&
			)
			WHERE (bed_id IS NOT NULL AND status NOT IN ('canceled', 'checked_out'));
		EXCEPTION
			WHEN duplicate_object THEN NULL;
			WHEN duplicate_table THEN NULL;
		END $$
	`).Error
	if err != nil {
		return fmt.Errorf("create stay_details exclusion constraint: %w", err)
	}

	return nil
}
