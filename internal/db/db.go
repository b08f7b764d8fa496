package db

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-recall/internal/config"
	"github.com/BruksfildServices01/clinic-recall/internal/models"
)

func NewDB(cfg *config.Config, log zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Appointment{},
		&models.DismissalRecord{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	if err := db.Exec(notifyTriggerSQL).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to install notification trigger")
	}

	moved, err := MigrateLegacyDismissals(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate legacy dismissals")
	}
	if moved > 0 {
		log.Info().Int("dismissals", moved).Msg("legacy recall dismissals migrated")
	}

	return db
}

// notifyTriggerSQL publishes every inserted notification row on the
// notification_inserted channel.
const notifyTriggerSQL = `
CREATE OR REPLACE FUNCTION notify_notification_inserted() RETURNS trigger AS $$
BEGIN
    PERFORM pg_notify('notification_inserted', row_to_json(NEW)::text);
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS notifications_after_insert ON notifications;

CREATE TRIGGER notifications_after_insert
AFTER INSERT ON notifications
FOR EACH ROW EXECUTE FUNCTION notify_notification_inserted();
`
