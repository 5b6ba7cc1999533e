package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/quorumdesk/quorumdesk-backend/internal/config"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(cfg config.PostgresConfig, log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode)

  serviceLog.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    serviceLog.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
  }
  serviceLog.Info("uuid-ossp extension enabled")

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Organization{},
    &types.Membership{},
    &types.Meeting{},
    &types.MeetingAttendance{},
    &types.Minutes{},
    &types.Motion{},
    &types.Poll{},
    &types.PollOption{},
    &types.Vote{},
    &types.Account{},
    &types.JournalEntry{},
    &types.JournalLine{},
    &types.Contract{},
    &types.ContractLine{},
    &types.RevenueSchedule{},
    &types.Contact{},
    &types.Interaction{},
    &types.Donation{},
    &types.Document{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  s.log.Info("Configuring foreign key relationships for postgres tables...")
  constraints := []struct {
    table     string
    name      string
    column    string
    refTable  string
    refColumn string
    onDelete  string
  }{
    {"user_token", "fk_user_token_user_id", "user_id", "user", "id", "CASCADE"},
    {"membership", "fk_membership_organization_id", "organization_id", "organization", "id", "CASCADE"},
    {"membership", "fk_membership_user_id", "user_id", "user", "id", "CASCADE"},
    {"journal_line", "fk_journal_line_entry_id", "entry_id", "journal_entry", "id", "CASCADE"},
    {"poll_option", "fk_poll_option_poll_id", "poll_id", "poll", "id", "CASCADE"},
    {"vote", "fk_vote_poll_id", "poll_id", "poll", "id", "CASCADE"},
    {"contract_line", "fk_contract_line_contract_id", "contract_id", "contract", "id", "CASCADE"},
    {"revenue_schedule", "fk_revenue_schedule_contract_line_id", "contract_line_id", "contract_line", "id", "CASCADE"},
  }
  for _, c := range constraints {
    stmt := fmt.Sprintf(`
      DO $$ BEGIN
        IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
          ALTER TABLE "%s"
          ADD CONSTRAINT "%s"
          FOREIGN KEY ("%s")
          REFERENCES "%s"("%s")
          ON DELETE %s;
        END IF;
      END $$;
    `, c.name, c.table, c.name, c.column, c.refTable, c.refColumn, c.onDelete)
    if err := s.db.Exec(stmt).Error; err != nil {
      return fmt.Errorf("Failed to add %s: %w", c.name, err)
    }
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
