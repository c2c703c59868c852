package migration

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"savingsadmin/internal/logger"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var migrations embed.FS

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	logger.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logger.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// RunMigrations applies every pending migration embedded in the binary.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info().Msg("migrations completed")
	return nil
}
