package commands

import (
	"database/sql"
	"fmt"

	"github.com/nextapp/nextappd/config"
	"github.com/nextapp/nextappd/db"
	"github.com/nextapp/nextappd/logger"
)

// openDatabase opens and migrates the database at path, falling back to the
// configured database path when path is empty.
func openDatabase(path string) (*sql.DB, string, error) {
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, "", fmt.Errorf("load configuration: %w", err)
		}
		path = cfg.Database.Path
	}

	conn, err := db.Open(path, logger.Logger)
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}

	if err := db.Migrate(conn, logger.Logger); err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("run migrations: %w", err)
	}

	return conn, path, nil
}
