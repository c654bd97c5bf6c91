package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var migrateDBPath string

// MigrateCmd applies pending schema migrations and exits.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	MigrateCmd.Flags().StringVar(&migrateDBPath, "db-path", "", "Database path (overrides config)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	conn, path, err := openDatabase(migrateDBPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	pterm.Success.Printf("database at %s is up to date\n", path)
	fmt.Println()
	return nil
}
