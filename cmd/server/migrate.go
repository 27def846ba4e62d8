package main

import (
	"lireddit/internal/config"
	"lireddit/internal/db"
	"lireddit/internal/logging"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.Env)
		if err != nil {
			return errors.Wrap(err, "building logger")
		}
		defer func() { _ = log.Sync() }()

		conn, err := db.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close(conn) }()

		if err := db.Migrate(conn); err != nil {
			return err
		}
		log.Info("Database migration completed")
		return nil
	},
}
