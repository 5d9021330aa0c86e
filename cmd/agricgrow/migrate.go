package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pgRepo "github.com/olonibua/agricgrow-sub000/internal/infrastructure/persistence/postgres"
	pkgpostgres "github.com/olonibua/agricgrow-sub000/pkg/postgres"
)

func migrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(_ *cobra.Command, _ []string) error {
				if err := pkgpostgres.RunMigrations(a.dsn(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
					return err
				}
				a.logger.Info("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: func(_ *cobra.Command, _ []string) error {
				if err := pkgpostgres.RunMigrationsDown(a.dsn(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
					return err
				}
				a.logger.Info("migrations rolled back")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				ver, dirty, err := pkgpostgres.MigrationVersion(a.dsn(), pgRepo.Migrations, pgRepo.MigrationsDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", ver, dirty)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) dbConfig() pkgpostgres.Config {
	return pkgpostgres.Config{
		Host:            a.cfg.DB.Host,
		Port:            a.cfg.DB.Port,
		User:            a.cfg.DB.User,
		Password:        a.cfg.DB.Password,
		Database:        a.cfg.DB.Name,
		SSLMode:         a.cfg.DB.SSLMode,
		MaxConns:        a.cfg.DB.MaxConns,
		ApplicationName: a.cfg.ServiceName,
	}
}

func (a *app) dsn() string {
	return a.dbConfig().DSN()
}
