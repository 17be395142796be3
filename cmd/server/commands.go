package main

import (
	"errors"

	"github.com/spf13/cobra"

	"signup/internal/platform/config"
	"signup/internal/platform/logger"
	"signup/internal/platform/postgres"
)

func execute() error {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "signup",
		Short:         "User registration service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.FromEnv()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg)
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				if cfg.Store != config.StorePostgres {
					return errors.New("migrate requires SIGNUP_STORE=postgres")
				}
				return postgres.RunMigrations(cfg.DatabaseURL, logger.New(cfg.LogLevel))
			},
		},
	)
	return root.Execute()
}
