package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitdesk/internal/core/config"
	"fitdesk/internal/core/database"
	"fitdesk/internal/core/logger"
	"fitdesk/internal/repo"
	"fitdesk/internal/service"
)

type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
	db         *gorm.DB
	cleanup    func()
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "fitdesk-admin",
		Short:         "Maintenance commands for the fitdesk database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_PATH"), "config file")

	root.AddCommand(a.migrateCmd(), a.createAdminCmd(), a.resetPasswordCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) open() error {
	_ = godotenv.Load()
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.log, a.cleanup = logger.New(cfg.Log)
	a.db, err = database.NewGorm(database.OptsFrom(cfg.DB, a.log))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.cleanup != nil {
		a.cleanup()
	}
}

func (a *app) users() *service.UserService {
	return service.NewUserService(repo.NewStore(a.db), a.log, nil)
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := repo.Migrate(a.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.log.Info("migrate done")
			return nil
		},
	}
}

func (a *app) createAdminCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account unless one exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := a.users().EnsureAdmin(context.Background(), email, password, name)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintln(cmd.OutOrStdout(), "an admin account already exists")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "Administrator", "full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) resetPasswordCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.users().ResetPassword(context.Background(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password for %s updated\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
