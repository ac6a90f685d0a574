package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoshop-backend/config"
	"autoshop-backend/logger"
	"autoshop-backend/repository"
	"autoshop-backend/services"
	"autoshop-backend/utils"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("migrate")
		db, err := openDB(log)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("migration complete")
		return nil
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create-user <email> <password> [role]",
	Short: "Create a user or reset the password of an existing one",
	Example: `  autoshop create-user owner@example.com s3cret
  autoshop create-user admin@example.com s3cret ROLE_ADMIN`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("users")
		db, err := openDB(log)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		role := ""
		if len(args) == 3 {
			role = args[2]
		}
		auth := services.NewAuthService(repository.NewUserRepo(db), cfg.Auth.JWTSecret, cfg.TokenTTL(), log)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		created, err := auth.UpsertUser(ctx, args[0], args[1], role)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "updated user %s\n", args[0])
		}
		return nil
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send today's summary SMS now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("digest")
		if cfg.Digest.To == "" {
			return errors.New("DIGEST_TO is required")
		}
		if _, err := cfg.TaxRate(); err != nil {
			return err
		}
		if _, err := cfg.Location(); err != nil {
			return err
		}
		db, err := openDB(log)
		if err != nil {
			return err
		}
		return newDigestService(db, log).SendDailyDigest(cmd.Context())
	},
}

var secretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Print a random value for JWT_SECRET",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), utils.GenerateJWTSecret())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, createUserCmd, digestCmd, secretCmd)
}
