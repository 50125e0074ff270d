/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/postboard/apiserver/config"
	"github.com/postboard/apiserver/internal/auth"
	"github.com/postboard/apiserver/internal/db"
	"github.com/postboard/apiserver/internal/services"
	"github.com/postboard/apiserver/internal/store"
	"github.com/spf13/cobra"
)

// seedCmd bootstraps the admin account from config. Rerunning it is safe:
// an existing admin row is left alone.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the bootstrap admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if cfg.Admin.Password == "" {
			return errors.New("ADMIN_PASS is required")
		}

		ctx := cmd.Context()
		dbConn, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		hasher := auth.NewHasher(cfg.Auth.HashCost, cfg.Auth.MaxConcurrentHashes)
		codec := auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		users := services.NewUserService(store.NewUserRepository(dbConn), hasher, codec, nil)

		admin, err := users.Create(ctx, cfg.Admin.Username, cfg.Admin.Password, true)
		if err != nil {
			if errors.Is(err, store.ErrConflict) {
				fmt.Printf("admin %q already exists\n", cfg.Admin.Username)
				return nil
			}
			return err
		}

		fmt.Printf("created admin %q (id %d)\n", admin.Username, admin.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
