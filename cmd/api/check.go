package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsc11539/iaas-webhost/internal/config"
	httpx "github.com/tsc11539/iaas-webhost/internal/http"
	"github.com/tsc11539/iaas-webhost/internal/store"
)

var errNotConnected = errors.New("database not connected")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the database liveness query once and print the status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := store.Open(cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			res := httpx.CheckStatus(ctx, store.New(db))
			fmt.Fprintln(cmd.OutOrStdout(), "Database status: "+res.Message)
			if !res.Connected {
				return errNotConnected
			}
			return nil
		},
	}
}
