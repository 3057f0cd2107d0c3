package main

import (
	"context"
	"fmt"
	"time"

	"taskrbac/internal/rbac/util"

	"github.com/spf13/cobra"
)

func ensureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create all collection indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := a.ensureIndexes(ctx); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
			util.GetLogger().Infow("Indexes ensured")
			return nil
		},
	}
}

func bootstrapCmd() *cobra.Command {
	var adminUser string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Grant the ADMIN role to a first administrator",
		Long: "Creates the ADMIN role and the SYSTEM_ADMIN system group when missing " +
			"and adds the given user to the group. Safe to run more than once.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := a.ensureIndexes(ctx); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}

			svc, cleanup := a.newService(nil)
			defer cleanup()

			group, err := svc.BootstrapAdmin(ctx, adminUser)
			if err != nil {
				return fmt.Errorf("bootstrap admin: %w", err)
			}
			util.GetLogger().Infow("Administrator ready", "user_id", adminUser, "group_id", group.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&adminUser, "admin-user", "", "user id to grant the ADMIN role (required)")
	_ = cmd.MarkFlagRequired("admin-user")
	return cmd
}
