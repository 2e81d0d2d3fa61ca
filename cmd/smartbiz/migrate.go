package main

import (
	"context"
	"fmt"

	kpg "github.com/smartbiz-gst/smartbiz/pkg/domain/smartbiz/db/postgres"
	"github.com/spf13/cobra"
)

func migrateCommand(c *common) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "apply schema versions not applied yet",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd.Context(), c, "up")
			},
		},
		&cobra.Command{
			Use:   "drop",
			Short: "drop every table of the schema. DATA WILL BE LOST.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd.Context(), c, "drop")
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "show the schema version of the database and the latest one",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd.Context(), c, "version")
			},
		},
	)
	return cmd
}

func migrate(ctx context.Context, c *common, action string) error {
	conf, logger, err := c.load("migrate")
	if err != nil {
		return fmt.Errorf("can not read configuration: %w", err)
	}

	db, err := kpg.New(ctx, conf.Database())
	if err != nil {
		return err
	}
	defer db.Close()
	schema := db.Schema()

	switch action {
	case "up":
		if err := schema.Upgrade(ctx); err != nil {
			return err
		}
	case "drop":
		if err := schema.Drop(ctx); err != nil {
			return err
		}
		logger.Warn("schema is dropped")
		return nil
	}

	current, err := schema.Version(ctx)
	if err != nil {
		return err
	}
	latest, err := schema.Latest()
	if err != nil {
		return err
	}
	logger.Infof("schema version: %d (latest: %d)", current, latest)
	return nil
}
