package main

import (
	"context"

	"ictportal/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var initdbCommand = &cli.Command{
	Name:  "initdb",
	Usage: "Create the portal tables (idempotent)",
	Action: func(cCtx *cli.Context) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()
		pool, err := db.Connect(ctx, config)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.InitSchema(ctx, pool); err != nil {
			return err
		}

		logrus.Info("schema applied")
		return nil
	},
}
