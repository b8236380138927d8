package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ictportal",
		Usage: "ICT infrastructure assessment portal",
		Commands: []*cli.Command{
			serveCommand,
			initdbCommand,
			hashpwCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
