package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/yungbote/brandstorm-backend/internal/app"
	"github.com/yungbote/brandstorm-backend/internal/data/db"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/ctxutil"
)

func main() {
	_ = godotenv.Load(".env")

	cliApp := &cli.App{
		Name:  "brandstorm",
		Usage: "realtime naming brainstorm server",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start http server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema and exit",
				Action: migrate,
			},
			{
				Name:   "reconcile",
				Usage:  "recount vote counters from the vote ledger and exit",
				Action: reconcile,
			},
		},
		Action: serve,
	}
	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "brandstorm: %v\n", err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	a, err := app.New(c.Context)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(c.Context)
}

func migrate(c *cli.Context) error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)
	theDB, err := app.OpenStore(log, cfg)
	if err != nil {
		return err
	}
	log.Info("Schema up to date", "driver", cfg.DB.Driver)
	return db.Close(theDB)
}

func reconcile(c *cli.Context) error {
	ctx := ctxutil.Default(c.Context)
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.Services.Suggestion.Reconcile(dbctx.Context{Ctx: ctx})
	if err != nil {
		return err
	}
	a.Log.Info("Reconcile finished", "repaired", n)
	return nil
}
