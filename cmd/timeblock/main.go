package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/timeblock/internal/cli"
	"github.com/alexanderramin/timeblock/internal/config"
	"github.com/alexanderramin/timeblock/internal/db"
	"github.com/alexanderramin/timeblock/internal/logging"
	"github.com/alexanderramin/timeblock/internal/repository"
	"github.com/alexanderramin/timeblock/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{
		IsInteractive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}

	// Config and the database are opened once the --config flag is parsed.
	app.Setup = func(configPath string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger := logging.New(cfg.Log, os.Stderr)

		database, err = db.OpenDB(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		logger.Debug("database opened", "path", cfg.Database.Path)

		// Wire repositories
		draftRepo := repository.NewSQLiteDraftRepo(database)
		busyRepo := repository.NewSQLiteBusyRepo(database)

		// Wire unit of work for transactional operations
		uow := db.NewSQLiteUnitOfWork(database)
		observer := service.NewSlogUseCaseObserver(logger)

		app.Config = cfg
		app.Propose = service.NewProposeService(draftRepo, busyRepo, uow, observer)
		app.Plan = service.NewPlanService(draftRepo, busyRepo, uow, observer)
		app.Calendar = service.NewCalendarService(uow, observer)
		app.Drafts = service.NewDraftService(draftRepo, uow, observer)
		return nil
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
