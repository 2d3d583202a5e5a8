// Package bot assembles the submission bot from its configuration.
package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"postbot/command"
	"postbot/config"
	"postbot/db"
	"postbot/handler"
	"postbot/health"
	"postbot/logger"
	"postbot/workflow"
)

// Start runs the bot until SIGINT or SIGTERM.
func Start() error {
	if err := config.LoadConfig(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := config.Cfg
	log := logger.Setup(cfg.Log.Level)

	ledger, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer ledger.Close()

	tr, err := newTransport(cfg, log)
	if err != nil {
		return fmt.Errorf("create %s transport: %w", cfg.Platform, err)
	}

	ctl := workflow.NewController(tr, workflow.Options{
		Reviewers:           cfg.Reviewers,
		CommandPrefix:       tr.CommandPrefix(),
		DebounceWindow:      cfg.Workflow.DebounceWindow,
		MaxAnonymityRetries: cfg.Workflow.MaxAnonymityRetries,
		Ledger:              ledger,
		Logger:              log,
	})
	responder := command.NewResponder(tr, ledger, cfg.Reviewers, tr.CommandPrefix())
	router := handler.NewRouter(ctl, responder, log)
	queue := handler.NewQueue(router.Dispatch)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hs := health.NewServer(log)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return tr.Run(gctx, queue.Push)
	})
	if cfg.Health.Addr != "" {
		g.Go(func() error {
			return hs.ListenAndServe(gctx, cfg.Health.Addr)
		})
	}
	hs.SetServing(true)

	log.Info("bot is running", "platform", cfg.Platform, "reviewers", len(cfg.Reviewers))
	err = g.Wait()

	// Deliver what was collected before exit.
	queue.Wait()
	ctl.Flush()
	ctl.Close()
	log.Info("bot stopped")
	return err
}
