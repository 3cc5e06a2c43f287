package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ckr1111/darlybot/internal/history"
	"github.com/Ckr1111/darlybot/internal/server"
	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/Ckr1111/darlybot/internal/songdata"
	"github.com/Ckr1111/darlybot/internal/watch"
	"github.com/Ckr1111/darlybot/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP bridge until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.configFromFlag(cmd)

	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = port
	}
	dryRun := cmd.Bool("dry-run") || config.Input.DryRun

	cat, src, err := r.loadCatalogue()
	if err != nil {
		return err
	}

	sender, err := r.newSender()
	if err != nil {
		return err
	}

	// History is optional at serve time: a locked or unwritable database
	// should not take the bridge down with it.
	var store *history.Store
	if s, db, err := r.openStore(); err == nil {
		store = s
		defer db.Close()
	} else {
		r.logger.Warn("selection history disabled", "error", err)
	}

	router := server.NewRouter()
	router.Use(
		server.RequestLogger(r.logger),
		server.CORS(),
		server.RateLimit(config.Server.RateLimit, config.Server.RateBurst),
	)
	router.Handler(&server.SelectHandler{
		Catalogue: cat,
		Planner:   r.planner,
		Sender:    sender,
		Store:     store,
		Logger:    r.logger,
		DryRun:    dryRun,
	})
	router.Handler(&server.StatusHandler{
		Catalogue: cat,
		Sender:    sender,
		Store:     store,
		DryRun:    dryRun,
	})
	router.Handler(&web.PageHandler{})

	if config.Catalogue.Watch {
		if csvSrc, ok := src.(*songdata.CSVFile); ok {
			watcher := watch.New(
				csvSrc.Path,
				time.Duration(config.Catalogue.DebounceMs)*time.Millisecond,
				func() {
					if err := cat.Load(src); err != nil {
						r.logger.Error("catalogue reload failed, keeping previous snapshot", "error", err)
					}
				},
				shared.WithLogger(r.logger, "component", "watch"),
			)
			if err := watcher.Start(); err != nil {
				r.logger.Warn("failed to watch catalogue file", "error", err)
			} else {
				defer watcher.Stop()
			}
		}
	}

	srv := &http.Server{
		Addr:              config.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("bridge listening",
			"addr", srv.Addr, "backend", sender.Name(), "dryRun", dryRun)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}
