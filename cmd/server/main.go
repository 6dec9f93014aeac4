// Command server runs a headless tower simulation and serves its control
// API over HTTP.
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

	"atc-tower/internal/api"
	"atc-tower/internal/config"
	"atc-tower/internal/game/simulation"
	"atc-tower/internal/logging"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	settings, err := config.Parse("atc-server", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	closer, err := logging.Setup(settings.LogLevel, settings.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	if err := run(settings); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(settings config.Settings) error {
	sim, err := simulation.NewSimulation(settings)
	if err != nil {
		return err
	}
	runner := simulation.NewRunner(sim)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              settings.APIAddr,
		Handler:           api.New(runner),
		ReadHeaderTimeout: 5 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return runner.Run(ctx)
	})
	eg.Go(func() error {
		log.Infof("API listening on %s", settings.APIAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
