package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwise1/whereintheworld/config"
	deps "github.com/bwise1/whereintheworld/internal/debs"
	api "github.com/bwise1/whereintheworld/internal/http/rest"
	"github.com/bwise1/whereintheworld/internal/tracker"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
	controlTokenTTL               = 12 * time.Hour
	statusSyncTimeout             = 30 * time.Second
)

func main() {
	cfg := config.New()
	deps := deps.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	a := &api.API{
		Config: cfg,
		Deps:   deps,
	}

	if cfg.ControlSecret != "" {
		token, expiresAt, err := api.CreateAccessToken(cfg.ControlSecret, "ui", controlTokenTTL)
		if err != nil {
			log.Panicln("failed to mint control token", "error", err)
		}
		log.Printf("Control API token (expires %s): %s", expiresAt.Format(time.RFC3339), token)
	}

	go deps.WebSocket.Run(ctx)
	go dispatch(ctx, deps)
	go func() {
		log.Printf("Tracking starts in %s", cfg.StartupDelay)
		select {
		case <-time.After(cfg.StartupDelay):
			deps.Tracker.Run(ctx)
		case <-ctx.Done():
		}
	}()
	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		if err := a.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")
	cancel()

	if err := a.Shutdown(); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	deps.Close()
	log.Println("Preference store closed.")
}

// dispatch routes tracker events to the display and the status service.
// Status writes are fire-and-forget.
func dispatch(ctx context.Context, d *deps.Dependencies) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.Tracker.Events():
			switch ev.Kind {
			case tracker.LocationChanged:
				d.Display.SetLabel(ev.Label)
			case tracker.TrackingToggled:
				d.Display.SetActive(ev.Active)
			case tracker.DesiredStatus:
				go func(ev tracker.Event) {
					syncCtx, cancel := context.WithTimeout(ctx, statusSyncTimeout)
					defer cancel()
					d.Status.SetStatus(syncCtx, ev.Text, ev.Emoji, ev.Expiration)
				}(ev)
			}
		}
	}
}
