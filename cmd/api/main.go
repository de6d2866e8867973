package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/config"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/disposition"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/httpapi"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/identity"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/obs"
	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/store/pg"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// With a DSN we run against Postgres; without one the in-memory
	// stores keep the API usable for local development.
	var (
		db            *sql.DB
		dispStore     disposition.Store
		identityStore identity.Store
	)
	if cfg.Database.DSN != "" {
		store, err := pg.Open(cfg.Database.DSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db = store.DB()
		dispStore = store
		identityStore = store
	} else {
		log.Println("no database configured, using in-memory stores")
		accounts := identity.NewInMemory()
		identityStore = accounts
		dispStore = disposition.NewInMemory(accounts)
	}

	identitySvc := identity.NewService(identityStore)
	dispositionSvc := disposition.NewService(dispStore)

	api := httpapi.New(
		httpapi.ReadyProbe{DB: db},
		version,
		dispositionSvc,
		identitySvc,
		httpapi.WithRateLimit(cfg.HTTP.RateBurst, cfg.HTTP.RatePerSec),
		httpapi.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
		httpapi.WithBootstrap(identity.Bootstrap{
			Name:     cfg.Bootstrap.Name,
			NIP:      cfg.Bootstrap.NIP,
			Password: cfg.Bootstrap.Password,
			WorkUnit: cfg.Bootstrap.WorkUnit,
		}),
	)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting disposisi-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
