package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lpstats/internal/badges"
	"lpstats/internal/config"
	"lpstats/internal/db"
	"lpstats/internal/engine"
	"lpstats/internal/events"
	"lpstats/internal/memstore"
	"lpstats/internal/notify"
)

func Run() error {
	cfg := config.Load()

	var store engine.Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		if err := database.Migrate(); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		store = database
		log.Println("[DB] Database connected and migrations applied")
	} else {
		store = memstore.New()
		log.Println("[DB] DATABASE_URL not set, using in-memory store (data will not persist)")
	}

	bus := events.NewBus()
	hub := notify.NewHub()
	go hub.Run(bus)

	evaluator := badges.NewEvaluator(badges.Registry)
	eng := engine.New(store, evaluator, bus)
	eng.FoundingCutoff = time.Date(cfg.FoundingCutoffYear, time.January, 1, 0, 0, 0, 0, time.UTC)

	srv := &Server{
		Engine:    eng,
		Store:     store,
		Evaluator: evaluator,
		Hub:       hub,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/reviews", srv.handleSubmitReview)
	mux.HandleFunc("/pitches/", srv.handleDeclareWinner)
	mux.HandleFunc("/stats/", srv.handleStats)
	mux.HandleFunc("/badges/", srv.handleBadges)
	mux.HandleFunc("/notifications", srv.handleNotifications)
	mux.HandleFunc("/health", srv.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	addr := "0.0.0.0:" + cfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", cfg.Port)
	return http.ListenAndServe(addr, mux)
}
