package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slgps/internal/auth"
	"slgps/internal/config"
	"slgps/internal/db"
	"slgps/internal/events"
	"slgps/internal/handlers"
	"slgps/internal/ingest"
	"slgps/internal/middleware"
	"slgps/internal/models"
	"slgps/internal/notify"
	"slgps/internal/settings"
	"slgps/internal/stream"
)

func main() {
	cfg := config.Load()

	if err := db.Init(cfg.DBPath); err != nil {
		log.Fatalf("❌ Database init failed: %v", err)
	}
	defer db.DB.Close()

	if err := settings.InitSettingsTable(db.DB); err != nil {
		log.Fatalf("❌ Settings init failed: %v", err)
	}
	if err := notify.InitTables(db.DB); err != nil {
		log.Fatalf("❌ Notification tables init failed: %v", err)
	}

	auth.CreateDefaultAdmin(cfg)

	// Event plumbing: ingest rules publish, the notifier consumes.
	bus := events.NewBus()
	dispatcher := notify.NewDispatcher(db.DB, bus, notify.ShoutrrrSender{})
	dispatcher.Start()
	defer dispatcher.Stop()

	hub := stream.NewHub()
	processor := ingest.NewProcessor(db.DB, bus, cfg)
	processor.Stream = hub

	sweepStop := make(chan struct{})
	processor.StartSweeper(30*time.Second, sweepStop)
	defer close(sweepStop)

	go sessionJanitor()

	mux := http.NewServeMux()
	registerRoutes(mux, cfg, processor, hub)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.Logging(middleware.CORS(mux)),
	}

	go func() {
		log.Printf("🚍 SLGPS server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Shutdown error: %v", err)
	}
}

// registerRoutes wires every API endpoint. protect enforces the bearer
// session; login and the health check stay open, and login is
// additionally rate limited per IP.
func registerRoutes(mux *http.ServeMux, cfg models.Config, processor *ingest.Processor, hub *stream.Hub) {
	protect := func(next http.HandlerFunc) http.HandlerFunc {
		return auth.Middleware(cfg, next)
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("SLGPS server is online 🚍"))
	})

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	mux.HandleFunc("POST /api/login", loginLimiter.Limit(auth.Login(cfg)))
	mux.HandleFunc("POST /api/logout", protect(auth.Logout))
	mux.HandleFunc("GET /api/me", protect(auth.GetCurrentUser))

	buses := handlers.NewBusHandler(db.DB)
	mux.HandleFunc("GET /api/buses", protect(buses.List))
	mux.HandleFunc("POST /api/buses", protect(buses.Create))
	mux.HandleFunc("PUT /api/buses/{id}", protect(buses.Update))
	mux.HandleFunc("DELETE /api/buses/{id}", protect(buses.Delete))

	drivers := handlers.NewDriverHandler(db.DB)
	mux.HandleFunc("GET /api/drivers", protect(drivers.List))
	mux.HandleFunc("POST /api/drivers", protect(drivers.Create))
	mux.HandleFunc("PUT /api/drivers/{id}", protect(drivers.Update))
	mux.HandleFunc("DELETE /api/drivers/{id}", protect(drivers.Delete))

	users := handlers.NewUserHandler(db.DB)
	mux.HandleFunc("GET /api/users", protect(users.List))
	mux.HandleFunc("POST /api/users", protect(users.Create))
	mux.HandleFunc("PUT /api/users/{id}", protect(users.Update))
	mux.HandleFunc("DELETE /api/users/{id}", protect(users.Delete))

	alerts := handlers.NewAlertHandler(db.DB)
	mux.HandleFunc("GET /api/alerts", protect(alerts.List))
	mux.HandleFunc("PUT /api/alerts/{id}", protect(alerts.UpdateStatus))

	schedules := handlers.NewScheduleHandler(db.DB)
	mux.HandleFunc("GET /api/schedules", protect(schedules.List))
	mux.HandleFunc("GET /api/schedule-options", protect(schedules.Options))
	mux.HandleFunc("POST /api/schedules", protect(schedules.Create))
	mux.HandleFunc("PUT /api/schedules/{id}", protect(schedules.Update))
	mux.HandleFunc("DELETE /api/schedules/{id}", protect(schedules.Delete))

	reports := handlers.NewReportHandler(db.DB)
	mux.HandleFunc("GET /api/performance-reports", protect(reports.List))

	dashboard := handlers.NewDashboardHandler(db.DB)
	mux.HandleFunc("GET /api/dashboard", protect(dashboard.Summary))

	locations := handlers.NewLocationHandler(db.DB)
	mux.HandleFunc("GET /api/location/latest", protect(locations.Latest))
	mux.HandleFunc("POST /api/location/report", protect(processor.HandleReport))

	// Browsers cannot set the Authorization header on a websocket
	// upgrade, so the live stream stays open. It only carries positions
	// the map endpoint already serves.
	mux.HandleFunc("GET /api/stream", hub.HandleConnection)

	prefs := settings.NewHandler(db.DB)
	mux.HandleFunc("GET /api/settings", protect(prefs.Get))
	mux.HandleFunc("PUT /api/settings", protect(prefs.Update))
	mux.HandleFunc("POST /api/settings/reset", protect(prefs.ResetAll))
}

// sessionJanitor purges expired sessions once an hour.
func sessionJanitor() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		auth.CleanupExpiredSessions()
	}
}
