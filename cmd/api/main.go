package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/retirapp/retira-backend/internal/modules/auth"
	"github.com/retirapp/retira-backend/internal/modules/calendar"
	"github.com/retirapp/retira-backend/internal/modules/employee"
	"github.com/retirapp/retira-backend/internal/modules/notification"
	"github.com/retirapp/retira-backend/internal/modules/pickup"
	"github.com/retirapp/retira-backend/internal/modules/store"
	"github.com/retirapp/retira-backend/internal/modules/user"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", "error", err)
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	jwtKey := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtKey) == 0 {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	user.NewHandler(userService).RegisterRoutes(router)

	// ── Domain records ──────────────────────────────────────
	employeeRepo := employee.NewPostgresRepository(db)
	employeeService := employee.NewService(employeeRepo)
	employee.NewHandler(employeeService).RegisterRoutes(router)

	storeRepo := store.NewPostgresRepository(db)
	capacityRepo := store.NewCapacityPostgresRepository(db)
	storeService := store.NewService(storeRepo, capacityRepo)
	store.NewHandler(storeService).RegisterRoutes(router)

	calendarRepo := calendar.NewPostgresRepository(db)
	calendarService := calendar.NewService(calendarRepo)
	calendar.NewHandler(calendarService).RegisterRoutes(router)

	// ── Push notifications ──────────────────────────────────
	subscriptionRepo := notification.NewPostgresRepository(db)
	notificationService := notification.NewService(subscriptionRepo)
	notification.NewHandler(notificationService).RegisterRoutes(router)

	dispatcher := notification.NewWebPushDispatcher(subscriptionRepo, employeeRepo, storeRepo, notification.VAPIDConfig{
		Subject:    os.Getenv("VAPID_SUBJECT"),
		PublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		PrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
	}, logger)

	// ── Pickup lifecycle ────────────────────────────────────
	pickupRepo := pickup.NewPostgresRepository(db)
	pickupService := pickup.NewService(pickupRepo, employeeRepo, storeRepo, capacityRepo, calendarRepo, dispatcher, logger)
	pickup.NewHandler(pickupService).RegisterRoutes(router)

	// ── Auth & session ──────────────────────────────────────
	authService := auth.NewService(userRepo, employeeRepo, storeRepo, pickupRepo, calendarRepo, jwtKey, logger)
	auth.NewHandler(authService, jwtKey).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("retira API server starting", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
