package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ballothq/ballotbox/internal/adapters/alert"
	"github.com/ballothq/ballotbox/internal/adapters/handler/http"
	"github.com/ballothq/ballotbox/internal/adapters/repository/postgres"
	"github.com/ballothq/ballotbox/internal/core/services"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Warn("JWT_SECRET not set")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	// Repositories
	ledger := postgres.NewVoterLedger(db)
	tallyStore := postgres.NewTallyStore(db)
	candidateRepo := postgres.NewCandidateRepository(db)
	reconcileStore := postgres.NewReconcileStore(db)

	// Services
	castService := services.NewCastService(ledger, tallyStore, candidateRepo, logger)
	tallyService := services.NewTallyService(tallyStore)
	candidateService := services.NewCandidateService(candidateRepo)
	reconcileService := services.NewReconcileService(reconcileStore, alert.NewSlogSink(logger), logger)

	// Handlers
	handler := http.NewHandler(
		http.NewVoteHandler(castService),
		http.NewTallyHandler(tallyService),
		http.NewCandidateHandler(candidateService),
		http.NewReconcileHandler(reconcileService),
		[]byte(jwtSecret),
	)

	server := &stdhttp.Server{Addr: "0.0.0.0:8080", Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
