package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ballothq/ballotbox/internal/adapters/alert"
	handlerhttp "github.com/ballothq/ballotbox/internal/adapters/handler/http"
	pgrepo "github.com/ballothq/ballotbox/internal/adapters/repository/postgres"
	"github.com/ballothq/ballotbox/internal/core/services"
)

const testJWTSecret = "test-secret"

type testApp struct {
	Server    *httptest.Server
	Client    *http.Client
	DB        *sql.DB
	container testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	ctx := context.Background()
	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, applyMigrations(db))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ledger := pgrepo.NewVoterLedger(db)
	tallyStore := pgrepo.NewTallyStore(db)
	candidateRepo := pgrepo.NewCandidateRepository(db)
	reconcileStore := pgrepo.NewReconcileStore(db)

	handler := handlerhttp.NewHandler(
		handlerhttp.NewVoteHandler(services.NewCastService(ledger, tallyStore, candidateRepo, logger)),
		handlerhttp.NewTallyHandler(services.NewTallyService(tallyStore)),
		handlerhttp.NewCandidateHandler(services.NewCandidateService(candidateRepo)),
		handlerhttp.NewReconcileHandler(services.NewReconcileService(reconcileStore, alert.NewSlogSink(logger), logger)),
		[]byte(testJWTSecret),
	)

	server := httptest.NewServer(handler)

	return &testApp{
		Server:    server,
		Client:    server.Client(),
		DB:        db,
		container: container,
	}
}

func (app *testApp) Teardown(t *testing.T) {
	t.Helper()

	app.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.container.Terminate(context.Background()))
}

func signedToken(t *testing.T, subject uuid.UUID, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": subject.String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	if role != "" {
		claims["role"] = role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func voterToken(t *testing.T) (uuid.UUID, string) {
	t.Helper()

	voterID := uuid.New()
	return voterID, signedToken(t, voterID, "")
}

func adminToken(t *testing.T) string {
	t.Helper()

	return signedToken(t, uuid.New(), "admin")
}
