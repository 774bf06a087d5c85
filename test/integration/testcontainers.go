package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/localauth/db"
	"github.com/doodlesbykumbi/localauth/pkg/authority"
	pkgdb "github.com/doodlesbykumbi/localauth/pkg/db"
	"github.com/doodlesbykumbi/localauth/pkg/logging"
	"github.com/doodlesbykumbi/localauth/pkg/server"
	"github.com/doodlesbykumbi/localauth/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/localauth/pkg/server/store/gorm"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	Container   testcontainers.Container
	DatabaseURL string
	ServerURL   string
	Store       *authority.GormStore
	Resolver    *authority.Resolver
	HTTPClient  *http.Client
	server      *server.Server
}

// NewTestContext starts PostgreSQL in a container, migrates it, and runs
// the lookup server in-process against it.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("localauth_test"),
		tcpostgres.WithUsername("localauth"),
		tcpostgres.WithPassword("localauth"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runMigrations(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := pkgdb.Connect(pkgdb.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	store := authority.NewGormStore(database, authority.StoreOptions{BulkInsert: true, BatchSize: 50})
	resolver := authority.NewResolver(store)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}
	port := fmt.Sprint(listener.Addr().(*net.TCPAddr).Port)
	_ = listener.Close()

	s := server.NewServer(resolver, gormstore.NewHealthStore(database), logging.Discard(), io.Discard, "127.0.0.1", port)
	endpoints.RegisterAll(s)
	go func() {
		_ = s.Start()
	}()

	serverURL := "http://127.0.0.1:" + port
	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		_ = s.Shutdown(ctx)
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:          database,
		Container:   pgContainer,
		DatabaseURL: connStr,
		ServerURL:   serverURL,
		Store:       store,
		Resolver:    resolver,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		server:      s,
	}, nil
}

// runMigrations applies the embedded migrations
func runMigrations(dbURL string) error {
	migrationsFS, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return err
	}
	source, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// waitForServer polls the status endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/status")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Reset empties every table between scenarios
func (tc *TestContext) Reset() error {
	return tc.DB.Exec(`TRUNCATE local_authorities, local_authority_entries, domain_terms,
		domain_terms_local_authorities, subject_local_authority_entries RESTART IDENTITY CASCADE`).Error
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.server != nil {
		_ = tc.server.Shutdown(ctx)
	}
	if sqlDB, err := tc.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
