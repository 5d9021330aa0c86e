// Package testutil starts throwaway infrastructure for integration tests.
package testutil

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pkgpostgres "github.com/olonibua/agricgrow-sub000/pkg/postgres"
)

const postgresImage = "postgres:16-alpine"

// Migrations names an embedded migration set.
type Migrations struct {
	FS  fs.FS
	Dir string
}

// StartPostgres runs a disposable PostgreSQL container, applies migrations
// and returns a pool connected to it. The pool and container are released
// through t.Cleanup.
func StartPostgres(t *testing.T, migrations Migrations) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("agricgrow"),
		postgres.WithUsername("agricgrow"),
		postgres.WithPassword("agricgrow"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start %s: %v", postgresImage, err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	if migrations.FS != nil {
		if err := pkgpostgres.RunMigrations(dsn, migrations.FS, migrations.Dir); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := pkgpostgres.HealthCheck(ctx, pool); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return pool
}
