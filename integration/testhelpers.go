//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"todoai-api/internal/config"
	"todoai-api/internal/database"
	"todoai-api/internal/tasklist"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestContainer manages the lifecycle of a test database container
type TestContainer struct {
	Container testcontainers.Container
	DB        *gorm.DB
	Config    config.DatabaseConfig
}

// SetupTestDatabase starts postgres, connects and migrates. The container
// is terminated on test cleanup.
func SetupTestDatabase(t *testing.T) *TestContainer {
	t.Helper()
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("test_todoai"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)

	port, err := postgresContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "test_user",
		Password:        "test_password",
		DBName:          "test_todoai",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 300,
	}

	db, err := database.NewPostgresConnection(dbConfig)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, tasklist.RunMigrations(db))

	tc := &TestContainer{Container: postgresContainer, DB: db, Config: dbConfig}
	t.Cleanup(func() { tc.Teardown(t) })
	return tc
}

// Teardown closes the connection and removes the container
func (tc *TestContainer) Teardown(t *testing.T) {
	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if tc.Container != nil {
		require.NoError(t, tc.Container.Terminate(context.Background()), "Failed to terminate test container")
	}
}

