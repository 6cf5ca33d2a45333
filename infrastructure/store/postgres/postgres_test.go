package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdb "github.com/vfg2006/cirod-kpi-engine/infrastructure/database/postgres"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store/storetest"
	"github.com/vfg2006/cirod-kpi-engine/internal/config"
)

var (
	sharedConn     *pgdb.Connection
	sharedConnOnce sync.Once
	sharedConnErr  error
)

// testConnection sobe um PostgreSQL em container uma única vez por execução
func testConnection(t *testing.T) *pgdb.Connection {
	t.Helper()

	if testing.Short() {
		t.Skip("Ignorando teste de integração em modo short (requer Docker)")
	}

	sharedConnOnce.Do(func() {
		sharedConn, sharedConnErr = startPostgres()
	})
	if sharedConnErr != nil {
		t.Fatalf("Falha ao iniciar banco de testes: %v", sharedConnErr)
	}

	return sharedConn
}

func startPostgres() (*pgdb.Connection, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "cirod",
			"POSTGRES_USER":     "cirod",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao iniciar container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, err
	}

	conn, err := pgdb.NewConnection(ctx, config.Database{
		DSN: fmt.Sprintf("postgres://cirod:test_password@%s:%s/cirod?sslmode=disable", host, port.Port()),
	})
	if err != nil {
		return nil, err
	}

	if err := pgdb.RunMigrations(conn); err != nil {
		return nil, err
	}

	return conn, nil
}

func TestStore_Contract(t *testing.T) {
	conn := testConnection(t)

	storetest.RunContract(t, func(t *testing.T) store.Store {
		_, err := conn.ExecContext(context.Background(), "TRUNCATE "+documentsTable)
		require.NoError(t, err)
		return New(conn)
	})
}
