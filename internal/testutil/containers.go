package testutil

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/uscann/chemtrack/internal/config"
	"github.com/uscann/chemtrack/internal/database"
)

// Default images for database containers, overridable per call.
const (
	MariaDBImage  = "mariadb:11.4"
	PostgresImage = "postgres:17-alpine"
)

// DatabaseContainer is a running database server and the configuration that
// reaches it from the host.
type DatabaseContainer struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops and removes the container.
func (dc *DatabaseContainer) Terminate(ctx context.Context) error {
	if dc == nil {
		return nil
	}
	return testcontainers.TerminateContainer(dc.Container, testcontainers.StopContext(ctx))
}

// StartDatabase starts a MariaDB/MySQL or Postgres container with an empty
// chemtrack database and waits until it accepts connections. An empty image
// selects the default for dbType.
func StartDatabase(ctx context.Context, dbType, image string) (*DatabaseContainer, error) {
	dbType = strings.ToLower(dbType)

	password := strings.ReplaceAll(uuid.NewString(), "-", "")
	cfg := &config.Config{
		DBType:            dbType,
		DBDatabase:        "chemtrack",
		DBUser:            "chemtrack",
		DBPassword:        password,
		DBConnectionLimit: 5,
		DBLogLevel:        "silent",
	}

	var (
		port     nat.Port
		env      map[string]string
		readyLog string
		err      error
	)

	switch dbType {
	case "mysql", "mariadb":
		if image == "" {
			image = MariaDBImage
		}
		port, err = nat.NewPort("tcp", "3306")
		env = map[string]string{
			"MARIADB_ROOT_PASSWORD": password,
			"MARIADB_DATABASE":      cfg.DBDatabase,
			"MARIADB_USER":          cfg.DBUser,
			"MARIADB_PASSWORD":      password,
			"MYSQL_ROOT_PASSWORD":   password,
			"MYSQL_DATABASE":        cfg.DBDatabase,
			"MYSQL_USER":            cfg.DBUser,
			"MYSQL_PASSWORD":        password,
		}
		readyLog = "ready for connections"
	case "postgres", "postgresql":
		if image == "" {
			image = PostgresImage
		}
		port, err = nat.NewPort("tcp", "5432")
		env = map[string]string{
			"POSTGRES_DB":       cfg.DBDatabase,
			"POSTGRES_USER":     cfg.DBUser,
			"POSTGRES_PASSWORD": password,
		}
		readyLog = "database system is ready to accept connections"
	default:
		return nil, fmt.Errorf("no container support for database type: %s", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(port)},
			Env:          env,
			WaitingFor: wait.ForAll(
				wait.ForLog(readyLog).WithOccurrence(2),
				wait.ForListeningPort(port),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	dc := &DatabaseContainer{Container: container, Config: cfg}
	if err != nil {
		dc.Terminate(ctx)
		return nil, fmt.Errorf("failed to start %s: %w", image, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		dc.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		dc.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}
	cfg.DBHost = host
	cfg.DBPort = mapped.Port()

	if err := waitForDatabase(ctx, cfg); err != nil {
		dc.Terminate(ctx)
		return nil, err
	}

	return dc, nil
}

func waitForDatabase(ctx context.Context, cfg *config.Config) error {
	var lastErr error
	for i := 0; i < 30; i++ {
		db, err := database.Connect(cfg, zap.NewNop())
		if err == nil {
			sqlDB, _ := db.DB()
			err = sqlDB.PingContext(ctx)
			database.Close(db)
			if err == nil {
				return nil
			}
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("%s not ready after 30 seconds: %w", cfg.DBType, lastErr)
}
