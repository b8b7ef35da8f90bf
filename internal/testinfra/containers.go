// Package testinfra starts throwaway PostgreSQL and Redis containers for
// integration tests. Tests using it carry the integration build tag.
package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	redisImage    = "redis:7-alpine"
)

// SkipIfNoDocker skips the test when no Docker daemon is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// StartPostgres starts a PostgreSQL container and returns its DSN. The container
// is terminated when the test finishes.
func StartPostgres(t *testing.T) string {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "movies",
			"POSTGRES_PASSWORD": "movies",
			"POSTGRES_DB":       "movies_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithStartupTimeout(90 * time.Second),
	}

	container := start(t, ctx, req)
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("get mapped port: %v", err)
	}
	return fmt.Sprintf("host=%s port=%s user=movies password=movies dbname=movies_test sslmode=disable",
		host(t, ctx, container), port.Port())
}

// StartRedis starts a Redis container and returns its host:port address.
func StartRedis(t *testing.T) string {
	t.Helper()
	return StartRedisImage(t, redisImage)
}

// StartRedisImage is StartRedis for a specific image, e.g. an older server release.
func StartRedisImage(t *testing.T, image string) string {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}

	container := start(t, ctx, req)
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("get mapped port: %v", err)
	}
	return host(t, ctx, container) + ":" + port.Port()
}

func start(t *testing.T, ctx context.Context, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start %s container: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})
	return container
}

func host(t *testing.T, ctx context.Context, container testcontainers.Container) string {
	t.Helper()

	h, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("get container host: %v", err)
	}
	return h
}
