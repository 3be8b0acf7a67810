//go:build integration

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T, ctx context.Context) Options {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("failed to start redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })
	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get host: %v", err)
	}
	port, err := c.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	return Options{Host: host, Port: port.Port(), Timeout: 5 * time.Second, KeyPrefix: "test:" + uuid.NewString() + ":"}
}

func TestRedisLedgerSurvivesReconnect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	opts := startRedis(t, ctx)

	first, err := NewRedis(ctx, opts)
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	handle := uuid.NewString()
	if ok, err := first.Reserve(ctx, handle); err != nil || !ok {
		t.Fatalf("Reserve() = %v, %v; want true, nil", ok, err)
	}
	if err := first.Retire(ctx, handle); err != nil {
		t.Fatalf("Retire() error = %v", err)
	}
	_ = first.Close()

	second, err := NewRedis(ctx, opts)
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer second.Close()
	if ok, err := second.Reserve(ctx, handle); err != nil || ok {
		t.Fatalf("Reserve() after restart = %v, %v; want false, nil", ok, err)
	}
	state, found, err := second.State(ctx, handle)
	if err != nil || !found || state != StateRetired {
		t.Fatalf("State() = %q, %v, %v; want retired", state, found, err)
	}
	if err := second.Retire(ctx, uuid.NewString()); err == nil {
		t.Fatalf("Retire() of an unknown handle should fail")
	}
}
