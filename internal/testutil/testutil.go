// Package testutil provides shared helpers for integration-gated tests.
package testutil

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB used by the helpers, kept as an
// interface so helpers work from tests and benchmarks alike.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SetupTestRedis creates a Redis client for integration tests. Tests are
// skipped when Redis is not reachable; set TEST_REDIS_REQUIRED=true to fail
// instead (CI environments that provision Redis).
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := GetEnvOrDefault("TEST_REDIS_ADDR", "localhost:6379")
	// DB 9 keeps test keys away from any local development data in DB 0;
	// the cleanup below flushes the whole DB.
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   9,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		if os.Getenv("TEST_REDIS_REQUIRED") == "true" {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cleanupCancel()
		if err := client.FlushDB(cleanupCtx).Err(); err != nil {
			t.Logf("warning: failed to flush test redis db: %v", err)
		}
	})

	return client
}
