//go:build integration

package mongostore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupMongoTestcontainer starts a MongoDB container and returns its URI.
func setupMongoTestcontainer(t *testing.T) (string, func()) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7",
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("27017/tcp").WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("Failed to start MongoDB testcontainer: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to get MongoDB connection string: %v", err)
	}
	t.Logf("MongoDB container started at: %s", uri)

	cleanup := func() {
		if terminateErr := container.Terminate(context.Background()); terminateErr != nil {
			t.Logf("Failed to terminate container: %v", terminateErr)
		}
	}
	return uri, cleanup
}

// newTestStore connects to uri with a database no other test uses, so
// tests can share one container.
func newTestStore(t *testing.T, uri string) *Store {
	t.Helper()

	dbName := "tasks_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s, err := New(context.Background(), Options{
		URI:            uri,
		Database:       dbName,
		Collection:     "tasks",
		ConnectTimeout: 10 * time.Second,
		OpTimeout:      10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	return s
}
