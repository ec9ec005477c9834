package tests

import (
	"context"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/mansoorceksport/flexpro/internal/config"
	"github.com/mansoorceksport/flexpro/internal/service"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupTestDB spins up a fresh MongoDB container and returns the database connection
// along with a cleanup function.
func SetupTestDB(t *testing.T) (*mongo.Database, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()

	mongodbContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	endpoint, err := mongodbContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	return mongoClient.Database("test_db"), func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect mongo: %v", err)
		}
		if err := mongodbContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	}
}

// IssueToken signs a coach access token the way the identity service does
func IssueToken(t *testing.T, secret, userID string, roles ...string) string {
	t.Helper()
	tokens := service.NewTokenService(config.JWTConfig{Secret: secret, AccessTokenExpiry: time.Hour})
	token, err := tokens.IssueAccessToken(userID, "", roles...)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// MemoryReports implements domain.ReportRepository in memory
type MemoryReports struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryReports() *MemoryReports {
	return &MemoryReports{Objects: make(map[string][]byte)}
}

func (m *MemoryReports) Upload(_ context.Context, file []byte, filename, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[filename] = append([]byte(nil), file...)
	return "memory://reports/" + filename, nil
}

func (m *MemoryReports) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Objects[key]
	return data, ok
}
