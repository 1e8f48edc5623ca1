package testutil

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nik/article-hub/internal/auth"
	"github.com/nik/article-hub/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SearchLanguage is the text-search configuration used by tests. The stock
// postgres image ships "english"; production defaults to "russian".
const SearchLanguage = "english"

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_article_hub"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Article{},
		&domain.Category{},
		&domain.CategoryArticle{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Truncate wipes all tables between test cases
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()
	err := tdb.DB.Exec("TRUNCATE TABLE users, articles, categories, categories_articles RESTART IDENTITY CASCADE").Error
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		_ = tdb.Container.Terminate(context.Background())
	}
}

// TestRedis wraps a miniredis instance behind a real go-redis client.
type TestRedis struct {
	Mini   *miniredis.Miniredis
	Client *redis.Client
}

func NewTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
	})

	return &TestRedis{Mini: mini, Client: client}
}

// NewTokenService builds a token service over a throwaway RSA key pair.
func NewTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *auth.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}

	codec, err := auth.NewCodec(key, &key.PublicKey, "RS256")
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}

	return auth.NewTokenService(codec, accessTTL, refreshTTL)
}
