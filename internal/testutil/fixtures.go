package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nik/article-hub/internal/auth"
	"github.com/nik/article-hub/internal/domain"
	"gorm.io/gorm"
)

// UserBuilder assembles user fixtures with sensible defaults.
type UserBuilder struct {
	username string
	password string
	email    string
	active   bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username: "testuser",
		password: "password123",
		email:    "testuser@example.com",
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) Active() *UserBuilder {
	b.active = true
	return b
}

// Build persists the user and returns it along with the raw password.
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(b.password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		UserID:       uuid.New(),
		Username:     b.username,
		PasswordHash: hash,
		Email:        b.email,
		Active:       b.active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// FakeBlobStore is an in-memory repository.BlobRepository.
type FakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string]string
}

func NewFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{blobs: make(map[string]string)}
}

func (s *FakeBlobStore) Put(ctx context.Context, key, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = content
	return nil
}

func (s *FakeBlobStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.blobs[key]
	if !ok {
		return "", domain.ErrContentNotFound
	}
	return content, nil
}

func (s *FakeBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *FakeBlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// StubMailer records confirmation sends and can be told to fail.
type StubMailer struct {
	mu    sync.Mutex
	Err   error
	sends []string
}

func (m *StubMailer) SendConfirmation(token, address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, address)
	return m.Err
}

func (m *StubMailer) Sends() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sends...)
}
