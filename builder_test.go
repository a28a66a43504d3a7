package sessionauth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func memoryConfig() Config {
	cfg := defaultConfig()
	cfg.Store.Backend = "memory"
	return cfg
}

func TestBuildRequiresIdentityClient(t *testing.T) {
	if _, err := New().WithConfig(memoryConfig()).Build(); err == nil {
		t.Fatal("expected error without identity client")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig()
	cfg.Session.RefreshThreshold = 0

	_, err := New().
		WithConfig(cfg).
		WithIdentityClient(newFakeIdentity()).
		Build()
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestBuildRedisBackendRequiresClient(t *testing.T) {
	cfg := defaultConfig()
	cfg.Store.Backend = "redis"

	_, err := New().
		WithConfig(cfg).
		WithIdentityClient(newFakeIdentity()).
		Build()
	if err == nil {
		t.Fatal("expected error for redis backend without client")
	}
}

func TestBuildRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := defaultConfig()
	cfg.Store.Backend = "redis"

	idp := newFakeIdentity()
	idp.signInBundle = TokenBundle{AccessToken: "access-1", ExpiresIn: 3600}

	m, err := New().
		WithConfig(cfg).
		WithIdentityClient(idp).
		WithRedis(rdb).
		WithLogger(zerolog.Nop()).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer m.Close()

	if _, err := m.SignIn(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !mr.Exists("sessionauth:record") {
		t.Fatal("record not written to redis")
	}
	if !m.IsAuthenticated(context.Background()) {
		t.Fatal("expected authenticated")
	}
}

func TestBuildFileBackend(t *testing.T) {
	cfg := defaultConfig()
	cfg.Store.FilePath = filepath.Join(t.TempDir(), "session.record")

	m, err := New().
		WithConfig(cfg).
		WithIdentityClient(newFakeIdentity()).
		WithLogger(zerolog.Nop()).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer m.Close()

	if m.IsAuthenticated(context.Background()) {
		t.Fatal("fresh file store must start anonymous")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(memoryConfig()).WithIdentityClient(newFakeIdentity())

	m, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer m.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second build")
	}
}

func TestBuildRejectsUnknownLogLevel(t *testing.T) {
	cfg := memoryConfig()
	cfg.Log.Level = "chatty"

	_, err := New().
		WithConfig(cfg).
		WithIdentityClient(newFakeIdentity()).
		Build()
	if err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
