package testsupport

import (
	"context"
	"testing"

	"antenna/internal/channel"
	"antenna/internal/config"
	"antenna/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// SeedChannels replaces the store catalog with the provided channels.
func SeedChannels(t testing.TB, s *store.Store, channels []channel.Channel) {
	t.Helper()

	if err := s.ReplaceChannels(context.Background(), channels); err != nil {
		t.Fatalf("store.ReplaceChannels: %v", err)
	}
}
