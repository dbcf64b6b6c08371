package store_test

import (
	"context"
	"testing"
	"time"

	"antenna/internal/channel"
	"antenna/internal/store"
	"antenna/internal/testsupport"
)

func seedChannels(t *testing.T, s *store.Store) []channel.Channel {
	t.Helper()
	channels := []channel.Channel{
		{ID: "rai1-abc", Name: "Rai 1 .I", CleanName: "Rai 1", URL: "https://upstream/rai1", Genre: "general", Category: "RAI", Logo: "https://logos/rai1.png"},
		{ID: "skysport-def", Name: "Sky Sport .I", CleanName: "Sky Sport", URL: "https://upstream/sky", Genre: "sports", Category: "SPORT", Logo: ""},
		{ID: "boing-ghi", Name: "Boing .I", CleanName: "Boing", URL: "https://upstream/boing", Genre: "kids", Category: "BAMBINI", Logo: ""},
	}
	if err := s.ReplaceChannels(context.Background(), channels); err != nil {
		t.Fatalf("ReplaceChannels: %v", err)
	}
	return channels
}

func TestReplaceAndListChannels(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	seedChannels(t, s)

	all, err := s.List(context.Background(), store.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(all))
	}
	// Ordered by clean name.
	if all[0].CleanName != "Boing" || all[2].CleanName != "Sky Sport" {
		t.Fatalf("unexpected order: %q ... %q", all[0].CleanName, all[2].CleanName)
	}

	count, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestListFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	seedChannels(t, s)

	byGenre, err := s.List(context.Background(), store.ListOptions{Genre: "sports"})
	if err != nil {
		t.Fatalf("List by genre: %v", err)
	}
	if len(byGenre) != 1 || byGenre[0].ID != "skysport-def" {
		t.Fatalf("unexpected genre result: %+v", byGenre)
	}

	byCategory, err := s.List(context.Background(), store.ListOptions{Category: "rai"})
	if err != nil {
		t.Fatalf("List by category: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].ID != "rai1-abc" {
		t.Fatalf("unexpected category result: %+v", byCategory)
	}

	bySearch, err := s.List(context.Background(), store.ListOptions{Search: "sport"})
	if err != nil {
		t.Fatalf("List by search: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].ID != "skysport-def" {
		t.Fatalf("unexpected search result: %+v", bySearch)
	}
}

func TestReplaceChannelsSwapsAtomically(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	seedChannels(t, s)

	next := []channel.Channel{
		{ID: "dmax-jkl", Name: "DMAX .I", CleanName: "DMAX", URL: "https://upstream/dmax", Genre: "documentary", Category: "DISCOVERY"},
	}
	if err := s.ReplaceChannels(context.Background(), next); err != nil {
		t.Fatalf("ReplaceChannels: %v", err)
	}

	all, err := s.List(context.Background(), store.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].ID != "dmax-jkl" {
		t.Fatalf("expected catalog swap, got %+v", all)
	}
}

func TestReplaceChannelsRejectsInvalid(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	seedChannels(t, s)

	bad := []channel.Channel{{ID: "x", Name: "No URL"}}
	if err := s.ReplaceChannels(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
	// Old catalog must survive the failed swap.
	count, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected old catalog intact, got %d channels", count)
	}
}

func TestGetByID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	seedChannels(t, s)

	ch, err := s.GetByID(context.Background(), "rai1-abc")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if ch == nil || ch.CleanName != "Rai 1" {
		t.Fatalf("unexpected channel: %+v", ch)
	}

	missing, err := s.GetByID(context.Background(), "absent")
	if err != nil {
		t.Fatalf("GetByID absent: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for absent id, got %+v", missing)
	}
}

func TestIconsRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	icons := channel.Icons{"rai 1": "https://logos/rai1.png"}
	if err := s.UpsertIcons(context.Background(), icons); err != nil {
		t.Fatalf("UpsertIcons: %v", err)
	}
	if err := s.UpsertIcons(context.Background(), channel.Icons{"rai 1": "https://logos/rai1-v2.png"}); err != nil {
		t.Fatalf("UpsertIcons update: %v", err)
	}

	got, err := s.Icons(context.Background())
	if err != nil {
		t.Fatalf("Icons: %v", err)
	}
	if got["rai 1"] != "https://logos/rai1-v2.png" {
		t.Fatalf("expected updated icon, got %+v", got)
	}
}

func TestRefreshBookkeeping(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	none, err := s.LastRefresh(context.Background())
	if err != nil {
		t.Fatalf("LastRefresh: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no refresh yet, got %+v", none)
	}

	started := time.Now().Add(-time.Minute)
	if err := s.RecordRefresh(context.Background(), store.Refresh{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Total:      412,
		Kept:       180,
	}); err != nil {
		t.Fatalf("RecordRefresh: %v", err)
	}

	last, err := s.LastRefresh(context.Background())
	if err != nil {
		t.Fatalf("LastRefresh: %v", err)
	}
	if last == nil || last.Total != 412 || last.Kept != 180 || last.Err != "" {
		t.Fatalf("unexpected refresh record: %+v", last)
	}
	if last.StartedAt.After(last.FinishedAt) {
		t.Fatal("expected started before finished")
	}
}
