package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"antenna/internal/catalog"
	"antenna/internal/store"
	"antenna/internal/testsupport"
	"antenna/internal/vavoo"
)

type fakeSource struct {
	mu        sync.Mutex
	signature string
	sigErr    error
	items     []vavoo.Item
	listErr   error
	calls     int
	block     chan struct{}
}

func (f *fakeSource) Signature(ctx context.Context) (string, error) {
	if f.sigErr != nil {
		return "", f.sigErr
	}
	return f.signature, nil
}

func (f *fakeSource) Catalog(ctx context.Context, signature string) ([]vavoo.Item, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	if signature != f.signature {
		return nil, errors.New("wrong signature")
	}
	return f.items, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	completed int
	failed    int
}

func (n *recordingNotifier) RefreshCompleted(ctx context.Context, total, kept int, d time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed++
	return nil
}

func (n *recordingNotifier) RefreshFailed(ctx context.Context, err error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed++
	return nil
}

func (n *recordingNotifier) TestNotification(ctx context.Context) error { return nil }

func TestRefreshNowCuratesAndStores(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	source := &fakeSource{
		signature: "sig-1",
		items: []vavoo.Item{
			{Name: "RAI 1 .I", URL: "https://vavoo.to/play/1/index.m3u8"},
			{Name: "SKY SPORT UNO .I", URL: "https://vavoo.to/play/2/index.m3u8"},
			{Name: "QVC .I", URL: "https://vavoo.to/play/3/index.m3u8"},
			{Name: "Some Random TV .I", URL: "https://vavoo.to/play/4/index.m3u8"},
			{Name: "BOING .I", URL: ""},
		},
	}
	notifier := &recordingNotifier{}

	r, err := catalog.New(cfg, source, st, notifier, nil)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	result, err := r.RefreshNow(context.Background())
	if err != nil {
		t.Fatalf("RefreshNow: %v", err)
	}
	if result.Total != 5 || result.Kept != 2 {
		t.Fatalf("unexpected refresh result: %+v", result)
	}

	channels, err := st.List(context.Background(), store.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("expected 2 stored channels, got %d", len(channels))
	}

	byName := map[string]int{}
	for i, ch := range channels {
		byName[ch.CleanName] = i
	}
	rai, ok := byName["RAI 1"]
	if !ok {
		t.Fatalf("RAI 1 missing from catalog: %+v", channels)
	}
	if channels[rai].Category != "RAI" || channels[rai].Genre != "general" {
		t.Fatalf("unexpected RAI channel: %+v", channels[rai])
	}
	sky, ok := byName["SKY SPORT UNO"]
	if !ok {
		t.Fatalf("SKY SPORT UNO missing from catalog: %+v", channels)
	}
	if channels[sky].Category != "SPORT" || channels[sky].Genre != "sports" {
		t.Fatalf("unexpected SKY channel: %+v", channels[sky])
	}
	if channels[sky].Logo == "" {
		t.Fatal("expected a placeholder logo")
	}

	if notifier.completed != 1 || notifier.failed != 0 {
		t.Fatalf("unexpected notifications: completed=%d failed=%d", notifier.completed, notifier.failed)
	}

	last, err := st.LastRefresh(context.Background())
	if err != nil {
		t.Fatalf("LastRefresh: %v", err)
	}
	if last == nil || last.Kept != 2 || last.Err != "" {
		t.Fatalf("unexpected last refresh: %+v", last)
	}
}

func TestRefreshFailureKeepsStaleCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	source := &fakeSource{
		signature: "sig-1",
		items:     []vavoo.Item{{Name: "RAI 1 .I", URL: "https://vavoo.to/play/1/index.m3u8"}},
	}
	notifier := &recordingNotifier{}
	r, err := catalog.New(cfg, source, st, notifier, nil)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	if _, err := r.RefreshNow(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	source.listErr = errors.New("upstream down")
	if _, err := r.RefreshNow(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	channels, err := st.List(context.Background(), store.ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(channels) != 1 {
		t.Fatalf("stale catalog should survive a failed refresh, got %d channels", len(channels))
	}
	if notifier.failed != 1 {
		t.Fatalf("expected one failure notification, got %d", notifier.failed)
	}

	last, err := st.LastRefresh(context.Background())
	if err != nil {
		t.Fatalf("LastRefresh: %v", err)
	}
	if last == nil || last.Err == "" {
		t.Fatalf("failed refresh should be recorded: %+v", last)
	}
}

func TestRefreshNowSingleFlight(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	block := make(chan struct{})
	source := &fakeSource{signature: "sig-1", block: block}
	r, err := catalog.New(cfg, source, st, &recordingNotifier{}, nil)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.RefreshNow(context.Background())
		done <- err
	}()

	// Wait until the first refresh is inside the blocked catalog fetch.
	deadline := time.After(2 * time.Second)
	for !r.Refreshing() {
		select {
		case <-deadline:
			t.Fatal("refresh never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if _, err := r.RefreshNow(context.Background()); !errors.Is(err, catalog.ErrRefreshInProgress) {
		t.Fatalf("expected ErrRefreshInProgress, got %v", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if r.Refreshing() {
		t.Fatal("refresh should be finished")
	}
}
