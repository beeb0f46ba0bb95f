package rates

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"takeout-storefront/internal/domain"
)

type stubFetcher struct {
	calls   atomic.Int32
	release chan struct{}
	rates   []domain.ExchangeRate
	err     error
}

func (f *stubFetcher) FetchRates(_ context.Context) ([]domain.ExchangeRate, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.rates, f.err
}

func TestRefreshSingleFlight(t *testing.T) {
	fetcher := &stubFetcher{release: make(chan struct{})}
	store := NewStore(nil)
	mgr := NewManager(store, fetcher, ManagerConfig{}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	started := make(chan struct{})
	go func() {
		defer wg.Done()
		close(started)
		if !mgr.Refresh(context.Background()) {
			t.Error("first refresh should run")
		}
	}()

	<-started
	// Wait until the fetch is actually in flight.
	for fetcher.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	if mgr.Refresh(context.Background()) {
		t.Fatal("second refresh must be dropped while one is in flight")
	}

	close(fetcher.release)
	wg.Wait()

	if fetcher.calls.Load() != 1 {
		t.Fatalf("expected 1 fetch, got %d", fetcher.calls.Load())
	}
}

func TestRefreshIfStaleSkipsRecentRates(t *testing.T) {
	fetcher := &stubFetcher{}
	store := NewStore(nil)
	store.FetchSuccess([]domain.ExchangeRate{rate("USD", 2100), rate("THB", 60), rate("CNY", 294)})

	mgr := NewManager(store, fetcher, ManagerConfig{MaxAge: 45 * time.Minute}, nil)
	if mgr.RefreshIfStale(context.Background()) {
		t.Fatal("fresh rates must not be refetched")
	}
	if fetcher.calls.Load() != 0 {
		t.Fatal("fetcher must not be called")
	}
}

func TestRefreshIfStaleFetchesWhenNeverFetched(t *testing.T) {
	fetcher := &stubFetcher{rates: []domain.ExchangeRate{rate("USD", 2100)}}
	store := NewStore(nil)
	mgr := NewManager(store, fetcher, ManagerConfig{}, nil)

	if !mgr.RefreshIfStale(context.Background()) {
		t.Fatal("empty store must trigger a fetch")
	}
	if store.Snapshot().LastUpdated.IsZero() {
		t.Fatal("store not updated")
	}
}

func TestRefreshRecordsFailure(t *testing.T) {
	fetcher := &stubFetcher{err: domain.NewError(domain.CodeNetwork, "down")}
	store := NewStore(nil)
	mgr := NewManager(store, fetcher, ManagerConfig{}, nil)

	mgr.Refresh(context.Background())
	snap := store.Snapshot()
	if snap.Error == "" || snap.Loading {
		t.Fatalf("failure not recorded: %+v", snap)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	fetcher := &stubFetcher{}
	store := NewStore(nil)
	mgr := NewManager(store, fetcher, ManagerConfig{Interval: 10 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		mgr.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
