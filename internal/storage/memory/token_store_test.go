package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"molenker/internal/domain"
	"molenker/internal/storage"
)

func newLaunch(id string) *domain.TokenLaunch {
	return domain.NewPendingLaunch(id, &domain.ParsedLaunchData{
		Name:        "LobsterKing",
		Symbol:      "LOBK",
		Wallet:      "0x742d35Cc6634C0532925a3b844Bc9e7595f2bD12",
		Description: "test",
		Image:       "https://i.imgur.com/x.png",
	}, domain.Provenance{Source: domain.SourceMoltx, SourceURL: "https://moltx.io/post/" + id}, time.Now())
}

func TestTokenStore_PutAndGet(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	if err := store.Put(ctx, newLaunch("t1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	result, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if result.Symbol != "LOBK" || result.Status != domain.StatusPending {
		t.Errorf("unexpected record: %+v", result)
	}
}

func TestTokenStore_PutOverwrites(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	launch := newLaunch("t1")
	if err := store.Put(ctx, launch); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := launch.MarkDeployed("0xhash", "0xAbC0000000000000000000000000000000000001", time.Now()); err != nil {
		t.Fatalf("MarkDeployed: %v", err)
	}
	if err := store.Put(ctx, launch); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	all, _ := store.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 record after overwrite, got %d", len(all))
	}
	if all[0].Status != domain.StatusDeployed {
		t.Errorf("expected deployed, got %s", all[0].Status)
	}
}

func TestTokenStore_GetByAddressCaseInsensitive(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	launch := newLaunch("t1")
	_ = launch.MarkDeployed("0xhash", "0xAbC0000000000000000000000000000000000001", time.Now())
	_ = store.Put(ctx, launch)
	_ = store.Put(ctx, newLaunch("t2")) // pending, no address

	result, err := store.GetByAddress(ctx, "0xabc0000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if result.ID != "t1" {
		t.Errorf("expected t1, got %s", result.ID)
	}

	_, err = store.GetByAddress(ctx, "0xdead")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenStore_NotFoundAndInvalid(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.Put(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Put(ctx, &domain.TokenLaunch{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty ID, got %v", err)
	}
}

func TestTokenStore_ReturnsCopy(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	launch := newLaunch("t1")
	_ = store.Put(ctx, launch)

	// Modify original
	launch.Name = "changed"

	result, _ := store.Get(ctx, "t1")
	if result.Name != "LobsterKing" {
		t.Error("Store should keep a copy, not a reference")
	}

	result.Name = "changed again"
	again, _ := store.Get(ctx, "t1")
	if again.Name != "LobsterKing" {
		t.Error("Store should return a copy, not a reference")
	}
}
