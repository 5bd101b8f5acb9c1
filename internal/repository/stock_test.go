package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GunarsK-portfolio/sweetshop-service/internal/models"
)

// readThenWrite checks stock with one read and writes the computed level
// back with a second statement. Every caller finishes its read before any
// caller writes, which is the interleaving that loses updates.
type readThenWrite struct {
	repo SweetRepository
	read *sync.WaitGroup
}

func (r readThenWrite) Decrement(ctx context.Context, id string, quantity int) error {
	sweet, err := r.repo.FindByID(ctx, id)
	r.read.Done()
	r.read.Wait()
	if err != nil {
		return err
	}
	if sweet.Quantity < quantity {
		return ErrInsufficientStock
	}
	remaining := sweet.Quantity - quantity
	_, err = r.repo.Update(ctx, id, models.SweetPatch{Quantity: &remaining})
	return err
}

// runBuyers releases buyers purchases of one unit at once and returns how
// many succeeded.
func runBuyers(t *testing.T, buyers int, buy func(ctx context.Context) error) int {
	t.Helper()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	start := make(chan struct{})
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := buy(context.Background())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if !errors.Is(err, ErrInsufficientStock) {
				t.Errorf("purchase unexpected error = %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()
	return successes
}

// =============================================================================
// Lost updates
// =============================================================================

func TestStockLedgerUnderConcurrentBuyers(t *testing.T) {
	const stock = 10

	stores := []struct {
		name    string
		newRepo func(t *testing.T) SweetRepository
	}{
		{name: "memory", newRepo: func(t *testing.T) SweetRepository { return NewMemoryStore().Sweets() }},
		{name: "sqlite", newRepo: func(t *testing.T) SweetRepository { return NewSweetRepository(setupTestDB(t)) }},
	}

	for _, store := range stores {
		t.Run(store.name+"/read then write loses updates", func(t *testing.T) {
			repo := store.newRepo(t)
			seedSweets(t, repo, models.Sweet{ID: "s1", Name: "Toffee", Category: models.CategoryCandy, Price: 1, Quantity: stock})

			var read sync.WaitGroup
			read.Add(stock)
			naive := readThenWrite{repo: repo, read: &read}
			successes := runBuyers(t, stock, func(ctx context.Context) error {
				return naive.Decrement(ctx, "s1", 1)
			})

			sweet, err := repo.FindByID(context.Background(), "s1")
			if err != nil {
				t.Fatalf("FindByID() error = %v", err)
			}
			if successes != stock {
				t.Errorf("successes = %d, want %d", successes, stock)
			}
			if sweet.Quantity != stock-1 {
				t.Errorf("final quantity = %d, want %d from every buyer writing the same level", sweet.Quantity, stock-1)
			}
			if sweet.Quantity == stock-successes {
				t.Error("ledger balanced; the interleaving did not occur")
			}
		})

		t.Run(store.name+"/conditional decrement balances", func(t *testing.T) {
			repo := store.newRepo(t)
			seedSweets(t, repo, models.Sweet{ID: "s1", Name: "Toffee", Category: models.CategoryCandy, Price: 1, Quantity: stock})

			successes := runBuyers(t, 2*stock, func(ctx context.Context) error {
				_, err := repo.Decrement(ctx, "s1", 1)
				return err
			})

			sweet, err := repo.FindByID(context.Background(), "s1")
			if err != nil {
				t.Fatalf("FindByID() error = %v", err)
			}
			if successes != stock {
				t.Errorf("successes = %d, want %d", successes, stock)
			}
			if sweet.Quantity != stock-successes {
				t.Errorf("final quantity = %d, want %d", sweet.Quantity, stock-successes)
			}
		})
	}
}

// =============================================================================
// Stock limit
// =============================================================================

func TestIncrementStockLimit(t *testing.T) {
	stores := []struct {
		name    string
		newRepo func(t *testing.T) SweetRepository
	}{
		{name: "memory", newRepo: func(t *testing.T) SweetRepository { return NewMemoryStore().Sweets() }},
		{name: "sqlite", newRepo: func(t *testing.T) SweetRepository { return NewSweetRepository(setupTestDB(t)) }},
	}

	tests := []struct {
		name     string
		quantity int
		wantErr  error
		want     int
	}{
		{name: "fills to the limit", quantity: models.MaxQuantity - 5, want: models.MaxQuantity},
		{name: "one past the limit", quantity: models.MaxQuantity - 4, wantErr: ErrStockLimit, want: 5},
		{name: "would wrap int", quantity: int(^uint(0) >> 1), wantErr: ErrStockLimit, want: 5},
	}

	for _, store := range stores {
		for _, tt := range tests {
			t.Run(store.name+"/"+tt.name, func(t *testing.T) {
				ctx := context.Background()
				repo := store.newRepo(t)
				seedSweets(t, repo, models.Sweet{ID: "s1", Name: "Nougat", Category: models.CategoryCandy, Price: 1, Quantity: 5})

				_, err := repo.Increment(ctx, "s1", tt.quantity)
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Increment(%d) error = %v, want %v", tt.quantity, err, tt.wantErr)
				}

				sweet, err := repo.FindByID(ctx, "s1")
				if err != nil {
					t.Fatalf("FindByID() error = %v", err)
				}
				if sweet.Quantity != tt.want {
					t.Errorf("quantity = %d, want %d", sweet.Quantity, tt.want)
				}
			})
		}
	}
}
