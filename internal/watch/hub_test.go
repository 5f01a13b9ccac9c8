package watch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

type fakeLoader struct {
	mu       sync.Mutex
	expenses map[string][]core.Expense
	incomes  map[string][]core.Income
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		expenses: make(map[string][]core.Expense),
		incomes:  make(map[string][]core.Income),
	}
}

func (f *fakeLoader) ListExpenses(_ context.Context, familyID string, _ core.Month) ([]core.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Expense(nil), f.expenses[familyID]...), nil
}

func (f *fakeLoader) ListIncomes(_ context.Context, familyID string, _ core.Month) ([]core.Income, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Income(nil), f.incomes[familyID]...), nil
}

func (f *fakeLoader) addExpense(familyID string, cents int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expenses[familyID] = append(f.expenses[familyID], core.Expense{
		FamilyID:      familyID,
		Description:   "x",
		Amount:        core.Money{Cents: cents},
		Date:          time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		PaymentMethod: core.PaymentCash,
	})
}

func waitSnapshot(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C:
		if !ok {
			t.Fatalf("subscription closed unexpectedly")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	loader := newFakeLoader()
	loader.addExpense("fam1", 1000)
	hub := NewHub(loader)

	sub, err := hub.Subscribe(context.Background(), "fam1", core.Month{Year: 2026, Month: 8})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	snap := waitSnapshot(t, sub)
	if snap.Summary.TotalExpense.Cents != 1000 {
		t.Fatalf("initial snapshot total = %d, want 1000", snap.Summary.TotalExpense.Cents)
	}
}

func TestNotifyRebuildsSnapshot(t *testing.T) {
	loader := newFakeLoader()
	loader.addExpense("fam1", 1000)
	hub := NewHub(loader)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run(ctx)
	}()

	month := core.Month{Year: 2026, Month: 8}
	sub, err := hub.Subscribe(ctx, "fam1", month)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()
	waitSnapshot(t, sub)

	loader.addExpense("fam1", 500)
	hub.Notify("fam1", month)

	snap := waitSnapshot(t, sub)
	if snap.Summary.TotalExpense.Cents != 1500 {
		t.Fatalf("rebuilt snapshot total = %d, want 1500", snap.Summary.TotalExpense.Cents)
	}

	cancel()
	<-done
}

func TestNotifyOtherFamilyIsIgnored(t *testing.T) {
	loader := newFakeLoader()
	hub := NewHub(loader)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	month := core.Month{Year: 2026, Month: 8}
	sub, err := hub.Subscribe(ctx, "fam1", month)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()
	waitSnapshot(t, sub)

	hub.Notify("fam2", month)

	select {
	case snap := <-sub.C:
		t.Fatalf("unexpected snapshot for another family: %+v", snap)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSlowSubscriberGetsLatestSnapshot(t *testing.T) {
	loader := newFakeLoader()
	hub := NewHub(loader)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	month := core.Month{Year: 2026, Month: 8}
	sub, err := hub.Subscribe(ctx, "fam1", month)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()
	waitSnapshot(t, sub)

	// Two changes without the subscriber reading in between. The stale
	// snapshot is replaced, the latest one must come through.
	loader.addExpense("fam1", 100)
	hub.Notify("fam1", month)
	time.Sleep(50 * time.Millisecond)
	loader.addExpense("fam1", 200)
	hub.Notify("fam1", month)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-sub.C:
			if snap.Summary.TotalExpense.Cents == 300 {
				return
			}
		case <-deadline:
			t.Fatalf("latest snapshot never delivered")
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	loader := newFakeLoader()
	hub := NewHub(loader)

	sub, err := hub.Subscribe(context.Background(), "fam1", core.Month{Year: 2026, Month: 8})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	sub.Close()
	sub.Close()

	if _, ok := <-sub.C; ok {
		// The buffered initial snapshot may still be pending; after it the
		// channel must report closed.
		if _, ok := <-sub.C; ok {
			t.Fatalf("channel still open after Close")
		}
	}
}
