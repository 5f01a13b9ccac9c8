package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

// Loader reads the records a snapshot is built from.
type Loader interface {
	ListExpenses(ctx context.Context, familyID string, month core.Month) ([]core.Expense, error)
	ListIncomes(ctx context.Context, familyID string, month core.Month) ([]core.Income, error)
}

// Snapshot is the full month view delivered to subscribers. Slices are
// owned by the snapshot and must not be mutated by receivers.
type Snapshot struct {
	FamilyID string
	Month    core.Month
	Expenses []core.Expense
	Incomes  []core.Income
	Summary  core.MonthlySummary
}

type topic struct {
	familyID string
	month    core.Month
}

// Subscription receives snapshots for one family and month. A slow
// receiver only ever misses intermediate snapshots, never the latest one.
type Subscription struct {
	C <-chan Snapshot

	hub   *Hub
	topic topic
	ch    chan Snapshot
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// Hub turns record change notifications into fresh snapshots and fans
// them out to subscribers.
type Hub struct {
	loader Loader

	mu   sync.Mutex
	subs map[topic]map[*Subscription]struct{}

	changes chan topic
}

func NewHub(loader Loader) *Hub {
	return &Hub{
		loader:  loader,
		subs:    make(map[topic]map[*Subscription]struct{}),
		changes: make(chan topic, 64),
	}
}

// Subscribe registers for snapshots of one family's month and delivers the
// current snapshot immediately.
func (h *Hub) Subscribe(ctx context.Context, familyID string, month core.Month) (*Subscription, error) {
	snap, err := h.load(ctx, topic{familyID: familyID, month: month})
	if err != nil {
		return nil, fmt.Errorf("load initial snapshot: %w", err)
	}

	ch := make(chan Snapshot, 1)
	ch <- snap
	sub := &Subscription{
		C:     ch,
		hub:   h,
		topic: topic{familyID: familyID, month: month},
		ch:    ch,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sub.topic] == nil {
		h.subs[sub.topic] = make(map[*Subscription]struct{})
	}
	h.subs[sub.topic][sub] = struct{}{}
	return sub, nil
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sub.topic]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.topic)
	}
	close(sub.ch)
}

// Notify reports that a family's records changed for a month. It never
// blocks; when the change queue is full the change is dropped, which is
// acceptable because every snapshot is rebuilt from the database anyway.
func (h *Hub) Notify(familyID string, month core.Month) {
	select {
	case h.changes <- topic{familyID: familyID, month: month}:
	default:
		slog.Warn("Change queue full, dropping notification",
			"family_id", familyID,
			"month", month.String())
	}
}

// Run consumes change notifications until the context is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Snapshot hub started")
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Snapshot hub stopping", "reason", ctx.Err())
			return ctx.Err()
		case t := <-h.changes:
			if !h.hasSubscribers(t) {
				continue
			}
			snap, err := h.load(ctx, t)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to build snapshot",
					"family_id", t.familyID,
					"month", t.month.String(),
					"error", err)
				continue
			}
			h.broadcast(t, snap)
		}
	}
}

func (h *Hub) hasSubscribers(t topic) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[t]) > 0
}

func (h *Hub) load(ctx context.Context, t topic) (Snapshot, error) {
	var (
		expenses []core.Expense
		incomes  []core.Income
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = h.loader.ListExpenses(ctx, t.familyID, t.month)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = h.loader.ListIncomes(ctx, t.familyID, t.month)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		FamilyID: t.familyID,
		Month:    t.month,
		Expenses: expenses,
		Incomes:  incomes,
		Summary:  core.ComputeMonthlySummary(expenses, incomes),
	}, nil
}

func (h *Hub) broadcast(t topic, snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[t] {
		// Replace a pending snapshot instead of blocking on it.
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snap
	}
}
