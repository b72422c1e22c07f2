package budget

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := CreateAllocation("search", 500, "2026-10")
	if err := s.Save(ctx, a); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.TeamName != "search" || got.MonthlyBudget != 500 || got.Period != "2026-10" {
		t.Errorf("unexpected allocation: %+v", got)
	}
	if got.Alerts == nil || len(got.Alerts) != 0 {
		t.Errorf("expected empty alerts, got %v", got.Alerts)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrAllocationNotFound) {
		t.Fatalf("expected ErrAllocationNotFound, got %v", err)
	}
}

func TestSpendPersistsAlerts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := CreateAllocation("ml", 100, "2026-10")
	if err := s.Save(ctx, a); err != nil {
		t.Fatal(err)
	}

	if _, alert, err := s.Spend(ctx, "ml", "2026-10", 50, 80); err != nil || alert != "" {
		t.Fatalf("first spend: alert=%q err=%v", alert, err)
	}
	updated, alert, err := s.Spend(ctx, "ml", "2026-10", 40, 80)
	if err != nil {
		t.Fatal(err)
	}
	if alert != "Budget alert: 90.0% used" {
		t.Errorf("unexpected alert %q", alert)
	}
	if updated.Spent != 90 {
		t.Errorf("expected 90 spent, got %f", updated.Spent)
	}

	got, err := s.FindByTeam(ctx, "ml", "2026-10")
	if err != nil {
		t.Fatal(err)
	}
	if got.Spent != 90 || len(got.Alerts) != 1 {
		t.Errorf("spend not persisted: %+v", got)
	}
}

func TestSpendUnknownTeam(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Spend(context.Background(), "ghost", "2026-10", 1, 80)
	if !errors.Is(err, ErrAllocationNotFound) {
		t.Fatalf("expected ErrAllocationNotFound, got %v", err)
	}
}

func TestListAndStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	over := CreateAllocation("zeta", 100, "2026-10")
	over.Spent = 130
	_ = s.Save(ctx, over)
	_ = s.Save(ctx, CreateAllocation("alpha", 100, "2026-10"))
	_ = s.Save(ctx, CreateAllocation("alpha", 100, "2026-09"))

	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 allocations, got %d", len(all))
	}

	statuses, err := s.Status(ctx, "2026-10", 80)
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Allocation.TeamName != "alpha" || statuses[0].AlertLevel != "ok" {
		t.Errorf("unexpected first status: %+v", statuses[0])
	}
	if statuses[1].AlertLevel != "critical" || !statuses[1].IsOverBudget {
		t.Errorf("unexpected second status: %+v", statuses[1])
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := CreateAllocation("ml", 100, "2026-10")
	_ = s.Save(ctx, a)
	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, a.ID); !errors.Is(err, ErrAllocationNotFound) {
		t.Fatalf("expected ErrAllocationNotFound, got %v", err)
	}
}
