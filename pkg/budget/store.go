package budget

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pario-ai/costscope/pkg/models"
)

// ErrAllocationNotFound is returned when no allocation matches a lookup.
var ErrAllocationNotFound = errors.New("budget allocation not found")

// Store persists budget allocations in SQLite.
type Store struct {
	db *sql.DB
}

const createAllocationsTable = `
CREATE TABLE IF NOT EXISTS budget_allocations (
	id TEXT PRIMARY KEY,
	team_name TEXT NOT NULL,
	monthly_budget REAL NOT NULL,
	spent REAL NOT NULL DEFAULT 0,
	period TEXT NOT NULL,
	alerts TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (team_name, period)
);
CREATE INDEX IF NOT EXISTS idx_budget_period ON budget_allocations(period);
`

// NewStore opens the allocation database and runs auto-migration.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open budget db: %w", err)
	}

	if _, err := db.Exec(createAllocationsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate budget db: %w", err)
	}

	return &Store{db: db}, nil
}

// Save inserts or replaces an allocation. A team has at most one allocation per period.
func (s *Store) Save(ctx context.Context, a models.BudgetAllocation) error {
	alerts := a.Alerts
	if alerts == nil {
		alerts = []string{}
	}
	data, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("encode alerts: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO budget_allocations (id, team_name, monthly_budget, spent, period, alerts, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			team_name = excluded.team_name,
			monthly_budget = excluded.monthly_budget,
			spent = excluded.spent,
			period = excluded.period,
			alerts = excluded.alerts,
			updated_at = excluded.updated_at`,
		a.ID, a.TeamName, a.MonthlyBudget, a.Spent, a.Period, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save allocation: %w", err)
	}
	return nil
}

const selectAllocation = `SELECT id, team_name, monthly_budget, spent, period, alerts FROM budget_allocations`

func scanAllocation(row interface{ Scan(...any) error }) (models.BudgetAllocation, error) {
	var a models.BudgetAllocation
	var alerts string
	if err := row.Scan(&a.ID, &a.TeamName, &a.MonthlyBudget, &a.Spent, &a.Period, &alerts); err != nil {
		return a, err
	}
	if err := json.Unmarshal([]byte(alerts), &a.Alerts); err != nil {
		return a, fmt.Errorf("decode alerts: %w", err)
	}
	return a, nil
}

// Get returns the allocation with the given id.
func (s *Store) Get(ctx context.Context, id string) (models.BudgetAllocation, error) {
	a, err := scanAllocation(s.db.QueryRowContext(ctx, selectAllocation+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("get allocation %q: %w", id, ErrAllocationNotFound)
	}
	if err != nil {
		return a, fmt.Errorf("get allocation: %w", err)
	}
	return a, nil
}

// FindByTeam returns a team's allocation for period.
func (s *Store) FindByTeam(ctx context.Context, team, period string) (models.BudgetAllocation, error) {
	a, err := scanAllocation(s.db.QueryRowContext(ctx,
		selectAllocation+` WHERE team_name = ? AND period = ?`, team, period))
	if errors.Is(err, sql.ErrNoRows) {
		return a, fmt.Errorf("team %q period %s: %w", team, period, ErrAllocationNotFound)
	}
	if err != nil {
		return a, fmt.Errorf("find allocation: %w", err)
	}
	return a, nil
}

// List returns allocations ordered by team, optionally filtered by period.
func (s *Store) List(ctx context.Context, period string) ([]models.BudgetAllocation, error) {
	query := selectAllocation
	var args []any
	if period != "" {
		query += ` WHERE period = ?`
		args = append(args, period)
	}
	query += ` ORDER BY team_name, period`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var out []models.BudgetAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Spend adds cost to a team's allocation for period, persists it and returns
// the updated allocation with any alert raised.
func (s *Store) Spend(ctx context.Context, team, period string, cost, alertThreshold float64) (models.BudgetAllocation, string, error) {
	a, err := s.FindByTeam(ctx, team, period)
	if err != nil {
		return models.BudgetAllocation{}, "", err
	}
	next, alert := RecordSpend(a, cost, alertThreshold)
	if err := s.Save(ctx, next); err != nil {
		return models.BudgetAllocation{}, "", err
	}
	return next, alert, nil
}

// Status classifies every allocation in period.
func (s *Store) Status(ctx context.Context, period string, alertThreshold float64) ([]models.BudgetStatus, error) {
	allocs, err := s.List(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("budget status: %w", err)
	}
	statuses := make([]models.BudgetStatus, 0, len(allocs))
	for _, a := range allocs {
		statuses = append(statuses, ClassifyBudgetStatus(a, alertThreshold))
	}
	return statuses, nil
}

// Delete removes an allocation.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budget_allocations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete allocation %q: %w", id, ErrAllocationNotFound)
	}
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
