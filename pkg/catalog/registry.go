// Package catalog resolves model identifiers to price sheets. Built-in models
// are static; user-entered custom models are persisted in SQLite.
package catalog

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

var (
	// ErrModelNotFound is returned when no model matches an id.
	ErrModelNotFound = errors.New("model not found")
	// ErrModelExists is returned when adding a model whose id is already taken.
	ErrModelExists = errors.New("model already exists")
	// ErrBuiltinModel is returned when removing a model that is not custom.
	ErrBuiltinModel = errors.New("built-in models cannot be removed")
)

// Defaults applied to custom models with missing fields.
const (
	DefaultCustomDescription   = "Custom Model"
	DefaultCustomContextWindow = 128000
)

// Registry is the model catalog: fixed models first, then custom models in
// the order they were added.
type Registry struct {
	db    *sql.DB
	fixed []models.ModelInfo
}

const createModelsTable = `
CREATE TABLE IF NOT EXISTS custom_models (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	info BLOB NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// New opens the registry database. extra models (for example from the config
// file) are served alongside the built-ins but never persisted; an extra whose
// id collides with an earlier model is ignored.
func New(dbPath string, extra ...models.ModelInfo) (*Registry, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	if _, err := db.Exec(createModelsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate catalog db: %w", err)
	}

	fixed := Builtin()
	seen := make(map[string]bool, len(fixed)+len(extra))
	for _, m := range fixed {
		seen[m.ID] = true
	}
	for _, m := range extra {
		if m.ID == "" || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		fixed = append(fixed, normalizeCustom(m))
	}

	return &Registry{db: db, fixed: fixed}, nil
}

// normalizeCustom fills the defaults a custom model form would supply.
func normalizeCustom(m models.ModelInfo) models.ModelInfo {
	m.Custom = true
	if m.Description == "" {
		m.Description = DefaultCustomDescription
	}
	if m.ContextWindow == 0 {
		m.ContextWindow = DefaultCustomContextWindow
	}
	if m.Type == "" {
		m.Type = models.ModelMultimodal
	}
	return m
}

// Add persists a custom model. Ids must be unique across built-in and custom models.
func (r *Registry) Add(ctx context.Context, m models.ModelInfo) error {
	if m.ID == "" || m.Name == "" {
		return fmt.Errorf("add model: id and name are required")
	}
	if err := m.Pricing.Validate(); err != nil {
		return fmt.Errorf("add model %q: %w", m.ID, err)
	}
	for _, f := range r.fixed {
		if f.ID == m.ID {
			return fmt.Errorf("add model %q: %w", m.ID, ErrModelExists)
		}
	}

	data, err := json.Marshal(normalizeCustom(m))
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO custom_models (id, info, created_at) VALUES (?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		m.ID, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("add model: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("add model %q: %w", m.ID, ErrModelExists)
	}
	return nil
}

// Remove deletes a custom model.
func (r *Registry) Remove(ctx context.Context, id string) error {
	for _, f := range r.fixed {
		if f.ID == id {
			return fmt.Errorf("remove model %q: %w", id, ErrBuiltinModel)
		}
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_models WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove model: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("remove model %q: %w", id, ErrModelNotFound)
	}
	return nil
}

// Reset removes every persisted custom model.
func (r *Registry) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM custom_models`); err != nil {
		return fmt.Errorf("reset models: %w", err)
	}
	return nil
}

// List returns the fixed models followed by custom models in insertion order.
func (r *Registry) List(ctx context.Context) ([]models.ModelInfo, error) {
	out := make([]models.ModelInfo, len(r.fixed))
	copy(out, r.fixed)

	rows, err := r.db.QueryContext(ctx, `SELECT info FROM custom_models ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		var m models.ModelInfo
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode model: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Lookup returns the model with the given id.
func (r *Registry) Lookup(ctx context.Context, id string) (models.ModelInfo, error) {
	for _, f := range r.fixed {
		if f.ID == id {
			return f, nil
		}
	}

	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT info FROM custom_models WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ModelInfo{}, fmt.Errorf("lookup %q: %w", id, ErrModelNotFound)
	}
	if err != nil {
		return models.ModelInfo{}, fmt.Errorf("lookup %q: %w", id, err)
	}

	var m models.ModelInfo
	if err := json.Unmarshal(data, &m); err != nil {
		return models.ModelInfo{}, fmt.Errorf("decode model: %w", err)
	}
	return m, nil
}

// Close releases the database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}
