package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ayusman/gesteasy/internal/gesture"
)

// ErrDuplicateEvent is returned when a second binding is created for an event.
var ErrDuplicateEvent = errors.New("event already bound")

// Binding maps a gesture event to a plugin action.
type Binding struct {
	ID         string          `json:"id"`
	Event      gesture.Event   `json:"event"`
	PluginName string          `json:"plugin"`
	ActionName string          `json:"action"`
	Config     json.RawMessage `json:"config,omitempty"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  time.Time       `json:"created_at"`
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

const bindingColumns = `id, event, plugin_name, action_name, config, enabled, created_at`

// Create inserts a new binding into the database.
func (r *BindingRepository) Create(b *Binding) error {
	existing, err := r.GetByEvent(b.Event)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateEvent
	}

	b.CreatedAt = time.Now()

	_, err = r.db.Exec(
		`INSERT INTO bindings (`+bindingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Event.String(), b.PluginName, b.ActionName, string(configOrEmpty(b.Config)), b.Enabled, b.CreatedAt,
	)
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	b, err := scanBinding(r.db.QueryRow(`SELECT `+bindingColumns+` FROM bindings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// GetByEvent retrieves the binding for an event.
// Returns nil, nil if nothing is bound to the event.
func (r *BindingRepository) GetByEvent(e gesture.Event) (*Binding, error) {
	b, err := scanBinding(r.db.QueryRow(`SELECT `+bindingColumns+` FROM bindings WHERE event = ?`, e.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Silent skip - no action bound
	}
	return b, err
}

// List retrieves all bindings from the database.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(`SELECT ` + bindingColumns + ` FROM bindings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b, err := scanBinding(rows)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bindings, nil
}

// Update updates an existing binding in the database.
func (r *BindingRepository) Update(b *Binding) error {
	existing, err := r.GetByEvent(b.Event)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != b.ID {
		return ErrDuplicateEvent
	}

	result, err := r.db.Exec(
		`UPDATE bindings SET event = ?, plugin_name = ?, action_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		b.Event.String(), b.PluginName, b.ActionName, string(configOrEmpty(b.Config)), b.Enabled, b.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a binding from the database by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBinding(row rowScanner) (*Binding, error) {
	b := &Binding{}
	var event, config string
	var enabled int

	if err := row.Scan(&b.ID, &event, &b.PluginName, &b.ActionName, &config, &enabled, &b.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if b.Event, err = gesture.ParseEvent(event); err != nil {
		return nil, err
	}
	b.Config = json.RawMessage(config)
	b.Enabled = enabled != 0
	return b, nil
}

func configOrEmpty(c json.RawMessage) json.RawMessage {
	if len(c) == 0 {
		return json.RawMessage("{}")
	}
	return c
}
