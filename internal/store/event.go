package store

import (
	"database/sql"
	"time"

	"github.com/ayusman/gesteasy/internal/gesture"
)

// Event is a recorded gesture event.
type Event struct {
	ID        int64         `json:"id"`
	SessionID string        `json:"session_id"`
	Kind      gesture.Event `json:"kind"`
	CursorX   float64       `json:"cursor_x"`
	CursorY   float64       `json:"cursor_y"`
	HasCursor bool          `json:"has_cursor"`
	CreatedAt time.Time     `json:"created_at"`
}

// EventRepository records emitted gesture events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts e and fills in its ID.
func (r *EventRepository) Record(e *Event) error {
	result, err := r.db.Exec(
		`INSERT INTO gesture_events (session_id, kind, cursor_x, cursor_y, has_cursor, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Kind.String(), e.CursorX, e.CursorY, e.HasCursor, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// Recent returns up to limit events across all sessions, newest first.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	return r.query(
		`SELECT id, session_id, kind, cursor_x, cursor_y, has_cursor, created_at
		 FROM gesture_events ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// BySession returns a session's events in the order they were emitted.
func (r *EventRepository) BySession(sessionID string) ([]*Event, error) {
	return r.query(
		`SELECT id, session_id, kind, cursor_x, cursor_y, has_cursor, created_at
		 FROM gesture_events WHERE session_id = ? ORDER BY created_at, id`,
		sessionID,
	)
}

func (r *EventRepository) query(q string, args ...any) ([]*Event, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var kind string
		var hasCursor int

		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.CursorX, &e.CursorY, &hasCursor, &e.CreatedAt); err != nil {
			return nil, err
		}

		e.Kind, err = gesture.ParseEvent(kind)
		if err != nil {
			return nil, err
		}
		e.HasCursor = hasCursor != 0
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
