package transcript

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Utterance is one spoken gesture event.
type Utterance struct {
	ID         string
	SessionID  string
	Label      string
	Confidence float64
	HoldMs     int64
	SpokenAt   time.Time
}

// UtteranceRepository provides operations on utterances.
type UtteranceRepository struct {
	db *sql.DB
}

// Utterances returns the utterance repository for this store.
func (s *Store) Utterances() *UtteranceRepository {
	return &UtteranceRepository{db: s.db}
}

// Record inserts a spoken event. The ID is assigned here.
func (r *UtteranceRepository) Record(u *Utterance) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.SpokenAt.IsZero() {
		u.SpokenAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO utterances (id, session_id, label, confidence, hold_ms, spoken_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.SessionID, u.Label, u.Confidence, u.HoldMs, u.SpokenAt,
	)
	return err
}

// ListRecent returns the most recent utterances across all sessions,
// newest first.
func (r *UtteranceRepository) ListRecent(limit int) ([]*Utterance, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, label, confidence, hold_ms, spoken_at
		 FROM utterances ORDER BY spoken_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUtterances(rows)
}

// ListBySession returns all utterances for one session in spoken order.
func (r *UtteranceRepository) ListBySession(sessionID string) ([]*Utterance, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, label, confidence, hold_ms, spoken_at
		 FROM utterances WHERE session_id = ? ORDER BY spoken_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUtterances(rows)
}

func scanUtterances(rows *sql.Rows) ([]*Utterance, error) {
	var utterances []*Utterance
	for rows.Next() {
		u := &Utterance{}
		if err := rows.Scan(&u.ID, &u.SessionID, &u.Label, &u.Confidence, &u.HoldMs, &u.SpokenAt); err != nil {
			return nil, err
		}
		utterances = append(utterances, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return utterances, nil
}
