package store

import (
	"database/sql"
	"fmt"

	"github.com/halvarsson/hemma/internal/model"
)

type GuestStore struct {
	db *sql.DB
}

func NewGuestStore(db *sql.DB) *GuestStore {
	return &GuestStore{db: db}
}

const guestCols = `id, event_id, name, email, rsvp, plus_ones, created_at`

func scanGuest(scanner interface{ Scan(...any) error }) (*model.Guest, error) {
	var g model.Guest
	err := scanner.Scan(&g.ID, &g.EventID, &g.Name, &g.Email, &g.RSVP, &g.PlusOnes, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GuestStore) Create(g *model.Guest) (*model.Guest, error) {
	if g.RSVP == "" {
		g.RSVP = model.RSVPPending
	}
	if !g.RSVP.Valid() {
		return nil, fmt.Errorf("invalid rsvp status: %q", g.RSVP)
	}
	result, err := s.db.Exec(
		`INSERT INTO guests (event_id, name, email, rsvp, plus_ones) VALUES (?, ?, ?, ?, ?)`,
		g.EventID, g.Name, g.Email, g.RSVP, g.PlusOnes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert guest: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GuestStore) GetByID(id int64) (*model.Guest, error) {
	row := s.db.QueryRow(`SELECT `+guestCols+` FROM guests WHERE id = ?`, id)
	g, err := scanGuest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return g, nil
}

func (s *GuestStore) ListByEvent(eventID int64) ([]model.Guest, error) {
	rows, err := s.db.Query(
		`SELECT `+guestCols+` FROM guests WHERE event_id = ? ORDER BY name COLLATE NOCASE ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	var guests []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}

func (s *GuestStore) Update(g *model.Guest) (*model.Guest, error) {
	if !g.RSVP.Valid() {
		return nil, fmt.Errorf("invalid rsvp status: %q", g.RSVP)
	}
	_, err := s.db.Exec(
		`UPDATE guests SET name = ?, email = ?, rsvp = ?, plus_ones = ? WHERE id = ?`,
		g.Name, g.Email, g.RSVP, g.PlusOnes, g.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return s.GetByID(g.ID)
}

func (s *GuestStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}

// GuestCounts summarizes RSVP state for an event. Attending includes
// plus-ones.
type GuestCounts struct {
	Attending int `json:"attending"`
	Declined  int `json:"declined"`
	Pending   int `json:"pending"`
}

func (s *GuestStore) CountByEvent(eventID int64) (*GuestCounts, error) {
	var c GuestCounts
	err := s.db.QueryRow(
		`SELECT
		   COALESCE(SUM(CASE WHEN rsvp = 'attending' THEN 1 + plus_ones ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN rsvp = 'declined' THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN rsvp = 'pending' THEN 1 ELSE 0 END), 0)
		 FROM guests WHERE event_id = ?`,
		eventID,
	).Scan(&c.Attending, &c.Declined, &c.Pending)
	if err != nil {
		return nil, fmt.Errorf("count guests: %w", err)
	}
	return &c, nil
}
