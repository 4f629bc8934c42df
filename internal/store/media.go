package store

import (
	"database/sql"
	"fmt"

	"github.com/halvarsson/hemma/internal/model"
)

// MediaStore persists image metadata and links. Image bytes live in object
// storage (internal/storage); only the key is recorded here.
type MediaStore struct {
	db *sql.DB
}

func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

const imageCols = `id, household_id, event_id, filename, storage_key, content_type, size_bytes, created_at`
const linkCols = `id, household_id, event_id, title, url, created_at`

func scanImage(scanner interface{ Scan(...any) error }) (*model.Image, error) {
	var img model.Image
	var eventID sql.NullInt64
	err := scanner.Scan(
		&img.ID, &img.HouseholdID, &eventID, &img.Filename, &img.StorageKey,
		&img.ContentType, &img.SizeBytes, &img.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if eventID.Valid {
		img.EventID = &eventID.Int64
	}
	return &img, nil
}

func (s *MediaStore) CreateImage(img *model.Image) (*model.Image, error) {
	result, err := s.db.Exec(
		`INSERT INTO images (household_id, event_id, filename, storage_key, content_type, size_bytes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		img.HouseholdID, nullInt64(img.EventID), img.Filename, img.StorageKey,
		img.ContentType, img.SizeBytes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert image: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetImage(id, img.HouseholdID)
}

func (s *MediaStore) GetImage(id, householdID int64) (*model.Image, error) {
	row := s.db.QueryRow(
		`SELECT `+imageCols+` FROM images WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	img, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return img, nil
}

func (s *MediaStore) ListImages(householdID int64, eventID *int64) ([]model.Image, error) {
	query := `SELECT ` + imageCols + ` FROM images WHERE household_id = ?`
	args := []any{householdID}
	if eventID != nil {
		query += ` AND event_id = ?`
		args = append(args, *eventID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []model.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, *img)
	}
	return images, rows.Err()
}

func (s *MediaStore) DeleteImage(id, householdID int64) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *MediaStore) CreateLink(l *model.Link) (*model.Link, error) {
	result, err := s.db.Exec(
		`INSERT INTO links (household_id, event_id, title, url) VALUES (?, ?, ?, ?)`,
		l.HouseholdID, nullInt64(l.EventID), l.Title, l.URL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert link: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetLink(id, l.HouseholdID)
}

func (s *MediaStore) GetLink(id, householdID int64) (*model.Link, error) {
	var l model.Link
	var eventID sql.NullInt64
	err := s.db.QueryRow(
		`SELECT `+linkCols+` FROM links WHERE id = ? AND household_id = ?`,
		id, householdID,
	).Scan(&l.ID, &l.HouseholdID, &eventID, &l.Title, &l.URL, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	if eventID.Valid {
		l.EventID = &eventID.Int64
	}
	return &l, nil
}

func (s *MediaStore) ListLinks(householdID int64, eventID *int64) ([]model.Link, error) {
	query := `SELECT ` + linkCols + ` FROM links WHERE household_id = ?`
	args := []any{householdID}
	if eventID != nil {
		query += ` AND event_id = ?`
		args = append(args, *eventID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []model.Link
	for rows.Next() {
		var l model.Link
		var evID sql.NullInt64
		if err := rows.Scan(&l.ID, &l.HouseholdID, &evID, &l.Title, &l.URL, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		if evID.Valid {
			l.EventID = &evID.Int64
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *MediaStore) DeleteLink(id, householdID int64) error {
	_, err := s.db.Exec(`DELETE FROM links WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}
