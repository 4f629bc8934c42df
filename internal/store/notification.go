package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationCols = `id, household_id, kind, event_id, todo_id, title, body,
	scheduled_for, sent, sent_at, read, created_at`

func scanNotification(scanner interface{ Scan(...any) error }) (*model.Notification, error) {
	var n model.Notification
	var sent, read int
	var eventID, todoID sql.NullInt64
	var sentAt sql.NullTime
	err := scanner.Scan(
		&n.ID, &n.HouseholdID, &n.Kind, &eventID, &todoID, &n.Title, &n.Body,
		&n.ScheduledFor, &sent, &sentAt, &read, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Sent = sent != 0
	n.Read = read != 0
	if eventID.Valid {
		n.EventID = &eventID.Int64
	}
	if todoID.Valid {
		n.TodoID = &todoID.Int64
	}
	if sentAt.Valid {
		t := sentAt.Time
		n.SentAt = &t
	}
	return &n, nil
}

func (s *NotificationStore) Create(n *model.Notification) (*model.Notification, error) {
	if !n.Kind.Valid() {
		return nil, fmt.Errorf("invalid notification kind: %q", n.Kind)
	}
	result, err := s.db.Exec(
		`INSERT INTO notifications (household_id, kind, event_id, todo_id, title, body, scheduled_for)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.HouseholdID, n.Kind, nullInt64(n.EventID), nullInt64(n.TodoID),
		n.Title, n.Body, n.ScheduledFor.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id, n.HouseholdID)
}

func (s *NotificationStore) GetByID(id, householdID int64) (*model.Notification, error) {
	row := s.db.QueryRow(
		`SELECT `+notificationCols+` FROM notifications WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	n, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

// ListByHousehold returns sent notifications, newest first.
func (s *NotificationStore) ListByHousehold(householdID int64, unreadOnly bool, limit int) ([]model.Notification, error) {
	query := `SELECT ` + notificationCols + ` FROM notifications WHERE household_id = ? AND sent = 1`
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY sent_at DESC LIMIT ?`

	rows, err := s.db.Query(query, householdID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	return collectNotifications(rows)
}

// ListScheduled returns pending (unsent) notifications for a household.
func (s *NotificationStore) ListScheduled(householdID int64) ([]model.Notification, error) {
	rows, err := s.db.Query(
		`SELECT `+notificationCols+` FROM notifications
		 WHERE household_id = ? AND sent = 0 ORDER BY scheduled_for ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list scheduled notifications: %w", err)
	}
	defer rows.Close()
	return collectNotifications(rows)
}

// PromoteDue atomically marks every due, unsent notification as sent and
// returns the promoted rows. The UPDATE keeps the sent = 0 predicate at
// write time, so two overlapping sweeps cannot both claim the same row:
// whichever transaction commits first wins and the loser's conditional
// update matches nothing.
func (s *NotificationStore) PromoteDue(now time.Time) ([]model.Notification, error) {
	now = now.UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(
		`SELECT id FROM notifications WHERE sent = 0 AND scheduled_for <= ? ORDER BY scheduled_for ASC`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("select due notifications: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan notification id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due notifications: %w", err)
	}

	if len(ids) == 0 {
		return nil, tx.Commit()
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, now)
	for _, id := range ids {
		args = append(args, id)
	}
	if _, err := tx.Exec(
		`UPDATE notifications SET sent = 1, sent_at = ? WHERE id IN (`+placeholders+`) AND sent = 0`,
		args...,
	); err != nil {
		return nil, fmt.Errorf("promote notifications: %w", err)
	}

	sel, err := tx.Query(
		`SELECT `+notificationCols+` FROM notifications WHERE id IN (`+placeholders+`) AND sent_at = ?`,
		append(args[1:], now)...,
	)
	if err != nil {
		return nil, fmt.Errorf("select promoted notifications: %w", err)
	}
	defer sel.Close()
	promoted, err := collectNotifications(sel)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return promoted, nil
}

func (s *NotificationStore) MarkRead(id, householdID int64) error {
	_, err := s.db.Exec(
		`UPDATE notifications SET read = 1 WHERE id = ? AND household_id = ?`,
		id, householdID,
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationStore) Delete(id, householdID int64) error {
	_, err := s.db.Exec(`DELETE FROM notifications WHERE id = ? AND household_id = ?`, id, householdID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

func collectNotifications(rows *sql.Rows) ([]model.Notification, error) {
	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}
