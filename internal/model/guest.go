package model

import "time"

type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPAttending RSVPStatus = "attending"
	RSVPDeclined  RSVPStatus = "declined"
)

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPPending, RSVPAttending, RSVPDeclined:
		return true
	}
	return false
}

type Guest struct {
	ID        int64      `json:"id"`
	EventID   int64      `json:"event_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	RSVP      RSVPStatus `json:"rsvp"`
	PlusOnes  int        `json:"plus_ones"`
	CreatedAt time.Time  `json:"created_at"`
}
