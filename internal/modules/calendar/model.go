package calendar

import "time"

// DateLayout is the wire format of every calendar date in the system.
const DateLayout = "2006-01-02"

// BlockedDate marks a calendar date on which no store accepts new pickups,
// regardless of capacity.
type BlockedDate struct {
	Date      string    `json:"date"` // YYYY-MM-DD
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockRequest blocks a single date or an inclusive date range.
type BlockRequest struct {
	Date   string `json:"date,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Reason string `json:"reason,omitempty"`
}
