package internal

import "time"

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

// Entry is one user's logged day. EntryDate (YYYY-MM-DD) is unique per user.
type Entry struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	EntryDate   string     `json:"entry_date"`
	SleepHours  *float64   `json:"sleep_hours"`
	Mood        *int       `json:"mood"` // 1–5 scale
	Note        *string    `json:"note"`
	Tags        []string   `json:"tags"`
	IsComplete  bool       `json:"is_complete"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
