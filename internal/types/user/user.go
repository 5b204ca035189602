package user

import "github.com/google/uuid"

// Identity is the display info attached to leaderboard entries.
type Identity struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Username string    `json:"username" db:"username"`
	ImageURL *string   `json:"image_url" db:"image_url"`
}
