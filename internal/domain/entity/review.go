package entity

import "time"

// Review ratings are bounded to [MinRating, MaxRating].
const (
	MinRating = 1
	MaxRating = 10
)

type Review struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Rating     int       `json:"rating"`
	BootcampID string    `json:"bootcamp"`
	UserID     string    `json:"user"`
	CreatedAt  time.Time `json:"createdAt"`
}
