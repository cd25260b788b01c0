package dto

import (
	"time"

	reviewsvc "unilodge/internal/app/services/review"
)

type Review struct {
	ID         string       `json:"id"`
	PropertyID string       `json:"property_id"`
	Author     *ChatProfile `json:"author,omitempty"`
	Rating     int          `json:"rating"`
	Comment    string       `json:"comment"`
	Verified   bool         `json:"verified"`
	CreatedAt  time.Time    `json:"created_at"`
}

type ReviewList struct {
	Items []Review `json:"items"`
}

func MapReviews(reviews []reviewsvc.WithAuthor) []Review {
	out := make([]Review, 0, len(reviews))
	for _, entry := range reviews {
		if entry.Review == nil {
			continue
		}
		mapped := Review{
			ID:         string(entry.Review.ID),
			PropertyID: string(entry.Review.PropertyID),
			Rating:     entry.Review.Rating,
			Comment:    entry.Review.Comment,
			Verified:   entry.Review.Verified,
			CreatedAt:  entry.Review.CreatedAt,
		}
		if entry.Author != nil {
			mapped.Author = &ChatProfile{
				ID:        string(entry.Author.ID),
				FullName:  entry.Author.FullName,
				AvatarURL: entry.Author.AvatarURL,
				Role:      string(entry.Author.Role),
			}
		}
		out = append(out, mapped)
	}
	return out
}
