package types

import (
	"time"

	"github.com/google/uuid"
)

// Guide is an independently registered local tour-guide profile.
type Guide struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Specialty      string    `json:"specialty"`
	Languages      []string  `json:"languages"`
	PricePerDay    float64   `json:"pricePerDay"`
	Experience     int       `json:"experience"`
	Bio            string    `json:"bio"`
	Destination    string    `json:"destination"`
	Certifications []string  `json:"certifications"`
	Availability   bool      `json:"availability"`
	Rating         float64   `json:"rating"`
	TotalReviews   int       `json:"totalReviews"`
	Verified       bool      `json:"verified"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type RegisterGuideRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Specialty      string   `json:"specialty"`
	Languages      []string `json:"languages"`
	PricePerDay    float64  `json:"pricePerDay"`
	Experience     int      `json:"experience"`
	Bio            string   `json:"bio"`
	Destination    string   `json:"destination"`
	Certifications []string `json:"certifications"`
	Availability   *bool    `json:"availability"`
}

type UpdateGuideRequest struct {
	Name           *string  `json:"name,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Specialty      *string  `json:"specialty,omitempty"`
	Languages      []string `json:"languages,omitempty"`
	PricePerDay    *float64 `json:"pricePerDay,omitempty"`
	Experience     *int     `json:"experience,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
	Destination    *string  `json:"destination,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Availability   *bool    `json:"availability,omitempty"`
}

// GuideFilter narrows guide listings. MinRating and MaxPrice are applied
// after the SQL filters, matching the original per-field behaviour.
type GuideFilter struct {
	Destination string
	Specialty   string
	MinRating   float64
	MaxPrice    float64
	All         bool
}

type GuideReviewRequest struct {
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}
