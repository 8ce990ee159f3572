package domain

import "time"

type Review struct {
	ID                 string     `json:"id"`
	ListingID          string     `json:"listing_id"`
	StudentID          string     `json:"student_id"`
	LandlordID         string     `json:"landlord_id"`
	Rating             int        `json:"rating"`
	Comment            string     `json:"comment"`
	LandlordResponse   string     `json:"landlord_response,omitempty"`
	LandlordResponseAt *time.Time `json:"landlord_response_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ReviewSummary agrupa las reseñas de un alojamiento con su media.
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating *float64 `json:"average_rating"`
	TotalReviews  int      `json:"total_reviews"`
}
