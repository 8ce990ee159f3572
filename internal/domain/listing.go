package domain

import "time"

const (
	PropertyTypeApartment = "apartment"
	PropertyTypeStudio    = "studio"
	PropertyTypeResidence = "residence"

	ListingStatusActive = "active"
	ListingStatusPaused = "paused"
)

type Listing struct {
	ID           string    `json:"id"`
	LandlordID   string    `json:"landlord_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	PropertyType string    `json:"property_type"`
	Price        int       `json:"price"`
	Deposit      int       `json:"deposit"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Amenities    []string  `json:"amenities,omitempty"`
	Photos       []string  `json:"photos,omitempty"`
	Location     LatLng    `json:"location"`
	Verified     bool      `json:"verified"`
	Status       string    `json:"status"`
	AvailableAt  time.Time `json:"available_at"`
	MinimumStay  string    `json:"minimum_stay,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsResidence indica si el alojamiento es una residencia (no un piso).
func (l Listing) IsResidence() bool {
	return l.PropertyType == PropertyTypeResidence
}

type ListingView struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	ViewerID  string    `json:"viewer_id,omitempty"`
	SessionID string    `json:"session_id"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// DraftRoom es una habitación dentro del asistente de publicación.
type DraftRoom struct {
	Type  string `json:"type"`
	Price int    `json:"price"`
}

// ListingDraft acumula los datos del asistente de publicación del propietario.
type ListingDraft struct {
	PropertyType string      `json:"property_type"`
	Address      string      `json:"address"`
	City         string      `json:"city"`
	Location     LatLng      `json:"location"`
	Photos       []string    `json:"photos"`
	Amenities    []string    `json:"amenities"`
	Bathrooms    int         `json:"bathrooms"`
	Rooms        []DraftRoom `json:"rooms"`
	Deposit      int         `json:"deposit"`
	AvailableAt  *time.Time  `json:"available_at"`
	MinimumStay  string      `json:"minimum_stay"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
}
