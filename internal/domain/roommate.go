package domain

import "time"

// RoommateProfile es el perfil de convivencia publicado por un estudiante.
type RoommateProfile struct {
	ID         string          `json:"id" yaml:"id"`
	UserID     string          `json:"user_id" yaml:"user_id"`
	Name       string          `json:"name" yaml:"name"`
	Age        int             `json:"age,omitempty" yaml:"age"`
	Bio        string          `json:"bio,omitempty" yaml:"bio"`
	Studies    string          `json:"studies,omitempty" yaml:"studies"`
	University string          `json:"university,omitempty" yaml:"university"`
	Location   string          `json:"location,omitempty" yaml:"location"`
	Images     []string        `json:"images,omitempty" yaml:"images"`
	Tags       []string        `json:"tags,omitempty" yaml:"tags"`
	Interests  []string        `json:"interests,omitempty" yaml:"interests"`
	BudgetMin  *int            `json:"budget_min,omitempty" yaml:"budget_min"`
	BudgetMax  *int            `json:"budget_max,omitempty" yaml:"budget_max"`
	Verified   bool            `json:"verified" yaml:"verified"`
	Active     bool            `json:"active" yaml:"active"`
	Lifestyle  AttributeVector `json:"lifestyle" yaml:"lifestyle"`
	CreatedAt  time.Time       `json:"created_at" yaml:"-"`
	UpdatedAt  time.Time       `json:"updated_at" yaml:"-"`
}

// ScoredCandidate es un perfil anotado con su compatibilidad respecto al vector de referencia.
type ScoredCandidate struct {
	RoommateProfile
	CompatibilityScore int      `json:"compatibility_score"`
	MatchTags          []string `json:"match_tags,omitempty"`
}

type RoommateLike struct {
	LikerID   string    `json:"liker_id"`
	LikedID   string    `json:"liked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RoommateMatch es un like mutuo; User1ID < User2ID para que el par sea unico.
type RoommateMatch struct {
	User1ID   string    `json:"user_1_id"`
	User2ID   string    `json:"user_2_id"`
	MatchedAt time.Time `json:"matched_at"`
}

// Other devuelve el otro integrante del match.
func (m RoommateMatch) Other(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// NewRoommateMatch ordena el par de usuarios.
func NewRoommateMatch(a, b string, at time.Time) RoommateMatch {
	if b < a {
		a, b = b, a
	}
	return RoommateMatch{User1ID: a, User2ID: b, MatchedAt: at}
}
