package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"livix-api/internal/domain"
)

var ErrInvalidDraft = errors.New("invalid listing draft")

const (
	minDraftPhotos        = 3
	maxDraftPhotos        = 10
	minAddressLength      = 5
	minTitleLength        = 5
	maxFreeTitleWords     = 6
	maxFreeTitleLength    = 100
	maxPremiumTitleLength = 200
	minDescriptionLength  = 50
	maxDescriptionLength  = 5000
)

// DraftValidationError lista los campos invalidos de un paso del asistente.
type DraftValidationError struct {
	Step   string            `json:"step"`
	Fields map[string]string `json:"fields"`
}

func (e *DraftValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s at step %s: %s", ErrInvalidDraft, e.Step, strings.Join(parts, "; "))
}

func (e *DraftValidationError) Unwrap() error { return ErrInvalidDraft }

// ValidateDraftStep valida un paso concreto del asistente de publicación.
// Los propietarios premium pueden usar titulos más largos.
func ValidateDraftStep(draft domain.ListingDraft, step string, premium bool) error {
	fields := make(map[string]string)
	switch step {
	case StepLocationAndType:
		switch draft.PropertyType {
		case domain.PropertyTypeApartment, domain.PropertyTypeStudio, domain.PropertyTypeResidence:
		default:
			fields["property_type"] = "select a property type"
		}
		if utf8.RuneCountInString(strings.TrimSpace(draft.Address)) < minAddressLength {
			fields["address"] = fmt.Sprintf("must be at least %d characters", minAddressLength)
		}
		if strings.TrimSpace(draft.City) == "" {
			fields["city"] = "select a city"
		}
	case StepPhotos:
		if len(draft.Photos) < minDraftPhotos {
			fields["photos"] = fmt.Sprintf("upload at least %d photos", minDraftPhotos)
		}
		if len(draft.Photos) > maxDraftPhotos {
			fields["photos"] = fmt.Sprintf("at most %d photos", maxDraftPhotos)
		}
	case StepDetails:
		if draft.Bathrooms < 0 {
			fields["bathrooms"] = "cannot be negative"
		}
	case StepRoomsAndPricing:
		if len(draft.Rooms) == 0 {
			fields["rooms"] = "add at least one room"
		}
		for _, r := range draft.Rooms {
			if r.Price <= 0 || strings.TrimSpace(r.Type) == "" {
				fields["rooms"] = "every room needs a price and a type"
				break
			}
		}
		if draft.Deposit < 0 {
			fields["deposit"] = "cannot be negative"
		}
		if draft.AvailableAt == nil || draft.AvailableAt.IsZero() {
			fields["available_at"] = "select an availability date"
		}
		if strings.TrimSpace(draft.MinimumStay) == "" {
			fields["minimum_stay"] = "select a minimum stay"
		}
	case StepTitleDescription:
		validateTitle(strings.TrimSpace(draft.Title), premium, fields)
		descLen := utf8.RuneCountInString(strings.TrimSpace(draft.Description))
		if descLen < minDescriptionLength {
			fields["description"] = fmt.Sprintf("must be at least %d characters", minDescriptionLength)
		} else if descLen > maxDescriptionLength {
			fields["description"] = fmt.Sprintf("cannot exceed %d characters", maxDescriptionLength)
		}
	default:
		return fmt.Errorf("%w: unknown step %q", ErrInvalidDraft, step)
	}

	if len(fields) > 0 {
		return &DraftValidationError{Step: step, Fields: fields}
	}
	return nil
}

func validateTitle(title string, premium bool, fields map[string]string) {
	length := utf8.RuneCountInString(title)
	if length < minTitleLength {
		fields["title"] = fmt.Sprintf("must be at least %d characters", minTitleLength)
		return
	}
	if premium {
		if length > maxPremiumTitleLength {
			fields["title"] = fmt.Sprintf("cannot exceed %d characters", maxPremiumTitleLength)
		}
		return
	}
	if len(strings.Fields(title)) > maxFreeTitleWords {
		fields["title"] = fmt.Sprintf("free plan titles are limited to %d words", maxFreeTitleWords)
		return
	}
	if length > maxFreeTitleLength {
		fields["title"] = fmt.Sprintf("free plan titles are limited to %d characters", maxFreeTitleLength)
	}
}

// ValidateDraft recorre el asistente completo y devuelve el primer paso invalido.
func ValidateDraft(draft domain.ListingDraft, premium bool) error {
	flow := NewListingWizardFlow()
	for {
		if err := ValidateDraftStep(draft, flow.Current().Key, premium); err != nil {
			return err
		}
		if !flow.Next() {
			return nil
		}
	}
}
