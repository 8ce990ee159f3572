package service

import (
	"sort"
	"strings"

	"livix-api/internal/domain"
)

// CandidateFilter agrupa los filtros del listado de compañeros. Los filtros vacios no se aplican.
type CandidateFilter struct {
	Search       string   `json:"search"`
	Zones        []string `json:"zones"`
	VerifiedOnly bool     `json:"verified_only"`
}

// Active indica si hay al menos un filtro activo.
func (f CandidateFilter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || len(f.normalizedZones()) > 0 || f.VerifiedOnly
}

func (f CandidateFilter) normalizedZones() []string {
	zones := make([]string, 0, len(f.Zones))
	for _, z := range f.Zones {
		z = strings.ToLower(strings.TrimSpace(z))
		if z != "" {
			zones = append(zones, z)
		}
	}
	return zones
}

// RankCandidates puntua cada candidato contra el vector de referencia, aplica los filtros (AND)
// y ordena por compatibilidad descendente. El orden es estable: a igual puntuación se respeta
// el orden de entrada.
func RankCandidates(reference domain.AttributeVector, candidates []domain.RoommateProfile, filter CandidateFilter) []domain.ScoredCandidate {
	// Una busqueda solo con espacios equivale a no filtrar por texto.
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	zones := filter.normalizedZones()

	out := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored := domain.ScoredCandidate{
			RoommateProfile:    c,
			CompatibilityScore: domain.Compatibility(reference, c.Lifestyle),
		}
		if search != "" && !matchesSearch(c, search) {
			continue
		}
		if len(zones) > 0 && !matchesZone(c.Location, zones) {
			continue
		}
		if filter.VerifiedOnly && !c.Verified {
			continue
		}
		out = append(out, scored)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompatibilityScore > out[j].CompatibilityScore
	})
	return out
}

func matchesSearch(c domain.RoommateProfile, term string) bool {
	fields := []string{c.Name, c.Bio, c.Studies, c.University, c.Location}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func matchesZone(location string, zones []string) bool {
	loc := strings.ToLower(location)
	for _, z := range zones {
		if strings.Contains(loc, z) {
			return true
		}
	}
	return false
}

const (
	MatchTagSameStudies     = "same_studies"
	MatchTagSameUniversity  = "same_university"
	MatchTagSameZone        = "same_zone"
	MatchTagBudgetOverlap   = "budget_overlap"
	MatchTagCommonInterests = "common_interests"
)

// MatchTags describe lo que el candidato tiene en comun con quien busca.
func MatchTags(viewer, candidate domain.RoommateProfile) []string {
	var tags []string
	if sameText(viewer.Studies, candidate.Studies) {
		tags = append(tags, MatchTagSameStudies)
	}
	if sameText(viewer.University, candidate.University) {
		tags = append(tags, MatchTagSameUniversity)
	}
	if sameText(viewer.Location, candidate.Location) {
		tags = append(tags, MatchTagSameZone)
	}
	if budgetsOverlap(viewer, candidate) {
		tags = append(tags, MatchTagBudgetOverlap)
	}
	if hasCommon(viewer.Interests, candidate.Interests) {
		tags = append(tags, MatchTagCommonInterests)
	}
	return tags
}

func sameText(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

func budgetsOverlap(a, b domain.RoommateProfile) bool {
	if a.BudgetMin == nil || a.BudgetMax == nil || b.BudgetMin == nil || b.BudgetMax == nil {
		return false
	}
	return *a.BudgetMin <= *b.BudgetMax && *b.BudgetMin <= *a.BudgetMax
}

func hasCommon(a, b []string) bool {
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		seen[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	for _, v := range b {
		key := strings.ToLower(strings.TrimSpace(v))
		if _, ok := seen[key]; ok && key != "" {
			return true
		}
	}
	return false
}
