package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"livix-api/internal/domain"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "livixctl",
		Short:         "Livix offline tools",
		Long:          `livixctl ejecuta el ranking de compañeros y la comprobación de zonas sobre ficheros YAML, sin base de datos.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRankCmd(), newZoneCmd())
	return root
}

// profilesFile es el formato de --profiles.
type profilesFile struct {
	Profiles []domain.RoommateProfile `yaml:"profiles"`
}

// zoneFile es el formato de --polygon.
type zoneFile struct {
	Zone domain.Polygon `yaml:"zone"`
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// parseVector lee "limpieza,ruido,visitas,estudio,fiesta".
func parseVector(raw string) (domain.AttributeVector, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 5 {
		return domain.AttributeVector{}, fmt.Errorf("lifestyle vector needs 5 comma separated values, got %d", len(parts))
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return domain.AttributeVector{}, fmt.Errorf("lifestyle value %q: %w", p, err)
		}
		vals[i] = v
	}
	v := domain.AttributeVector{
		Cleanliness:    vals[0],
		Noise:          vals[1],
		Visitors:       vals[2],
		StudyIntensity: vals[3],
		Partying:       vals[4],
	}
	if err := v.Validate(); err != nil {
		return domain.AttributeVector{}, err
	}
	return v, nil
}

// parsePoint lee "lng,lat", el mismo orden que usa el test del poligono.
func parsePoint(raw string) (domain.LatLng, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return domain.LatLng{}, fmt.Errorf("point must be lng,lat")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("longitude: %w", err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("latitude: %w", err)
	}
	return domain.LatLng{Lat: lat, Lng: lng}, nil
}
