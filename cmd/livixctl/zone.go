package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errOutsideZone = errors.New("point outside zone")

func newZoneCmd() *cobra.Command {
	var (
		polygonPath string
		point       string
	)
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Check whether a point lies inside a drawn zone",
		Long:  `Sale con error si el punto queda fuera de la zona o si la zona tiene menos de tres vertices.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := parsePoint(point)
			if err != nil {
				return err
			}
			var file zoneFile
			if err := readYAML(polygonPath, &file); err != nil {
				return err
			}
			if !file.Zone.Valid() {
				return fmt.Errorf("zone needs at least 3 vertices, got %d", len(file.Zone))
			}
			if !file.Zone.Contains(p) {
				fmt.Fprintln(cmd.OutOrStdout(), "outside")
				return errOutsideZone
			}
			fmt.Fprintln(cmd.OutOrStdout(), "inside")
			return nil
		},
	}
	cmd.Flags().StringVar(&polygonPath, "polygon", "", "YAML file with a zone vertex list")
	cmd.Flags().StringVar(&point, "point", "", "point as lng,lat")
	_ = cmd.MarkFlagRequired("polygon")
	_ = cmd.MarkFlagRequired("point")
	return cmd
}
