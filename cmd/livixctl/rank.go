package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"livix-api/internal/service"
)

func newRankCmd() *cobra.Command {
	var (
		profilesPath string
		me           string
		search       string
		zones        []string
		verifiedOnly bool
		asJSON       bool
		limit        int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank roommate candidates against a lifestyle vector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reference, err := parseVector(me)
			if err != nil {
				return err
			}
			var file profilesFile
			if err := readYAML(profilesPath, &file); err != nil {
				return err
			}

			ranked := service.RankCandidates(reference, file.Profiles, service.CandidateFilter{
				Search:       search,
				Zones:        zones,
				VerifiedOnly: verifiedOnly,
			})
			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(ranked)
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SCORE\tUSER\tNAME\tLOCATION\tVERIFIED")
			for _, c := range ranked {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", c.CompatibilityScore, c.UserID, c.Name, c.Location, c.Verified)
			}
			return w.Flush()
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&profilesPath, "profiles", "p", "", "YAML file with a profiles list")
	flags.StringVar(&me, "me", "3,3,3,3,3", "reference lifestyle vector: cleanliness,noise,visitors,study,partying")
	flags.StringVarP(&search, "search", "s", "", "case-insensitive text filter")
	flags.StringSliceVarP(&zones, "zone", "z", nil, "zone filter, repeatable (any matches)")
	flags.BoolVar(&verifiedOnly, "verified", false, "only verified profiles")
	flags.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	flags.IntVarP(&limit, "limit", "n", 0, "maximum number of results (0 = all)")
	_ = cmd.MarkFlagRequired("profiles")

	cmd.Example = strings.TrimSpace(`
livixctl rank --profiles testdata/profiles.yaml --me 4,2,5,2,1
livixctl rank -p testdata/profiles.yaml --zone Delicias --zone Centro --verified`)
	return cmd
}
