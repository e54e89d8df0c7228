package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gbrlpzz/star-hash/pkg/catalog"
)

// newCatalogCmd creates the catalog command for inspecting the loaded
// star catalog.
func newCatalogCmd() *cobra.Command {
	var (
		path string
		top  int
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the star catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(path, top)
		},
	}

	cmd.Flags().StringVar(&path, "catalog", "", "star catalog CSV (default: embedded)")
	cmd.Flags().IntVar(&top, "top", 10, "number of brightest entries to list")
	return cmd
}

func runCatalog(path string, top int) error {
	stars, err := catalogSource(path).Load()
	if err != nil {
		return err
	}

	sorted := make([]catalog.Star, len(stars))
	copy(sorted, stars)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Mag != sorted[j].Mag {
			return sorted[i].Mag < sorted[j].Mag
		}
		return sorted[i].ID < sorted[j].ID
	})

	fmt.Println(StyleTitle.Render("Star catalog"))
	printKeyValue("entries", fmt.Sprintf("%d", len(stars)))
	fmt.Println()

	if top > len(sorted) {
		top = len(sorted)
	}
	for _, s := range sorted[:top] {
		printKeyValue(s.ID, fmt.Sprintf("mag %.2f  RA %.3f°  Dec %+.3f°", s.Mag, s.RADeg, s.DecDeg))
	}
	return nil
}
