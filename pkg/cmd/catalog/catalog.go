package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/trackroll/log"
	trackcatalog "github.com/mpapenbr/trackroll/pkg/catalog"
	"github.com/mpapenbr/trackroll/pkg/cmd/util"
	"github.com/mpapenbr/trackroll/pkg/model"
)

var (
	showFacets bool
	asJSON     bool
)

func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "lists the normalized tracks of the dataset",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return util.SetupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tracks, err := util.LoadCatalog()
			if err != nil {
				log.Error("could not load dataset", log.ErrorField(err))
				return err
			}
			return printCatalog(cmd.OutOrStdout(), tracks)
		},
	}
	cmd.Flags().BoolVar(&showFacets, "facets", false,
		"print the distinct values of each filter axis instead of the tracks")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printCatalog(w io.Writer, tracks []model.Track) error {
	if showFacets {
		facets := trackcatalog.CollectFacets(tracks)
		if asJSON {
			return writeJSON(w, facets)
		}
		return writeFacets(w, facets)
	}
	if asJSON {
		return writeJSON(w, tracks)
	}
	return writeTable(w, tracks)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, tracks []model.Track) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSURFACE\tDISTANCE\tCATEGORY\tDIRECTION\tMAX")
	for i := range tracks {
		t := &tracks[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			t.Name, t.Surface, t.Distance, t.Category, t.FullDirection, t.MaxRunners)
	}
	return tw.Flush()
}

func writeFacets(w io.Writer, f trackcatalog.Facets) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "terrain\t%s\n", strings.Join(f.Surfaces, ", "))
	fmt.Fprintf(tw, "category\t%s\n", strings.Join(f.Categories, ", "))
	fmt.Fprintf(tw, "direction\t%s\n", strings.Join(f.Directions, ", "))
	fmt.Fprintf(tw, "capacity\t%s\n", strings.Join(
		lo.Map(f.Capacities, func(c int, _ int) string { return fmt.Sprint(c) }), ", "))
	return tw.Flush()
}
