package roll

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/app"
	"github.com/mpapenbr/trackroll/pkg/cmd/util"
	"github.com/mpapenbr/trackroll/pkg/console"
)

var (
	terrain   []string
	category  []string
	direction []string
	capacity  []int
	save      bool
	sounds    bool
	quiet     bool
	export    bool
)

func NewRollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roll",
		Short: "rolls a random track",
		Long: `Rolls a random track out of the tracks matching the filters.
Axes not given on the command line use the stored filters, or all values of
the catalog if nothing was stored.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return util.SetupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoll(cmd)
		},
	}
	cmd.Flags().StringSliceVar(&terrain, "terrain", nil, "surfaces to roll from")
	cmd.Flags().StringSliceVar(&category, "category", nil, "categories to roll from")
	cmd.Flags().StringSliceVar(&direction, "direction", nil,
		"directions to roll from (Left, Right, Stretch)")
	cmd.Flags().IntSliceVar(&capacity, "capacity", nil, "max runner counts to roll from")
	cmd.Flags().BoolVar(&save, "save", false, "store the given filters as preferences")
	cmd.Flags().BoolVar(&sounds, "sounds", false, "print markers for sound effects")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print intermediate ticks")
	cmd.Flags().BoolVar(&export, "export", false, "print the export text of the outcome")
	return cmd
}

func runRoll(cmd *cobra.Command) error {
	ctx := cmd.Context()
	s, err := util.NewSession(ctx, cmd.OutOrStdout(), save,
		console.WithSounds(sounds),
		console.WithTicks(!quiet))
	if err != nil {
		log.Error("could not start session", log.ErrorField(err))
		return err
	}
	defer s.Close()

	s.App.Restore(ctx)
	if err := applyFlags(cmd, s.App); err != nil {
		return err
	}

	st, err := s.App.Roll(ctx)
	if err != nil {
		return err
	}
	if st != app.StatusRolling {
		return nil
	}
	select {
	case <-s.App.RollDone():
	case <-ctx.Done():
		return ctx.Err()
	}
	if text, ok := s.App.Export(); ok && export {
		fmt.Fprintln(cmd.OutOrStdout(), text)
	}
	return nil
}

func applyFlags(cmd *cobra.Command, a *app.App) error {
	ctx := cmd.Context()
	known := app.AllFilters(a.Catalog())
	var errs []error
	override := func(flag string, axis app.Axis, values []string) {
		if !cmd.Flags().Changed(flag) {
			return
		}
		util.WarnUnknown(axis, values, known[axis])
		errs = append(errs, a.SetFilter(ctx, axis, values))
	}
	override("terrain", app.AxisTerrain, terrain)
	override("category", app.AxisCategory, category)
	override("direction", app.AxisDirection, direction)
	override("capacity", app.AxisCapacity, lo.Map(capacity, func(c int, _ int) string {
		return strconv.Itoa(c)
	}))
	return errors.Join(errs...)
}
