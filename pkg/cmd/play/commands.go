package play

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/mpapenbr/trackroll/pkg/app"
	"github.com/mpapenbr/trackroll/pkg/cmd/util"
	"github.com/mpapenbr/trackroll/pkg/model"
)

var errUnknownCommand = errors.New("unknown command")

// App is the part of *app.App the commands use.
type App interface {
	Roll(ctx context.Context) (app.Status, error)
	SetFilter(ctx context.Context, axis app.Axis, values []string) error
	SetTheme(ctx context.Context, id string) (bool, error)
	ToggleMute(ctx context.Context) (bool, error)
	HandleKeys(ctx context.Context, text string) error
	Export() (string, bool)
	Snapshot() app.State
	Catalog() []model.Track
}

type command struct {
	usage string
	run   func(ctx context.Context, a App, out io.Writer, args []string) error
}

var commands = map[string]command{
	"roll":   {usage: "roll", run: cmdRoll},
	"filter": {usage: "filter [<axis> <values..>]", run: cmdFilter},
	"theme":  {usage: "theme <id>", run: cmdTheme},
	"themes": {usage: "themes", run: cmdThemes},
	"mute":   {usage: "mute", run: cmdMute},
	"keys":   {usage: "keys <text>", run: cmdKeys},
	"copy":   {usage: "copy", run: cmdCopy},
	"status": {usage: "status", run: cmdStatus},
}

func execute(ctx context.Context, a App, out io.Writer, name string, args []string) error {
	name = strings.ToLower(name)
	if name == "help" {
		printHelp(out)
		return nil
	}
	c, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownCommand, name)
	}
	return c.run(ctx, a, out, args)
}

func cmdRoll(ctx context.Context, a App, out io.Writer, _ []string) error {
	st, err := a.Roll(ctx)
	if errors.Is(err, app.ErrRollInProgress) {
		fmt.Fprintln(out, "GATE IN... (roll in progress)")
		return nil
	}
	if err != nil {
		return err
	}
	if st == app.StatusRolling {
		fmt.Fprintln(out, "GATE IN...")
	}
	return nil
}

func cmdFilter(ctx context.Context, a App, out io.Writer, args []string) error {
	if len(args) == 0 {
		f := a.Snapshot().Filters
		for _, axis := range app.Axes {
			fmt.Fprintf(out, "%-8s %s\n", axis, strings.Join(f[axis], ", "))
		}
		return nil
	}
	axis, err := app.ParseAxis(args[0])
	if err != nil {
		return err
	}
	values := args[1:]
	util.WarnUnknown(axis, values, app.AllFilters(a.Catalog())[axis])
	return a.SetFilter(ctx, axis, values)
}

func cmdTheme(ctx context.Context, a App, out io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: theme <id>")
	}
	ok, err := a.SetTheme(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(out, "theme %q is not available\n", args[0])
	}
	return nil
}

func cmdThemes(_ context.Context, a App, out io.Writer, _ []string) error {
	snap := a.Snapshot()
	for _, t := range snap.Themes {
		marker := " "
		if t.ID == snap.Theme {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-8s %s\n", marker, t.ID, t.Name)
	}
	return nil
}

func cmdMute(ctx context.Context, a App, out io.Writer, _ []string) error {
	muted, err := a.ToggleMute(ctx)
	if muted {
		fmt.Fprintln(out, "sound off")
	} else {
		fmt.Fprintln(out, "sound on")
	}
	return err
}

func cmdKeys(ctx context.Context, a App, _ io.Writer, args []string) error {
	return a.HandleKeys(ctx, strings.Join(args, ""))
}

func cmdCopy(_ context.Context, a App, out io.Writer, _ []string) error {
	text, ok := a.Export()
	if !ok {
		fmt.Fprintln(out, "nothing rolled yet")
		return nil
	}
	fmt.Fprintln(out, text)
	return nil
}

func cmdStatus(_ context.Context, a App, out io.Writer, _ []string) error {
	snap := a.Snapshot()
	fmt.Fprintf(out, "status:  %s\n", snap.Status)
	fmt.Fprintf(out, "ready:   %t\n", snap.Ready)
	fmt.Fprintf(out, "catalog: %d tracks\n", snap.Catalog)
	fmt.Fprintf(out, "theme:   %s\n", snap.Theme)
	fmt.Fprintf(out, "muted:   %t\n", snap.Muted)
	if snap.Outcome != nil {
		fmt.Fprintf(out, "last:    %s\n", snap.Outcome.ExportText())
	}
	return nil
}

func printHelp(out io.Writer) {
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		fmt.Fprintf(out, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(out, "  help\n  quit")
}
