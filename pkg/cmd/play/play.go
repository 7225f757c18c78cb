package play

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/cmd/util"
	"github.com/mpapenbr/trackroll/pkg/console"
)

var (
	watch   bool
	sounds  bool
	startup bool
)

func NewPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "starts an interactive session",
		Long: `Starts an interactive session reading commands from stdin.
Type "help" for the list of commands.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return util.SetupLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the dataset when it changes")
	cmd.Flags().BoolVar(&sounds, "sounds", true, "print markers for sound effects")
	cmd.Flags().BoolVar(&startup, "startup-event", true, "enable the startup event")
	return cmd
}

func runPlay(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(
		log.AddToContext(cmd.Context(), log.Default().Named("play")))
	defer cancel()
	out := cmd.OutOrStdout()
	s, err := util.NewSession(ctx, out, true, console.WithSounds(sounds))
	if err != nil {
		log.Error("could not start session", log.ErrorField(err))
		return err
	}
	defer s.Close()

	s.App.Restore(ctx)
	if startup {
		s.App.CheckStartup(ctx)
	}
	if watch {
		go func() {
			if err := util.WatchCatalog(ctx, s.App.SetCatalog); err != nil {
				log.Warn("dataset watch stopped", log.ErrorField(err))
			}
		}()
	}

	repl(ctx, s.App, cmd.InOrStdin(), out)

	// let a running roll finish before the session is closed
	select {
	case <-s.App.RollDone():
	case <-ctx.Done():
	}
	return nil
}

func repl(ctx context.Context, a App, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, `type "help" for commands`)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		if err := execute(ctx, a, out, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("could not read input", log.ErrorField(err))
	}
}
