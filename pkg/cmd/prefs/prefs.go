package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/cmd/util"
	"github.com/mpapenbr/trackroll/pkg/prefs"
)

func NewPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "commands to manage stored preferences",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return util.SetupLogger()
		},
	}
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newResetCmd())
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "prints the stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(s *prefs.Store) error {
				return show(cmd.Context(), cmd.OutOrStdout(), s)
			})
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "removes all stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(s *prefs.Store) error {
				if err := s.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "preferences removed")
				return nil
			})
		},
	}
}

func withStore(ctx context.Context, f func(s *prefs.Store) error) error {
	kv, err := util.OpenStore(ctx)
	if err != nil {
		log.Error("could not open store", log.ErrorField(err))
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Warn("could not close store", log.ErrorField(err))
		}
	}()
	return f(prefs.NewStore(kv))
}

func show(ctx context.Context, w io.Writer, s *prefs.Store) error {
	p, ok := s.Load(ctx)
	if !ok {
		fmt.Fprintln(w, "no preferences stored")
	} else {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	}
	fmt.Fprintf(w, "visited: %t\n", s.Visited(ctx))
	if muted, ok := s.Muted(ctx); ok {
		fmt.Fprintf(w, "muted:   %t\n", muted)
	}
	return nil
}
