/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	catalogCmd "github.com/mpapenbr/trackroll/pkg/cmd/catalog"
	playCmd "github.com/mpapenbr/trackroll/pkg/cmd/play"
	prefsCmd "github.com/mpapenbr/trackroll/pkg/cmd/prefs"
	rollCmd "github.com/mpapenbr/trackroll/pkg/cmd/roll"
	"github.com/mpapenbr/trackroll/pkg/config"
	"github.com/mpapenbr/trackroll/version"
)

const envPrefix = "TRACKROLL"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "trackroll",
	Short:   "Rolls random race tracks",
	Long:    ``,
	Version: version.FullVersion,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.trackroll.yml)")

	rootCmd.PersistentFlags().StringVar(&config.DataFile, "data",
		"tracks.json",
		"Dataset file (.json, .js, .yaml)")
	rootCmd.PersistentFlags().StringVar(&config.RecordPath, "record-path",
		"",
		"JSONPath selecting the records of a json dataset (default $[*])")
	rootCmd.PersistentFlags().StringVar(&config.DataPath, "data-path",
		"",
		"Preference database file (default in the user config dir)")
	rootCmd.PersistentFlags().StringVar(&config.Store, "store",
		config.StoreSQLite,
		"Preference store (sqlite, memory)")
	rootCmd.PersistentFlags().Int64Var(&config.Seed, "seed",
		0,
		"Seed for the random generator, 0 seeds from time")
	rootCmd.PersistentFlags().Float64Var(&config.Speed, "speed",
		1,
		"Scales the reveal timing, 0 reveals immediately")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"warn",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules, e.g. \"debug:reveal info:*\"")
	rootCmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	rootCmd.PersistentFlags().StringVar(&config.TelemetryOutput,
		"telemetry-output",
		"",
		"File receiving telemetry data (default stderr)")

	// add commands here
	rootCmd.AddCommand(catalogCmd.NewCatalogCmd())
	rootCmd.AddCommand(rollCmd.NewRollCmd())
	rootCmd.AddCommand(playCmd.NewPlayCmd())
	rootCmd.AddCommand(prefsCmd.NewPrefsCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".trackroll" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".trackroll")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --log-level to TRACKROLL_LOG_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
