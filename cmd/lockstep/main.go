// Command lockstep checks Go types against the D-Bus interfaces they are sent over.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tender-barbarian/go-lockstep/internal/config"
)

const version = "0.1.0"

// errFailed signals a completed run whose outcome was negative. The command
// has already reported the details, so main only sets the exit code.
var errFailed = errors.New("check failed")

func main() {
	if err := newRootCmd(config.NewViper()).Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries the configuration loaded before any subcommand runs.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{v: v}

	rootCmd := &cobra.Command{
		Use:           "lockstep",
		Short:         "Keep Go types in lockstep with D-Bus introspection XML",
		Long:          "lockstep compares the wire signatures of Go types with the method, signal and property signatures declared in D-Bus introspection documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = config.NewLogger(cfg.LogLevel, cmd.ErrOrStderr(), false)
			return nil
		},
	}

	// Global flags.
	rootCmd.PersistentFlags().String("xml", "", "Directory, file or URL holding introspection XML (default: XML/ or xml/)")
	rootCmd.PersistentFlags().String("root", ".", "Root directory of the Go module to scan")
	rootCmd.PersistentFlags().String("format", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	// Bind flags to viper; env vars are LOCKSTEP_XML_PATH, LOCKSTEP_ROOT, etc.
	_ = v.BindPFlag(config.KeyXMLPath, rootCmd.PersistentFlags().Lookup("xml"))
	_ = v.BindPFlag(config.KeyRoot, rootCmd.PersistentFlags().Lookup("root"))
	_ = v.BindPFlag(config.KeyFormat, rootCmd.PersistentFlags().Lookup("format"))
	_ = v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newLocateCmd(a))
	rootCmd.AddCommand(newEquivCmd())
	rootCmd.AddCommand(newInterfacesCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print lockstep version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lockstep %s\n", version)
		},
	}
}
