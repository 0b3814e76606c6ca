package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// debugEnv turns on debug logging without --verbose.
const debugEnv = "STRIDER_DEBUG"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "strider",
	Short:   "Strider is a validating HTTP client for the terminal",
	Version: "0.1.0",
	Long: `Strider sends GET, form POST, JSON POST and DELETE requests through one
pooled, IPv4-only client with a shared timeout and optional response checks.

Requests can be issued directly or run by name from a YAML or JSON
configuration file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(cmd.ErrOrStderr(), verbose || os.Getenv(debugEnv) != "")
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// reportedError marks a failure whose details were already written by the
// formatter, so Execute does not print it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return err
}

// setupLogging installs the default slog logger. Warnings always go to w;
// debug records only when debug is set.
func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func init() {
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output and debug logging")
	RootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	RootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, json, yaml)")
	RootCmd.PersistentFlags().IntP("timeout", "t", 0, "Request timeout in milliseconds (0 uses the client default)")
	RootCmd.PersistentFlags().Bool("timing", false, "Measure phase timing and print latency statistics")
	RootCmd.PersistentFlags().BoolP("insecure", "k", false, "Skip TLS certificate verification")
	RootCmd.PersistentFlags().Bool("no-dns-cache", false, "Resolve every connection with the system resolver")

	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(postCmd)
	RootCmd.AddCommand(deleteCmd)
	RootCmd.AddCommand(runCmd)
}
