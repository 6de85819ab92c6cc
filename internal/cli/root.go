// Package cli implements the cobra-based CLI commands of the raspy tools.
//
// Each subcommand (info, proj4string, stats, ...) is defined in its own file
// within this package. This file defines the root command that serves as the
// parent for all subcommands, the global flags, and the error/exit-code
// handling shared by the raspy binary and the standalone tools.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/config"
	"github.com/raspy-go/raspy/internal/logging"
	"github.com/raspy-go/raspy/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine consumption.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbose enables debug logging on stderr.
	verbose bool

	// configPath is an explicit config file (--config).
	configPath string
)

// Runtime state prepared by setup before any subcommand runs.
var (
	logger   = logging.NewNop()
	settings = config.Default()
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the raspy binary.
//
// The root command itself does not perform any action; it only provides
// help text and global flags. Every tool in the registry is attached as a
// subcommand.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "raspy",
		Short: "Raster helpers built on GDAL",
		Long: `raspy inspects, reads, writes and renders raster datasets through GDAL.

Metadata getters (info, proj4string, uncompressed-size) never read pixel
data. Pixel tools (stats, compare, translate, plot, hist) read bands into
memory. The catalog commands index raster metadata into SQLite.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: setup,
	}

	bindGlobalFlags(rootCmd)
	rootCmd.SetFlagErrorFunc(flagError)

	for _, name := range CommandNames() {
		rootCmd.AddCommand(commands[name].New())
	}

	return rootCmd
}

// bindGlobalFlags registers the flags every raspy entry point carries.
func bindGlobalFlags(cmd *cobra.Command) {
	// PersistentFlags are inherited by all subcommands.
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		fmt.Sprintf("Config file (default: $%s or .raspy.yaml/.raspy.jsonc in the working directory)", config.EnvVar))
}

// setup builds the logger and loads the config file before the selected
// command runs.
func setup(cmd *cobra.Command, _ []string) error {
	logger = logging.NewWithWriter(cmd.ErrOrStderr(), logging.LevelFor(verbose))

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	path, err := config.Locate(configPath, wd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	settings = cfg
	if cfg.Source != "" {
		VerboseLog("Loaded config from %s", cfg.Source)
	}
	return nil
}

// Execute runs the root command and exits with the resulting code.
// This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	if code := Run(rootCmd); code != model.ExitSuccess {
		os.Exit(int(code))
	}
}

// Run executes rootCmd, prints any error to its stderr and returns the exit
// code.
//
// Errors are classified with model.ExitCodeFor: CLIError values carry their
// own exit code, wrapped sentinel errors map to their documented code, and
// anything else exits with code 1.
func Run(rootCmd *cobra.Command) model.ExitCode {
	err := rootCmd.Execute()
	if err == nil {
		return model.ExitSuccess
	}
	code := model.ExitCodeFor(err)
	if cliErr, ok := err.(*model.CLIError); ok {
		printError(rootCmd.ErrOrStderr(), cliErr.Message, cliErr.Err, code)
	} else {
		printError(rootCmd.ErrOrStderr(), err.Error(), nil, code)
	}
	return code
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error, code model.ExitCode) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
				"code":    int(code),
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// VerboseLog logs a debug message; it is shown only when verbose mode is
// enabled.
func VerboseLog(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

// Logger returns the logger configured for the running command.
func Logger() *slog.Logger {
	return logger
}

// Warn prints a warning to w, coloured when w is a terminal that supports
// it. Warnings are not suppressed by --json.
func Warn(w io.Writer, format string, args ...interface{}) {
	out := termenv.NewOutput(w)
	msg := out.String("Warning: " + fmt.Sprintf(format, args...)).Foreground(out.Color("#fbbf24"))
	fmt.Fprintln(w, msg)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
