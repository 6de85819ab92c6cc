package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/model"
)

// commandDescriptor ties a tool name to the constructor of its command.
type commandDescriptor struct {
	// New builds a fresh command. Commands hold flag state, so every entry
	// point gets its own instance.
	New func() *cobra.Command
}

// commands is the registry of raspy tools. The raspy binary mounts all of
// them as subcommands; the standalone binaries (proj4string,
// uncompressed-size) run a single one as their root.
var commands = map[string]commandDescriptor{
	"info":              {New: NewInfoCommand},
	"proj4string":       {New: NewProj4StringCommand},
	"uncompressed-size": {New: NewUncompressedSizeCommand},
	"stats":             {New: NewStatsCommand},
	"compare":           {New: NewCompareCommand},
	"translate":         {New: NewTranslateCommand},
	"plot":              {New: NewPlotCommand},
	"hist":              {New: NewHistCommand},
	"catalog":           {New: NewCatalogCommand},
}

// CommandNames returns the registered tool names in alphabetical order.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStandaloneCommand returns the named tool configured as a root command,
// with the global flags and error handling of the raspy binary.
func NewStandaloneCommand(name string) (*cobra.Command, error) {
	desc, ok := commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", model.ErrInvalidArgument, name)
	}
	cmd := desc.New()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	cmd.PersistentPreRunE = setup
	cmd.SetFlagErrorFunc(flagError)
	bindGlobalFlags(cmd)
	return cmd, nil
}

// flagError classifies flag parsing failures as argument errors (exit 2).
func flagError(_ *cobra.Command, err error) error {
	return fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
}
