package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raspy-go/raspy/internal/model"
)

// exactArgs is cobra.ExactArgs with the error classified as an argument
// error, so a wrong argument count exits with code 2.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
		}
		return nil
	}
}

// checkInputs verifies that every input path exists and is a regular file.
// Tools call it before doing anything else so that a missing input never
// leaves a partial output behind.
func checkInputs(paths ...string) error {
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return model.WrapCLIError(model.ExitIOError, fmt.Sprintf("%s does not exist", p), nil)
		}
		if fi.IsDir() {
			return model.WrapCLIError(model.ExitInvalidArgument, fmt.Sprintf("%s is a directory", p), nil)
		}
	}
	return nil
}

// checkBand rejects band indices below 1 before any file is opened.
func checkBand(band int) error {
	if band < 1 {
		return model.NewCLIError(model.ExitInvalidArgument,
			fmt.Sprintf("band must be >= 1, got %d (there is no band 0)", band))
	}
	return nil
}
