package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	t.Run("Is an error", func(t *testing.T) {
		err := NewCommandError(ExitFailure)
		assert.Error(t, err)
		assert.Equal(t, "command failed", err.Error())
	})

	t.Run("Carries the exit code", func(t *testing.T) {
		assert.Equal(t, 1, NewCommandError(ExitFailure).ExitCode())
		assert.Equal(t, 2, NewCommandError(ExitUnmatched).ExitCode())
	})

	t.Run("Survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("gains: %w", NewCommandError(ExitUnmatched))

		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, ExitUnmatched, cmdErr.ExitCode())
	})
}
