package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(UnlockableResult{IDs: []string{"pottery"}})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("READ_FAILED", "tree file missing", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "READ_FAILED", resp.Error.Code)
	assert.Equal(t, "tree file missing", resp.Error.Message)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("UNLOCK_REFUSED", "cannot unlock writing", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [UNLOCK_REFUSED]")
	assert.Contains(t, buf.String(), "cannot unlock writing")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"file": "tree.txt"}
	err := formatter.Error("READ_FAILED", "tree file missing", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [READ_FAILED]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Loaded %s", "tree.txt")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Loaded tree.txt")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "json",
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   true,
	}

	formatter.VerboseLog("diagnostic")
	assert.Empty(t, out.String(), "diagnostics must not corrupt JSON output")
	assert.Contains(t, errOut.String(), "diagnostic")
}

func TestExitError(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := NewExitError(ExitFailure, "validation failed")
		assert.Equal(t, "validation failed", err.Error())
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("wrapped", func(t *testing.T) {
		cause := errors.New("no such file")
		err := WrapExitError(ExitCommandError, "failed to load tree file", cause)
		assert.Contains(t, err.Error(), "failed to load tree file")
		assert.Contains(t, err.Error(), "no such file")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("wrapped deeper", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "inner"))
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("plain error defaults to failure", func(t *testing.T) {
		assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	})
}
