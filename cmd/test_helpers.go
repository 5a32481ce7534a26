package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

// ExecuteCommandWithCapture runs a cobra command and returns everything it
// printed. The formats and version commands write through fmt and a table
// writer rather than the command's output stream, so the process stdout and
// stderr are captured alongside cobra's own writers.
func ExecuteCommandWithCapture(t *testing.T, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	origOut, origErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = w, w
	// table.DefaultWriter binds the os.Stdout value at package init, so
	// swapping the os.Stdout variable alone never reaches it.
	origTableWriter := table.DefaultWriter
	table.DefaultWriter = w

	var cobraOut bytes.Buffer
	cmd.SetOut(&cobraOut)
	cmd.SetErr(&cobraOut)
	cmd.SetArgs(args)

	done := make(chan string, 1)
	go func() {
		var piped bytes.Buffer
		_, _ = io.Copy(&piped, r)
		done <- piped.String()
	}()

	runErr := cmd.Execute()

	_ = w.Close()
	os.Stdout, os.Stderr = origOut, origErr
	table.DefaultWriter = origTableWriter

	piped := <-done
	return piped + cobraOut.String(), runErr
}

// SetupCommandContext injects an App the way the root command's
// PersistentPreRun does, so subcommands can run in isolation.
func SetupCommandContext(cmd *cobra.Command, app *App) {
	cmd.SetContext(context.WithValue(context.Background(), appContextKey, app))
}
