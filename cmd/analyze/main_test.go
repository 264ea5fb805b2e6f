package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr string
	}{
		{
			name: "defaults",
			want: options{timeout: 2 * time.Minute},
		},
		{
			name: "file and pretty",
			args: []string{"--file", "entry.md", "--pretty", "--timeout", "10s"},
			want: options{file: "entry.md", pretty: true, timeout: 10 * time.Second},
		},
		{
			name: "short text flag",
			args: []string{"-t", "Dear diary"},
			want: options{text: "Dear diary", timeout: 2 * time.Minute},
		},
		{
			name:    "file and text",
			args:    []string{"--file", "a", "--text", "b"},
			wantErr: "either --file or --text",
		},
		{
			name:    "stray arguments",
			args:    []string{"entry.md"},
			wantErr: "unknown command",
		},
		{
			name:    "unknown flag",
			args:    []string{"--verbose"},
			wantErr: "unknown flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got options
			called := false
			cmd := newRootCmd(func(_ *cobra.Command, opts options) error {
				called = true
				got = opts
				return nil
			})
			cmd.SetArgs(tt.args)
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)

			err := cmd.Execute()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.False(t, called)
				return
			}
			require.NoError(t, err)
			assert.True(t, called)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entry.md")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

	got, err := readInput(options{text: "inline"}, strings.NewReader("stdin"))
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	got, err = readInput(options{file: path}, strings.NewReader("stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from file", got)

	got, err = readInput(options{}, strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	_, err = readInput(options{file: path + ".missing"}, nil)
	require.Error(t, err)
}
