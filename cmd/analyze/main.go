// Command analyze runs the journal analysis pipeline once over a file, an
// inline text or stdin and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/mindmirror/config"
	"github.com/spacesedan/mindmirror/internal/app"
	"github.com/spacesedan/mindmirror/internal/logging"
	"github.com/spf13/cobra"
)

type options struct {
	file    string
	text    string
	pretty  bool
	timeout time.Duration
}

type runFunc func(cmd *cobra.Command, opts options) error

func newRootCmd(run runFunc) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "analyze",
		Short:         "Analyze a journal entry and print its emotional profile",
		Long:          `Reads a journal entry from --file, --text or stdin, runs it through the same pipeline as the HTTP service and prints the result as JSON.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.file != "" && opts.text != "" {
				return errors.New("use either --file or --text, not both")
			}
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "journal file to analyze (default: stdin)")
	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "journal text to analyze")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	return cmd
}

func readInput(opts options, stdin io.Reader) (string, error) {
	switch {
	case opts.text != "":
		return opts.text, nil
	case opts.file != "":
		b, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("failed to read journal file: %w", err)
		}
		return string(b), nil
	default:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
}

func main() {
	if err := newRootCmd(runAnalyze).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, opts options) error {
	config.LoadEnv(config.AppEnv())
	logging.InitLogger()

	text, err := readInput(opts, cmd.InOrStdin())
	if err != nil {
		return err
	}

	settings, err := config.FromEnv()
	if err != nil {
		return err
	}
	a, err := app.New(settings)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	result, err := a.Pipeline.AnalyzeJournal(ctx, text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
