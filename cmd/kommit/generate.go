package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/helixml/kommit/application/service"
	domaincommit "github.com/helixml/kommit/domain/commit"
	"github.com/helixml/kommit/infrastructure/git"
	"github.com/helixml/kommit/internal/log"
)

// Output formats for the generate command.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// errReported marks a failure that has already been written to stdout.
var errReported = errors.New("failure reported")

// errNoDiff is returned when no diff source is available.
var errNoDiff = errors.New("no diff: pass --file, --commit, or pipe a diff on stdin")

type generateFlags struct {
	envFile    string
	file       string
	commitRev  string
	repo       string
	format     string
	showChunks bool
}

// generateOutput is the structured form of a generation result.
type generateOutput struct {
	Message   string   `json:"message" yaml:"message"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	Chunks    int      `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Summaries []string `json:"summaries,omitempty" yaml:"summaries,omitempty"`
	Commit    string   `json:"commit,omitempty" yaml:"commit,omitempty"`
}

func generateCmd() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message for a diff",
		Long: `Generate a commit message for a diff.

The diff is read from --file, from a commit in a local repository
(--commit with --repo), or from stdin when it is piped:

  git diff --staged | kommit generate
  kommit generate --file change.diff --format json
  kommit generate --commit HEAD~1 --repo . --show-chunks`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), flags, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read the diff from a file (- for stdin)")
	cmd.Flags().StringVar(&flags.commitRev, "commit", "", "Describe this commit of --repo (e.g. HEAD, HEAD~1, a hash)")
	cmd.Flags().StringVar(&flags.repo, "repo", ".", "Repository path used with --commit")
	cmd.Flags().StringVar(&flags.format, "format", formatText, "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&flags.showChunks, "show-chunks", false, "Show the per-chunk summaries")

	return cmd
}

func runGenerate(ctx context.Context, flags generateFlags, stdin io.Reader, stdout io.Writer) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.envFile)
	if err != nil {
		return err
	}

	logger := log.Configure(cfg).Slog()

	diff, sha, err := readDiff(ctx, flags, stdin, logger)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close kommit client", slog.Any("error", err))
		}
	}()

	result, err := client.Generate(ctx, diff)
	if err != nil {
		return writeFailure(stdout, flags.format, err)
	}

	return writeResult(stdout, flags, result, sha)
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q: use text, json or yaml", format)
}

// readDiff resolves the diff source in order: --commit, --file, piped stdin.
// For --commit the resolved hash is returned as well.
func readDiff(ctx context.Context, flags generateFlags, stdin io.Reader, logger *slog.Logger) (string, string, error) {
	switch {
	case flags.commitRev != "":
		d, err := git.NewGoGitAdapter(logger).CommitDiff(ctx, flags.repo, flags.commitRev)
		if err != nil {
			return "", "", fmt.Errorf("read commit %s: %w", flags.commitRev, err)
		}
		return d.Patch(), d.SHA(), nil
	case flags.file == "-":
		return readAll(stdin)
	case flags.file != "":
		b, err := os.ReadFile(flags.file)
		if err != nil {
			return "", "", fmt.Errorf("read diff file: %w", err)
		}
		return string(b), "", nil
	case isPiped(stdin):
		return readAll(stdin)
	default:
		return "", "", errNoDiff
	}
}

func readAll(r io.Reader) (string, string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), "", nil
}

// isPiped reports whether r is stdin redirected from a pipe or file. Readers
// that are not files count as piped.
func isPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

func writeResult(w io.Writer, flags generateFlags, result service.Result, sha string) error {
	out := generateOutput{
		Message: result.Message(),
		Chunks:  result.Chunks(),
		Commit:  sha,
	}
	if flags.showChunks {
		out.Summaries = domaincommit.SummaryTexts(result.Summaries())
	}

	switch flags.format {
	case formatJSON, formatYAML:
		return encode(w, flags.format, out)
	}

	if flags.showChunks && len(result.Summaries()) > 0 {
		if _, err := fmt.Fprintln(w, summaryTable(result.Summaries())); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, result.Message())
	return err
}

// writeFailure reports a classified failure. Structured formats write the
// failure document to w; text returns the human-readable message as error.
func writeFailure(w io.Writer, format string, err error) error {
	genErr := service.Classify(err)
	if errors.Is(err, service.ErrClientClosed) || genErr == nil {
		return err
	}

	switch format {
	case formatJSON, formatYAML:
		if encErr := encode(w, format, generateOutput{Message: genErr.Message(), Error: string(genErr.Class())}); encErr != nil {
			return encErr
		}
		return errReported
	}
	return errors.New(genErr.Message())
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func summaryTable(summaries []domaincommit.Summary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{strconv.Itoa(s.ChunkIndex() + 1), s.Text()})
	}
	return renderTable([]string{"Chunk", "Summary"}, rows, []columnAlignment{alignRight, alignLeft})
}
