package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	api "github.com/mind-engage/commscore/internal/api/http"
	"github.com/mind-engage/commscore/internal/config"
	"github.com/mind-engage/commscore/internal/grading"
	"github.com/mind-engage/commscore/internal/stats"
)

type scoreFlags struct {
	transcript string
	duration   float64
	asJSON     bool
	noGrammar  bool
}

func newScoreCmd(root *rootFlags) *cobra.Command {
	f := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a transcript file",
		Long: `Scores a transcript and prints the per-metric breakdown.

Examples:
  scorectl score --rubric rubric.xlsx --transcript intro.txt --duration 52
  cat intro.txt | scorectl score --rubric rubric.csv --transcript - --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, root, f)
		},
	}
	cmd.Flags().StringVar(&f.transcript, "transcript", "-", "transcript file, - for stdin")
	cmd.Flags().Float64Var(&f.duration, "duration", 0, "speaking duration in seconds (config default if 0)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the JSON report")
	cmd.Flags().BoolVar(&f.noGrammar, "no-grammar", false, "skip the remote grammar check")
	return cmd
}

func runScore(cmd *cobra.Command, root *rootFlags, f *scoreFlags) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx, root.configFile)
	if err != nil {
		return err
	}
	text, err := readTranscript(cmd.InOrStdin(), f.transcript)
	if err != nil {
		return err
	}
	rules, err := root.loadRules(ctx)
	if err != nil {
		return err
	}

	var opts []stats.Option
	if cfg.Grammar.Enabled && !f.noGrammar {
		opts = append(opts, stats.WithGrammar(stats.NewLanguageTool(stats.LanguageToolConfig{
			Endpoint:     cfg.Grammar.URL,
			Language:     cfg.Grammar.Language,
			Timeout:      cfg.Grammar.Timeout,
			TokenURL:     cfg.Grammar.TokenURL,
			ClientID:     cfg.Grammar.ClientID,
			ClientSecret: cfg.Grammar.ClientSecret,
		})))
	}
	engine := grading.NewEngine(stats.NewCalculator(opts...), grading.WithDefaultDuration(cfg.DefaultDurationSec))
	res, err := engine.Score(ctx, rules, text, f.duration)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.Present(res))
	}

	t := createStandardTable([]string{"Metric", "Score", "Max", "Feedback"}, out)
	for _, it := range res.Breakdown {
		_ = t.Append([]string{it.Metric, num(it.Score), num(it.Max), it.Feedback})
	}
	if err := t.Render(); err != nil {
		return err
	}
	s := res.Stats
	fmt.Fprintf(out, "\nOverall: %.1f/100 (%s of %s points)\n", res.OverallScore, num(res.TotalPoints()), num(res.MaxPoints()))
	fmt.Fprintf(out, "Words: %d  WPM: %.1f  TTR: %.3f  Grammar: %.2f  Sentiment: %.2f  Fillers: %.1f%%\n",
		s.WordCount, s.WPM, s.TTR, s.Grammar, s.Sentiment, s.FillerRate)
	return nil
}

func readTranscript(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(err, "read transcript")
	}
	return string(b), nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
