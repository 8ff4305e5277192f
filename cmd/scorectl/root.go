package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mind-engage/commscore/internal/rubric"
	"github.com/mind-engage/commscore/internal/storage"
)

type rootFlags struct {
	configFile string
	rubricPath string
	headerRow  int
	sheet      string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "scorectl",
		Short: "Score self-introduction transcripts against a rubric",
		Long: `scorectl loads a rubric spreadsheet (XLSX or CSV) and scores transcripts
against it locally, using the same engine as the scoring service.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&f.configFile, "config", "", "YAML config file (grammar checker, default duration)")
	cmd.PersistentFlags().StringVar(&f.rubricPath, "rubric", "rubric.xlsx", "rubric file (.xlsx or .csv)")
	cmd.PersistentFlags().IntVar(&f.headerRow, "header-row", 0, "1-based header row; 0 detects it")
	cmd.PersistentFlags().StringVar(&f.sheet, "sheet", "", "worksheet name (first sheet if empty)")

	cmd.AddCommand(newScoreCmd(f), newRubricCmd(f))
	return cmd
}

func (f *rootFlags) loadRules(ctx context.Context) ([]rubric.Rule, error) {
	abs, err := filepath.Abs(f.rubricPath)
	if err != nil {
		return nil, err
	}
	fs, err := storage.NewFSStore(filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	l := rubric.NewLoader(fs, rubric.Options{HeaderRow: f.headerRow - 1, Sheet: f.sheet})
	return l.Load(ctx, filepath.Base(abs))
}
