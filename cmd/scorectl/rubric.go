package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mind-engage/commscore/internal/grading"
	"github.com/mind-engage/commscore/internal/rubric"
)

func newRubricCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rubric",
		Short: "Print the normalized rubric",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := root.loadRules(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			t := createStandardTable([]string{"Category", "Metric", "Mode", "Description", "Condition", "Points", "Max"}, out)
			for _, r := range rules {
				_ = t.Append([]string{
					r.Category, r.Metric, grading.ClassifyMetric(r.Metric).String(),
					r.Description, condition(r), num(r.Points), num(r.MaxScore),
				})
			}
			if err := t.Render(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d rules\n", len(rules))
			return nil
		},
	}
}

func condition(r rubric.Rule) string {
	switch r.Kind() {
	case rubric.KindRange:
		switch {
		case math.IsInf(r.MinVal, -1):
			return "<= " + num(r.MaxVal)
		case math.IsInf(r.MaxVal, 1):
			return ">= " + num(r.MinVal)
		default:
			return num(r.MinVal) + " to " + num(r.MaxVal)
		}
	case rubric.KindKeyword:
		return strings.Join(r.Keywords, ", ")
	default:
		return "-"
	}
}
