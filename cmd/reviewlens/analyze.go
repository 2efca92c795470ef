package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cognicore/reviewlens/pkg/reviewlens"
	"github.com/cognicore/reviewlens/pkg/reviewlens/aggregate"
	"github.com/cognicore/reviewlens/pkg/reviewlens/crossref"
	"github.com/cognicore/reviewlens/pkg/reviewlens/extract"
	"github.com/cognicore/reviewlens/pkg/reviewlens/insight"
)

type datasetFlags struct {
	input      string
	dimensions []string
	all        bool
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.input, "input", "", "JSONL file with one review per line (required)")
	cmd.Flags().StringSliceVar(&f.dimensions, "dimension", nil, "dimension to analyze, repeatable (default: all)")
	cmd.Flags().BoolVar(&f.all, "all", false, "analyze every dimension, overriding --dimension")
	_ = cmd.MarkFlagRequired("input")
}

func (f *datasetFlags) selected() []string {
	if f.all {
		return nil
	}
	return f.dimensions
}

// analyzeAll runs every requested dimension in order.
func analyzeAll(ctx context.Context, s *session, dims []string) ([]insight.Input, error) {
	out := make([]insight.Input, 0, len(dims))
	for _, dim := range dims {
		e, err := s.engine(dim)
		if err != nil {
			return nil, err
		}
		res, err := e.Analyze(ctx, s.records)
		if err != nil {
			return nil, err
		}
		out = append(out, insight.Input{Dimension: dim, Taxonomy: e.Taxonomy(), Result: res})
	}
	return out, nil
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var f datasetFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize review mentions per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx, f.input)
			if err != nil {
				return err
			}
			defer s.Close()

			dims, err := s.dimensions(f.selected())
			if err != nil {
				return err
			}
			results, err := analyzeAll(ctx, s, dims)
			if err != nil {
				return err
			}
			out := make(map[string]aggregate.AnalysisResult, len(results))
			for _, r := range results {
				out[r.Dimension] = r.Result
			}
			return a.printJSON(out)
		},
	}
	f.register(cmd)
	return cmd
}

func newInsightsCmd(a *app) *cobra.Command {
	var f datasetFlags
	var minTier string
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Rank findings across dimensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := insight.ParseTier(minTier)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := a.open(ctx, f.input)
			if err != nil {
				return err
			}
			defer s.Close()

			dims, err := s.dimensions(f.selected())
			if err != nil {
				return err
			}
			results, err := analyzeAll(ctx, s, dims)
			if err != nil {
				return err
			}
			ranked := reviewlens.NewRanker(s.cfg).RankAll(results)
			return a.printJSON(insight.Filter(ranked, tier))
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&minTier, "min-tier", string(insight.Low), "lowest tier to print: high, medium, low or minimal")
	return cmd
}

func newCorrelateCmd(a *app) *cobra.Command {
	var input, dimA, dimB string
	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Relate the categories of two dimensions by shared reviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx, input)
			if err != nil {
				return err
			}
			defer s.Close()

			dims, err := s.dimensions([]string{dimA, dimB})
			if err != nil {
				return err
			}
			mentions := make([][]extract.Mention, len(dims))
			for i, dim := range dims {
				e, err := s.engine(dim)
				if err != nil {
					return err
				}
				if mentions[i], err = e.Mentions(ctx, s.records); err != nil {
					return err
				}
			}
			corr := crossref.Correlate(dims[0], mentions[0], dims[1], mentions[1])
			if corr == nil {
				corr = []crossref.Correlation{}
			}
			return a.printJSON(corr)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "JSONL file with one review per line (required)")
	cmd.Flags().StringVar(&dimA, "a", "", "first dimension (required)")
	cmd.Flags().StringVar(&dimB, "b", "", "second dimension (required)")
	for _, name := range []string{"input", "a", "b"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
