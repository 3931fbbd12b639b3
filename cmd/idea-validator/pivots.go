package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelkehle/ideavalidation/internal/pivot"
	"github.com/joelkehle/ideavalidation/internal/report"
)

func newPivotsCmd(a *app) *cobra.Command {
	var (
		score     float64
		model     string
		skills    []string
		interests []string
		catalog   string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "pivots <idea text>",
		Short: "Suggest higher-scoring adjacent concepts for an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if score < 0 || score > 100 {
				return fmt.Errorf("--score must be between 0 and 100")
			}
			var opts []pivot.EngineOption
			if catalog != "" {
				c, err := pivot.LoadCatalogFile(catalog)
				if err != nil {
					return err
				}
				opts = append(opts, pivot.WithCatalog(c))
			}
			req := pivot.Request{
				IdeaText:              strings.TrimSpace(args[0]),
				CurrentScore:          score,
				BusinessModelOverride: model,
			}
			if len(skills) > 0 || len(interests) > 0 {
				req.UserProfile = &pivot.UserProfile{Skills: skills, Interests: interests}
			}
			resp := pivot.NewEngine(opts...).Suggest(req)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), report.PivotsMarkdown(resp))
			return err
		},
	}
	cmd.Flags().Float64Var(&score, "score", 0, "current overall score (0-100)")
	cmd.Flags().StringVar(&model, "model", "", "override the detected business model")
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "founder skills, comma separated")
	cmd.Flags().StringSliceVar(&interests, "interests", nil, "founder interests, comma separated")
	cmd.Flags().StringVar(&catalog, "catalog", "", "YAML pivot catalog replacing the built-in one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of markdown")
	_ = cmd.MarkFlagRequired("score")
	return cmd
}
