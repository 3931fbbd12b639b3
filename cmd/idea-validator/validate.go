package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/report"
	"github.com/joelkehle/ideavalidation/internal/validation"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatHTML     = "html"
)

type validateFlags struct {
	input     string
	customer  string
	valueProp string
	price     float64
	format    string
	out       string
	noCaps    bool
	noClamp   bool
}

func newValidateCmd(a *app) *cobra.Command {
	var f validateFlags
	cmd := &cobra.Command{
		Use:   "validate [idea text]",
		Short: "Validate one business idea",
		Long: `Validate one business idea and print a report.

The idea comes from the positional argument, or from --input pointing at a
JSON document with idea_text and optional signals ("-" reads stdin).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd.InOrStdin(), f.input, args)
			if err != nil {
				return err
			}
			if f.customer != "" {
				in.TargetCustomer = f.customer
			}
			if f.valueProp != "" {
				in.ValueProposition = f.valueProp
			}
			if cmd.Flags().Changed("price") {
				in.PriceUSD = idea.Float(f.price)
			}

			o, err := a.orchestrator()
			if err != nil {
				return err
			}
			res, err := o.Validate(cmd.Context(), a.prepare(in), validation.Options{DisableCaps: f.noCaps, DisableClamp: f.noClamp})
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), f.out, f.format, res)
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "JSON input file, - for stdin")
	cmd.Flags().StringVar(&f.customer, "customer", "", "target customer")
	cmd.Flags().StringVar(&f.valueProp, "value-prop", "", "value proposition")
	cmd.Flags().Float64Var(&f.price, "price", 0, "price point in USD")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatMarkdown, "markdown, json or html")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&f.noCaps, "no-caps", false, "skip dimension caps")
	cmd.Flags().BoolVar(&f.noClamp, "no-clamp", false, "skip output clamping")
	return cmd
}

func readInput(stdin io.Reader, path string, args []string) (idea.Input, error) {
	var in idea.Input
	switch {
	case path != "":
		var data []byte
		var err error
		if path == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return in, fmt.Errorf("read input: %w", err)
		}
		if err := json.Unmarshal(data, &in); err != nil {
			return in, fmt.Errorf("decode input: %w", err)
		}
		if len(args) == 1 {
			in.IdeaText = args[0]
		}
	case len(args) == 1:
		in.IdeaText = args[0]
	default:
		return in, fmt.Errorf("idea text or --input is required")
	}
	if strings.TrimSpace(in.IdeaText) == "" {
		return in, fmt.Errorf("idea text is empty")
	}
	return in, nil
}

func writeResult(stdout io.Writer, out, format string, res validation.Result) error {
	var body string
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		body = string(data) + "\n"
	case formatHTML:
		html, err := report.RenderHTML("Idea Validation Report", report.Markdown(res))
		if err != nil {
			return err
		}
		body = html
	case formatMarkdown, "":
		body = report.Markdown(res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if out == "" {
		_, err := io.WriteString(stdout, body)
		return err
	}
	if err := os.WriteFile(out, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(stdout, "%s: %s (%d/100) -> %s\n", res.Meta.RunID, res.Status, res.Scores.Overall, out)
	return nil
}
