package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joelkehle/ideavalidation/internal/consensus"
	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/validation"
)

const maxLineBytes = 1 << 20

// batchLine is one JSON line of batch output, in input order.
type batchLine struct {
	Line   int                `json:"line"`
	Result *validation.Result `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func newBatchCmd(a *app) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "batch <ideas.jsonl>",
		Short: "Validate a JSON-lines file of ideas concurrently",
		Long: `Validate every idea in a JSON-lines file ("-" reads stdin). Each line is
an input document with idea_text and optional signals. Results are written
as JSON lines in input order; a summary goes to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open batch file: %w", err)
				}
				defer f.Close()
				r = f
			}
			inputs, err := readBatch(r)
			if err != nil {
				return err
			}
			if concurrency <= 0 {
				concurrency = a.cfg.Batch.Concurrency
			}
			o, err := a.orchestrator()
			if err != nil {
				return err
			}
			lines, err := runBatch(cmd.Context(), o, a, inputs, concurrency)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			counts := map[string]int{}
			for _, l := range lines {
				if err := enc.Encode(l); err != nil {
					return err
				}
				if l.Result != nil {
					counts[string(l.Result.Status)]++
				} else {
					counts["error"]++
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "validated %d ideas: GO=%d REVIEW=%d NO-GO=%d errors=%d\n",
				len(lines), counts["GO"], counts["REVIEW"], counts["NO-GO"], counts["error"])
			return nil
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "parallel validations (default from batch.concurrency)")
	return cmd
}

type batchInput struct {
	line int
	in   idea.Input
	err  error
}

func readBatch(r io.Reader) ([]batchInput, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	var out []batchInput
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		bi := batchInput{line: n}
		if err := json.Unmarshal([]byte(text), &bi.in); err != nil {
			bi.err = fmt.Errorf("decode line %d: %w", n, err)
		}
		out = append(out, bi)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	return out, nil
}

// runBatch validates inputs with at most limit in flight. Per-idea failures
// land in their line; only misconfiguration aborts the batch.
func runBatch(ctx context.Context, o *validation.Orchestrator, a *app, inputs []batchInput, limit int) ([]batchLine, error) {
	lines := make([]batchLine, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, bi := range inputs {
		lines[i].Line = bi.line
		if bi.err != nil {
			lines[i].Error = bi.err.Error()
			continue
		}
		g.Go(func() error {
			res, err := o.Validate(gctx, a.prepare(bi.in), validation.Options{})
			if err != nil {
				var cv *consensus.ConsistencyViolation
				if errors.As(err, &cv) {
					return err
				}
				a.log.Warn("batch item failed", zap.Int("line", bi.line), zap.Error(err))
				lines[i].Error = err.Error()
				return nil
			}
			lines[i].Result = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}
