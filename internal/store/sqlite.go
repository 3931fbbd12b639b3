// Package store keeps a SQLite history of validation runs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/ideavalidation/internal/idea"
	"github.com/joelkehle/ideavalidation/internal/validation"
)

var ErrNotFound = errors.New("validation run not found")

const DefaultListLimit = 20

const schema = `
CREATE TABLE IF NOT EXISTS validations (
	run_id         TEXT PRIMARY KEY,
	created_at     TEXT NOT NULL,
	idea_text      TEXT NOT NULL,
	status         TEXT NOT NULL,
	overall        INTEGER NOT NULL DEFAULT 0,
	business_model TEXT NOT NULL DEFAULT '',
	strategy       TEXT NOT NULL DEFAULT '',
	fallback_tier  TEXT NOT NULL DEFAULT '',
	edge_case      TEXT NOT NULL DEFAULT '',
	input_json     TEXT NOT NULL,
	result_json    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS validations_created_at ON validations (created_at);
`

// Record is one history row without the full result payload.
type Record struct {
	RunID         string `db:"run_id" json:"run_id"`
	CreatedAt     string `db:"created_at" json:"created_at"`
	IdeaText      string `db:"idea_text" json:"idea_text"`
	Status        string `db:"status" json:"status"`
	Overall       int    `db:"overall" json:"overall"`
	BusinessModel string `db:"business_model" json:"business_model"`
	Strategy      string `db:"strategy" json:"strategy"`
	FallbackTier  string `db:"fallback_tier" json:"fallback_tier,omitempty"`
	EdgeCase      string `db:"edge_case" json:"edge_case,omitempty"`
}

type row struct {
	Record
	InputJSON  string `db:"input_json"`
	ResultJSON string `db:"result_json"`
}

// SQLiteStore implements validation.Recorder.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ validation.Recorder = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Record(ctx context.Context, in idea.Input, res validation.Result) error {
	if res.Meta.RunID == "" {
		return fmt.Errorf("record: run id is required")
	}
	inJSON, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal input: %w", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	created := res.Meta.StartedAt
	if created.IsZero() {
		created = s.now()
	}
	r := row{
		Record: Record{
			RunID:         res.Meta.RunID,
			CreatedAt:     created.UTC().Format(time.RFC3339Nano),
			IdeaText:      in.IdeaText,
			Status:        string(res.Status),
			Overall:       res.Scores.Overall,
			BusinessModel: string(res.Meta.BusinessModel.PrimaryType),
			Strategy:      res.Meta.Strategy,
		},
		InputJSON:  string(inJSON),
		ResultJSON: string(resJSON),
	}
	if fb := res.Meta.Fallback; fb != nil {
		r.FallbackTier = string(fb.Tier)
	}
	if ec := res.Meta.EdgeCase; ec != nil {
		r.EdgeCase = string(ec.Kind)
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO validations (run_id, created_at, idea_text, status, overall, business_model, strategy, fallback_tier, edge_case, input_json, result_json)
		VALUES (:run_id, :created_at, :idea_text, :status, :overall, :business_model, :strategy, :fallback_tier, :edge_case, :input_json, :result_json)`, r)
	if err != nil {
		return fmt.Errorf("insert validation %s: %w", r.RunID, err)
	}
	return nil
}

// List returns the most recent runs first. Filters apply when non-empty.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Record, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	q := `SELECT run_id, created_at, idea_text, status, overall, business_model, strategy, fallback_tier, edge_case
		FROM validations WHERE 1=1`
	var args []any
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.BusinessModel != "" {
		q += ` AND business_model = ?`
		args = append(args, f.BusinessModel)
	}
	q += ` ORDER BY created_at DESC, run_id DESC LIMIT ?`
	args = append(args, limit)

	var out []Record
	if err := s.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list validations: %w", err)
	}
	return out, nil
}

type Filter struct {
	Status        string
	BusinessModel string
	Limit         int
}

// Get loads the stored input and full result of one run.
func (s *SQLiteStore) Get(ctx context.Context, runID string) (idea.Input, validation.Result, error) {
	var r row
	err := s.db.GetContext(ctx, &r, `SELECT * FROM validations WHERE run_id = ?`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return idea.Input{}, validation.Result{}, ErrNotFound
	}
	if err != nil {
		return idea.Input{}, validation.Result{}, fmt.Errorf("get validation %s: %w", runID, err)
	}
	var in idea.Input
	if err := json.Unmarshal([]byte(r.InputJSON), &in); err != nil {
		return idea.Input{}, validation.Result{}, fmt.Errorf("decode input %s: %w", runID, err)
	}
	var res validation.Result
	if err := json.Unmarshal([]byte(r.ResultJSON), &res); err != nil {
		return idea.Input{}, validation.Result{}, fmt.Errorf("decode result %s: %w", runID, err)
	}
	return in, res, nil
}

// Stats counts stored runs per verdict.
func (s *SQLiteStore) Stats(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS n FROM validations GROUP BY status`); err != nil {
		return nil, fmt.Errorf("validation stats: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
