package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cgdin/painel/internal/report"
)

// ErrNoData is matched by errors.Is when no candidate produced a table.
var ErrNoData = errors.New("no data source available")

// Parser turns one candidate into a raw, unnormalized table.
type Parser interface {
	Parse(ctx context.Context, c Candidate) (*report.Table, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, c Candidate) (*report.Table, error)

// Parse implements Parser.
func (f ParserFunc) Parse(ctx context.Context, c Candidate) (*report.Table, error) {
	return f(ctx, c)
}

// Attempt is the outcome of trying one existing candidate.
type Attempt struct {
	Candidate Candidate
	Err       error
}

// NoDataError lists why every existing candidate failed. Attempts is empty
// when no candidate existed at all.
type NoDataError struct {
	Candidates []Candidate
	Attempts   []Attempt
}

func (e *NoDataError) Error() string {
	if len(e.Attempts) == 0 {
		names := make([]string, len(e.Candidates))
		for i, c := range e.Candidates {
			names[i] = c.Name
		}
		return fmt.Sprintf("%s: none of [%s] found", ErrNoData, strings.Join(names, ", "))
	}

	reasons := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		reasons[i] = fmt.Sprintf("%s: %v", a.Candidate.Name, a.Err)
	}
	return fmt.Sprintf("%s: %s", ErrNoData, strings.Join(reasons, "; "))
}

// Is lets errors.Is(err, ErrNoData) match.
func (e *NoDataError) Is(target error) bool {
	return target == ErrNoData
}

// Result is a successful load.
type Result struct {
	Snapshot *report.Snapshot
	// Attempts holds the candidates that failed before the one that loaded.
	Attempts []Attempt
}

// Loader searches candidates in priority order.
type Loader struct {
	candidates []Candidate
	parsers    map[Format]Parser
	now        func() time.Time
	logger     *slog.Logger

	mu sync.Mutex
	// warned is the duplicate set last reported, so each set is logged once.
	warned string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithParser registers or replaces the parser for a format.
func WithParser(f Format, p Parser) LoaderOption {
	return func(l *Loader) { l.parsers[f] = p }
}

// WithClock overrides time.Now for snapshot timestamps.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader over candidates. CSV and XLSX parsers are
// registered by default; SQLite uses the default table name.
func NewLoader(candidates []Candidate, opts ...LoaderOption) *Loader {
	l := &Loader{
		candidates: candidates,
		parsers: map[Format]Parser{
			FormatCSV:    CSVParser{},
			FormatXLSX:   XLSXParser{},
			FormatSQLite: SQLiteParser{},
		},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Candidates returns the configured lookup order.
func (l *Loader) Candidates() []Candidate {
	return l.candidates
}

// Load returns the first candidate that exists, parses and passes schema
// validation. Later candidates are never tried once one succeeds. When none
// succeeds the error is a *NoDataError.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	l.warnOnDuplicates()

	var attempts []Attempt
	for _, c := range l.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := c.exists()
		if err != nil {
			attempts = append(attempts, Attempt{Candidate: c, Err: err})
			continue
		}
		if !ok {
			continue
		}

		snap, err := l.try(ctx, c)
		if err != nil {
			l.logger.Warn("data source failed, trying next",
				"candidate", c.Name,
				"format", c.Format,
				"error", err,
			)
			attempts = append(attempts, Attempt{Candidate: c, Err: err})
			continue
		}

		l.logger.Info("data loaded",
			"candidate", c.Name,
			"rows", snap.Table.Len(),
			"snapshot", snap.ID,
		)
		return &Result{Snapshot: snap, Attempts: attempts}, nil
	}

	return nil, &NoDataError{Candidates: l.candidates, Attempts: attempts}
}

func (l *Loader) try(ctx context.Context, c Candidate) (*report.Snapshot, error) {
	parser, ok := l.parsers[c.Format]
	if !ok {
		return nil, fmt.Errorf("no parser for format %q", c.Format)
	}

	raw, err := parser.Parse(ctx, c)
	if err != nil {
		return nil, err
	}

	tbl, err := report.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return report.NewSnapshot(tbl, c.Name, l.now()), nil
}

// warnOnDuplicates logs when more than one file candidate is present, since
// only the first will ever be read.
func (l *Loader) warnOnDuplicates() {
	var present []string
	for _, c := range l.candidates {
		if c.Path == "" {
			continue
		}
		if ok, _ := c.exists(); ok {
			present = append(present, c.Name)
		}
	}

	key := ""
	if len(present) > 1 {
		key = strings.Join(present, "\x00")
	}

	l.mu.Lock()
	changed := key != l.warned
	l.warned = key
	l.mu.Unlock()

	if changed && key != "" {
		l.logger.Warn("multiple data files present, only the first is used",
			"files", present, "using", present[0])
	}
}
