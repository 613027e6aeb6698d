package storage

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"csvmanager/internal/domain"
)

// CSVTable implements domain.TableStore over a single CSV file.
//
// Rows are cached in memory. Every mutation builds the new sequence,
// writes the whole file, and only then swaps it in, so a failed write
// leaves memory and disk as they were.
type CSVTable struct {
	path   string
	logger *slog.Logger
	onSave func(path string)

	mu      sync.Mutex
	columns domain.ColumnSet
	rows    []domain.Record
	crlf    bool
}

// TableOption configures a CSVTable.
type TableOption func(*CSVTable)

// WithLogger sets the logger used for load and save messages.
func WithLogger(logger *slog.Logger) TableOption {
	return func(t *CSVTable) {
		t.logger = logger
	}
}

// WithSaveHook registers fn to run after every successful write.
func WithSaveHook(fn func(path string)) TableOption {
	return func(t *CSVTable) {
		t.onSave = fn
	}
}

// OpenCSVTable loads the file at path. A missing or empty file opens as an
// empty table with domain.DefaultColumns.
func OpenCSVTable(path string, opts ...TableOption) (*CSVTable, error) {
	t := &CSVTable{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the in-memory rows with the file's current content.
// Handles are reassigned. The column set is fixed once loaded: a file whose
// header no longer matches is rejected and the current rows are kept. A
// file that has gone missing or empty reloads as zero rows.
func (t *CSVTable) Reload() error {
	doc, err := ReadCSVDocument(t.path)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	columns := doc.Columns
	switch {
	case len(columns) == 0 && t.columns != nil:
		columns = t.columns
	case len(columns) == 0:
		columns = slices.Clone(domain.DefaultColumns)
		t.logger.Info("csv file missing or empty, using default columns", "path", t.path)
	case t.columns != nil && !slices.Equal(columns, t.columns):
		return fmt.Errorf("reload %s: header %q, table has %q: %w", t.path, []string(columns), []string(t.columns), domain.ErrColumnsChanged)
	}
	rows := make([]domain.Record, 0, len(doc.Rows))
	for _, values := range doc.Rows {
		rows = append(rows, domain.Record{Handle: newHandle(), Values: values})
	}

	t.columns = columns
	t.rows = rows
	t.crlf = doc.CRLF
	t.logger.Debug("csv loaded", "path", t.path, "columns", len(columns), "rows", len(rows))
	return nil
}

func (t *CSVTable) Path() string { return t.path }

func (t *CSVTable) Columns() domain.ColumnSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.columns)
}

// Rows returns a copy of the full row sequence in display order.
func (t *CSVTable) Rows() []domain.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneRecords(t.rows)
}

func (t *CSVTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Insert appends a record built from values. Missing trailing values are
// empty strings; more values than columns is an error.
func (t *CSVTable) Insert(values []string) (domain.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	normalized, err := t.normalize(values)
	if err != nil {
		return domain.Record{}, err
	}
	rec := domain.Record{Handle: newHandle(), Values: normalized}

	next := append(slices.Clip(t.rows), rec)
	if err := t.commit(next); err != nil {
		return domain.Record{}, err
	}
	return rec.Clone(), nil
}

// Update replaces every record whose values equal match. It returns the
// number of records replaced; with zero matches nothing is written.
func (t *CSVTable) Update(match, values []string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	normalized, err := t.normalize(values)
	if err != nil {
		return 0, err
	}

	next := make([]domain.Record, len(t.rows))
	n := 0
	for i, rec := range t.rows {
		if rec.Matches(match) {
			next[i] = domain.Record{Handle: rec.Handle, Values: slices.Clone(normalized)}
			n++
			continue
		}
		next[i] = rec
	}
	if n == 0 {
		return 0, nil
	}
	if err := t.commit(next); err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes every record whose values equal match and returns how
// many were removed.
func (t *CSVTable) Delete(match []string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]domain.Record, 0, len(t.rows))
	for _, rec := range t.rows {
		if !rec.Matches(match) {
			next = append(next, rec)
		}
	}
	n := len(t.rows) - len(next)
	if n == 0 {
		return 0, nil
	}
	if err := t.commit(next); err != nil {
		return 0, err
	}
	return n, nil
}

// Sort reorders the rows ascending by column, comparing values as text.
// Equal values keep their relative order. The new order is persisted.
func (t *CSVTable) Sort(column string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.columns.Index(column)
	if idx < 0 {
		return &domain.ColumnError{Column: column, Err: domain.ErrUnknownColumn}
	}

	next := slices.Clone(t.rows)
	slices.SortStableFunc(next, func(a, b domain.Record) int {
		return strings.Compare(a.Values[idx], b.Values[idx])
	})
	return t.commit(next)
}

// Search returns the records where text occurs in any field, ignoring case.
func (t *CSVTable) Search(text string) []domain.Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	folder := cases.Fold()
	needle := folder.String(text)
	var out []domain.Record
	for _, rec := range t.rows {
		for _, v := range rec.Values {
			if strings.Contains(folder.String(v), needle) {
				out = append(out, rec.Clone())
				break
			}
		}
	}
	return out
}

// Filter returns the records where text occurs in column, ignoring case.
func (t *CSVTable) Filter(column, text string) ([]domain.Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.columns.Index(column)
	if idx < 0 {
		return nil, &domain.ColumnError{Column: column, Err: domain.ErrUnknownColumn}
	}

	folder := cases.Fold()
	needle := folder.String(text)
	var out []domain.Record
	for _, rec := range t.rows {
		if strings.Contains(folder.String(rec.Values[idx]), needle) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// normalize pads values to the column count. Must hold t.mu.
func (t *CSVTable) normalize(values []string) ([]string, error) {
	if len(values) > len(t.columns) {
		return nil, &domain.RowShapeError{Want: len(t.columns), Got: len(values)}
	}
	out := make([]string, len(t.columns))
	copy(out, values)
	return out, nil
}

// commit writes next to disk and makes it the current sequence. Must hold t.mu.
func (t *CSVTable) commit(next []domain.Record) error {
	doc := &CSVDocument{
		Columns: t.columns,
		Rows:    make([][]string, len(next)),
		CRLF:    t.crlf,
	}
	for i, rec := range next {
		doc.Rows[i] = rec.Values
	}
	if err := WriteCSVDocument(t.path, doc); err != nil {
		t.logger.Error("csv save failed, keeping previous rows", "path", t.path, "err", err)
		return fmt.Errorf("save table: %w", err)
	}
	t.rows = next
	t.logger.Debug("csv saved", "path", t.path, "rows", len(next))
	if t.onSave != nil {
		t.onSave(t.path)
	}
	return nil
}

func cloneRecords(rows []domain.Record) []domain.Record {
	out := make([]domain.Record, len(rows))
	for i, rec := range rows {
		out[i] = rec.Clone()
	}
	return out
}

func newHandle() string {
	return uuid.New().String()
}

var _ domain.TableStore = (*CSVTable)(nil)
