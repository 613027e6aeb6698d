package service

import (
	"slices"
	"sync"

	"csvmanager/internal/domain"
)

// EditMode is the state of an EditSession.
type EditMode string

const (
	EditIdle    EditMode = "idle"
	EditAdding  EditMode = "add"
	EditEditing EditMode = "edit"
)

// EditField is one labelled input of the edit form.
type EditField struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// EditForm describes the edit surface the frontend should present.
type EditForm struct {
	Mode   EditMode    `json:"mode"`
	Title  string      `json:"title"`
	Fields []EditField `json:"fields"`
}

// EditSession drives a single add-or-edit interaction.
//
// Edit mode holds a copy of the selected row's values taken when the
// session began. Confirming updates every row still equal to that copy.
type EditSession struct {
	mu       sync.Mutex
	mode     EditMode
	columns  domain.ColumnSet
	snapshot []string
}

// NewEditSession creates an idle session for a table with the given columns.
func NewEditSession(columns domain.ColumnSet) *EditSession {
	return &EditSession{mode: EditIdle, columns: slices.Clone(columns)}
}

// BeginAdd opens an empty form with one field per column.
func (e *EditSession) BeginAdd() EditForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = EditAdding
	e.snapshot = nil
	return e.form()
}

// BeginEdit opens a form pre-filled from snapshot.
func (e *EditSession) BeginEdit(snapshot []string) (EditForm, error) {
	if len(snapshot) == 0 {
		return EditForm{}, domain.ErrNoSelection
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = EditEditing
	e.snapshot = slices.Clone(snapshot)
	return e.form(), nil
}

// Confirm commits values to store and returns the session to idle.
// It reports how many rows changed: always 1 when adding, the number of
// matches when editing.
func (e *EditSession) Confirm(store domain.TableStore, values []string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.mode {
	case EditAdding:
		if _, err := store.Insert(values); err != nil {
			return 0, err
		}
		e.reset()
		return 1, nil
	case EditEditing:
		n, err := store.Update(e.snapshot, values)
		if err != nil {
			return 0, err
		}
		e.reset()
		return n, nil
	default:
		return 0, domain.ErrNoEditInProgress
	}
}

// Cancel abandons the session without touching the store.
func (e *EditSession) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

// Mode returns the current state.
func (e *EditSession) Mode() EditMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Form returns the form for the current state.
func (e *EditSession) Form() EditForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form()
}

func (e *EditSession) reset() {
	e.mode = EditIdle
	e.snapshot = nil
}

func (e *EditSession) form() EditForm {
	f := EditForm{Mode: e.mode, Fields: make([]EditField, len(e.columns))}
	switch e.mode {
	case EditAdding:
		f.Title = "Add Row"
	case EditEditing:
		f.Title = "Edit Row"
	}
	for i, col := range e.columns {
		f.Fields[i].Column = col
		if i < len(e.snapshot) {
			f.Fields[i].Value = e.snapshot[i]
		}
	}
	return f
}

// ValuesFromMap orders a column-keyed map by columns. Missing columns are
// empty strings; keys that are not columns are an error.
func ValuesFromMap(columns domain.ColumnSet, m map[string]string) ([]string, error) {
	for key := range m {
		if columns.Index(key) < 0 {
			return nil, &domain.ColumnError{Column: key, Err: domain.ErrUnknownColumn}
		}
	}
	values := make([]string, len(columns))
	for i, col := range columns {
		values[i] = m[col]
	}
	return values, nil
}
