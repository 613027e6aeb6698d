package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"csvmanager/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Table Service: the operations every frontend binds to
// ─────────────────────────────────────────────────────────────

// TableService owns the table store, the view binding and the edit
// session. List, Add, Edit, Delete, Search, Sort and Filter are the
// operations a presentation layer binds to; each one rebuilds the view and
// emits EventViewChanged.
type TableService struct {
	store   domain.TableStore
	view    *ViewBinding
	emitter EventEmitter
	logger  *slog.Logger

	mu   sync.Mutex
	edit *EditSession
}

// NewTableService creates a TableService and builds the initial full view.
func NewTableService(store domain.TableStore, emitter EventEmitter, logger *slog.Logger) *TableService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TableService{
		store:   store,
		view:    NewViewBinding(),
		emitter: emitter,
		logger:  logger,
		edit:    NewEditSession(store.Columns()),
	}
	s.view.ShowFull(store)
	return s
}

// View returns what is currently displayed without rebuilding it.
func (s *TableService) View() domain.ViewState {
	return s.view.Current()
}

// Columns returns the table's column set.
func (s *TableService) Columns() domain.ColumnSet {
	return s.store.Columns()
}

// Selection resolves a displayed row handle to a snapshot of its values.
func (s *TableService) Selection(handle string) ([]string, error) {
	return s.view.Selected(handle)
}

// ── The seven operations ───────────────────────────────────

// List rebuilds the view from the full store.
func (s *TableService) List(ctx context.Context) domain.ViewState {
	return s.showFull(ctx)
}

// Add appends a row and shows the full store.
func (s *TableService) Add(ctx context.Context, values []string) (domain.ViewState, error) {
	rec, err := s.store.Insert(values)
	if err != nil {
		return domain.ViewState{}, fmt.Errorf("add row: %w", err)
	}
	s.logger.Info("row added", "handle", rec.Handle, "rows", s.store.Len())
	return s.showFull(ctx), nil
}

// Edit replaces every row equal to selection with values.
func (s *TableService) Edit(ctx context.Context, selection, values []string) (domain.ViewState, error) {
	if len(selection) == 0 {
		return domain.ViewState{}, domain.ErrNoSelection
	}
	n, err := s.store.Update(selection, values)
	if err != nil {
		return domain.ViewState{}, fmt.Errorf("edit row: %w", err)
	}
	s.logger.Info("rows updated", "matched", n)
	state := s.showFull(ctx)
	if n == 0 {
		state.Notice = "The selected row no longer exists; nothing was changed."
	}
	return state, nil
}

// Delete removes every row equal to selection.
func (s *TableService) Delete(ctx context.Context, selection []string) (domain.ViewState, error) {
	if len(selection) == 0 {
		return domain.ViewState{}, domain.ErrNoSelection
	}
	n, err := s.store.Delete(selection)
	if err != nil {
		return domain.ViewState{}, fmt.Errorf("delete row: %w", err)
	}
	s.logger.Info("rows deleted", "matched", n)
	state := s.showFull(ctx)
	if n == 0 {
		state.Notice = "The selected row no longer exists; nothing was deleted."
	}
	return state, nil
}

// Search shows the rows where text occurs in any field.
func (s *TableService) Search(ctx context.Context, text string) (domain.ViewState, error) {
	if text == "" {
		return domain.ViewState{}, domain.ErrEmptyQuery
	}
	rows := s.store.Search(text)
	s.logger.Debug("search", "query", text, "matches", len(rows))
	state := s.view.ShowSubset(s.store, domain.ViewSearch, text, "", rows)
	s.emitter.Emit(ctx, EventViewChanged, state)
	return state, nil
}

// Filter shows the rows where text occurs in column.
func (s *TableService) Filter(ctx context.Context, column, text string) (domain.ViewState, error) {
	if column == "" || text == "" {
		return domain.ViewState{}, domain.ErrIncompleteFilter
	}
	rows, err := s.store.Filter(column, text)
	if err != nil {
		return domain.ViewState{}, err
	}
	s.logger.Debug("filter", "column", column, "query", text, "matches", len(rows))
	state := s.view.ShowSubset(s.store, domain.ViewFilter, text, column, rows)
	s.emitter.Emit(ctx, EventViewChanged, state)
	return state, nil
}

// Sort reorders the whole table by column and persists the new order.
func (s *TableService) Sort(ctx context.Context, column string) (domain.ViewState, error) {
	if column == "" {
		return domain.ViewState{}, &domain.ColumnError{Column: column, Err: domain.ErrUnknownColumn}
	}
	if err := s.store.Sort(column); err != nil {
		return domain.ViewState{}, fmt.Errorf("sort rows: %w", err)
	}
	s.logger.Info("rows sorted", "column", column)
	return s.showFull(ctx), nil
}

// ── Edit surface ───────────────────────────────────────────

// BeginAdd opens the add form.
func (s *TableService) BeginAdd() EditForm {
	return s.session().BeginAdd()
}

// BeginEdit opens the edit form for a snapshot of a displayed row.
func (s *TableService) BeginEdit(selection []string) (EditForm, error) {
	return s.session().BeginEdit(selection)
}

// ConfirmEdit commits the open form and shows the full store.
func (s *TableService) ConfirmEdit(ctx context.Context, values []string) (domain.ViewState, error) {
	session := s.session()
	mode := session.Mode()
	n, err := session.Confirm(s.store, values)
	if err != nil {
		return domain.ViewState{}, err
	}
	s.logger.Info("edit confirmed", "mode", mode, "rows", n)
	state := s.showFull(ctx)
	if mode == EditEditing && n == 0 {
		state.Notice = "The selected row no longer exists; nothing was changed."
	}
	return state, nil
}

// CancelEdit closes the form without changes.
func (s *TableService) CancelEdit() {
	s.session().Cancel()
}

// EditForm returns the currently open form.
func (s *TableService) EditForm() EditForm {
	return s.session().Form()
}

// ── Disk ───────────────────────────────────────────────────

// Reload re-reads the file, discarding the in-memory rows, and shows the
// full store. Any open edit form is closed.
func (s *TableService) Reload(ctx context.Context) (domain.ViewState, error) {
	if err := s.store.Reload(); err != nil {
		return domain.ViewState{}, fmt.Errorf("reload table: %w", err)
	}
	s.mu.Lock()
	s.edit = NewEditSession(s.store.Columns())
	s.mu.Unlock()
	s.logger.Info("table reloaded", "path", s.store.Path(), "rows", s.store.Len())
	return s.showFull(ctx), nil
}

func (s *TableService) session() *EditSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit
}

func (s *TableService) showFull(ctx context.Context) domain.ViewState {
	state := s.view.ShowFull(s.store)
	s.emitter.Emit(ctx, EventViewChanged, state)
	return state
}
