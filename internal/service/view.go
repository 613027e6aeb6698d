package service

import (
	"fmt"
	"slices"
	"sync"

	"csvmanager/internal/domain"
)

// ViewBinding is the displayed projection of the table.
//
// It owns nothing beyond what is currently shown. Every operation rebuilds
// it from scratch, either from the full store or from a search/filter
// result; the two are never merged.
type ViewBinding struct {
	mu    sync.Mutex
	state domain.ViewState
}

// NewViewBinding creates an empty binding.
func NewViewBinding() *ViewBinding {
	return &ViewBinding{state: domain.ViewState{Mode: domain.ViewFull, Rows: []domain.Record{}}}
}

// ShowFull rebuilds the view from every row in the store.
func (v *ViewBinding) ShowFull(store domain.TableStore) domain.ViewState {
	rows := store.Rows()
	return v.set(domain.ViewState{
		FilePath: store.Path(),
		Columns:  store.Columns(),
		Mode:     domain.ViewFull,
		Rows:     rows,
		Total:    len(rows),
	})
}

// ShowSubset rebuilds the view from a search or filter result. An empty
// result clears the view and carries a notice.
func (v *ViewBinding) ShowSubset(store domain.TableStore, mode domain.ViewMode, query, column string, rows []domain.Record) domain.ViewState {
	state := domain.ViewState{
		FilePath: store.Path(),
		Columns:  store.Columns(),
		Mode:     mode,
		Query:    query,
		Column:   column,
		Rows:     rows,
		Total:    store.Len(),
	}
	if len(rows) == 0 {
		state.Rows = []domain.Record{}
		if column != "" {
			state.Notice = fmt.Sprintf("No rows where %s contains %q.", column, query)
		} else {
			state.Notice = fmt.Sprintf("No rows contain %q.", query)
		}
	}
	return v.set(state)
}

// Current returns a copy of what is displayed.
func (v *ViewBinding) Current() domain.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return copyState(v.state)
}

// Selected returns a snapshot of the values of the displayed row with the
// given handle.
func (v *ViewBinding) Selected(handle string) ([]string, error) {
	if handle == "" {
		return nil, domain.ErrNoSelection
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, rec := range v.state.Rows {
		if rec.Handle == handle {
			return slices.Clone(rec.Values), nil
		}
	}
	return nil, fmt.Errorf("row %s is not displayed: %w", handle, domain.ErrNoSelection)
}

func (v *ViewBinding) set(state domain.ViewState) domain.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = state
	return copyState(state)
}

func copyState(s domain.ViewState) domain.ViewState {
	out := s
	out.Columns = slices.Clone(s.Columns)
	out.Rows = make([]domain.Record, len(s.Rows))
	for i, rec := range s.Rows {
		out.Rows[i] = rec.Clone()
	}
	return out
}
