package app

import (
	"csvmanager/internal/domain"
	"csvmanager/internal/service"
)

// ============================================================
// Table
// ============================================================

// GetView returns what the table currently displays.
func (a *App) GetView() domain.ViewState {
	return a.tables.View()
}

// GetColumns returns the table's column names in file order.
func (a *App) GetColumns() []string {
	return a.tables.Columns()
}

// List shows every row.
func (a *App) List() domain.ViewState {
	return a.tables.List(a.ctx)
}

// AddRow appends a row. values is keyed by column name; missing columns
// are stored as empty strings.
func (a *App) AddRow(values map[string]string) (domain.ViewState, error) {
	row, err := service.ValuesFromMap(a.tables.Columns(), values)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	state, err := a.tables.Add(a.ctx, row)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	return state, nil
}

// EditRow replaces every row equal to the displayed row handle.
func (a *App) EditRow(handle string, values map[string]string) (domain.ViewState, error) {
	selection, err := a.tables.Selection(handle)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	row, err := service.ValuesFromMap(a.tables.Columns(), values)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	state, err := a.tables.Edit(a.ctx, selection, row)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	return a.notify(state), nil
}

// DeleteRow removes every row equal to the displayed row handle.
func (a *App) DeleteRow(handle string) (domain.ViewState, error) {
	selection, err := a.tables.Selection(handle)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	state, err := a.tables.Delete(a.ctx, selection)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	return a.notify(state), nil
}

// Search shows rows containing text in any column.
func (a *App) Search(text string) (domain.ViewState, error) {
	state, err := a.tables.Search(a.ctx, text)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	return a.notify(state), nil
}

// Filter shows rows containing text in column.
func (a *App) Filter(column, text string) (domain.ViewState, error) {
	state, err := a.tables.Filter(a.ctx, column, text)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	return a.notify(state), nil
}

// Sort orders the whole table by column and saves it.
func (a *App) Sort(column string) (domain.ViewState, error) {
	state, err := a.tables.Sort(a.ctx, column)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	return state, nil
}

// ── Edit form ──────────────────────────────────────────────

// BeginAdd opens an empty form.
func (a *App) BeginAdd() service.EditForm {
	return a.tables.BeginAdd()
}

// BeginEdit opens a form pre-filled from the displayed row handle.
func (a *App) BeginEdit(handle string) (service.EditForm, error) {
	selection, err := a.tables.Selection(handle)
	if err != nil {
		return service.EditForm{}, a.report(err)
	}
	form, err := a.tables.BeginEdit(selection)
	if err != nil {
		return service.EditForm{}, a.report(err)
	}
	return form, nil
}

// ConfirmEdit saves the open form. values is keyed by column name.
func (a *App) ConfirmEdit(values map[string]string) (domain.ViewState, error) {
	row, err := service.ValuesFromMap(a.tables.Columns(), values)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	state, err := a.tables.ConfirmEdit(a.ctx, row)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	return a.notify(state), nil
}

// CancelEdit closes the form without saving.
func (a *App) CancelEdit() {
	a.tables.CancelEdit()
}

// GetEditForm returns the open form, if any.
func (a *App) GetEditForm() service.EditForm {
	return a.tables.EditForm()
}

// ReloadFromDisk discards in-memory rows and re-reads the file.
func (a *App) ReloadFromDisk() (domain.ViewState, error) {
	state, err := a.tables.Reload(a.ctx)
	if err != nil {
		return domain.ViewState{}, a.report(err)
	}
	return state, nil
}
