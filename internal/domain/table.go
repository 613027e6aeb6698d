package domain

import "slices"

// DefaultColumns is the column set used when the file is missing or empty.
var DefaultColumns = ColumnSet{"Column1", "Column2", "Column3"}

// ColumnSet is the ordered list of column names shared by every record.
// It is fixed for the lifetime of one store.
type ColumnSet []string

// Index returns the position of name, or -1.
func (c ColumnSet) Index(name string) int {
	return slices.Index(c, name)
}

// Validate rejects a column set that names the same column twice.
func (c ColumnSet) Validate() error {
	seen := make(map[string]bool, len(c))
	for _, name := range c {
		if seen[name] {
			return &ColumnError{Column: name, Err: ErrDuplicateColumn}
		}
		seen[name] = true
	}
	return nil
}

// Record is one row of the table. Values[i] belongs to ColumnSet[i].
//
// Handle identifies the record within the current run only. It is never
// written to disk and plays no part in matching: edits and deletes match
// records by their values.
type Record struct {
	Handle string   `json:"handle"`
	Values []string `json:"values"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	return Record{Handle: r.Handle, Values: slices.Clone(r.Values)}
}

// Matches reports whether the record's values equal match exactly.
func (r Record) Matches(match []string) bool {
	return slices.Equal(r.Values, match)
}

// TableStore is the authoritative in-memory row sequence mirrored to a file.
// Every mutation persists the whole sequence before returning.
type TableStore interface {
	Path() string
	Columns() ColumnSet
	Rows() []Record
	Len() int

	Insert(values []string) (Record, error)
	Update(match, values []string) (int, error)
	Delete(match []string) (int, error)
	Sort(column string) error

	Search(text string) []Record
	Filter(column, text string) ([]Record, error)

	Reload() error
}
