package domain

// ViewMode names which record sequence the view was built from.
type ViewMode string

const (
	ViewFull   ViewMode = "full"
	ViewSearch ViewMode = "search"
	ViewFilter ViewMode = "filter"
)

// ViewState is the complete state of the table view.
// Returned to the frontend to render the list.
type ViewState struct {
	FilePath string    `json:"filePath"`
	Columns  ColumnSet `json:"columns"`
	Mode     ViewMode  `json:"mode"`
	Query    string    `json:"query,omitempty"`
	Column   string    `json:"column,omitempty"`
	Rows     []Record  `json:"rows"`
	Total    int       `json:"total"` // rows in the store, not in the view
	Notice   string    `json:"notice,omitempty"`
}
