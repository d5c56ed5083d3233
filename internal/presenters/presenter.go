package presenters

// Presenter shapes a result set for every output format the CLI supports
type Presenter interface {
	// Title heads table and text views
	Title() string

	// Headers returns the column headers for table/csv views
	Headers() []string

	// Rows returns the stringified data for table/csv/text views
	Rows() [][]string

	// Raw returns the underlying data structure for JSON/YAML output
	Raw() any

	// SortableColumns returns a list of columns that can be sorted
	SortableColumns() []string

	// SortBy sorts the data by the given column. Returns true if sorted, false if column is invalid.
	SortBy(column string) bool

	// DefaultSort returns the default sort column
	DefaultSort() string
}
