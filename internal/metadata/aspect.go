// Package metadata persists per-board configuration documents ("aspects").
// Each board owns at most one JSON document per aspect name; writes are
// upserts and every document carries a schema version tag.
package metadata

// Aspect names. One JSON document per (board, aspect).
const (
	AspectTable = "table"       // field definitions + board identity snapshot
	AspectList  = "list"        // list view configuration
	AspectForm  = "create_edit" // create/edit form configuration
	AspectView  = "view"        // detail view configuration
)

// SchemaVersion tags every stored document for forward compatibility.
const SchemaVersion = "v1"

// ColumnDef is one field definition inside the table aspect. Column names
// are generated (col1, col2, ...) and never user-chosen.
type ColumnDef struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	DataType string `json:"data_type"`
	Comment  string `json:"comment,omitempty"`
}

// TableAspect is the stored table-schema document.
type TableAspect struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	Note              string      `json:"note,omitempty"`
	IsFileAttach      bool        `json:"is_file_attach"`
	PhysicalTableName string      `json:"physical_table_name"`
	Columns           []ColumnDef `json:"columns"`
}

// HasColumn reports whether the table aspect declares the given storage column.
func (t *TableAspect) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Column returns the definition for a storage column, or nil.
func (t *TableAspect) Column(name string) *ColumnDef {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns the storage column names in field order.
func (t *TableAspect) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// SortSpec is the default sort of the list view.
type SortSpec struct {
	Column string `json:"column"`
	Order  string `json:"order"` // "asc" or "desc"
}

// ListAspect is the stored list-view document.
type ListAspect struct {
	Columns       []string  `json:"columns"`
	PageSize      int       `json:"page_size"`
	DefaultSort   *SortSpec `json:"default_sort,omitempty"`
	SearchEnabled bool      `json:"search_enabled"`
	SearchColumns []string  `json:"search_columns,omitempty"`
}

// FormField configures how one column is edited on the create/edit form.
type FormField struct {
	Name         string   `json:"name"`
	ElementType  string   `json:"element_type"`
	Required     bool     `json:"required"`
	DefaultValue any      `json:"default_value,omitempty"`
	Length       *int     `json:"length,omitempty"`
	MinValue     *float64 `json:"min_value,omitempty"`
	MaxValue     *float64 `json:"max_value,omitempty"`
	Options      []string `json:"options,omitempty"`
	HelpText     string   `json:"help_text,omitempty"`
	// Condition is an optional expression over {value, record} that must
	// evaluate to true for the submitted value to be accepted.
	Condition string `json:"condition,omitempty"`
	Width     string `json:"width,omitempty"`
	Section   string `json:"section,omitempty"`
}

// FormAspect is the stored create/edit-form document.
type FormAspect struct {
	Fields []FormField `json:"fields"`
}

// Field returns the form configuration for a storage column, or nil.
func (f *FormAspect) Field(name string) *FormField {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			return &f.Fields[i]
		}
	}
	return nil
}

// ViewField configures how one column renders on the detail view.
type ViewField struct {
	Name           string `json:"name"`
	DisplayType    string `json:"display_type"`
	DateFormat     string `json:"date_format,omitempty"`
	DecimalPlaces  *int   `json:"decimal_places,omitempty"`
	MaxRating      int    `json:"max_rating,omitempty"`
	CurrencySymbol string `json:"currency_symbol,omitempty"`
	TrueText       string `json:"true_text,omitempty"`
	FalseText      string `json:"false_text,omitempty"`
	Section        string `json:"section,omitempty"`
}

// ViewAspect is the stored detail-view document.
type ViewAspect struct {
	Fields []ViewField `json:"fields"`
}
