// Package catalog holds the static field-type catalogs used by the board
// wizard: data types (storage semantics), element types (input widgets) and
// display types (read-only rendering). All catalogs are immutable,
// process-wide configuration.
package catalog

// Data type values.
const (
	DataString   = "string"
	DataText     = "text"
	DataInteger  = "integer"
	DataReal     = "real"
	DataBoolean  = "boolean"
	DataYMD      = "ymd"
	DataDatetime = "datetime"
)

// DataType describes one semantic field kind and how it is stored and edited.
type DataType struct {
	Value          string `json:"value"`
	Label          string `json:"label"`
	Description    string `json:"description"`
	StorageType    string `json:"storageType"` // TEXT, INTEGER or REAL
	InputType      string `json:"inputType"`
	InputComponent string `json:"inputComponent"`
	Example        string `json:"example"`
	HasLength      bool   `json:"hasLength"`
	HasMinMax      bool   `json:"hasMinMax"`
	Step           string `json:"step,omitempty"`
}

var dataTypes = []DataType{
	{
		Value:          DataString,
		Label:          "String",
		Description:    "Short text (e.g. name, title)",
		StorageType:    "TEXT",
		InputType:      "text",
		InputComponent: "input",
		Example:        "Jane Doe",
		HasLength:      true,
	},
	{
		Value:          DataText,
		Label:          "Text",
		Description:    "Long text (e.g. body, description)",
		StorageType:    "TEXT",
		InputType:      "text",
		InputComponent: "textarea",
		Example:        "Several lines of longer text...",
	},
	{
		Value:          DataInteger,
		Label:          "Integer",
		Description:    "Whole number (e.g. quantity, rating)",
		StorageType:    "INTEGER",
		InputType:      "number",
		InputComponent: "input",
		Example:        "100",
		HasMinMax:      true,
	},
	{
		Value:          DataReal,
		Label:          "Real",
		Description:    "Decimal number (e.g. price, weight)",
		StorageType:    "REAL",
		InputType:      "number",
		InputComponent: "input",
		Example:        "99.99",
		HasMinMax:      true,
		Step:           "0.01",
	},
	{
		Value:          DataBoolean,
		Label:          "Boolean",
		Description:    "Yes/no choice (e.g. published, done)",
		StorageType:    "INTEGER",
		InputType:      "checkbox",
		InputComponent: "checkbox",
		Example:        "true",
	},
	{
		Value:          DataYMD,
		Label:          "Date",
		Description:    "Calendar date (e.g. 2024-01-15)",
		StorageType:    "TEXT",
		InputType:      "date",
		InputComponent: "input",
		Example:        "2024-01-15",
	},
	{
		Value:          DataDatetime,
		Label:          "Datetime",
		Description:    "Date and time (e.g. 2024-01-15 14:30:00)",
		StorageType:    "TEXT",
		InputType:      "datetime-local",
		InputComponent: "input",
		Example:        "2024-01-15T14:30",
	},
}

var dataTypesByValue = indexByValue(dataTypes, func(d DataType) string { return d.Value })

// DataTypes returns the full data type catalog in declaration order.
func DataTypes() []DataType {
	out := make([]DataType, len(dataTypes))
	copy(out, dataTypes)
	return out
}

// DataTypeByValue looks up a data type by its value.
func DataTypeByValue(value string) (DataType, bool) {
	d, ok := dataTypesByValue[value]
	return d, ok
}

// RecommendedDisplayType returns the default display type for a data type.
// Unknown input falls back to plain text; this function never fails.
func RecommendedDisplayType(dataType string) string {
	switch dataType {
	case DataString:
		return DisplayText
	case DataText:
		return DisplayHTML
	case DataInteger, DataReal:
		return DisplayNumber
	case DataBoolean:
		return DisplayBoolean
	case DataYMD, DataDatetime:
		return DisplayDate
	default:
		return DisplayText
	}
}

// RecommendedElementType returns the default input widget for a data type.
// Unknown input falls back to a single-line text input; never fails.
func RecommendedElementType(dataType string) string {
	switch dataType {
	case DataString:
		return ElementInputText
	case DataText:
		return ElementInputHTML
	case DataInteger:
		return ElementInputInteger
	case DataReal:
		return ElementInputReal
	case DataBoolean:
		return ElementCheckbox
	case DataYMD, DataDatetime:
		return ElementInputDate
	default:
		return ElementInputText
	}
}

func indexByValue[T any](items []T, key func(T) string) map[string]T {
	m := make(map[string]T, len(items))
	for _, it := range items {
		m[key(it)] = it
	}
	return m
}
