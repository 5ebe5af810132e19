package catalog

// Element type values (input widget families).
const (
	ElementInputText     = "input-text"
	ElementInputHTML     = "input-html"
	ElementInputDate     = "input-date"
	ElementInputInteger  = "input-integer"
	ElementInputReal     = "input-real"
	ElementInputEmail    = "input-email"
	ElementRadio         = "radio"
	ElementCheckboxMulti = "checkbox-multi"
	ElementCheckbox      = "checkbox"
)

// ElementType describes one input widget family used on the create/edit form.
type ElementType struct {
	Value         string `json:"value"`
	Label         string `json:"label"`
	Description   string `json:"description"`
	HTMLElement   string `json:"htmlElement"`
	HTMLType      string `json:"htmlType,omitempty"`
	Example       string `json:"example"`
	HasOptions    bool   `json:"hasOptions"`
	HasValidation bool   `json:"hasValidation"`
	Step          string `json:"step,omitempty"`
}

var elementTypes = []ElementType{
	{
		Value:         ElementInputText,
		Label:         "Text input",
		Description:   "Single-line text input",
		HTMLElement:   "input",
		HTMLType:      "text",
		Example:       "Jane Doe",
		HasValidation: true,
	},
	{
		Value:       ElementInputHTML,
		Label:       "Rich text",
		Description: "Multi-line text with HTML support",
		HTMLElement: "textarea",
		Example:     "Several lines of longer text...",
	},
	{
		Value:       ElementInputDate,
		Label:       "Date picker",
		Description: "Calendar date selection",
		HTMLElement: "input",
		HTMLType:    "date",
		Example:     "2024-01-15",
	},
	{
		Value:         ElementInputInteger,
		Label:         "Integer input",
		Description:   "Whole number input",
		HTMLElement:   "input",
		HTMLType:      "number",
		Example:       "100",
		HasValidation: true,
	},
	{
		Value:         ElementInputReal,
		Label:         "Decimal input",
		Description:   "Decimal number input",
		HTMLElement:   "input",
		HTMLType:      "number",
		Example:       "99.99",
		HasValidation: true,
		Step:          "0.01",
	},
	{
		Value:       ElementInputEmail,
		Label:       "Email input",
		Description: "Email address input",
		HTMLElement: "input",
		HTMLType:    "email",
		Example:     "user@example.com",
	},
	{
		Value:       ElementRadio,
		Label:       "Radio buttons",
		Description: "Pick exactly one option",
		HTMLElement: "input",
		HTMLType:    "radio",
		Example:     "option1",
		HasOptions:  true,
	},
	{
		Value:       ElementCheckboxMulti,
		Label:       "Checkboxes (multi)",
		Description: "Pick any number of options",
		HTMLElement: "input",
		HTMLType:    "checkbox",
		Example:     `["option1", "option2"]`,
		HasOptions:  true,
	},
	{
		Value:       ElementCheckbox,
		Label:       "Checkbox",
		Description: "True/false toggle",
		HTMLElement: "input",
		HTMLType:    "checkbox",
		Example:     "true",
	},
}

var elementTypesByValue = indexByValue(elementTypes, func(e ElementType) string { return e.Value })

// ElementTypes returns the full element type catalog in declaration order.
func ElementTypes() []ElementType {
	out := make([]ElementType, len(elementTypes))
	copy(out, elementTypes)
	return out
}

// ElementTypeByValue looks up an element type by its value.
func ElementTypeByValue(value string) (ElementType, bool) {
	e, ok := elementTypesByValue[value]
	return e, ok
}
