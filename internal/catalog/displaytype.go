package catalog

// Display type values (read-only rendering families).
const (
	DisplayText     = "text"
	DisplayHTML     = "html"
	DisplayDate     = "date"
	DisplayNumber   = "number"
	DisplayImage    = "image"
	DisplayFile     = "file"
	DisplayStars    = "stars"
	DisplayBoolean  = "boolean"
	DisplayTags     = "tags"
	DisplayCurrency = "currency"
)

// DisplayType describes one read-only rendering family used by the list and
// detail views. Type-specific options (date format, rating bounds, icons,
// currency symbol) ride along as optional fields.
type DisplayType struct {
	Value          string `json:"value"`
	Label          string `json:"label"`
	Description    string `json:"description"`
	HTMLElement    string `json:"htmlElement"`
	HTMLClass      string `json:"htmlClass"`
	Example        string `json:"example"`
	RequiresFile   bool   `json:"requiresFile"`
	IsCore         bool   `json:"isCore"`
	DateFormat     string `json:"dateFormat,omitempty"`
	DecimalPlaces  *int   `json:"decimalPlaces,omitempty"`
	MinRating      int    `json:"minRating,omitempty"`
	MaxRating      int    `json:"maxRating,omitempty"`
	TrueIcon       string `json:"trueIcon,omitempty"`
	FalseIcon      string `json:"falseIcon,omitempty"`
	TagClass       string `json:"tagClass,omitempty"`
	CurrencySymbol string `json:"currencySymbol,omitempty"`
	Icon           string `json:"icon,omitempty"`
	Width          string `json:"width,omitempty"`
	Height         string `json:"height,omitempty"`
}

var zeroDecimals = 0

var displayTypes = []DisplayType{
	{
		Value:       DisplayText,
		Label:       "Text",
		Description: "Plain text",
		HTMLElement: "span",
		HTMLClass:   "text-gray-700",
		Example:     "Jane Doe",
		IsCore:      true,
	},
	{
		Value:       DisplayHTML,
		Label:       "HTML",
		Description: "Rendered HTML (rich text)",
		HTMLElement: "div",
		HTMLClass:   "html-content prose prose-sm",
		Example:     "<p>Rendered <strong>HTML</strong> content</p>",
		IsCore:      true,
	},
	{
		Value:       DisplayDate,
		Label:       "Date",
		Description: "Formatted calendar date",
		HTMLElement: "span",
		HTMLClass:   "text-gray-700",
		Example:     "Jan 1, 2024",
		IsCore:      true,
		DateFormat:  "2006-01-02",
	},
	{
		Value:         DisplayNumber,
		Label:         "Number",
		Description:   "Number with thousands separators",
		HTMLElement:   "span",
		HTMLClass:     "text-right font-mono",
		Example:       "1,234,567",
		IsCore:        true,
		DecimalPlaces: &zeroDecimals,
	},
	{
		Value:        DisplayImage,
		Label:        "Image",
		Description:  "Image thumbnail",
		HTMLElement:  "img",
		HTMLClass:    "thumbnail w-32 h-32 object-cover rounded",
		Example:      `<img src="..." class="thumbnail">`,
		RequiresFile: true,
		IsCore:       true,
		Width:        "128px",
		Height:       "128px",
	},
	{
		Value:        DisplayFile,
		Label:        "File link",
		Description:  "Downloadable file link",
		HTMLElement:  "a",
		HTMLClass:    "text-blue-600 hover:underline flex items-center gap-1",
		Example:      `<a href="..." download>📎 document.pdf</a>`,
		RequiresFile: true,
		IsCore:       true,
		Icon:         "📎",
	},
	{
		Value:       DisplayStars,
		Label:       "Star rating",
		Description: "Star icons (★★★★☆)",
		HTMLElement: "span",
		HTMLClass:   "text-yellow-400 text-lg",
		Example:     "★★★★☆",
		MinRating:   1,
		MaxRating:   5,
	},
	{
		Value:       DisplayBoolean,
		Label:       "Boolean",
		Description: "Check or cross icon",
		HTMLElement: "span",
		HTMLClass:   "text-lg",
		Example:     "✓ or ✗",
		TrueIcon:    "✓",
		FalseIcon:   "✗",
	},
	{
		Value:       DisplayTags,
		Label:       "Tag list",
		Description: "Comma-separated values rendered as individual tags",
		HTMLElement: "span",
		HTMLClass:   "inline-flex gap-2 flex-wrap",
		Example:     `<span class="tag">tag1</span> <span class="tag">tag2</span>`,
		TagClass:    "inline-block bg-blue-100 text-blue-800 px-2 py-1 rounded text-sm",
	},
	{
		Value:          DisplayCurrency,
		Label:          "Currency",
		Description:    "Amount with currency symbol and thousands separators",
		HTMLElement:    "span",
		HTMLClass:      "text-right font-mono",
		Example:        "₩1,234,567",
		CurrencySymbol: "₩",
		DecimalPlaces:  &zeroDecimals,
	},
}

var displayTypesByValue = indexByValue(displayTypes, func(d DisplayType) string { return d.Value })

// DisplayTypes returns the full display type catalog in declaration order.
func DisplayTypes() []DisplayType {
	out := make([]DisplayType, len(displayTypes))
	copy(out, displayTypes)
	return out
}

// DisplayTypeByValue looks up a display type by its value.
func DisplayTypeByValue(value string) (DisplayType, bool) {
	d, ok := displayTypesByValue[value]
	return d, ok
}

// CoreDisplayTypes returns only the core rendering families.
func CoreDisplayTypes() []DisplayType {
	var out []DisplayType
	for _, d := range displayTypes {
		if d.IsCore {
			out = append(out, d)
		}
	}
	return out
}

// AdditionalDisplayTypes returns the non-core rendering families.
func AdditionalDisplayTypes() []DisplayType {
	var out []DisplayType
	for _, d := range displayTypes {
		if !d.IsCore {
			out = append(out, d)
		}
	}
	return out
}
