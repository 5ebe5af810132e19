package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"autoboard/internal/catalog"
)

// RecordField is one detail-view field with its raw and formatted value.
type RecordField struct {
	ViewField
	Value     any      `json:"value"`
	Formatted string   `json:"formatted"`
	Tags      []string `json:"tags,omitempty"`
}

// ResolveRecord attaches formatted values to the resolved view fields for one
// record. Formatting never fails: values that do not fit their display type
// fall back to their plain string form.
func ResolveRecord(r *BoardRendering, record map[string]any) []RecordField {
	out := make([]RecordField, 0, len(r.View))
	for _, vf := range r.View {
		f := RecordField{ViewField: vf, Value: record[vf.Name]}
		f.Formatted = formatValue(vf, record[vf.Name])
		if vf.DisplayType == catalog.DisplayTags {
			f.Tags = splitTags(record[vf.Name])
		}
		out = append(out, f)
	}
	return out
}

func formatValue(vf ViewField, v any) string {
	if v == nil {
		return ""
	}
	switch vf.DisplayType {
	case catalog.DisplayDate:
		return formatDate(v, vf.Display.DateFormat)
	case catalog.DisplayNumber:
		return formatNumber(v, vf.Display.DecimalPlaces)
	case catalog.DisplayCurrency:
		return vf.Display.CurrencySymbol + formatNumber(v, vf.Display.DecimalPlaces)
	case catalog.DisplayStars:
		return formatStars(v, vf.Display.MaxRating)
	case catalog.DisplayBoolean:
		return formatBoolean(v, vf.Display.TrueIcon, vf.Display.FalseIcon)
	case catalog.DisplayTags:
		return strings.Join(splitTags(v), ", ")
	default:
		return plainString(v)
	}
}

func formatDate(v any, layout string) string {
	if layout == "" {
		layout = "2006-01-02"
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(layout)
	}
	s := plainString(v)
	for _, parse := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "2006-01-02T15:04"} {
		if t, err := time.Parse(parse, s); err == nil {
			return t.Format(layout)
		}
	}
	return s
}

// formatNumber renders with thousands separators and a fixed number of
// decimal places (default 0).
func formatNumber(v any, decimals *int) string {
	n, ok := toNumber(v)
	if !ok {
		return plainString(v)
	}
	places := 0
	if decimals != nil {
		places = *decimals
	}

	s := strconv.FormatFloat(n, 'f', places, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}

func formatStars(v any, maxRating int) string {
	if maxRating <= 0 {
		maxRating = 5
	}
	n, ok := toNumber(v)
	if !ok {
		return plainString(v)
	}
	filled := int(n)
	if filled < 0 {
		filled = 0
	}
	if filled > maxRating {
		filled = maxRating
	}
	return strings.Repeat("★", filled) + strings.Repeat("☆", maxRating-filled)
}

func formatBoolean(v any, trueIcon, falseIcon string) string {
	truthy := false
	switch b := v.(type) {
	case bool:
		truthy = b
	case int64:
		truthy = b != 0
	case int:
		truthy = b != 0
	case float64:
		truthy = b != 0
	case string:
		truthy = b == "true" || b == "1"
	}
	if truthy {
		return trueIcon
	}
	return falseIcon
}

func splitTags(v any) []string {
	s := plainString(v)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func plainString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
