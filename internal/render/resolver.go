// Package render composes stored board aspects into per-context rendering
// directives for the four UI surfaces: list, create form, edit form and
// detail view. It is read-only and has no side effects.
package render

import (
	"autoboard/internal/catalog"
	"autoboard/internal/metadata"
)

// ListColumn is one column shown in the record list.
type ListColumn struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	DataType    string `json:"data_type"`
	DisplayType string `json:"display_type"`
}

// ListConfig drives the record list view.
type ListConfig struct {
	Columns       []ListColumn       `json:"columns"`
	PageSize      int                `json:"page_size"`
	DefaultSort   *metadata.SortSpec `json:"default_sort,omitempty"`
	SearchEnabled bool               `json:"search_enabled"`
	SearchColumns []string           `json:"search_columns,omitempty"`
}

// FormField drives one input on the create or edit form.
type FormField struct {
	Name         string              `json:"name"`
	Label        string              `json:"label"`
	DataType     string              `json:"data_type"`
	ElementType  string              `json:"element_type"`
	Element      catalog.ElementType `json:"element"`
	Required     bool                `json:"required"`
	DefaultValue any                 `json:"default_value,omitempty"`
	Length       *int                `json:"length,omitempty"`
	MinValue     *float64            `json:"min_value,omitempty"`
	MaxValue     *float64            `json:"max_value,omitempty"`
	Options      []string            `json:"options,omitempty"`
	HelpText     string              `json:"help_text,omitempty"`
	Width        string              `json:"width,omitempty"`
	Section      string              `json:"section,omitempty"`
}

// ViewField drives one read-only field on the detail view.
type ViewField struct {
	Name        string              `json:"name"`
	Label       string              `json:"label"`
	DataType    string              `json:"data_type"`
	DisplayType string              `json:"display_type"`
	Display     catalog.DisplayType `json:"display"`
	Section     string              `json:"section,omitempty"`
}

// BoardRendering is the resolved configuration for all four UI contexts.
type BoardRendering struct {
	BoardID   int64       `json:"board_id"`
	BoardName string      `json:"board_name"`
	List      ListConfig  `json:"list"`
	Create    []FormField `json:"create"`
	Edit      []FormField `json:"edit"`
	View      []ViewField `json:"view"`
}

// Resolve assembles rendering directives from the four aspects. The table
// aspect is authoritative: fields referenced by the other aspects that no
// longer exist in it are skipped, never an error. Missing optional aspects
// fall back to catalog-recommended defaults, the same defaults the wizard
// pre-selects.
func Resolve(ta *metadata.TableAspect, la *metadata.ListAspect, fa *metadata.FormAspect, va *metadata.ViewAspect) *BoardRendering {
	r := &BoardRendering{
		BoardID:   ta.ID,
		BoardName: ta.Name,
	}
	r.List = resolveList(ta, la, va)
	r.Create = resolveForm(ta, fa, true)
	r.Edit = resolveForm(ta, fa, false)
	r.View = resolveView(ta, va)
	return r
}

func resolveList(ta *metadata.TableAspect, la *metadata.ListAspect, va *metadata.ViewAspect) ListConfig {
	cfg := ListConfig{PageSize: 20}

	names := ta.ColumnNames()
	if la != nil {
		cfg.SearchEnabled = la.SearchEnabled
		if la.PageSize > 0 {
			cfg.PageSize = la.PageSize
		}
		if la.DefaultSort != nil && ta.HasColumn(la.DefaultSort.Column) {
			cfg.DefaultSort = la.DefaultSort
		}
		for _, c := range la.SearchColumns {
			if ta.HasColumn(c) {
				cfg.SearchColumns = append(cfg.SearchColumns, c)
			}
		}
		if len(la.Columns) > 0 {
			names = la.Columns
		}
	}

	for _, name := range names {
		col := ta.Column(name)
		if col == nil {
			continue
		}
		display := catalog.RecommendedDisplayType(col.DataType)
		if va != nil {
			for _, vf := range va.Fields {
				if vf.Name == name && vf.DisplayType != "" {
					display = vf.DisplayType
				}
			}
		}
		cfg.Columns = append(cfg.Columns, ListColumn{
			Name:        col.Name,
			Label:       col.Label,
			DataType:    col.DataType,
			DisplayType: display,
		})
	}
	return cfg
}

func resolveForm(ta *metadata.TableAspect, fa *metadata.FormAspect, withDefaults bool) []FormField {
	var fields []FormField
	for _, col := range ta.Columns {
		f := FormField{
			Name:        col.Name,
			Label:       col.Label,
			DataType:    col.DataType,
			ElementType: catalog.RecommendedElementType(col.DataType),
		}
		if fa != nil {
			if cfg := fa.Field(col.Name); cfg != nil {
				if cfg.ElementType != "" {
					f.ElementType = cfg.ElementType
				}
				f.Required = cfg.Required
				f.Length = cfg.Length
				f.MinValue = cfg.MinValue
				f.MaxValue = cfg.MaxValue
				f.Options = cfg.Options
				f.HelpText = cfg.HelpText
				f.Width = cfg.Width
				f.Section = cfg.Section
				if withDefaults {
					f.DefaultValue = cfg.DefaultValue
				}
			}
		}
		if el, ok := catalog.ElementTypeByValue(f.ElementType); ok {
			f.Element = el
		} else {
			f.Element, _ = catalog.ElementTypeByValue(catalog.ElementInputText)
		}
		fields = append(fields, f)
	}
	return fields
}

func resolveView(ta *metadata.TableAspect, va *metadata.ViewAspect) []ViewField {
	var fields []ViewField
	for _, col := range ta.Columns {
		f := ViewField{
			Name:        col.Name,
			Label:       col.Label,
			DataType:    col.DataType,
			DisplayType: catalog.RecommendedDisplayType(col.DataType),
		}
		if va != nil {
			for _, vf := range va.Fields {
				if vf.Name != col.Name {
					continue
				}
				if vf.DisplayType != "" {
					f.DisplayType = vf.DisplayType
				}
				f.Section = vf.Section
			}
		}
		display, ok := catalog.DisplayTypeByValue(f.DisplayType)
		if !ok {
			display, _ = catalog.DisplayTypeByValue(catalog.DisplayText)
			f.DisplayType = catalog.DisplayText
		}
		if va != nil {
			display = applyViewOverrides(display, va, col.Name)
		}
		f.Display = display
		fields = append(fields, f)
	}
	return fields
}

// applyViewOverrides merges per-field display options from the view aspect
// over the catalog defaults.
func applyViewOverrides(d catalog.DisplayType, va *metadata.ViewAspect, name string) catalog.DisplayType {
	for _, vf := range va.Fields {
		if vf.Name != name {
			continue
		}
		if vf.DateFormat != "" {
			d.DateFormat = vf.DateFormat
		}
		if vf.DecimalPlaces != nil {
			d.DecimalPlaces = vf.DecimalPlaces
		}
		if vf.MaxRating > 0 {
			d.MaxRating = vf.MaxRating
		}
		if vf.CurrencySymbol != "" {
			d.CurrencySymbol = vf.CurrencySymbol
		}
		if vf.TrueText != "" {
			d.TrueIcon = vf.TrueText
		}
		if vf.FalseText != "" {
			d.FalseIcon = vf.FalseText
		}
	}
	return d
}
