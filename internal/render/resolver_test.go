package render

import (
	"testing"

	"autoboard/internal/catalog"
	"autoboard/internal/metadata"
)

func diaryTableAspect() *metadata.TableAspect {
	return &metadata.TableAspect{
		ID:   1,
		Name: "Diary",
		Columns: []metadata.ColumnDef{
			{Name: "col1", Label: "Title", DataType: "string"},
			{Name: "col2", Label: "Mood", DataType: "integer"},
			{Name: "col3", Label: "Published", DataType: "boolean"},
		},
	}
}

func TestResolveDefaultsOnly(t *testing.T) {
	r := Resolve(diaryTableAspect(), nil, nil, nil)

	if r.BoardID != 1 || r.BoardName != "Diary" {
		t.Fatalf("board identity not carried: %+v", r)
	}

	// List: all columns, default page size, recommended display types.
	if len(r.List.Columns) != 3 {
		t.Fatalf("expected 3 list columns, got %d", len(r.List.Columns))
	}
	if r.List.PageSize != 20 {
		t.Errorf("expected default page size 20, got %d", r.List.PageSize)
	}
	if r.List.Columns[0].DisplayType != catalog.DisplayText {
		t.Errorf("col1: expected display %s, got %s", catalog.DisplayText, r.List.Columns[0].DisplayType)
	}
	if r.List.Columns[1].DisplayType != catalog.DisplayNumber {
		t.Errorf("col2: expected display %s, got %s", catalog.DisplayNumber, r.List.Columns[1].DisplayType)
	}

	// Form: recommended element types in field order.
	if len(r.Create) != 3 {
		t.Fatalf("expected 3 create fields, got %d", len(r.Create))
	}
	if r.Create[0].ElementType != catalog.ElementInputText {
		t.Errorf("col1: expected element %s, got %s", catalog.ElementInputText, r.Create[0].ElementType)
	}
	if r.Create[1].ElementType != catalog.ElementInputInteger {
		t.Errorf("col2: expected element %s, got %s", catalog.ElementInputInteger, r.Create[1].ElementType)
	}
	if r.Create[2].ElementType != catalog.ElementCheckbox {
		t.Errorf("col3: expected element %s, got %s", catalog.ElementCheckbox, r.Create[2].ElementType)
	}

	// View: recommended display types with catalog descriptors attached.
	if len(r.View) != 3 {
		t.Fatalf("expected 3 view fields, got %d", len(r.View))
	}
	if r.View[2].DisplayType != catalog.DisplayBoolean {
		t.Errorf("col3: expected display %s, got %s", catalog.DisplayBoolean, r.View[2].DisplayType)
	}
	if r.View[2].Display.TrueIcon == "" {
		t.Error("boolean view field carries no descriptor")
	}
}

func TestResolveSkipsStaleReferences(t *testing.T) {
	la := &metadata.ListAspect{
		Columns:       []string{"col1", "col9"},
		SearchColumns: []string{"col9"},
		DefaultSort:   &metadata.SortSpec{Column: "col9", Order: "asc"},
		PageSize:      50,
	}
	fa := &metadata.FormAspect{
		Fields: []metadata.FormField{
			{Name: "col9", ElementType: catalog.ElementInputText},
			{Name: "col1", ElementType: catalog.ElementInputHTML},
		},
	}
	va := &metadata.ViewAspect{
		Fields: []metadata.ViewField{
			{Name: "col9", DisplayType: catalog.DisplayStars},
		},
	}

	r := Resolve(diaryTableAspect(), la, fa, va)

	if len(r.List.Columns) != 1 || r.List.Columns[0].Name != "col1" {
		t.Fatalf("stale list column not skipped: %+v", r.List.Columns)
	}
	if len(r.List.SearchColumns) != 0 {
		t.Errorf("stale search column kept: %v", r.List.SearchColumns)
	}
	if r.List.DefaultSort != nil {
		t.Errorf("stale default sort kept: %+v", r.List.DefaultSort)
	}
	if r.List.PageSize != 50 {
		t.Errorf("expected page size 50, got %d", r.List.PageSize)
	}

	// The form renders every current column; col1 takes the configured
	// element, the rest fall back to recommendations.
	if len(r.Create) != 3 {
		t.Fatalf("expected 3 create fields, got %d", len(r.Create))
	}
	if r.Create[0].ElementType != catalog.ElementInputHTML {
		t.Errorf("col1: expected configured element, got %s", r.Create[0].ElementType)
	}
}

func TestResolveCreateVsEditDefaults(t *testing.T) {
	fa := &metadata.FormAspect{
		Fields: []metadata.FormField{
			{Name: "col2", ElementType: catalog.ElementInputInteger, DefaultValue: 3},
		},
	}

	r := Resolve(diaryTableAspect(), nil, fa, nil)

	if r.Create[1].DefaultValue != 3 {
		t.Errorf("create form should carry the default, got %v", r.Create[1].DefaultValue)
	}
	if r.Edit[1].DefaultValue != nil {
		t.Errorf("edit form should not carry defaults, got %v", r.Edit[1].DefaultValue)
	}
}

func TestResolveViewOverrides(t *testing.T) {
	two := 2
	va := &metadata.ViewAspect{
		Fields: []metadata.ViewField{
			{Name: "col2", DisplayType: catalog.DisplayCurrency, DecimalPlaces: &two, CurrencySymbol: "$"},
			{Name: "col3", DisplayType: catalog.DisplayBoolean, TrueText: "yes", FalseText: "no"},
		},
	}

	r := Resolve(diaryTableAspect(), nil, nil, va)

	mood := r.View[1]
	if mood.DisplayType != catalog.DisplayCurrency {
		t.Fatalf("expected currency display, got %s", mood.DisplayType)
	}
	if mood.Display.CurrencySymbol != "$" {
		t.Errorf("expected overridden symbol $, got %s", mood.Display.CurrencySymbol)
	}
	if mood.Display.DecimalPlaces == nil || *mood.Display.DecimalPlaces != 2 {
		t.Errorf("expected 2 decimal places, got %v", mood.Display.DecimalPlaces)
	}

	published := r.View[2]
	if published.Display.TrueIcon != "yes" || published.Display.FalseIcon != "no" {
		t.Errorf("expected overridden icons, got %s/%s", published.Display.TrueIcon, published.Display.FalseIcon)
	}

	// The list picks up per-field view display types.
	if r.List.Columns[1].DisplayType != catalog.DisplayCurrency {
		t.Errorf("expected list to use view display type, got %s", r.List.Columns[1].DisplayType)
	}
}

func TestResolveUnknownDisplayTypeFallsBack(t *testing.T) {
	va := &metadata.ViewAspect{
		Fields: []metadata.ViewField{{Name: "col1", DisplayType: "hologram"}},
	}

	r := Resolve(diaryTableAspect(), nil, nil, va)

	if r.View[0].DisplayType != catalog.DisplayText {
		t.Errorf("expected fallback to text, got %s", r.View[0].DisplayType)
	}
}
