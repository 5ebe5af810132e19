package board

import (
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"

	"autoboard/internal/metadata"
)

// checkFormConditions compiles every condition expression in the form aspect
// so a broken expression is rejected at save time, not at record-write time.
func checkFormConditions(fa metadata.FormAspect) []FieldError {
	var errs []FieldError
	for _, f := range fa.Fields {
		if f.Condition == "" {
			continue
		}
		if _, err := expr.Compile(f.Condition, expr.AsBool()); err != nil {
			errs = append(errs, FieldError{
				Field:   f.Name,
				Rule:    "condition",
				Message: fmt.Sprintf("invalid condition expression: %v", err),
			})
		}
	}
	return errs
}

// validateValues enforces the form aspect's declared checks (required flags,
// numeric bounds, length limits, condition expressions) on a record payload.
// Boards whose wizard never reached step 3 have no form aspect and skip all
// checks; storage-type validation still applies at the SQL level.
func validateValues(values Record, ta *metadata.TableAspect, fa *metadata.FormAspect, isCreate bool) []FieldError {
	if fa == nil {
		return nil
	}

	var errs []FieldError
	for _, f := range fa.Fields {
		if !ta.HasColumn(f.Name) {
			continue
		}
		val, present := values[f.Name]

		if isCreate && f.Required && (!present || val == nil || val == "") {
			errs = append(errs, FieldError{Field: f.Name, Rule: "required", Message: "value is required"})
			continue
		}
		if !present || val == nil {
			continue
		}

		if f.Length != nil {
			if s, ok := val.(string); ok && len([]rune(s)) > *f.Length {
				errs = append(errs, FieldError{
					Field:   f.Name,
					Rule:    "length",
					Message: fmt.Sprintf("must be at most %d characters", *f.Length),
				})
			}
		}

		if f.MinValue != nil || f.MaxValue != nil {
			if n, ok := toFloat(val); ok {
				if f.MinValue != nil && n < *f.MinValue {
					errs = append(errs, FieldError{
						Field:   f.Name,
						Rule:    "min",
						Message: fmt.Sprintf("must be at least %v", *f.MinValue),
					})
				}
				if f.MaxValue != nil && n > *f.MaxValue {
					errs = append(errs, FieldError{
						Field:   f.Name,
						Rule:    "max",
						Message: fmt.Sprintf("must be at most %v", *f.MaxValue),
					})
				}
			}
		}

		if f.Condition != "" {
			if detail := evalCondition(f, val, values); detail != nil {
				errs = append(errs, *detail)
			}
		}
	}
	return errs
}

func evalCondition(f metadata.FormField, val any, record Record) *FieldError {
	prog, err := expr.Compile(f.Condition, expr.AsBool())
	if err != nil {
		return &FieldError{Field: f.Name, Rule: "condition", Message: fmt.Sprintf("invalid condition: %v", err)}
	}

	env := map[string]any{
		"value":  val,
		"record": map[string]any(record),
	}
	out, err := expr.Run(prog, env)
	if err != nil {
		return &FieldError{Field: f.Name, Rule: "condition", Message: fmt.Sprintf("condition failed: %v", err)}
	}
	if ok, _ := out.(bool); !ok {
		msg := f.HelpText
		if msg == "" {
			msg = "value does not satisfy the field condition"
		}
		return &FieldError{Field: f.Name, Rule: "condition", Message: msg}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
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
