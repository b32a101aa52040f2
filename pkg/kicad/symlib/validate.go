package symlib

import (
	"github.com/OpenTraceLab/symcheck/pkg/kicad/sexp"
	"github.com/OpenTraceLab/symcheck/pkg/kicad/sexp/kicadsexp"
)

// Verdict is the validation result for one component
type Verdict struct {
	Name              string   `json:"name"`
	Extends           string   `json:"extends,omitempty"` // parent of a derived symbol
	MissingFields     []string `json:"missing_fields"`
	HasExtraFields    bool     `json:"has_extra_fields"`
	ExtraFields       []string `json:"extra_fields,omitempty"`
	VisibilityCorrect bool     `json:"visibility_correct"`
}

// Complete reports whether the component passed every check
func (v Verdict) Complete() bool {
	return len(v.MissingFields) == 0 && !v.HasExtraFields && v.VisibilityCorrect
}

// IsMissing reports whether field was recorded as missing
func (v Verdict) IsMissing(field string) bool {
	for _, f := range v.MissingFields {
		if f == field {
			return true
		}
	}
	return false
}

// ComponentName returns the name of a (symbol "name" ...) node, or "" when
// the node has no name element.
func ComponentName(component kicadsexp.Sexp) string {
	name, err := sexp.GetString(component, 1)
	if err != nil {
		return ""
	}
	return name
}

// Validate checks one component against schema. Malformed sub-structure is
// never an error: unreadable properties count as absent.
func Validate(schema *Schema, component kicadsexp.Sexp) Verdict {
	v := Verdict{
		Name:              ComponentName(component),
		MissingFields:     []string{},
		VisibilityCorrect: true,
	}

	if node, ok := sexp.FindNode(component, sexp.TagExtends); ok {
		v.Extends, _ = sexp.GetString(node, 1)
	}

	for _, field := range schema.RequiredFields {
		value, hidden, found := sexp.LookupProperty(component, field)

		if !found {
			if schema.IsOptionalIfAbsent(field) {
				continue
			}
			v.MissingFields = append(v.MissingFields, field)
			if schema.AbsentFailsVisibility && !schema.MustBeVisible(field) {
				v.VisibilityCorrect = false
			}
			continue
		}

		if value == "" {
			v.MissingFields = append(v.MissingFields, field)
		}

		if hidden == schema.MustBeVisible(field) {
			v.VisibilityCorrect = false
		}
	}

	for _, name := range sexp.PropertyNames(component) {
		if !schema.IsAllowed(name) {
			v.HasExtraFields = true
			v.ExtraFields = append(v.ExtraFields, name)
		}
	}

	return v
}
