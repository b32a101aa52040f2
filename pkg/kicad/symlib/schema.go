// Package symlib validates the components of KiCad symbol libraries
// (.kicad_sym) against a fixed field schema and aggregates the findings per
// library.
package symlib

// Schema describes which properties a component must carry and how they
// must be displayed.
type Schema struct {
	// RequiredFields must be present with a non-empty value, in report order
	RequiredFields []string
	// OptionalFields are tolerated but not required
	OptionalFields []string
	// VisibleFields must not be hidden; other required fields must be hidden
	VisibleFields []string
	// OptionalIfAbsent required fields are not reported missing when the
	// property does not exist at all. Present ones are still checked.
	OptionalIfAbsent []string
	// AbsentFailsVisibility makes an absent required field (other than the
	// visible and optional-if-absent ones) also fail the visibility check,
	// since an absent property is not hidden.
	AbsentFailsVisibility bool

	allowed map[string]bool
	visible map[string]bool
	optAbs  map[string]bool
}

// DefaultSchema returns the compiled-in field schema.
func DefaultSchema() *Schema {
	return NewSchema(Schema{
		RequiredFields: []string{
			"Reference",
			"Value",
			"Footprint",
			"Description",
			"Package",
			"Manufacturer",
			"Manufacturer Part Number",
			"Datasheet",
		},
		OptionalFields:        []string{"ki_keywords", "ki_fp_filters", "ki_description"},
		VisibleFields:         []string{"Reference", "Value"},
		OptionalIfAbsent:      []string{"Datasheet"},
		AbsentFailsVisibility: true,
	})
}

// NewSchema copies def and indexes its field lists. The returned schema is
// never modified afterwards.
func NewSchema(def Schema) *Schema {
	s := &Schema{
		RequiredFields:        append([]string(nil), def.RequiredFields...),
		OptionalFields:        append([]string(nil), def.OptionalFields...),
		VisibleFields:         append([]string(nil), def.VisibleFields...),
		OptionalIfAbsent:      append([]string(nil), def.OptionalIfAbsent...),
		AbsentFailsVisibility: def.AbsentFailsVisibility,
		allowed:               make(map[string]bool),
		visible:               make(map[string]bool),
		optAbs:                make(map[string]bool),
	}

	for _, f := range s.RequiredFields {
		s.allowed[f] = true
	}
	for _, f := range s.OptionalFields {
		s.allowed[f] = true
	}
	for _, f := range s.VisibleFields {
		s.visible[f] = true
	}
	for _, f := range s.OptionalIfAbsent {
		s.optAbs[f] = true
	}

	return s
}

// IsAllowed reports whether name is a required or optional field
func (s *Schema) IsAllowed(name string) bool { return s.allowed[name] }

// MustBeVisible reports whether the field must be shown on the schematic
func (s *Schema) MustBeVisible(name string) bool { return s.visible[name] }

// IsOptionalIfAbsent reports whether absence of the field is tolerated
func (s *Schema) IsOptionalIfAbsent(name string) bool { return s.optAbs[name] }
