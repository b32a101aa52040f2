// Package sexp provides navigation over parsed KiCad S-expression trees.
// Lookups are one level deep: callers compose them to reach nested nodes
// such as property -> effects -> hide.
package sexp

// Node tags used by symbol libraries
const (
	TagSymbol   = "symbol"
	TagProperty = "property"
	TagEffects  = "effects"
	TagHide     = "hide"
	TagExtends  = "extends"
)

// Property represents a key-value property (used in symbols, footprints, etc.)
type Property struct {
	Key    string
	Value  string
	Hidden bool // (effects ... (hide ...)) present
}
