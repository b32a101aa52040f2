package sexp

import (
	"fmt"

	"github.com/OpenTraceLab/symcheck/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// FindNode returns the first direct child list whose head is the atom key.
// Example: FindNode(prop, "effects") finds (effects ...) inside a property
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	list, ok := s.(*kicadsexp.List)
	if !ok || list == nil {
		return nil, false
	}

	for i := 0; i < list.Len(); i++ {
		if isTagged(list.Get(i), key) {
			return list.Get(i), true
		}
	}

	return nil, false
}

// FindAllNodes finds all direct child lists with the given key, in
// document order
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp

	list, ok := s.(*kicadsexp.List)
	if !ok || list == nil {
		return results
	}

	for i := 0; i < list.Len(); i++ {
		if item := list.Get(i); isTagged(item, key) {
			results = append(results, item)
		}
	}

	return results
}

// HasNode reports whether s has a direct child list tagged key
func HasNode(s kicadsexp.Sexp, key string) bool {
	_, ok := FindNode(s, key)
	return ok
}

// isTagged reports whether s is a list whose first element is the atom key.
// A quoted "symbol" is data, not a tag.
func isTagged(s kicadsexp.Sexp, key string) bool {
	list, ok := s.(*kicadsexp.List)
	if !ok || list == nil {
		return false
	}
	head, ok := list.Head().(kicadsexp.Atom)
	return ok && string(head) == key
}

// GetString extracts the text of the atom or string at the given index.
// Index 0 is the key, 1 is first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	list, ok := s.(*kicadsexp.List)
	if !ok || list == nil {
		return "", fmt.Errorf("expected list, got leaf")
	}

	if index < 0 || index >= list.Len() {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, list.Len())
	}

	text, ok := kicadsexp.Text(list.Get(index))
	if !ok {
		return "", fmt.Errorf("expected atom or string at index %d, got %T", index, list.Get(index))
	}

	return text, nil
}

// GetNodeName returns the head atom of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	list, ok := s.(*kicadsexp.List)
	if !ok || list == nil {
		if atom, ok := s.(kicadsexp.Atom); ok {
			return string(atom), nil
		}
		return "", fmt.Errorf("expected list or atom")
	}

	head, ok := list.Head().(kicadsexp.Atom)
	if !ok {
		return "", fmt.Errorf("expected symbol at head of list")
	}

	return string(head), nil
}

// IsHidden reports whether a node carries an (effects ... (hide ...)) marker.
// Arguments of hide are ignored: (hide), (hide yes) and (hide no) all count.
func IsHidden(s kicadsexp.Sexp) bool {
	effects, ok := FindNode(s, TagEffects)
	if !ok {
		return false
	}
	return HasNode(effects, TagHide)
}

// GetProperty extracts a property from a (property ...) node
func GetProperty(s kicadsexp.Sexp) (Property, error) {
	prop := Property{}

	if !isTagged(s, TagProperty) {
		return prop, fmt.Errorf("expected (property ...) list")
	}

	// Format: (property "key" "value" (at X Y angle) (effects ...))
	key, err := GetString(s, 1)
	if err != nil {
		return prop, fmt.Errorf("failed to parse property key: %w", err)
	}
	prop.Key = key

	value, err := GetString(s, 2)
	if err != nil {
		value = "" // Value can be missing on malformed nodes
	}
	prop.Value = value
	prop.Hidden = IsHidden(s)

	return prop, nil
}

// GetProperties returns every well-formed property of a node, in document order
func GetProperties(s kicadsexp.Sexp) []Property {
	var props []Property
	for _, node := range FindAllNodes(s, TagProperty) {
		prop, err := GetProperty(node)
		if err != nil {
			continue
		}
		props = append(props, prop)
	}
	return props
}

// PropertyNames returns the names of all direct properties, in document order
func PropertyNames(s kicadsexp.Sexp) []string {
	props := GetProperties(s)
	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Key)
	}
	return names
}

// LookupProperty finds the first direct property of component named name.
// Names match on text, whether written as an atom or a quoted string.
// found is false when no such property exists; a property with no value
// element is found with an empty value.
func LookupProperty(component kicadsexp.Sexp, name string) (value string, hidden bool, found bool) {
	for _, node := range FindAllNodes(component, TagProperty) {
		prop, err := GetProperty(node)
		if err != nil || prop.Key != name {
			continue
		}
		return prop.Value, prop.Hidden, true
	}
	return "", false, false
}
