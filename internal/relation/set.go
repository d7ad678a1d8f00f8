package relation

import (
	"sort"
	"strings"
)

// AttributeSet is a set of attributes keyed by attribute name. Two attributes
// with the same name are the same set member regardless of declared type.
// All derived sets (unions, intersections, differences) are fresh maps; the
// receiver is never modified by the set operations below except Add.
type AttributeSet map[string]Attribute

// NewAttributeSet builds a set from the given attributes. On duplicate names
// the first attribute wins.
func NewAttributeSet(attrs ...Attribute) AttributeSet {
	s := make(AttributeSet, len(attrs))
	for _, a := range attrs {
		if _, ok := s[a.Name]; !ok {
			s[a.Name] = a
		}
	}
	return s
}

// Add inserts an attribute, keeping an existing entry with the same name.
func (s AttributeSet) Add(a Attribute) {
	if _, ok := s[a.Name]; !ok {
		s[a.Name] = a
	}
}

// Contains reports whether the set holds an attribute with the given name.
func (s AttributeSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of attributes in the set.
func (s AttributeSet) Len() int { return len(s) }

// Clone returns an independent copy of the set.
func (s AttributeSet) Clone() AttributeSet {
	c := make(AttributeSet, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Union returns a new set holding the attributes of both sets.
func (s AttributeSet) Union(other AttributeSet) AttributeSet {
	u := s.Clone()
	for _, a := range other {
		u.Add(a)
	}
	return u
}

// Intersect returns a new set holding the attributes present in both sets.
func (s AttributeSet) Intersect(other AttributeSet) AttributeSet {
	r := make(AttributeSet)
	for name, a := range s {
		if other.Contains(name) {
			r[name] = a
		}
	}
	return r
}

// Diff returns a new set holding the attributes of s absent from other.
func (s AttributeSet) Diff(other AttributeSet) AttributeSet {
	r := make(AttributeSet)
	for name, a := range s {
		if !other.Contains(name) {
			r[name] = a
		}
	}
	return r
}

// SubsetOf reports whether every attribute of s is in other.
func (s AttributeSet) SubsetOf(other AttributeSet) bool {
	for name := range s {
		if !other.Contains(name) {
			return false
		}
	}
	return true
}

// ProperSubsetOf reports whether s is a subset of other and not equal to it.
func (s AttributeSet) ProperSubsetOf(other AttributeSet) bool {
	return len(s) < len(other) && s.SubsetOf(other)
}

// Equal reports whether both sets hold exactly the same attribute names.
func (s AttributeSet) Equal(other AttributeSet) bool {
	return len(s) == len(other) && s.SubsetOf(other)
}

// Names returns the attribute names in sorted order. Every piece of the
// engine that needs a stable iteration order (rendering, subset enumeration,
// tie-breaking between candidate keys) goes through this.
func (s AttributeSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns the attributes ordered by name.
func (s AttributeSet) Sorted() []Attribute {
	attrs := make([]Attribute, 0, len(s))
	for _, name := range s.Names() {
		attrs = append(attrs, s[name])
	}
	return attrs
}

// String renders the set as "{A, B, C}" in sorted name order.
func (s AttributeSet) String() string {
	return "{" + strings.Join(s.Names(), ", ") + "}"
}
