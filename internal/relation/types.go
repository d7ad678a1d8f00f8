// Package relation holds the data model of the normalization engine:
// attributes, functional and multivalued dependencies, relations, normal
// forms, and the result types produced by decomposition.
//
// Dependencies are immutable values. Operations that conceptually widen a
// dependency's side (FD projection, minimal cover) build replacement values
// instead of mutating shared sets, so dependency lists can safely be reused
// across concurrent analysis runs.
package relation

import "fmt"

// Attribute is a relation attribute. Identity is the name alone: two
// attributes with the same name are equal for all set operations, regardless
// of declared data type or key flag.
type Attribute struct {
	Name         string
	DataType     string
	IsPrimaryKey bool
}

// NewAttribute returns an attribute with the default VARCHAR data type.
func NewAttribute(name string) Attribute {
	return Attribute{Name: name, DataType: "VARCHAR"}
}

func (a Attribute) String() string { return a.Name }

// FunctionalDependency is an FD: determinant → dependent. Both sides are
// non-empty; use NewFunctionalDependency to enforce that for external input.
type FunctionalDependency struct {
	Determinant AttributeSet
	Dependent   AttributeSet
}

// NewFunctionalDependency validates and builds an FD.
func NewFunctionalDependency(determinant, dependent AttributeSet) (FunctionalDependency, error) {
	if determinant.Len() == 0 {
		return FunctionalDependency{}, fmt.Errorf("%w: empty determinant", ErrInvalidDependency)
	}
	if dependent.Len() == 0 {
		return FunctionalDependency{}, fmt.Errorf("%w: empty dependent", ErrInvalidDependency)
	}
	return FunctionalDependency{Determinant: determinant.Clone(), Dependent: dependent.Clone()}, nil
}

// IsTrivial reports whether the dependent is contained in the determinant.
func (fd FunctionalDependency) IsTrivial() bool {
	return fd.Dependent.SubsetOf(fd.Determinant)
}

// IsPartialOf reports whether the FD is a partial dependency with respect to
// the given key: its determinant is a proper subset of the key.
func (fd FunctionalDependency) IsPartialOf(key AttributeSet) bool {
	return fd.Determinant.SubsetOf(key) && !fd.Determinant.Equal(key)
}

// WithDependent returns a copy of the FD with the given dependent set.
func (fd FunctionalDependency) WithDependent(dependent AttributeSet) FunctionalDependency {
	return FunctionalDependency{Determinant: fd.Determinant, Dependent: dependent}
}

func (fd FunctionalDependency) String() string {
	return fmt.Sprintf("%s → %s", fd.Determinant, fd.Dependent)
}

// MultivaluedDependency is an MVD: determinant →→ dependent.
type MultivaluedDependency struct {
	Determinant AttributeSet
	Dependent   AttributeSet
}

// NewMultivaluedDependency validates and builds an MVD.
func NewMultivaluedDependency(determinant, dependent AttributeSet) (MultivaluedDependency, error) {
	if determinant.Len() == 0 {
		return MultivaluedDependency{}, fmt.Errorf("%w: empty determinant", ErrInvalidDependency)
	}
	if dependent.Len() == 0 {
		return MultivaluedDependency{}, fmt.Errorf("%w: empty dependent", ErrInvalidDependency)
	}
	return MultivaluedDependency{Determinant: determinant.Clone(), Dependent: dependent.Clone()}, nil
}

// IsTrivialIn reports whether the MVD is trivial within the given attribute
// universe: X →→ Y is trivial when R − X − Y is empty.
func (mvd MultivaluedDependency) IsTrivialIn(all AttributeSet) bool {
	return all.Diff(mvd.Determinant).Diff(mvd.Dependent).Len() == 0
}

func (mvd MultivaluedDependency) String() string {
	return fmt.Sprintf("%s →→ %s", mvd.Determinant, mvd.Dependent)
}

// Relation is a named relation schema: an ordered attribute list (order is
// display-only) plus its declared functional and multivalued dependencies.
// Analysis and decomposition treat a Relation as an immutable snapshot;
// decomposition produces new Relation values and never touches the input.
type Relation struct {
	Name       string
	Attributes []Attribute
	FDs        []FunctionalDependency
	MVDs       []MultivaluedDependency
}

// NewRelation validates and builds a relation. Attribute names must be
// unique, and every dependency side may reference only attributes of the
// relation. Closures silently ignore unknown attributes, so admitting them
// here would make later results quietly wrong.
func NewRelation(name string, attrs []Attribute, fds []FunctionalDependency, mvds []MultivaluedDependency) (*Relation, error) {
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if a.Name == "" {
			return nil, fmt.Errorf("%w: attribute with empty name", ErrInvalidRelation)
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("%w: duplicate attribute %q", ErrInvalidRelation, a.Name)
		}
		seen[a.Name] = true
	}

	checkSide := func(kind string, side AttributeSet) error {
		if side.Len() == 0 {
			return fmt.Errorf("%w: empty %s", ErrInvalidDependency, kind)
		}
		for _, name := range side.Names() {
			if !seen[name] {
				return fmt.Errorf("%w: %s references unknown attribute %q", ErrInvalidDependency, kind, name)
			}
		}
		return nil
	}
	for _, fd := range fds {
		if err := checkSide("determinant", fd.Determinant); err != nil {
			return nil, err
		}
		if err := checkSide("dependent", fd.Dependent); err != nil {
			return nil, err
		}
	}
	for _, mvd := range mvds {
		if err := checkSide("determinant", mvd.Determinant); err != nil {
			return nil, err
		}
		if err := checkSide("dependent", mvd.Dependent); err != nil {
			return nil, err
		}
	}

	return &Relation{Name: name, Attributes: attrs, FDs: fds, MVDs: mvds}, nil
}

// AttributeSet returns all attributes of the relation as a set.
func (r *Relation) AttributeSet() AttributeSet {
	return NewAttributeSet(r.Attributes...)
}

// PrimaryKey returns the attributes flagged as primary key.
func (r *Relation) PrimaryKey() AttributeSet {
	pk := make(AttributeSet)
	for _, a := range r.Attributes {
		if a.IsPrimaryKey {
			pk.Add(a)
		}
	}
	return pk
}

// AttributeByName looks up an attribute by name.
func (r *Relation) AttributeByName(name string) (Attribute, bool) {
	for _, a := range r.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// String renders the schema as "Name(A, B, C)" in declaration order.
func (r *Relation) String() string {
	names := make([]string, len(r.Attributes))
	for i, a := range r.Attributes {
		names[i] = a.Name
	}
	out := r.Name + "("
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out + ")"
}
