package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(names ...string) AttributeSet {
	attrs := make([]Attribute, len(names))
	for i, n := range names {
		attrs[i] = NewAttribute(n)
	}
	return NewAttributeSet(attrs...)
}

func TestAttributeSetOperations(t *testing.T) {
	s := set("A", "B", "C")

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("A"))
	assert.False(t, s.Contains("D"))

	assert.True(t, set("A", "B").SubsetOf(s))
	assert.True(t, set("A", "B").ProperSubsetOf(s))
	assert.False(t, s.ProperSubsetOf(s))
	assert.True(t, s.SubsetOf(s))

	assert.True(t, s.Union(set("D")).Equal(set("A", "B", "C", "D")))
	assert.True(t, s.Intersect(set("B", "C", "D")).Equal(set("B", "C")))
	assert.True(t, s.Diff(set("B")).Equal(set("A", "C")))

	// Operands stay untouched.
	assert.Equal(t, 3, s.Len())
}

func TestAttributeSetCloneIsIndependent(t *testing.T) {
	s := set("A", "B")
	c := s.Clone()
	c.Add(NewAttribute("C"))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, c.Len())
}

func TestAttributeSetAddFirstWins(t *testing.T) {
	s := NewAttributeSet(Attribute{Name: "A", DataType: "INTEGER"})
	s.Add(Attribute{Name: "A", DataType: "TEXT"})

	a, ok := s["A"], s.Contains("A")
	require.True(t, ok)
	assert.Equal(t, "INTEGER", a.DataType)
}

func TestAttributeSetRendering(t *testing.T) {
	s := set("B", "A", "C")

	assert.Equal(t, []string{"A", "B", "C"}, s.Names())
	assert.Equal(t, "{A, B, C}", s.String())
}

func TestNewFunctionalDependencyValidation(t *testing.T) {
	_, err := NewFunctionalDependency(set(), set("B"))
	assert.ErrorIs(t, err, ErrInvalidDependency)

	_, err = NewFunctionalDependency(set("A"), set())
	assert.ErrorIs(t, err, ErrInvalidDependency)

	fd, err := NewFunctionalDependency(set("A"), set("B"))
	require.NoError(t, err)
	assert.Equal(t, "{A} → {B}", fd.String())
}

func TestFunctionalDependencyCopiesSides(t *testing.T) {
	det := set("A")
	fd, err := NewFunctionalDependency(det, set("B"))
	require.NoError(t, err)

	det.Add(NewAttribute("X"))
	assert.Equal(t, 1, fd.Determinant.Len())
}

func TestFunctionalDependencyIsTrivial(t *testing.T) {
	tests := []struct {
		determinant, dependent AttributeSet
		want                   bool
	}{
		{set("A", "B"), set("A"), true},
		{set("A"), set("A"), true},
		{set("A"), set("B"), false},
		{set("A"), set("A", "B"), false},
	}

	for _, tt := range tests {
		fd := FunctionalDependency{Determinant: tt.determinant, Dependent: tt.dependent}
		assert.Equal(t, tt.want, fd.IsTrivial(), fd.String())
	}
}

func TestFunctionalDependencyIsPartialOf(t *testing.T) {
	fd := FunctionalDependency{Determinant: set("A"), Dependent: set("C")}

	assert.True(t, fd.IsPartialOf(set("A", "B")))
	assert.False(t, fd.IsPartialOf(set("A")))
	assert.False(t, fd.IsPartialOf(set("B", "C")))
}

func TestMultivaluedDependencyIsTrivialIn(t *testing.T) {
	mvd, err := NewMultivaluedDependency(set("A"), set("B"))
	require.NoError(t, err)

	assert.True(t, mvd.IsTrivialIn(set("A", "B")))
	assert.False(t, mvd.IsTrivialIn(set("A", "B", "C")))
	assert.Equal(t, "{A} →→ {B}", mvd.String())
}

func TestNewRelationValidation(t *testing.T) {
	attrs := []Attribute{NewAttribute("A"), NewAttribute("B")}

	tests := []struct {
		name    string
		attrs   []Attribute
		fds     []FunctionalDependency
		mvds    []MultivaluedDependency
		wantErr error
	}{
		{
			name:  "valid",
			attrs: attrs,
			fds:   []FunctionalDependency{{Determinant: set("A"), Dependent: set("B")}},
		},
		{
			name:    "duplicate attribute",
			attrs:   []Attribute{NewAttribute("A"), NewAttribute("A")},
			wantErr: ErrInvalidRelation,
		},
		{
			name:    "empty attribute name",
			attrs:   []Attribute{NewAttribute("")},
			wantErr: ErrInvalidRelation,
		},
		{
			name:    "fd over unknown attribute",
			attrs:   attrs,
			fds:     []FunctionalDependency{{Determinant: set("A"), Dependent: set("Z")}},
			wantErr: ErrInvalidDependency,
		},
		{
			name:    "fd with empty determinant",
			attrs:   attrs,
			fds:     []FunctionalDependency{{Determinant: set(), Dependent: set("B")}},
			wantErr: ErrInvalidDependency,
		},
		{
			name:    "mvd over unknown attribute",
			attrs:   attrs,
			mvds:    []MultivaluedDependency{{Determinant: set("Z"), Dependent: set("B")}},
			wantErr: ErrInvalidDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRelation("r", tt.attrs, tt.fds, tt.mvds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRelationAccessors(t *testing.T) {
	attrs := []Attribute{
		{Name: "id", DataType: "INTEGER", IsPrimaryKey: true},
		{Name: "name", DataType: "TEXT"},
	}
	rel, err := NewRelation("users", attrs, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "users(id, name)", rel.String())
	assert.True(t, rel.PrimaryKey().Equal(set("id")))
	assert.True(t, rel.AttributeSet().Equal(set("id", "name")))

	a, ok := rel.AttributeByName("name")
	require.True(t, ok)
	assert.Equal(t, "TEXT", a.DataType)

	_, ok = rel.AttributeByName("missing")
	assert.False(t, ok)
}

func TestNormalFormString(t *testing.T) {
	tests := []struct {
		form NormalForm
		want string
	}{
		{Unnormalized, "unnormalized"},
		{FirstNF, "1NF"},
		{SecondNF, "2NF"},
		{ThirdNF, "3NF"},
		{BCNF, "BCNF"},
		{FourthNF, "4NF"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.form.String())
	}
}

func TestParseNormalForm(t *testing.T) {
	tests := []struct {
		input   string
		want    NormalForm
		wantErr bool
	}{
		{input: "1nf", want: FirstNF},
		{input: "2NF", want: SecondNF},
		{input: "3nf", want: ThirdNF},
		{input: "bcnf", want: BCNF},
		{input: "BCNF", want: BCNF},
		{input: "4nf", want: FourthNF},
		{input: "5nf", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			form, err := ParseNormalForm(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, form)
		})
	}
}

func TestDecompositionStepString(t *testing.T) {
	src, err := NewRelation("r", []Attribute{NewAttribute("A"), NewAttribute("B")}, nil, nil)
	require.NoError(t, err)
	r1, err := NewRelation("r1", []Attribute{NewAttribute("A")}, nil, nil)
	require.NoError(t, err)
	r2, err := NewRelation("r2", []Attribute{NewAttribute("B")}, nil, nil)
	require.NoError(t, err)

	step := DecompositionStep{Source: src, Resulting: []*Relation{r1, r2}, Reason: "split"}
	assert.Equal(t, "r → [r1, r2]: split", step.String())
}
