package fd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/relnorm/internal/relation"
)

func set(names ...string) relation.AttributeSet {
	attrs := make([]relation.Attribute, len(names))
	for i, n := range names {
		attrs[i] = relation.NewAttribute(n)
	}
	return relation.NewAttributeSet(attrs...)
}

func mustFD(t *testing.T, determinant, dependent relation.AttributeSet) relation.FunctionalDependency {
	t.Helper()
	f, err := relation.NewFunctionalDependency(determinant, dependent)
	require.NoError(t, err)
	return f
}

func mustRelation(t *testing.T, name string, attrNames []string, fds []relation.FunctionalDependency) *relation.Relation {
	t.Helper()
	attrs := make([]relation.Attribute, len(attrNames))
	for i, n := range attrNames {
		attrs[i] = relation.NewAttribute(n)
	}
	rel, err := relation.NewRelation(name, attrs, fds, nil)
	require.NoError(t, err)
	return rel
}

func TestClosure(t *testing.T) {
	fds := []relation.FunctionalDependency{
		mustFD(t, set("A"), set("B")),
		mustFD(t, set("B"), set("C")),
		mustFD(t, set("C", "D"), set("E")),
	}

	tests := []struct {
		name  string
		start relation.AttributeSet
		want  relation.AttributeSet
	}{
		{"chain", set("A"), set("A", "B", "C")},
		{"composite determinant fires", set("A", "D"), set("A", "B", "C", "D", "E")},
		{"no applicable fd", set("D"), set("D")},
		{"empty input", set(), set()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Closure(tt.start, fds)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestClosureDoesNotMutateInput(t *testing.T) {
	start := set("A")
	Closure(start, []relation.FunctionalDependency{mustFD(t, set("A"), set("B"))})
	assert.Equal(t, 1, start.Len())
}

func TestClosureIsMonotone(t *testing.T) {
	fds := []relation.FunctionalDependency{
		mustFD(t, set("A"), set("B")),
		mustFD(t, set("B", "C"), set("D")),
	}
	smaller := Closure(set("A"), fds)
	larger := Closure(set("A", "C"), fds)
	assert.True(t, smaller.SubsetOf(larger))
}

func TestClosureIsIdempotent(t *testing.T) {
	fds := []relation.FunctionalDependency{
		mustFD(t, set("A"), set("B")),
		mustFD(t, set("B"), set("C")),
	}
	once := Closure(set("A"), fds)
	twice := Closure(once, fds)
	assert.True(t, once.Equal(twice))
}

func TestIsSuperkey(t *testing.T) {
	rel := mustRelation(t, "r", []string{"A", "B", "C"}, []relation.FunctionalDependency{
		mustFD(t, set("A"), set("B")),
		mustFD(t, set("B"), set("C")),
	})

	assert.True(t, IsSuperkey(set("A"), rel))
	assert.True(t, IsSuperkey(set("A", "C"), rel))
	assert.False(t, IsSuperkey(set("B"), rel))
	assert.False(t, IsSuperkey(set("C"), rel))
}

func TestFindCandidateKeys(t *testing.T) {
	tests := []struct {
		name  string
		attrs []string
		fds   []relation.FunctionalDependency
		want  []relation.AttributeSet
	}{
		{
			name:  "single key from left-only core",
			attrs: []string{"A", "B", "C"},
			fds: []relation.FunctionalDependency{
				mustFD(t, set("A"), set("B")),
				mustFD(t, set("B"), set("C")),
			},
			want: []relation.AttributeSet{set("A")},
		},
		{
			name:  "composite key",
			attrs: []string{"A", "B", "C", "D"},
			fds: []relation.FunctionalDependency{
				mustFD(t, set("A"), set("B")),
				mustFD(t, set("C"), set("D")),
			},
			want: []relation.AttributeSet{set("A", "C")},
		},
		{
			name:  "multiple keys via cyclic fds",
			attrs: []string{"A", "B"},
			fds: []relation.FunctionalDependency{
				mustFD(t, set("A"), set("B")),
				mustFD(t, set("B"), set("A")),
			},
			want: []relation.AttributeSet{set("A"), set("B")},
		},
		{
			name:  "attribute outside all fds joins the core",
			attrs: []string{"A", "B", "C"},
			fds: []relation.FunctionalDependency{
				mustFD(t, set("A"), set("B")),
			},
			want: []relation.AttributeSet{set("A", "C")},
		},
		{
			name:  "no fds means the full set is the key",
			attrs: []string{"A", "B"},
			fds:   nil,
			want:  []relation.AttributeSet{set("A", "B")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := mustRelation(t, "r", tt.attrs, tt.fds)
			keys := FindCandidateKeys(rel)
			assertSameKeySets(t, tt.want, keys)
		})
	}
}

func TestFindCandidateKeysMatchesBruteForce(t *testing.T) {
	rels := []*relation.Relation{
		mustRelation(t, "chain", []string{"A", "B", "C"}, []relation.FunctionalDependency{
			mustFD(t, set("A"), set("B")),
			mustFD(t, set("B"), set("C")),
		}),
		mustRelation(t, "cycle", []string{"A", "B", "C"}, []relation.FunctionalDependency{
			mustFD(t, set("A", "B"), set("C")),
			mustFD(t, set("C"), set("B")),
		}),
		mustRelation(t, "two_keys", []string{"A", "B", "C", "D"}, []relation.FunctionalDependency{
			mustFD(t, set("A"), set("B", "C", "D")),
			mustFD(t, set("B", "C"), set("A")),
		}),
		mustRelation(t, "no_fds", []string{"A", "B"}, nil),
	}

	for _, rel := range rels {
		t.Run(rel.Name, func(t *testing.T) {
			assertSameKeySets(t, FindAllKeys(rel), FindCandidateKeys(rel))
		})
	}
}

func TestFindCandidateKeysAreMinimal(t *testing.T) {
	rel := mustRelation(t, "r", []string{"A", "B", "C"}, []relation.FunctionalDependency{
		mustFD(t, set("A", "B"), set("C")),
		mustFD(t, set("C"), set("B")),
	})

	keys := FindCandidateKeys(rel)
	require.Len(t, keys, 2)
	for i, a := range keys {
		assert.True(t, IsSuperkey(a, rel), "%s is not a superkey", a)
		for j, b := range keys {
			if i == j {
				continue
			}
			assert.False(t, a.SubsetOf(b), "%s contains key %s", b, a)
		}
	}
}

func TestMinimalCover(t *testing.T) {
	t.Run("splits right sides and drops derivable fds", func(t *testing.T) {
		cover := MinimalCover([]relation.FunctionalDependency{
			mustFD(t, set("A"), set("B", "C")),
			mustFD(t, set("B"), set("C")),
		})

		require.Len(t, cover, 2)
		assert.True(t, cover[0].Determinant.Equal(set("A")))
		assert.True(t, cover[0].Dependent.Equal(set("B")))
		assert.True(t, cover[1].Determinant.Equal(set("B")))
		assert.True(t, cover[1].Dependent.Equal(set("C")))
	})

	t.Run("removes extraneous determinant attributes", func(t *testing.T) {
		cover := MinimalCover([]relation.FunctionalDependency{
			mustFD(t, set("A", "B"), set("C")),
			mustFD(t, set("A"), set("B")),
		})

		require.Len(t, cover, 2)
		assert.True(t, cover[0].Determinant.Equal(set("A")), "extraneous B kept in %s", cover[0])
		assert.True(t, cover[0].Dependent.Equal(set("C")))
	})

	t.Run("already minimal input is unchanged", func(t *testing.T) {
		in := []relation.FunctionalDependency{
			mustFD(t, set("A"), set("B")),
			mustFD(t, set("B"), set("C")),
		}
		cover := MinimalCover(in)
		require.Len(t, cover, 2)
	})

	t.Run("cover is equivalent to the input", func(t *testing.T) {
		in := []relation.FunctionalDependency{
			mustFD(t, set("A"), set("B", "C")),
			mustFD(t, set("C", "D"), set("E")),
			mustFD(t, set("B"), set("D")),
		}
		cover := MinimalCover(in)

		for _, f := range in {
			assert.True(t, f.Dependent.SubsetOf(Closure(f.Determinant, cover)),
				"%s not derivable from the cover", f)
		}
		for _, f := range cover {
			assert.True(t, f.Dependent.SubsetOf(Closure(f.Determinant, in)),
				"%s not derivable from the input", f)
		}
	})
}

func TestForEachCombination(t *testing.T) {
	attrs := set("A", "B", "C").Sorted()

	var got [][]string
	ForEachCombination(attrs, 2, func(combo []relation.Attribute) {
		names := make([]string, len(combo))
		for i, a := range combo {
			names[i] = a.Name
		}
		got = append(got, names)
	})

	assert.Equal(t, [][]string{{"A", "B"}, {"A", "C"}, {"B", "C"}}, got)
}

func TestForEachCombinationEdgeSizes(t *testing.T) {
	attrs := set("A", "B").Sorted()

	calls := 0
	ForEachCombination(attrs, 0, func(combo []relation.Attribute) {
		calls++
		assert.Empty(t, combo)
	})
	assert.Equal(t, 1, calls)

	ForEachCombination(attrs, 3, func([]relation.Attribute) {
		t.Fatal("k larger than input must not call fn")
	})
	ForEachCombination(attrs, -1, func([]relation.Attribute) {
		t.Fatal("negative k must not call fn")
	})
}

// assertSameKeySets compares two key lists as sets of attribute sets.
func assertSameKeySets(t *testing.T, want, got []relation.AttributeSet) {
	t.Helper()
	require.Len(t, got, len(want))
	for _, w := range want {
		found := false
		for _, g := range got {
			if g.Equal(w) {
				found = true
				break
			}
		}
		assert.True(t, found, "key %s missing from %v", w, got)
	}
}
