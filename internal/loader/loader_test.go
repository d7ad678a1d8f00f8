package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/relnorm/internal/relation"
)

const enrollmentsYAML = `
name: enrollments
attributes:
  - {name: student_id, type: INTEGER, primary_key: true}
  - {name: course_id, type: INTEGER, primary_key: true}
  - {name: grade}
  - {name: course_name, type: TEXT}
fds:
  - determinant: [student_id, course_id]
    dependent: [grade]
  - determinant: [course_id]
    dependent: [course_name]
`

func TestParse(t *testing.T) {
	rel, err := Parse([]byte(enrollmentsYAML))
	require.NoError(t, err)

	assert.Equal(t, "enrollments", rel.Name)
	require.Len(t, rel.Attributes, 4)
	assert.Equal(t, "student_id", rel.Attributes[0].Name)
	assert.Equal(t, "INTEGER", rel.Attributes[0].DataType)
	assert.True(t, rel.Attributes[0].IsPrimaryKey)
	assert.Equal(t, "VARCHAR", rel.Attributes[2].DataType)
	assert.False(t, rel.Attributes[2].IsPrimaryKey)

	require.Len(t, rel.FDs, 2)
	assert.True(t, rel.FDs[0].Determinant.Contains("student_id"))
	assert.True(t, rel.FDs[0].Determinant.Contains("course_id"))
	assert.True(t, rel.FDs[1].Dependent.Contains("course_name"))
}

func TestParseMVDs(t *testing.T) {
	data := `
name: courses
attributes:
  - {name: course}
  - {name: teacher}
  - {name: book}
mvds:
  - determinant: [course]
    dependent: [teacher]
  - determinant: [course]
    dependent: [book]
`
	rel, err := Parse([]byte(data))
	require.NoError(t, err)

	require.Len(t, rel.MVDs, 2)
	assert.True(t, rel.MVDs[0].Dependent.Contains("teacher"))
	assert.True(t, rel.MVDs[1].Dependent.Contains("book"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantErr  error
		contains string
	}{
		{
			name:     "invalid yaml",
			data:     "name: [unclosed",
			contains: "failed to parse",
		},
		{
			name:    "missing relation name",
			data:    "attributes:\n  - {name: a}\n",
			wantErr: relation.ErrInvalidRelation,
		},
		{
			name: "fd references unknown attribute",
			data: `
name: r
attributes:
  - {name: a}
fds:
  - determinant: [a]
    dependent: [missing]
`,
			wantErr:  relation.ErrInvalidDependency,
			contains: "fd 1",
		},
		{
			name: "fd with empty determinant",
			data: `
name: r
attributes:
  - {name: a}
fds:
  - dependent: [a]
`,
			wantErr: relation.ErrInvalidDependency,
		},
		{
			name: "mvd references unknown attribute",
			data: `
name: r
attributes:
  - {name: a}
mvds:
  - determinant: [missing]
    dependent: [a]
`,
			wantErr:  relation.ErrInvalidDependency,
			contains: "mvd 1",
		},
		{
			name: "duplicate attribute",
			data: `
name: r
attributes:
  - {name: a}
  - {name: a}
`,
			wantErr: relation.ErrInvalidRelation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrollments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(enrollmentsYAML), 0644))

	rel, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "enrollments", rel.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadWrapsPathIntoParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("attributes: []\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
