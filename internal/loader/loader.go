// Package loader reads relation definitions from YAML files. A definition
// names the relation, its attributes (with optional data type and primary
// key flag), and its functional and multivalued dependencies by attribute
// name:
//
//	name: employees_projects
//	attributes:
//	  - {name: employee_id, type: INTEGER, primary_key: true}
//	  - {name: department}
//	fds:
//	  - determinant: [employee_id]
//	    dependent: [department]
//	mvds:
//	  - determinant: [employee_id]
//	    dependent: [department]
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/relnorm/internal/relation"
)

type relationFile struct {
	Name       string          `yaml:"name"`
	Attributes []attributeDef  `yaml:"attributes"`
	FDs        []dependencyDef `yaml:"fds"`
	MVDs       []dependencyDef `yaml:"mvds"`
}

type attributeDef struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	PrimaryKey bool   `yaml:"primary_key"`
}

type dependencyDef struct {
	Determinant []string `yaml:"determinant"`
	Dependent   []string `yaml:"dependent"`
}

// Load reads and parses a relation definition file.
func Load(path string) (*relation.Relation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read relation file: %w", err)
	}
	rel, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rel, nil
}

// Parse builds a validated relation from YAML data.
func Parse(data []byte) (*relation.Relation, error) {
	var file relationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse relation definition: %w", err)
	}
	if file.Name == "" {
		return nil, fmt.Errorf("%w: missing relation name", relation.ErrInvalidRelation)
	}

	attrs := make([]relation.Attribute, 0, len(file.Attributes))
	byName := make(map[string]relation.Attribute, len(file.Attributes))
	for _, def := range file.Attributes {
		a := relation.NewAttribute(def.Name)
		if def.Type != "" {
			a.DataType = def.Type
		}
		a.IsPrimaryKey = def.PrimaryKey
		attrs = append(attrs, a)
		byName[a.Name] = a
	}

	resolve := func(names []string) (relation.AttributeSet, error) {
		set := make(relation.AttributeSet, len(names))
		for _, name := range names {
			a, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("%w: references unknown attribute %q", relation.ErrInvalidDependency, name)
			}
			set.Add(a)
		}
		return set, nil
	}

	fds := make([]relation.FunctionalDependency, 0, len(file.FDs))
	for i, def := range file.FDs {
		det, err := resolve(def.Determinant)
		if err != nil {
			return nil, fmt.Errorf("fd %d: %w", i+1, err)
		}
		dep, err := resolve(def.Dependent)
		if err != nil {
			return nil, fmt.Errorf("fd %d: %w", i+1, err)
		}
		f, err := relation.NewFunctionalDependency(det, dep)
		if err != nil {
			return nil, fmt.Errorf("fd %d: %w", i+1, err)
		}
		fds = append(fds, f)
	}

	mvds := make([]relation.MultivaluedDependency, 0, len(file.MVDs))
	for i, def := range file.MVDs {
		det, err := resolve(def.Determinant)
		if err != nil {
			return nil, fmt.Errorf("mvd %d: %w", i+1, err)
		}
		dep, err := resolve(def.Dependent)
		if err != nil {
			return nil, fmt.Errorf("mvd %d: %w", i+1, err)
		}
		m, err := relation.NewMultivaluedDependency(det, dep)
		if err != nil {
			return nil, fmt.Errorf("mvd %d: %w", i+1, err)
		}
		mvds = append(mvds, m)
	}

	return relation.NewRelation(file.Name, attrs, fds, mvds)
}
