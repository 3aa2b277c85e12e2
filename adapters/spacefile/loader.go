// Package spacefile loads parameter-space declarations from YAML.
//
// Example:
//
//	discriminator: conv_layer_n
//	parameters:
//	  - name: conv_layer_n
//	    values: [2, 3]
//	  - name: fold
//	    values: [0, 1]
//	    depends_on: conv_layer_n
//	    repeat: true
//	  - name: l2_regs
//	    values: [1.0e-3, 1.0e-4]
//	    depends_on: conv_layer_n+2
//	    enabled: false
//	discriminated:
//	  - name: ks
//	    values:
//	      2: [20, 5]
//	      3: [20, 10, 5]
package spacefile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hypersample/domain/core"
	"hypersample/domain/space"
)

// Declaration is a loaded space plus the discriminator the file names, if any
type Declaration struct {
	Space         *space.Space
	Discriminator string
}

type fileSpace struct {
	Discriminator string          `yaml:"discriminator"`
	Parameters    []fileParameter `yaml:"parameters"`
	Discriminated []fileTable     `yaml:"discriminated"`
}

type fileParameter struct {
	Name      string    `yaml:"name"`
	Values    yaml.Node `yaml:"values"`
	Enabled   *bool     `yaml:"enabled"`
	DependsOn string    `yaml:"depends_on"`
	Repeat    bool      `yaml:"repeat"`
}

type fileTable struct {
	Name   string    `yaml:"name"`
	Values yaml.Node `yaml:"values"`
}

// Load reads and parses a declaration file
func Load(path string) (*Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read space file %s: %w", path, err)
	}
	decl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("space file %s: %w", path, err)
	}
	return decl, nil
}

// Parse decodes a YAML declaration. Dependency strings are parsed here,
// once, into structured expressions.
func Parse(data []byte) (*Declaration, error) {
	var file fileSpace
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidDeclaration, err)
	}
	if len(file.Parameters) == 0 {
		return nil, fmt.Errorf("%w: no parameters declared", core.ErrInvalidDeclaration)
	}

	params := make([]space.ParameterSpec, 0, len(file.Parameters))
	for _, fp := range file.Parameters {
		p, err := fp.toSpec()
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}

	tables := make([]space.DiscriminatedTable, 0, len(file.Discriminated))
	for _, ft := range file.Discriminated {
		t, err := ft.toTable()
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	sp, err := space.NewSpace(params, tables...)
	if err != nil {
		return nil, err
	}
	return &Declaration{Space: sp, Discriminator: file.Discriminator}, nil
}

func (fp fileParameter) toSpec() (space.ParameterSpec, error) {
	spec := space.ParameterSpec{
		Name:    fp.Name,
		Enabled: fp.Enabled == nil || *fp.Enabled,
		Repeat:  fp.Repeat,
	}

	candidates, err := scalarsFromNode(&fp.Values)
	if err != nil {
		return spec, declarationErr(fp.Name, err)
	}
	spec.Candidates = candidates

	if fp.DependsOn != "" {
		dep, err := space.ParseDependency(fp.DependsOn)
		if err != nil {
			return spec, declarationErr(fp.Name, err)
		}
		spec.DependsOn = dep
	} else if fp.Repeat {
		return spec, declarationErr(fp.Name, fmt.Errorf("repeat requires depends_on"))
	}

	return spec, nil
}

func (ft fileTable) toTable() (space.DiscriminatedTable, error) {
	table := space.DiscriminatedTable{Name: ft.Name, Entries: make(map[space.Scalar][]space.Scalar)}

	if ft.Values.Kind != yaml.MappingNode {
		return table, declarationErr(ft.Name, fmt.Errorf("values must map discriminator values to lists"))
	}
	for i := 0; i+1 < len(ft.Values.Content); i += 2 {
		key, err := scalarFromNode(ft.Values.Content[i])
		if err != nil {
			return table, declarationErr(ft.Name, err)
		}
		tuple, err := scalarsFromNode(ft.Values.Content[i+1])
		if err != nil {
			return table, declarationErr(ft.Name, err)
		}
		table.Entries[key] = tuple
	}
	return table, nil
}

// scalarsFromNode decodes a sequence; integers are widened to floats when
// the sequence mixes the two.
func scalarsFromNode(n *yaml.Node) ([]space.Scalar, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: values must be a list", n.Line)
	}

	out := make([]space.Scalar, 0, len(n.Content))
	hasFloat := false
	for _, item := range n.Content {
		s, err := scalarFromNode(item)
		if err != nil {
			return nil, err
		}
		if s.Kind() == space.KindFloat {
			hasFloat = true
		}
		out = append(out, s)
	}

	if hasFloat {
		for i, s := range out {
			if i64, ok := s.AsInt(); ok {
				out[i] = space.Float(float64(i64))
			}
		}
	}
	return out, nil
}

func scalarFromNode(n *yaml.Node) (space.Scalar, error) {
	if n.Kind != yaml.ScalarNode {
		return space.Scalar{}, fmt.Errorf("line %d: expected a scalar", n.Line)
	}

	switch n.ShortTag() {
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return space.Scalar{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return space.Int(v), nil
	case "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			return space.Scalar{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return space.Float(v), nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return space.Scalar{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return space.Bool(v), nil
	default:
		return space.Scalar{}, fmt.Errorf("line %d: unsupported value %q (%s)", n.Line, n.Value, n.ShortTag())
	}
}

func declarationErr(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", core.ErrInvalidDeclaration, name, err)
}
