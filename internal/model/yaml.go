package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlModel struct {
	Name       string          `yaml:"name"`
	Signatures []yamlSignature `yaml:"signatures"`
	Commands   []yamlCommand   `yaml:"commands"`
}

type yamlSignature struct {
	Label    string `yaml:"label"`
	Extends  string `yaml:"extends"`
	Abstract bool   `yaml:"abstract"`
	One      bool   `yaml:"one"`
}

// UnmarshalYAML accepts either a bare label or a mapping.
func (s *yamlSignature) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Label = value.Value
		return nil
	}
	type plain yamlSignature
	return value.Decode((*plain)(s))
}

type yamlScope struct {
	Default  int            `yaml:"default"`
	Bitwidth int            `yaml:"bitwidth"`
	But      map[string]int `yaml:"but"`
}

type yamlCommand struct {
	Label   string    `yaml:"label"`
	Kind    string    `yaml:"kind"`
	Target  string    `yaml:"target"`
	Scope   yamlScope `yaml:"scope"`
	Expect  string    `yaml:"expect"`
	CNF     string    `yaml:"cnf"`
	CNFFile string    `yaml:"cnf_file"`

	line int
}

func (c *yamlCommand) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlCommand
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	c.line = value.Line
	return nil
}

func decodeYAML(path string, data []byte) (*document, error) {
	var ym yamlModel
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, &ParseError{Path: path, Wrapped: fmt.Errorf("yaml: %w", err)}
	}

	doc := &document{
		name:       ym.Name,
		signatures: make([]Signature, 0, len(ym.Signatures)),
		commands:   make([]rawCommand, 0, len(ym.Commands)),
	}
	for _, s := range ym.Signatures {
		doc.signatures = append(doc.signatures, Signature{
			Label:    s.Label,
			Parent:   s.Extends,
			Abstract: s.Abstract,
			One:      s.One,
		})
	}
	for _, c := range ym.Commands {
		doc.commands = append(doc.commands, rawCommand{
			line:   c.line,
			label:  c.Label,
			kind:   c.Kind,
			target: c.Target,
			scope: Scope{
				Default:  c.Scope.Default,
				Bitwidth: c.Scope.Bitwidth,
				Bounds:   c.Scope.But,
			},
			expect:  c.Expect,
			cnf:     c.CNF,
			cnfFile: c.CNFFile,
		})
	}
	return doc, nil
}
