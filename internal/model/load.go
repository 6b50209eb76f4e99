package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader turns a model file into a Model.
type Loader interface {
	Load(path string) (*Model, error)
}

// FileLoader picks a decoder from the file extension: .yaml/.yml or .hcl.
type FileLoader struct{}

func (FileLoader) Load(path string) (*Model, error) {
	return Load(path)
}

// Load reads and decodes the model file at path. All failures are
// returned as *ParseError.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Wrapped: err}
	}

	var doc *document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = decodeYAML(path, data)
	case ".hcl":
		doc, err = decodeHCL(path, data)
	default:
		return nil, &ParseError{Path: path, Wrapped: fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))}
	}
	if err != nil {
		return nil, err
	}
	return doc.build(path)
}

// document is the format-independent shape both decoders produce.
type document struct {
	name       string
	signatures []Signature
	commands   []rawCommand
}

type rawCommand struct {
	line    int
	label   string
	kind    string
	target  string
	scope   Scope
	expect  string
	cnf     string
	cnfFile string
}

func (d *document) build(path string) (*Model, error) {
	name := d.name
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	seen := make(map[string]bool, len(d.signatures))
	for _, s := range d.signatures {
		if s.Label == "" {
			return nil, &ParseError{Path: path, Wrapped: fmt.Errorf("signature with empty label")}
		}
		if seen[s.Label] {
			return nil, &ParseError{Path: path, Wrapped: fmt.Errorf("duplicate signature %q", s.Label)}
		}
		seen[s.Label] = true
	}

	cmds := make([]Command, 0, len(d.commands))
	for i, rc := range d.commands {
		cmd, err := rc.build(filepath.Dir(path))
		if err != nil {
			return nil, &ParseError{Path: path, Line: rc.line, Wrapped: fmt.Errorf("command %d: %w", i+1, err)}
		}
		cmds = append(cmds, cmd)
	}

	labels := make(map[string]bool, len(cmds))
	for i, c := range cmds {
		label := c.Label
		if label == "" {
			label = defaultLabel(c.Kind, i)
		}
		if labels[label] {
			return nil, &ParseError{
				Path:    path,
				Line:    d.commands[i].line,
				Wrapped: fmt.Errorf("command %d: duplicate command label %q", i+1, label),
			}
		}
		labels[label] = true
	}

	return New(name, path, d.signatures, cmds), nil
}

func (rc rawCommand) build(dir string) (Command, error) {
	kind, err := ParseKind(rc.kind)
	if err != nil {
		return Command{}, err
	}
	expect, err := ParseExpectation(rc.expect)
	if err != nil {
		return Command{}, err
	}
	if rc.scope.Default < 0 || rc.scope.Bitwidth < 0 {
		return Command{}, fmt.Errorf("negative scope bound")
	}
	for sig, n := range rc.scope.Bounds {
		if n < 0 {
			return Command{}, fmt.Errorf("negative scope bound for %s", sig)
		}
	}

	var pb Problem
	switch {
	case rc.cnf != "" && rc.cnfFile != "":
		return Command{}, fmt.Errorf("both cnf and cnf_file given")
	case rc.cnf != "":
		pb, err = ReadCNF(strings.NewReader(rc.cnf))
		if err != nil {
			return Command{}, fmt.Errorf("cnf: %w", err)
		}
	case rc.cnfFile != "":
		p := rc.cnfFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		f, err := os.Open(p)
		if err != nil {
			return Command{}, err
		}
		defer f.Close()
		pb, err = ReadCNF(f)
		if err != nil {
			return Command{}, fmt.Errorf("cnf_file %s: %w", rc.cnfFile, err)
		}
	default:
		return Command{}, ErrMissingProblem
	}

	return Command{
		Label:   rc.label,
		Kind:    kind,
		Target:  rc.target,
		Scope:   rc.scope,
		Expect:  expect,
		Problem: pb,
	}, nil
}
