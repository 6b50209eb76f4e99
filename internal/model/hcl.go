package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclModelFile is the top-level structure of an HCL model file.
type hclModelFile struct {
	Name       string          `hcl:"name,optional"`
	Signatures []*hclSignature `hcl:"signature,block"`
	Commands   []*hclCommand   `hcl:"command,block"`
}

type hclSignature struct {
	Label    string `hcl:"label,label"`
	Extends  string `hcl:"extends,optional"`
	Abstract bool   `hcl:"abstract,optional"`
	One      bool   `hcl:"one,optional"`
}

type hclScope struct {
	Default  int            `hcl:"default,optional"`
	Bitwidth int            `hcl:"bitwidth,optional"`
	But      map[string]int `hcl:"but,optional"`
}

type hclCommand struct {
	Label   string    `hcl:"label,label"`
	Kind    string    `hcl:"kind,optional"`
	Target  string    `hcl:"target,optional"`
	Scope   *hclScope `hcl:"scope,block"`
	Expect  string    `hcl:"expect,optional"`
	CNF     string    `hcl:"cnf,optional"`
	CNFFile string    `hcl:"cnf_file,optional"`

	DefRange hcl.Range `hcl:",def_range"`
}

func decodeHCL(path string, data []byte) (*document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, hclParseError(path, diags)
	}

	var parsed hclModelFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, hclParseError(path, diags)
	}

	doc := &document{
		name:       parsed.Name,
		signatures: make([]Signature, 0, len(parsed.Signatures)),
		commands:   make([]rawCommand, 0, len(parsed.Commands)),
	}
	for _, s := range parsed.Signatures {
		doc.signatures = append(doc.signatures, Signature{
			Label:    s.Label,
			Parent:   s.Extends,
			Abstract: s.Abstract,
			One:      s.One,
		})
	}
	for _, c := range parsed.Commands {
		rc := rawCommand{
			line:    c.DefRange.Start.Line,
			label:   c.Label,
			kind:    c.Kind,
			target:  c.Target,
			expect:  c.Expect,
			cnf:     c.CNF,
			cnfFile: c.CNFFile,
		}
		if c.Scope != nil {
			rc.scope = Scope{Default: c.Scope.Default, Bitwidth: c.Scope.Bitwidth, Bounds: c.Scope.But}
		}
		doc.commands = append(doc.commands, rc)
	}
	return doc, nil
}

func hclParseError(path string, diags hcl.Diagnostics) *ParseError {
	line := 0
	for _, d := range diags {
		if d.Severity == hcl.DiagError && d.Subject != nil {
			line = d.Subject.Start.Line
			break
		}
	}
	return &ParseError{Path: path, Line: line, Wrapped: fmt.Errorf("hcl: %w", diags)}
}
