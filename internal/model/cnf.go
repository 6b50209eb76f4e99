package model

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-air/gini/dimacs"
	"github.com/go-air/gini/z"
)

// Problem is a propositional problem in conjunctive normal form, with
// literals in DIMACS numbering.
type Problem struct {
	NumVars int
	Clauses [][]int
}

func (p Problem) Clone() Problem {
	c := Problem{NumVars: p.NumVars}
	if p.Clauses != nil {
		c.Clauses = make([][]int, len(p.Clauses))
		for i, cl := range p.Clauses {
			c.Clauses[i] = append([]int(nil), cl...)
		}
	}
	return c
}

// DIMACS renders the problem in DIMACS CNF text form.
func (p Problem) DIMACS() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "p cnf %d %d\n", p.NumVars, len(p.Clauses))
	for _, cl := range p.Clauses {
		for _, lit := range cl {
			sb.WriteString(strconv.Itoa(lit))
			sb.WriteByte(' ')
		}
		sb.WriteString("0\n")
	}
	return sb.String()
}

// cnfVis collects clauses from gini's DIMACS reader.
type cnfVis struct {
	declared int
	maxVar   int
	clauses  [][]int
	cur      []int
}

func (v *cnfVis) Init(nv, nc int) {
	v.declared = nv
	v.clauses = make([][]int, 0, nc)
}

func (v *cnfVis) Add(m z.Lit) {
	if m == z.LitNull {
		v.clauses = append(v.clauses, v.cur)
		v.cur = nil
		return
	}
	d := m.Dimacs()
	if d < 0 && -d > v.maxVar {
		v.maxVar = -d
	} else if d > v.maxVar {
		v.maxVar = d
	}
	v.cur = append(v.cur, d)
}

func (v *cnfVis) Eof() {
	if len(v.cur) > 0 {
		v.clauses = append(v.clauses, v.cur)
		v.cur = nil
	}
}

// ReadCNF reads a DIMACS CNF stream. The "p cnf" header is optional; the
// variable count is the larger of the declared and the observed maximum,
// or just the observed maximum when there is no header.
func ReadCNF(r io.Reader) (Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Problem{}, err
	}

	vis := &cnfVis{}
	if err := dimacs.ReadCnf(bytes.NewReader(data), vis); err != nil {
		return Problem{}, err
	}
	// the reader does not call Eof itself
	vis.Eof()

	// without a header the reader passes capacity hints, not counts
	nv := vis.maxVar
	if hasHeader(data) && vis.declared > nv {
		nv = vis.declared
	}
	return Problem{NumVars: nv, Clauses: vis.clauses}, nil
}

func hasHeader(data []byte) bool {
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		f := bytes.Fields(line)
		if len(f) == 0 || f[0][0] == 'c' {
			continue
		}
		return string(f[0]) == "p"
	}
	return false
}
