package model

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tells whether a command checks a predicate or an assertion.
type Kind string

const (
	KindRun   Kind = "run"
	KindCheck Kind = "check"
)

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "run":
		return KindRun, nil
	case "check":
		return KindCheck, nil
	default:
		return "", fmt.Errorf("unknown command kind %q (want run or check)", s)
	}
}

// Expectation mirrors the optional "expect" clause of a command.
type Expectation int

const (
	ExpectAny Expectation = iota
	ExpectSat
	ExpectUnsat
)

func ParseExpectation(s string) (Expectation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ExpectAny, nil
	case "sat", "1":
		return ExpectSat, nil
	case "unsat", "0":
		return ExpectUnsat, nil
	default:
		return ExpectAny, fmt.Errorf("unknown expectation %q (want sat or unsat)", s)
	}
}

func (e Expectation) String() string {
	switch e {
	case ExpectSat:
		return "sat"
	case ExpectUnsat:
		return "unsat"
	default:
		return ""
	}
}

// Met reports whether a satisfiability outcome agrees with the expectation.
func (e Expectation) Met(satisfiable bool) bool {
	switch e {
	case ExpectSat:
		return satisfiable
	case ExpectUnsat:
		return !satisfiable
	default:
		return true
	}
}

type Signature struct {
	Label    string
	Parent   string
	Abstract bool
	One      bool
}

// Scope holds the finite bounds a command is checked within.
type Scope struct {
	Default  int
	Bitwidth int
	Bounds   map[string]int
}

func (s Scope) Clone() Scope {
	c := Scope{Default: s.Default, Bitwidth: s.Bitwidth}
	if s.Bounds != nil {
		c.Bounds = make(map[string]int, len(s.Bounds))
		for k, v := range s.Bounds {
			c.Bounds[k] = v
		}
	}
	return c
}

// String renders the scope the way the modeling language writes it,
// e.g. "for 3 but 4 Process, 5 int".
func (s Scope) String() string {
	var sb strings.Builder
	if s.Default > 0 {
		fmt.Fprintf(&sb, "for %d", s.Default)
	}

	names := make([]string, 0, len(s.Bounds))
	for name := range s.Bounds {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", s.Bounds[name], name))
	}
	if s.Bitwidth > 0 {
		parts = append(parts, fmt.Sprintf("%d int", s.Bitwidth))
	}
	if len(parts) == 0 {
		return sb.String()
	}

	if sb.Len() > 0 {
		sb.WriteString(" but ")
	} else {
		sb.WriteString("for ")
	}
	sb.WriteString(strings.Join(parts, ", "))
	return sb.String()
}

// Command is an executable check bounded to finite scopes, together with
// its translated propositional problem.
type Command struct {
	Label   string
	Kind    Kind
	Target  string
	Scope   Scope
	Expect  Expectation
	Problem Problem
}

func (c Command) Clone() Command {
	c.Scope = c.Scope.Clone()
	c.Problem = c.Problem.Clone()
	return c
}

func (c Command) String() string {
	s := fmt.Sprintf("%s %s", c.Kind, c.Target)
	if scope := c.Scope.String(); scope != "" {
		s += " " + scope
	}
	return s
}

// Model is the parsed form of a model file. It is never mutated after
// construction; accessors hand out copies.
type Model struct {
	name       string
	path       string
	signatures []Signature
	commands   []Command
}

// New builds a Model. Commands without a label are named "<kind>$<n>"
// after their 1-based position.
func New(name, path string, sigs []Signature, cmds []Command) *Model {
	m := &Model{
		name:       name,
		path:       path,
		signatures: make([]Signature, len(sigs)),
		commands:   make([]Command, len(cmds)),
	}
	copy(m.signatures, sigs)
	for i, c := range cmds {
		c = c.Clone()
		if c.Kind == "" {
			c.Kind = KindRun
		}
		if c.Label == "" {
			c.Label = defaultLabel(c.Kind, i)
		}
		m.commands[i] = c
	}
	return m
}

// defaultLabel names the unlabeled command at 0-based position i.
func defaultLabel(kind Kind, i int) string {
	if kind == "" {
		kind = KindRun
	}
	return fmt.Sprintf("%s$%d", kind, i+1)
}

func (m *Model) Name() string { return m.name }

func (m *Model) Path() string { return m.path }

func (m *Model) Signatures() []Signature {
	out := make([]Signature, len(m.signatures))
	copy(out, m.signatures)
	return out
}

// SignatureLabels returns signature labels in declaration order.
func (m *Model) SignatureLabels() []string {
	out := make([]string, len(m.signatures))
	for i, s := range m.signatures {
		out[i] = s.Label
	}
	return out
}

func (m *Model) Commands() []Command {
	out := make([]Command, len(m.commands))
	for i, c := range m.commands {
		out[i] = c.Clone()
	}
	return out
}

func (m *Model) NumCommands() int { return len(m.commands) }
