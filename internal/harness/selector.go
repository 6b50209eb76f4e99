package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/modelbench/internal/model"
)

// Selector names the command to execute. The zero value selects the last
// command in declaration order, the one conventionally under development.
type Selector struct {
	Label string
	Index int // 1-based; 0 means unset
}

// ParseSelector reads "#N" as a position, any other text as a label. A bare
// integer is tried as a label first and as a position second.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}
	}
	if rest, ok := strings.CutPrefix(s, "#"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 {
			return Selector{Index: n}
		}
	}
	sel := Selector{Label: s}
	if n, err := strconv.Atoi(s); err == nil {
		sel.Index = n
	}
	return sel
}

func (s Selector) IsZero() bool {
	return s.Label == "" && s.Index == 0
}

func (s Selector) String() string {
	switch {
	case s.IsZero():
		return "last command"
	case s.Label != "":
		return fmt.Sprintf("label %q", s.Label)
	default:
		return fmt.Sprintf("#%d", s.Index)
	}
}

// SelectCommand picks the command sel refers to.
func SelectCommand(m *model.Model, sel Selector) (model.Command, error) {
	cmds := m.Commands()
	if len(cmds) == 0 {
		return model.Command{}, fmt.Errorf("%w: model %s declares no commands", ErrCommandNotFound, m.Name())
	}

	if sel.IsZero() {
		return cmds[len(cmds)-1], nil
	}

	if sel.Label != "" {
		for _, c := range cmds {
			if c.Label == sel.Label {
				return c, nil
			}
		}
	}
	if sel.Index >= 1 && sel.Index <= len(cmds) {
		return cmds[sel.Index-1], nil
	}

	return model.Command{}, fmt.Errorf("%w: no %s among %d commands", ErrCommandNotFound, sel, len(cmds))
}
