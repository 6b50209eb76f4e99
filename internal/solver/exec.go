package solver

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/san-kum/modelbench/internal/model"
)

// Exit codes of the SAT competition convention.
const (
	exitSat   = 10
	exitUnsat = 20
)

// killGrace bounds how long a killed solver's output pipes may stay open.
const killGrace = time.Second

// Exec runs an external DIMACS solver (kissat, cadical, minisat, ...) as a
// child process, feeding the problem on stdin. The answer is read from the
// exit code, falling back to the "s SATISFIABLE" status line.
type Exec struct {
	Path string
	Args []string
}

func NewExec(path string, args ...string) *Exec {
	return &Exec{Path: path, Args: args}
}

func (e *Exec) Name() string { return "exec" }

func (e *Exec) Available() bool {
	if e.Path == "" {
		return false
	}
	_, err := exec.LookPath(e.Path)
	return err == nil
}

func (e *Exec) Solve(ctx context.Context, m *model.Model, cmd model.Command, opts Options) (Outcome, error) {
	if e.Path == "" {
		return Outcome{}, &Error{Backend: e.Name(), Wrapped: fmt.Errorf("%w: no solver path configured", ErrUnavailable)}
	}

	ctx, cancel := withTimeout(ctx, opts.Timeout)
	defer cancel()

	proc := exec.CommandContext(ctx, e.Path, e.Args...)
	proc.Stdin = strings.NewReader(header(m, cmd) + cmd.Problem.DIMACS())
	proc.WaitDelay = killGrace

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	runErr := proc.Run()
	if ctx.Err() != nil {
		return Outcome{}, deadlineErr(e.Name(), ctx)
	}
	if proc.ProcessState == nil {
		return Outcome{}, &Error{Backend: e.Name(), Wrapped: fmt.Errorf("%w: %v", ErrUnavailable, runErr)}
	}

	switch proc.ProcessState.ExitCode() {
	case exitSat:
		return Outcome{Satisfiable: true}, nil
	case exitUnsat:
		return Outcome{Satisfiable: false}, nil
	}

	if sat, ok := statusLine(stdout.Bytes()); ok {
		return Outcome{Satisfiable: sat}, nil
	}
	if runErr != nil {
		return Outcome{}, &Error{Backend: e.Name(), Wrapped: fmt.Errorf("%s: %v: %s", e.Path, runErr, strings.TrimSpace(stderr.String()))}
	}
	return Outcome{}, &Error{Backend: e.Name(), Wrapped: ErrUndetermined}
}

// statusLine finds the "s ..." line of a DIMACS solver transcript.
func statusLine(out []byte) (sat bool, ok bool) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "s ") {
			continue
		}
		switch strings.TrimSpace(line[2:]) {
		case "SATISFIABLE":
			return true, true
		case "UNSATISFIABLE":
			return false, true
		}
	}
	return false, false
}
