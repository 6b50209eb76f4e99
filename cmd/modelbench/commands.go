package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/modelbench/internal/render"
	"github.com/spf13/cobra"
)

func (a *app) commandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands <model_file>",
		Short: "list the commands and signatures of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  a.listCommands,
	}
}

func (a *app) solversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solvers",
		Short: "list solver backends and whether they can run here",
		Args:  cobra.NoArgs,
		RunE:  a.listSolvers,
	}
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <image>",
		Short: "print the text embedded in a summary image",
		Args:  cobra.ExactArgs(1),
		RunE:  a.inspectImage,
	}
}

func (a *app) listCommands(cmd *cobra.Command, args []string) error {
	m, err := a.loader.Load(args[0])
	if err != nil {
		return fail(exitParse, err)
	}

	fmt.Fprintf(a.stdout, "model: %s\n", m.Name())
	fmt.Fprintf(a.stdout, "signatures: %s\n\n", strings.Join(m.SignatureLabels(), ", "))

	cmds := m.Commands()
	if len(cmds) == 0 {
		fmt.Fprintln(a.stdout, "no commands")
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tLABEL\tKIND\tTARGET\tSCOPE\tEXPECT\tVARS\tCLAUSES")
	for i, c := range cmds {
		label := c.Label
		if i == len(cmds)-1 {
			label += " *"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			i+1,
			label,
			c.Kind,
			c.Target,
			dash(c.Scope.String()),
			dash(c.Expect.String()),
			c.Problem.NumVars,
			len(c.Problem.Clauses),
		)
	}
	return w.Flush()
}

func (a *app) listSolvers(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return fail(exitUsage, err)
	}
	reg := a.newRegistry(cfg)

	auto := ""
	if b, err := reg.AutoSelect(); err == nil {
		auto = b.Name()
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAVAILABLE\tAUTO")
	for _, b := range reg.List() {
		mark := ""
		if b.Name() == auto {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%t\t%s\n", b.Name(), b.Available(), mark)
	}
	return w.Flush()
}

func (a *app) inspectImage(cmd *cobra.Command, args []string) error {
	chunks, err := render.ReadTextFile(args[0])
	if err != nil {
		return fail(exitParse, err)
	}
	if len(chunks) == 0 {
		fmt.Fprintln(a.stdout, "no embedded text")
		return nil
	}
	for _, c := range chunks {
		fmt.Fprintf(a.stdout, "%s: %s\n", c.Keyword, c.Text)
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
