package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/modelbench/internal/config"
	"github.com/san-kum/modelbench/internal/model"
	"github.com/san-kum/modelbench/internal/render"
	"github.com/san-kum/modelbench/internal/solver"
)

type fakeSolver struct {
	sat   bool
	err   error
	calls int
}

func (f *fakeSolver) Name() string    { return "fake" }
func (f *fakeSolver) Available() bool { return true }

func (f *fakeSolver) Solve(ctx context.Context, m *model.Model, cmd model.Command, opts solver.Options) (solver.Outcome, error) {
	f.calls++
	if f.err != nil {
		return solver.Outcome{}, f.err
	}
	return solver.Outcome{Satisfiable: f.sat}, nil
}

const singleCommandModel = `name: lights
signatures:
  - Light
  - Switch
commands:
  - label: "Check#1"
    kind: check
    target: NeverBothOn
    scope:
      default: 3
    expect: unsat
    cnf: |
      p cnf 2 2
      1 2 0
      -1 -2 0
`

const twoCommandModel = `name: pair
signatures: [A]
commands:
  - label: first
    kind: run
    target: show
    cnf: "p cnf 1 1\n1 0\n"
  - label: second
    kind: check
    target: safe
    cnf: "p cnf 1 1\n-1 0\n"
`

var _ = Describe("modelbench", func() {
	var (
		dir    string
		stdout *bytes.Buffer
		stderr *bytes.Buffer
		fake   *fakeSolver
		a      *app
	)

	writeModel := func(name, body string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(body), 0o644)).To(Succeed())
		return path
	}

	imageSize := func(path string) (int, int) {
		f, err := os.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		cfg, err := png.DecodeConfig(f)
		Expect(err).NotTo(HaveOccurred())
		return cfg.Width, cfg.Height
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		GinkgoT().Setenv("LOG_LEVEL", "")
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
		fake = &fakeSolver{}
		a = newApp(stdout, stderr)
		a.newRegistry = func(cfg *config.Config) *solver.Registry {
			r := solver.NewRegistry(cfg.Solver.Path, cfg.Solver.Args)
			r.Register("fake", func() solver.Backend { return fake })
			return r
		}
	})

	Describe("benchmarking a model", func() {
		var modelPath, outPath string

		BeforeEach(func() {
			modelPath = writeModel("lights.yaml", singleCommandModel)
			outPath = filepath.Join(dir, "out.png")
		})

		It("writes an 800x600 image when an instance is found", func() {
			fake.sat = true

			code := a.execute([]string{"--solver", "fake", "--warmup", "4", modelPath, outPath})

			Expect(code).To(Equal(exitOK))
			Expect(fake.calls).To(Equal(5))
			Expect(stdout.String()).To(ContainSubstring("Executing command: Check#1"))
			Expect(stdout.String()).To(MatchRegexp(`Finished in \d+ms`))
			Expect(stdout.String()).To(ContainSubstring("Instance found"))
			Expect(stdout.String()).To(ContainSubstring("Visualization saved to " + outPath))

			w, h := imageSize(outPath)
			Expect(w).To(Equal(800))
			Expect(h).To(Equal(600))

			chunks, err := render.ReadTextFile(outPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(render.Values(chunks, render.KeyCommand)).To(ConsistOf("Command: Check#1"))
			Expect(render.Values(chunks, render.KeyTitle)[0]).To(ContainSubstring("lights"))
			Expect(render.Values(chunks, render.KeySignature)).To(Equal([]string{"- Light", "- Switch"}))
		})

		It("writes a 500x300 image when no instance is found", func() {
			fake.sat = false

			code := a.execute([]string{"--solver", "fake", modelPath, outPath})

			Expect(code).To(Equal(exitOK))
			Expect(fake.calls).To(Equal(config.DefaultWarmup + 1))
			Expect(stdout.String()).To(ContainSubstring("No instance found"))

			w, h := imageSize(outPath)
			Expect(w).To(Equal(500))
			Expect(h).To(Equal(300))
		})

		It("keeps the run successful when the image cannot be written", func() {
			fake.sat = true
			badPath := filepath.Join(dir, "missing", "out.png")

			code := a.execute([]string{"--solver", "fake", modelPath, badPath})

			Expect(code).To(Equal(exitOK))
			Expect(stderr.String()).To(ContainSubstring("Error saving image"))
			Expect(stderr.String()).To(ContainSubstring(badPath))
			Expect(stdout.String()).To(ContainSubstring("Finished in"))
			Expect(stdout.String()).To(ContainSubstring("Instance found"))
			Expect(stdout.String()).NotTo(ContainSubstring("Visualization saved"))
			Expect(badPath).NotTo(BeAnExistingFile())
		})

		It("solves exactly once with no warm-up", func() {
			code := a.execute([]string{"--solver", "fake", "-w", "0", modelPath, outPath})

			Expect(code).To(Equal(exitOK))
			Expect(fake.calls).To(Equal(1))
		})

		It("repeats the protocol and reports statistics", func() {
			code := a.execute([]string{"--solver", "fake", "-w", "1", "-r", "3", modelPath, outPath})

			Expect(code).To(Equal(exitOK))
			Expect(fake.calls).To(Equal(6))
			Expect(stdout.String()).To(ContainSubstring("mean"))
		})

		It("fails under --strict when the expectation is not met", func() {
			fake.sat = true

			code := a.execute([]string{"--solver", "fake", "--strict", modelPath, outPath})

			Expect(code).To(Equal(exitMismatch))
			Expect(stdout.String()).To(ContainSubstring("Expected unsat, got sat"))
			Expect(outPath).To(BeAnExistingFile())
		})

		It("only warns about an unmet expectation without --strict", func() {
			fake.sat = true

			Expect(a.execute([]string{"--solver", "fake", modelPath, outPath})).To(Equal(exitOK))
			Expect(stderr.String()).To(ContainSubstring("expectation not met"))
		})

		It("emits a JSON document with --format json", func() {
			fake.sat = false

			code := a.execute([]string{"--solver", "fake", "--format", "json", modelPath, outPath})
			Expect(code).To(Equal(exitOK))

			var got map[string]any
			Expect(json.Unmarshal(stdout.Bytes(), &got)).To(Succeed())
			Expect(got["command"]).To(Equal("Check#1"))
			Expect(got["outcome"]).To(Equal("No instance found"))
			Expect(got["backend"]).To(Equal("fake"))
			Expect(got["image"]).To(Equal(outPath))
			Expect(got["expectation_met"]).To(BeTrue())
		})

		It("takes settings from a config file and lets flags win", func() {
			cfgPath := writeModel("bench.yaml", "warmup: 2\nsolver:\n  backend: fake\n")

			Expect(a.execute([]string{"--config", cfgPath, modelPath, outPath})).To(Equal(exitOK))
			Expect(fake.calls).To(Equal(3))

			fake.calls = 0
			Expect(a.execute([]string{"--config", cfgPath, "-w", "0", modelPath, outPath})).To(Equal(exitOK))
			Expect(fake.calls).To(Equal(1))
		})
	})

	Describe("argument errors", func() {
		DescribeTable("missing arguments print usage and exit 1",
			func(args []string) {
				code := a.execute(append([]string{"--solver", "fake"}, args...))

				Expect(code).To(Equal(exitUsage))
				Expect(stderr.String()).To(ContainSubstring("Usage:"))
				Expect(fake.calls).To(BeZero())
				entries, err := os.ReadDir(dir)
				Expect(err).NotTo(HaveOccurred())
				Expect(entries).To(BeEmpty())
			},
			Entry("no arguments", []string{}),
			Entry("model only", []string{"model.yaml"}),
		)

		It("rejects an unknown solver", func() {
			modelPath := writeModel("m.yaml", singleCommandModel)
			code := a.execute([]string{"--solver", "nope", modelPath, filepath.Join(dir, "o.png")})

			Expect(code).To(Equal(exitUsage))
			Expect(stderr.String()).To(ContainSubstring("unknown backend"))
		})
	})

	Describe("failures before solving", func() {
		It("reports a parse error and never solves", func() {
			modelPath := writeModel("broken.yaml", "commands: [\n")
			outPath := filepath.Join(dir, "out.png")

			code := a.execute([]string{"--solver", "fake", modelPath, outPath})

			Expect(code).To(Equal(exitParse))
			Expect(stderr.String()).To(ContainSubstring("broken.yaml"))
			Expect(fake.calls).To(BeZero())
			Expect(outPath).NotTo(BeAnExistingFile())
		})

		It("reports a missing command", func() {
			modelPath := writeModel("pair.yaml", twoCommandModel)

			code := a.execute([]string{"--solver", "fake", "-c", "third", modelPath, filepath.Join(dir, "out.png")})

			Expect(code).To(Equal(exitParse))
			Expect(stderr.String()).To(ContainSubstring("command not found"))
			Expect(fake.calls).To(BeZero())
		})

		It("selects commands by label and index", func() {
			modelPath := writeModel("pair.yaml", twoCommandModel)

			Expect(a.execute([]string{"--solver", "fake", modelPath, filepath.Join(dir, "a.png")})).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring("Executing command: second"))

			stdout.Reset()
			Expect(a.execute([]string{"--solver", "fake", "-c", "first", modelPath, filepath.Join(dir, "b.png")})).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring("Executing command: first"))

			stdout.Reset()
			Expect(a.execute([]string{"--solver", "fake", "-c", "#1", modelPath, filepath.Join(dir, "c.png")})).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring("Executing command: first"))
		})
	})

	Describe("solver failures", func() {
		It("exits 3 without writing an image", func() {
			modelPath := writeModel("m.yaml", singleCommandModel)
			outPath := filepath.Join(dir, "out.png")
			fake.err = &solver.Error{Backend: "fake", Wrapped: errors.New("segfault")}

			code := a.execute([]string{"--solver", "fake", modelPath, outPath})

			Expect(code).To(Equal(exitSolve))
			Expect(fake.calls).To(Equal(1))
			Expect(stderr.String()).To(ContainSubstring("segfault"))
			Expect(outPath).NotTo(BeAnExistingFile())
		})

		It("treats a timeout as a solver failure", func() {
			modelPath := writeModel("m.yaml", singleCommandModel)
			fake.err = &solver.Error{Backend: "fake", Wrapped: solver.ErrTimeout}

			code := a.execute([]string{"--solver", "fake", "--timeout", "10ms", modelPath, filepath.Join(dir, "out.png")})

			Expect(code).To(Equal(exitSolve))
			Expect(stderr.String()).To(ContainSubstring("deadline exceeded"))
		})
	})

	Describe("in-process backends", func() {
		It("solves a real model end to end with gini", func() {
			modelPath := writeModel("lights.yaml", singleCommandModel)
			outPath := filepath.Join(dir, "out.png")

			code := a.execute([]string{"--solver", "gini", "-w", "1", modelPath, outPath})

			Expect(code).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring("Instance found"))
			w, _ := imageSize(outPath)
			Expect(w).To(Equal(800))
		})
	})

	Describe("subcommands", func() {
		It("lists commands", func() {
			modelPath := writeModel("pair.yaml", twoCommandModel)

			Expect(a.execute([]string{"commands", modelPath})).To(Equal(exitOK))
			out := stdout.String()
			Expect(out).To(ContainSubstring("model: pair"))
			Expect(out).To(ContainSubstring("signatures: A"))
			Expect(out).To(ContainSubstring("second *"))
			Expect(strings.Index(out, "first")).To(BeNumerically("<", strings.Index(out, "second")))
		})

		It("lists solvers", func() {
			Expect(a.execute([]string{"solvers"})).To(Equal(exitOK))
			for _, name := range []string{"gini", "gophersat", "exec", "fake"} {
				Expect(stdout.String()).To(ContainSubstring(name))
			}
		})

		It("prints the text embedded in a rendered image", func() {
			modelPath := writeModel("lights.yaml", singleCommandModel)
			outPath := filepath.Join(dir, "out.png")
			Expect(a.execute([]string{"--solver", "fake", modelPath, outPath})).To(Equal(exitOK))

			stdout.Reset()
			Expect(a.execute([]string{"inspect", outPath})).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring("Command: Command: Check#1"))
			Expect(stdout.String()).To(ContainSubstring("Comment: " + render.FooterText))
		})

		It("rejects an image that is not a PNG", func() {
			path := writeModel("fake.png", "GIF89a")
			Expect(a.execute([]string{"inspect", path})).To(Equal(exitParse))
		})
	})

	Describe("sweeping several models", func() {
		var lights, pair string

		BeforeEach(func() {
			lights = writeModel("lights.yaml", singleCommandModel)
			pair = writeModel("pair.yaml", twoCommandModel)
		})

		It("benchmarks the last command of each model and compares them", func() {
			fake.sat = false

			code := a.execute([]string{"sweep", "--solver", "fake", "-w", "2", "-r", "3", lights, pair})

			Expect(code).To(Equal(exitOK))
			Expect(fake.calls).To(Equal(2 * (2 + 1) * 3))
			out := stdout.String()
			Expect(out).To(ContainSubstring("Executing command: Check#1"))
			Expect(out).To(ContainSubstring("Executing command: second"))
			Expect(out).To(ContainSubstring("MEAN ± STDEV"))
			Expect(out).To(MatchRegexp(`lights\s+Check#1\s+unsat\s+3\s`))
			Expect(out).To(MatchRegexp(`pair\s+second\s+unsat\s+3\s`))
			Expect(out).To(ContainSubstring("mean timed solve per model (ms)"))
			Expect(strings.Index(out, "lights ")).To(BeNumerically("<", strings.Index(out, "pair ")))

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2), "sweep writes no images")
		})

		It("applies the command selector to every model", func() {
			fake.sat = true
			other := writeModel("other.yaml", strings.Replace(twoCommandModel, "name: pair", "name: other", 1))

			Expect(a.execute([]string{"sweep", "--solver", "fake", "-c", "first", pair, other})).To(Equal(exitOK))
			Expect(fake.calls).To(Equal(2 * (config.DefaultWarmup + 1)))
			Expect(stdout.String()).To(MatchRegexp(`other\s+first\s+sat`))
		})

		It("emits one JSON document for the whole sweep", func() {
			code := a.execute([]string{"sweep", "--solver", "fake", "-w", "0", "--format", "json", lights, pair})

			Expect(code).To(Equal(exitOK))
			var doc struct {
				Models []struct {
					Model   string `json:"model"`
					Command string `json:"command"`
				} `json:"models"`
			}
			Expect(json.Unmarshal(stdout.Bytes(), &doc)).To(Succeed())
			Expect(doc.Models).To(HaveLen(2))
			Expect(doc.Models[0].Model).To(Equal("lights"))
			Expect(doc.Models[1].Command).To(Equal("second"))
		})

		It("stops at the first model that fails to parse", func() {
			broken := writeModel("broken.yaml", "commands: [\n")

			Expect(a.execute([]string{"sweep", "--solver", "fake", "-w", "0", lights, broken, pair})).To(Equal(exitParse))
			Expect(fake.calls).To(Equal(1))
		})

		It("exits 3 when a solve fails", func() {
			fake.err = errors.New("boom")
			Expect(a.execute([]string{"sweep", "--solver", "fake", lights})).To(Equal(exitSolve))
		})

		It("fails under --strict when any expectation is not met", func() {
			fake.sat = true
			code := a.execute([]string{"sweep", "--solver", "fake", "-w", "0", "--strict", lights, pair})

			Expect(code).To(Equal(exitMismatch))
			Expect(stderr.String()).To(ContainSubstring("lights/Check#1"))
		})

		It("needs at least one model", func() {
			Expect(a.execute([]string{"sweep"})).To(Equal(exitUsage))
			Expect(fake.calls).To(BeZero())
		})
	})
})
