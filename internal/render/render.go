// Package render draws the static summary image written in place of an
// interactive instance diagram.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	SatWidth    = 800
	SatHeight   = 600
	UnsatWidth  = 500
	UnsatHeight = 300

	FooterText = "Fallback summary, not the solution diagram."
)

// Text chunk keywords. Each drawn line is stored under one of these.
const (
	KeyTitle     = "Title"
	KeyCommand   = "Command"
	KeyStatus    = "Status"
	KeyHeading   = "Heading"
	KeySignature = "Signature"
	KeyComment   = "Comment"
)

const (
	marginX    = 50
	indentX    = 70
	lineStep   = 30
	listStep   = 20
	listTop    = 150
	footerPad  = 30
	glyphWidth = 7
)

var red = color.RGBA{R: 0xd0, A: 0xff}

type RenderRequest struct {
	ModelName       string
	CommandLabel    string
	Satisfiable     bool
	SignatureLabels []string
	OutputPath      string
}

type Renderer interface {
	Render(req RenderRequest) error
}

// Line is one piece of drawn text together with its position. Text is
// untruncated; drawing clips it to the image width.
type Line struct {
	Key  string
	Text string
	X, Y int
}

// FallbackRenderer writes a deterministic PNG summarizing the outcome.
type FallbackRenderer struct{}

func (FallbackRenderer) Render(req RenderRequest) error {
	if req.OutputPath == "" {
		return &ImageWriteError{Wrapped: ErrNoOutputPath}
	}
	data, err := Encode(req)
	if err != nil {
		return &ImageWriteError{Path: req.OutputPath, Wrapped: err}
	}
	if err := os.WriteFile(req.OutputPath, data, 0o644); err != nil {
		return &ImageWriteError{Path: req.OutputPath, Wrapped: err}
	}
	return nil
}

// Size returns the image bounds for an outcome.
func Size(satisfiable bool) (int, int) {
	if satisfiable {
		return SatWidth, SatHeight
	}
	return UnsatWidth, UnsatHeight
}

// Layout computes every line drawn for req, in drawing order.
func Layout(req RenderRequest) []Line {
	_, h := Size(req.Satisfiable)
	var lines []Line
	add := func(key, text string, x, y int) {
		lines = append(lines, Line{Key: key, Text: text, X: x, Y: y})
	}

	if !req.Satisfiable {
		add(KeyTitle, "No satisfying instance found for "+req.ModelName, marginX, 50)
		add(KeyCommand, "Command: "+req.CommandLabel, marginX, 50+lineStep)
		add(KeyStatus, "Solution is unsatisfiable", marginX, 50+2*lineStep)
		add(KeyComment, FooterText, marginX, h-footerPad)
		return lines
	}

	add(KeyTitle, "Visualization for: "+req.ModelName, marginX, 50)
	add(KeyCommand, "Command: "+req.CommandLabel, marginX, 50+lineStep)
	add(KeyStatus, "Solution is satisfiable", marginX, 50+2*lineStep)
	add(KeyHeading, "Model signatures:", marginX, listTop)

	last := h - footerPad - lineStep
	room := (last - listTop) / listStep
	sigs := req.SignatureLabels
	y := listTop
	for i, label := range sigs {
		y += listStep
		if i == room-1 && len(sigs) > room {
			add(KeySignature, fmt.Sprintf("... and %d more", len(sigs)-i), indentX, y)
			break
		}
		add(KeySignature, "- "+label, indentX, y)
	}

	add(KeyComment, FooterText, marginX, h-footerPad)
	return lines
}

// Encode draws req and returns the PNG bytes with the full text of every
// line embedded as tEXt chunks.
func Encode(req RenderRequest) ([]byte, error) {
	w, h := Size(req.Satisfiable)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ink := color.Color(color.Black)
	if !req.Satisfiable {
		ink = red
	}

	lines := Layout(req)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
	}
	for _, l := range lines {
		d.Dot = fixed.P(l.X, l.Y)
		d.DrawString(fit(l.Text, w-l.X-marginX/2))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	chunks := make([]TextChunk, len(lines))
	for i, l := range lines {
		chunks[i] = TextChunk{Keyword: l.Key, Text: l.Text}
	}
	return EmbedText(buf.Bytes(), chunks)
}

func fit(s string, px int) string {
	max := px / glyphWidth
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
