package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	pngstructure "github.com/dsoprea/go-png-image-structure/v2"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

const (
	chunkText      = "tEXt"
	chunkIntlText  = "iTXt"
	chunkEnd       = "IEND"
	maxKeywordSize = 79
)

// TextChunk is a PNG keyword/text pair. Text that fits Latin-1 is stored as
// tEXt, anything else as uncompressed UTF-8 iTXt.
type TextChunk struct {
	Keyword string
	Text    string
}

// EmbedText inserts chunks just before the IEND chunk of a PNG stream.
func EmbedText(data []byte, chunks []TextChunk) ([]byte, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}
	parsed, err := parseChunks(data)
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 || parsed[len(parsed)-1].Type != chunkEnd {
		return nil, fmt.Errorf("%w: stream does not end with IEND", ErrCorruptChunk)
	}

	extra := make([]*pngstructure.Chunk, 0, len(chunks))
	for _, c := range chunks {
		chunk, err := textChunk(c)
		if err != nil {
			return nil, err
		}
		extra = append(extra, chunk)
	}

	end := len(parsed) - 1
	out := make([]*pngstructure.Chunk, 0, len(parsed)+len(extra))
	out = append(out, parsed[:end]...)
	out = append(out, extra...)
	out = append(out, parsed[end])

	var buf bytes.Buffer
	buf.Grow(len(data) + 64*len(chunks))
	buf.Write(pngSignature)
	for _, c := range out {
		writeChunk(&buf, c)
	}
	return buf.Bytes(), nil
}

// ExtractText returns every tEXt and iTXt chunk in stream order.
func ExtractText(data []byte) ([]TextChunk, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}
	parsed, err := parseChunks(data)
	if err != nil {
		return nil, err
	}

	var out []TextChunk
	for _, c := range parsed {
		switch c.Type {
		case chunkText:
			k, v, ok := bytes.Cut(c.Data, []byte{0})
			if !ok {
				return nil, fmt.Errorf("%w: tEXt without keyword separator", ErrCorruptChunk)
			}
			out = append(out, TextChunk{Keyword: string(k), Text: fromLatin1(v)})
		case chunkIntlText:
			tc, err := parseIntlText(c.Data)
			if err != nil {
				return nil, err
			}
			out = append(out, tc)
		}
		if c.Type == chunkEnd {
			break
		}
	}
	return out, nil
}

func ReadTextFile(path string) ([]TextChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ExtractText(data)
}

// Values collects the texts stored under keyword.
func Values(chunks []TextChunk, keyword string) []string {
	var out []string
	for _, c := range chunks {
		if c.Keyword == keyword {
			out = append(out, c.Text)
		}
	}
	return out
}

// parseChunks splits a PNG stream and verifies every chunk checksum.
func parseChunks(data []byte) ([]*pngstructure.Chunk, error) {
	mc, err := pngstructure.NewPngMediaParser().ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
	}
	cs, ok := mc.(*pngstructure.ChunkSlice)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected parse result %T", ErrCorruptChunk, mc)
	}

	chunks := cs.Chunks()
	for _, c := range chunks {
		if !c.CheckCrc32() {
			return nil, fmt.Errorf("%w: %s checksum mismatch", ErrCorruptChunk, c.Type)
		}
	}
	return chunks, nil
}

func textChunk(tc TextChunk) (*pngstructure.Chunk, error) {
	if len(tc.Keyword) == 0 || len(tc.Keyword) > maxKeywordSize {
		return nil, fmt.Errorf("invalid text keyword %q", tc.Keyword)
	}

	typ := chunkText
	payload := make([]byte, 0, len(tc.Keyword)+5+len(tc.Text))
	payload = append(payload, tc.Keyword...)
	payload = append(payload, 0)
	if isLatin1(tc.Text) {
		payload = append(payload, latin1(tc.Text)...)
	} else {
		// uncompressed, no language tag, no translated keyword
		typ = chunkIntlText
		payload = append(payload, 0, 0, 0, 0)
		payload = append(payload, strings.ToValidUTF8(tc.Text, "?")...)
	}

	c := &pngstructure.Chunk{
		Length: uint32(len(payload)),
		Type:   typ,
		Data:   payload,
	}
	c.UpdateCrc32()
	return c, nil
}

func parseIntlText(data []byte) (TextChunk, error) {
	k, rest, ok := bytes.Cut(data, []byte{0})
	if !ok || len(rest) < 2 {
		return TextChunk{}, fmt.Errorf("%w: malformed iTXt header", ErrCorruptChunk)
	}
	if rest[0] != 0 {
		return TextChunk{}, fmt.Errorf("%w: compressed iTXt is not supported", ErrCorruptChunk)
	}
	rest = rest[2:]
	_, rest, ok = bytes.Cut(rest, []byte{0}) // language tag
	if !ok {
		return TextChunk{}, fmt.Errorf("%w: malformed iTXt language tag", ErrCorruptChunk)
	}
	_, text, ok := bytes.Cut(rest, []byte{0}) // translated keyword
	if !ok {
		return TextChunk{}, fmt.Errorf("%w: malformed iTXt keyword", ErrCorruptChunk)
	}
	if !utf8.Valid(text) {
		return TextChunk{}, fmt.Errorf("%w: iTXt text is not UTF-8", ErrCorruptChunk)
	}
	return TextChunk{Keyword: string(k), Text: string(text)}, nil
}

func writeChunk(buf *bytes.Buffer, c *pngstructure.Chunk) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(c.Data)))
	copy(hdr[4:], c.Type)
	buf.Write(hdr[:])
	buf.Write(c.Data)

	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], c.Crc)
	buf.Write(sum[:])
}

func isLatin1(s string) bool {
	for _, r := range s {
		if r > 0xff {
			return false
		}
	}
	return true
}

func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return out
}

func fromLatin1(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
