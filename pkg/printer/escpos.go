package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size
const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontWide   = 0x10
	FontTall   = 0x01
)

// Paper widths in characters for the common roll sizes.
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream for thermal printers.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document for a printer that fits charWidth characters
// per line (32 for 58mm paper, 48 for 80mm).
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width is the characters per line.
func (d *Document) Width() int { return d.width }

// Init sends ESC @.
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s and a line feed. Lines wider than the paper are wrapped on
// word boundaries.
func (d *Document) Text(s string) *Document {
	for _, line := range wrap(s, d.width) {
		d.buf.WriteString(line)
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width rule of char.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints key left-aligned and value right-aligned on one line.
func (d *Document) KeyValue(key, value string) *Document {
	d.buf.WriteString(d.pad(key, value))
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints a description line followed by "qty x rate" and the amount
// right-aligned underneath, which keeps long descriptions readable on 58mm rolls.
func (d *Document) ItemLine(description, qtyRate, amount string) *Document {
	d.Text(description)
	d.buf.WriteString(d.pad("  "+qtyRate, amount))
	d.buf.WriteByte(LF)
	return d
}

// Cut sends a full paper cut.
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut sends a partial paper cut.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Reset clears the buffer and re-initialises the printer.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.Init()
	return d
}

func (d *Document) pad(left, right string) string {
	spaces := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

func wrap(s string, width int) []string {
	if utf8.RuneCountInString(s) <= width {
		return []string{s}
	}

	var lines []string
	var line []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(line) > 0 {
				lines = append(lines, string(line))
				line = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(line) == 0:
			line = w
		case len(line)+1+len(w) <= width:
			line = append(append(line, ' '), w...)
		default:
			lines = append(lines, string(line))
			line = w
		}
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
