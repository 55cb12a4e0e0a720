// CLAUDE:SUMMARY PDF content stream tokenizer and text-state interpreter producing positioned text runs.
package docfetch

import (
	"math"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// run is one shown string, positioned in page space.
type run struct {
	X, Y float64
	EndX float64
	Size float64
	Text string
}

type tokKind int

const (
	tokNumber tokKind = iota
	tokString
	tokName
	tokArrayOpen
	tokArrayClose
	tokDict
	tokOperator
)

type token struct {
	kind tokKind
	num  float64
	str  []byte
	op   string
}

// lexer walks a content stream. It never fails: malformed input ends the
// stream or is skipped.
type lexer struct {
	data []byte
	pos  int
}

func isPDFSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isPDFSpace(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

func (l *lexer) next() (token, bool) {
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return token{}, false
		}
		c := l.data[l.pos]
		switch {
		case c == '(':
			l.pos++
			return token{kind: tokString, str: l.literal()}, true
		case c == '<' && l.peek(1) == '<':
			l.pos += 2
			return token{kind: tokDict, op: "<<"}, true
		case c == '>' && l.peek(1) == '>':
			l.pos += 2
			return token{kind: tokDict, op: ">>"}, true
		case c == '<':
			l.pos++
			return token{kind: tokString, str: l.hex()}, true
		case c == '[':
			l.pos++
			return token{kind: tokArrayOpen}, true
		case c == ']':
			l.pos++
			return token{kind: tokArrayClose}, true
		case c == '/':
			l.pos++
			return token{kind: tokName, op: l.regular()}, true
		case c == '{' || c == '}' || c == ')' || c == '>':
			l.pos++
			continue
		}
		word := l.regular()
		if word == "" {
			l.pos++
			continue
		}
		if n, err := strconv.ParseFloat(word, 64); err == nil {
			return token{kind: tokNumber, num: n}, true
		}
		if word == "ID" {
			l.skipInlineImage()
		}
		return token{kind: tokOperator, op: word}, true
	}
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.data) {
		return l.data[l.pos+off]
	}
	return 0
}

func (l *lexer) regular() string {
	start := l.pos
	for l.pos < len(l.data) && !isPDFSpace(l.data[l.pos]) && !isPDFDelim(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// literal reads a (string) body after the opening paren, handling nesting
// and escapes.
func (l *lexer) literal() []byte {
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						v = v*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

func (l *lexer) hex() []byte {
	var out []byte
	hi := -1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			break
		}
		v := hexVal(c)
		if v < 0 {
			continue
		}
		if hi < 0 {
			hi = v
		} else {
			out = append(out, byte(hi<<4|v))
			hi = -1
		}
	}
	if hi >= 0 {
		out = append(out, byte(hi<<4))
	}
	return out
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// skipInlineImage jumps past binary inline image data up to "EI".
func (l *lexer) skipInlineImage() {
	if l.pos < len(l.data) {
		l.pos++
	}
	for l.pos+1 < len(l.data) {
		if l.data[l.pos] == 'E' && l.data[l.pos+1] == 'I' &&
			(l.pos == 0 || isPDFSpace(l.data[l.pos-1])) &&
			(l.pos+2 >= len(l.data) || isPDFSpace(l.data[l.pos+2])) {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}

// matrix is a PDF affine transform [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func translate(tx, ty float64) matrix { return matrix{1, 0, 0, 1, tx, ty} }

// glyphWidth approximates an average glyph advance in text space units,
// as a fraction of the font size. Font metrics are not loaded.
const glyphWidth = 0.5

// kernSpace is the TJ adjustment (thousandths of an em) beyond which a
// word break is assumed.
const kernSpace = 200

type textState struct {
	ctm      matrix
	fontSize float64
	leading  float64
	charSp   float64
	wordSp   float64
	hScale   float64
}

// operand is a stack entry; arrays are only used by TJ.
type operand struct {
	tok token
	arr []token
}

func (o operand) number() float64 {
	if o.tok.kind == tokNumber {
		return o.tok.num
	}
	return 0
}

type interpreter struct {
	st      textState
	saved   []textState
	tm, tlm matrix
	args    []operand
	runs    []run
}

// interpretContent returns the text runs shown by a content stream.
func interpretContent(data []byte) []run {
	in := &interpreter{
		st: textState{ctm: identity, hScale: 1},
		tm: identity, tlm: identity,
	}
	lx := &lexer{data: data}
	var arr []token
	depth := 0
	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		switch {
		case tok.kind == tokArrayOpen:
			if depth == 0 {
				arr = nil
			}
			depth++
		case tok.kind == tokArrayClose:
			if depth > 0 {
				depth--
				if depth == 0 {
					in.args = append(in.args, operand{arr: arr})
				}
			}
		case depth > 0:
			arr = append(arr, tok)
		case tok.kind == tokOperator:
			in.exec(tok.op)
			in.args = in.args[:0]
		default:
			in.args = append(in.args, operand{tok: tok})
		}
	}
	return in.runs
}

// num returns the i-th operand counted from the first of n expected ones.
func (in *interpreter) num(n, i int) float64 {
	if len(in.args) < n {
		return 0
	}
	return in.args[len(in.args)-n+i].number()
}

func (in *interpreter) lastString() ([]byte, bool) {
	if len(in.args) == 0 {
		return nil, false
	}
	o := in.args[len(in.args)-1]
	if o.arr != nil || o.tok.kind != tokString {
		return nil, false
	}
	return o.tok.str, true
}

func (in *interpreter) exec(op string) {
	switch op {
	case "q":
		in.saved = append(in.saved, in.st)
	case "Q":
		if n := len(in.saved); n > 0 {
			in.st = in.saved[n-1]
			in.saved = in.saved[:n-1]
		}
	case "cm":
		if len(in.args) >= 6 {
			m := matrix{in.num(6, 0), in.num(6, 1), in.num(6, 2), in.num(6, 3), in.num(6, 4), in.num(6, 5)}
			in.st.ctm = m.mul(in.st.ctm)
		}
	case "BT":
		in.tm, in.tlm = identity, identity
	case "Tf":
		if len(in.args) >= 1 {
			in.st.fontSize = in.args[len(in.args)-1].number()
		}
	case "TL":
		in.st.leading = in.num(1, 0)
	case "Tc":
		in.st.charSp = in.num(1, 0)
	case "Tw":
		in.st.wordSp = in.num(1, 0)
	case "Tz":
		in.st.hScale = in.num(1, 0) / 100
	case "Td":
		in.moveLine(in.num(2, 0), in.num(2, 1))
	case "TD":
		ty := in.num(2, 1)
		in.st.leading = -ty
		in.moveLine(in.num(2, 0), ty)
	case "Tm":
		if len(in.args) >= 6 {
			in.tlm = matrix{in.num(6, 0), in.num(6, 1), in.num(6, 2), in.num(6, 3), in.num(6, 4), in.num(6, 5)}
			in.tm = in.tlm
		}
	case "T*":
		in.moveLine(0, -in.st.leading)
	case "Tj":
		if s, ok := in.lastString(); ok {
			in.show([]operand{{tok: token{kind: tokString, str: s}}})
		}
	case "'":
		s, ok := in.lastString()
		in.moveLine(0, -in.st.leading)
		if ok {
			in.show([]operand{{tok: token{kind: tokString, str: s}}})
		}
	case "\"":
		if len(in.args) >= 3 {
			in.st.wordSp = in.num(3, 0)
			in.st.charSp = in.num(3, 1)
		}
		s, ok := in.lastString()
		in.moveLine(0, -in.st.leading)
		if ok {
			in.show([]operand{{tok: token{kind: tokString, str: s}}})
		}
	case "TJ":
		if len(in.args) == 0 || in.args[len(in.args)-1].arr == nil {
			return
		}
		var parts []operand
		for _, t := range in.args[len(in.args)-1].arr {
			parts = append(parts, operand{tok: t})
		}
		in.show(parts)
	}
}

func (in *interpreter) moveLine(tx, ty float64) {
	in.tlm = translate(tx, ty).mul(in.tlm)
	in.tm = in.tlm
}

// show renders strings and TJ kerning numbers starting at the current text
// position, advancing the text matrix as it goes. A kerning adjustment of
// kernSpace or more ends the current run so that the layout pass sees the
// real gap: a word space or a column break.
func (in *interpreter) show(parts []operand) {
	start := in.tm
	var text []rune
	emit := func() {
		if len(text) > 0 {
			in.emit(start, string(text))
		}
		text = nil
	}
	for _, p := range parts {
		switch p.tok.kind {
		case tokNumber:
			if p.tok.num <= -kernSpace {
				emit()
			}
			in.tm = translate(-p.tok.num/1000*in.st.fontSize*in.st.hScale, 0).mul(in.tm)
			if len(text) == 0 {
				start = in.tm
			}
		case tokString:
			decoded := []rune(decodeTextString(p.tok.str))
			var advance float64
			for _, r := range decoded {
				w := glyphWidth*in.st.fontSize + in.st.charSp
				if r == ' ' {
					w += in.st.wordSp
				}
				advance += w * in.st.hScale
			}
			in.tm = translate(advance, 0).mul(in.tm)
			text = append(text, decoded...)
		}
	}
	emit()
}

// emit records the text shown from the text matrix at to the current one.
func (in *interpreter) emit(at matrix, text string) {
	start := at.mul(in.st.ctm)
	end := in.tm.mul(in.st.ctm)
	size := in.st.fontSize * math.Hypot(start[2], start[3])
	if size == 0 {
		size = in.st.fontSize
	}
	in.runs = append(in.runs, run{
		X:    start[4],
		Y:    start[5],
		EndX: end[4],
		Size: math.Abs(size),
		Text: text,
	})
}

// decodeTextString decodes a PDF string operand. UTF-16BE strings carry a
// byte order mark; everything else is treated as WinAnsi.
func decodeTextString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		b = b[2:]
		u := make([]uint16, 0, len(b)/2)
		for i := 0; i+1 < len(b); i += 2 {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return cleanRunes(string(utf16.Decode(u)))
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return cleanRunes(string(s))
}

// cleanRunes maps whitespace controls to spaces and drops the rest.
func cleanRunes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r' || r == '\f':
			out = append(out, ' ')
		case r < 0x20 || r == 0x7f || r == utf8.RuneError:
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
