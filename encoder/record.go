package encoder

import (
	"strconv"
	"strings"

	"github.com/notargets/gocadinp/geometry"
)

// Number of decimals for coordinates, lengths, knots and weights
const CoordDigits = 8

// Number of decimals for directions and attribute values
const AttrDigits = 6

// Placeholder written for an unset id, group or section reference
const Placeholder = "-"

/*
Record is one line of the solver input: a keyword followed by space separated tokens. Gap inserts
an empty token, which renders as the double space the grammar puts between point groups of
a geometry record.
*/
type Record struct {
	Keyword string
	tokens  []string
}

func NewRecord(keyword string) *Record {
	return &Record{Keyword: keyword}
}

func (r *Record) Add(tokens ...string) *Record {
	r.tokens = append(r.tokens, tokens...)
	return r
}

// Ref adds a named id or group, writing the placeholder for 0
func (r *Record) Ref(name string, id uint32) *Record {
	return r.Add(name, FormatID(id))
}

func (r *Record) Int(name string, v int) *Record {
	return r.Add(name, strconv.Itoa(v))
}

// Coord adds a named length or parameter with CoordDigits decimals
func (r *Record) Coord(name string, v float64) *Record {
	return r.Add(name, FormatFloat(v, CoordDigits))
}

func (r *Record) Attr(name string, v float64) *Record {
	return r.Add(name, FormatFloat(v, AttrDigits))
}

// Point adds a named triple with CoordDigits decimals
func (r *Record) Point(name string, p geometry.Point3) *Record {
	return r.Add(name).Add(formatTriple(p, CoordDigits)...)
}

// Direction adds a named triple with AttrDigits decimals
func (r *Record) Direction(name string, v geometry.Vector3) *Record {
	return r.Add(name).Add(formatTriple(v, AttrDigits)...)
}

func (r *Record) Gap() *Record {
	return r.Add("")
}

// Text appends free form text, surrounding blanks removed and line breaks folded into blanks
func (r *Record) Text(s string) *Record {
	s, _ = SingleLine(s)
	if s = strings.TrimSpace(s); s != "" {
		r.Add(s)
	}
	return r
}

// Code appends a named code word such as a fixation with every blank and line break removed,
// nothing when no word is left
func (r *Record) Code(name, code string) *Record {
	if code = strings.Join(strings.Fields(code), ""); code != "" {
		r.Add(name, code)
	}
	return r
}

// SingleLine replaces each run of line breaks in s by one blank; folded reports whether s had any
func SingleLine(s string) (line string, folded bool) {
	if !strings.ContainsAny(s, "\r\n") {
		return s, false
	}
	parts := strings.FieldsFunc(s, func(c rune) bool { return c == '\r' || c == '\n' })
	return strings.Join(parts, " "), true
}

func (r *Record) Tokens() []string {
	return r.tokens
}

func (r *Record) String() string {
	if len(r.tokens) == 0 {
		return r.Keyword
	}
	return r.Keyword + " " + strings.Join(r.tokens, " ")
}

// FormatFloat writes fixed point with the given decimals and never emits a negative zero
func FormatFloat(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'f', digits, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		s = s[1:]
	}
	return s
}

func FormatID(id uint32) string {
	if id == 0 {
		return Placeholder
	}
	return strconv.FormatUint(uint64(id), 10)
}

func formatTriple(p geometry.Point3, digits int) []string {
	return []string{
		FormatFloat(p.X, digits),
		FormatFloat(p.Y, digits),
		FormatFloat(p.Z, digits),
	}
}
