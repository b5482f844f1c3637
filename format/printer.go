package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/etf/term"
)

// Options controls printing.
type Options struct {
	// Compact prints binaries between backticks without the << >> frame.
	// Compact output is for display and is not accepted by Parse.
	Compact bool
}

// Term renders t in Erlang literal syntax. Unless Compact is set the
// result parses back to an equal term, except for NaN and infinite floats.
func Term(t term.Term, opts ...Options) string {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	var b strings.Builder
	write(&b, t, o)
	return b.String()
}

func write(b *strings.Builder, t term.Term, o Options) {
	switch v := t.(type) {
	case nil, term.Null:
		b.WriteString("null")
	case term.Undefined:
		b.WriteString("undefined")
	case term.Bool:
		b.WriteString(strconv.FormatBool(bool(v)))
	case term.Int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case term.BigInt:
		if v.Value == nil {
			b.WriteString("0")
			return
		}
		b.WriteString(v.Value.String())
	case term.Float:
		b.WriteString(formatFloat(float64(v)))
	case term.Atom:
		b.WriteString(atom(string(v)))
	case term.String:
		b.WriteString(strconv.Quote(string(v)))
	case term.Binary:
		writeBinary(b, v, o)
	case term.Tuple:
		b.WriteByte('{')
		writeSeq(b, v, o)
		b.WriteByte('}')
	case term.List:
		b.WriteByte('[')
		writeSeq(b, v, o)
		b.WriteByte(']')
	case term.Proplist:
		b.WriteByte('[')
		for i, p := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('{')
			b.WriteString(atom(p.Key))
			b.WriteByte(',')
			write(b, p.Value, o)
			b.WriteByte('}')
		}
		b.WriteByte(']')
	case term.Map:
		b.WriteString("#{")
		for i, e := range v.Entries {
			if i > 0 {
				b.WriteByte(',')
			}
			write(b, e.Key, o)
			b.WriteString(" => ")
			write(b, e.Value, o)
		}
		b.WriteByte('}')
	case term.Pid:
		b.WriteString("#pid{")
		b.WriteString(atom(string(v.Node)))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(v.ID()), 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(v.Serial()), 10))
		if c := v.Creation(); c != 0 {
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(int(c)))
		}
		b.WriteByte('}')
	case term.Ref:
		b.WriteString("#ref{")
		b.WriteString(atom(string(v.Node)))
		for _, id := range v.IDs {
			b.WriteByte(',')
			b.WriteString(strconv.FormatUint(uint64(id), 10))
		}
		b.WriteByte('}')
	}
}

func writeSeq(b *strings.Builder, elems []term.Term, o Options) {
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		write(b, e, o)
	}
}

func writeBinary(b *strings.Builder, v term.Binary, o Options) {
	text := printable(v)
	switch {
	case o.Compact:
		b.WriteByte('`')
	case text:
		b.WriteString(`<<"`)
	default:
		b.WriteString("<<")
	}

	if text {
		for _, c := range v {
			if c == '"' || c == '\\' {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
	} else {
		for i, c := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(c)))
		}
	}

	switch {
	case o.Compact:
		b.WriteByte('`')
	case text:
		b.WriteString(`">>`)
	default:
		b.WriteString(">>")
	}
}

// printable reports whether every byte is printable ASCII.
func printable(v []byte) bool {
	if len(v) == 0 {
		return false
	}
	for _, c := range v {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// atom quotes names that would not read back as the same atom.
func atom(s string) string {
	bare := len(s) > 0 && isAtomStart(s[0])
	for i := 1; bare && i < len(s); i++ {
		bare = isAtomChar(s[i])
	}
	switch s {
	case "true", "false", "null", "undefined":
		bare = false
	}
	if bare {
		return s
	}
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('\'')
	return b.String()
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	mant, exp, hasExp := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	if !hasExp {
		return mant
	}
	// 1e+21 prints as 1.0e21 and 1e-07 as 1.0e-7
	sign := ""
	if exp[0] == '-' || exp[0] == '+' {
		if exp[0] == '-' {
			sign = "-"
		}
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	return mant + "e" + sign + exp
}
