package format

import (
	"errors"
	"math"
	"math/big"
	"testing"

	etferrors "github.com/wippyai/etf/errors"
	"github.com/wippyai/etf/term"
)

func mustRef(t *testing.T, node term.Atom, ids ...uint32) term.Ref {
	t.Helper()
	r, err := term.NewRef(node, 0, ids...)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestTerm(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	tests := []struct {
		in   term.Term
		name string
		want string
	}{
		{name: "int", in: term.Int(-42), want: "-42"},
		{name: "big", in: term.NewBigInt(huge), want: "123456789012345678901234567890"},
		{name: "float", in: term.Float(3.1), want: "3.1"},
		{name: "whole float", in: term.Float(2), want: "2.0"},
		{name: "large float", in: term.Float(1e21), want: "1.0e21"},
		{name: "small float", in: term.Float(1e-7), want: "1.0e-7"},
		{name: "fractional exponent", in: term.Float(-1.5e-300), want: "-1.5e-300"},
		{name: "long mantissa", in: term.Float(1.2345e100), want: "1.2345e100"},
		{name: "nan", in: term.Float(math.NaN()), want: "nan"},
		{name: "atom", in: term.Atom("ok"), want: "ok"},
		{name: "node atom", in: term.Atom("a@b"), want: "a@b"},
		{name: "capital atom", in: term.Atom("Xy"), want: "'Xy'"},
		{name: "empty atom", in: term.Atom(""), want: "''"},
		{name: "atom with quote", in: term.Atom("it's"), want: `'it\'s'`},
		{name: "bool", in: term.Bool(true), want: "true"},
		{name: "atom named true", in: term.Atom("true"), want: "'true'"},
		{name: "null", in: term.Null{}, want: "null"},
		{name: "nil", in: nil, want: "null"},
		{name: "undefined", in: term.Undefined{}, want: "undefined"},
		{name: "string", in: term.String("abc"), want: `"abc"`},
		{name: "bytes", in: term.Binary{1, 2, 3}, want: "<<1,2,3>>"},
		{name: "text binary", in: term.Binary("ABC"), want: `<<"ABC">>`},
		{name: "empty binary", in: term.Binary{}, want: "<<>>"},
		{name: "binary with quote", in: term.Binary(`a"b`), want: `<<"a\"b">>`},
		{name: "tuple", in: term.NewTuple(term.Int(1), term.String("abc"), term.NewList()), want: `{1,"abc",[]}`},
		{
			name: "list",
			in:   term.NewList(term.Int(1), term.String("a"), term.NewList(), term.NewTuple(term.Int(1), term.Atom("b"))),
			want: `[1,"a",[],{1,b}]`,
		},
		{
			name: "proplist",
			in:   term.NewProplist(term.Prop{Key: "a", Value: term.Int(1)}, term.Prop{Key: "B", Value: term.Float(0.5)}),
			want: "[{a,1},{'B',0.5}]",
		},
		{
			name: "map",
			in:   term.NewMap(term.KeyBinary, term.Entry(term.String("k"), term.Atom("v")), term.Entry(term.Int(1), term.Int(2))),
			want: `#{"k" => v,1 => 2}`,
		},
		{name: "pid", in: term.NewPid("a@b", 1, 2, 0), want: "#pid{a@b,1,2}"},
		{name: "pid with creation", in: term.NewPid("a@b", 1, 2, 3), want: "#pid{a@b,1,2,3}"},
		{name: "ref", in: mustRef(t, "a@b", 1, 2, 3), want: "#ref{a@b,1,2,3}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Term(tt.in); got != tt.want {
				t.Errorf("Term = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTerm_Compact(t *testing.T) {
	if got := Term(term.Binary{1, 2, 3}, Options{Compact: true}); got != "`1,2,3`" {
		t.Errorf("compact bytes = %s", got)
	}
	if got := Term(term.Binary("ABC"), Options{Compact: true}); got != "`ABC`" {
		t.Errorf("compact text = %s", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		want  term.Term
		name  string
		input string
	}{
		{name: "int", input: "42", want: term.Int(42)},
		{name: "negative", input: "-7", want: term.Int(-7)},
		{name: "underscores", input: "1_000", want: term.Int(1000)},
		{name: "big", input: "18446744073709551616", want: term.NewBigInt(new(big.Int).Lsh(big.NewInt(1), 64))},
		{name: "float", input: "3.5", want: term.Float(3.5)},
		{name: "exponent", input: "1.0e-3", want: term.Float(0.001)},
		{name: "unsigned exponent", input: "1.0e21", want: term.Float(1e21)},
		{name: "atom", input: "hello", want: term.Atom("hello")},
		{name: "quoted atom", input: `'Hello World'`, want: term.Atom("Hello World")},
		{name: "escaped atom", input: `'it\'s'`, want: term.Atom("it's")},
		{name: "true", input: "true", want: term.Bool(true)},
		{name: "null", input: "null", want: term.Null{}},
		{name: "undefined", input: "undefined", want: term.Undefined{}},
		{name: "string", input: `"a\"b\n"`, want: term.String("a\"b\n")},
		{name: "binary bytes", input: "<<1, 2, 255>>", want: term.Binary{1, 2, 255}},
		{name: "binary text", input: `<<"abc">>`, want: term.Binary("abc")},
		{name: "empty binary", input: "<<>>", want: term.Binary{}},
		{name: "empty tuple", input: "{}", want: term.Tuple{}},
		{name: "nested", input: "{ok, [1, {x, 2.0}], <<>>}", want: term.NewTuple(
			term.Atom("ok"),
			term.NewList(term.Int(1), term.NewTuple(term.Atom("x"), term.Float(2))),
			term.Binary{},
		)},
		{name: "map", input: `#{"a" => 1, b => [] }`, want: term.NewMap(term.KeyDefault,
			term.Entry(term.String("a"), term.Int(1)),
			term.Entry(term.Atom("b"), term.NewList()),
		)},
		{name: "empty map", input: "#{}", want: term.NewMap(term.KeyDefault)},
		{name: "pid", input: "#pid{a@b,48,0}", want: term.NewPid("a@b", 48, 0, 0)},
		{name: "pid with creation", input: "#pid{'n@h',1,2,3}", want: term.NewPid("n@h", 1, 2, 3)},
		{name: "ref", input: "#ref{a@b,154,1,2}", want: mustRef(t, "a@b", 154, 1, 2)},
		{name: "comment", input: "% header\n[1, % one\n 2]", want: term.NewList(term.Int(1), term.Int(2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if !term.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{name: "empty", input: "", offset: 0},
		{name: "unterminated string", input: `"abc`, offset: 0},
		{name: "unterminated atom", input: `'abc`, offset: 0},
		{name: "unterminated list", input: "[1,2", offset: 4},
		{name: "trailing", input: "1 2", offset: 2},
		{name: "bad char", input: "{1;2}", offset: 2},
		{name: "missing arrow", input: "#{a 1}", offset: 4},
		{name: "byte too big", input: "<<256>>", offset: 2},
		{name: "pid arity", input: "#pid{a@b,1}", offset: 0},
		{name: "bad hash", input: "#foo{}", offset: 1},
		{name: "lone sign", input: "-", offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded", tt.input)
			}
			var e *etferrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("err is %T, want *errors.Error", err)
			}
			if e.Phase != etferrors.PhaseParse {
				t.Errorf("phase = %s, want parse", e.Phase)
			}
			if e.Offset != tt.offset {
				t.Errorf("offset = %d, want %d (%v)", e.Offset, tt.offset, err)
			}
		})
	}
}

func TestParse_RefArity(t *testing.T) {
	_, err := Parse("#ref{a@b,1,2,3,4}")
	if !errors.Is(err, etferrors.ErrInvalidArity) {
		t.Errorf("err = %v, want invalid arity", err)
	}
}

func TestRoundTrip(t *testing.T) {
	terms := []term.Term{
		term.Int(math.MinInt64),
		term.Float(-1.5e-300),
		term.Float(1e21),
		term.Atom("Mixed Case"),
		term.String("tab\there"),
		term.Binary{0, 255},
		term.Binary(`back\slash`),
		term.NewTuple(term.NewPid("x@y", 7, 8, 1), mustRef(t, "x@y")),
		term.NewProplist(term.Prop{Key: "k", Value: term.NewMap(term.KeyAtom, term.Entry(term.String("z"), term.Undefined{}))}),
	}

	for _, in := range terms {
		s := Term(in)
		out, err := Parse(s)
		if err != nil {
			t.Errorf("Parse(%s): %v", s, err)
			continue
		}
		if !term.Equal(in, out) {
			t.Errorf("round trip of %s gave %#v", s, out)
		}
	}
}

func FuzzParse(f *testing.F) {
	f.Add(`{ok, [1, 2.5, "s", <<"b">>, #{k => v}]}`)
	f.Add("#pid{a@b,1,2,3}")
	f.Add("#ref{a@b,1}")
	f.Add("'q\\'x'")

	f.Fuzz(func(t *testing.T, s string) {
		v, err := Parse(s)
		if err != nil {
			return
		}
		again, err := Parse(Term(v))
		if err != nil {
			t.Fatalf("reparse of %q: %v", Term(v), err)
		}
		if !term.Equal(v, again) {
			t.Fatalf("reparse changed %#v to %#v", v, again)
		}
	})
}
