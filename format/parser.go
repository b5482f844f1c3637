package format

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/wippyai/etf/errors"
	"github.com/wippyai/etf/term"
)

// Parse reads a single term written in Erlang literal syntax, the same
// syntax Term prints. Bare true, false, null and undefined become Bool,
// Null and Undefined.
//
//	42  -7  3.5  1.0e10  hello  'Quoted'  "text"
//	<<1,2,3>>  <<"abc">>  {a,1}  [1,2]  #{"k" => v}
//	#pid{node@host,1,2}  #pid{node@host,1,2,0}  #ref{node@host,1,2,3}
func Parse(s string) (term.Term, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, end: len(s)}
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok != nil {
		return nil, errors.ParseFailed(tok.pos, "unexpected "+tok.typ.String()+" after term")
	}
	return t, nil
}

type parser struct {
	tokens []token
	pos    int
	end    int
}

func (p *parser) peek() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) next() *token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) expect(typ tokenType) (*token, error) {
	t := p.next()
	if t == nil {
		return nil, errors.ParseFailed(p.end, "unexpected end of input, expected "+typ.String())
	}
	if t.typ != typ {
		return nil, errors.ParseFailed(t.pos, "expected "+typ.String()+", got "+strconv.Quote(t.value))
	}
	return t, nil
}

func (p *parser) parseTerm() (term.Term, error) {
	t := p.next()
	if t == nil {
		return nil, errors.ParseFailed(p.end, "unexpected end of input")
	}
	switch t.typ {
	case tokNumber:
		return parseNumber(t)
	case tokAtom:
		switch t.value {
		case "true":
			return term.Bool(true), nil
		case "false":
			return term.Bool(false), nil
		case "null":
			return term.Null{}, nil
		case "undefined":
			return term.Undefined{}, nil
		}
		return term.Atom(t.value), nil
	case tokQuoted:
		return term.Atom(t.value), nil
	case tokString:
		s, err := unquote(t)
		if err != nil {
			return nil, err
		}
		return term.String(s), nil
	case tokLBinary:
		return p.parseBinary(t)
	case tokLBrace:
		elems, err := p.parseSeq(tokRBrace)
		if err != nil {
			return nil, err
		}
		return term.Tuple(elems), nil
	case tokLBracket:
		elems, err := p.parseSeq(tokRBracket)
		if err != nil {
			return nil, err
		}
		return term.List(elems), nil
	case tokHash:
		return p.parseHash(t)
	}
	return nil, errors.ParseFailed(t.pos, "unexpected "+t.typ.String())
}

// parseSeq reads comma separated terms up to and including closing.
func (p *parser) parseSeq(closing tokenType) ([]term.Term, error) {
	elems := []term.Term{}
	if t := p.peek(); t != nil && t.typ == closing {
		p.next()
		return elems, nil
	}
	for {
		el, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)

		t := p.next()
		if t == nil {
			return nil, errors.ParseFailed(p.end, "unexpected end of input, expected "+closing.String())
		}
		switch t.typ {
		case tokComma:
			continue
		case closing:
			return elems, nil
		}
		return nil, errors.ParseFailed(t.pos, "expected ',' or "+closing.String()+", got "+strconv.Quote(t.value))
	}
}

func (p *parser) parseBinary(open *token) (term.Term, error) {
	t := p.peek()
	if t == nil {
		return nil, errors.ParseFailed(p.end, "unterminated binary")
	}
	switch t.typ {
	case tokRBinary:
		p.next()
		return term.Binary{}, nil
	case tokString:
		p.next()
		s, err := unquote(t)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBinary); err != nil {
			return nil, err
		}
		return term.Binary(s), nil
	}

	var out term.Binary
	for {
		n, err := p.expect(tokNumber)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(n.value, 10, 8)
		if err != nil {
			return nil, errors.ParseFailed(n.pos, "binary element "+n.value+" is not a byte")
		}
		out = append(out, byte(v))

		sep := p.next()
		if sep == nil {
			return nil, errors.ParseFailed(open.pos, "unterminated binary")
		}
		if sep.typ == tokRBinary {
			return out, nil
		}
		if sep.typ != tokComma {
			return nil, errors.ParseFailed(sep.pos, "expected ',' or '>>' in binary")
		}
	}
}

func (p *parser) parseHash(hash *token) (term.Term, error) {
	t := p.next()
	if t == nil {
		return nil, errors.ParseFailed(p.end, "unexpected end of input after '#'")
	}
	switch {
	case t.typ == tokLBrace:
		return p.parseMap()
	case t.typ == tokAtom && t.value == "pid":
		return p.parsePid(hash)
	case t.typ == tokAtom && t.value == "ref":
		return p.parseRef(hash)
	}
	return nil, errors.ParseFailed(t.pos, "expected '{', pid or ref after '#'")
}

func (p *parser) parseMap() (term.Term, error) {
	m := term.Map{Entries: []term.MapEntry{}}
	if t := p.peek(); t != nil && t.typ == tokRBrace {
		p.next()
		return m, nil
	}
	for {
		k, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokArrow); err != nil {
			return nil, err
		}
		v, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, term.MapEntry{Key: k, Value: v})

		t := p.next()
		if t == nil {
			return nil, errors.ParseFailed(p.end, "unterminated map")
		}
		if t.typ == tokRBrace {
			return m, nil
		}
		if t.typ != tokComma {
			return nil, errors.ParseFailed(t.pos, "expected ',' or '}' in map")
		}
	}
}

// parseRecord reads {node, n, ...} for pids and refs.
func (p *parser) parseRecord() (term.Atom, []uint32, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return "", nil, err
	}
	n := p.next()
	if n == nil || (n.typ != tokAtom && n.typ != tokQuoted) {
		pos := p.end
		if n != nil {
			pos = n.pos
		}
		return "", nil, errors.ParseFailed(pos, "expected node name")
	}
	var nums []uint32
	for {
		t := p.next()
		if t == nil {
			return "", nil, errors.ParseFailed(p.end, "unterminated record")
		}
		if t.typ == tokRBrace {
			return term.Atom(n.value), nums, nil
		}
		if t.typ != tokComma {
			return "", nil, errors.ParseFailed(t.pos, "expected ',' or '}'")
		}
		num, err := p.expect(tokNumber)
		if err != nil {
			return "", nil, err
		}
		v, err := strconv.ParseUint(num.value, 10, 32)
		if err != nil {
			return "", nil, errors.ParseFailed(num.pos, "expected a 32-bit unsigned integer, got "+num.value)
		}
		nums = append(nums, uint32(v))
	}
}

func (p *parser) parsePid(hash *token) (term.Term, error) {
	node, nums, err := p.parseRecord()
	if err != nil {
		return nil, err
	}
	if len(nums) != 2 && len(nums) != 3 {
		return nil, errors.ParseFailed(hash.pos, "#pid takes node, id, serial and an optional creation")
	}
	var creation uint8
	if len(nums) == 3 {
		creation = uint8(nums[2])
	}
	return term.NewPid(node, nums[0], nums[1], creation), nil
}

func (p *parser) parseRef(hash *token) (term.Term, error) {
	node, ids, err := p.parseRecord()
	if err != nil {
		return nil, err
	}
	r, err := term.NewRef(node, 0, ids...)
	if err != nil {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidArity).
			Offset(hash.pos).
			Cause(err).
			Detail("#ref takes at most %d ids", term.MaxRefIDs).
			Build()
	}
	return r, nil
}

func parseNumber(t *token) (term.Term, error) {
	s := strings.ReplaceAll(t.value, "_", "")
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.ParseFailed(t.pos, "invalid float "+t.value)
		}
		return term.Float(f), nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return term.Int(v), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.ParseFailed(t.pos, "invalid integer "+t.value)
	}
	return term.Integer(v), nil
}

func unquote(t *token) (string, error) {
	s, err := strconv.Unquote(t.value)
	if err != nil {
		return "", errors.New(errors.PhaseParse, errors.KindInvalidData).
			Offset(t.pos).
			Cause(err).
			Detail("invalid string literal").
			Build()
	}
	return s, nil
}
