package format

import (
	"github.com/wippyai/etf/errors"
)

type tokenType int

const (
	tokLBrace   tokenType = iota // {
	tokRBrace                    // }
	tokLBracket                  // [
	tokRBracket                  // ]
	tokLBinary                   // <<
	tokRBinary                   // >>
	tokComma                     // ,
	tokArrow                     // =>
	tokHash                      // #
	tokAtom                      // bare atom
	tokQuoted                    // 'quoted atom'
	tokString                    // "string"
	tokNumber
)

func (t tokenType) String() string {
	switch t {
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLBinary:
		return "'<<'"
	case tokRBinary:
		return "'>>'"
	case tokComma:
		return "','"
	case tokArrow:
		return "'=>'"
	case tokHash:
		return "'#'"
	case tokAtom:
		return "atom"
	case tokQuoted:
		return "quoted atom"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	}
	return "unknown"
}

type token struct {
	value string
	typ   tokenType
	pos   int
}

func tokenize(input string) ([]token, error) {
	var tokens []token

	for i := 0; i < len(input); i++ {
		c := input[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			continue

		// comment to end of line
		case c == '%':
			for i < len(input) && input[i] != '\n' {
				i++
			}
			continue

		case c == '{':
			tokens = append(tokens, token{"{", tokLBrace, i})
		case c == '}':
			tokens = append(tokens, token{"}", tokRBrace, i})
		case c == '[':
			tokens = append(tokens, token{"[", tokLBracket, i})
		case c == ']':
			tokens = append(tokens, token{"]", tokRBracket, i})
		case c == ',':
			tokens = append(tokens, token{",", tokComma, i})
		case c == '#':
			tokens = append(tokens, token{"#", tokHash, i})

		case c == '<' && i+1 < len(input) && input[i+1] == '<':
			tokens = append(tokens, token{"<<", tokLBinary, i})
			i++
		case c == '>' && i+1 < len(input) && input[i+1] == '>':
			tokens = append(tokens, token{">>", tokRBinary, i})
			i++
		case c == '=' && i+1 < len(input) && input[i+1] == '>':
			tokens = append(tokens, token{"=>", tokArrow, i})
			i++

		// string literal, kept with its quotes for strconv.Unquote
		case c == '"':
			start := i
			i++
			for i < len(input) && input[i] != '"' {
				if input[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(input) {
				return nil, errors.ParseFailed(start, "unterminated string")
			}
			tokens = append(tokens, token{input[start : i+1], tokString, start})

		case c == '\'':
			start := i
			var val []byte
			i++
			for i < len(input) && input[i] != '\'' {
				if input[i] == '\\' && i+1 < len(input) {
					i++
				}
				val = append(val, input[i])
				i++
			}
			if i >= len(input) {
				return nil, errors.ParseFailed(start, "unterminated quoted atom")
			}
			tokens = append(tokens, token{string(val), tokQuoted, start})

		case c == '-' || c == '+' || isDigit(c):
			start := i
			if c == '-' || c == '+' {
				i++
			}
			for i < len(input) {
				d := input[i]
				if isDigit(d) || d == '.' || d == 'e' || d == 'E' || d == '_' ||
					((d == '-' || d == '+') && (input[i-1] == 'e' || input[i-1] == 'E')) {
					i++
				} else {
					break
				}
			}
			if i == start+1 && !isDigit(c) {
				return nil, errors.ParseFailed(start, "sign without digits")
			}
			tokens = append(tokens, token{input[start:i], tokNumber, start})
			i--

		case isAtomStart(c):
			start := i
			for i < len(input) && isAtomChar(input[i]) {
				i++
			}
			tokens = append(tokens, token{input[start:i], tokAtom, start})
			i--

		default:
			return nil, errors.ParseFailed(i, "unexpected character "+quoteByte(c))
		}
	}

	return tokens, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAtomStart(c byte) bool { return c >= 'a' && c <= 'z' }

func isAtomChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '_' || c == '@'
}

func quoteByte(c byte) string {
	if c >= 0x20 && c < 0x7f {
		return "'" + string(rune(c)) + "'"
	}
	const hex = "0123456789abcdef"
	return "0x" + string([]byte{hex[c>>4], hex[c&0xf]})
}
