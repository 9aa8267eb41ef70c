package hoa

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF    tokenKind = iota
	tokHeader           // "States:", "State:", ...
	tokIdent            // Inf, t, v1, ...
	tokInt
	tokString
	tokPunct // one of [ ] { } ( ) & | !
	tokBody  // --BODY--
	tokEnd   // --END--
	tokAbort // --ABORT--
)

type token struct {
	kind tokenKind
	text string
	num  int
	line int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

// lex splits HOA text into tokens, dropping whitespace and comments.
func lex(src string) ([]token, error) {
	var toks []token
	line := 1
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, &ParseError{Line: line, Msg: "unterminated comment"}
			}
			line += strings.Count(src[i:i+2+end], "\n")
			i += end + 4
		case strings.HasPrefix(src[i:], "--"):
			end := strings.Index(src[i+2:], "--")
			if end < 0 {
				return nil, &ParseError{Line: line, Msg: "unterminated marker"}
			}
			word := src[i : i+end+4]
			var kind tokenKind
			switch word {
			case "--BODY--":
				kind = tokBody
			case "--END--":
				kind = tokEnd
			case "--ABORT--":
				kind = tokAbort
			default:
				return nil, &ParseError{Line: line, Msg: fmt.Sprintf("unknown marker %s", word)}
			}
			toks = append(toks, token{kind: kind, text: word, line: line})
			i += len(word)
		case c == '"':
			var b strings.Builder
			j := i + 1
			for ; j < len(src) && src[j] != '"'; j++ {
				if src[j] == '\\' && j+1 < len(src) {
					j++
				}
				if src[j] == '\n' {
					line++
				}
				b.WriteByte(src[j])
			}
			if j >= len(src) {
				return nil, &ParseError{Line: line, Msg: "unterminated string"}
			}
			toks = append(toks, token{kind: tokString, text: b.String(), line: line})
			i = j + 1
		case c >= '0' && c <= '9':
			j, n := i, 0
			for ; j < len(src) && src[j] >= '0' && src[j] <= '9'; j++ {
				n = n*10 + int(src[j]-'0')
				if n > 1<<30 {
					return nil, &ParseError{Line: line, Msg: "number too large"}
				}
			}
			toks = append(toks, token{kind: tokInt, text: src[i:j], num: n, line: line})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			if j < len(src) && src[j] == ':' {
				toks = append(toks, token{kind: tokHeader, text: src[i : j+1], line: line})
				i = j + 1
				continue
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j], line: line})
			i = j
		case strings.IndexByte("[]{}()&|!", c) >= 0:
			toks = append(toks, token{kind: tokPunct, text: string(c), line: line})
			i++
		default:
			return nil, &ParseError{Line: line, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	toks = append(toks, token{kind: tokEOF, line: line})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '@' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || c == '.' || c >= '0' && c <= '9'
}
