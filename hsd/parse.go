/*
 * parse.go, part of gofnet.
 *
 *
 * Copyright 2021 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * gofnet is developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package hsd

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

type tokKind int

const (
	tWord tokKind = iota
	tString
	tOpen
	tClose
	tEqual
	tEnd //newline or ';'
)

type token struct {
	kind tokKind
	text string
	line int
}

func tokenize(r io.Reader) ([]token, error) {
	var toks []token
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := []rune(sc.Text())
		for i := 0; i < len(s); i++ {
			c := s[i]
			switch {
			case c == '#':
				i = len(s)
			case unicode.IsSpace(c):
			case c == '{':
				toks = append(toks, token{tOpen, "{", line})
			case c == '}':
				toks = append(toks, token{tClose, "}", line})
			case c == '=':
				toks = append(toks, token{tEqual, "=", line})
			case c == ';':
				toks = append(toks, token{tEnd, ";", line})
			case c == '"' || c == '\'':
				j := i + 1
				for j < len(s) && s[j] != c {
					j++
				}
				if j >= len(s) {
					return nil, Error{"unterminated string", line, nil, true}
				}
				toks = append(toks, token{tString, string(s[i+1 : j]), line})
				i = j
			default:
				j := i
				for j < len(s) && !unicode.IsSpace(s[j]) && !strings.ContainsRune("{}=;#\"'", s[j]) {
					j++
				}
				toks = append(toks, token{tWord, string(s[i:j]), line})
				i = j - 1
			}
		}
		toks = append(toks, token{tEnd, "\n", line})
	}
	if err := sc.Err(); err != nil {
		return nil, Error{err.Error(), line, nil, true}
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() *token {
	if p.pos >= len(p.toks) {
		return nil
	}
	return &p.toks[p.pos]
}

func (p *parser) next() *token {
	t := p.peek()
	if t != nil {
		p.pos++
	}
	return t
}

func (p *parser) skipEnds() {
	for t := p.peek(); t != nil && t.kind == tEnd; t = p.peek() {
		p.pos++
	}
}

//Parse reads an HSD document from r. The returned node is the document root,
//with an empty name, whose children are the top-level tags.
func Parse(r io.Reader) (*Node, error) {
	toks, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root := &Node{}
	if err := p.block(root, false); err != nil {
		return nil, err
	}
	return root, nil
}

//ReadFile parses the HSD file name.
func ReadFile(name string) (*Node, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), 0, nil, true}
	}
	defer f.Close()
	return Parse(f)
}

//block parses children into parent until a closing brace (if closed) or the end of input.
func (p *parser) block(parent *Node, closed bool) error {
	for {
		p.skipEnds()
		t := p.next()
		if t == nil {
			if closed {
				line := 0
				if len(p.toks) > 0 {
					line = p.toks[len(p.toks)-1].line
				}
				return Error{"missing closing brace", line, nil, true}
			}
			return nil
		}
		if t.kind == tClose {
			if !closed {
				return Error{"unexpected closing brace", t.line, nil, true}
			}
			return nil
		}
		if t.kind != tWord {
			return Error{"expected a tag name, found " + strconv.Quote(t.text), t.line, nil, true}
		}
		n, err := p.tag(t)
		if err != nil {
			return err
		}
		parent.Children = append(parent.Children, n)
	}
}

func (p *parser) tag(name *token) (*Node, error) {
	n := &Node{Name: name.text}
	t := p.next()
	if t == nil {
		return nil, Error{"tag " + name.text + " without value or block", name.line, nil, true}
	}
	switch t.kind {
	case tOpen:
		return n, p.block(n, true)
	case tEqual:
	default:
		return nil, Error{"tag " + name.text + " without value or block", name.line, nil, true}
	}
	//Tag = Method { ... }
	if t1 := p.peek(); t1 != nil && t1.kind == tWord && p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tOpen {
		p.next()
		child, err := p.tag(t1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
		return n, nil
	}
	var vals []token
	for t := p.peek(); t != nil && (t.kind == tWord || t.kind == tString); t = p.peek() {
		vals = append(vals, *t)
		p.next()
	}
	if len(vals) == 0 {
		return nil, Error{"tag " + name.text + " has an empty assignment", name.line, nil, true}
	}
	if t := p.peek(); t != nil && t.kind != tEnd && t.kind != tClose {
		return nil, Error{"unexpected " + strconv.Quote(t.text) + " after value of " + name.text, t.line, nil, true}
	}
	if len(vals) == 1 {
		n.Value = scalar(vals[0])
		return n, nil
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.text
	}
	n.Value = strings.Join(parts, " ")
	return n, nil
}

func scalar(t token) interface{} {
	if t.kind == tString {
		return t.text
	}
	switch strings.ToLower(t.text) {
	case "yes":
		return true
	case "no":
		return false
	}
	if i, err := strconv.Atoi(t.text); err == nil {
		return i
	}
	//Fortran double precision exponents.
	if f, err := strconv.ParseFloat(strings.NewReplacer("d", "e", "D", "E").Replace(t.text), 64); err == nil {
		return f
	}
	return t.text
}
