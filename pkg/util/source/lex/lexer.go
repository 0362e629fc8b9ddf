// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lex

import (
	"github.com/consensys/go-jlang/pkg/util/source"
)

// Token associates a chunk of the underlying items with a tag identifying
// what was matched (e.g. a number, an identifier, etc).  The actual text
// matched can be recovered from the enclosing source file using the span.
type Token struct {
	// Kind of token.
	Kind uint
	// Span identifying the matched items.
	Span source.Span
}

// Rule constructs a lexical rule from a given scanner and token kind.  Any
// input matched by the scanner produces a token of the given kind.
func Rule[T any](scanner Scanner[T], kind uint) LexRule[T] {
	return LexRule[T]{scanner, kind}
}

// LexRule pairs a scanner with the kind of token it produces.
type LexRule[T any] struct {
	scanner Scanner[T]
	kind    uint
}

// Lexer provides a generic rule-driven lexer.  Rules are tried in order of
// declaration against the remaining input, with the first matching rule
// determining the next token.  Thus, earlier rules take priority over later
// ones.
type Lexer[T any] struct {
	// Items being lexed.
	items []T
	// Position within items.
	index int
	// Lookahead buffer.
	buffer []Token
	// Rules used for lexing.
	rules []LexRule[T]
}

// NewLexer constructs a lexer for a given sequence of items using a given set
// of rules.
func NewLexer[T any](items []T, rules ...LexRule[T]) *Lexer[T] {
	return &Lexer[T]{items, 0, nil, rules}
}

// Index returns the current position of this lexer within the items being
// lexed.
func (p *Lexer[T]) Index() uint {
	return uint(min(len(p.items), p.index))
}

// Remaining determines how many items from the original sequence were
// left.
func (p *Lexer[T]) Remaining() uint {
	return uint(max(0, len(p.items)-p.index))
}

// HasNext checks whether or not there are any tokens remaining to visit.
func (p *Lexer[T]) HasNext() bool {
	p.scan()
	return len(p.buffer) > 0
}

// Next returns the next token and advances the lexer.
func (p *Lexer[T]) Next() Token {
	next := p.buffer[0]
	p.buffer = p.buffer[1:]
	//
	if p.index == len(p.items) {
		// EOF condition
		p.index++
	} else {
		p.index = next.Span.End()
	}
	//
	return next
}

// Collect is a convenience function which lexes all remaining tokens in one
// go, producing an array of tokens.  Collection stops either at the end of
// the input, or upon encountering input which no rule matches.  In the latter
// case, Remaining indicates how much input was left unmatched.
func (p *Lexer[T]) Collect() []Token {
	var tokens []Token
	// Keep scanning
	for p.HasNext() {
		tokens = append(tokens, p.Next())
	}
	//
	return tokens
}

// internal scan function.
func (p *Lexer[T]) scan() {
	if len(p.buffer) == 0 && p.index <= len(p.items) {
		// Look for item
		for _, r := range p.rules {
			if n := r.scanner(p.items[p.index:]); n > 0 {
				end := min(len(p.items), p.index+int(n))
				span := source.NewSpan(p.index, end)
				// Insert into buffer
				p.buffer = append(p.buffer, Token{r.kind, span})
				// Done
				return
			}
		}
	}
}
