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
package compiler

import (
	"github.com/consensys/go-jlang/pkg/util/collection/array"
	"github.com/consensys/go-jlang/pkg/util/source"
	"github.com/consensys/go-jlang/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// COMMENT signals "# ... \n"
const COMMENT uint = 2

// LBRACE signals "("
const LBRACE uint = 3

// RBRACE signals ")"
const RBRACE uint = 4

// COMMA signals ","
const COMMA uint = 5

// SEMICOLON signals ";"
const SEMICOLON uint = 6

// ADD signals "+"
const ADD uint = 10

// SUB signals "-"
const SUB uint = 11

// MUL signals "*"
const MUL uint = 12

// LESS_THAN signals "<"
const LESS_THAN uint = 13

// NUMBER signals a floating point number
const NUMBER uint = 20

// IDENTIFIER signals a variable or function name
const IDENTIFIER uint = 21

// KEYWORD_DEF signals a function definition
const KEYWORD_DEF uint = 22

// KEYWORD_EXTERN signals an external declaration
const KEYWORD_EXTERN uint = 23

// UNKNOWN signals a character not recognised by any other rule
const UNKNOWN uint = 30

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(
	lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\n'), lex.Unit('\r')))

// Comments start with '#' and continue until a newline or the end of the
// file.
var comment lex.Scanner[rune] = lex.SequenceNullableLast(lex.Unit('#'), lex.Until('\n', '\r'))

// Rule for describing numbers.  A number is any non-empty sequence of digits
// and dots, hence it begins whenever the current character is a digit or a
// dot.  Conversion into an actual floating point value happens subsequently,
// in the parser.
var number lex.Scanner[rune] = lex.Many(lex.Or(lex.Within('0', '9'), lex.Unit('.')))

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// lexing rules
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(comment, COMMENT),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit('+'), ADD),
	lex.Rule(lex.Unit('-'), SUB),
	lex.Rule(lex.Unit('*'), MUL),
	lex.Rule(lex.Unit('<'), LESS_THAN),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(number, NUMBER),
	lex.Rule(lex.Any[rune](), UNKNOWN),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Lex a given source file into a sequence of one or more tokens, terminated
// by an END_OF token.  Lexing never fails, since characters not recognised by
// any rule are passed through as (single character) UNKNOWN tokens for the
// parser to report.
func Lex(srcfile source.File) []lex.Token {
	var (
		lexer = lex.NewLexer(srcfile.Contents(), rules...)
		// Lex as many tokens as possible
		tokens = lexer.Collect()
	)
	// Identify keywords amongst the identifiers
	classifyKeywords(srcfile, tokens)
	// Remove any whitespace
	tokens = array.RemoveMatching(tokens, func(t lex.Token) bool { return t.Kind == WHITESPACE })
	// Remove any comments
	tokens = array.RemoveMatching(tokens, func(t lex.Token) bool { return t.Kind == COMMENT })
	// Done
	return tokens
}

// Keywords are identified amongst the identifiers after lexing, by comparing
// the complete token text.  Keywords cannot be matched during lexing itself,
// since (for example) "define" must lex as a single identifier rather than as
// the keyword "def" followed by the identifier "ine".
func classifyKeywords(srcfile source.File, tokens []lex.Token) {
	for i, token := range tokens {
		if token.Kind == IDENTIFIER {
			switch srcfile.Text(token.Span) {
			case "def":
				tokens[i].Kind = KEYWORD_DEF
			case "extern":
				tokens[i].Kind = KEYWORD_EXTERN
			}
		}
	}
}
