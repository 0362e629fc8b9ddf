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
	"slices"
	"testing"

	"github.com/consensys/go-jlang/pkg/util/source"
)

func Test_Lexer_01(t *testing.T) {
	checkLex(t, "", END_OF)
}

func Test_Lexer_02(t *testing.T) {
	checkLex(t, "def", KEYWORD_DEF, END_OF)
}

func Test_Lexer_03(t *testing.T) {
	checkLex(t, "extern", KEYWORD_EXTERN, END_OF)
}

func Test_Lexer_04(t *testing.T) {
	// Keywords only match whole identifiers
	checkLex(t, "define", IDENTIFIER, END_OF)
}

func Test_Lexer_05(t *testing.T) {
	checkLex(t, "externs", IDENTIFIER, END_OF)
}

func Test_Lexer_06(t *testing.T) {
	checkLex(t, "foo bar1", IDENTIFIER, IDENTIFIER, END_OF)
}

func Test_Lexer_07(t *testing.T) {
	checkLex(t, "1.25", NUMBER, END_OF)
}

func Test_Lexer_08(t *testing.T) {
	checkLex(t, ".5", NUMBER, END_OF)
}

func Test_Lexer_09(t *testing.T) {
	// Digits and dots are consumed greedily into a single token
	checkLex(t, "1.2.3", NUMBER, END_OF)
}

func Test_Lexer_10(t *testing.T) {
	checkLex(t, "1x", NUMBER, IDENTIFIER, END_OF)
}

func Test_Lexer_11(t *testing.T) {
	checkLex(t, "(x, y)", LBRACE, IDENTIFIER, COMMA, IDENTIFIER, RBRACE, END_OF)
}

func Test_Lexer_12(t *testing.T) {
	checkLex(t, "a+b-c*d<e", IDENTIFIER, ADD, IDENTIFIER, SUB, IDENTIFIER, MUL,
		IDENTIFIER, LESS_THAN, IDENTIFIER, END_OF)
}

func Test_Lexer_13(t *testing.T) {
	checkLex(t, "# comment\nfoo", IDENTIFIER, END_OF)
}

func Test_Lexer_14(t *testing.T) {
	// Comment runs to the end of the file
	checkLex(t, "x # trailing", IDENTIFIER, END_OF)
}

func Test_Lexer_15(t *testing.T) {
	// Comments also end on a carriage return
	checkLex(t, "# a\rb # c\nd", IDENTIFIER, IDENTIFIER, END_OF)
}

func Test_Lexer_16(t *testing.T) {
	checkLex(t, "$", UNKNOWN, END_OF)
}

func Test_Lexer_17(t *testing.T) {
	checkLex(t, "x$y", IDENTIFIER, UNKNOWN, IDENTIFIER, END_OF)
}

func Test_Lexer_18(t *testing.T) {
	checkLex(t, ";", SEMICOLON, END_OF)
}

func Test_Lexer_19(t *testing.T) {
	checkLex(t, "def foo(a b) a+b", KEYWORD_DEF, IDENTIFIER, LBRACE, IDENTIFIER,
		IDENTIFIER, RBRACE, IDENTIFIER, ADD, IDENTIFIER, END_OF)
}

func Test_Lexer_20(t *testing.T) {
	checkLex(t, "extern sin(x);", KEYWORD_EXTERN, IDENTIFIER, LBRACE, IDENTIFIER,
		RBRACE, SEMICOLON, END_OF)
}

// ===================================================================
// Test Helpers
// ===================================================================

// Check that lexing a given input produces the expected kinds of token.
// Observe that whitespace and comments are expected to have been discarded,
// and that the final token is always END_OF.
func checkLex(t *testing.T, input string, expected ...uint) {
	srcfile := source.NewSourceFile("test", []byte(input))
	tokens := Lex(*srcfile)
	// Extract token kinds
	kinds := make([]uint, len(tokens))
	//
	for i, token := range tokens {
		kinds[i] = token.Kind
	}
	//
	if !slices.Equal(kinds, expected) {
		t.Errorf("incorrect tokens (was %v, expected %v)", kinds, expected)
	}
}
