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
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Node provides common functionality across all elements of the Abstract
// Syntax Tree.  For example, it ensures every element can be converted back
// into Lisp form for debugging.  Furthermore, it provides a reference point
// for constructing a suitable source map for reporting syntax errors.
type Node interface {
	// Convert this node into its lisp representation.  This is primarily used
	// for debugging purposes.
	Lisp() string
}

// Expr represents an arbitrary expression within a function body.  All
// expressions evaluate to a double-precision floating point value, as that is
// the only type in the language.
type Expr interface {
	Node
	// Marker distinguishing expressions from declarations.
	exprNode()
}

// Op identifies a primitive binary operator.  Operators are identified by
// their source character.
type Op rune

const (
	// ADD represents the binary addition operator.
	ADD Op = '+'
	// SUB represents the binary subtraction operator.
	SUB Op = '-'
	// MUL represents the binary multiplication operator.
	MUL Op = '*'
	// LT represents the binary less-than comparison operator.
	LT Op = '<'
)

func (op Op) String() string {
	return string(op)
}

// ============================================================================
// Number
// ============================================================================

// Number represents a numeric literal (e.g. "1.25").
type Number struct{ Value float64 }

// Lisp converts this expression into a simple S-Expression, for example
// so it can be printed.
func (e *Number) Lisp() string {
	return strconv.FormatFloat(e.Value, 'g', -1, 64)
}

func (e *Number) exprNode() {}

// ============================================================================
// Variable
// ============================================================================

// Variable represents a use of a named variable (i.e. a function parameter).
type Variable struct{ Name string }

// Lisp converts this expression into a simple S-Expression, for example
// so it can be printed.
func (e *Variable) Lisp() string {
	return e.Name
}

func (e *Variable) exprNode() {}

// ============================================================================
// Binary
// ============================================================================

// Binary represents the application of a primitive binary operator to two
// subexpressions.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

// Lisp converts this expression into a simple S-Expression, for example
// so it can be printed.
func (e *Binary) Lisp() string {
	return fmt.Sprintf("(%s %s %s)", e.Op, e.Left.Lisp(), e.Right.Lisp())
}

func (e *Binary) exprNode() {}

// ============================================================================
// Call
// ============================================================================

// Call represents an invocation of a named function with zero or more
// argument expressions.
type Call struct {
	Callee string
	Args   []Expr
}

// Lisp converts this expression into a simple S-Expression, for example
// so it can be printed.
func (e *Call) Lisp() string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(e.Callee)
	//
	for _, arg := range e.Args {
		builder.WriteString(" ")
		builder.WriteString(arg.Lisp())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

func (e *Call) exprNode() {}
