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
	"strings"
)

// AnonymousFunction is the name given to functions which wrap top-level
// expressions, since every expression must be housed within some function.
const AnonymousFunction = "__anon_expr"

// Declaration represents a top-level declaration in a source file (i.e. a
// function definition, an external declaration or a top-level expression).
type Declaration interface {
	Node
	// Marker distinguishing declarations from expressions.
	declNode()
}

// ============================================================================
// Prototype
// ============================================================================

// Prototype represents the signature of a function, capturing its name along
// with the names of its parameters.  Since the only type in the language is
// the double-precision float, no type information is required.  A prototype
// standing alone constitutes an external declaration.
type Prototype struct {
	Name   string
	Params []string
}

// IsAnonymous determines whether this prototype identifies a function
// generated to wrap a top-level expression.
func (p *Prototype) IsAnonymous() bool {
	return p.Name == AnonymousFunction
}

// Lisp converts this declaration into a simple S-Expression, for example
// so it can be printed.
func (p *Prototype) Lisp() string {
	return fmt.Sprintf("(extern %s %s)", p.Name, lispParams(p.Params))
}

func (p *Prototype) declNode() {}

// ============================================================================
// Function
// ============================================================================

// Function represents a function definition, pairing a prototype with the
// expression which forms the function body.
type Function struct {
	Proto *Prototype
	Body  Expr
}

// IsAnonymous determines whether this function wraps a top-level expression.
func (p *Function) IsAnonymous() bool {
	return p.Proto.IsAnonymous()
}

// Lisp converts this declaration into a simple S-Expression, for example
// so it can be printed.
func (p *Function) Lisp() string {
	return fmt.Sprintf("(def %s %s %s)", p.Proto.Name, lispParams(p.Proto.Params), p.Body.Lisp())
}

func (p *Function) declNode() {}

func lispParams(params []string) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(strings.Join(params, " "))
	builder.WriteString(")")
	//
	return builder.String()
}
