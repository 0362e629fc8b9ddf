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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLisp_01(t *testing.T) {
	checkLisp(t, "1", &Number{1})
}

func TestLisp_02(t *testing.T) {
	checkLisp(t, "2.5", &Number{2.5})
}

func TestLisp_03(t *testing.T) {
	checkLisp(t, "x", &Variable{"x"})
}

func TestLisp_04(t *testing.T) {
	checkLisp(t, "(< a b)", &Binary{LT, &Variable{"a"}, &Variable{"b"}})
}

func TestLisp_05(t *testing.T) {
	var expr = &Binary{ADD,
		&Number{1},
		&Binary{MUL, &Number{2}, &Number{3}},
	}

	checkLisp(t, "(+ 1 (* 2 3))", expr)
}

func TestLisp_06(t *testing.T) {
	checkLisp(t, "(foo)", &Call{"foo", nil})
}

func TestLisp_07(t *testing.T) {
	var expr = &Call{"bar", []Expr{&Variable{"x"}, &Number{1}}}

	checkLisp(t, "(bar x 1)", expr)
}

func TestLisp_08(t *testing.T) {
	checkLisp(t, "(extern sin (x))", &Prototype{"sin", []string{"x"}})
}

func TestLisp_09(t *testing.T) {
	var fn = &Function{
		&Prototype{"foo", []string{"a", "b"}},
		&Binary{SUB, &Variable{"a"}, &Variable{"b"}},
	}

	checkLisp(t, "(def foo (a b) (- a b))", fn)
}

func TestLisp_10(t *testing.T) {
	var fn = &Function{
		&Prototype{AnonymousFunction, nil},
		&Number{42},
	}

	checkLisp(t, "(def __anon_expr () 42)", fn)
}

func TestAnonymous(t *testing.T) {
	named := &Function{&Prototype{"foo", nil}, &Number{1}}
	anon := &Function{&Prototype{AnonymousFunction, nil}, &Number{1}}
	//
	assert.False(t, named.IsAnonymous())
	assert.True(t, anon.IsAnonymous())
}

func checkLisp(t *testing.T, expected string, node Node) {
	assert.Equal(t, expected, node.Lisp())
}
