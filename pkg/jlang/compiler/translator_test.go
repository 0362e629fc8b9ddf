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
	"testing"

	"github.com/consensys/go-jlang/pkg/jlang/ast"
	"github.com/consensys/go-jlang/pkg/util/source"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

func Test_Translator_01(t *testing.T) {
	decls, srcmaps := parseAll(t, "def id(x) x")
	env := NewEnvironment()
	//
	fn, errs := TranslateDeclaration(env, srcmaps, decls[0])
	//
	if len(errs) != 0 {
		t.Fatal(errs)
	} else if fn.Name() != "id" {
		t.Errorf("incorrect function name (was %s)", fn.Name())
	} else if len(fn.Blocks) != 1 {
		t.Errorf("incorrect number of blocks (was %d)", len(fn.Blocks))
	} else if err := VerifyFunction(fn); err != nil {
		t.Error(err)
	}
}

func Test_Translator_02(t *testing.T) {
	decls, srcmaps := parseAll(t, "extern sin(x)")
	env := NewEnvironment()
	//
	fn, errs := TranslateDeclaration(env, srcmaps, decls[0])
	//
	if len(errs) != 0 {
		t.Fatal(errs)
	} else if !env.IsFunction("sin") {
		t.Errorf("extern not declared")
	} else if len(fn.Blocks) != 0 {
		t.Errorf("extern should have no body (was %d blocks)", len(fn.Blocks))
	} else if err := VerifyFunction(fn); err != nil {
		t.Error(err)
	}
}

func Test_Translator_03(t *testing.T) {
	decls, srcmaps := parseAll(t, "def f(a) a def f(b) b")
	env := NewEnvironment()
	//
	if _, errs := TranslateDeclaration(env, srcmaps, decls[0]); len(errs) != 0 {
		t.Fatal(errs)
	}
	//
	_, errs := TranslateDeclaration(env, srcmaps, decls[1])
	checkErrors(t, errs, []string{"function cannot be redefined"})
	// Original definition must be left untouched
	fn := env.LookupFunction("f")
	//
	if fn == nil || len(fn.Blocks) != 1 {
		t.Errorf("original definition damaged by failed redefinition")
	} else if fn.Params[0].Name() != "a" {
		t.Errorf("incorrect parameter name (was %s)", fn.Params[0].Name())
	}
}

func Test_Translator_04(t *testing.T) {
	decls, srcmaps := parseAll(t, "extern f(a b) def f(x) x")
	env := NewEnvironment()
	//
	if _, errs := TranslateDeclaration(env, srcmaps, decls[0]); len(errs) != 0 {
		t.Fatal(errs)
	}
	//
	_, errs := TranslateDeclaration(env, srcmaps, decls[1])
	checkErrors(t, errs, []string{"redefinition of function with different number of arguments"})
	// Original declaration must be left untouched
	fn := env.LookupFunction("f")
	//
	if fn == nil || len(fn.Params) != 2 {
		t.Errorf("original declaration damaged by failed redefinition")
	}
}

func Test_Translator_05(t *testing.T) {
	decls, srcmaps := parseAll(t, "extern f(a) def f(b) b")
	env := NewEnvironment()
	//
	for _, decl := range decls {
		if _, errs := TranslateDeclaration(env, srcmaps, decl); len(errs) != 0 {
			t.Fatal(errs)
		}
	}
	// Definition takes ownership of the parameter names
	fn := env.LookupFunction("f")
	//
	if len(fn.Blocks) != 1 {
		t.Errorf("incorrect number of blocks (was %d)", len(fn.Blocks))
	} else if fn.Params[0].Name() != "b" {
		t.Errorf("parameter not renamed (was %s)", fn.Params[0].Name())
	} else if err := VerifyFunction(fn); err != nil {
		t.Error(err)
	}
}

func Test_Translator_06(t *testing.T) {
	decls, srcmaps := parseAll(t, "1;2")
	env := NewEnvironment()
	//
	fn1, errs := TranslateDeclaration(env, srcmaps, decls[0])
	//
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	//
	fn2, errs := TranslateDeclaration(env, srcmaps, decls[1])
	//
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	// Each top-level expression lowers into its own function
	if fn1 == fn2 {
		t.Errorf("top-level expressions share a function (%s)", fn1.Name())
	} else if fn1.Name() != "__anon_expr" || fn2.Name() != "__anon_expr.1" {
		t.Errorf("incorrect wrapper names (was %s and %s)", fn1.Name(), fn2.Name())
	}
}

func Test_Translator_07(t *testing.T) {
	decls, srcmaps := parseAll(t, "def f(a a) a")
	env := NewEnvironment()
	// Duplicate parameter names are permitted by the grammar, with slot names
	// uniquified during lowering.
	fn, errs := TranslateDeclaration(env, srcmaps, decls[0])
	//
	if len(errs) != 0 {
		t.Fatal(errs)
	} else if fn.Params[0].Name() != "a" || fn.Params[1].Name() != "a.1" {
		t.Errorf("parameter slots not uniquified (was %s and %s)",
			fn.Params[0].Name(), fn.Params[1].Name())
	} else if err := VerifyFunction(fn); err != nil {
		t.Error(err)
	}
}

func Test_Translator_08(t *testing.T) {
	decls, srcmaps := parseAll(t, "extern f(x y) def f(a a) a")
	env := NewEnvironment()
	//
	for _, decl := range decls {
		if _, errs := TranslateDeclaration(env, srcmaps, decl); len(errs) != 0 {
			t.Fatal(errs)
		}
	}
	// Renaming against an existing declaration also uniquifies
	fn := env.LookupFunction("f")
	//
	if fn.Params[0].Name() != "a" || fn.Params[1].Name() != "a.1" {
		t.Errorf("parameter slots not uniquified (was %s and %s)",
			fn.Params[0].Name(), fn.Params[1].Name())
	} else if err := VerifyFunction(fn); err != nil {
		t.Error(err)
	}
}

func Test_Translator_09(t *testing.T) {
	decls, srcmaps := parseAll(t, "def f(a) a extern f(b)")
	env := NewEnvironment()
	//
	fn1, errs := TranslateDeclaration(env, srcmaps, decls[0])
	//
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	// A declaration following the definition reuses the existing handle
	fn2, errs := TranslateDeclaration(env, srcmaps, decls[1])
	//
	if len(errs) != 0 {
		t.Fatal(errs)
	} else if fn1 != fn2 {
		t.Errorf("extern did not reuse existing handle")
	} else if len(env.Module().Funcs) != 1 {
		t.Errorf("incorrect number of functions (was %d)", len(env.Module().Funcs))
	}
}

// ===================================================================
// Rollback
// ===================================================================

func Test_Translator_Rollback_01(t *testing.T) {
	decls, srcmaps := parseAll(t, "def f(a) b")
	env := NewEnvironment()
	//
	_, errs := TranslateDeclaration(env, srcmaps, decls[0])
	checkErrors(t, errs, []string{"unknown variable name"})
	// Failed definition must leave no trace
	if env.IsFunction("f") {
		t.Errorf("failed definition not removed from function table")
	} else if len(env.Module().Funcs) != 0 {
		t.Errorf("failed definition not removed from module")
	}
}

func Test_Translator_Rollback_02(t *testing.T) {
	decls, srcmaps := parseAll(t, "extern f(a) def f(a) b def f(a) a")
	env := NewEnvironment()
	//
	if _, errs := TranslateDeclaration(env, srcmaps, decls[0]); len(errs) != 0 {
		t.Fatal(errs)
	}
	// Failed definition takes the earlier declaration down with it
	_, errs := TranslateDeclaration(env, srcmaps, decls[1])
	checkErrors(t, errs, []string{"unknown variable name"})
	//
	if env.IsFunction("f") {
		t.Errorf("failed definition not removed from function table")
	}
	// With the slate clean, a subsequent definition succeeds
	fn, errs := TranslateDeclaration(env, srcmaps, decls[2])
	//
	if len(errs) != 0 {
		t.Fatal(errs)
	} else if len(fn.Blocks) != 1 {
		t.Errorf("incorrect number of blocks (was %d)", len(fn.Blocks))
	}
}

func Test_Translator_Invalid_Op(t *testing.T) {
	srcfile := source.NewSourceFile("test", []byte("def f(a) a/a"))
	srcmap := source.NewSourceMap[ast.Node](*srcfile)
	// Construct body a/a, where '/' is not a valid operator.
	var (
		left  = &ast.Variable{Name: "a"}
		right = &ast.Variable{Name: "a"}
		body  = &ast.Binary{Op: '/', Left: left, Right: right}
		proto = &ast.Prototype{Name: "f", Params: []string{"a"}}
		fn    = &ast.Function{Proto: proto, Body: body}
	)
	//
	srcmap.Put(left, source.NewSpan(9, 10))
	srcmap.Put(right, source.NewSpan(11, 12))
	srcmap.Put(body, source.NewSpan(9, 12))
	srcmap.Put(proto, source.NewSpan(4, 8))
	srcmap.Put(fn, source.NewSpan(0, 12))
	//
	srcmaps := source.NewSourceMaps[ast.Node]()
	srcmaps.Join(srcmap)
	//
	env := NewEnvironment()
	_, errs := TranslateDeclaration(env, srcmaps, fn)
	checkErrors(t, errs, []string{"invalid binary operator"})
	//
	if env.IsFunction("f") {
		t.Errorf("failed definition not removed from function table")
	}
}

// ===================================================================
// Verifier
// ===================================================================

func Test_Verifier_01(t *testing.T) {
	env := NewEnvironment()
	// Bodiless functions are declarations, which are always well-formed.
	fn := env.DeclareFunction("f", "x")
	//
	if err := VerifyFunction(fn); err != nil {
		t.Error(err)
	}
}

func Test_Verifier_02(t *testing.T) {
	env := NewEnvironment()
	fn := env.DeclareFunction("f", "x")
	// Attach a block with no terminator
	fn.NewBlock("entry")
	//
	if err := VerifyFunction(fn); err == nil {
		t.Errorf("expected error for missing terminator")
	}
}

func Test_Verifier_03(t *testing.T) {
	env := NewEnvironment()
	fn := env.DeclareFunction("f", "x")
	block := fn.NewBlock("entry")
	// Return something which is not a double
	block.NewRet(nil)
	//
	if err := VerifyFunction(fn); err == nil {
		t.Errorf("expected error for malformed return")
	}
}

func Test_Verifier_04(t *testing.T) {
	env := NewEnvironment()
	// Construct two slots of the same name directly, bypassing the
	// uniquification applied by the environment.
	fn := env.Module().NewFunc("f", types.Double,
		ir.NewParam("x", types.Double), ir.NewParam("x", types.Double))
	//
	if err := VerifyFunction(fn); err == nil {
		t.Errorf("expected error for duplicate parameter name")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

// Parse a given input string which is expected to be well-formed, returning
// the declarations along with their source mapping.
func parseAll(t *testing.T, input string) ([]ast.Declaration, *source.Maps[ast.Node]) {
	srcfile := source.NewSourceFile("test", []byte(input))
	item, errs := Parse(srcfile)
	//
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	//
	srcmaps := source.NewSourceMaps[ast.Node]()
	srcmaps.Join(&item.SourceMap)
	//
	return item.Declarations, srcmaps
}
