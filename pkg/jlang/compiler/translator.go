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
	"fmt"
	"reflect"

	"github.com/consensys/go-jlang/pkg/jlang/ast"
	"github.com/consensys/go-jlang/pkg/util/source"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// TranslateDeclaration lowers an arbitrary top-level declaration into the
// given environment, returning the handle of the resulting function.  A
// failed lowering leaves the environment unchanged: in particular, a
// partially constructed function is removed from the module, rather than
// being left dangling.
func TranslateDeclaration(env *Environment, srcmap *source.Maps[ast.Node],
	decl ast.Declaration) (*ir.Func, []source.SyntaxError) {
	//
	switch d := decl.(type) {
	case *ast.Function:
		return TranslateFunction(env, srcmap, d)
	case *ast.Prototype:
		return TranslatePrototype(env, srcmap, d)
	default:
		panic(fmt.Sprintf("unknown declaration: %s", reflect.TypeOf(decl).String()))
	}
}

// TranslateFunction lowers a function definition into the given environment.
// The function may already be known from an earlier external declaration, in
// which case the body attaches to the existing handle.  However, a function
// with a body cannot be given a second one.
func TranslateFunction(env *Environment, srcmap *source.Maps[ast.Node],
	decl *ast.Function) (*ir.Func, []source.SyntaxError) {
	//
	t := translator{env, srcmap, nil}
	//
	return t.translateFunction(decl)
}

// TranslatePrototype lowers an external declaration into the given
// environment, returning the resulting (bodyless) function handle.  Since
// lowering an extern for an already declared function simply reuses the
// existing handle, repeated declarations are harmless.
func TranslatePrototype(env *Environment, srcmap *source.Maps[ast.Node],
	proto *ast.Prototype) (*ir.Func, []source.SyntaxError) {
	//
	t := translator{env, srcmap, nil}
	//
	return t.translatePrototype(proto)
}

// Translator packages up information necessary for lowering declarations into
// a module.
type translator struct {
	// Environment determines the enclosing module, along with the functions
	// declared so far in the session.
	env *Environment
	// Source maps nodes back to the spans in their original source files.
	// This is needed when reporting syntax errors to generate highlights of
	// the relevant source line(s) in question.
	srcmap *source.Maps[ast.Node]
	// Locals maps parameter names to their values within the function
	// currently being lowered.  Parameters of the enclosing function are the
	// only variables in scope, hence this is reset for every function.
	locals map[string]value.Value
}

func (t *translator) translateFunction(decl *ast.Function) (*ir.Func, []source.SyntaxError) {
	var (
		proto = decl.Proto
		fn    = t.env.LookupFunction(proto.Name)
		errs  []source.SyntaxError
	)
	// Check whether a function of this name has a body already.  Observe this
	// must happen before resolving the prototype, since resolution renames
	// the parameters of any existing declaration.  Anonymous wrappers are
	// exempt, as each lowers into a fresh function.
	if fn != nil && len(fn.Blocks) != 0 && !proto.IsAnonymous() {
		return nil, t.srcmap.SyntaxErrors(proto, "function cannot be redefined")
	}
	// Resolve function handle, reusing any existing declaration
	if fn, errs = t.translatePrototype(proto); len(errs) > 0 {
		return nil, errs
	}
	// Create fresh entry block
	block := fn.NewBlock("entry")
	// Bring exactly this function's parameters into scope
	t.locals = make(map[string]value.Value)
	//
	for _, param := range fn.Params {
		t.locals[param.Name()] = param
	}
	// Lower function body
	retval, errs := t.translateExpression(decl.Body, block)
	//
	if len(errs) > 0 {
		// Roll back partially constructed function
		t.env.RemoveFunction(fn)
		//
		return nil, errs
	}
	// Emit body as the function's return value
	block.NewRet(retval)
	// Run structural well-formedness check.  Since lowering only ever
	// constructs well-formed functions, a failure here indicates an internal
	// error and, hence, should be unreachable.
	if err := VerifyFunction(fn); err != nil {
		t.env.RemoveFunction(fn)
		//
		return nil, t.srcmap.SyntaxErrors(decl, err.Error())
	}
	// Done
	return fn, nil
}

func (t *translator) translatePrototype(proto *ast.Prototype) (*ir.Func, []source.SyntaxError) {
	// Anonymous wrappers are never reused.  Each top-level expression lowers
	// into a fresh function, with clashes between successive wrappers
	// resolved by a numeric suffix.
	if proto.IsAnonymous() {
		return t.env.DeclareFunction(t.env.FreshName(proto.Name), proto.Params...), nil
	}
	//
	fn := t.env.LookupFunction(proto.Name)
	// Check for existing declaration
	if fn == nil {
		return t.env.DeclareFunction(proto.Name, proto.Params...), nil
	} else if len(fn.Params) != len(proto.Params) {
		return nil, t.srcmap.SyntaxErrors(proto,
			"redefinition of function with different number of arguments")
	}
	// Take ownership of the parameter names, such that the body about to be
	// lowered (or any subsequent one) resolves against this declaration's
	// names.
	names := uniqueNames(proto.Params)
	//
	for i, param := range fn.Params {
		param.SetName(names[i])
	}
	//
	return fn, nil
}

func (t *translator) translateExpression(expr ast.Expr, block *ir.Block) (value.Value, []source.SyntaxError) {
	switch e := expr.(type) {
	case *ast.Number:
		return constant.NewFloat(types.Double, e.Value), nil
	case *ast.Variable:
		return t.translateVariable(e)
	case *ast.Binary:
		return t.translateBinary(e, block)
	case *ast.Call:
		return t.translateCall(e, block)
	default:
		typeStr := reflect.TypeOf(expr).String()
		msg := fmt.Sprintf("unknown expression encountered during lowering (%s)", typeStr)
		//
		return nil, t.srcmap.SyntaxErrors(expr, msg)
	}
}

func (t *translator) translateVariable(expr *ast.Variable) (value.Value, []source.SyntaxError) {
	if val, ok := t.locals[expr.Name]; ok {
		return val, nil
	}
	// Neither outer-scope capture nor globals exist, hence this name can
	// never be resolved.
	return nil, t.srcmap.SyntaxErrors(expr, "unknown variable name")
}

func (t *translator) translateBinary(expr *ast.Binary, block *ir.Block) (value.Value, []source.SyntaxError) {
	var (
		lhs, rhs value.Value
		errs     []source.SyntaxError
	)
	// Lower operands, where a failure on the left propagates immediately
	// without lowering the right.
	if lhs, errs = t.translateExpression(expr.Left, block); len(errs) > 0 {
		return nil, errs
	} else if rhs, errs = t.translateExpression(expr.Right, block); len(errs) > 0 {
		return nil, errs
	}
	//
	switch expr.Op {
	case ast.ADD:
		return block.NewFAdd(lhs, rhs), nil
	case ast.SUB:
		return block.NewFSub(lhs, rhs), nil
	case ast.MUL:
		return block.NewFMul(lhs, rhs), nil
	case ast.LT:
		// Comparison yields a boolean which must be converted back into a
		// double (i.e. 0.0 or 1.0), since that is the only type in the
		// language.
		cmp := block.NewFCmp(enum.FPredULT, lhs, rhs)
		//
		return block.NewUIToFP(cmp, types.Double), nil
	default:
		return nil, t.srcmap.SyntaxErrors(expr, "invalid binary operator")
	}
}

func (t *translator) translateCall(expr *ast.Call, block *ir.Block) (value.Value, []source.SyntaxError) {
	// Resolve callee in the function table
	callee := t.env.LookupFunction(expr.Callee)
	//
	if callee == nil {
		return nil, t.srcmap.SyntaxErrors(expr, "unknown function referenced")
	}
	// Check arity against the resolved declaration
	if len(callee.Params) != len(expr.Args) {
		return nil, t.srcmap.SyntaxErrors(expr, "incorrect argument count")
	}
	// Lower arguments in left-to-right order, where a failure in any
	// argument aborts the call.
	args := make([]value.Value, len(expr.Args))
	//
	for i, arg := range expr.Args {
		val, errs := t.translateExpression(arg, block)
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		args[i] = val
	}
	//
	return block.NewCall(callee, args...), nil
}
