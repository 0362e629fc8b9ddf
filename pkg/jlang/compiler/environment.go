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

	"github.com/consensys/go-jlang/pkg/util/collection/array"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Environment captures the state shared across all lowerings within a
// session.  This is the module being constructed, along with the table of
// functions declared so far.  The table is updated by every successful
// function or prototype lowering, hence it is visible to all subsequent
// lowerings in the same session.
type Environment struct {
	// Module being constructed.
	module *ir.Module
	// Functions declared or defined so far, indexed by name.
	functions map[string]*ir.Func
}

// NewEnvironment constructs an empty environment around a fresh module.
func NewEnvironment() *Environment {
	return &Environment{
		module:    ir.NewModule(),
		functions: make(map[string]*ir.Func),
	}
}

// Module returns the module being constructed within this environment.
func (p *Environment) Module() *ir.Module {
	return p.module
}

// IsFunction checks whether or not a given name is already declared as a
// function.
func (p *Environment) IsFunction(name string) bool {
	_, ok := p.functions[name]
	//
	return ok
}

// LookupFunction returns the handle for a given declared function, or nil if
// no function with that name exists.
func (p *Environment) LookupFunction(name string) *ir.Func {
	return p.functions[name]
}

// FreshName returns a function name not yet declared within this
// environment, starting from a given stem.  Clashes are resolved by
// appending a numeric suffix to the stem.
func (p *Environment) FreshName(stem string) string {
	name := stem
	//
	for i := 1; p.IsFunction(name); i++ {
		name = fmt.Sprintf("%s.%d", stem, i)
	}
	//
	return name
}

// DeclareFunction declares a new function with the given name and parameters
// within the enclosing module.  The parameter types (and the return type) are
// all doubles, since that is the only type in the language.  If a function
// with the same name already exists, this panics.
func (p *Environment) DeclareFunction(name string, params ...string) *ir.Func {
	if p.IsFunction(name) {
		panic(fmt.Sprintf("function %s already declared", name))
	}
	// Construct (all double) parameters
	var (
		names    = uniqueNames(params)
		irParams = make([]*ir.Param, len(params))
	)
	//
	for i, param := range names {
		irParams[i] = ir.NewParam(param, types.Double)
	}
	// Declare function within module
	fn := p.module.NewFunc(name, types.Double, irParams...)
	//
	p.functions[name] = fn
	//
	return fn
}

// Uniquify a given sequence of parameter names.  The grammar places no
// uniqueness requirement on parameter names, but two slots of the same
// textual name would be indistinguishable in the textual IR.  Clashes are
// resolved by appending a numeric suffix, leaving the first occurrence
// untouched; hence, within the function body, a duplicated name resolves to
// its first slot.
func uniqueNames(params []string) []string {
	var (
		names = make([]string, len(params))
		seen  = make(map[string]bool, len(params))
	)
	//
	for i, param := range params {
		name := param
		//
		for j := 1; seen[name]; j++ {
			name = fmt.Sprintf("%s.%d", param, j)
		}
		//
		names[i] = name
		seen[name] = true
	}
	//
	return names
}

// RemoveFunction removes a given function from both the function table and
// the enclosing module.  This is used for rolling back a failed function
// definition, such that it leaves no dangling artifact in the session.
func (p *Environment) RemoveFunction(fn *ir.Func) {
	delete(p.functions, fn.Name())
	// Remove from enclosing module
	p.module.Funcs = array.RemoveMatching(p.module.Funcs,
		func(f *ir.Func) bool { return f == fn })
}
