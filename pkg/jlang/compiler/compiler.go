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
	"github.com/consensys/go-jlang/pkg/jlang/ast"
	"github.com/consensys/go-jlang/pkg/util/source"
	"github.com/llir/llvm/ir"
)

// Compile takes a given set of source files, and lowers every declaration they
// contain into a single module.  Declarations are lowered in source order,
// with files processed in the order given; thus, a function must be declared
// (or defined) in an earlier position than any call to it.
func Compile(files ...source.File) (*ir.Module, []source.SyntaxError) {
	var (
		items   []ParsedFile
		errors  []source.SyntaxError
		srcmaps = source.NewSourceMaps[ast.Node]()
	)
	// Parse each file in turn.
	for i := range files {
		item, errs := Parse(&files[i])
		//
		if len(errs) == 0 {
			items = append(items, item)
			// Record mapping for error reporting during lowering
			srcmaps.Join(&item.SourceMap)
		}
		// Include all errors
		errors = append(errors, errs...)
	}
	// Check for parse errors
	if len(errors) != 0 {
		return nil, errors
	}
	// Lower declarations into a fresh environment.  Observe that declarations
	// are lowered independently: when one fails, its function is rolled back
	// and lowering continues with the next declaration.  This ensures all
	// lowering errors are reported, rather than just the first.
	env := NewEnvironment()
	//
	for _, item := range items {
		for _, decl := range item.Declarations {
			if _, errs := TranslateDeclaration(env, srcmaps, decl); len(errs) > 0 {
				errors = append(errors, errs...)
			}
		}
	}
	// Check for lowering errors
	if len(errors) != 0 {
		return nil, errors
	}
	// Done
	return env.Module(), nil
}

// CompileString compiles a given string into a module.  This is really a
// helper function for e.g. the testing environment.
func CompileString(text string) (*ir.Module, []source.SyntaxError) {
	srcfile := source.NewSourceFile("string", []byte(text))
	//
	return Compile(*srcfile)
}
