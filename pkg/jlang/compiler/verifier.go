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

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Verify checks that every function in a given module is well-formed.  Since
// lowering only ever constructs well-formed functions, this acts as a sanity
// check on the lowering process itself rather than on the input program.
func Verify(module *ir.Module) []error {
	var errors []error
	//
	for _, fn := range module.Funcs {
		if err := VerifyFunction(fn); err != nil {
			errors = append(errors, err)
		}
	}
	//
	return errors
}

// VerifyFunction checks that a given function is well-formed.  Specifically,
// that its signature is double-typed throughout, that its body (if any) is a
// single block terminated by a double-typed return, and that every instruction
// in the body is correctly typed.
func VerifyFunction(fn *ir.Func) error {
	if err := verifySignature(fn); err != nil {
		return err
	}
	// Declarations have no body, and nothing left to check.
	if len(fn.Blocks) == 0 {
		return nil
	} else if len(fn.Blocks) != 1 {
		return fmt.Errorf("function %s has multiple blocks", fn.Name())
	}
	//
	block := fn.Blocks[0]
	//
	for _, insn := range block.Insts {
		if err := verifyInstruction(fn, insn); err != nil {
			return err
		}
	}
	//
	return verifyTerminator(fn, block)
}

// Check that a function accepts only doubles, and returns a double.  This is
// invariant for all functions, since double is the only type in the language.
// Parameter slot names must also be unique, since two slots of the same name
// are indistinguishable in the textual IR.
func verifySignature(fn *ir.Func) error {
	if !fn.Sig.RetType.Equal(types.Double) {
		return fmt.Errorf("function %s has non-double return type", fn.Name())
	}
	//
	for _, param := range fn.Sig.Params {
		if !param.Equal(types.Double) {
			return fmt.Errorf("function %s has non-double parameter", fn.Name())
		}
	}
	//
	names := make(map[string]bool, len(fn.Params))
	//
	for _, param := range fn.Params {
		if names[param.Name()] {
			return fmt.Errorf("function %s has duplicate parameter %s", fn.Name(), param.Name())
		}
		//
		names[param.Name()] = true
	}
	//
	return nil
}

// Check that a function body ends by returning a double.
func verifyTerminator(fn *ir.Func, block *ir.Block) error {
	if block.Term == nil {
		return fmt.Errorf("function %s has missing terminator", fn.Name())
	}
	//
	ret, ok := block.Term.(*ir.TermRet)
	//
	if !ok {
		return fmt.Errorf("function %s has non-return terminator", fn.Name())
	} else if ret.X == nil || !ret.X.Type().Equal(types.Double) {
		return fmt.Errorf("function %s does not return a double", fn.Name())
	}
	//
	return nil
}

// Check that a given instruction within a function body is correctly typed.
func verifyInstruction(fn *ir.Func, insn ir.Instruction) error {
	switch insn := insn.(type) {
	case *ir.InstFAdd:
		return verifyOperands(fn, insn.X, insn.Y)
	case *ir.InstFSub:
		return verifyOperands(fn, insn.X, insn.Y)
	case *ir.InstFMul:
		return verifyOperands(fn, insn.X, insn.Y)
	case *ir.InstFCmp:
		return verifyOperands(fn, insn.X, insn.Y)
	case *ir.InstUIToFP:
		if !insn.To.Equal(types.Double) {
			return fmt.Errorf("function %s converts to non-double", fn.Name())
		}
		//
		return nil
	case *ir.InstCall:
		return verifyCall(fn, insn)
	default:
		return fmt.Errorf("function %s contains unexpected instruction %s", fn.Name(), insn.LLString())
	}
}

// Check that both operands of an arithmetic (or comparison) instruction are
// doubles.
func verifyOperands(fn *ir.Func, operands ...value.Value) error {
	for _, operand := range operands {
		if !operand.Type().Equal(types.Double) {
			return fmt.Errorf("function %s has non-double operand", fn.Name())
		}
	}
	//
	return nil
}

// Check that a call resolves to a known function of matching arity.
func verifyCall(fn *ir.Func, insn *ir.InstCall) error {
	callee, ok := insn.Callee.(*ir.Func)
	//
	if !ok {
		return fmt.Errorf("function %s calls non-function", fn.Name())
	} else if len(callee.Params) != len(insn.Args) {
		return fmt.Errorf("function %s calls %s with wrong number of arguments", fn.Name(), callee.Name())
	}
	//
	return nil
}
