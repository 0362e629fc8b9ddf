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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-jlang/pkg/jlang/compiler"
	"github.com/consensys/go-jlang/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug [flags] file1.jl file2.jl ...",
	Short: "print intermediate forms of jlang source files.",
	Long: `Print intermediate forms of a given set of source file(s) in
	order to debug them.  By default the parse tree is printed (in a
	lisp-like rendering); the raw token stream can be requested
	instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		tokens := GetFlag(cmd, "tokens")
		tree := GetFlag(cmd, "tree")
		// Read in source files
		srcfiles := ReadSourceFiles(args)
		//
		for i := range srcfiles {
			if tokens {
				printTokens(&srcfiles[i])
			}
			//
			if tree || !tokens {
				printDeclarations(&srcfiles[i])
			}
		}
	},
}

// Mapping of token kinds to human-readable names.  Observe that whitespace and
// comments never show up here, since they are discarded during lexing.
var tokenNames = map[uint]string{
	compiler.END_OF:         "eof",
	compiler.LBRACE:         "lbrace",
	compiler.RBRACE:         "rbrace",
	compiler.COMMA:          "comma",
	compiler.SEMICOLON:      "semicolon",
	compiler.ADD:            "add",
	compiler.SUB:            "sub",
	compiler.MUL:            "mul",
	compiler.LESS_THAN:      "lessthan",
	compiler.NUMBER:         "number",
	compiler.IDENTIFIER:     "identifier",
	compiler.KEYWORD_DEF:    "def",
	compiler.KEYWORD_EXTERN: "extern",
	compiler.UNKNOWN:        "unknown",
}

// Print the token stream of a given source file, one token per line.
func printTokens(srcfile *source.File) {
	for _, token := range compiler.Lex(*srcfile) {
		span := token.Span
		fmt.Printf("[%d:%d]\t%s\t%s\n", span.Start(), span.End(),
			tokenNames[token.Kind], srcfile.Text(token.Span))
	}
}

// Print the parse tree of a given source file, one declaration per line.
func printDeclarations(srcfile *source.File) {
	item, errs := compiler.Parse(srcfile)
	//
	if len(errs) > 0 {
		for _, err := range errs {
			printSyntaxError(&err)
		}
		// Fail
		os.Exit(4)
	}
	//
	for _, decl := range item.Declarations {
		fmt.Println(decl.Lisp())
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.Flags().BoolP("tokens", "t", false, "print the token stream")
	debugCmd.Flags().Bool("tree", false, "print the parse tree")
}
