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
	"github.com/llir/llvm/ir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file1.jl file2.jl ...",
	Short: "compile jlang source files into a module.",
	Long: `Compile a given set of source file(s) into a single module of
	textual IR, which can be subsequently handed to a backend for
	optimisation or execution.`,
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
		output := GetString(cmd, "output")
		// Compile source files, or exit with errors
		module := CompileSourceFiles(args)
		// Sanity check module well-formed
		if errs := compiler.Verify(module); len(errs) > 0 {
			for _, err := range errs {
				fmt.Println(err)
			}
			//
			os.Exit(5)
		}
		// Write out module
		writeModule(module, output)
	},
}

// Write a module out as textual IR, either to a given file or (when no file is
// given) to stdout.
func writeModule(module *ir.Module, filename string) {
	if filename == "" {
		fmt.Print(module.String())
	} else if err := os.WriteFile(filename, []byte(module.String()), 0644); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "write textual IR to given file (defaults to stdout)")
}
