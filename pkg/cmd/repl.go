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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/consensys/go-jlang/pkg/jlang/ast"
	"github.com/consensys/go-jlang/pkg/jlang/compiler"
	"github.com/consensys/go-jlang/pkg/util/source"
	"github.com/llir/llvm/ir"
	"github.com/peterh/liner"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "compile jlang constructs interactively.",
	Long: `Read top-level constructs line by line, lowering each into a
	session-wide module as it arrives and printing the resulting IR.
	The accumulated module is dumped (on stderr) when the session
	ends.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		history := !GetFlag(cmd, "no-history")
		repl := NewRepl()
		// Prompt only when attached to a terminal
		if term.IsTerminal(0) {
			runInteractiveRepl(repl, history)
		} else {
			runBufferedRepl(repl, bufio.NewReader(os.Stdin))
		}
		// Dump accumulated module
		fmt.Fprint(os.Stderr, repl.Module().String())
	},
}

// Repl encapsulates the state of an interactive session: the module being
// accumulated, the source mapping for every construct lowered so far, and any
// partially entered construct awaiting its continuation.
type Repl struct {
	env     *compiler.Environment
	srcmaps *source.Maps[ast.Node]
	// Buffer holds lines of a construct which has not yet parsed completely,
	// such that entry can continue on the following line.
	buffer strings.Builder
}

// NewRepl constructs a repl with a fresh (empty) module.
func NewRepl() *Repl {
	return &Repl{
		env:     compiler.NewEnvironment(),
		srcmaps: source.NewSourceMaps[ast.Node](),
	}
}

// Module returns the module accumulated by this session so far.
func (p *Repl) Module() *ir.Module {
	return p.env.Module()
}

// Pending checks whether an incomplete construct is currently buffered (i.e.
// one expected to continue on the next line).
func (p *Repl) Pending() bool {
	return p.buffer.Len() > 0
}

// Reset discards any partially entered construct.
func (p *Repl) Reset() {
	p.buffer.Reset()
}

// Feed adds a line of input to this session.  When the buffered text still
// ends mid-construct the line is simply retained; otherwise, every construct
// it contains is lowered into the session module.
func (p *Repl) Feed(line string) {
	p.buffer.WriteString(line)
	p.buffer.WriteString("\n")
	//
	srcfile := source.NewSourceFile("repl", []byte(p.buffer.String()))
	item, errs := compiler.Parse(srcfile)
	// Check whether the construct simply continues on the next line
	if incomplete(srcfile, errs) {
		return
	}
	//
	p.buffer.Reset()
	p.process(item, errs)
}

// Flush forces any buffered construct to be processed as is.  This matters at
// end of input, where an unterminated construct must still report its errors.
func (p *Repl) Flush() {
	if p.buffer.Len() == 0 {
		return
	}
	//
	srcfile := source.NewSourceFile("repl", []byte(p.buffer.String()))
	item, errs := compiler.Parse(srcfile)
	//
	p.buffer.Reset()
	p.process(item, errs)
}

// Process a batch of parsed constructs, lowering each in turn.  Observe that
// constructs are processed independently: a failure in one (reported and then
// rolled back) does not prevent those following it from being lowered.
func (p *Repl) process(item compiler.ParsedFile, errs []source.SyntaxError) {
	// Report any syntax errors directly
	for _, err := range errs {
		printSyntaxError(&err)
	}
	// Record mapping for the declarations which did parse
	p.srcmaps.Join(&item.SourceMap)
	//
	for _, decl := range item.Declarations {
		fn, errs := compiler.TranslateDeclaration(p.env, p.srcmaps, decl)
		//
		if len(errs) > 0 {
			for _, err := range errs {
				printSyntaxError(&err)
			}
			//
			continue
		}
		// Report what was recognised, mirroring the transcript of the
		// original driver.
		switch d := decl.(type) {
		case *ast.Function:
			if d.IsAnonymous() {
				fmt.Println("Parsed a top-level expr")
			} else {
				fmt.Println("Parsed a function definition.")
			}
		case *ast.Prototype:
			fmt.Println("Parsed an extern")
		}
		// Print resulting IR (on stderr, like the module dump)
		fmt.Fprintln(os.Stderr, fn.LLString())
		fmt.Println()
	}
}

// Read loop used when attached to a terminal, providing line editing and
// history via liner.
func runInteractiveRepl(repl *Repl, history bool) {
	state := liner.NewLiner()
	defer state.Close()
	//
	state.SetCtrlCAborts(true)
	// Load any existing history
	if path := historyPath(); history && path != "" {
		if f, err := os.Open(path); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		//
		defer func() {
			if f, err := os.Create(path); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}
	//
	for {
		prompt := "Jlang>"
		if repl.Pending() {
			prompt = ".....>"
		}
		//
		input, err := state.Prompt(prompt)
		//
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			fmt.Println()
			repl.Reset()
			//
			continue
		case errors.Is(err, io.EOF):
			fmt.Println()
			repl.Flush()
			//
			return
		case err != nil:
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return
		}
		//
		if strings.TrimSpace(input) != "" {
			state.AppendHistory(input)
		}
		//
		repl.Feed(input)
	}
}

// Read loop used when input arrives on a pipe (or file), where prompting and
// line editing make no sense.
func runBufferedRepl(repl *Repl, reader *bufio.Reader) {
	for {
		line, err := reader.ReadString('\n')
		//
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return
		}
		// Strip line ending
		line = strings.TrimRight(line, "\r\n")
		//
		if line != "" || !errors.Is(err, io.EOF) {
			repl.Feed(line)
		}
		// Check for end of input
		if errors.Is(err, io.EOF) {
			// Force any partial construct to be processed
			repl.Flush()
			//
			return
		}
	}
}

// Incomplete checks whether every error arises at the very end of the input,
// in which case the construct is presumed to continue on the next line.
func incomplete(srcfile *source.File, errs []source.SyntaxError) bool {
	eof := len(srcfile.Contents())
	//
	for _, err := range errs {
		span := err.Span()
		//
		if span.Start() < eof {
			return false
		}
	}
	//
	return len(errs) > 0
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	//
	return filepath.Join(home, ".jlang_history")
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Bool("no-history", false, "disable loading / saving of input history")
}
