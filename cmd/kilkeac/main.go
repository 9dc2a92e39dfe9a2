/*
Copyright (C) 2026  kilkeac contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// kilkeac is the CLI entrypoint: flag parsing, pipeline wiring
// (lex -> parse -> type-check -> lower -> fold), the -watch dev loop, and
// the inspect REPL.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	units "github.com/docker/go-units"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/launix-de/kilkeac/internal/buildcache"
	"github.com/launix-de/kilkeac/internal/config"
	"github.com/launix-de/kilkeac/internal/diag"
	"github.com/launix-de/kilkeac/internal/lexer"
	"github.com/launix-de/kilkeac/internal/lower"
	"github.com/launix-de/kilkeac/internal/optimize"
	"github.com/launix-de/kilkeac/internal/parser"
	"github.com/launix-de/kilkeac/internal/types"
	"github.com/launix-de/kilkeac/internal/typecheck"
)

var errLog = log.New(os.Stderr, "", 0)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "inspect" {
		inspect()
		return
	}

	opts, err := config.Parse("kilkeac", os.Args[1:], os.Stderr)
	if err != nil {
		errLog.Fatal(err)
	}

	if opts.Watch {
		watch(opts)
		return
	}

	ok := compileFile(opts)
	if !ok {
		os.Exit(1)
	}
}

func compileFile(opts config.Options) bool {
	raw, err := os.ReadFile(opts.Input)
	if err != nil {
		errLog.Printf("cannot read %s: %v", opts.Input, err)
		return false
	}
	buildID := uuid.New().String()
	source := normalizeNewlines(string(raw))

	if opts.Debug {
		fmt.Printf("build %s\n", buildID)
		fmt.Println("--- source ---")
		fmt.Println(source)
	}

	var store *buildcache.Store
	var cacheKey string
	if !opts.NoCache {
		store = buildcache.NewStore(".kilkeac-cache")
		cacheKey = buildcache.Key(raw)
		if entry, hit := store.Load(cacheKey); hit {
			if opts.Debug {
				size := units.HumanSize(float64(store.Size(cacheKey)))
				fmt.Printf("--- build cache hit (produced by build %s, %s) ---\n", entry.BuildID, size)
				fmt.Println(entry.Module.String())
			}
			return true
		}
	}

	tokens := lexer.Tokenize(source)
	if opts.Debug {
		fmt.Println("--- tokens ---")
		for _, tok := range tokens {
			fmt.Printf("%+v\n", tok)
		}
	}

	mod, diags := parser.Parse(tokens, source, opts.Input)
	if len(diags) > 0 {
		printDiagnostics(diags)
		return false
	}
	if opts.Debug {
		fmt.Println("--- ast ---")
		fmt.Printf("%d top-level node(s)\n", len(mod.Nodes))
	}

	if diags := typecheck.Check(mod, source, opts.Input); len(diags) > 0 {
		printDiagnostics(diags)
		return false
	}

	irModule := lower.Module(mod, types.NewRegistry())
	optimize.New(&irModule).WithConstantFolder().Run()

	if opts.Debug {
		fmt.Println("--- ir ---")
		fmt.Println(irModule.String())
	}

	if store != nil {
		if _, err := store.Save(cacheKey, irModule); err != nil && opts.Debug {
			fmt.Fprintf(os.Stderr, "warning: could not write build cache: %v\n", err)
		}
	}

	if opts.ParseOnly {
		return true
	}

	// Native codegen and linking are out of scope; a real build would hand
	// irModule (or mod, for codegen that works from the typed AST) to an
	// external collaborator here.
	return true
}

func watch(opts config.Options) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		errLog.Fatalf("cannot start watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add(opts.Input); err != nil {
		errLog.Fatalf("cannot watch %s: %v", opts.Input, err)
	}

	compileFile(opts)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fmt.Printf("--- rebuilding (%s) ---\n", event.Name)
				compileFile(opts)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			errLog.Printf("watch error: %v", err)
			return
		}
	}
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func printDiagnostics(diags diag.Set) {
	fmt.Fprintln(os.Stderr, diags.Error())
}

func tryCompileLine(line string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("panic:", r)
		}
	}()

	source := normalizeNewlines(line)
	tokens := lexer.Tokenize(source)
	fmt.Println("tokens:", len(tokens))

	mod, diags := parser.Parse(tokens, source, "<inspect>")
	if len(diags) > 0 {
		fmt.Print(diags.Error())
		fmt.Println()
		return
	}
	fmt.Printf("parsed %d node(s)\n", len(mod.Nodes))

	if diags := typecheck.Check(mod, source, "<inspect>"); len(diags) > 0 {
		fmt.Print(diags.Error())
		fmt.Println()
		return
	}
	fmt.Println("type-checked ok")

	irModule := lower.Module(mod, types.NewRegistry())
	optimize.New(&irModule).WithConstantFolder().Run()
	fmt.Println(irModule.String())
}

func inspect() {
	// grounded on the teacher's Repl (scm/prompt.go): readline prompt, one
	// statement at a time, anti-panic recover so a bad expression never
	// kills the session.
	runREPL(tryCompileLine)
}
