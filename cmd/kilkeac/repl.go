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

package main

import (
	"io"

	"github.com/chzyer/readline"
)

const replPrompt = "\033[32m>\033[0m "

// runREPL reads one line at a time and hands it to handle, the way the
// teacher's Repl evaluates one Scheme expression at a time, except here
// each line runs through lex -> parse -> check -> lower -> fold instead of
// the evaluator. handle must never let a panic escape it; the caller does
// not add its own recover since handle itself is responsible for printing
// a clean diagnostic on any failure.
func runREPL(handle func(line string)) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            replPrompt,
		HistoryFile:       ".kilkeac-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		errLog.Fatal(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return
		} else if err != nil {
			return
		}
		if line == "" {
			continue
		}
		handle(line)
	}
}
