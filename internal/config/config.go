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

// Package config parses the kilkeac CLI's flags into an Options struct.
package config

import (
	"flag"
	"fmt"
	"io"
)

// Options holds every flag the compile subcommand accepts.
type Options struct {
	Input     string
	Output    string
	Debug     bool
	ParseOnly bool
	Watch     bool
	NoCache   bool
}

// Parse builds a flag.FlagSet named name, parses args against it, and
// returns the populated Options. The input path is the first non-flag
// argument.
func Parse(name string, args []string, errOutput io.Writer) (Options, error) {
	var opts Options
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOutput)
	fs.StringVar(&opts.Output, "o", "", "output name (reserved for the external codegen/link step)")
	fs.BoolVar(&opts.Debug, "debug", false, "dump each pipeline stage's output")
	fs.BoolVar(&opts.ParseOnly, "parse-only", false, "do not invoke codegen or linking after type checking")
	fs.BoolVar(&opts.Watch, "watch", false, "recompile on every save to the input file")
	fs.BoolVar(&opts.NoCache, "no-cache", false, "bypass the on-disk build cache")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() == 0 {
		return opts, fmt.Errorf("missing input file")
	}
	opts.Input = fs.Arg(0)
	return opts, nil
}
