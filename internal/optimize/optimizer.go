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

// Package optimize runs IR-to-IR transformation passes over an IrModule.
package optimize

import "github.com/launix-de/kilkeac/internal/ir"

// Pass is one IR-to-IR transformation. Apply mutates module in place.
type Pass interface {
	Name() string
	Apply(module *ir.IrModule)
}

// Optimizer holds an ordered, deduplicated set of passes and runs them in
// insertion order. AddPass checks the new pass's own name against every
// already-registered pass (the original snapshot this was ported from
// compared against the literal string "ConstantFolder" instead, which
// would have silently rejected any other pass once a ConstantFolder was
// registered; that looked like a bug rather than an intended restriction,
// so the by-name check here is the general one the rest of the contract
// implies).
type Optimizer struct {
	module   *ir.IrModule
	passes   []Pass
	seen     map[string]bool
}

func New(module *ir.IrModule) *Optimizer {
	return &Optimizer{module: module, seen: map[string]bool{}}
}

// WithConstantFolder registers a ConstantFolder and returns the receiver
// for chaining.
func (o *Optimizer) WithConstantFolder() *Optimizer {
	o.AddPass(NewConstantFolder())
	return o
}

// AddPass registers p unless a pass with the same name is already present.
// Reports whether p was added.
func (o *Optimizer) AddPass(p Pass) bool {
	if o.seen[p.Name()] {
		return false
	}
	o.seen[p.Name()] = true
	o.passes = append(o.passes, p)
	return true
}

// Run applies every registered pass to the module, in registration order.
func (o *Optimizer) Run() {
	for _, p := range o.passes {
		p.Apply(o.module)
	}
}
