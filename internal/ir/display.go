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

package ir

import (
	"fmt"
	"strings"
)

// String renders a function in the human-readable debug form:
//
//	func <return_ty> : @<name>(<type> %<id>, ...) {
//	u<block_id>(<params>):
//	    %<dest> = <op> <operands...>
//	    ret %v
//	}
func (f Function) String() string {
	var b strings.Builder
	params := make([]string, len(f.Sig.Params))
	for i, t := range f.Sig.Params {
		params[i] = fmt.Sprintf("%s %%%d", t, i)
	}
	fmt.Fprintf(&b, "func %s : @%s(%s) {\n", f.Sig.ReturnTy, f.Name, strings.Join(params, ", "))
	for _, block := range f.Blocks {
		blockParams := make([]string, len(block.Params))
		for i, p := range block.Params {
			blockParams[i] = p.String()
		}
		fmt.Fprintf(&b, "%s(%s):\n", block.ID, strings.Join(blockParams, ", "))
		for _, inst := range block.Insts {
			fmt.Fprintf(&b, "    %s\n", inst)
		}
	}
	b.WriteString("}")
	return b.String()
}

// String renders every function in the module, separated by blank lines.
func (m IrModule) String() string {
	parts := make([]string, len(m.Functions))
	for i, f := range m.Functions {
		parts[i] = f.String()
	}
	return strings.Join(parts, "\n\n")
}
