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

package typecheck

import (
	"strings"
	"testing"

	"github.com/launix-de/kilkeac/internal/lexer"
	"github.com/launix-de/kilkeac/internal/parser"
)

func checkSource(t *testing.T, src string) []string {
	t.Helper()
	tokens := lexer.Tokenize(src)
	parsed, diags := parser.Parse(tokens, src, "test.kk")
	if len(diags) > 0 {
		t.Fatalf("unexpected parse diagnostics for %q:\n%s", src, diags.Error())
	}
	var errs []string
	for _, d := range Check(parsed, src, "test.kk") {
		errs = append(errs, d.Error())
	}
	return errs
}

func TestCheck_ValidDeclarationAndMutation(t *testing.T) {
	errs := checkSource(t, "mut x : i32 := 1; x = 2;")
	if len(errs) != 0 {
		t.Fatalf("unexpected type errors: %v", errs)
	}
}

func TestCheck_ImmutableMutationFails(t *testing.T) {
	errs := checkSource(t, "x : i32 := 1; x = 2;")
	if len(errs) == 0 {
		t.Fatalf("expected an error mutating a non-mut binding")
	}
	if !strings.Contains(errs[0], "E1005") {
		t.Fatalf("expected a MutationError (E1005), got: %s", errs[0])
	}
}

func TestCheck_UndefinedIdentifierSuggestsClosestName(t *testing.T) {
	errs := checkSource(t, "mut foo : i32 := 1; fo = 2;")
	if len(errs) == 0 {
		t.Fatalf("expected an error for undefined identifier")
	}
	if !strings.Contains(errs[0], "did you mean") {
		t.Fatalf("expected a did-you-mean suggestion, got: %s", errs[0])
	}
}

func TestCheck_MismatchedDeclaredType(t *testing.T) {
	errs := checkSource(t, `x : i32 := "hi";`)
	if len(errs) == 0 {
		t.Fatalf("expected an error assigning a string to an i32 declaration")
	}
}

func TestCheck_ImmutableRedeclarationIsAnError(t *testing.T) {
	errs := checkSource(t, "x := 1; x := 2;")
	if len(errs) == 0 {
		t.Fatalf("expected an error redeclaring an immutable `x`")
	}
	if !strings.Contains(errs[0], "already declared") {
		t.Fatalf("expected an already-declared error, got: %s", errs[0])
	}
}

func TestCheck_MutableRedeclarationActsAsMutation(t *testing.T) {
	errs := checkSource(t, "mut x : i32 := 5; x := 3;")
	if len(errs) != 0 {
		t.Fatalf("expected `mut x: i32 := 5; x := 3;` to succeed as a mutation, got: %v", errs)
	}
}

func TestCheck_MutableRedeclarationStillChecksRHSType(t *testing.T) {
	errs := checkSource(t, `mut x : i32 := 5; x := "no";`)
	if len(errs) == 0 {
		t.Fatalf("expected an error assigning a string to an i32 binding via `:=`")
	}
}

func TestCheck_TypedRedeclarationIsStillAnError(t *testing.T) {
	errs := checkSource(t, "mut x : i32 := 5; x : i32 := 3;")
	if len(errs) == 0 {
		t.Fatalf("expected an error: an explicitly typed `:=` repeat is a redeclaration, not a mutation")
	}
}

func TestCheck_IfBranchTypeMismatch(t *testing.T) {
	errs := checkSource(t, `if true { 1 } else { "no" }`)
	if len(errs) == 0 {
		t.Fatalf("expected an error for mismatched then/else types")
	}
}

func TestCheck_IfConditionMustBeBoolean(t *testing.T) {
	errs := checkSource(t, "if 1 { 1 } else { 2 }")
	if len(errs) == 0 {
		t.Fatalf("expected an error for a non-boolean if condition")
	}
}

func TestCheck_BinaryOperatorTypeMismatch(t *testing.T) {
	errs := checkSource(t, `1 + "x"`)
	if len(errs) == 0 {
		t.Fatalf("expected an error adding an int and a string")
	}
}

func TestCheck_StringConcatenation(t *testing.T) {
	errs := checkSource(t, `"a" ++ "b"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected error concatenating two strings: %v", errs)
	}
}

func TestCheck_UnaryNegateUnsignedIsError(t *testing.T) {
	errs := checkSource(t, "mut x : u32; -x;")
	if len(errs) == 0 {
		t.Fatalf("expected an error negating an unsigned integer")
	}
	if !strings.Contains(errs[0], "cannot negate") {
		t.Fatalf("expected the error to come from the unary `-`, got: %s", errs[0])
	}
}
