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

// Package types holds the closed Type set, the Symbol table, and the
// TypeRegistry consulted when resolving declared type annotations.
package types

import "github.com/google/btree"

// Type is the closed set of static types the checker assigns.
type Type int

const (
	Undetermined Type = iota
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	String
	Char
	Boolean
	Void
	Unit
	// Alias closes out the set named in the data model (alongside the
	// primitives above): a named reference to another type, carried by
	// AliasType since a bare Type tag has no room for the aliased name.
	// No registry in this checker constructs one yet, matching the
	// original implementation's TypeRegistry, which never produces a
	// Type::Alias either despite the variant being part of its enum.
	Alias
)

var names = map[Type]string{
	Int8: "i8", Int16: "i16", Int32: "i32", Int64: "i64",
	UInt8: "u8", UInt16: "u16", UInt32: "u32", UInt64: "u64",
	Float32: "f32", Float64: "f64",
	String: "string", Char: "char", Boolean: "bool",
	Void: "void", Unit: "unit", Undetermined: "{undetermined}",
	Alias: "{alias}",
}

// AliasType pairs the Alias tag with the name it refers to, the payload
// the original's Alias(String) variant carries directly. Formats as the
// bare wrapped name, mirroring Self::Alias(s) => write!(f, "{}", s).
type AliasType struct {
	Type
	Name string
}

func (a AliasType) String() string { return a.Name }

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "{unknown}"
}

// IsSignedInt reports whether t is one of Int8..Int64.
func (t Type) IsSignedInt() bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsUnsignedInt reports whether t is one of UInt8..UInt64.
func (t Type) IsUnsignedInt() bool {
	switch t {
	case UInt8, UInt16, UInt32, UInt64:
		return true
	}
	return false
}

// IsFloat reports whether t is Float32 or Float64.
func (t Type) IsFloat() bool {
	return t == Float32 || t == Float64
}

// IsNumeric reports whether t belongs to any of the three numeric families.
func (t Type) IsNumeric() bool {
	return t.IsSignedInt() || t.IsUnsignedInt() || t.IsFloat()
}

// Symbol is a declared variable: its name, static type, and mutability.
type Symbol struct {
	Name       string
	Type       Type
	Mutability bool
}

// Registry maps type-name text to Type, pre-populated with the primitive
// aliases. Immutable at use; extendable only at registration time.
type Registry struct {
	byName map[string]Type
}

// NewRegistry returns a Registry pre-populated with the primitive aliases.
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]Type{
		"i8": Int8, "i16": Int16, "i32": Int32, "i64": Int64,
		"u8": UInt8, "u16": UInt16, "u32": UInt32, "u64": UInt64,
		"f32": Float32, "f64": Float64,
		"string": String, "bool": Boolean, "unit": Unit,
	}}
	return r
}

// Get looks up a registered type name.
func (r *Registry) Get(name string) (Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// IsRegistered reports whether name collides with a registered type name.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Register adds a new name -> Type mapping; used only at registry
// construction time, never while checking a module (§3 invariant: the
// registry is immutable at use).
func (r *Registry) Register(name string, t Type) {
	r.byName[name] = t
}

// Scope is one entry of the type checker's scope stack: a name -> Symbol
// map plus a btree of names so did-you-mean candidate enumeration is
// deterministic (sorted), unlike Go's randomized map iteration order.
// Grounded on the teacher's use of google/btree BTreeG indices
// (storage/index.go).
type Scope struct {
	symbols map[string]Symbol
	names   *btree.BTreeG[string]
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{
		symbols: make(map[string]Symbol),
		names:   btree.NewG(8, func(a, b string) bool { return a < b }),
	}
}

// Declare adds a symbol to the scope.
func (s *Scope) Declare(sym Symbol) {
	s.symbols[sym.Name] = sym
	s.names.ReplaceOrInsert(sym.Name)
}

// Lookup returns the symbol with the given name in this scope, if any.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Names returns every declared name in this scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, s.names.Len())
	s.names.Ascend(func(item string) bool {
		names = append(names, item)
		return true
	})
	return names
}
