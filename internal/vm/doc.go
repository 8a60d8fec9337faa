// Package vm is the expression virtual machine that section blocks compile to.
//
// The loader treats it as an opaque collaborator: Compile turns source text
// plus a line offset into a *Handle or a *CompileError, Execute runs a
// handle, Free releases it. Everything else (variables, host functions, the
// string table) is host-facing API.
//
// # Language
//
// Values are float64. A block is a sequence of expressions separated by ';'.
//
//	a = 12;                      // assignment, also += -= *= /= %= ^=
//	b = a > 10 ? a * 2 : 0;      // ternary, else branch optional
//	loop(3, b += 1; a -= 1);     // bounded loop, arguments may hold sequences
//	while(a -= 1; a > 0);        // repeats while the body is non-zero
//	printf("%d\n", sqrt(b));     // host and builtin calls
//
// Names are case-insensitive and create a VM-wide variable on first use at
// compile time; every handle compiled by one VM shares them. "==" compares
// with a 0.00001 tolerance. Iteration of loop and while is capped at
// MaxLoop; execution has no other failure mode.
//
// # Bytecode
//
// A Chunk holds the instruction stream plus constant, string, variable and
// call tables. Instructions are one opcode byte followed by fixed-width
// little-endian operands (see opcodes.go).
//
// # Strings
//
// String literals evaluate to a number: StringBase plus an index into the VM
// string table. Literals are only published to the table by RefreshStrings,
// which must run once after every successful Compile; until then a literal
// evaluates to -1.
//
// # Concurrency
//
// A VM is not safe for concurrent use. Options.Locker is an enter/leave hook
// invoked around Compile, Execute, Free and RefreshStrings; it defaults to a
// no-op and must not be a lock that host functions also take.
package vm
