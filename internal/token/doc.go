// Package token defines the tokens of the section expression language.
//
// The language is a small EEL2-flavoured dialect: float expressions,
// assignments, ternaries, calls and string literals. Positions are relative
// to the compiled block; the compiler maps them back to stream lines.
package token
