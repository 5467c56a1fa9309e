package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/diag"
)

// cReservedWords is the C99 keyword set plus the handful of identifiers
// the generated file's own preamble defines, that uya source names must
// never collide with.
var cReservedWords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true,
	"else": true, "enum": true, "extern": true, "float": true, "for": true,
	"goto": true, "if": true, "inline": true, "int": true, "long": true,
	"register": true, "restrict": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "typedef": true, "union": true, "unsigned": true,
	"void": true, "volatile": true, "while": true, "_Bool": true,
	"_Complex": true, "_Imaginary": true,
	// identifiers the generated preamble itself defines.
	"NULL": true, "size_t": true, "main": true,
}

// safe rewrites name into a spelling guaranteed not to collide with a C
// keyword or reserved identifier, trying three steps in order: the name
// unchanged; if reserved, prefixed with "uya_"; if that is itself
// (pathologically) reserved, an underscore suffix appended until it is
// not. Only the reserved-word set is checked; collisions with other
// user names are not.
func (c *Context) safe(name string) string {
	if !cReservedWords[name] {
		return c.arena.Intern(name)
	}
	candidate := "uya_" + name
	if !cReservedWords[candidate] {
		return c.arena.Intern(candidate)
	}
	for cReservedWords[candidate] {
		candidate += "_"
	}
	return c.arena.Intern(candidate)
}

// escapeCString escapes s for embedding inside a C string literal
//: backslash, double-quote, newline, tab and carriage
// return get their canonical C escapes; other non-printable bytes fall
// back to `\xHH`.
func escapeCString(s string) string {
	var b strings.Builder
	for _, r := range []byte(s) {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r >= 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteByte(r)
			}
		}
	}
	return b.String()
}

// djb2 computes the classic djb2 hash used to derive a stable, small
// integer id for an error name.
func djb2(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

// errorID returns the stable id for error name, registering it (and
// detecting a djb2 collision against a different, already-registered
// name) the first time it is seen.
func (c *Context) errorID(name string, span ast.Span) uint32 {
	if id, ok := c.errorNames[name]; ok {
		return id
	}
	id := djb2(name)
	// id 0 is reserved to mean "no error" in the `{error_id, value}`
	// encoding; nudge a genuine collision with it.
	if id == 0 {
		id = 1
	}
	if existing, ok := c.errorIDsSeen[id]; ok && existing != name {
		c.addErrorDiag(diag.CodeHashCollision, span,
			fmt.Sprintf("error names %q and %q hash to the same id", existing, name),
			"rename one of the error variants so their spellings hash differently")
	}
	c.errorIDsSeen[id] = name
	c.errorNames[name] = id
	return id
}

// emitLine writes a `#line` directive to w when EmitLineDirectives is
// set and either the filename changed or the line number is not exactly
// one greater than the last one emitted.
func (c *Context) emitLine(w *strings.Builder, span ast.Span) {
	if !c.EmitLineDirectives || span.Filename == "" || span.Line <= 0 {
		return
	}
	if span.Filename == c.currentFilename && span.Line == c.currentLine+1 {
		c.currentLine = span.Line
		return
	}
	fmt.Fprintf(w, "#line %d \"%s\"\n", span.Line, escapeCString(span.Filename))
	c.currentFilename = span.Filename
	c.currentLine = span.Line
}

// stdlibFunctions lists the libc entry points uya source may call
// directly; the function emitter (C5) does not forward-declare these
// itself and instead relies on the standard headers the preamble
// includes.
var stdlibFunctions = map[string]bool{
	"printf": true, "fprintf": true, "snprintf": true, "sprintf": true,
	"malloc": true, "calloc": true, "realloc": true, "free": true,
	"memcpy": true, "memmove": true, "memset": true, "memcmp": true,
	"strlen": true, "strcmp": true, "strncmp": true, "strcpy": true,
	"strncpy": true, "strcat": true, "abort": true, "exit": true,
	"puts": true, "putchar": true, "getchar": true, "fopen": true,
	"fclose": true, "fread": true, "fwrite": true, "fputs": true,
}

// preamble is the fixed block of standard headers and file-scope
// helper macros every generated translation unit opens with
// (§6.2: required headers, the `uya_alignof` macro, the `bridge_init`
// contract the hosting runtime's `main` is expected to satisfy).
const preamble = `#include <stdint.h>
#include <stdbool.h>
#include <stddef.h>
#include <string.h>
#include <stdio.h>
#include <stdlib.h>

#define uya_alignof(type) offsetof(struct { char c; type t; }, t)

extern void bridge_init(int argc, char **argv);

`
