package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// emitLocalVarDecl lowers a `let`/`var` statement, picking among four
// initializer shapes: a fixed-size array freshly
// returned from a call (copied out of its array-wrapper struct), an
// array copied from another array variable, a struct literal that
// itself needs one or more array fields copied in after the compound
// literal (because C cannot initialize an aggregate's array member from
// another array identifier inline), and the general `TYPE name = expr;`
// case that covers everything else, including the buffered
// memcpy/snprintf sequence a string-interpolation initializer expands
// into.
func (c *Context) emitLocalVarDecl(n *ast.VarDecl) string {
	ind := c.indent()
	name := c.safe(n.Name)
	cType, arrayN := c.declType(n.Type)

	lv := localVar{Name: name, CType: cType, ASTTy: n.Type, ArrayN: arrayN, DeclaredInBody: true}
	if isPointerType(n.Type) {
		lv.IsPtr = true
	}
	c.localVariables = append(c.localVariables, lv)

	if n.Init == nil {
		if arrayN > 0 {
			return fmt.Sprintf("%s%s %s[%d];\n", ind, cType, name, arrayN)
		}
		return fmt.Sprintf("%s%s %s;\n", ind, cType, name)
	}

	if interp, ok := n.Init.(*ast.StringInterp); ok {
		return c.emitStringInterpDecl(ind, name, cType, interp)
	}

	if arrayN > 0 {
		return c.emitArrayVarDecl(ind, name, cType, arrayN, n.Init)
	}

	if structInit, ok := n.Init.(*ast.StructInit); ok {
		if text, needsSplit := c.structInitWithArrayFromIdent(structInit); needsSplit {
			var b strings.Builder
			fmt.Fprintf(&b, "%s%s %s = %s;\n", ind, cType, name, text.literal)
			for _, fix := range text.fixups {
				fmt.Fprintf(&b, "%smemcpy(%s.%s, %s, sizeof(%s.%s));\n", ind, name, fix.field, fix.source, name, fix.field)
			}
			return b.String()
		}
	}

	return fmt.Sprintf("%s%s %s = %s;\n", ind, cType, name, c.emitExpr(n.Init))
}

func (c *Context) emitArrayVarDecl(ind, name, elemCType string, n int, init ast.Expr) string {
	switch v := init.(type) {
	case *ast.ArrayLiteral:
		return fmt.Sprintf("%s%s %s[%d] = %s;\n", ind, elemCType, name, n, c.emitArrayLiteral(v))

	case *ast.Ident:
		return fmt.Sprintf("%s%s %s[%d];\n%smemcpy(%s, %s, sizeof(%s));\n",
			ind, elemCType, name, n, ind, name, c.safe(v.Name), name)

	case *ast.CallExpr:
		wrapperType := c.ensureArrayWrapper(elemCType, n)
		tmp := c.nextTemp()
		return fmt.Sprintf("%s%s %s[%d];\n%s%s %s = %s;\n%smemcpy(%s, %s.data, sizeof(%s));\n",
			ind, elemCType, name, n,
			ind, wrapperType, tmp, c.emitExpr(v),
			ind, name, tmp, name)

	default:
		return fmt.Sprintf("%s%s %s[%d] = { 0 }; /* unrecognised array initializer shape */\n",
			ind, elemCType, name, n)
	}
}

type structFieldFixup struct {
	field  string
	source string
}

type structInitText struct {
	literal string
	fixups  []structFieldFixup
}

// structInitWithArrayFromIdent detects a struct literal where one or
// more array-typed fields are initialized directly from another array
// identifier, which C's aggregate-initializer syntax cannot express.
// Those fields are emitted as their zero value in the compound literal
// and immediately corrected with a `memcpy` right after the
// declaration.
func (c *Context) structInitWithArrayFromIdent(n *ast.StructInit) (structInitText, bool) {
	structName := n.TypeName
	sd, ok := c.structDecls[structName]
	if !ok {
		return structInitText{}, false
	}

	fieldType := func(name string) ast.Type {
		for _, f := range sd.Fields {
			if f.Name == name {
				return f.Type
			}
		}
		return nil
	}

	var fixups []structFieldFixup
	var parts []string
	found := false
	for _, f := range n.Fields {
		ft := fieldType(f.Name)
		if _, isArr := ft.(*ast.TypeArray); isArr {
			if ident, isIdent := f.Value.(*ast.Ident); isIdent {
				found = true
				fixups = append(fixups, structFieldFixup{field: c.safe(f.Name), source: c.safe(ident.Name)})
				continue
			}
		}
		parts = append(parts, fmt.Sprintf(".%s = %s", c.safe(f.Name), c.emitExpr(f.Value)))
	}
	if !found {
		return structInitText{}, false
	}

	targetType := c.lowerType(&ast.TypeNamed{Name: n.TypeName, TypeArgs: n.TypeArgs})
	literal := fmt.Sprintf("(%s){ %s }", targetType, strings.Join(parts, ", "))
	return structInitText{literal: literal, fixups: fixups}, true
}

// emitStringInterpDecl lowers an interpolated-string initializer into a
// fixed buffer declaration followed by a running sequence of memcpy (for
// literal text runs) and snprintf (for placeholder values) calls that
// each advance a byte offset.
func (c *Context) emitStringInterpDecl(ind, name, elemCType string, interp *ast.StringInterp) string {
	size := interp.BufferSize
	if size == 0 {
		size = 256
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s[%d];\n", ind, elemCType, name, size)
	offVar := c.nextTemp()
	fmt.Fprintf(&b, "%ssize_t %s = 0;\n", ind, offVar)

	for _, seg := range interp.Segments {
		if !seg.IsPlaceholder {
			ref := c.registerStringConstant(seg.Text)
			fmt.Fprintf(&b, "%smemcpy(%s + %s, %s, %d);\n", ind, name, offVar, ref, len(seg.Text))
			fmt.Fprintf(&b, "%s%s += %d;\n", ind, offVar, len(seg.Text))
			continue
		}
		format := seg.Format
		if format == "" {
			format = "%d"
		}
		fmt.Fprintf(&b, "%s%s += (size_t)snprintf(%s + %s, sizeof(%s) - %s, \"%s\", %s);\n",
			ind, offVar, name, offVar, name, offVar, format, c.emitExpr(seg.Value))
	}
	fmt.Fprintf(&b, "%s%s[sizeof(%s) - 1] = '\\0';\n", ind, name, name)
	return b.String()
}
