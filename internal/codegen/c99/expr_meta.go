package c99

import (
	"fmt"
	"strconv"

	"github.com/uya-lang/uyac/internal/ast"
)

// emitSizeof lowers `sizeof(T)` or `sizeof(expr)`. A pointer-to-array
// type operand needs the parenthesized function-pointer-like spelling
// `sizeof(T(*)[N])`, since C's ordinary `Tc *` pointer spelling would
// otherwise read as a pointer to a single T. An expression operand that
// is itself a bare identifier naming a struct or enum (legal uya syntax
// even outside an `is_type` position, since struct/enum names and value
// names share no namespace) is recognised by consulting the
// struct/enum tables rather than treated as a value reference.
func (c *Context) emitSizeof(n *ast.SizeofExpr) string {
	if n.IsType {
		return fmt.Sprintf("sizeof(%s)", c.sizeofTypeSpelling(n.TypeOperand))
	}
	if ident, ok := n.ExprOperand.(*ast.Ident); ok {
		if _, isLocal := c.lookupLocal(ident.Name); !isLocal {
			if _, ok := c.structDecls[ident.Name]; ok {
				return fmt.Sprintf("sizeof(struct %s)", c.safe(ident.Name))
			}
			if _, ok := c.enumDecls[ident.Name]; ok {
				return fmt.Sprintf("sizeof(enum %s)", c.safe(ident.Name))
			}
		}
	}
	return fmt.Sprintf("sizeof(%s)", c.emitExpr(n.ExprOperand))
}

// sizeofTypeSpelling renders a type operand for `sizeof`, giving
// pointer-to-array types their special `T(*)[N]` spelling.
func (c *Context) sizeofTypeSpelling(t ast.Type) string {
	if pt, ok := t.(*ast.TypePointer); ok {
		if arr, ok := pt.Elem.(*ast.TypeArray); ok {
			elem := c.lowerType(arr.Elem)
			n := c.constOrPlaceholder(arr.Size)
			return fmt.Sprintf("%s(*)[%d]", elem, n)
		}
	}
	return c.lowerType(t)
}

// emitLen lowers `len(expr)`: a statically-known array size lowers to
// the literal constant itself (array parameters included, since they are
// copied into a true local array on entry), a slice reads its `.len`
// field, and anything else — notably a pointer, which in C has no length
// of its own to ask for — falls back to the `sizeof(x)/sizeof(x[0])`
// idiom.
func (c *Context) emitLen(n *ast.LenExpr) string {
	operandTy := c.typeOfExpr(n.Operand)
	switch t := operandTy.(type) {
	case *ast.TypeArray:
		return strconv.FormatInt(c.constOrPlaceholder(t.Size), 10)
	case *ast.TypeSlice:
		return fmt.Sprintf("(%s).len", c.emitExpr(n.Operand))
	default:
		expr := c.emitExpr(n.Operand)
		return fmt.Sprintf("(sizeof(%s) / sizeof((%s)[0]))", expr, expr)
	}
}

// emitAlignof lowers `alignof(T)` to the `uya_alignof` helper macro the
// preamble defines; an array type reports its element's alignment,
// since the two always coincide in C and the element spelling is what
// the macro's `offsetof` trick needs when the array's own size is a
// placeholder.
func (c *Context) emitAlignof(n *ast.AlignofExpr) string {
	t := n.Operand
	if arr, ok := t.(*ast.TypeArray); ok {
		t = arr.Elem
	}
	return fmt.Sprintf("uya_alignof(%s)", c.lowerType(t))
}

// emitCast lowers `x as T` to a plain C cast, and `x as! T` — the
// narrowing cast that unwraps an error union — to a cast applied to the
// union's `.value` field.
func (c *Context) emitCast(n *ast.CastExpr) string {
	target := c.lowerType(n.Target)
	if n.Force {
		return fmt.Sprintf("((%s)(%s).value)", target, c.emitExpr(n.Operand))
	}
	return fmt.Sprintf("((%s)(%s))", target, c.emitExpr(n.Operand))
}
