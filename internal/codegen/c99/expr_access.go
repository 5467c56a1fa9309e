package c99

import (
	"fmt"

	"github.com/uya-lang/uyac/internal/ast"
)

// emitMemberAccess lowers `obj.field`, picking `.` or `->` by consulting
// the object's inferred type rather than the AST shape:
// a pointer-typed object gets `->`. `EnumName.Variant` is also spelled
// as MemberAccess in the AST; it is recognised here by checking whether
// Object is a bare identifier naming a known enum, and lowers to the
// mangled C enumerator instead of a field access.
func (c *Context) emitMemberAccess(n *ast.MemberAccess) string {
	if ident, ok := n.Object.(*ast.Ident); ok {
		if _, isEnum := c.enumDecls[ident.Name]; isEnum {
			if _, isLocal := c.lookupLocal(ident.Name); !isLocal {
				return c.enumeratorName(ident.Name, n.Field)
			}
		}
	}

	objTy := c.typeOfExpr(n.Object)
	op := "."
	if isPointerType(objTy) {
		op = "->"
	}
	if ident, ok := n.Object.(*ast.Ident); ok {
		if lv, isLocal := c.lookupLocal(ident.Name); isLocal && lv.IsPtr {
			op = "->"
		}
	}
	return fmt.Sprintf("(%s%s%s)", c.emitExpr(n.Object), op, c.safe(n.Field))
}

// emitArrayAccess lowers `arr[i]`. A pointer-to-array local needs one
// extra dereference, `(*arr)[i]`, since in C an array and a pointer to
// an array are distinct spellings.
func (c *Context) emitArrayAccess(n *ast.ArrayAccess) string {
	arrTy := c.typeOfExpr(n.Array)
	if pt, ok := arrTy.(*ast.TypePointer); ok {
		if _, isArr := pt.Elem.(*ast.TypeArray); isArr {
			return fmt.Sprintf("(*%s)[%s]", c.emitExpr(n.Array), c.emitExpr(n.Index))
		}
	}
	if _, isSlice := arrTy.(*ast.TypeSlice); isSlice {
		return fmt.Sprintf("(%s).ptr[%s]", c.emitExpr(n.Array), c.emitExpr(n.Index))
	}
	return fmt.Sprintf("%s[%s]", c.emitExpr(n.Array), c.emitExpr(n.Index))
}

// emitSliceExpr lowers `arr[lo:hi]` into a slice-struct literal built
// from a pointer into arr's storage and the computed length.
func (c *Context) emitSliceExpr(n *ast.SliceExpr) string {
	elemTy := "void"
	switch t := c.typeOfExpr(n.Array).(type) {
	case *ast.TypeArray:
		elemTy = c.lowerType(t.Elem)
	case *ast.TypeSlice:
		elemTy = c.lowerType(t.Elem)
	}
	sliceType := c.ensureSliceStruct(elemTy)

	lo := "0"
	if n.Low != nil {
		lo = c.emitExpr(n.Low)
	}
	base := c.emitExpr(n.Array)
	var hi string
	if n.Hig != nil {
		hi = c.emitExpr(n.Hig)
	} else {
		hi = fmt.Sprintf("(sizeof(%s) / sizeof((%s)[0]))", base, base)
	}
	return fmt.Sprintf("(%s){ .ptr = &(%s)[%s], .len = (size_t)((%s) - (%s)) }", sliceType, base, lo, hi, lo)
}
