package c99

import (
	"fmt"

	"github.com/uya-lang/uyac/internal/ast"
)

// emitAssignExpr lowers an assignment used in expression position (for
// example as the sole expression of an ExprStmt). Array-typed
// destinations are handled by emitAssignStmt instead, since an
// array-copying assignment needs a `memcpy` statement rather than a
// single expression; by the time an AssignExpr reaches here its target
// is known not to be array-typed.
func (c *Context) emitAssignExpr(n *ast.AssignExpr) string {
	targetTy := c.typeOfExpr(n.Target)
	value := c.emitAssignValue(n.Value, targetTy)
	target := c.emitExpr(n.Target)
	if n.Op == "=" || n.Op == "" {
		return fmt.Sprintf("(%s = %s)", target, value)
	}
	return fmt.Sprintf("(%s %s= %s)", target, trimAssignOp(n.Op), value)
}

func trimAssignOp(op string) string {
	if len(op) > 1 && op[len(op)-1] == '=' {
		return op[:len(op)-1]
	}
	return op
}

// emitAssignValue lowers value, special-casing the source `null`
// literal: it only lowers to C's `NULL` when the destination is
// actually a pointer.
func (c *Context) emitAssignValue(value ast.Expr, targetTy ast.Type) string {
	if _, ok := value.(*ast.NullLit); ok {
		if isPointerType(targetTy) {
			return "NULL"
		}
		return "0"
	}
	return c.emitExpr(value)
}

// emitAssignStmt lowers an assignment used as a full statement,
// handling the array-destination `memcpy` special case.
func (c *Context) emitAssignStmt(n *ast.AssignExpr) string {
	ind := c.indent()
	targetTy := c.typeOfExpr(n.Target)
	if _, ok := targetTy.(*ast.TypeArray); ok {
		target := c.emitExpr(n.Target)
		value := c.emitExpr(n.Value)
		return fmt.Sprintf("%smemcpy(%s, %s, sizeof(%s));\n", ind, target, value, target)
	}
	return ind + c.emitAssignExpr(n) + ";\n"
}
