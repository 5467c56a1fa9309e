package c99

import (
	"fmt"

	"github.com/uya-lang/uyac/internal/ast"
)

// cOpFor maps a uya operator spelling to its C99 equivalent; every
// operator in the language's surface also exists in C with the same
// spelling except logical and/or, which uya spells the same way C does
// today, so this is currently the identity map kept as a single seam in
// case that ever changes.
func cOpFor(op string) string { return op }

// emitBinary fully parenthesizes every binary expression,
// except `==`/`!=` against a struct-typed operand, which lowers to a
// `memcmp` call since C structs have no comparison operator.
func (c *Context) emitBinary(n *ast.Binary) string {
	if (n.Op == "==" || n.Op == "!=") && c.isStructTyped(c.typeOfExpr(n.Left)) {
		ty := c.typeOfExpr(n.Left)
		cType := c.lowerType(ty)
		cmp := fmt.Sprintf("memcmp(&(%s), &(%s), sizeof(%s))", c.emitExpr(n.Left), c.emitExpr(n.Right), cType)
		if n.Op == "==" {
			return "(" + cmp + " == 0)"
		}
		return "(" + cmp + " != 0)"
	}
	return fmt.Sprintf("(%s %s %s)", c.emitExpr(n.Left), cOpFor(n.Op), c.emitExpr(n.Right))
}

// emitUnary lowers a unary expression. `&` and `*` map directly onto
// C's address-of and dereference operators.
func (c *Context) emitUnary(n *ast.Unary) string {
	switch n.Op {
	case "-":
		return fmt.Sprintf("(-%s)", c.emitExpr(n.Operand))
	case "+":
		return fmt.Sprintf("(+%s)", c.emitExpr(n.Operand))
	case "!":
		return fmt.Sprintf("(!%s)", c.emitExpr(n.Operand))
	case "&":
		return fmt.Sprintf("(&%s)", c.emitExpr(n.Operand))
	case "*":
		return fmt.Sprintf("(*%s)", c.emitExpr(n.Operand))
	default:
		return fmt.Sprintf("/* unknown unary op %q */(%s)", n.Op, c.emitExpr(n.Operand))
	}
}
