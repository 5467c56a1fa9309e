package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// emitStructInit lowers a struct literal to a parenthesized C99
// compound literal with designated initializers, e.g.
// `(struct Point){ .x = 1, .y = 2 }`. Monomorphising a generic
// struct literal (`Pair<i32, i64>{...}`) is handled transparently:
// lowering the literal's own type triggers the same instantiation path
// a field or parameter reference would. The
// temp-plus-memcpy pattern a struct literal needs when one of its own
// fields is itself array-typed and initialized from another array
// variable is handled at the statement level instead (see stmt_vardecl.go's
// variable-declaration lowering), since only there does emission have a
// place to insert the extra statements around the declaration.
func (c *Context) emitStructInit(n *ast.StructInit) string {
	targetType := c.lowerType(&ast.TypeNamed{Name: n.TypeName, TypeArgs: n.TypeArgs})

	parts := make([]string, 0, len(n.Fields))
	for _, f := range n.Fields {
		parts = append(parts, fmt.Sprintf(".%s = %s", c.safe(f.Name), c.emitExpr(f.Value)))
	}
	return fmt.Sprintf("(%s){ %s }", targetType, strings.Join(parts, ", "))
}

// emitArrayLiteral lowers `[e1, e2, ...]` to a bare brace-enclosed
// initializer list. This spelling is valid both nested inside another
// initializer (a struct field, another array) and as the right-hand
// side of a `TYPE name[N] = ...;` declaration, which is the only
// context uya's grammar allows an array literal to appear in
//.
func (c *Context) emitArrayLiteral(n *ast.ArrayLiteral) string {
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = c.emitExpr(e)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
