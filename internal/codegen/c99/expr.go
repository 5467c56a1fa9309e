package c99

import (
	"fmt"

	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/diag"
)

// emitExpr lowers e to a single, fully self-contained C expression. C is
// itself an expression language, so sub-expressions never need a named
// SSA register: this returns source text directly and callers nest the
// result inline.
func (c *Context) emitExpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IntLit:
		return n.Text
	case *ast.FloatLit:
		return n.Text
	case *ast.BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.NullLit:
		return "NULL"
	case *ast.StringLit:
		return c.registerStringConstant(n.Value)
	case *ast.Ident:
		return c.emitIdent(n)
	case *ast.ErrorLit:
		return fmt.Sprintf("%d /* error.%s */", c.errorID(n.Name, n.Span()), n.Name)

	case *ast.Binary:
		return c.emitBinary(n)
	case *ast.Unary:
		return c.emitUnary(n)

	case *ast.MemberAccess:
		return c.emitMemberAccess(n)
	case *ast.ArrayAccess:
		return c.emitArrayAccess(n)
	case *ast.SliceExpr:
		return c.emitSliceExpr(n)

	case *ast.StructInit:
		return c.emitStructInit(n)
	case *ast.ArrayLiteral:
		return c.emitArrayLiteral(n)

	case *ast.SizeofExpr:
		return c.emitSizeof(n)
	case *ast.LenExpr:
		return c.emitLen(n)
	case *ast.AlignofExpr:
		return c.emitAlignof(n)
	case *ast.CastExpr:
		return c.emitCast(n)

	case *ast.CallExpr:
		return c.emitCall(n)
	case *ast.AssignExpr:
		return c.emitAssignExpr(n)

	case *ast.StringInterp:
		c.addWarningDiag(diag.CodeUnsupportedConstruct, n.Span(),
			"string interpolation used outside a variable declaration initializer is not supported; emitting an empty string")
		return `""`

	default:
		c.addErrorDiag(diag.CodeUnsupportedConstruct, e.Span(),
			fmt.Sprintf("unsupported expression node %T", e), "")
		return "0"
	}
}

func (c *Context) emitIdent(n *ast.Ident) string {
	if lv, ok := c.lookupLocal(n.Name); ok {
		return lv.Name
	}
	if _, ok := c.lookupGlobal(n.Name); ok {
		return c.safe(n.Name)
	}
	return c.safe(n.Name)
}
