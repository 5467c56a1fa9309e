package c99

import (
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/diag"
)

// evalConst evaluates a compile-time integer constant expression
//: integer literals, const-qualified globals (looked up
// and evaluated recursively), unary +/-, and binary +,-,*,/,%. Division
// or modulo by a statically-known zero, or any construct this evaluator
// does not recognise, is "unevaluable": evalConst reports ok == false
// and callers fall back to the placeholder value 1.
func (c *Context) evalConst(e ast.Expr) (int64, bool) {
	switch n := e.(type) {
	case nil:
		return 0, false

	case *ast.IntLit:
		return n.Value, true

	case *ast.Ident:
		for _, g := range c.globalVars {
			if g.Name == n.Name && g.IsConst {
				return c.evalConst(g.Init)
			}
		}
		return 0, false

	case *ast.Unary:
		v, ok := c.evalConst(n.Operand)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case "-":
			return -v, true
		case "+":
			return v, true
		default:
			return 0, false
		}

	case *ast.Binary:
		l, ok := c.evalConst(n.Left)
		if !ok {
			return 0, false
		}
		r, ok := c.evalConst(n.Right)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case "+":
			return l + r, true
		case "-":
			return l - r, true
		case "*":
			return l * r, true
		case "/":
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case "%":
			if r == 0 {
				return 0, false
			}
			return l % r, true
		default:
			return 0, false
		}

	default:
		return 0, false
	}
}

// constOrPlaceholder evaluates e, falling back to the placeholder value
// 1 (and a diagnostic) when the expression is unevaluable.
func (c *Context) constOrPlaceholder(e ast.Expr) int64 {
	v, ok := c.evalConst(e)
	if ok {
		return v
	}
	c.addWarningDiag(diag.CodeUnevaluableConstant, e.Span(),
		"array size or other compile-time constant could not be evaluated; using placeholder value 1")
	return 1
}
