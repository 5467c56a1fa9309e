package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// emitGlobals writes every top-level `let`/`var` as a C file-scope
// variable, in source order. File-scope initializers follow C's own
// restricted grammar: a struct literal drops the
// `(struct S)` compound-literal cast a local declaration's initializer
// needs and keeps only the bare designated-initializer list, an array
// literal is the brace-enclosed list as-is, and anything else falls
// back to the ordinary expression emitter, which is expected to produce
// a constant expression here since uya's own checker rejects a global
// initializer that would not be one.
func (c *Context) emitGlobals() {
	for _, g := range c.globalVars {
		cType, arrayN := c.declType(g.Type)
		qualifier := ""
		if g.IsConst {
			qualifier = "const "
		}
		name := c.safe(g.Name)

		if g.Init == nil {
			if arrayN > 0 {
				fmt.Fprintf(&c.globalBuf, "%s%s %s[%d];\n", qualifier, cType, name, arrayN)
			} else {
				fmt.Fprintf(&c.globalBuf, "%s%s %s;\n", qualifier, cType, name)
			}
			continue
		}

		init := c.emitGlobalInit(g.Init)
		if arrayN > 0 {
			fmt.Fprintf(&c.globalBuf, "%s%s %s[%d] = %s;\n", qualifier, cType, name, arrayN, init)
		} else {
			fmt.Fprintf(&c.globalBuf, "%s%s %s = %s;\n", qualifier, cType, name, init)
		}
	}
	if len(c.globalVars) > 0 {
		c.globalBuf.WriteString("\n")
	}
}

func (c *Context) emitGlobalInit(init ast.Expr) string {
	switch n := init.(type) {
	case *ast.StructInit:
		parts := make([]string, 0, len(n.Fields))
		for _, f := range n.Fields {
			parts = append(parts, fmt.Sprintf(".%s = %s", c.safe(f.Name), c.emitGlobalInit(f.Value)))
		}
		return "{ " + strings.Join(parts, ", ") + " }"

	case *ast.ArrayLiteral:
		return c.emitArrayLiteral(n)

	default:
		return c.emitExpr(init)
	}
}
