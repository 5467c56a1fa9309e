package c99

import (
	"fmt"

	"github.com/uya-lang/uyac/internal/ast"
)

// collectStringConstants walks the whole program once, registering
// every literal string — plain string literals and the literal text
// runs inside interpolated strings — into the deduplicated constant
// pool. Interpolation placeholders' printf format text
// is short and call-site-local, so it is emitted inline at the call
// site rather than pooled.
func (c *Context) collectStringConstants() {
	ast.Walk(c.Program, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.StringLit:
			c.registerStringConstant(e.Value)
		case *ast.StringInterp:
			for _, seg := range e.Segments {
				if !seg.IsPlaceholder && seg.Text != "" {
					c.registerStringConstant(seg.Text)
				}
			}
		}
		return true
	})
}

// registerStringConstant interns literal text into the string pool,
// returning its pool identifier. Equal literals, wherever they occur in
// source, share one constant.
func (c *Context) registerStringConstant(text string) string {
	if id, ok := c.stringConstants[text]; ok {
		return id
	}
	id := fmt.Sprintf("str%d", len(c.stringConstantOrder))
	c.stringConstants[text] = id
	c.stringConstantOrder = append(c.stringConstantOrder, text)
	return id
}

// emitStringPool writes every registered constant, in the order it was
// first encountered, as a `static const char strN[]` declaration.
func (c *Context) emitStringPool() {
	for _, text := range c.stringConstantOrder {
		id := c.stringConstants[text]
		fmt.Fprintf(&c.stringPoolBuf, "static const char %s[] = \"%s\";\n", id, escapeCString(text))
	}
	if len(c.stringConstantOrder) > 0 {
		c.stringPoolBuf.WriteString("\n")
	}
}

// stringConstRef returns the C expression referencing the pooled
// constant for text (registering it if this is the first use reached
// outside the up-front collection pass, e.g. a literal synthesised
// during lowering itself).
func (c *Context) stringConstRef(text string) string {
	return c.registerStringConstant(text)
}
