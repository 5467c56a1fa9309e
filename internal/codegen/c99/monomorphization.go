package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// typeIdentFragment turns a lowered C type spelling into an
// identifier-safe fragment suitable for mangled names: "struct uya_Foo"
// becomes "Foo", "int32_t *" becomes "ptr_int32_t", and so on
//.
func typeIdentFragment(cType string) string {
	s := strings.TrimSpace(cType)
	if strings.HasSuffix(s, "*") {
		inner := strings.TrimSpace(strings.TrimSuffix(s, "*"))
		return "ptr_" + typeIdentFragment(inner)
	}
	s = strings.TrimPrefix(s, "const ")
	s = strings.TrimPrefix(s, "struct ")
	s = strings.TrimPrefix(s, "enum ")
	s = strings.TrimPrefix(s, "union ")
	s = strings.TrimPrefix(s, "uya_")
	return s
}

// mangleGeneric produces the mangled name for a monomorphised generic
// instantiation, e.g. Pair<i32, i64> -> "Pair_i32_i64". Each argument is
// either a primitive's uya name or a lowered C spelling (struct names,
// nested instantiations, pointers), run through typeIdentFragment.
func mangleGeneric(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		parts = append(parts, typeIdentFragment(a))
	}
	return strings.Join(parts, "_")
}

// ensureMonomorphised instantiates the generic struct or union named
// templateName with the given type arguments, emitting its forward
// declaration and definition at most once under mangledName. Because
// lowering a field's type may itself trigger a nested instantiation
// before this struct's own body text is assembled, dependencies are
// always emitted before their dependents.
func (c *Context) ensureMonomorphised(templateName, mangledName string, typeArgs []ast.Type, _ []string) {
	if c.monoEmitted[mangledName] {
		return
	}
	c.monoEmitted[mangledName] = true

	if sd, ok := c.structDecls[templateName]; ok {
		c.instantiateGenericStruct(sd, mangledName, typeArgs)
		return
	}
	if ud, ok := c.unionDecls[templateName]; ok {
		c.instantiateGenericUnion(ud, mangledName, typeArgs)
		return
	}

	fmt.Fprintf(&c.forwardBuf, "/* unresolved generic instantiation %s */\n", mangledName)
}

func (c *Context) pushTypeParams(params []string, args []ast.Type) {
	c.currentTypeParams = append(c.currentTypeParams, params...)
	c.currentTypeArgs = append(c.currentTypeArgs, args...)
}

func (c *Context) popTypeParams(n int) {
	c.currentTypeParams = c.currentTypeParams[:len(c.currentTypeParams)-n]
	c.currentTypeArgs = c.currentTypeArgs[:len(c.currentTypeArgs)-n]
}

func (c *Context) instantiateGenericStruct(sd *ast.StructDecl, mangledName string, typeArgs []ast.Type) {
	c.pushTypeParams(sd.TypeParams, typeArgs)
	defer c.popTypeParams(len(sd.TypeParams))

	fmt.Fprintf(&c.forwardBuf, "struct %s;\n", mangledName)
	c.emitStructDef(mangledName, sd.Fields)
}

func (c *Context) instantiateGenericUnion(ud *ast.UnionDecl, mangledName string, typeArgs []ast.Type) {
	c.pushTypeParams(nil, nil) // unions have no type params slot beyond their own decl today
	defer c.popTypeParams(0)
	_ = typeArgs

	c.emitUnionDef(mangledName, ud)
}
