package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// registerDecls walks the program's top-level declarations once,
// sorting them into the registries Generate's later passes consult:
// struct/enum/union/interface tables (forward-declared in source
// order), method blocks grouped by receiver struct, free functions, and
// globals.
func (c *Context) registerDecls() {
	for _, d := range c.Program.Decls {
		switch n := d.(type) {
		case *ast.StructDecl:
			c.structDecls[n.Name] = n
			c.structOrder = append(c.structOrder, n.Name)
			c.structDefs[n.Name] = &defState{}

		case *ast.EnumDecl:
			c.enumDecls[n.Name] = n
			c.enumOrder = append(c.enumOrder, n.Name)
			c.enumDefs[n.Name] = &defState{}

		case *ast.UnionDecl:
			c.unionDecls[n.Name] = n
			c.unionOrder = append(c.unionOrder, n.Name)
			c.unionDefs[n.Name] = &defState{}

		case *ast.InterfaceDecl:
			c.interfaceDecls[n.Name] = n
			c.interfaceOrder = append(c.interfaceOrder, n.Name)

		case *ast.MethodBlock:
			c.methodBlocks[n.StructName] = append(c.methodBlocks[n.StructName], n)
			if n.InterfaceName != "" {
				c.implementers[n.InterfaceName] = append(c.implementers[n.InterfaceName], n.StructName)
			}

		case *ast.FnDecl:
			c.freeFunctions = append(c.freeFunctions, n)

		case *ast.VarDecl:
			c.globalVars = append(c.globalVars, n)
		}
	}
}

// emitEnums writes every plain enum's definition: C enum
// values carry forward from the previous variant exactly as C itself
// does, so an explicit Value is only emitted where the source gave one.
func (c *Context) emitEnums() {
	for _, name := range c.enumOrder {
		ed := c.enumDecls[name]
		var b strings.Builder
		fmt.Fprintf(&b, "enum %s {\n", c.safe(name))
		for i, v := range ed.Variants {
			sep := ","
			if i == len(ed.Variants)-1 {
				sep = ""
			}
			if v.Value != "" {
				fmt.Fprintf(&b, "  %s = %s%s\n", c.enumeratorName(name, v.Name), v.Value, sep)
			} else {
				fmt.Fprintf(&b, "  %s%s\n", c.enumeratorName(name, v.Name), sep)
			}
		}
		b.WriteString("};\n\n")
		c.enumBuf.WriteString(b.String())
		c.enumDefs[name].Declared = true
		c.enumDefs[name].Defined = true
	}
}

// enumeratorName mangles an enum variant to a process-wide-unique C
// identifier (C enumerators share one namespace, unlike uya's
// per-enum-scoped variants).
func (c *Context) enumeratorName(enumName, variant string) string {
	return c.safe(enumName) + "_" + variant
}

// emitForwardDecls writes a tag-only forward declaration for every
// struct and tagged union, so mutually-referential pointer fields
// compile regardless of declaration order.
func (c *Context) emitForwardDecls() {
	for _, name := range c.structOrder {
		fmt.Fprintf(&c.forwardBuf, "struct %s;\n", c.safe(name))
		c.structDefs[name].Declared = true
	}
	for _, name := range c.unionOrder {
		ud := c.unionDecls[name]
		if ud.Extern {
			fmt.Fprintf(&c.forwardBuf, "union %s;\n", c.safe(name))
		} else {
			fmt.Fprintf(&c.forwardBuf, "struct uya_tagged_%s;\n", c.safe(name))
		}
		c.unionDefs[name].Declared = true
	}
	for _, name := range c.interfaceOrder {
		fmt.Fprintf(&c.forwardBuf, "struct uya_interface_%s;\n", c.safe(name))
	}
	if len(c.structOrder)+len(c.unionOrder)+len(c.interfaceOrder) > 0 {
		c.forwardBuf.WriteString("\n")
	}
}

// emitStructDef writes a struct's field list, padding genuinely empty
// structs with a single `char _empty;` member since C forbids an empty
// struct body.
func (c *Context) emitStructDef(name string, fields []*ast.FieldDecl) {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", name)
	if len(fields) == 0 {
		b.WriteString("  char _empty;\n")
	}
	for _, f := range fields {
		cType, arrayN := c.declType(f.Type)
		b.WriteString("  ")
		b.WriteString(structFieldDeclLine(c.safe(f.Name), cType, arrayN))
		b.WriteString("\n")
	}
	b.WriteString("};\n\n")
	c.structDefBuf.WriteString(b.String())
}

func structFieldDeclLine(name, cType string, arrayN int) string {
	if arrayN > 0 {
		return fmt.Sprintf("%s %s[%d];", cType, name, arrayN)
	}
	return fmt.Sprintf("%s %s;", cType, name)
}

// emitStructs emits every non-generic struct's definition, in source
// order, after all forward declarations exist.
func (c *Context) emitStructs() {
	for _, name := range c.structOrder {
		sd := c.structDecls[name]
		if len(sd.TypeParams) > 0 {
			continue // only emitted lazily, on first monomorphised use
		}
		c.emitStructDef(c.safe(name), sd.Fields)
		c.structDefs[name].Defined = true
	}
}

// emitUnionDef writes one union's definition: a bare C union for an
// extern union, or a tag + union wrapper struct for a tagged union
//. Variant declaration order fixes each variant's `_tag`
// index.
func (c *Context) emitUnionDef(name string, ud *ast.UnionDecl) {
	var inner strings.Builder
	fmt.Fprintf(&inner, "union %s {\n", name)
	for _, v := range ud.Variants {
		cType, arrayN := c.declType(v.Type)
		inner.WriteString("  ")
		inner.WriteString(structFieldDeclLine(c.safe(v.Name), cType, arrayN))
		inner.WriteString("\n")
	}
	inner.WriteString("};\n\n")

	if ud.Extern {
		fmt.Fprintf(&c.structDefBuf, "union %s {\n", name)
		for _, v := range ud.Variants {
			cType, arrayN := c.declType(v.Type)
			c.structDefBuf.WriteString("  ")
			c.structDefBuf.WriteString(structFieldDeclLine(c.safe(v.Name), cType, arrayN))
			c.structDefBuf.WriteString("\n")
		}
		c.structDefBuf.WriteString("};\n\n")
		return
	}

	c.structDefBuf.WriteString(inner.String())
	fmt.Fprintf(&c.structDefBuf, "struct uya_tagged_%s {\n  int _tag;\n  union %s u;\n};\n\n", name, name)
}

func (c *Context) emitUnions() {
	for _, name := range c.unionOrder {
		ud := c.unionDecls[name]
		c.emitUnionDef(c.safe(name), ud)
		c.unionDefs[name].Defined = true
	}
}

func (c *Context) tagIndexOf(unionName, variantName string) int {
	ud, ok := c.unionDecls[unionName]
	if !ok {
		return -1
	}
	for i, v := range ud.Variants {
		if v.Name == variantName {
			return i
		}
	}
	return -1
}
