package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// effectiveMethods flattens an interface's own methods together with
// every embedded interface's methods, embeds contributing first and in
// declaration order, with by-name duplicates from later occurrences
// suppressed.
func (c *Context) effectiveMethods(name string) []*ast.MethodSig {
	seen := make(map[string]bool)
	var out []*ast.MethodSig
	var visit func(n string)
	visit = func(n string) {
		id, ok := c.interfaceDecls[n]
		if !ok {
			return
		}
		for _, e := range id.Embeds {
			visit(e)
		}
		for _, m := range id.Methods {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			out = append(out, m)
		}
	}
	visit(name)
	return out
}

// ensureInterfaceType is the lazy entry point lowerType uses when an
// interface name is first referenced as a value type; emission is
// idempotent since emitInterfaceTypes also emits every declared
// interface unconditionally during the fixed-order aggregate pass.
func (c *Context) ensureInterfaceType(name string) {
	c.emitInterfaceType(name)
}

// vtableSlotType returns the method's slot return type and the parameter
// type list (including the leading "void *self"), used both to declare
// the vtable struct field and to build the matching function-pointer
// cast at each implementer's constant.
func (c *Context) vtableSlotType(m *ast.MethodSig) (ret string, paramTypes []string) {
	ret = "void"
	if m.ReturnType != nil {
		ret = c.lowerType(m.ReturnType)
	}
	paramTypes = append(paramTypes, "void *self")
	for _, p := range m.Params {
		paramTypes = append(paramTypes, c.lowerType(p.Type))
	}
	return ret, paramTypes
}

func (c *Context) emitInterfaceType(name string) {
	if c.interfaceTypeEmitted == nil {
		c.interfaceTypeEmitted = make(map[string]bool)
	}
	if c.interfaceTypeEmitted[name] {
		return
	}
	c.interfaceTypeEmitted[name] = true

	methods := c.effectiveMethods(name)
	safeName := c.safe(name)

	var b strings.Builder
	fmt.Fprintf(&b, "struct uya_vtable_%s {\n", safeName)
	for _, m := range methods {
		ret, paramTypes := c.vtableSlotType(m)
		var params []string
		for i, pt := range paramTypes {
			if i == 0 {
				params = append(params, pt)
				continue
			}
			params = append(params, pt+" "+c.safe(m.Params[i-1].Name))
		}
		fmt.Fprintf(&b, "  %s (*%s)(%s);\n", ret, c.safe(m.Name), strings.Join(params, ", "))
	}
	b.WriteString("};\n\n")
	fmt.Fprintf(&b, "struct uya_interface_%s {\n  void *vtable;\n  void *data;\n};\n\n", safeName)

	c.interfaceBuf.WriteString(b.String())
}

// emitInterfaceTypes emits the vtable and fat-pointer struct types for
// every declared interface, in source order.
func (c *Context) emitInterfaceTypes() {
	for _, name := range c.interfaceOrder {
		c.emitInterfaceType(name)
	}
}

// emitVTableConstants emits one static const vtable instance per
// (interface, implementing struct) pair, wiring each slot to the
// struct's mangled method name.
func (c *Context) emitVTableConstants() {
	for _, ifaceName := range c.interfaceOrder {
		methods := c.effectiveMethods(ifaceName)
		safeIface := c.safe(ifaceName)
		for _, structName := range c.implementers[ifaceName] {
			safeStruct := c.safe(structName)
			fmt.Fprintf(&c.vtableBuf, "static const struct uya_vtable_%s uya_vtable_%s_%s = {\n", safeIface, safeIface, safeStruct)
			for i, m := range methods {
				sep := ","
				if i == len(methods)-1 {
					sep = ""
				}
				ret, paramTypes := c.vtableSlotType(m)
				cast := fmt.Sprintf("(%s (*)(%s))", ret, strings.Join(paramTypes, ", "))
				fmt.Fprintf(&c.vtableBuf, "  .%s = %s&%s%s\n", c.safe(m.Name), cast, c.methodCName(structName, m.Name), sep)
			}
			c.vtableBuf.WriteString("};\n\n")
		}
	}
}

// methodCName mangles a struct method to its C function name,
// `uya_<Struct>_<method>`.
func (c *Context) methodCName(structName, methodName string) string {
	return "uya_" + c.safe(structName) + "_" + c.safe(methodName)
}
