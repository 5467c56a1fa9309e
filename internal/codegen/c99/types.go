package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/diag"
)

// primitiveTypes maps uya's primitive names to their C99 spellings
//.
var primitiveTypes = map[string]string{
	"i8": "int8_t", "i16": "int16_t", "i32": "int32_t", "i64": "int64_t",
	"u8": "uint8_t", "u16": "uint16_t", "u32": "uint32_t", "u64": "uint64_t",
	"isize": "intptr_t", "usize": "size_t",
	"f32": "float", "f64": "double",
	"bool": "bool", "void": "void",
	"byte": "uint8_t", "char": "char",
	"string": "const char *",
}

// lowerType returns the C99 spelling for t, suitable for a simple
// `TYPE name` declaration. Array types are the one kind this does not
// fully resolve on its own: a declaration site must still append the
// `[N]` suffix itself (see declType), since C array syntax is not a
// type prefix.
func (c *Context) lowerType(t ast.Type) string {
	if t == nil {
		return "void"
	}
	switch n := t.(type) {
	case *ast.TypeNamed:
		return c.lowerNamedType(n)

	case *ast.TypePointer:
		// `*T` (an FFI pointer, IsFFIPointer) lowers to a plain, mutable
		// `Tc *`; `&T` (a source-level reference) lowers to `const Tc *`
		// since a reference never grants write access through itself
		//. A pointer-to-array pointee needs the special
		// `Tc (*)[N]` spelling instead of the ordinary prefix form.
		if arr, ok := n.Elem.(*ast.TypeArray); ok {
			elem := c.lowerType(arr.Elem)
			size := int(c.constOrPlaceholder(arr.Size))
			spelling := fmt.Sprintf("%s (*)[%d]", elem, size)
			if !n.IsFFIPointer {
				return "const " + spelling
			}
			return spelling
		}
		if !n.IsFFIPointer {
			return "const " + c.lowerType(n.Elem) + " *"
		}
		return c.lowerType(n.Elem) + " *"

	case *ast.TypeArray:
		elem := c.lowerType(n.Elem)
		size := int(c.constOrPlaceholder(n.Size))
		return c.ensureArrayWrapper(elem, size)

	case *ast.TypeSlice:
		elem := c.lowerType(n.Elem)
		return c.ensureSliceStruct(elem)

	case *ast.TypeTuple:
		var b strings.Builder
		b.WriteString("struct { ")
		for i, e := range n.Elems {
			fmt.Fprintf(&b, "%s f%d; ", c.lowerType(e), i)
		}
		b.WriteString("}")
		return b.String()

	case *ast.TypeErrorUnion:
		payload := "void"
		if n.Payload != nil {
			payload = c.lowerType(n.Payload)
		}
		return c.ensureErrorUnionStruct(payload)

	case *ast.TypeAtomic:
		return fmt.Sprintf("_Atomic(%s)", c.lowerType(n.Elem))

	default:
		c.addErrorDiag(diag.CodeTypeMappingError, t.Span(),
			fmt.Sprintf("unrecognised type node %T", t), "")
		return "void"
	}
}

// declType returns the C spelling to use at a declaration site
// (`TYPE name;` vs `TYPE name[N];`) along with the array arity (0 when
// not an array), so callers can place the `[N]` after the identifier.
func (c *Context) declType(t ast.Type) (cType string, arrayN int) {
	if arr, ok := t.(*ast.TypeArray); ok {
		elem := c.lowerType(arr.Elem)
		n := int(c.constOrPlaceholder(arr.Size))
		return elem, n
	}
	return c.lowerType(t), 0
}

func (c *Context) lowerNamedType(n *ast.TypeNamed) string {
	name := n.Name
	if name == "Self" {
		name = c.currentMethodStructName
	}

	for i := len(c.currentTypeParams) - 1; i >= 0; i-- {
		if c.currentTypeParams[i] == name {
			return c.lowerType(c.currentTypeArgs[i])
		}
	}

	if prim, ok := primitiveTypes[name]; ok {
		return prim
	}

	if len(n.TypeArgs) > 0 {
		argTypes := make([]string, len(n.TypeArgs))
		argFrags := make([]string, len(n.TypeArgs))
		for i, a := range n.TypeArgs {
			argTypes[i] = c.lowerType(a)
			argFrags[i] = argTypes[i]
			src := a
			for j := len(c.currentTypeParams) - 1; j >= 0; j-- {
				if tn, ok := src.(*ast.TypeNamed); ok && c.currentTypeParams[j] == tn.Name {
					src = c.currentTypeArgs[j]
				}
			}
			if tn, ok := src.(*ast.TypeNamed); ok && len(tn.TypeArgs) == 0 {
				if _, prim := primitiveTypes[tn.Name]; prim {
					argFrags[i] = tn.Name
				}
			}
		}
		mangled := mangleGeneric(name, argFrags)
		c.ensureMonomorphised(name, mangled, n.TypeArgs, argTypes)
		return "struct " + mangled
	}

	if _, ok := c.interfaceDecls[name]; ok {
		c.ensureInterfaceType(name)
		return "struct uya_interface_" + c.safe(name)
	}
	if _, ok := c.enumDecls[name]; ok {
		return "enum " + c.safe(name)
	}
	if u, ok := c.unionDecls[name]; ok {
		if u.Extern {
			return "union " + c.safe(name)
		}
		return "struct uya_tagged_" + c.safe(name)
	}
	if _, ok := c.structDecls[name]; ok {
		return "struct " + c.safe(name)
	}

	c.addErrorDiag(diag.CodeTypeMappingError, n.Span(),
		fmt.Sprintf("reference to undeclared type %q", name), "")
	return "struct " + c.safe(name)
}

// isPointerType reports whether t lowers to a C pointer, which member
// access and indexing rules (C6) need to know to pick `.` vs `->`.
func isPointerType(t ast.Type) bool {
	_, ok := t.(*ast.TypePointer)
	return ok
}

// isArrayType reports whether t is a fixed-size array type.
func isArrayType(t ast.Type) (*ast.TypeArray, bool) {
	a, ok := t.(*ast.TypeArray)
	return a, ok
}

// underlyingNamedStruct unwraps pointers to find the struct name a type
// ultimately names, for member-access resolution. Returns "" if t does
// not (transitively) name a struct.
func underlyingNamedStruct(t ast.Type) string {
	for {
		switch n := t.(type) {
		case *ast.TypePointer:
			t = n.Elem
		case *ast.TypeNamed:
			return n.Name
		default:
			return ""
		}
	}
}
