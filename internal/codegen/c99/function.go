package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// passByPointer applies the large-struct-by-pointer ABI heuristic
//: a struct whose rough estimated size (field count × 4
// bytes, a cheap stand-in for a real layout computation that this
// generator does not otherwise need) exceeds 16 bytes is passed by
// pointer rather than copied by value, the way a hand-written C ABI
// commonly would for efficiency.
func (c *Context) passByPointer(t ast.Type) bool {
	tn, ok := t.(*ast.TypeNamed)
	if !ok {
		return false
	}
	name := tn.Name
	if name == "Self" {
		name = c.currentMethodStructName
	}
	return c.estimateStructSize(name) > 16
}

// estimateStructSize is the heuristic expressed as a byte count
// (field count × 4; 0 for a name that is not a struct), which
// passByPointer compares against the 16-byte threshold.
func (c *Context) estimateStructSize(structName string) int {
	sd, ok := c.structDecls[structName]
	if !ok {
		return 0
	}
	return len(sd.Fields) * 4
}

// lowerParam renders one parameter declaration, applying the
// large-struct ABI heuristic, the array-parameter `_param` rename
//, and the slice-as-
// pointer-to-slice convention.
func (c *Context) lowerParam(p *ast.Param) (decl string, needsArrayCopy bool, arrayElemType string, arrayN int) {
	if arr, ok := p.Type.(*ast.TypeArray); ok {
		elem := c.lowerType(arr.Elem)
		n := int(c.constOrPlaceholder(arr.Size))
		return fmt.Sprintf("%s %s_param[]", elem, c.safe(p.Name)), true, elem, n
	}
	if _, ok := p.Type.(*ast.TypeSlice); ok {
		return fmt.Sprintf("%s *%s", c.lowerType(p.Type), c.safe(p.Name)), false, "", 0
	}
	if c.passByPointer(p.Type) {
		return fmt.Sprintf("const %s *%s", c.lowerType(p.Type), c.safe(p.Name)), false, "", 0
	}
	return fmt.Sprintf("%s %s", c.lowerType(p.Type), c.safe(p.Name)), false, "", 0
}

// fnCName computes a free function's C name, renaming `main` to
// `uya_main` so the generated translation unit stays linkable as a
// library: the real `main` comes from the hosting runtime, which the
// preamble's `bridge_init` declaration is written for; this package and
// cmd/uyac do not emit one.
func (c *Context) fnCName(name string) string {
	if name == "main" {
		return "uya_main"
	}
	return c.safe(name)
}

// emitPrototypes writes a forward declaration for every free function
// and method that is not itself recognised as a libc entry point
//: stdlib functions rely on the standard headers the
// preamble already includes.
func (c *Context) emitPrototypes() {
	for _, fn := range c.freeFunctions {
		if stdlibFunctions[fn.Name] {
			continue
		}
		fmt.Fprintf(&c.prototypeBuf, "%s;\n", c.functionSignature(fn, ""))
	}
	for _, structName := range c.structOrder {
		for _, mb := range c.methodBlocks[structName] {
			for _, m := range mb.Methods {
				fmt.Fprintf(&c.prototypeBuf, "%s;\n", c.functionSignature(m, structName))
			}
		}
		if c.structNeedsDrop(structName) {
			fmt.Fprintf(&c.prototypeBuf, "void %s(struct %s *self);\n", c.dropCName(structName), c.safe(structName))
		}
	}
	c.prototypeBuf.WriteString("\n")
}

// functionSignature renders a function or method's C signature (return
// type, mangled name, parameter list), without a trailing semicolon or
// body. structName is "" for a free function.
func (c *Context) functionSignature(fn *ast.FnDecl, structName string) string {
	ret := "void"
	if fn.ReturnType != nil {
		if arr, ok := fn.ReturnType.(*ast.TypeArray); ok {
			elem := c.lowerType(arr.Elem)
			n := int(c.constOrPlaceholder(arr.Size))
			ret = c.ensureArrayWrapper(elem, n)
		} else {
			ret = c.lowerType(fn.ReturnType)
		}
	}

	var params []string
	if structName != "" && fn.Self != ast.SelfNone {
		params = append(params, c.receiverParam(fn.Self, structName))
	}
	for _, p := range fn.Params {
		decl, _, _, _ := c.lowerParam(p)
		params = append(params, decl)
	}
	if len(params) == 0 {
		params = append(params, "void")
	}

	name := c.fnCName(fn.Name)
	if structName != "" {
		name = c.methodCName(structName, fn.Name)
	}
	return fmt.Sprintf("%s %s(%s)", ret, name, strings.Join(params, ", "))
}

// receiverParam renders a method's receiver parameter per the
// Self-substitution rule: `*Self` (SelfPointer) lowers to a plain
// mutable pointer, `&Self` (SelfReference) to a const pointer, and a
// by-value `Self` (SelfValue) to the struct itself, passed by copy.
func (c *Context) receiverParam(kind ast.SelfKind, structName string) string {
	switch kind {
	case ast.SelfReference:
		return fmt.Sprintf("const struct %s *self", c.safe(structName))
	case ast.SelfValue:
		return fmt.Sprintf("struct %s self", c.safe(structName))
	default: // ast.SelfPointer
		return fmt.Sprintf("struct %s *self", c.safe(structName))
	}
}

// structNeedsDrop reports whether a struct has a synthesized drop
// method: any struct with a `drop` inherent method block entry
// participates in destructor emission.
func (c *Context) structNeedsDrop(structName string) bool {
	for _, mb := range c.methodBlocks[structName] {
		for _, m := range mb.Methods {
			if m.Name == "drop" {
				return true
			}
		}
	}
	return false
}

// methodSelfKind looks up how methodName on structName binds its
// receiver, for calls sites deciding whether to pass the receiver
// expression by value or take its address. Returns SelfPointer (the
// common case) when the method cannot be found, since that is also the
// safe default for the `&obj`-on-value-receiver call-site rule.
func (c *Context) methodSelfKind(structName, methodName string) ast.SelfKind {
	for _, mb := range c.methodBlocks[structName] {
		for _, m := range mb.Methods {
			if m.Name == methodName {
				return m.Self
			}
		}
	}
	return ast.SelfPointer
}

func (c *Context) dropCName(structName string) string {
	return "uya_" + c.safe(structName) + "_drop"
}

// emitSynthesizedDrops writes the generated `drop` dispatcher for every
// struct that declares one, calling each field's own drop (for
// struct-typed fields) in reverse field order before returning
//.
func (c *Context) emitSynthesizedDrops() {
	for _, structName := range c.structOrder {
		if !c.structNeedsDrop(structName) {
			continue
		}
		sd := c.structDecls[structName]
		var b strings.Builder
		fmt.Fprintf(&b, "void %s(struct %s *self) {\n", c.dropCName(structName), c.safe(structName))
		for i := len(sd.Fields) - 1; i >= 0; i-- {
			f := sd.Fields[i]
			fieldStruct := underlyingNamedStruct(f.Type)
			if fieldStruct != "" && c.structNeedsDrop(fieldStruct) {
				fmt.Fprintf(&b, "  %s(&self->%s);\n", c.dropCName(fieldStruct), c.safe(f.Name))
			}
		}
		for _, mb := range c.methodBlocks[structName] {
			for _, m := range mb.Methods {
				if m.Name == "drop" && m.Body != nil {
					c.currentMethodStructName = structName
					c.currentFunctionDecl = m
					c.pushFunctionScope(m, structName)
					b.WriteString(c.renderBlockBody(m.Body))
					c.popFunctionScope()
				}
			}
		}
		b.WriteString("}\n\n")
		c.bodyBuf.WriteString(b.String())
	}
}

// emitFunctionBodies writes every free function's and method's
// definition, in source order.
func (c *Context) emitFunctionBodies() {
	for _, fn := range c.freeFunctions {
		if fn.IsExtern || fn.Body == nil {
			continue
		}
		c.emitOneFunctionBody(fn, "")
	}
	for _, structName := range c.structOrder {
		for _, mb := range c.methodBlocks[structName] {
			for _, m := range mb.Methods {
				if m.Name == "drop" || m.IsExtern || m.Body == nil {
					continue
				}
				c.emitOneFunctionBody(m, structName)
			}
		}
	}
}

func (c *Context) emitOneFunctionBody(fn *ast.FnDecl, structName string) {
	c.currentMethodStructName = structName
	c.currentFunctionDecl = fn
	c.currentFunctionReturnType = fn.ReturnType
	c.pushFunctionScope(fn, structName)

	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", c.functionSignature(fn, structName))
	c.emitLine(&b, fn.Span())
	if structName != "" && fn.Self != ast.SelfNone {
		// self already named "self" by functionSignature; nothing further
		// to bind here.
	}
	b.WriteString(c.lowerArrayParamPreambles(fn))
	b.WriteString(c.renderBlockBody(fn.Body))
	b.WriteString("}\n\n")

	c.popFunctionScope()
	c.bodyBuf.WriteString(b.String())
}

// pushFunctionScope resets per-function state (invariant I7: the local
// table, defer/errdefer stacks and loop stack never leak across a
// function boundary) and seeds local_variables with the function's own
// parameters.
func (c *Context) pushFunctionScope(fn *ast.FnDecl, structName string) {
	c.localVariables = nil
	c.deferStack = nil
	c.errdeferStack = nil
	c.loopStack = nil

	if structName != "" && fn.Self != ast.SelfNone {
		if fn.Self == ast.SelfValue {
			c.localVariables = append(c.localVariables, localVar{
				Name:  "self",
				CType: "struct " + c.safe(structName),
				ASTTy: &ast.TypeNamed{Name: structName},
			})
		} else {
			c.localVariables = append(c.localVariables, localVar{
				Name:  "self",
				CType: "struct " + c.safe(structName) + " *",
				ASTTy: &ast.TypePointer{Elem: &ast.TypeNamed{Name: structName}, IsFFIPointer: fn.Self == ast.SelfPointer},
				IsPtr: true,
			})
		}
	}
	for _, p := range fn.Params {
		lv := localVar{Name: c.safe(p.Name), ASTTy: p.Type}
		if arr, ok := p.Type.(*ast.TypeArray); ok {
			lv.ArrayN = int(c.constOrPlaceholder(arr.Size))
			lv.CType = c.lowerType(arr.Elem)
		} else {
			lv.CType = c.lowerType(p.Type)
			lv.IsPtr = isPointerType(p.Type) || c.passByPointer(p.Type)
		}
		c.localVariables = append(c.localVariables, lv)
	}
}

func (c *Context) popFunctionScope() {
	c.localVariables = nil
	c.currentFunctionDecl = nil
	c.currentFunctionReturnType = nil
	c.currentMethodStructName = ""
}

// lowerArrayParamPreambles emits the entry-point `memcpy` that copies an
// array parameter's decayed-pointer storage into a true local array, so
// the rest of the body can index it exactly like any other array local
//.
func (c *Context) lowerArrayParamPreambles(fn *ast.FnDecl) string {
	var b strings.Builder
	for _, p := range fn.Params {
		arr, ok := p.Type.(*ast.TypeArray)
		if !ok {
			continue
		}
		elem := c.lowerType(arr.Elem)
		n := int(c.constOrPlaceholder(arr.Size))
		name := c.safe(p.Name)
		fmt.Fprintf(&b, "  %s %s[%d];\n", elem, name, n)
		fmt.Fprintf(&b, "  memcpy(%s, %s_param, sizeof(%s));\n", name, name, name)
		if lv, ok := c.lookupLocal(name); ok {
			lv.ArrayN = n
		}
	}
	return b.String()
}
