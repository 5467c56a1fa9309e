package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// calleeParamTypes resolves callee to the parameter type list of the
// free function or method it names, for the large-struct `&`-injection
// and string-literal wrapping rules below. Returns nil when callee
// cannot be statically resolved this way (e.g. a call through a
// function-typed value).
func (c *Context) calleeParamTypes(callee ast.Expr) []ast.Type {
	switch n := callee.(type) {
	case *ast.Ident:
		for _, fn := range c.freeFunctions {
			if fn.Name == n.Name {
				return paramTypesOf(fn.Params)
			}
		}
	case *ast.MemberAccess:
		recvTy := c.typeOfExpr(n.Object)
		structName := underlyingNamedStruct(recvTy)
		for _, mb := range c.methodBlocks[structName] {
			for _, m := range mb.Methods {
				if m.Name == n.Field {
					return paramTypesOf(m.Params)
				}
			}
		}
	}
	return nil
}

func paramTypesOf(params []*ast.Param) []ast.Type {
	out := make([]ast.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// emitCall lowers a call expression. A bare identifier callee may be a
// free function (with the `main` -> `uya_main` rename) or a raw value
// being invoked through a function pointer; a MemberAccess
// callee is either a direct struct method call or, when the receiver's
// static type is an interface, a vtable dispatch through its fat
// pointer.
func (c *Context) emitCall(n *ast.CallExpr) string {
	paramTypes := c.calleeParamTypes(n.Callee)
	stdlibCallee := false
	if id, ok := n.Callee.(*ast.Ident); ok {
		stdlibCallee = stdlibFunctions[id.Name]
	}

	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		if _, isLit := a.(*ast.StringLit); isLit && stdlibCallee {
			args[i] = c.emitExpr(a)
			continue
		}
		args[i] = c.emitCallArg(a, paramTypes, i)
	}

	switch callee := n.Callee.(type) {
	case *ast.Ident:
		return fmt.Sprintf("%s(%s)", c.fnCName(callee.Name), strings.Join(args, ", "))

	case *ast.MemberAccess:
		recvTy := c.typeOfExpr(callee.Object)
		structName := underlyingNamedStruct(recvTy)
		if _, isIface := c.interfaceDecls[structName]; isIface {
			obj := c.emitExpr(callee.Object)
			allArgs := append([]string{fmt.Sprintf("(%s).data", obj)}, args...)
			vtableCast := fmt.Sprintf("(const struct uya_vtable_%s *)(%s).vtable", c.safe(structName), obj)
			return fmt.Sprintf("((%s))->%s(%s)", vtableCast, c.safe(callee.Field), strings.Join(allArgs, ", "))
		}
		selfArg := c.emitExpr(callee.Object)
		if c.methodSelfKind(structName, callee.Field) != ast.SelfValue && !isPointerType(recvTy) {
			selfArg = "&" + selfArg
		}
		allArgs := append([]string{selfArg}, args...)
		return fmt.Sprintf("%s(%s)", c.methodCName(structName, callee.Field), strings.Join(allArgs, ", "))

	default:
		return fmt.Sprintf("(%s)(%s)", c.emitExpr(n.Callee), strings.Join(args, ", "))
	}
}

// emitCallArg lowers one call argument, applying the large-struct
// `&`-injection rule (a by-value struct argument heavy enough to cross
// the by-pointer ABI threshold gets its address taken automatically)
// and wrapping a string-literal argument passed to a raw byte-pointer
// parameter with the cast a non-const `uint8_t *` parameter needs
// (stdlib functions instead take the pool constant's natural
// `const char *` spelling as-is).
func (c *Context) emitCallArg(a ast.Expr, paramTypes []ast.Type, i int) string {
	var paramTy ast.Type
	if i < len(paramTypes) {
		paramTy = paramTypes[i]
	}

	if paramTy != nil && c.passByPointer(paramTy) {
		argTy := c.typeOfExpr(a)
		if !isPointerType(argTy) {
			return "&(" + c.emitExpr(a) + ")"
		}
	}

	if lit, ok := a.(*ast.StringLit); ok {
		if pt, ok := paramTy.(*ast.TypePointer); ok && pt.IsFFIPointer {
			if tn, ok := pt.Elem.(*ast.TypeNamed); ok && (tn.Name == "byte" || tn.Name == "u8") {
				return fmt.Sprintf("(uint8_t *)%s", c.registerStringConstant(lit.Value))
			}
		}
	}

	return c.emitExpr(a)
}
