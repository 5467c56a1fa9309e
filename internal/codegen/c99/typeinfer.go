package c99

import "github.com/uya-lang/uyac/internal/ast"

// typeOfExpr makes a best-effort attempt at recovering e's uya type,
// purely from local syntactic context: this package has no general type
// checker of its own, since semantic analysis is an external, upstream
// collaborator. It is used only to decide mechanical lowering
// choices: `.` vs `->`, struct-vs-scalar equality, and similar
// spellings that depend on a type, not its correctness. Returning nil
// means "unknown"; callers fall back to the more permissive spelling.
func (c *Context) typeOfExpr(e ast.Expr) ast.Type {
	switch n := e.(type) {
	case *ast.Ident:
		if lv, ok := c.lookupLocal(n.Name); ok {
			return lv.ASTTy
		}
		if g, ok := c.lookupGlobal(n.Name); ok {
			return g.Type
		}
		if pv := c.lookupParam(n.Name); pv != nil {
			return pv.Type
		}
		return nil

	case *ast.MemberAccess:
		objTy := c.typeOfExpr(n.Object)
		structName := underlyingNamedStruct(objTy)
		if structName == "" {
			return nil
		}
		if sd, ok := c.structDecls[structName]; ok {
			for _, f := range sd.Fields {
				if f.Name == n.Field {
					return f.Type
				}
			}
		}
		return nil

	case *ast.ArrayAccess:
		arrTy := c.typeOfExpr(n.Array)
		switch t := arrTy.(type) {
		case *ast.TypeArray:
			return t.Elem
		case *ast.TypeSlice:
			return t.Elem
		case *ast.TypePointer:
			if at, ok := t.Elem.(*ast.TypeArray); ok {
				return at.Elem
			}
			return t.Elem
		}
		return nil

	case *ast.Unary:
		switch n.Op {
		case "*":
			if pt, ok := c.typeOfExpr(n.Operand).(*ast.TypePointer); ok {
				return pt.Elem
			}
			return nil
		case "&":
			inner := c.typeOfExpr(n.Operand)
			if inner == nil {
				return nil
			}
			return &ast.TypePointer{Elem: inner, IsFFIPointer: true}
		default:
			return c.typeOfExpr(n.Operand)
		}

	case *ast.CastExpr:
		return n.Target

	case *ast.CallExpr:
		if callee, ok := n.Callee.(*ast.Ident); ok {
			for _, fn := range c.freeFunctions {
				if fn.Name == callee.Name {
					return fn.ReturnType
				}
			}
		}
		if ma, ok := n.Callee.(*ast.MemberAccess); ok {
			recvTy := c.typeOfExpr(ma.Object)
			structName := underlyingNamedStruct(recvTy)
			for _, mb := range c.methodBlocks[structName] {
				for _, m := range mb.Methods {
					if m.Name == ma.Field {
						return m.ReturnType
					}
				}
			}
		}
		return nil

	case *ast.StructInit:
		return &ast.TypeNamed{Name: n.TypeName, TypeArgs: n.TypeArgs}

	case *ast.IntLit:
		return &ast.TypeNamed{Name: "i64"}
	case *ast.FloatLit:
		return &ast.TypeNamed{Name: "f64"}
	case *ast.BoolLit:
		return &ast.TypeNamed{Name: "bool"}
	case *ast.StringLit, *ast.StringInterp:
		return &ast.TypeNamed{Name: "string"}

	default:
		return nil
	}
}

func (c *Context) lookupLocal(name string) (*localVar, bool) {
	for i := len(c.localVariables) - 1; i >= 0; i-- {
		if c.localVariables[i].Name == name {
			return &c.localVariables[i], true
		}
	}
	return nil, false
}

func (c *Context) lookupGlobal(name string) (*ast.VarDecl, bool) {
	for _, g := range c.globalVars {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

func (c *Context) lookupParam(name string) *ast.Param {
	if c.currentFunctionDecl == nil {
		return nil
	}
	for _, p := range c.currentFunctionDecl.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// isStructTyped reports whether t ultimately names a plain struct
// (not a pointer, not a primitive), the condition under which `==`/`!=`
// must lower to memcmp instead of a native C comparison.
func (c *Context) isStructTyped(t ast.Type) bool {
	tn, ok := t.(*ast.TypeNamed)
	if !ok {
		return false
	}
	name := tn.Name
	if name == "Self" {
		name = c.currentMethodStructName
	}
	_, ok = c.structDecls[name]
	return ok
}
