package ast

// Walk traverses the AST rooted at node, calling fn for every node
// reached (including node itself). If fn returns false, Walk does not
// descend into that node's children, but continues with siblings. This
// is the traversal the string-constant pool drives over every
// declaration's expressions and statements, including
// string-interpolation segments, and that the defer collector drives
// over a function body.
func Walk(node Node, fn func(Node) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, d := range n.Decls {
			Walk(d, fn)
		}

	case *FnDecl:
		for _, p := range n.Params {
			Walk(p.Type, fn)
		}
		Walk(n.ReturnType, fn)
		Walk(n.Body, fn)

	case *VarDecl:
		Walk(n.Type, fn)
		Walk(n.Init, fn)

	case *StructDecl:
		for _, f := range n.Fields {
			Walk(f.Type, fn)
		}

	case *EnumDecl:
		// variants carry no sub-expressions beyond literal text

	case *UnionDecl:
		for _, v := range n.Variants {
			Walk(v.Type, fn)
		}

	case *InterfaceDecl:
		for _, m := range n.Methods {
			for _, p := range m.Params {
				Walk(p.Type, fn)
			}
			Walk(m.ReturnType, fn)
		}

	case *MethodBlock:
		for _, m := range n.Methods {
			Walk(m, fn)
		}

	case *TypeNamed:
		for _, a := range n.TypeArgs {
			Walk(a, fn)
		}
	case *TypePointer:
		Walk(n.Elem, fn)
	case *TypeArray:
		Walk(n.Elem, fn)
		Walk(n.Size, fn)
	case *TypeSlice:
		Walk(n.Elem, fn)
	case *TypeTuple:
		for _, e := range n.Elems {
			Walk(e, fn)
		}
	case *TypeErrorUnion:
		Walk(n.Payload, fn)
	case *TypeAtomic:
		Walk(n.Elem, fn)

	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Unary:
		Walk(n.Operand, fn)
	case *MemberAccess:
		Walk(n.Object, fn)
	case *ArrayAccess:
		Walk(n.Array, fn)
		Walk(n.Index, fn)
	case *SliceExpr:
		Walk(n.Array, fn)
		Walk(n.Low, fn)
		Walk(n.Hig, fn)
	case *StructInit:
		for _, a := range n.TypeArgs {
			Walk(a, fn)
		}
		for _, f := range n.Fields {
			Walk(f.Value, fn)
		}
	case *ArrayLiteral:
		for _, e := range n.Elems {
			Walk(e, fn)
		}
	case *SizeofExpr:
		if n.IsType {
			Walk(n.TypeOperand, fn)
		} else {
			Walk(n.ExprOperand, fn)
		}
	case *LenExpr:
		Walk(n.Operand, fn)
	case *AlignofExpr:
		Walk(n.Operand, fn)
	case *CastExpr:
		Walk(n.Operand, fn)
		Walk(n.Target, fn)
	case *CallExpr:
		Walk(n.Callee, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *AssignExpr:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *StringInterp:
		for _, seg := range n.Segments {
			if seg.IsPlaceholder {
				Walk(seg.Value, fn)
			}
		}

	case *ExprStmt:
		Walk(n.X, fn)
	case *ReturnStmt:
		Walk(n.Value, fn)
	case *IfStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case *WhileStmt:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)
	case *ForStmt:
		Walk(n.Iterable, fn)
		Walk(n.Body, fn)
	case *DeferStmt:
		Walk(n.Body, fn)
	case *ErrDeferStmt:
		Walk(n.Body, fn)
	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, fn)
		}

	// Leaf nodes: IntLit, FloatLit, StringLit, BoolLit, NullLit, Ident,
	// ErrorLit, BreakStmt, ContinueStmt have no children.
	default:
	}
}

// WalkExprs walks node and invokes fn for every Expr reached.
func WalkExprs(node Node, fn func(Expr)) {
	Walk(node, func(n Node) bool {
		if e, ok := n.(Expr); ok {
			fn(e)
		}
		return true
	})
}
