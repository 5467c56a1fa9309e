package c99

import (
	"fmt"
	"strings"

	"github.com/uya-lang/uyac/internal/ast"
)

// collectDefers gathers every DeferStmt/ErrDeferStmt body reachable
// anywhere in a function, in source order, regardless of which
// conditional branch lexically contains it. uya's defer is
// function-scoped, not block-scoped: a defer registered inside an `if` still runs on every
// exit from the enclosing function, so collection happens once, up
// front, rather than by a stack that is pushed to as control flow is
// emitted.
func (c *Context) collectDefers(body *ast.BlockStmt) {
	ast.Walk(body, func(n ast.Node) bool {
		switch d := n.(type) {
		case *ast.DeferStmt:
			c.deferStack = append(c.deferStack, d.Body)
		case *ast.ErrDeferStmt:
			c.errdeferStack = append(c.errdeferStack, d.Body)
		}
		return true
	})
}

// renderBlockBody renders a function's top-level statement list at one
// indent level, followed by the fixed-label epilogue every function
// with at least one non-bare-fallthrough exit needs.
func (c *Context) renderBlockBody(body *ast.BlockStmt) string {
	c.indentLevel = 1
	c.collectDefers(body)

	fn := c.currentFunctionDecl
	_, isErrU := fn.ReturnType.(*ast.TypeErrorUnion)
	c.currentReturnIsErrorU = isErrU
	c.currentEpilogueBase = c.fnCName(fn.Name)
	if c.currentMethodStructName != "" {
		c.currentEpilogueBase = c.methodCName(c.currentMethodStructName, fn.Name)
	}
	c.currentHasRetVar = fn.ReturnType != nil

	var b strings.Builder
	if c.currentHasRetVar {
		retType := c.lowerType(fn.ReturnType)
		if arr, ok := fn.ReturnType.(*ast.TypeArray); ok {
			elem := c.lowerType(arr.Elem)
			n := int(c.constOrPlaceholder(arr.Size))
			retType = c.ensureArrayWrapper(elem, n)
		}
		fmt.Fprintf(&b, "%s_ret;\n", indentedDecl(retType))
	}

	for _, s := range body.Stmts {
		b.WriteString(c.emitStmt(s))
	}

	b.WriteString(c.renderEpilogue())
	return b.String()
}

func indentedDecl(cType string) string { return "  " + cType + " " }

// renderEpilogue writes the function-exit labels and defer/errdefer/drop
// replay: the error path runs errdefer bodies, then
// defer bodies, then drops, each in LIFO order, before the normal path's
// defer-then-drop replay.
func (c *Context) renderEpilogue() string {
	var b strings.Builder
	base := c.currentEpilogueBase

	if c.currentReturnIsErrorU {
		fmt.Fprintf(&b, "_error_return_%s:\n", base)
		c.replayLIFO(&b, c.errdeferStack)
		c.replayLIFO(&b, c.deferStack)
		c.replayDrops(&b)
		b.WriteString(c.epilogueReturn())
	}

	fmt.Fprintf(&b, "_normal_return_%s:\n", base)
	c.replayLIFO(&b, c.deferStack)
	c.replayDrops(&b)
	b.WriteString(c.epilogueReturn())
	return b.String()
}

func (c *Context) epilogueReturn() string {
	if c.currentHasRetVar {
		return "  return _ret;\n"
	}
	return "  return;\n"
}

func (c *Context) replayLIFO(b *strings.Builder, bodies []*ast.BlockStmt) {
	for i := len(bodies) - 1; i >= 0; i-- {
		inner := c.emitBlockInline(bodies[i])
		b.WriteString(inner)
	}
}

// replayDrops calls drop, in reverse declaration order, on every
// body-declared struct-typed local whose struct has one.
func (c *Context) replayDrops(b *strings.Builder) {
	for i := len(c.localVariables) - 1; i >= 0; i-- {
		lv := c.localVariables[i]
		if !lv.DeclaredInBody {
			continue
		}
		structName := underlyingNamedStruct(lv.ASTTy)
		if structName == "" || !c.structNeedsDrop(structName) {
			continue
		}
		fmt.Fprintf(b, "  %s(&%s);\n", c.dropCName(structName), lv.Name)
	}
}

// emitBlockInline renders a block's statements at the current indent
// without adding its own brace pair, used to splice a defer/errdefer
// body directly into the epilogue.
func (c *Context) emitBlockInline(blk *ast.BlockStmt) string {
	var b strings.Builder
	for _, s := range blk.Stmts {
		b.WriteString(c.emitStmt(s))
	}
	return b.String()
}

// emitBraced renders a block as a standalone `{ ... }`, for if/while/for
// bodies, at one deeper indent level than the caller.
func (c *Context) emitBraced(blk *ast.BlockStmt) string {
	c.indentLevel++
	var inner strings.Builder
	for _, s := range blk.Stmts {
		inner.WriteString(c.emitStmt(s))
	}
	c.indentLevel--
	return "{\n" + inner.String() + c.indent() + "}"
}

func (c *Context) emitStmt(s ast.Stmt) string {
	ind := c.indent()
	switch n := s.(type) {
	case *ast.ExprStmt:
		if assign, ok := n.X.(*ast.AssignExpr); ok {
			return c.emitAssignStmt(assign)
		}
		return ind + c.emitExpr(n.X) + ";\n"

	case *ast.ReturnStmt:
		return c.emitReturn(n)

	case *ast.VarDecl:
		return c.emitLocalVarDecl(n)

	case *ast.IfStmt:
		return c.emitIf(n)

	case *ast.WhileStmt:
		return c.emitWhile(n)

	case *ast.ForStmt:
		return c.emitFor(n)

	case *ast.BreakStmt:
		return ind + "break;\n"

	case *ast.ContinueStmt:
		return ind + "continue;\n"

	case *ast.DeferStmt, *ast.ErrDeferStmt:
		// Collected up front by collectDefers; the statement's lexical
		// position contributes nothing further at emission time.
		return ind + "/* deferred */\n"

	case *ast.BlockStmt:
		return ind + c.emitBraced(n) + "\n"

	default:
		return ind + fmt.Sprintf("/* unsupported statement %T */\n", s)
	}
}

// emitReturn lowers `return` / `return expr` to an assignment into the
// shared `_ret` slot followed by a jump to the appropriate epilogue
// label: an error-union return branches on whether the
// value carries a non-zero error id, anything else falls straight
// through to the normal-exit label.
func (c *Context) emitReturn(n *ast.ReturnStmt) string {
	ind := c.indent()
	base := c.currentEpilogueBase
	var b strings.Builder

	if n.Value == nil {
		b.WriteString(ind + "goto _normal_return_" + base + ";\n")
		return b.String()
	}

	var valueExpr string
	switch rt := c.currentFunctionReturnType.(type) {
	case *ast.TypeArray:
		valueExpr = c.emitArrayReturnValue(n.Value, rt)
	case *ast.TypeErrorUnion:
		valueExpr = c.emitErrorUnionReturnValue(n.Value, rt)
	default:
		valueExpr = c.emitExpr(n.Value)
	}
	b.WriteString(ind + "_ret = " + valueExpr + ";\n")
	if c.currentReturnIsErrorU {
		fmt.Fprintf(&b, "%sif (_ret.error_id != 0) { goto _error_return_%s; } else { goto _normal_return_%s; }\n", ind, base, base)
	} else {
		b.WriteString(ind + "goto _normal_return_" + base + ";\n")
	}
	return b.String()
}

// emitArrayReturnValue lowers the value of a `return` whose function
// returns a fixed-size array (C99 cannot return an array by value):
// the value is wrapped in the array's `uya_array_T_N` struct, spelled
// as a compound literal assigning its lone `data` member — either an
// array literal's own brace list, or, for an identifier source, the
// identifier itself, matching §4.7 exactly (`return (struct
// uya_array_X) { .data = {...} };` / `{ .data = src };`).
func (c *Context) emitArrayReturnValue(value ast.Expr, arr *ast.TypeArray) string {
	elem := c.lowerType(arr.Elem)
	n := int(c.constOrPlaceholder(arr.Size))
	wrapper := c.ensureArrayWrapper(elem, n)

	switch v := value.(type) {
	case *ast.ArrayLiteral:
		return fmt.Sprintf("(%s){ .data = %s }", wrapper, c.emitArrayLiteral(v))
	case *ast.Ident:
		return fmt.Sprintf("(%s){ .data = %s }", wrapper, c.safe(v.Name))
	default:
		return fmt.Sprintf("(%s){ .data = %s }", wrapper, c.emitExpr(value))
	}
}

// emitErrorUnionReturnValue lowers the value of a `return` whose function
// returns an error union (§4.8): `return error.Name` sets error_id to the
// name's stable hash and leaves value unset; any other expression is a
// success payload, wrapped with error_id = 0.
func (c *Context) emitErrorUnionReturnValue(value ast.Expr, errU *ast.TypeErrorUnion) string {
	payload := "void"
	if errU.Payload != nil {
		payload = c.lowerType(errU.Payload)
	}
	wrapper := c.ensureErrorUnionStruct(payload)

	if lit, ok := value.(*ast.ErrorLit); ok {
		id := c.errorID(lit.Name, lit.Span())
		return fmt.Sprintf("(%s){ .error_id = %d /* error.%s */ }", wrapper, id, lit.Name)
	}
	if payload == "void" {
		return fmt.Sprintf("(%s){ .error_id = 0 }", wrapper)
	}
	return fmt.Sprintf("(%s){ .error_id = 0, .value = %s }", wrapper, c.emitExpr(value))
}

// emitIf lowers if/else-if/else chains directly onto C's own if/else.
func (c *Context) emitIf(n *ast.IfStmt) string {
	ind := c.indent()
	var b strings.Builder
	fmt.Fprintf(&b, "%sif (%s) %s", ind, c.emitExpr(n.Cond), c.emitBraced(n.Then))
	switch e := n.Else.(type) {
	case nil:
		b.WriteString("\n")
	case *ast.IfStmt:
		b.WriteString(" else ")
		b.WriteString(strings.TrimPrefix(c.emitIf(e), c.indent()))
	case *ast.BlockStmt:
		fmt.Fprintf(&b, " else %s\n", c.emitBraced(e))
	}
	return b.String()
}

func (c *Context) emitWhile(n *ast.WhileStmt) string {
	ind := c.indent()
	c.loopStack = append(c.loopStack, loopLabels{})
	defer func() { c.loopStack = c.loopStack[:len(c.loopStack)-1] }()

	var b strings.Builder
	fmt.Fprintf(&b, "%swhile (%s) %s\n", ind, c.emitExpr(n.Cond), c.emitBraced(n.Body))
	return b.String()
}

// emitFor lowers `for item in iterable { ... }` to the canonical
// length/index loop over the iterable's backing storage:
// an array or slice gets indexed directly; ByRef binds item as a
// pointer into the element rather than a copy.
func (c *Context) emitFor(n *ast.ForStmt) string {
	ind := c.indent()
	lenExpr := fmt.Sprintf("(sizeof(%s) / sizeof((%s)[0]))", c.emitExpr(n.Iterable), c.emitExpr(n.Iterable))
	iterTy := c.typeOfExpr(n.Iterable)
	isSlice := false
	if _, ok := iterTy.(*ast.TypeSlice); ok {
		isSlice = true
		lenExpr = fmt.Sprintf("(%s).len", c.emitExpr(n.Iterable))
	}

	idx := c.nextTemp()
	lenVar := c.nextTemp()
	itemName := c.safe(n.ItemName)

	c.loopStack = append(c.loopStack, loopLabels{})
	defer func() { c.loopStack = c.loopStack[:len(c.loopStack)-1] }()

	var elemTy ast.Type
	switch t := iterTy.(type) {
	case *ast.TypeArray:
		elemTy = t.Elem
	case *ast.TypeSlice:
		elemTy = t.Elem
	}
	c.localVariables = append(c.localVariables, localVar{Name: itemName, ASTTy: elemTy, CType: c.lowerType(elemTy)})
	defer func() { c.localVariables = c.localVariables[:len(c.localVariables)-1] }()

	itemAccess := fmt.Sprintf("%s[%s]", c.emitExpr(n.Iterable), idx)
	if isSlice {
		itemAccess = fmt.Sprintf("(%s).ptr[%s]", c.emitExpr(n.Iterable), idx)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s{\n", ind)
	c.indentLevel++
	in := c.indent()
	fmt.Fprintf(&b, "%ssize_t %s = %s;\n", in, lenVar, lenExpr)
	fmt.Fprintf(&b, "%sfor (size_t %s = 0; %s < %s; %s++) {\n", in, idx, idx, lenVar, idx)
	c.indentLevel++
	in2 := c.indent()
	if n.ByRef {
		fmt.Fprintf(&b, "%s%s *%s = &%s;\n", in2, c.lowerType(elemTy), itemName, itemAccess)
	} else {
		fmt.Fprintf(&b, "%s%s %s = %s;\n", in2, c.lowerType(elemTy), itemName, itemAccess)
	}
	for _, s := range n.Body.Stmts {
		b.WriteString(c.emitStmt(s))
	}
	c.indentLevel--
	fmt.Fprintf(&b, "%s}\n", in)
	c.indentLevel--
	fmt.Fprintf(&b, "%s}\n", ind)
	return b.String()
}
