package c99

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uya-lang/uyac/internal/ast"
)

// --- S1: struct pointer return, reference parameter, global initializer ---

func TestS1_StructReferenceAndGlobalInit(t *testing.T) {
	point := &ast.StructDecl{
		Name: "Point",
		Fields: []*ast.FieldDecl{
			{Name: "x", Type: i32T()},
			{Name: "y", Type: i32T()},
		},
	}

	origin := &ast.VarDecl{
		Name: "origin",
		Type: namedT("Point"),
		Init: &ast.StructInit{
			TypeName: "Point",
			Fields: []*ast.FieldInit{
				{Name: "x", Value: intLit(0)},
				{Name: "y", Value: intLit(0)},
			},
		},
	}

	getX := &ast.FnDecl{
		Name: "get_x",
		Params: []*ast.Param{
			{Name: "p", Type: &ast.TypePointer{Elem: namedT("Point"), IsFFIPointer: false}},
		},
		ReturnType: i32T(),
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.MemberAccess{Object: ident("p"), Field: "x"}},
		}},
	}

	out, err := Generate(newProgram(point, origin, getX))
	require.NoError(t, err)

	assert.Contains(t, out, "const struct Point * p")
	assert.Contains(t, out, "struct Point origin = { .x = 0, .y = 0 };")
	assert.NotContains(t, out, "(struct Point)origin")
	assert.Contains(t, out, "(p->x)")
}

// --- S2: array-returning function ---

func TestS2_ArrayReturningFunction(t *testing.T) {
	fn := &ast.FnDecl{
		Name:       "make_arr",
		ReturnType: &ast.TypeArray{Elem: i32T(), Size: intLit(3)},
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.ArrayLiteral{Elems: []ast.Expr{intLit(1), intLit(2), intLit(3)}}},
		}},
	}

	out, err := Generate(newProgram(fn))
	require.NoError(t, err)

	assert.Contains(t, out, "struct uya_array_int32_t_3 {")
	assert.Contains(t, out, "struct uya_array_int32_t_3 make_arr(void)")
	assert.Contains(t, out, "(struct uya_array_int32_t_3){ .data = { 1, 2, 3 } }")
}

// --- S3: error union with defer/errdefer ---

func TestS3_ErrorUnionDeferErrdefer(t *testing.T) {
	fn := &ast.FnDecl{
		Name:       "risky",
		ReturnType: &ast.TypeErrorUnion{Payload: i32T()},
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.DeferStmt{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				&ast.ExprStmt{X: &ast.CallExpr{Callee: ident("cleanup")}},
			}}},
			&ast.ErrDeferStmt{Body: &ast.BlockStmt{Stmts: []ast.Stmt{
				&ast.ExprStmt{X: &ast.CallExpr{Callee: ident("rollback")}},
			}}},
			&ast.ReturnStmt{Value: &ast.ErrorLit{Name: "Oops"}},
		}},
	}

	out, err := Generate(newProgram(fn))
	require.NoError(t, err)

	assert.Contains(t, out, "struct err_union_int32_t {")
	assert.Contains(t, out, "uint32_t error_id;")
	assert.Contains(t, out, "_error_return_risky:")
	assert.Contains(t, out, "_normal_return_risky:")
	assert.Contains(t, out, "_ret = (struct err_union_int32_t){ .error_id =")
	assert.Contains(t, out, "/* error.Oops */")

	errIdx := indexOf(out, "_error_return_risky:")
	rollbackIdx := indexOf(out, "rollback()")
	cleanupIdx := indexOf(out, "cleanup()")
	normalIdx := indexOf(out, "_normal_return_risky:")
	require.NotEqual(t, -1, errIdx)
	require.NotEqual(t, -1, rollbackIdx)
	require.NotEqual(t, -1, cleanupIdx)
	require.NotEqual(t, -1, normalIdx)
	// errdefer body replays before the plain defer body, both inside the
	// error epilogue, which appears before the normal epilogue.
	assert.True(t, errIdx < rollbackIdx)
	assert.True(t, rollbackIdx < cleanupIdx)
	assert.True(t, cleanupIdx < normalIdx)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// --- S4: generic monomorphisation ---

func TestS4_GenericMonomorphisation(t *testing.T) {
	pair := &ast.StructDecl{
		Name:       "Pair",
		TypeParams: []string{"A", "B"},
		Fields: []*ast.FieldDecl{
			{Name: "first", Type: namedT("A")},
			{Name: "second", Type: namedT("B")},
		},
	}
	box := &ast.StructDecl{
		Name: "Box",
		Fields: []*ast.FieldDecl{
			{Name: "inner", Type: &ast.TypeNamed{Name: "Pair", TypeArgs: []ast.Type{i32T(), i32T()}}},
		},
	}

	out, err := Generate(newProgram(pair, box))
	require.NoError(t, err)

	assert.Contains(t, out, "struct Pair_i32_i32 {")
	assert.Contains(t, out, "struct Box {")
	assert.Contains(t, out, "int32_t first;", "type parameter A must substitute to the i32 type argument")
	assert.Contains(t, out, "int32_t second;", "type parameter B must substitute to the i32 type argument")

	pairIdx := indexOf(out, "struct Pair_i32_i32 {")
	boxFieldIdx := indexOf(out, "struct Box {")
	require.NotEqual(t, -1, pairIdx)
	require.NotEqual(t, -1, boxFieldIdx)
	assert.True(t, pairIdx < boxFieldIdx, "nested generic instantiation must be emitted before its dependent struct")
}

// --- S5: interface dispatch ---

func TestS5_InterfaceDispatch(t *testing.T) {
	shape := &ast.InterfaceDecl{
		Name: "Shape",
		Methods: []*ast.MethodSig{
			{Name: "area", ReturnType: namedT("f64")},
		},
	}
	circle := &ast.StructDecl{
		Name:   "Circle",
		Fields: []*ast.FieldDecl{{Name: "radius", Type: namedT("f64")}},
	}
	impl := &ast.MethodBlock{
		StructName:    "Circle",
		InterfaceName: "Shape",
		Methods: []*ast.FnDecl{
			{
				Name:       "area",
				Self:       ast.SelfReference,
				ReturnType: namedT("f64"),
				Body: &ast.BlockStmt{Stmts: []ast.Stmt{
					&ast.ReturnStmt{Value: &ast.MemberAccess{Object: ident("self"), Field: "radius"}},
				}},
			},
		},
	}

	out, err := Generate(newProgram(shape, circle, impl))
	require.NoError(t, err)

	assert.Contains(t, out, "struct uya_vtable_Shape {")
	assert.Contains(t, out, "struct uya_interface_Shape {\n  void *vtable;\n  void *data;\n};")
	assert.Contains(t, out, "double (*area)(void *self)")
	assert.Contains(t, out, "static const struct uya_vtable_Shape uya_vtable_Shape_Circle = {")
	assert.Contains(t, out, ".area = (double (*)(void *self))&uya_Circle_area")
	assert.Contains(t, out, "double uya_Circle_area(const struct Circle *self)")
}

// --- S6: hash collision diagnostic ---

func TestS6_ErrorNameHashCollision(t *testing.T) {
	c := NewContext(newProgram())

	// "Ad" and "BC" are a genuine djb2 collision: with h0 = 5381,
	// h("Ad") = h0*33^2 + 'A'*33 + 'd' = h0*33^2 + 2245, and
	// h("BC")  = h0*33^2 + 'B'*33 + 'C' = h0*33^2 + 2245, the same value.
	first, second := "Ad", "BC"
	require.Equal(t, djb2(first), djb2(second))

	c.errorID(first, sp)
	c.errorID(second, sp)

	diags := c.Diagnostics()
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Message != "" && containsBoth(d.Message, first, second) {
			found = true
		}
	}
	assert.True(t, found, "collision diagnostic should name both colliding error identifiers")
}

func containsBoth(msg, a, b string) bool {
	return indexOf(msg, a) != -1 && indexOf(msg, b) != -1
}
