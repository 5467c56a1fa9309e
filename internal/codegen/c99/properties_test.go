package c99

import (
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uya-lang/uyac/internal/ast"
)

// buildSampleProgram assembles a moderately rich program exercising
// a struct, a free function and repeated string literals, reused by
// the determinism and string-pool tests below.
func buildSampleProgram() *ast.Program {
	point := &ast.StructDecl{
		Name: "Point",
		Fields: []*ast.FieldDecl{
			{Name: "x", Type: i32T()},
			{Name: "y", Type: i32T()},
		},
	}
	greet := &ast.FnDecl{
		Name: "greet",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.CallExpr{
				Callee: ident("printf"),
				Args:   []ast.Expr{&ast.StringLit{Value: "hello"}},
			}},
			&ast.ExprStmt{X: &ast.CallExpr{
				Callee: ident("printf"),
				Args:   []ast.Expr{&ast.StringLit{Value: "hello"}},
			}},
			&ast.ReturnStmt{},
		}},
	}
	return newProgram(point, greet)
}

func TestDeterminism_SameASTProducesByteIdenticalOutput(t *testing.T) {
	out1, err1 := Generate(buildSampleProgram())
	require.NoError(t, err1)
	out2, err2 := Generate(buildSampleProgram())
	require.NoError(t, err2)

	if out1 != out2 {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(out1, out2, false)
		t.Fatalf("generation is not deterministic, diff:\n%s", dmp.DiffPrettyText(diffs))
	}
}

func TestStringPool_DeduplicatesEqualLiterals(t *testing.T) {
	out, err := Generate(buildSampleProgram())
	require.NoError(t, err)

	assert.Contains(t, out, `static const char str0[] = "hello";`)
	assert.NotContains(t, out, "str1[]", "a second, equal literal must reuse str0 rather than allocate a new pool slot")
}

func TestSafe_AvoidsCReservedWords(t *testing.T) {
	c := NewContext(newProgram())

	assert.Equal(t, "uya_for", c.safe("for"))
	assert.Equal(t, "uya_struct", c.safe("struct"))
	assert.Equal(t, "uya_int", c.safe("int"))
	assert.Equal(t, "widget", c.safe("widget"))
}

func TestMainRenamedToUyaMain(t *testing.T) {
	mainFn := &ast.FnDecl{
		Name: "main",
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
	}

	out, err := Generate(newProgram(mainFn))
	require.NoError(t, err)

	assert.Contains(t, out, "uya_main(void)")
	assert.NotRegexp(t, `(?m)^void main\(`, out)
}

func TestLineDirective_SuppressedOnConsecutiveLines(t *testing.T) {
	c := NewContext(newProgram())
	var sb strings.Builder
	c.emitLine(&sb, ast.Span{Filename: "a.uya", Line: 10, Column: 1})
	c.emitLine(&sb, ast.Span{Filename: "a.uya", Line: 11, Column: 1})
	out := sb.String()

	assert.Equal(t, 1, strCount(out, "#line"), "a directly-following line number should not re-emit #line")
}

func TestLineDirective_ReEmittedOnFileChangeOrGap(t *testing.T) {
	c := NewContext(newProgram())
	var sb strings.Builder
	c.emitLine(&sb, ast.Span{Filename: "a.uya", Line: 10, Column: 1})
	c.emitLine(&sb, ast.Span{Filename: "a.uya", Line: 50, Column: 1})
	c.emitLine(&sb, ast.Span{Filename: "b.uya", Line: 51, Column: 1})
	out := sb.String()

	assert.Equal(t, 3, strCount(out, "#line"))
}

func strCount(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}
