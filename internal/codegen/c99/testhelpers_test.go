package c99

import "github.com/uya-lang/uyac/internal/ast"

// sp is a throwaway span for hand-built test fixtures; none of these
// tests exercise #line suppression against a real file, so the zero
// span (or a small fixed one where a test needs a line number) is
// enough.
var sp = ast.Span{Filename: "t.uya", Line: 1, Column: 1}

func namedT(name string) *ast.TypeNamed { return &ast.TypeNamed{Name: name} }

func i32T() *ast.TypeNamed { return namedT("i32") }

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func intLit(v int64) *ast.IntLit {
	return &ast.IntLit{Text: itoa(v), Value: v}
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func newProgram(decls ...ast.Decl) *ast.Program {
	p := ast.NewProgram(sp)
	p.Decls = append(p.Decls, decls...)
	return p
}
