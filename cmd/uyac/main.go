// Command uyac drives the C99 lowering engine from the command line.
// Its real contract is the pure `Generate(program) (string, error)`
// function internal/codegen/c99 exports; this binary is the thin
// exit-code/diagnostic-formatting shim around it, grounded in the
// teacher's own cmd/malphas driver.
//
// Parsing and semantic analysis are external, upstream collaborators
// this repository does not implement, so there is no
// on-disk uya source this binary can read directly. Its `--demo` mode
// instead builds a small representative *ast.Program in memory and runs
// it through the generator, which is enough to exercise and smoke-test
// the full pipeline end to end without inventing a wire format for an
// upstream stage that is out of scope.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/codegen/c99"
)

func main() {
	out := flag.String("out", "", "output path for generated C99 source (default: stdout)")
	demo := flag.Bool("demo", false, "generate the built-in demonstration program instead of reading input")
	diffAgainst := flag.String("emit-diff-against", "", "developer aid: diff generated output against this file instead of writing it")
	flag.Parse()

	if !*demo {
		fmt.Fprintln(os.Stderr, "uyac: no upstream AST source is available; pass -demo to run the built-in sample program")
		os.Exit(2)
	}

	program := demoProgram()

	glog.V(1).Infof("uyac: generating from %d top-level declarations", len(program.Decls))
	output, err := c99.Generate(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *diffAgainst != "" {
		existing, readErr := os.ReadFile(*diffAgainst)
		if readErr != nil {
			fmt.Fprintln(os.Stderr, readErr)
			os.Exit(1)
		}
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(string(existing), output, false)
		fmt.Println(dmp.DiffPrettyText(diffs))
		return
	}

	if *out == "" {
		fmt.Print(output)
		return
	}
	if err := os.WriteFile(*out, []byte(output), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// demoProgram builds a minimal program exercising a struct, a free
// function taking a struct parameter, and a `main` entry point. It has
// no enums, unions, interfaces or globals, so those phases emit nothing.
func demoProgram() *ast.Program {
	span := ast.Span{Filename: "demo.uya", Line: 1, Column: 1}
	prog := ast.NewProgram(span)

	point := &ast.StructDecl{
		Name: "Point",
		Fields: []*ast.FieldDecl{
			{Name: "x", Type: &ast.TypeNamed{Name: "i32"}},
			{Name: "y", Type: &ast.TypeNamed{Name: "i32"}},
		},
	}

	sum := &ast.FnDecl{
		Name: "sum",
		Params: []*ast.Param{
			{Name: "p", Type: &ast.TypeNamed{Name: "Point"}},
		},
		ReturnType: &ast.TypeNamed{Name: "i32"},
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.Binary{
				Op:   "+",
				Left: &ast.MemberAccess{Object: &ast.Ident{Name: "p"}, Field: "x"},
				Right: &ast.MemberAccess{Object: &ast.Ident{Name: "p"}, Field: "y"},
			}},
		}},
	}

	mainFn := &ast.FnDecl{
		Name:       "main",
		ReturnType: &ast.TypeNamed{Name: "i32"},
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.VarDecl{
				Name: "p",
				Type: &ast.TypeNamed{Name: "Point"},
				Init: &ast.StructInit{
					TypeName: "Point",
					Fields: []*ast.FieldInit{
						{Name: "x", Value: &ast.IntLit{Text: "1", Value: 1}},
						{Name: "y", Value: &ast.IntLit{Text: "2", Value: 2}},
					},
				},
			},
			&ast.ReturnStmt{Value: &ast.CallExpr{
				Callee: &ast.Ident{Name: "sum"},
				Args:   []ast.Expr{&ast.Ident{Name: "p"}},
			}},
		}},
	}

	prog.Decls = append(prog.Decls, point, sum, mainFn)
	return prog
}
