package c99

import (
	"fmt"

	"github.com/uya-lang/uyac/internal/ast"
)

// runOrchestration drives the whole lowering pipeline in a fixed phase
// order. Each phase either appends to one of Context's output buffers
// directly or populates a registry a later phase consumes; nothing here
// loops back to an earlier phase. The generated file's section order is
// fixed by assembleOutput, not by this call sequence: the string pool,
// filled last, is written first, and enums precede forward declarations.
func (c *Context) runOrchestration() error {
	if err := c.checkInputInvariants(); err != nil {
		return err
	}

	c.registerDecls()
	c.collectStringConstants()

	c.emitForwardDecls()
	c.emitEnums()
	c.emitStructs()
	c.emitUnions()
	c.emitInterfaceTypes()

	c.emitPrototypes()
	c.emitVTableConstants()
	c.emitGlobals()

	c.emitFunctionBodies()
	c.emitSynthesizedDrops()

	c.emitStringPool()

	return nil
}

// checkInputInvariants validates the upstream contract this package
// relies on: a non-nil root and no two top-level declarations claiming
// the same name. A violation here is an input-invariant failure, not an
// ordinary diagnostic, because it means the AST itself is malformed
// rather than merely containing an unsupported construct.
func (c *Context) checkInputInvariants() error {
	if c.Program == nil {
		return fmt.Errorf("c99: nil program root")
	}

	seen := make(map[string]bool)
	for _, d := range c.Program.Decls {
		name := namedDeclName(d)
		if name == "" {
			continue
		}
		if seen[name] {
			return fmt.Errorf("c99: duplicate top-level declaration name %q", name)
		}
		seen[name] = true
	}
	return nil
}

func namedDeclName(d ast.Decl) string {
	switch n := d.(type) {
	case *ast.FnDecl:
		return n.Name
	case *ast.StructDecl:
		return n.Name
	case *ast.EnumDecl:
		return n.Name
	case *ast.UnionDecl:
		return n.Name
	case *ast.InterfaceDecl:
		return n.Name
	case *ast.VarDecl:
		return n.Name
	default:
		return ""
	}
}
