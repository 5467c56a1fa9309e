// Package c99 lowers an elaborated uya AST (github.com/uya-lang/uyac/internal/ast)
// to portable C99 source.
//
// The emitter is organized around one Context struct carrying all
// mutable generation state, a dispatch function per AST node category
// split across files by concern (types.go, aggregates.go+vtables.go,
// function.go, expr*.go, stmt.go, globals.go), and a single Generate
// entry point (generator.go, driving orchestrator.go's phases) that
// assembles the final file in a fixed emission order.
//
// C is itself an expression language, so emitExpr returns the C source
// text for an expression directly: no register allocator, no basic
// blocks, no SSA linearization.
package c99

import (
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/uya-lang/uyac/internal/arena"
	"github.com/uya-lang/uyac/internal/ast"
	"github.com/uya-lang/uyac/internal/diag"
)

// defState tracks a struct or enum's forward-declaration / definition
// state.
type defState struct {
	Declared bool
	Defined  bool
}

// localVar records one in-scope local:
// its C-safe name, its lowered C type spelling, and (when known) its uya
// AST type, which member-access and indexing rules consult to decide
// `.` vs `->` and array-vs-pointer indexing.
type localVar struct {
	Name           string
	CType          string
	ASTTy          ast.Type
	IsPtr          bool // true when CType is a pointer-to-something the emitter introduced (params, &x)
	ArrayN         int  // > 0 when this local's type is a fixed-size C array [N]
	DeclaredInBody bool // true for a VarDecl statement local, false for params/self
}

// loopLabels is one entry of the loop stack, used by
// break/continue to target the right C labels.
type loopLabels struct {
	CondLabel string
	EndLabel  string
	IncrLabel string
}

// genericTemplate is a registered generic struct/union/enum awaiting
// monomorphisation.
type genericTemplate struct {
	Struct *ast.StructDecl
	Union  *ast.UnionDecl
}

// Context is the generator context: process-wide-per-TU
// mutable state, initialised at the start of Generate and torn down at
// the end. It is never shared across goroutines.
type Context struct {
	Program *ast.Program

	arena *arena.Arena
	diags *diag.Bag

	EmitLineDirectives bool

	// Fixed-order output buffers assembled into one file by
	// assembleOutput (string pool → enums → forward declarations →
	// struct/union/wrapper definitions → interface types → prototypes →
	// vtable constants → globals → bodies).
	stringPoolBuf  strings.Builder
	enumBuf        strings.Builder
	forwardBuf     strings.Builder
	structDefBuf   strings.Builder
	interfaceBuf   strings.Builder
	prototypeBuf   strings.Builder
	vtableBuf      strings.Builder
	globalBuf      strings.Builder
	bodyBuf        strings.Builder

	indentLevel int

	// Per-function context, pushed/popped across function emission
	//.
	currentFunctionReturnType ast.Type
	currentFunctionDecl       *ast.FnDecl
	currentMethodStructName   string
	currentTypeParams         []string
	currentTypeArgs           []ast.Type

	localVariables []localVar

	structDefs map[string]*defState
	enumDefs   map[string]*defState
	unionDefs  map[string]*defState

	structDecls    map[string]*ast.StructDecl
	unionDecls     map[string]*ast.UnionDecl
	enumDecls      map[string]*ast.EnumDecl
	interfaceDecls map[string]*ast.InterfaceDecl

	// methodBlocks maps a struct name to every MethodBlock naming it,
	// inherent and interface alike.
	methodBlocks map[string][]*ast.MethodBlock
	// implementers maps an interface name to the struct names that
	// implement it, in the order their MethodBlock was declared.
	implementers map[string][]string

	globalVars    []*ast.VarDecl
	freeFunctions []*ast.FnDecl

	structOrder    []string
	enumOrder      []string
	unionOrder     []string
	interfaceOrder []string

	stringConstants     map[string]string // literal text -> "strN"
	stringConstantOrder []string

	sliceEmitted        map[string]bool // element C type -> emitted
	errorUnionEmitted   map[string]bool // payload C type -> emitted
	arrayWrapperEmitted map[string]bool // "T_N" -> emitted
	monoEmitted         map[string]bool // mangled generic name -> emitted
	interfaceTypeEmitted map[string]bool

	errorNames    map[string]uint32 // name -> id
	errorIDsSeen  map[uint32]string // id -> first name that produced it

	loopStack     []loopLabels
	deferStack    []*ast.BlockStmt
	errdeferStack []*ast.BlockStmt

	currentLine     int
	currentFilename string

	// per-function return/epilogue bookkeeping.
	currentEpilogueBase      string
	currentReturnIsErrorU    bool
	currentHasRetVar         bool

	tempCounter  int
	labelCounter int

	// capacity bounds, set by NewContext. No emission path reads them:
	// the local table and loop stack grow without a limit.
	maxLocalVariables int
	maxLoopDepth      int
}

// NewContext creates a ready-to-use generator context for program.
func NewContext(program *ast.Program) *Context {
	return &Context{
		Program:             program,
		arena:                arena.New(),
		diags:                &diag.Bag{},
		EmitLineDirectives:   true,
		structDefs:           make(map[string]*defState),
		enumDefs:             make(map[string]*defState),
		unionDefs:            make(map[string]*defState),
		structDecls:          make(map[string]*ast.StructDecl),
		unionDecls:           make(map[string]*ast.UnionDecl),
		enumDecls:            make(map[string]*ast.EnumDecl),
		interfaceDecls:       make(map[string]*ast.InterfaceDecl),
		methodBlocks:         make(map[string][]*ast.MethodBlock),
		implementers:         make(map[string][]string),
		stringConstants:      make(map[string]string),
		sliceEmitted:         make(map[string]bool),
		errorUnionEmitted:    make(map[string]bool),
		arrayWrapperEmitted:  make(map[string]bool),
		monoEmitted:          make(map[string]bool),
		interfaceTypeEmitted: make(map[string]bool),
		errorNames:           make(map[string]uint32),
		errorIDsSeen:         make(map[uint32]string),
		currentLine:          0,
		maxLocalVariables:    4096,
		maxLoopDepth:         256,
	}
}

// Diagnostics returns every diagnostic accumulated during generation.
func (c *Context) Diagnostics() []diag.Diagnostic { return c.diags.Entries() }

func (c *Context) addErrorDiag(code diag.Code, span ast.Span, msg string, suggestion string) {
	c.diags.Add(diag.Diagnostic{
		Stage:      diag.StageCodegen,
		Severity:   diag.SeverityError,
		Code:       code,
		Message:    msg,
		Suggestion: suggestion,
		Span:       diag.Span{Filename: span.Filename, Line: span.Line, Column: span.Column},
	})
}

func (c *Context) addWarningDiag(code diag.Code, span ast.Span, msg string) {
	c.diags.Add(diag.Diagnostic{
		Stage:    diag.StageCodegen,
		Severity: diag.SeverityWarning,
		Code:     code,
		Message:  msg,
		Span:     diag.Span{Filename: span.Filename, Line: span.Line, Column: span.Column},
	})
}

// nextTemp returns a fresh compiler-generated local name (`_uya_tN`), used
// for compound-literal temporaries and similar.
func (c *Context) nextTemp() string {
	n := fmt.Sprintf("_uya_t%d", c.tempCounter)
	c.tempCounter++
	return n
}

// nextLabel returns a fresh compiler-generated C label suffix.
func (c *Context) nextLabel(prefix string) string {
	n := fmt.Sprintf("%s%d", prefix, c.labelCounter)
	c.labelCounter++
	return n
}

func (c *Context) indent() string { return strings.Repeat("  ", c.indentLevel) }

// Generate lowers program to C99 source. It implements the §6.3 CLI
// contract's core: a pure function from AST to (output, error); the
// thin os.Exit-code mapping lives in cmd/uyac.
func Generate(program *ast.Program) (string, error) {
	c := NewContext(program)
	return c.generate()
}

func (c *Context) generate() (string, error) {
	if c.Program == nil {
		return "", fmt.Errorf("generate: nil program root")
	}
	glog.V(1).Infof("c99: starting generation of %d top-level declarations", len(c.Program.Decls))

	if err := c.runOrchestration(); err != nil {
		return "", err
	}

	if c.diags.HasErrors() {
		f := diag.NewFormatter()
		f.FormatAll(c.diags)
		return "", fmt.Errorf("c99: generation failed with %d diagnostic(s)", len(c.diags.Entries()))
	}

	return c.assembleOutput(), nil
}

func (c *Context) assembleOutput() string {
	var out strings.Builder
	out.WriteString(preamble)
	parts := []*strings.Builder{
		&c.stringPoolBuf,
		&c.enumBuf,
		&c.forwardBuf,
		&c.structDefBuf,
		&c.interfaceBuf,
		&c.prototypeBuf,
		&c.vtableBuf,
		&c.globalBuf,
		&c.bodyBuf,
	}
	for _, p := range parts {
		s := p.String()
		if strings.TrimSpace(s) == "" {
			continue
		}
		out.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			out.WriteString("\n")
		}
	}
	return out.String()
}
