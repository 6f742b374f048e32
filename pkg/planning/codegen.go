package planning

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// CodeGenRequest carries a validated plan plus the tool and type schemas
// the generated code must respect.
type CodeGenRequest struct {
	Plan Plan

	// Tools maps tool name to its metadata; the generator looks up exact
	// parameter names here.
	Tools map[string]*semantic.ToolInfo

	TypeSchemas map[string]map[string]any
}

// CodeGenOracle turns a plan into a Go script body: a func run() that
// invokes the plan's tools in step order, expands "[*]" paths into loops,
// and returns the final output variable.
type CodeGenOracle interface {
	GenerateCode(ctx context.Context, req *CodeGenRequest) (string, error)
}

// CodeGenSyntaxError reports oracle output that does not parse as Go. Raw
// retains the full post-processed output for diagnostics.
type CodeGenSyntaxError struct {
	Raw string
	Err error
}

func (e *CodeGenSyntaxError) Error() string {
	return fmt.Sprintf("generated code is not valid Go: %v", e.Err)
}

func (e *CodeGenSyntaxError) Unwrap() error { return e.Err }

// CodeGenerator wraps a codegen oracle with output post-processing and a
// syntax gate.
type CodeGenerator struct {
	oracle CodeGenOracle
	logger *slog.Logger
}

func NewCodeGenerator(oracle CodeGenOracle, logger *slog.Logger) *CodeGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &CodeGenerator{oracle: oracle, logger: logger}
}

// Generate produces the code artifact for a plan. Markdown fences are
// stripped before the syntax check so a cooperative-but-chatty oracle still
// yields usable code.
func (g *CodeGenerator) Generate(ctx context.Context, req *CodeGenRequest) (string, error) {
	raw, err := g.oracle.GenerateCode(ctx, req)
	if err != nil {
		return "", fmt.Errorf("code generation: %w", err)
	}

	code := StripCodeFences(raw)
	if err := CheckSyntax(code); err != nil {
		g.logger.Warn("rejected generated code", "error", err)
		return "", &CodeGenSyntaxError{Raw: code, Err: err}
	}

	g.logger.Debug("generated code", "bytes", len(code))
	return code, nil
}

var fencePattern = regexp.MustCompile("(?is)```(?:go)?\\s*(.*?)```")

// StripCodeFences removes a surrounding markdown fence, keeping only the
// fenced body when one is present.
func StripCodeFences(code string) string {
	code = strings.TrimSpace(code)
	if m := fencePattern.FindStringSubmatch(code); m != nil {
		code = strings.TrimSpace(m[1])
	}
	return code
}

// CheckSyntax verifies the artifact parses as the body of a Go file. The
// artifact carries declarations only (imports plus func run), so it is
// parsed under a synthetic package clause.
func CheckSyntax(code string) error {
	src := "package main\n\n" + code
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "generated.go", src, parser.SkipObjectResolution)
	return err
}
