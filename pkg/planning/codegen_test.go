package planning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validArtifact = `func run() any {
	terminals := getTerminalsByCity("Sydney")
	var events []any
	for _, t := range terminals {
		events = append(events, getEventsByFacility(t, "2025-07-20", "2025-07-20", "gate_out")...)
	}
	return events
}`

type stubCodeGen struct {
	code string
	err  error
}

func (s *stubCodeGen) GenerateCode(_ context.Context, _ *CodeGenRequest) (string, error) {
	return s.code, s.err
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no_fence", in: "func run() {}", want: "func run() {}"},
		{name: "go_fence", in: "```go\nfunc run() {}\n```", want: "func run() {}"},
		{name: "bare_fence", in: "```\nfunc run() {}\n```", want: "func run() {}"},
		{name: "upper_fence", in: "```Go\nfunc run() {}\n```", want: "func run() {}"},
		{name: "surrounding_chatter", in: "Here is the code:\n```go\nfunc run() {}\n```\nHope this helps!", want: "func run() {}"},
		{name: "whitespace", in: "  \nfunc run() {}\n ", want: "func run() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestCheckSyntax(t *testing.T) {
	require.NoError(t, CheckSyntax(validArtifact))
	assert.Error(t, CheckSyntax("func run( {"))
	assert.Error(t, CheckSyntax("this is prose, not code"))
}

func TestCodeGeneratorStripsAndGates(t *testing.T) {
	gen := NewCodeGenerator(&stubCodeGen{code: "```go\n" + validArtifact + "\n```"}, nil)

	code, err := gen.Generate(context.Background(), &CodeGenRequest{})
	require.NoError(t, err)
	assert.Equal(t, validArtifact, code)
}

func TestCodeGeneratorSyntaxError(t *testing.T) {
	gen := NewCodeGenerator(&stubCodeGen{code: "func run( {"}, nil)

	_, err := gen.Generate(context.Background(), &CodeGenRequest{})
	var cge *CodeGenSyntaxError
	require.ErrorAs(t, err, &cge)
	assert.Equal(t, "func run( {", cge.Raw)
	assert.Error(t, cge.Unwrap())
}

func TestCodeGeneratorOracleError(t *testing.T) {
	gen := NewCodeGenerator(&stubCodeGen{err: assert.AnError}, nil)

	_, err := gen.Generate(context.Background(), &CodeGenRequest{})
	require.ErrorIs(t, err, assert.AnError)
}
