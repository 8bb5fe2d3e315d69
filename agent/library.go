package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Library resolves a function call of a model.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is something a model can call.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary dispatches calls to functions by name.
func NewLibrary(functions ...Function) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return failure(call.ID, call.Name, fmt.Errorf("unknown function %s", call.Name))
	}
}

func declarations(functions ...Function) []*genai.FunctionDeclaration {
	res := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		res = append(res, f.Declaration())
	}
	return res
}

// Report is a read-only markdown view of the portfolio.
type Report struct {
	Name        string
	Description string
	Render      func(context.Context) (string, error)
}

func (r Report) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        r.Name,
		Description: r.Description,
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown report.",
		},
	}
}

func (r Report) Call(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
	md, err := r.Render(ctx)
	if err != nil {
		return failure(id, r.Name, err)
	}
	return success(id, r.Name, md)
}

func success(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": output}}
}

func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
}
