package compile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kaptinlin/jsonschema"

	"github.com/dt-pm-tools/ticket2task/internal/rules"
)

// ErrBadModelOutput is returned when the generative backend's response is
// not parseable as the required JSON shape. The compile call fails; the
// deterministic path is never substituted silently.
var ErrBadModelOutput = errors.New("model output does not match the task schema")

// TaskSchema is the JSON-schema constraint sent to the generative backend
// and re-applied to whatever comes back.
const TaskSchema = `{
	"type": "object",
	"properties": {
		"content": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"due_date": {"type": "string"},
		"labels": {"type": "array", "items": {"type": "string"}},
		"priority": {"type": "integer", "minimum": 1, "maximum": 4}
	},
	"required": ["content", "description"],
	"additionalProperties": false
}`

// Generator is the generative backend boundary: it takes the rendered
// instruction plus the schema constraint and returns the raw JSON the
// model produced.
type Generator interface {
	Generate(ctx context.Context, instruction string, schema json.RawMessage) ([]byte, error)
}

// ExtractGenerative derives a draft Task from the raw ticket XML via the
// generative backend. The backend output is untrusted: it is validated
// against TaskSchema before use. Missing optional fields stay absent so
// Normalize remains the single source of defaulting.
func ExtractGenerative(ctx context.Context, rawXML string, rs rules.RuleSet, gen Generator) (Task, error) {
	instruction, err := rs.Instruction(rawXML)
	if err != nil {
		return Task{}, fmt.Errorf("rendering extraction instruction: %w", err)
	}

	out, err := gen.Generate(ctx, instruction, json.RawMessage(TaskSchema))
	if err != nil {
		return Task{}, fmt.Errorf("calling generative backend: %w", err)
	}

	if err := validateModelOutput(out); err != nil {
		return Task{}, err
	}

	var task Task
	if err := json.Unmarshal(out, &task); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	return task, nil
}

func validateModelOutput(out []byte) error {
	var payload any
	if err := json.Unmarshal(out, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(TaskSchema))
	if err != nil {
		return fmt.Errorf("compiling task schema: %w", err)
	}

	result := schema.Validate(payload)
	if !result.Valid {
		return fmt.Errorf("%w: %v", ErrBadModelOutput, result.Errors)
	}
	return nil
}
