package export

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaFS embed.FS

// Validator checks documents against the embedded schema. A Validator is
// not safe for concurrent use.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{ctx: ctx, schema: schema}, nil
}

// Validate checks doc against the #Document definition.
func (v *Validator) Validate(doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks an encoded document against the #Document
// definition.
func (v *Validator) ValidateJSON(data []byte) error {
	unified, err := v.unify(data)
	if err != nil {
		return err
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Errors returns one message per schema violation in doc, or nil.
func (v *Validator) Errors(doc Document) []string {
	data, err := json.Marshal(doc)
	if err != nil {
		return []string{fmt.Sprintf("marshal error: %v", err)}
	}
	unified, err := v.unify(data)
	if err != nil {
		return []string{err.Error()}
	}
	err = unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	var out []string
	for _, e := range errors.Errors(err) {
		out = append(out, e.Error())
	}
	return out
}

func (v *Validator) unify(data []byte) (cue.Value, error) {
	value := v.ctx.CompileBytes(data, cue.Filename("document.json"))
	if value.Err() != nil {
		return cue.Value{}, fmt.Errorf("compiling document: %w", value.Err())
	}
	def := v.schema.LookupPath(cue.ParsePath("#Document"))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("looking up #Document: %w", def.Err())
	}
	return def.Unify(value), nil
}

// Validate checks doc with a freshly compiled schema.
func Validate(doc Document) error {
	v, err := NewValidator()
	if err != nil {
		return err
	}
	return v.Validate(doc)
}
