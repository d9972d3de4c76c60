package repository

import (
	"bytes"
	"dyslexiatutor/internal/model"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemasOnce sync.Once
	schemas     map[model.Mode]*jsonschema.Schema
	schemasErr  error
)

// questionSchema returns the compiled record schema for a mode.
func questionSchema(mode model.Mode) (*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		schemas, schemasErr = compileSchemas()
	})
	if schemasErr != nil {
		return nil, schemasErr
	}
	sch, ok := schemas[mode]
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	return sch, nil
}

func compileSchemas() (map[model.Mode]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	out := make(map[model.Mode]*jsonschema.Schema, len(model.Modes))

	for _, mode := range model.Modes {
		name := fmt.Sprintf("schemas/mode%s.json", mode)
		data, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		url := "schema://question/" + name
		if err := c.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
		sch, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", name, err)
		}
		out[mode] = sch
	}
	return out, nil
}

// validateSchema checks one record against its mode's schema. Records are
// validated in their wire form, so omitted fields count as missing.
func validateSchema(mode model.Mode, q model.Question) error {
	sch, err := questionSchema(mode)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}
