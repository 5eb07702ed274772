package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/store.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("store.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("store.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// checkSchema validates raw store JSON against the embedded store schema.
// Every failure is an ErrCorruptManifest; schema violations are listed one
// per offending location, e.g. "/cube/dirs/0: length must be >= 1".
func checkSchema(data []byte) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptManifest, err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrCorruptManifest, err)
	}

	var v violations
	v.collect(ve)
	if len(v.lines) == 0 {
		return corruptf("%s", ve.Error())
	}
	return corruptf("%s", strings.Join(v.lines, "; "))
}

// violations accumulates the distinct leaf messages of a validation error
// tree in the order the validator reports them.
type violations struct {
	seen  map[string]bool
	lines []string
}

func (v *violations) collect(ve *jsonschema.ValidationError) {
	for _, cause := range ve.Causes {
		v.collect(cause)
	}
	if len(ve.Causes) > 0 || ve.ErrorKind == nil {
		return
	}
	// $ref and allOf only restate the errors beneath them.
	switch kw := ve.ErrorKind.KeywordPath(); {
	case len(kw) == 0, kw[len(kw)-1] == "$ref", kw[len(kw)-1] == "allOf":
		return
	}

	line := ve.ErrorKind.LocalizedString(printer)
	if len(ve.InstanceLocation) > 0 {
		line = "/" + strings.Join(ve.InstanceLocation, "/") + ": " + line
	}
	if v.seen[line] {
		return
	}
	if v.seen == nil {
		v.seen = make(map[string]bool)
	}
	v.seen[line] = true
	v.lines = append(v.lines, line)
}
