package analysis

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed analysis.schema.json
var schemaJSON string

// Issue is one deviation of a model reply from the expected shape.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return schema, schemaErr
}

// CheckShape compares decoded fields against the analysis JSON schema and
// lists every deviation, including missing contract keys. It is advisory:
// Coerce accepts any shape, so callers only log the result.
func CheckShape(f Fields) []Issue {
	var issues []Issue
	for _, key := range ContractKeys {
		if _, ok := f[key]; !ok {
			issues = append(issues, Issue{Field: key, Message: "missing"})
		}
	}

	s, err := compiledSchema()
	if err != nil {
		return append(issues, Issue{Field: "(schema)", Message: err.Error()})
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(map[string]any(f)))
	if err != nil {
		return append(issues, Issue{Field: "(root)", Message: fmt.Sprintf("validate: %v", err)})
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		issues = append(issues, Issue{Field: field, Message: desc.Description()})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues
}
