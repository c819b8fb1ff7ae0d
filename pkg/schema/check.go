package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/submit"
)

// Issue is one payload property that does not satisfy the schema.
type Issue struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// Check validates encoded pairs against the form's payload schema and lists
// every violation. A nil result means the payload conforms.
func Check(form model.Form, pairs []submit.Pair) ([]Issue, error) {
	payload, err := Payload(form)
	if err != nil {
		return nil, err
	}
	body := make(map[string]any, len(pairs))
	for _, p := range pairs {
		body[p.Name] = p.Value
	}

	err = payload.VisitJSON(body, openapi3.MultiErrors())
	if err == nil {
		return nil, nil
	}
	var issues []Issue
	collectIssues(err, &issues)
	if len(issues) == 0 {
		return nil, fmt.Errorf("schema: check payload: %w", err)
	}
	return issues, nil
}

func collectIssues(err error, out *[]Issue) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi {
			collectIssues(e, out)
		}
		return
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		*out = append(*out, Issue{
			Field:  strings.Join(schemaErr.JSONPointer(), "."),
			Reason: schemaErr.Reason,
		})
	}
}
