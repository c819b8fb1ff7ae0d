// Package schema describes the payload a form posts as an OpenAPI 3 schema,
// so the receiving endpoint's contract can be published and checked.
package schema

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/rules"
)

const (
	// MultipartFormData is the media type the form posts.
	MultipartFormData = "multipart/form-data"

	extMinimum = "x-minimum"
	extMaximum = "x-maximum"
	extSource  = "x-source"
	extWhen    = "x-when"
	extKind    = "x-kind"
)

var ErrNoPayload = errors.New("schema: form has no payload fields")

// Payload builds the object schema of the submitted body. Every property is a
// string, mirroring multipart encoding; numeric bounds travel as x-minimum and
// x-maximum extensions.
func Payload(form model.Form) (*openapi3.Schema, error) {
	if len(form.Payload) == 0 {
		return nil, ErrNoPayload
	}
	root := openapi3.NewObjectSchema()
	root.Title = form.Title
	for _, p := range form.Payload {
		prop, required, err := property(form, p)
		if err != nil {
			return nil, err
		}
		root.WithProperty(p.Name, prop)
		if required {
			root.Required = append(root.Required, p.Name)
		}
	}
	return root, nil
}

func property(form model.Form, p model.PayloadField) (*openapi3.Schema, bool, error) {
	if p.Source == model.SourceSubmittedAt {
		return openapi3.NewDateTimeSchema(), true, nil
	}
	field, ok := form.Field(p.Source)
	if !ok {
		return nil, false, fmt.Errorf("schema: payload %q: unknown source field %q", p.Name, p.Source)
	}

	prop := openapi3.NewStringSchema()
	prop.Description = field.Label
	prop.Extensions = map[string]any{extSource: field.Name}

	var rule rules.Rule
	if field.Rule != nil {
		rule = *field.Rule
	}
	required := rule.Required && strings.TrimSpace(rule.When) == ""
	if rule.When != "" {
		prop.Extensions[extWhen] = rule.When
	}

	switch p.Encoding {
	case model.EncodingYesNo:
		if required {
			prop.WithEnum("Yes")
		} else {
			prop.WithEnum("Yes", "No")
		}
		return prop, true, nil
	case model.EncodingJoin:
		return prop, required, nil
	}

	if field.Kind == model.FieldKindRadio || field.Kind == model.FieldKindSelect {
		values := make([]any, 0, len(field.Options)+1)
		if !required {
			values = append(values, "")
		}
		for _, opt := range field.Options {
			values = append(values, opt.Value)
		}
		prop.WithEnum(values...)
		return prop, required, nil
	}

	if required {
		prop.WithMinLength(1)
	}
	if rule.MinLength > 0 {
		prop.WithMinLength(int64(rule.MinLength))
	}
	if rule.MaxLength > 0 {
		prop.WithMaxLength(int64(rule.MaxLength))
	}
	if rule.Pattern != "" {
		pattern := rule.Pattern
		if !required {
			pattern = "^$|" + pattern
		}
		prop.WithPattern(pattern)
	}
	if field.Kind == model.FieldKindNumber {
		prop.Extensions[extKind] = string(field.Kind)
	}
	if rule.Min != nil {
		prop.Extensions[extMinimum] = *rule.Min
	}
	if rule.Max != nil {
		prop.Extensions[extMaximum] = *rule.Max
	}
	return prop, required, nil
}

// Document wraps the payload schema in an OpenAPI document describing the
// form endpoint: one POST operation taking a multipart body.
func Document(form model.Form) (*openapi3.T, error) {
	payload, err := Payload(form)
	if err != nil {
		return nil, err
	}
	endpoint, err := url.Parse(form.Endpoint)
	if err != nil || endpoint.Host == "" {
		return nil, fmt.Errorf("schema: endpoint %q is not an absolute URL", form.Endpoint)
	}
	path := endpoint.Path
	if path == "" {
		path = "/"
	}

	name := form.ID
	if name == "" {
		name = "form"
	}
	componentName := name + "Submission"

	op := openapi3.NewOperation()
	op.OperationID = "submit" + strings.ToUpper(name[:1]) + name[1:]
	op.Summary = form.Title
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithSchemaRef(
				openapi3.NewSchemaRef("#/components/schemas/"+componentName, payload),
				[]string{MultipartFormData},
			)),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission accepted")}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission rejected")}),
	)

	title := form.Title
	if title == "" {
		title = name
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: "1.0.0"},
		Servers: openapi3.Servers{{URL: endpoint.Scheme + "://" + endpoint.Host}},
		Paths:   openapi3.NewPaths(openapi3.WithPath(path, &openapi3.PathItem{Post: op})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{componentName: openapi3.NewSchemaRef("", payload)},
		},
	}
	return doc, nil
}
