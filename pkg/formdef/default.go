package formdef

import (
	"time"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/rules"
)

// DefaultEndpoint is the Formspree form receiving contact submissions.
const DefaultEndpoint = "https://formspree.io/f/xnnzdend"

const (
	DefaultAutosaveInterval = 30 * time.Second
	DefaultResetDelay       = 8 * time.Second
	DefaultMessageLimit     = 1000
)

// Default returns the contact application form.
func Default() model.Form {
	ruleFor := make(map[string]rules.Rule)
	for _, entry := range rules.DefaultEntries() {
		ruleFor[entry.Field] = entry.Rule
	}
	withRule := func(field model.Field) model.Field {
		if rule, ok := ruleFor[field.Name]; ok {
			field.Rule = &rule
		}
		return field
	}

	return model.Form{
		ID:             "contactForm",
		Title:          "Application Form",
		Endpoint:       DefaultEndpoint,
		Method:         "POST",
		SubmitLabel:    "Submit Application",
		BusyLabel:      "Submitting...",
		SuccessMessage: "<h3>Thank you!</h3><p>Your application has been submitted successfully. We will get back to you soon.</p>",
		FailureMessage: "There was an error submitting your form. Please try again or contact us directly.",
		Fields: []model.Field{
			withRule(model.Field{Name: "firstName", Kind: model.FieldKindText, Label: "First Name"}),
			withRule(model.Field{Name: "lastName", Kind: model.FieldKindText, Label: "Last Name"}),
			withRule(model.Field{Name: "email", Kind: model.FieldKindEmail, Label: "Email Address"}),
			withRule(model.Field{Name: "phone", Kind: model.FieldKindTel, Label: "Phone Number", Placeholder: "(123) 456-7890", Mask: model.MaskPhone}),
			withRule(model.Field{Name: "age", Kind: model.FieldKindNumber, Label: "Age", Clamp: &model.Range{Min: 0, Max: 100}}),
			{Name: "position", Kind: model.FieldKindSelect, Label: "Position Applied For", Options: []model.Option{
				{Value: "developer", Label: "Software Developer"},
				{Value: "designer", Label: "UI/UX Designer"},
				{Value: "analyst", Label: "Data Analyst"},
				{Value: "manager", Label: "Project Manager"},
				{Value: "intern", Label: "Intern"},
			}},
			{Name: "experience", Kind: model.FieldKindNumber, Label: "Years of Experience", Clamp: &model.Range{Min: 0, Max: 50}},
			withRule(model.Field{Name: "availability", Kind: model.FieldKindRadio, Label: "Availability", Options: []model.Option{
				{Value: "full-time", Label: "Full-time"},
				{Value: "part-time", Label: "Part-time"},
				{Value: "contract", Label: "Contract"},
			}}),
			{Name: "skills", Kind: model.FieldKindCheckboxGroup, Label: "Skills", Options: []model.Option{
				{Value: "javascript", Label: "JavaScript"},
				{Value: "python", Label: "Python"},
				{Value: "java", Label: "Java"},
				{Value: "react", Label: "React"},
				{Value: "nodejs", Label: "Node.js"},
				{Value: "sql", Label: "SQL"},
			}},
			{Name: "message", Kind: model.FieldKindTextArea, Label: "Cover Letter / Message", Placeholder: "Tell us about yourself..."},
			withRule(model.Field{Name: "terms", Kind: model.FieldKindCheckbox, Label: "I agree to the terms and conditions"}),
		},
		Payload: []model.PayloadField{
			{Name: "firstName", Source: "firstName"},
			{Name: "lastName", Source: "lastName"},
			{Name: "email", Source: "email"},
			{Name: "phone", Source: "phone"},
			{Name: "age", Source: "age"},
			{Name: "position", Source: "position"},
			{Name: "experience", Source: "experience"},
			{Name: "availability", Source: "availability"},
			{Name: "skills", Source: "skills", Encoding: model.EncodingJoin},
			{Name: "message", Source: "message"},
			{Name: "termsAccepted", Source: "terms", Encoding: model.EncodingYesNo},
			{Name: "submittedAt", Source: model.SourceSubmittedAt, Encoding: model.EncodingTime},
		},
		Limits: []model.Limit{
			{Field: "message", Max: DefaultMessageLimit, Message: "Message must be less than 1000 characters"},
		},
		Recommended:      []string{"skills"},
		AutosaveInterval: DefaultAutosaveInterval,
		ResetDelay:       DefaultResetDelay,
	}
}
