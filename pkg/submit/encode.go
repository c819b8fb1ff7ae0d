package submit

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/goliatone/go-contactform/pkg/model"
)

// TimeLayout matches JavaScript's Date.toISOString: UTC with milliseconds.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Pair is one outbound form entry.
type Pair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Pairs maps collected data onto the payload fields, in payload order.
func Pairs(fields []model.PayloadField, data model.Data) []Pair {
	out := make([]Pair, 0, len(fields))
	for _, field := range fields {
		out = append(out, Pair{Name: field.Name, Value: encodeValue(field, data)})
	}
	return out
}

func encodeValue(field model.PayloadField, data model.Data) string {
	if field.Source == model.SourceSubmittedAt {
		return FormatTime(data.SubmittedAt)
	}
	switch field.Encoding {
	case model.EncodingJoin:
		return strings.Join(data.Lists[field.Source], ", ")
	case model.EncodingYesNo:
		if data.Flags[field.Source] {
			return "Yes"
		}
		return "No"
	case model.EncodingTime:
		return data.Text[field.Source]
	default:
		if v, ok := data.Text[field.Source]; ok {
			return v
		}
		if v, ok := data.Lists[field.Source]; ok {
			return strings.Join(v, ", ")
		}
		if v, ok := data.Flags[field.Source]; ok && v {
			return model.CheckedValue
		}
		return ""
	}
}

// Encode writes pairs as a multipart/form-data body and returns it with its
// content type.
func Encode(pairs []Pair) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range pairs {
		if err := w.WriteField(p.Name, p.Value); err != nil {
			return nil, "", fmt.Errorf("submit: write field %q: %w", p.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("submit: close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// FormatTime renders t the way submittedAt is sent.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
