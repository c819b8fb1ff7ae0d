package contactform

import (
	"io/fs"

	"github.com/goliatone/go-contactform/pkg/render"
)

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or extend them without importing the render package directly.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
