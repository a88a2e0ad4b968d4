package view

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/willemschots/signups/internal/errorz"
)

const layoutFilename = "layout.html"

// View is a collection of templates used to render data. Every
// view has an unique name.
//
// A view combines the following templates to render a HTML page:
// - layout.html (required)
// - {name}.html (optional)
// - partials/*.html (optional)
type View struct {
	name     string
	template *template.Template
}

// Parse parses the file system and returns a view for the given name.
func Parse(viewFS fs.FS, name string) (*View, error) {
	// Generally names will be hardcoded, but if for some reason we end
	// up with user input as a name, we don't want to allow access to
	// the filesystem.
	if err := validateName(name); err != nil {
		return nil, err
	}

	files := []string{
		layoutFilename,
	}

	if name != "layout" && name != "" {
		files = append(files, fmt.Sprintf("%s.html", name))
	}

	partials, err := fs.Glob(viewFS, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob for partials: %w", err)
	}

	files = append(files, partials...)

	t := template.New(layoutFilename).Option("missingkey=error")
	templ, err := t.ParseFS(viewFS, files...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse view %q: %w", errorz.ErrRender, name, err)
	}

	return &View{
		name:     name,
		template: templ,
	}, nil
}

// Render renders data using the view and writes the result to w.
// Output may already have been written to w when an error is returned.
func (v *View) Render(w io.Writer, data any) error {
	err := v.template.Execute(w, data)
	if err != nil {
		return fmt.Errorf("%w: failed to execute view %q: %w", errorz.ErrRender, v.name, err)
	}
	return nil
}

// validateName checks if all characters are alphanumeric, dashes or underscores.
func validateName(name string) error {
	for _, c := range name {
		if !validViewRune(c) {
			return fmt.Errorf("%w: invalid character %q in view name: %s", errorz.ErrRender, c, name)
		}
	}
	return nil
}

func validViewRune(r rune) bool {
	return r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
