package view

import (
	"io"
	"io/fs"
)

// FSRenderer parses views from a file system every time they are rendered.
// Useful during development, changes to templates show up without a restart.
type FSRenderer struct {
	fs fs.FS
}

// NewFSRenderer returns a new FSRenderer.
func NewFSRenderer(fs fs.FS) *FSRenderer {
	return &FSRenderer{fs: fs}
}

func (r *FSRenderer) Render(w io.Writer, name string, data any) error {
	v, err := Parse(r.fs, name)
	if err != nil {
		return err
	}
	return v.Render(w, data)
}
