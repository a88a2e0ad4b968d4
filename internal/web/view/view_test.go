package view_test

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willemschots/signups/internal/errorz"
	"github.com/willemschots/signups/internal/web/view"
)

func TestView_ParseAndRender(t *testing.T) {
	okTests := map[string]struct {
		files map[string]string
		name  string
		data  any
		want  string
	}{
		"layout only": {
			files: map[string]string{
				"layout.html": `<html>Hello {{ . }}</html>`,
			},
			name: "",
			data: "World!",
			want: `<html>Hello World!</html>`,
		},
		"layout only w layout name": {
			files: map[string]string{
				"layout.html": `<html>Hello {{ . }}</html>`,
			},
			name: "layout",
			data: "World!",
			want: `<html>Hello World!</html>`,
		},
		"layout and home": {
			files: map[string]string{
				"layout.html": `<html>{{template "content" . }}</html>`,
				"home.html":   `{{define "content"}}<h1>Hello {{ . }}</h1>{{end}}`,
			},
			name: "home",
			data: "World!",
			want: `<html><h1>Hello World!</h1></html>`,
		},
		"layout, home and greeting partial": {
			files: map[string]string{
				"layout.html":            `<html>{{template "content" . }}</html>`,
				"home.html":              `{{define "content"}}<h1>{{template "greeting" . }}</h1>{{end}}`,
				"partials/greeting.html": `{{define "greeting"}}Hello {{ . }}{{end}}`,
			},
			name: "home",
			data: "World!",
			want: `<html><h1>Hello World!</h1></html>`,
		},
		"name with all allowed characters": {
			files: map[string]string{
				"layout.html": `<html>{{template "content" . }}</html>`,
				"abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_.html": `{{define "content"}}<h1>Hello {{ . }}</h1>{{end}}`,
			},
			name: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_",
			data: "World!",
			want: `<html><h1>Hello World!</h1></html>`,
		},
		"check data is escaped": {
			files: map[string]string{
				"layout.html": `<html>{{ . }}</html>`,
			},
			name: "",
			data: "<script>alert('xss')</script>",
			want: `<html>&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;</html>`,
		},
	}

	for name, tc := range okTests {
		t.Run(name, func(t *testing.T) {
			tempFS := tempFilesForTest(t, tc.files)

			v, err := view.Parse(tempFS, tc.name)
			require.NoError(t, err)

			buf := &bytes.Buffer{}
			err = v.Render(buf, tc.data)
			require.NoError(t, err)

			assert.Equal(t, tc.want, buf.String())
		})
	}

	parseFails := map[string]struct {
		files map[string]string
		name  string
	}{
		"no views": {
			files: map[string]string{},
			name:  "",
		},
		"no layout": {
			files: map[string]string{
				"home.html": `<h1>Hello {{ . }}</h1>`,
			},
			name: "",
		},
		"no home": {
			files: map[string]string{
				"layout.html": `<html>{{template "content" . }}</html>`,
				"other.html":  `<h1>Hello {{ . }}</h1>`,
			},
			name: "home",
		},
		"filename with disallowed rune": {
			files: map[string]string{
				"layout.html": `<html>{{template "content" . }}</html>`,
				"#.html":      `<h1>Hello {{ . }}</h1>`,
			},
			name: "#",
		},
		"path traversal": {
			files: map[string]string{
				"layout.html": `<html>{{template "content" . }}</html>`,
			},
			name: "../layout",
		},
	}

	for name, tc := range parseFails {
		t.Run(name, func(t *testing.T) {
			tempFS := tempFilesForTest(t, tc.files)

			_, err := view.Parse(tempFS, tc.name)
			require.ErrorIs(t, err, errorz.ErrRender)
		})
	}

	t.Run("fail, unresolved field", func(t *testing.T) {
		tempFS := tempFilesForTest(t, map[string]string{
			"layout.html": `<html>{{ .Missing }}</html>`,
		})

		v, err := view.Parse(tempFS, "")
		require.NoError(t, err)

		err = v.Render(&bytes.Buffer{}, struct{ Title string }{Title: "x"})
		require.ErrorIs(t, err, errorz.ErrRender)
	})
}

func TestMemRenderer(t *testing.T) {
	files := map[string]string{
		"layout.html":           `<html>{{template "content" . }}</html>`,
		"home.html":             `{{define "content"}}<h1>{{template "title" . }}</h1>{{end}}`,
		"next.html":             `{{define "content"}}<p>{{ . }}</p>{{end}}`,
		"partials/title.html":   `{{define "title"}}Hello {{ . }}{{end}}`,
		"partials/ignored.html": `{{define "ignored"}}ignored{{end}}`,
	}

	r, err := view.NewMemRenderer(tempFilesForTest(t, files))
	require.NoError(t, err)

	t.Run("ok, names", func(t *testing.T) {
		names := r.Names()
		sort.Strings(names)
		assert.Equal(t, []string{"home", "layout", "next"}, names)
	})

	t.Run("ok, render home", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := r.Render(buf, "home", "World!")
		require.NoError(t, err)
		assert.Equal(t, `<html><h1>Hello World!</h1></html>`, buf.String())
	})

	t.Run("ok, render next", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := r.Render(buf, "next", "World!")
		require.NoError(t, err)
		assert.Equal(t, `<html><p>World!</p></html>`, buf.String())
	})

	t.Run("fail, unknown view", func(t *testing.T) {
		err := r.Render(&bytes.Buffer{}, "unknown", nil)
		require.ErrorIs(t, err, errorz.ErrRender)
	})

	t.Run("fail, broken template", func(t *testing.T) {
		_, err := view.NewMemRenderer(tempFilesForTest(t, map[string]string{
			"layout.html": `<html>{{template "content" . }}</html>`,
			"home.html":   `{{define "content"}}{{ .Unclosed }</h1>{{end}}`,
		}))
		require.ErrorIs(t, err, errorz.ErrRender)
	})
}

func TestFSRenderer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "layout.html", `<html>{{template "content" . }}</html>`)
	writeFile(t, dir, "home.html", `{{define "content"}}v1 {{ . }}{{end}}`)

	r := view.NewFSRenderer(os.DirFS(dir))

	buf := &bytes.Buffer{}
	require.NoError(t, r.Render(buf, "home", "World!"))
	assert.Equal(t, `<html>v1 World!</html>`, buf.String())

	// Changes are picked up on the next render.
	writeFile(t, dir, "home.html", `{{define "content"}}v2 {{ . }}{{end}}`)

	buf.Reset()
	require.NoError(t, r.Render(buf, "home", "World!"))
	assert.Equal(t, `<html>v2 World!</html>`, buf.String())

	err := r.Render(&bytes.Buffer{}, "unknown", nil)
	require.ErrorIs(t, err, errorz.ErrRender)
}

func tempFilesForTest(t *testing.T, files map[string]string) fs.FS {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}

	return os.DirFS(dir)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	fn := filepath.Join(dir, name)
	err := os.MkdirAll(filepath.Dir(fn), 0755)
	require.NoError(t, err, "failed to create path for temporary file")

	err = os.WriteFile(fn, []byte(content), 0644)
	require.NoError(t, err, "failed to write temporary file")
}
