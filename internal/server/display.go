package server

import (
	"encoding/base64"
	"html/template"
	"strings"

	"github.com/agenthands/vizboard/internal/core/viz"
)

// htmlDisplay collects what one dispatch wants shown on the page.
type htmlDisplay struct {
	Errors   []string
	Artifact *viz.Artifact
}

func (d *htmlDisplay) Error(msg string) {
	d.Errors = append(d.Errors, msg)
}

func (d *htmlDisplay) Show(a *viz.Artifact) {
	d.Artifact = a
}

func (d *htmlDisplay) IsImage() bool {
	return d.Artifact != nil && strings.HasPrefix(d.Artifact.ContentType, "image/")
}

func (d *htmlDisplay) IsHTML() bool {
	return d.Artifact != nil && strings.HasPrefix(d.Artifact.ContentType, "text/html")
}

// ImageURI inlines the artifact as a data URI.
func (d *htmlDisplay) ImageURI() template.URL {
	if !d.IsImage() {
		return ""
	}
	return template.URL("data:" + d.Artifact.ContentType + ";base64," + base64.StdEncoding.EncodeToString(d.Artifact.Data))
}

// Document returns an HTML artifact for an iframe srcdoc attribute. The
// template escapes it as attribute text.
func (d *htmlDisplay) Document() string {
	if !d.IsHTML() {
		return ""
	}
	return string(d.Artifact.Data)
}
