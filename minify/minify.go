package minify

import (
	"bytes"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"
	"github.com/tdewolff/svgdoc"
)

// Default minifiers for SVG and the CSS and XML embedded in it
var Default *minify.M

func init() {
	Default = New(0)
}

// New returns minifiers for SVG, CSS and XML. Precision is the number of significant digits
// to preserve in numbers, 0 is all.
func New(precision int) *minify.M {
	m := minify.New()
	m.Add("text/css", &css.Minifier{Precision: precision})
	m.Add(svgdoc.Mediatype, &svg.Minifier{Precision: precision})
	m.AddRegexp(regexp.MustCompile("[/+]xml$"), &xml.Minifier{})
	return m
}

// SVG string minifier using the default minifiers
func SVG(s string) (string, error) {
	return Default.String(svgdoc.Mediatype, s)
}

// Document renders and minifies a document.
func Document(m *minify.M, d *svgdoc.Document) ([]byte, error) {
	b := &bytes.Buffer{}
	if _, err := d.WriteTo(b); err != nil {
		return nil, err
	}
	w := bytes.NewBuffer(make([]byte, 0, b.Len()))
	if err := m.Minify(svgdoc.Mediatype, w, b); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
