package svgdoc

import (
	"bytes"
	"io"
	"strings"
)

// Render returns the markup of the document. It has no side effects on the document.
func (d *Document) Render() string {
	sb := &strings.Builder{}
	sb.Grow(len(d.inner) + 64)
	d.render(sb)
	return sb.String()
}

// WriteTo writes the markup of the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(d.inner)+64))
	d.render(buf)
	return buf.WriteTo(w)
}

// render writes to a buffer whose WriteString never fails.
func (d *Document) render(w io.StringWriter) {
	text, link := d.tags.Get(LinkTag)
	if link {
		href, ok := d.flatAttrs.Get("href")
		if !ok {
			href = "#"
		}
		class, _ := d.flatAttrs.Get("class")
		w.WriteString(`<a href="`)
		w.WriteString(href)
		w.WriteString(`"><span class="`)
		w.WriteString(class)
		w.WriteString(`">`)
		w.WriteString(text)
		w.WriteString(`</span>`)
	}

	w.WriteString("<svg")
	for _, attr := range d.attrs.list {
		if attr.Key == "xmlns" {
			continue // always replaced by Namespace
		}
		w.WriteString(" ")
		w.WriteString(attr.Key)
		w.WriteString(`="`)
		w.WriteString(attr.Val)
		w.WriteString(`"`)
	}
	w.WriteString(` xmlns="` + Namespace + `">`)

	if title, ok := d.tags.Get(TitleTag); ok {
		w.WriteString("<title>")
		w.WriteString(title)
		w.WriteString("</title>")
	}
	w.WriteString(d.inner)
	w.WriteString("</svg>")

	if link {
		w.WriteString("</a>")
	}
}
