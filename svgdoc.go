// Package svgdoc loads an SVG document, exposes the attributes of its root element and its direct children, applies cosmetic changes and renders it back to markup.
package svgdoc // import "github.com/tdewolff/svgdoc"

import (
	"regexp"
	"strings"
)

// Mediatype is the media type of SVG documents.
const Mediatype = "image/svg+xml"

// Namespace is the SVG namespace that is always set on the rendered root element.
const Namespace = "http://www.w3.org/2000/svg"

// Names of the virtual tags recognized by the renderer.
const (
	TitleTag = "title"
	LinkTag  = "a"
)

var colorRegexp = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Document is an SVG document with mutable root attributes and virtual tags.
// A Document is not safe for concurrent use.
type Document struct {
	attrs *Attrs // root element attributes
	tags  *Attrs // direct children and virtual tags, name => text

	// tagAttrs holds the attributes per tag, flatAttrs collapses them into a single map
	// where later writes override earlier ones regardless of the tag. The renderer only reads flatAttrs.
	tagAttrs  map[string]*Attrs
	flatAttrs *Attrs

	inner string
}

func newDocument() *Document {
	return &Document{
		attrs:     NewAttrs(),
		tags:      NewAttrs(),
		tagAttrs:  map[string]*Attrs{},
		flatAttrs: NewAttrs(),
	}
}

// Attribute returns the value of the root attribute name. Values are returned as written in the source,
// so references such as &amp; are not decoded.
func (d *Document) Attribute(name string) (string, bool) {
	return d.attrs.Get(name)
}

// Attributes returns a copy of all root attributes in order.
func (d *Document) Attributes() []Attr {
	return d.attrs.List()
}

// SetAttribute sets a root attribute, an existing attribute keeps its position.
func (d *Document) SetAttribute(name, value string) {
	d.attrs.Set(name, value)
}

// RemoveAttribute removes a root attribute.
func (d *Document) RemoveAttribute(name string) {
	d.attrs.Del(name)
}

// CleanHeader removes all root attributes except viewBox.
func (d *Document) CleanHeader() {
	d.attrs.Retain(func(key string) bool {
		return key == "viewBox"
	})
}

// SetClass overwrites the class attribute.
func (d *Document) SetClass(class string) {
	d.attrs.Set("class", class)
}

// AddClass appends class to the class attribute. Classes are not deduplicated.
func (d *Document) AddClass(class string) {
	cur, _ := d.attrs.Get("class")
	d.attrs.Set("class", strings.TrimSpace(cur+" "+class))
}

// SetID overwrites the id attribute.
func (d *Document) SetID(id string) {
	d.attrs.Set("id", id)
}

// SetColor sets the fill attribute if color is a #RGB or #RRGGBB hex color and ignores it otherwise.
// It returns true if the fill was set.
func (d *Document) SetColor(color string) bool {
	if !colorRegexp.MatchString(color) {
		return false
	}
	d.attrs.Set("fill", color)
	return true
}

// Resize sets the width and height attributes.
func (d *Document) Resize(width, height string) {
	d.attrs.Set("width", width)
	d.attrs.Set("height", height)
}

// SetTitle sets the title that is rendered as the first child of the root element.
func (d *Document) SetTitle(title string) {
	d.tags.Set(TitleTag, title)
}

// SetLink wraps the rendered document in an anchor to href, preceded by text inside a span.
// An empty class leaves the class attribute unset.
func (d *Document) SetLink(text, href, class string) {
	d.tags.Set(LinkTag, text)
	d.setTagAttr(LinkTag, "href", href)
	if class != "" {
		d.setTagAttr(LinkTag, "class", class)
	}
}

func (d *Document) setTagAttr(tag, key, val string) {
	attrs, ok := d.tagAttrs[tag]
	if !ok {
		attrs = NewAttrs()
		d.tagAttrs[tag] = attrs
	}
	attrs.Set(key, val)
	d.flatAttrs.Set(key, val)
}

// Tag returns the text of a direct child or virtual tag. Text from the source is returned as written,
// so references such as &amp; are not decoded.
func (d *Document) Tag(name string) (string, bool) {
	return d.tags.Get(name)
}

// Tags returns a copy of all direct children and virtual tags with their text.
func (d *Document) Tags() []Attr {
	return d.tags.List()
}

// TagAttributes returns the attributes of all tags collapsed into one list, where an attribute of a tag
// overwrites a same-named attribute of any other tag.
func (d *Document) TagAttributes() []Attr {
	return d.flatAttrs.List()
}

// TagAttribute returns the attribute name of the given tag only.
func (d *Document) TagAttribute(tag, name string) (string, bool) {
	if attrs, ok := d.tagAttrs[tag]; ok {
		return attrs.Get(name)
	}
	return "", false
}

// Inner returns the markup inside the root element.
func (d *Document) Inner() string {
	return d.inner
}
