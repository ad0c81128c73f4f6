package svgdoc

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the root attributes, tags and tag attributes in a human-readable form.
func (d *Document) Dump(w io.Writer) error {
	sections := []struct {
		name  string
		attrs []Attr
	}{
		{"attributes", d.attrs.List()},
		{"tags", d.tags.List()},
		{"tag attributes", d.flatAttrs.List()},
	}
	for _, section := range sections {
		if _, err := fmt.Fprintf(w, "%s:\n", section.name); err != nil {
			return err
		}
		if len(section.attrs) == 0 {
			if _, err := fmt.Fprintln(w, "  (none)"); err != nil {
				return err
			}
			continue
		}

		n := 0
		for _, attr := range section.attrs {
			if n < len(attr.Key) {
				n = len(attr.Key)
			}
		}
		for _, attr := range section.attrs {
			if _, err := fmt.Fprintf(w, "  %s%s%q\n", attr.Key, strings.Repeat(" ", n-len(attr.Key)+2), attr.Val); err != nil {
				return err
			}
		}
	}
	return nil
}
