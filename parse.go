package svgdoc

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

var endTagRegexp = regexp.MustCompile(`(?i)</svg>`)

// Parser holds the options for parsing documents.
type Parser struct {
	// ExactInnerContent takes the inner content from between the root start and end tag.
	// By default every </svg> (case-insensitive) is removed from the markup and the inner content
	// starts after the first '>', which also strips </svg> occurrences inside comments or text.
	ExactInnerContent bool
}

// Parse parses an SVG document with the default options.
func Parse(s string) (*Document, error) {
	return (&Parser{}).Parse(s)
}

// Parse parses an SVG document. Markup that is not well-formed XML returns a *parse.Error.
// Attribute values and text are stored as written, character and entity references are not decoded.
func (p *Parser) Parse(s string) (*Document, error) {
	d := newDocument()

	z := parse.NewInputString(s)
	l := xml.NewLexer(z)

	var stack []string
	var seen map[string]bool // attribute names of the current element
	var text strings.Builder // direct text of the current child
	hasRoot, inPI := false, false
	innerStart, innerEnd := 0, 0
	for {
		start := z.Offset()
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return nil, l.Err()
			} else if inPI {
				return nil, parse.NewErrorLexer(z, "unexpected end of document in processing instruction")
			} else if 0 < len(stack) {
				return nil, parse.NewErrorLexer(z, "unexpected end of document, unclosed element %s", stack[len(stack)-1])
			} else if !hasRoot {
				return nil, parse.NewErrorLexer(z, "missing root element")
			}
			if p.ExactInnerContent {
				d.inner = s[innerStart:innerEnd]
			} else {
				d.inner = legacyInner(s)
			}
			return d, nil
		case xml.StartTagPIToken:
			if !isName(l.Text()) {
				return nil, parse.NewErrorLexer(z, "invalid processing instruction target %q", l.Text())
			}
			inPI = true
		case xml.StartTagClosePIToken:
			inPI = false
		case xml.StartTagToken:
			if !isName(l.Text()) {
				return nil, parse.NewErrorLexer(z, "invalid element name %q", l.Text())
			} else if len(stack) == 0 && hasRoot {
				return nil, parse.NewErrorLexer(z, "unexpected element %s after root element", l.Text())
			}
			hasRoot = true
			stack = append(stack, string(l.Text()))
			seen = map[string]bool{}
			if len(stack) == 2 {
				text.Reset()
			}
		case xml.AttributeToken:
			if inPI {
				break
			}
			key := string(l.Text())
			val := l.AttrVal()
			if !isWhitespace(data[0]) {
				return nil, parse.NewErrorLexer(z, "attribute %s must be preceded by whitespace", key)
			} else if !isName(l.Text()) {
				return nil, parse.NewErrorLexer(z, "invalid attribute name %q", key)
			} else if len(val) < 2 || val[0] != '"' && val[0] != '\'' || val[len(val)-1] != val[0] {
				return nil, parse.NewErrorLexer(z, "attribute %s must have a quoted value", key)
			} else if seen[key] {
				return nil, parse.NewErrorLexer(z, "duplicate attribute %s", key)
			}
			seen[key] = true
			val = val[1 : len(val)-1]
			if bytes.IndexByte(val, '<') != -1 {
				return nil, parse.NewErrorLexer(z, "attribute %s must not contain '<'", key)
			} else if ref, ok := checkReferences(val); !ok {
				return nil, parse.NewErrorLexer(z, "invalid reference %q in attribute %s", ref, key)
			}

			if len(stack) == 1 {
				if key != "xmlns" {
					d.attrs.Set(key, string(val))
				}
			} else if len(stack) == 2 {
				d.setTagAttr(localName(stack[1]), key, string(val))
			}
		case xml.StartTagCloseToken:
			if len(stack) == 1 {
				innerStart = z.Offset()
			}
		case xml.StartTagCloseVoidToken:
			if len(stack) == 1 {
				innerStart, innerEnd = z.Offset(), z.Offset()
			} else if len(stack) == 2 {
				d.tags.Set(localName(stack[1]), "")
			}
			stack = stack[:len(stack)-1]
		case xml.EndTagToken:
			name := string(l.Text())
			if data[len(data)-1] != '>' {
				return nil, parse.NewErrorLexer(z, "unexpected end of document in end tag %s", name)
			} else if len(stack) == 0 {
				return nil, parse.NewErrorLexer(z, "unexpected end tag %s", name)
			} else if top := stack[len(stack)-1]; name != top {
				return nil, parse.NewErrorLexer(z, "end tag %s does not match start tag %s", name, top)
			}
			if len(stack) == 1 {
				innerEnd = start
			} else if len(stack) == 2 {
				d.tags.Set(localName(name), text.String())
			}
			stack = stack[:len(stack)-1]
		case xml.TextToken:
			if len(stack) == 0 && !parse.IsAllWhitespace(data) {
				return nil, parse.NewErrorLexer(z, "unexpected text outside root element")
			} else if bytes.Contains(data, []byte("]]>")) {
				return nil, parse.NewErrorLexer(z, "unexpected ]]> in text")
			} else if ref, ok := checkReferences(data); !ok {
				return nil, parse.NewErrorLexer(z, "invalid reference %q", ref)
			}
			if len(stack) == 2 {
				text.Write(data)
			}
		case xml.CDATAToken:
			if !bytes.HasSuffix(data, []byte("]]>")) {
				return nil, parse.NewErrorLexer(z, "unexpected end of document in CDATA section")
			} else if len(stack) == 0 {
				return nil, parse.NewErrorLexer(z, "unexpected CDATA outside root element")
			} else if len(stack) == 2 {
				text.Write(l.Text())
			}
		case xml.CommentToken:
			if !bytes.HasSuffix(data, []byte("-->")) || len(data) < 7 {
				return nil, parse.NewErrorLexer(z, "unexpected end of document in comment")
			}
		case xml.DOCTYPEToken:
			if data[len(data)-1] != '>' {
				return nil, parse.NewErrorLexer(z, "unexpected end of document in DOCTYPE")
			} else if hasRoot {
				return nil, parse.NewErrorLexer(z, "unexpected DOCTYPE")
			}
		}
	}
}

// legacyInner removes all </svg> and returns everything after the first '>'.
func legacyInner(s string) string {
	s = endTagRegexp.ReplaceAllLiteralString(s, "")
	if i := strings.IndexByte(s, '>'); i != -1 {
		return s[i+1:]
	}
	return ""
}

func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i != -1 {
		return name[i+1:]
	}
	return name
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isName returns true if b is an XML name. Non-ASCII characters are all accepted.
func isName(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for i := 0; i < len(b); {
		r, n := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && n == 1 {
			return false
		} else if r < utf8.RuneSelf {
			c := byte(r)
			isStart := 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' || c == ':'
			if !isStart && (i == 0 || !('0' <= c && c <= '9' || c == '-' || c == '.')) {
				return false
			}
		}
		i += n
	}
	return true
}

// checkReferences returns false and the offending reference when b contains an '&' that does not start
// a predefined entity or a character reference.
func checkReferences(b []byte) (string, bool) {
	for {
		i := bytes.IndexByte(b, '&')
		if i == -1 {
			return "", true
		}
		b = b[i:]
		end := bytes.IndexByte(b, ';')
		if end == -1 {
			return string(b[:min(len(b), 8)]), false
		}
		ref := b[:end+1]
		if !isReference(ref[1:end]) {
			return string(ref), false
		}
		b = b[end+1:]
	}
}

func isReference(name []byte) bool {
	switch string(name) {
	case "amp", "lt", "gt", "quot", "apos":
		return true
	}
	if len(name) < 2 || name[0] != '#' {
		return false
	}
	digits := name[1:]
	hex := digits[0] == 'x'
	if hex {
		digits = digits[1:]
		if len(digits) == 0 {
			return false
		}
	}
	for _, c := range digits {
		if !('0' <= c && c <= '9' || hex && ('a' <= c && c <= 'f' || 'A' <= c && c <= 'F')) {
			return false
		}
	}
	return true
}
