package main

import (
	"fmt"
	"strings"

	"github.com/tdewolff/svgdoc"
)

// Operations are the changes applied to each document, in the order of the fields.
type Operations struct {
	Clean     bool
	Set       []string // key=value
	Remove    []string
	Class     string
	AddClass  []string
	ID        string
	Color     string
	Width     string
	Height    string
	Title     string
	Link      string
	Href      string
	LinkClass string
}

// Validate checks the options before any document is processed.
func (ops Operations) Validate() error {
	for _, attr := range ops.Set {
		if _, _, err := splitAttr(attr); err != nil {
			return err
		}
	}
	return nil
}

// Apply applies the operations to d. It returns false when the color was ignored.
func (ops Operations) Apply(d *svgdoc.Document) bool {
	if ops.Clean {
		d.CleanHeader()
	}
	for _, attr := range ops.Set {
		if key, val, err := splitAttr(attr); err == nil {
			d.SetAttribute(key, val)
		}
	}
	for _, key := range ops.Remove {
		d.RemoveAttribute(key)
	}
	if ops.Class != "" {
		d.SetClass(ops.Class)
	}
	for _, class := range ops.AddClass {
		d.AddClass(class)
	}
	if ops.ID != "" {
		d.SetID(ops.ID)
	}

	colorOK := true
	if ops.Color != "" {
		colorOK = d.SetColor(ops.Color)
	}

	if ops.Width != "" && ops.Height != "" {
		d.Resize(ops.Width, ops.Height)
	} else if ops.Width != "" {
		d.SetAttribute("width", ops.Width)
	} else if ops.Height != "" {
		d.SetAttribute("height", ops.Height)
	}

	if ops.Title != "" {
		d.SetTitle(ops.Title)
	}
	if ops.Link != "" || ops.Href != "" {
		d.SetLink(ops.Link, ops.Href, ops.LinkClass)
	}
	return colorOK
}

func splitAttr(attr string) (string, string, error) {
	key, val, ok := strings.Cut(attr, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid attribute %q, expected key=value", attr)
	}
	return key, val, nil
}
