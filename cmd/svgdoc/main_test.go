package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tdewolff/svgdoc"
	"github.com/tdewolff/svgdoc/minify"
	"github.com/tdewolff/test"
)

const testSVG = `<svg width="10" height="10" viewBox="0 0 10 10"><rect width="10" height="10"/></svg>`

func init() {
	Log.SetOutput(io.Discard)
}

func resetOptions() {
	quiet, debug, preserve, permissive = true, false, false, false
	output = ""
	ops = Operations{}
	parser = svgdoc.Parser{}
	m = nil
}

func TestSplitAttr(t *testing.T) {
	var tests = []struct {
		attr     string
		key, val string
		ok       bool
	}{
		{"data-x=1", "data-x", "1", true},
		{"a=b=c", "a", "b=c", true},
		{"a=", "a", "", true},
		{" a =b", "a", "b", true},
		{"a", "", "", false},
		{"=b", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			key, val, err := splitAttr(tt.attr)
			test.T(t, err == nil, tt.ok)
			test.String(t, key, tt.key)
			test.String(t, val, tt.val)
		})
	}
}

func TestOperations(t *testing.T) {
	var tests = []struct {
		ops      Operations
		expected string
	}{
		{Operations{}, `<svg width="10" height="10" viewBox="0 0 10 10" xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`},
		{Operations{Clean: true}, `<svg viewBox="0 0 10 10" xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`},
		{Operations{Clean: true, Set: []string{"data-x=1", "width=5"}, Remove: []string{"viewBox"}}, `<svg data-x="1" width="5" xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`},
		{Operations{Clean: true, Class: "a", AddClass: []string{"b", "c"}, ID: "x"}, `<svg viewBox="0 0 10 10" class="a b c" id="x" xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`},
		{Operations{Clean: true, Color: "#fff"}, `<svg viewBox="0 0 10 10" fill="#fff" xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`},
		{Operations{Clean: true, Width: "20", Height: "30"}, `<svg viewBox="0 0 10 10" width="20" height="30" xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`},
		{Operations{Height: "30"}, `<svg width="10" height="30" viewBox="0 0 10 10" xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`},
		{Operations{Clean: true, Title: "T", Link: "L", Href: "/", LinkClass: "c"}, `<a href="/"><span class="c">L</span><svg viewBox="0 0 10 10" xmlns="http://www.w3.org/2000/svg"><title>T</title><rect width="10" height="10"/></svg></a>`},
		{Operations{Clean: true, Href: "/"}, `<a href="/"><span class=""></span><svg viewBox="0 0 10 10" xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg></a>`},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			d, err := svgdoc.Parse(testSVG)
			test.Error(t, err)
			test.T(t, tt.ops.Apply(d), true)
			test.String(t, d.Render(), tt.expected)
		})
	}
}

func TestOperationsInvalid(t *testing.T) {
	test.That(t, Operations{Set: []string{"noequals"}}.Validate() != nil)
	test.Error(t, Operations{Set: []string{"a=b"}}.Validate())

	d, err := svgdoc.Parse(testSVG)
	test.Error(t, err)
	test.T(t, Operations{Color: "red"}.Apply(d), false)
	_, ok := d.Attribute("fill")
	test.T(t, ok, false)
}

func TestRenderStdout(t *testing.T) {
	resetOptions()
	ops = Operations{Clean: true, Title: "T"}

	w := &bytes.Buffer{}
	stdin, stdout = strings.NewReader(testSVG), w
	defer func() {
		stdin, stdout = os.Stdin, os.Stdout
	}()

	test.T(t, render(""), true)
	test.String(t, w.String(), `<svg viewBox="0 0 10 10" xmlns="http://www.w3.org/2000/svg"><title>T</title><rect width="10" height="10"/></svg>`)

	stdin = strings.NewReader("<note/>")
	test.T(t, render(""), false, "stdin must be an SVG")
}

func TestRenderFile(t *testing.T) {
	resetOptions()
	ops = Operations{ID: "logo"}
	preserve = true

	dir := t.TempDir()
	input := filepath.Join(dir, "in.svg")
	test.Error(t, os.WriteFile(input, []byte(testSVG), 0644))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	test.Error(t, os.Chtimes(input, mtime, mtime))

	output = filepath.Join(dir, "out")
	test.Error(t, os.Mkdir(output, 0777))

	test.T(t, render(input), true)
	entries, err := os.ReadDir(output)
	test.Error(t, err)
	test.T(t, len(entries), 1)

	filename := filepath.Join(output, entries[0].Name())
	b, err := os.ReadFile(filename)
	test.Error(t, err)
	test.String(t, string(b), `<svg width="10" height="10" viewBox="0 0 10 10" id="logo" xmlns="http://www.w3.org/2000/svg"><rect width="10" height="10"/></svg>`)

	info, err := os.Stat(filename)
	test.Error(t, err)
	test.That(t, info.ModTime().Equal(mtime), "timestamps must be preserved")
}

func TestRenderMinify(t *testing.T) {
	resetOptions()
	m = minify.Default

	w := &bytes.Buffer{}
	stdin, stdout = strings.NewReader("<svg>\n  <rect width=\"10.0\" height=\"10\"/>\n</svg>"), w
	defer func() {
		stdin, stdout = os.Stdin, os.Stdout
	}()

	test.T(t, render(""), true)
	test.That(t, strings.Contains(w.String(), `<rect width="10" height="10"/>`), "output must be minified:", w.String())
}

func TestRenderErrors(t *testing.T) {
	resetOptions()
	dir := t.TempDir()

	test.T(t, render(filepath.Join(dir, "missing.svg")), false)

	malformed := filepath.Join(dir, "malformed.svg")
	test.Error(t, os.WriteFile(malformed, []byte(`<svg><g></svg>`), 0644))
	test.T(t, render(malformed), false)

	input := filepath.Join(dir, "in.svg")
	test.Error(t, os.WriteFile(input, []byte(testSVG), 0644))
	output = filepath.Join(dir, "missing")
	test.T(t, render(input), false)

	permissive = true
	test.T(t, render(input), true, "permissive mode ignores unusable output directories")
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.svg")
	other := filepath.Join(dir, "other.svg")
	test.Error(t, os.WriteFile(input, []byte(testSVG), 0644))

	watcher, err := NewWatcher()
	test.Error(t, err)
	defer watcher.Close()
	test.Error(t, watcher.AddPath(input))
	test.That(t, watcher.AddPath(filepath.Join(dir, "missing.svg")) != nil)
	changes := watcher.Run()

	test.Error(t, os.WriteFile(other, []byte(testSVG), 0644))
	test.Error(t, os.WriteFile(input, []byte(testSVG), 0644))

	select {
	case file := <-changes:
		test.String(t, file, input)
	case <-time.After(5 * time.Second):
		test.Fail(t, "no change detected")
	}
}

func TestWatcherAddPathWhileRunning(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.svg")
	test.Error(t, os.WriteFile(input, []byte(testSVG), 0644))

	watcher, err := NewWatcher()
	test.Error(t, err)
	defer watcher.Close()
	changes := watcher.Run()
	test.Error(t, watcher.AddPath(input))

	test.Error(t, os.WriteFile(input, []byte(testSVG), 0644))
	select {
	case file := <-changes:
		test.String(t, file, input)
	case <-time.After(5 * time.Second):
		test.Fail(t, "no change detected")
	}
}
