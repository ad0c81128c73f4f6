// Package svgfile validates, reads and saves SVG files.
package svgfile // import "github.com/tdewolff/svgdoc/svgfile"

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/djherbis/atime"
	"github.com/matryer/try"
	"github.com/pkg/errors"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
	"github.com/tdewolff/svgdoc"
)

// Errors returned by the file operations, test with errors.Is.
var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidType = errors.New("not an SVG file")
	ErrNotDir      = errors.New("not a directory")
)

// Attempts is the number of times a file is opened or created before giving up.
var Attempts = 5

var extMap = map[string]string{
	"svg":   svgdoc.Mediatype,
	"xml":   "text/xml",
	"xhtml": "application/xhtml-xml",
	"htm":   "text/html",
	"html":  "text/html",
}

// Mediatype returns the media type of a file by looking at its contents, and at its extension
// when it has no contents. An empty string means the type is unknown.
func Mediatype(filename string, b []byte) string {
	if mediatype := sniff(b); mediatype != "" {
		return mediatype
	}
	ext := filepath.Ext(filename)
	if 0 < len(ext) {
		ext = ext[1:]
	}
	return extMap[strings.ToLower(ext)]
}

// sniff returns the media type based on the first element of an XML document,
// or an empty string when there is no content.
func sniff(b []byte) string {
	l := xml.NewLexer(parse.NewInputBytes(b))
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return "application/octet-stream"
			}
			return ""
		case xml.TextToken:
			if !parse.IsAllWhitespace(data) {
				return "text/plain"
			}
		case xml.StartTagToken:
			name := string(l.Text())
			if i := strings.IndexByte(name, ':'); i != -1 {
				name = name[i+1:]
			}
			if name == "svg" {
				return svgdoc.Mediatype
			}
			return "text/xml"
		}
	}
}

func readFile(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) || err == nil && info.IsDir() {
		return nil, errors.Wrap(ErrNotFound, filename)
	} else if err != nil {
		return nil, errors.WithStack(err)
	}

	var r *os.File
	err = try.Do(func(attempt int) (bool, error) {
		var ferr error
		r, ferr = os.Open(filename)
		return attempt < Attempts, ferr
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open input file %q", filename)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read input file %q", filename)
	}
	return b, nil
}

func validate(filename string, b []byte) error {
	if mediatype := Mediatype(filename, b); mediatype != svgdoc.Mediatype {
		if mediatype == "" {
			mediatype = "unknown"
		}
		return errors.Wrapf(ErrInvalidType, "%s has type %s", filename, mediatype)
	}
	return nil
}

// Validate returns ErrNotFound if the file does not exist and ErrInvalidType if it is not an SVG.
func Validate(filename string) error {
	b, err := readFile(filename)
	if err != nil {
		return err
	}
	return validate(filename, b)
}

// Read validates the file and returns its contents.
func Read(filename string) (string, error) {
	b, err := readFile(filename)
	if err != nil {
		return "", err
	}
	if err := validate(filename, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadAll reads r to the end and returns ErrInvalidType if its contents are not an SVG.
func ReadAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if mediatype := sniff(b); mediatype != svgdoc.Mediatype {
		if mediatype == "" {
			mediatype = "unknown"
		}
		return "", errors.Wrapf(ErrInvalidType, "input has type %s", mediatype)
	}
	return string(b), nil
}

// IsDir returns true if dir is an existing directory.
func IsDir(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// Filename returns the name for a file saved at time t.
func Filename(t time.Time) string {
	return "svgdoc-" + t.Format("20060102-150405.000000000") + ".svg"
}

// Save writes b to a new file in dir and returns its path. Existing files are never overwritten.
func Save(dir string, b []byte) (string, error) {
	if !IsDir(dir) {
		return "", errors.Wrap(ErrNotDir, dir)
	}

	base := Filename(time.Now())
	var filename string
	var w *os.File
	err := try.Do(func(attempt int) (bool, error) {
		filename = filepath.Join(dir, base)
		if 1 < attempt {
			filename = filepath.Join(dir, fmt.Sprintf("%s-%d.svg", strings.TrimSuffix(base, ".svg"), attempt-1))
		}
		var ferr error
		w, ferr = os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
		return attempt < Attempts && os.IsExist(ferr), ferr
	})
	if err != nil {
		return "", errors.Wrapf(err, "create output file in %q", dir)
	}

	if _, err := w.Write(b); err != nil {
		w.Close()
		os.Remove(filename)
		return "", errors.Wrapf(err, "write output file %q", filename)
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrapf(err, "close output file %q", filename)
	}
	return filename, nil
}

// TrySave is like Save but swallows all failures, ok is false when nothing was saved.
func TrySave(dir string, b []byte) (string, bool) {
	filename, err := Save(dir, b)
	return filename, err == nil
}

// PreserveTimes sets the access and modification times of dst to those of src.
func PreserveTimes(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.Chtimes(dst, atime.Get(info), info.ModTime()); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
