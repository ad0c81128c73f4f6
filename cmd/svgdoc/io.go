package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tdewolff/svgdoc/svgfile"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func readInput(input string) (string, error) {
	if input == "" {
		s, err := svgfile.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return s, nil
	}
	return svgfile.Read(input)
}

// writeOutput writes b to stdout, or to a new file in dir, and returns the destination.
// In permissive mode failures to save are ignored and the destination is empty.
func writeOutput(dir string, b []byte) (string, error) {
	if dir == "" {
		if _, err := stdout.Write(b); err != nil {
			return "", fmt.Errorf("write stdout: %w", err)
		}
		return "stdout", nil
	} else if permissive {
		filename, _ := svgfile.TrySave(dir, b)
		return filename, nil
	}
	return svgfile.Save(dir, b)
}
