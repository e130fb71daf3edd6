package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-knots/internal/mdimport"
)

// testEnv returns an environment writing to buffers, with logs discarded.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:      time.Now,
		Stdout:   &stdout,
		Stderr:   &stderr,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Importer: mdimport.New(),
	}
	return env, &stdout, &stderr
}

// writeFile creates dir/name (and missing parents) with content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

const sampleMarkdown = "# Guide\n\nSome *text*.\n\n```go\npackage main\n```\n"

const sampleTree = `title: Tree
root:
  kind: container
  children:
    - {kind: heading, level: 1, anchor: start, title: Start}
    - {kind: math, source: "x^2"}
`
