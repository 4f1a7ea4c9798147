package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func noEnv(string) string { return "" }

// runCLI runs the command in-process with an isolated home directory.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := run(context.Background(), args, strings.NewReader(stdin), stdout, stderr, noEnv)
	return stdout.String(), stderr.String(), err
}

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func exitCode(err error) int {
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestRunVersion(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		stdout, _, err := runCLI(t, "", flag)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "monkey version") {
			t.Errorf("expected version output, got %q", stdout)
		}
	}
}

func TestRunHelp(t *testing.T) {
	stdout, _, err := runCLI(t, "", "--help")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, want := range []string{"monkey - Monkey language interpreter", "--check", "--watch", "fmt"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in help, got %q", want, stdout)
		}
	}
}

func TestRunInvalidFlag(t *testing.T) {
	_, stderr, err := runCLI(t, "", "--invalid-flag")
	if err == nil {
		t.Error("expected error for invalid flag")
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("expected usage on stderr, got %q", stderr)
	}
}

func TestEvaluateInline(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"number", "1 + 2", "3\n"},
		{"string", `"hello"`, "\"hello\"\n"},
		{"array", "[1, 2, 3]", "[1, 2, 3]\n"},
		{"object", `{"a": 1}`, "{\"a\": 1}\n"},
		{"null", "if (false) { 1 }", "null\n"},
		{"puts then value", `puts("x"); 5`, "\"x\"\n5\n"},
		{"function", "fn(x) { x * 2 }", "fn(x){\n(x * 2)\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, "", "-e", tt.code)
			if err != nil {
				t.Fatalf("command failed: %v\nstderr: %s", err, stderr)
			}
			if stdout != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stdout)
			}
		})
	}
}

func TestEvaluateInlineError(t *testing.T) {
	stdout, stderr, err := runCLI(t, "", "-e", "1 / 0")
	if exitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}

	expected := "Runtime error:\n  in: <eval>\n  at: line 1, column 3\n  division by zero\n    1 / 0\n      ^\n"
	if stderr != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, stderr)
	}
}

func TestExecuteFile(t *testing.T) {
	path := writeScript(t, "hello.mk", `let greet = fn(name) { "Hello, " + name };
puts(greet("Monkey"));
len(greet("x"))
`)

	stdout, stderr, err := runCLI(t, "", path)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
	}
	if stdout != "\"Hello, Monkey\"\n" {
		t.Errorf("expected only puts output, got %q", stdout)
	}

	stdout, _, err = runCLI(t, "", "--print", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "\"Hello, Monkey\"\n8\n" {
		t.Errorf("expected puts output and result, got %q", stdout)
	}
}

func TestExecuteFileRuntimeError(t *testing.T) {
	path := writeScript(t, "broken.mk", "let total = 10;\n\tlet avg = totl / 2;\n")

	_, stderr, err := runCLI(t, "", path)
	if exitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}

	for _, want := range []string{
		"Runtime error",
		"in: " + path,
		"at: line 2, column 12",
		"identifier not found: totl",
		"Did you mean `total`?",
		"    let avg = totl / 2;\n              ^\n",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("expected %q in stderr:\n%s", want, stderr)
		}
	}
}

func TestExecuteMissingFile(t *testing.T) {
	_, stderr, err := runCLI(t, "", filepath.Join(t.TempDir(), "missing.mk"))
	if exitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if !strings.Contains(stderr, "Error: failed to read") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestCheckFiles(t *testing.T) {
	good := writeScript(t, "good.mk", "let x = 1; undefinedIsFine(x)")
	bad := writeScript(t, "bad.mk", "let x = 1;\nlet = 2;\n")

	stdout, _, err := runCLI(t, "", "--check", good)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != good+": ok\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	_, stderr, err := runCLI(t, "", "--check", good, bad)
	if exitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if !strings.Contains(stderr, "Parse error") || !strings.Contains(stderr, "at: line 2, column 5") {
		t.Errorf("unexpected stderr:\n%s", stderr)
	}

	_, _, err = runCLI(t, "", "--check", filepath.Join(t.TempDir(), "missing.mk"))
	if exitCode(err) != 2 {
		t.Errorf("expected exit code 2 for unreadable file, got %v", err)
	}

	_, _, err = runCLI(t, "", "--check")
	if exitCode(err) != 2 {
		t.Errorf("expected exit code 2 without files, got %v", err)
	}
}

func TestConfigLimits(t *testing.T) {
	cfgPath := writeScript(t, "monkey.yaml", "limits:\n  max_call_depth: 5\n")
	code := "let f = fn(n) { if (n == 0) { 0 } else { f(n - 1) } }; f(10)"

	_, stderr, err := runCLI(t, "", "--config", cfgPath, "-e", code)
	if exitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if !strings.Contains(stderr, "maximum call depth exceeded (5)") {
		t.Errorf("unexpected stderr %q", stderr)
	}

	_, _, err = runCLI(t, "", "--config", filepath.Join(t.TempDir(), "none.yaml"), "-e", "1")
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("expected missing config error, got %v", err)
	}
}

func TestREPLFromPipe(t *testing.T) {
	stdout, _, err := runCLI(t, "let a = 2\na * 21\nbogus\na\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(stdout, "2\n42\n") {
		t.Errorf("unexpected output %q", stdout)
	}
	if !strings.Contains(stdout, "identifier not found: bogus") {
		t.Errorf("expected error in output %q", stdout)
	}
	if !strings.HasSuffix(stdout, "2\n\n") {
		t.Errorf("REPL should continue after an error, got %q", stdout)
	}
}

func TestFmtCommand(t *testing.T) {
	path := writeScript(t, "messy.mk", "let add=fn(a,b){a+b}\nadd(1,2)")
	expected := "let add = fn(a, b) { a + b };\n\nadd(1, 2);\n"

	stdout, _, err := runCLI(t, "", "fmt", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}

	stdout, _, err = runCLI(t, "", "fmt", "-l", path)
	if err != nil || stdout != path+"\n" {
		t.Errorf("fmt -l = %q, %v", stdout, err)
	}

	stdout, _, err = runCLI(t, "", "fmt", "-d", path)
	if err != nil || !strings.Contains(stdout, "diff "+path) || !strings.Contains(stdout, "-1: let add=fn(a,b){a+b}") {
		t.Errorf("fmt -d = %q, %v", stdout, err)
	}

	if _, _, err := runCLI(t, "", "fmt", "-w", path); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != expected {
		t.Errorf("file after fmt -w = %q", content)
	}

	stdout, _, err = runCLI(t, "", "fmt", "-l", path)
	if err != nil || stdout != "" {
		t.Errorf("formatted file should not be listed, got %q, %v", stdout, err)
	}
}

func TestFmtCommandErrors(t *testing.T) {
	bad := writeScript(t, "bad.mk", "let x = ;")

	_, stderr, err := runCLI(t, "", "fmt", bad)
	if exitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if !strings.Contains(stderr, "Parse error") || !strings.Contains(stderr, "formatting "+bad) {
		t.Errorf("unexpected stderr:\n%s", stderr)
	}

	_, _, err = runCLI(t, "", "fmt")
	if exitCode(err) != 2 {
		t.Errorf("expected exit code 2 without files, got %v", err)
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, output so far:\n%s", want, buf.String())
}

func TestWatchReruns(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeScript(t, "watched.mk", `puts("first")`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stdout := &syncBuffer{}
	stderr := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{"--watch", path}, strings.NewReader(""), stdout, stderr, noEnv)
	}()

	waitFor(t, stdout, "\"first\"\n")

	if err := os.WriteFile(path, []byte(`puts("second")`), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, stdout, "\"second\"\n")

	if err := os.WriteFile(path, []byte(`puts(oops)`), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, stderr, "identifier not found: oops")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	if !strings.Contains(stdout.String(), "[WATCH] watching ") {
		t.Errorf("expected watch banner, got %q", stdout.String())
	}
}

func TestWatchRequiresOneFile(t *testing.T) {
	_, _, err := runCLI(t, "", "--watch")
	if exitCode(err) != 2 {
		t.Errorf("expected exit code 2, got %v", err)
	}
}
