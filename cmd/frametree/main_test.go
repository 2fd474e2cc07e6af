package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/frametree/internal/errors"
	"github.com/vango-dev/frametree/pkg/protocol"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func diagnosticCode(t *testing.T, err error) string {
	t.Helper()
	var d *errors.Diagnostic
	if !stderrors.As(diagnose(err), &d) {
		t.Fatalf("diagnose(%v) is not a Diagnostic", err)
	}
	return d.Code
}

func TestRenderDemoText(t *testing.T) {
	out, err := run(t, "render", "--config", t.TempDir(), "--demo", "counter")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, want := range []string{"Element(span", `Text("10"`, "Attribute(onclick="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDemoJSON(t *testing.T) {
	out, err := run(t, "render", "--config", t.TempDir(), "--demo", "page", "--format", "json")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	var nodes []protocol.Node
	if err := json.Unmarshal([]byte(out), &nodes); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(nodes) != 3 || nodes[0].Name != "Demo.Layout" {
		t.Fatalf("nodes = %+v", nodes)
	}
	if len(nodes[2].Fragment) != 7 {
		t.Errorf("layout content = %d nodes, want 7", len(nodes[2].Fragment))
	}
}

func TestRenderDemoHTML(t *testing.T) {
	out, err := run(t, "render", "--config", t.TempDir(), "--demo", "page", "--format", "html")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	want := `<header><h1>Welcome</h1></header><main><article class="card card-highlighted" data-role="demo">Live<h2>Counter</h2>` +
		`<span class="count">Count: 1</span><button>+</button></article></main>`
	if out != want {
		t.Errorf("html =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderFileWithSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.yaml")
	src := "nodes:\n  - element: p\n    children:\n      - Hello\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "hello.ftd")

	_, err := run(t, "render", path, "--config", dir, "--format", "binary", "--output", outPath, "--snapshot", "docs/hello")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := protocol.DecodeFrames(data, nil)
	if err != nil {
		t.Fatalf("DecodeFrames() error = %v", err)
	}
	if len(fs) != 2 || fs[1].Text != "Hello" {
		t.Errorf("frames =\n%s", fs.Dump())
	}

	stored := filepath.Join(dir, ".frametree", "snapshots", "docs", "hello.ftd")
	if _, err := os.Stat(stored); err != nil {
		t.Errorf("snapshot not stored: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("nodes:\n  - bogus: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	undeclared := filepath.Join(dir, "undeclared.yaml")
	if err := os.WriteFile(undeclared, []byte("nodes:\n  - component: Demo.Card\n    attrs:\n      Selected: \"1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no input", []string{"render"}, "F080"},
		{"file and demo", []string{"render", bad, "--demo", "page"}, "F080"},
		{"unknown demo", []string{"render", "--demo", "nope"}, "F080"},
		{"bad format", []string{"render", "--demo", "page", "--format", "xml"}, "F080"},
		{"bad node", []string{"render", bad}, "F021"},
		{"undeclared", []string{"render", undeclared}, "F001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(tt.args, "--config", dir)...)
			if err == nil {
				t.Fatal("render error = nil")
			}
			if got := diagnosticCode(t, err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestUndeclaredMessage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.yaml")
	src := "nodes:\n  - component: Demo.Card\n    attrs:\n      Selected: \"1\"\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "render", path, "--config", dir)
	want := "Object of type 'Demo.Card' has a property matching the name 'Selected', but it does not have the parameter declaration applied."
	if err == nil || err.Error() != want {
		t.Errorf("err = %v, want %q", err, want)
	}
}

func TestCatalog(t *testing.T) {
	out, err := run(t, "catalog")
	if err != nil {
		t.Fatalf("catalog error = %v", err)
	}
	for _, want := range []string{"Demo.Card", "Demo.Counter", "OnSelect", "capture"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog missing %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != "dev\n" {
		t.Errorf("version = %q, want dev", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "frametree.json"), []byte(`{"maxFragmentDepth": 5000}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "render", "--config", dir, "--demo", "page")
	if got := diagnosticCode(t, err); got != "F041" {
		t.Errorf("code = %s, want F041", got)
	}
}
