package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/graphdiff/pkg/diff"
	gderrors "github.com/matzehuels/graphdiff/pkg/errors"
)

const (
	triangleJSON = `{
  "nodes": [{"id": "a"}, {"id": "b"}, {"id": "c"}],
  "edges": [{"from": "a", "to": "b"}, {"from": "b", "to": "c"}, {"from": "c", "to": "a"}]
}`

	triangleTailYAML = `nodes:
  - id: x
  - id: y
  - id: z
  - id: w
edges:
  - {from: x, to: y}
  - {from: y, to: z}
  - {from: z, to: x}
  - {from: z, to: w}
`
)

// graphFiles writes the fixture graphs and returns their paths.
func graphFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	return writeFile(t, dir, "old.json", triangleJSON), writeFile(t, dir, "new.yaml", triangleTailYAML)
}

func TestDiffJSONToStdout(t *testing.T) {
	isolate(t)
	g1, g2 := graphFiles(t)

	out, err := execute(t, "diff", g1, g2, "--algorithm", "exact", "--format", "json")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	var d diff.Diff
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("stdout is not a JSON diff: %v\n%s", err, out)
	}
	if d.Score != 6 || d.MaxScore != 6 {
		t.Errorf("score = %d/%d, want 6/6", d.Score, d.MaxScore)
	}
	if len(d.Added) != 1 || d.Added[0] != "w" {
		t.Errorf("added = %v, want [w]", d.Added)
	}
	if len(d.Removed) != 0 || len(d.RemovedEdges) != 0 {
		t.Errorf("nothing should be removed: %+v", d)
	}
}

func TestDiffTextDefault(t *testing.T) {
	isolate(t)
	g1, g2 := graphFiles(t)

	out, err := execute(t, "diff", g1, g2, "--seed", "7", "--agents", "5", "--iterations", "50")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.HasPrefix(out, "# score ") {
		t.Errorf("text output should start with the score line:\n%s", out)
	}
	if !strings.Contains(out, "+ ") {
		t.Errorf("the extra vertex should show as added:\n%s", out)
	}
}

func TestDiffMultipleFormats(t *testing.T) {
	isolate(t)
	g1, g2 := graphFiles(t)
	base := filepath.Join(t.TempDir(), "result")

	out, err := execute(t, "diff", g1, g2, "--algorithm", "exact", "--format", "json,dot,text", "-o", base+".json")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if out != "" {
		t.Errorf("nothing should go to stdout when writing files, got %q", out)
	}
	for _, ext := range []string{"json", "dot", "txt"} {
		data, err := os.ReadFile(base + "." + ext)
		if err != nil {
			t.Errorf("missing %s output: %v", ext, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}
}

func TestDiffCachesExactRuns(t *testing.T) {
	dir := isolate(t)
	g1, g2 := graphFiles(t)
	cacheRoot := filepath.Join(dir, "cache", appName)

	if _, err := execute(t, "diff", g1, g2, "--algorithm", "exact", "--no-cache"); err != nil {
		t.Fatal(err)
	}
	if entries, _ := os.ReadDir(cacheRoot); len(entries) != 0 {
		t.Fatalf("--no-cache wrote %d cache entries", len(entries))
	}

	first, err := execute(t, "diff", g1, g2, "--algorithm", "exact")
	if err != nil {
		t.Fatal(err)
	}
	if entries, _ := os.ReadDir(cacheRoot); len(entries) == 0 {
		t.Fatal("exact run should be cached")
	}
	second, err := execute(t, "diff", g1, g2, "--algorithm", "exact")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("cached output differs:\n%s\n---\n%s", first, second)
	}

	out, err := execute(t, "cache", "path")
	if err != nil || strings.TrimSpace(out) != cacheRoot {
		t.Errorf("cache path = %q, err = %v", out, err)
	}
	if _, err := execute(t, "cache", "info"); err != nil {
		t.Errorf("cache info: %v", err)
	}
	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if entries, _ := os.ReadDir(cacheRoot); len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestDiffUsesConfigFile(t *testing.T) {
	isolate(t)
	g1, g2 := graphFiles(t)
	cfg := writeFile(t, t.TempDir(), "gd.toml", "[diff]\nalgorithm = \"exact\"\nformats = [\"json\"]\n")

	out, err := execute(t, "--config", cfg, "diff", g1, g2)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid([]byte(out)) {
		t.Errorf("config formats should select JSON output, got:\n%s", out)
	}

	out, err = execute(t, "--config", cfg, "diff", g1, g2, "--format", "text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "# score 6/6") {
		t.Errorf("--format should override the config, got:\n%s", out)
	}
}

func TestDiffMetricsFile(t *testing.T) {
	isolate(t)
	g1, g2 := graphFiles(t)
	metrics := filepath.Join(t.TempDir(), "graphdiff.prom")

	if _, err := execute(t, "diff", g1, g2, "--algorithm", "exact", "--metrics-file", metrics); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{"graphdiff_run_total", "graphdiff_search_total", "graphdiff_render_total"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("metrics file missing %s", want)
		}
	}
}

func TestDiffErrors(t *testing.T) {
	isolate(t)
	g1, g2 := graphFiles(t)

	tests := []struct {
		name string
		args []string
		code gderrors.Code
	}{
		{"unknown algorithm", []string{"diff", g1, g2, "--algorithm", "genetic"}, gderrors.ErrCodeInvalidAlgorithm},
		{"unknown format", []string{"diff", g1, g2, "--format", "gif"}, gderrors.ErrCodeInvalidFormat},
		{"bad extension", []string{"diff", g1, "graph.txt"}, gderrors.ErrCodeInvalidFormat},
		{"negative agents", []string{"diff", g1, g2, "--agents=-2"}, gderrors.ErrCodeInvalidParams},
		{"exact too large", []string{"diff", g1, g2, "--algorithm", "exact", "--max-exact-vertices", "2"}, gderrors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !gderrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}

	if _, err := execute(t, "diff", g1, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing graph file")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, want string
	}{
		{"", filepath.Join("data", "old_vs_new")},
		{"out.svg", "out"},
		{"out.txt", "out"},
		{"out.report", "out.report"},
		{"dir/out", "dir/out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, filepath.Join("data", "old.json"), "elsewhere/new.yaml"); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.output, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"text": []byte("# score"), "png": []byte("PNG")}
	g1 := filepath.Join(dir, "a.json")

	var stdout bytes.Buffer
	paths, err := writeArtifacts(&stdout, artifacts, []string{"text"}, g1, "b.json", "")
	if err != nil || len(paths) != 0 || stdout.String() != "# score" {
		t.Errorf("text to stdout: paths=%v err=%v out=%q", paths, err, stdout.String())
	}

	stdout.Reset()
	paths, err = writeArtifacts(&stdout, artifacts, []string{"png"}, g1, "b.json", "")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "a_vs_b.png")
	if len(paths) != 1 || paths[0] != want || stdout.Len() != 0 {
		t.Errorf("png should never go to stdout: paths=%v", paths)
	}

	explicit := filepath.Join(dir, "custom.bin")
	paths, err = writeArtifacts(&stdout, artifacts, []string{"png"}, g1, "b.json", explicit)
	if err != nil || len(paths) != 1 || paths[0] != explicit {
		t.Errorf("explicit output: paths=%v err=%v", paths, err)
	}
}

func TestDiffExamples(t *testing.T) {
	isolate(t)
	house := filepath.Join("..", "..", "examples", "house.json")
	garage := filepath.Join("..", "..", "examples", "house_garage.yaml")

	out, err := execute(t, "--config", filepath.Join("..", "..", "examples", "config.toml"),
		"diff", house, garage, "--algorithm", "exact", "--format", "json")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	var d diff.Diff
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatal(err)
	}
	if d.Score != 10 {
		t.Errorf("score = %d, want 10 (the outer cycle survives)", d.Score)
	}
	if len(d.Added) != 1 || d.Added[0] != "garage" {
		t.Errorf("added = %v, want [garage]", d.Added)
	}
	if len(d.RemovedEdges) != 1 || d.RemovedEdges[0].From != "nw" || d.RemovedEdges[0].To != "ne" {
		t.Errorf("removed edges = %v, want [nw -- ne]", d.RemovedEdges)
	}
}
