package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/seatmap/internal/server"
	"github.com/matzehuels/seatmap/pkg/config"
	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/errors"
)

const testDraft = `{
  "name": "Friday",
  "tables": [
    {"id": "t1", "x": 0, "y": 0, "width": 100, "height": 100, "name": "Bar"},
    {"id": "t2", "x": 300, "y": 200, "width": 100, "height": 100, "name": "Window"}
  ]
}`

// testEnv writes a config file pointing at a file store in a temp dir and
// returns its path plus a layout draft file.
func testEnv(t *testing.T, owner string) (cfgPath, draftPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	cfgPath = filepath.Join(dir, "config.toml")
	cfg := "[store]\nbackend = \"file\"\ndir = \"" + filepath.Join(dir, "layouts") + "\"\n\n[server]\njwt_secret = \"s3cret\"\n"
	if owner != "" {
		cfg = "owner = \"" + owner + "\"\n" + cfg
	}
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	draftPath = filepath.Join(dir, "friday.json")
	if err := os.WriteFile(draftPath, []byte(testDraft), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, draftPath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func listIDs(t *testing.T, cfgPath string) []string {
	t.Helper()
	out, err := runCLI(t, "--config", cfgPath, "list", "--plain")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var ids []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 3 || fields[1] != "Friday" || fields[2] != "2" {
			t.Fatalf("list line = %q, want id, Friday, 2", line)
		}
		ids = append(ids, fields[0])
	}
	return ids
}

func TestLayoutCommands(t *testing.T) {
	cfgPath, draftPath := testEnv(t, "club-1")

	out, err := runCLI(t, "--config", cfgPath, "save", draftPath)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(out, "Saved 2 tables") {
		t.Errorf("save output = %q", out)
	}

	ids := listIDs(t, cfgPath)
	if len(ids) != 1 {
		t.Fatalf("listed %d layouts, want 1", len(ids))
	}
	id := ids[0]
	if !strings.Contains(out, id) {
		t.Errorf("save output %q does not mention id %s", out, id)
	}

	out, err = runCLI(t, "--config", cfgPath, "load", id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(out, `"Friday"`) || !strings.Contains(out, `"Window"`) {
		t.Errorf("load output = %q", out)
	}

	out, err = runCLI(t, "--config", cfgPath, "render", id, "--format", "json")
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	var frame struct {
		Scale float64           `json:"scale"`
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &frame); err != nil {
		t.Fatalf("decode render output: %v", err)
	}
	if len(frame.Items) != 2 || frame.Scale <= 0 {
		t.Errorf("render json = %d items at scale %v, want 2 items", len(frame.Items), frame.Scale)
	}

	if _, err := runCLI(t, "--config", cfgPath, "delete", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ids := listIDs(t, cfgPath); len(ids) != 0 {
		t.Errorf("layouts after delete = %v, want none", ids)
	}
	if _, err := runCLI(t, "--config", cfgPath, "load", id); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("load after delete error = %v, want NOT_FOUND", err)
	}
}

func TestSaveNameOverride(t *testing.T) {
	cfgPath, draftPath := testEnv(t, "club-1")
	if _, err := runCLI(t, "--config", cfgPath, "save", draftPath, "--name", "Saturday"); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := runCLI(t, "--config", cfgPath, "list", "--plain")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "\tSaturday\t2") {
		t.Errorf("list output = %q, want Saturday", out)
	}
}

func TestRenderFile(t *testing.T) {
	cfgPath, draftPath := testEnv(t, "")
	out, err := runCLI(t, "--config", cfgPath, "render", draftPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<svg", `id="table-t1"`, ">Window</text>"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	outFile := filepath.Join(t.TempDir(), "plan.svg")
	if _, err := runCLI(t, "--config", cfgPath, "render", draftPath, "-o", outFile, "--labels=false"); err != nil {
		t.Fatalf("render to file: %v", err)
	}
	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `<text class="table-label"`) {
		t.Error("labels drawn with --labels=false")
	}
}

func TestRenderRejects(t *testing.T) {
	cfgPath, draftPath := testEnv(t, "")
	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"--format", "png"}},
		{"width", []string{"--width", "0"}},
		{"height", []string{"--height=-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath, "render", draftPath}, tt.args...)
			if _, err := runCLI(t, args...); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestCommandsNeedOwner(t *testing.T) {
	cfgPath, draftPath := testEnv(t, "")
	for _, args := range [][]string{
		{"save", draftPath},
		{"list"},
		{"delete", "some-id"},
		{"token"},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := runCLI(t, append([]string{"--config", cfgPath}, args...)...)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}

	// --owner overrides the config file.
	if _, err := runCLI(t, "--config", cfgPath, "--owner", "club-9", "save", draftPath); err != nil {
		t.Errorf("save with --owner: %v", err)
	}
}

func TestTokenCommand(t *testing.T) {
	cfgPath, _ := testEnv(t, "club-1")
	auth := server.NewAuthenticator("s3cret")

	tests := []struct {
		role string
		want editor.Principal
	}{
		{server.RoleOwner, editor.ClubOwner{ID: "club-1"}},
		{server.RoleGuest, editor.Guest{}},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			out, err := runCLI(t, "--config", cfgPath, "token", "--role", tt.role)
			if err != nil {
				t.Fatalf("token: %v", err)
			}
			p, err := auth.Verify(strings.TrimSpace(out))
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if p != tt.want {
				t.Errorf("principal = %v, want %v", p, tt.want)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	cfgPath, _ := testEnv(t, "club-1")

	out, err := runCLI(t, "--config", cfgPath, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != cfgPath {
		t.Errorf("config path = %q, want %q", out, cfgPath)
	}

	out, err = runCLI(t, "--config", cfgPath, "--store", "memory", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	parsed, err := config.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("config show output does not parse: %v", err)
	}
	if parsed.Owner != "club-1" || parsed.Store.Backend != "memory" {
		t.Errorf("owner, backend = %q, %q, want club-1, memory", parsed.Owner, parsed.Store.Backend)
	}
	if strings.Contains(out, "s3cret") {
		t.Error("config show printed the jwt secret")
	}
}

func TestEditPrincipal(t *testing.T) {
	tests := []struct {
		owner string
		guest bool
		want  editor.Principal
	}{
		{"club-1", false, editor.ClubOwner{ID: "club-1"}},
		{"club-1", true, editor.Guest{}},
		{"", false, editor.Guest{}},
	}
	for _, tt := range tests {
		got := editPrincipal(&config.Config{Owner: tt.owner}, tt.guest)
		if got != tt.want {
			t.Errorf("editPrincipal(%q, %v) = %v, want %v", tt.owner, tt.guest, got, tt.want)
		}
	}
}

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheClear(t *testing.T) {
	cfgPath, _ := testEnv(t, "")

	out, err := runCLI(t, "--config", cfgPath, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("output = %q, want empty cache", out)
	}

	fc, err := openIconCache()
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), "icon:x", []byte("png"), 0); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "--config", cfgPath, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("output = %q, want one entry cleared", out)
	}
}
