package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatmap/pkg/document"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
	"github.com/matzehuels/seatmap/pkg/render"
	"github.com/matzehuels/seatmap/pkg/store"
)

const testSecret = "test-secret"

type fixture struct {
	t     *testing.T
	store *store.MemoryStore
	auth  *Authenticator
	srv   *httptest.Server
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	n := 0
	st := store.NewMemoryStore(store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("layout-%d", n)
	}))
	auth := NewAuthenticator(testSecret)
	opts = append([]Option{
		WithAuthenticator(auth),
		WithLogger(log.New(io.Discard)),
	}, opts...)
	srv := httptest.NewServer(New(st, opts...).Handler())
	t.Cleanup(srv.Close)
	return &fixture{t: t, store: st, auth: auth, srv: srv}
}

func (f *fixture) token(owner, role string) string {
	f.t.Helper()
	tok, err := f.auth.Issue(owner, role, time.Hour)
	if err != nil {
		f.t.Fatal(err)
	}
	return tok
}

func (f *fixture) do(method, path, token string, body any) *http.Response {
	f.t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				f.t.Fatal(err)
			}
			r = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequest(method, f.srv.URL+path, r)
	if err != nil {
		f.t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.srv.Client().Do(req)
	if err != nil {
		f.t.Fatal(err)
	}
	f.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func sampleDraft() document.Draft {
	a, b := floor.NewTable(0, 0), floor.NewTable(300, 200)
	a.ID, a.Name = "t1", "Table 1"
	b.ID, b.Name = "t2", "Table 2"
	return document.Draft{Name: "Friday", Tables: []floor.Table{a, b}}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp := f.do(http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := decode[map[string]string](t, resp); got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestSaveRequiresOwner(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"guest", f.token("", RoleGuest), http.StatusForbidden},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"owner", f.token("club-1", RoleOwner), http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(http.MethodPost, "/layouts", tt.token, sampleDraft())
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestSaveLoadListDelete(t *testing.T) {
	f := newFixture(t)
	owner := f.token("club-1", RoleOwner)

	resp := f.do(http.MethodPost, "/layouts", owner, sampleDraft())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save status = %d", resp.StatusCode)
	}
	id := decode[map[string]string](t, resp)["id"]
	if id != "layout-1" || resp.Header.Get("Location") != "/layouts/layout-1" {
		t.Errorf("id = %q location = %q", id, resp.Header.Get("Location"))
	}

	// A second save of the same draft creates a second layout.
	resp = f.do(http.MethodPost, "/layouts", owner, sampleDraft())
	if got := decode[map[string]string](t, resp)["id"]; got != "layout-2" {
		t.Errorf("second id = %q", got)
	}

	resp = f.do(http.MethodGet, "/layouts/"+id, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("load status = %d", resp.StatusCode)
	}
	doc := decode[document.Document](t, resp)
	if doc.OwnerID != "club-1" || doc.Name != "Friday" || len(doc.Tables) != 2 {
		t.Errorf("loaded %+v", doc)
	}

	resp = f.do(http.MethodGet, "/layouts", owner, nil)
	if list := decode[[]document.Summary](t, resp); len(list) != 2 {
		t.Errorf("list has %d entries", len(list))
	}
	resp = f.do(http.MethodGet, "/layouts", f.token("club-2", RoleOwner), nil)
	if list := decode[[]document.Summary](t, resp); len(list) != 0 {
		t.Errorf("other owner sees %d entries", len(list))
	}

	resp = f.do(http.MethodDelete, "/layouts/"+id, f.token("club-2", RoleOwner), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign delete status = %d", resp.StatusCode)
	}
	resp = f.do(http.MethodDelete, "/layouts/"+id, owner, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp = f.do(http.MethodGet, "/layouts/"+id, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("load after delete status = %d", resp.StatusCode)
	}
	if body := decode[errorBody](t, resp); body.Code != errors.ErrCodeNotFound {
		t.Errorf("error body = %+v", body)
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	owner := f.token("club-1", RoleOwner)
	tests := []struct {
		name string
		body any
		want int
	}{
		{"malformed json", `{"name": `, http.StatusBadRequest},
		{"unknown field", `{"name": "x", "colour": "red"}`, http.StatusBadRequest},
		{"zero width", document.Draft{Tables: []floor.Table{{X: 1, Y: 1, Height: 10}}}, http.StatusUnprocessableEntity},
		{"long name", document.Draft{Name: strings.Repeat("x", 51)}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(http.MethodPost, "/layouts", owner, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
	if list, _ := f.store.List(context.Background(), "club-1"); len(list) != 0 {
		t.Errorf("rejected saves stored %d layouts", len(list))
	}
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	id, err := f.store.Save(context.Background(), "club-1", "Gala", sampleDraft().Tables)
	if err != nil {
		t.Fatal(err)
	}

	resp := f.do(http.MethodGet, "/layouts/"+id+"/render?width=200&height=150&labels=true", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	svg := string(body)
	for _, want := range []string{"<svg", "<title>Gala</title>", `id="table-t1"`, ">Table 1</text>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	resp = f.do(http.MethodGet, "/layouts/"+id+"/render?width=200&height=150&format=json", "", nil)
	out := decode[struct {
		Scale float64           `json:"scale"`
		Mode  string            `json:"mode"`
		Items []render.DrawItem `json:"items"`
	}](t, resp)
	// Extent 400x300 in 200x150 fits at 0.5.
	if out.Scale != 0.5 || out.Mode != "auto-fit" || len(out.Items) != 2 {
		t.Errorf("json render = %+v", out)
	}
	if it := out.Items[1]; it.ScreenX != 150 || it.ScreenWidth != 50 {
		t.Errorf("second item = %+v", it)
	}
}

func TestRenderRejects(t *testing.T) {
	f := newFixture(t)
	id, _ := f.store.Save(context.Background(), "club-1", "", nil)
	tests := []struct {
		query string
		want  int
	}{
		{"?width=0", http.StatusBadRequest},
		{"?height=abc", http.StatusBadRequest},
		{"?width=NaN", http.StatusBadRequest},
		{"?width=20000", http.StatusBadRequest},
		{"?format=png", http.StatusBadRequest},
		{"", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := f.do(http.MethodGet, "/layouts/"+id+"/render"+tt.query, "", nil)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
	if resp := f.do(http.MethodGet, "/layouts/missing/render", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing layout status = %d", resp.StatusCode)
	}
}

func TestRenderWithIcon(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	tests := []struct {
		name      string
		loader    render.AssetLoaderFunc
		wantImage bool
		wantGroup bool
	}{
		{
			name:      "loaded",
			loader:    func(context.Context, string) ([]byte, error) { return png, nil },
			wantImage: true,
			wantGroup: true,
		},
		{
			name:   "failed",
			loader: func(context.Context, string) ([]byte, error) { return nil, io.ErrUnexpectedEOF },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, WithIcon(tt.loader, "https://cdn.example/table1.png"))
			id, _ := f.store.Save(context.Background(), "club-1", "", sampleDraft().Tables)

			resp := f.do(http.MethodGet, "/layouts/"+id+"/render", "", nil)
			body, _ := io.ReadAll(resp.Body)
			svg := string(body)
			if got := strings.Contains(svg, "data:image/png;base64,"); got != tt.wantImage {
				t.Errorf("image present = %v, want %v", got, tt.wantImage)
			}
			if got := strings.Contains(svg, "<g id="); got != tt.wantGroup {
				t.Errorf("table groups present = %v, want %v", got, tt.wantGroup)
			}
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	resp := f.do(http.MethodGet, "/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := NewMetrics()
	f := newFixture(t, WithMetrics(m))
	f.do(http.MethodGet, "/healthz", "", nil)

	resp := f.do(http.MethodGet, "/metrics", "", nil)
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `seatmap_http_requests_total{method="GET",route="/healthz",status="200"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidGeometry, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeStorage, "x"), http.StatusServiceUnavailable},
		{errors.New(errors.ErrCodeSchemaMismatch, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeUnauthorized, "x"), http.StatusUnauthorized},
		{errors.New(errors.ErrCodeForbidden, "x"), http.StatusForbidden},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
