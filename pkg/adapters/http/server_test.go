package http_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/brainloop"
	httpadapter "github.com/aretw0/brainloop/pkg/adapters/http"
	"github.com/aretw0/brainloop/pkg/adapters/memory"
	"github.com/aretw0/brainloop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func newServer(t *testing.T, engineOpts []brainloop.Option, opts ...httpadapter.Option) (*httptest.Server, *memory.Store) {
	t.Helper()
	eng, err := brainloop.New(engineOpts...)
	require.NoError(t, err)
	store := memory.NewStore()
	srv := httptest.NewServer(httpadapter.NewHandler(eng, store, opts...))
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestServer_Run(t *testing.T) {
	srv, _ := newServer(t, nil)

	resp := do(t, http.MethodPost, srv.URL+"/run", mustJSON(t, httpadapter.RunRequest{Source: helloWorld}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body := decode[httpadapter.RunResponse](t, resp)
	assert.Equal(t, "Hello World!\n", body.Output)
	assert.NotZero(t, body.Steps)
	assert.Empty(t, body.Error)
}

func TestServer_Run_Echo(t *testing.T) {
	srv, _ := newServer(t, []brainloop.Option{brainloop.WithEOFPolicy(domain.EOFSetZero)})

	resp := do(t, http.MethodPost, srv.URL+"/run", mustJSON(t, httpadapter.RunRequest{Source: ",[.,]", Input: "abc"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc", decode[httpadapter.RunResponse](t, resp).Output)
}

func TestServer_Run_BinaryInput(t *testing.T) {
	srv, _ := newServer(t, nil)

	in := base64.StdEncoding.EncodeToString([]byte{0xff})
	resp := do(t, http.MethodPost, srv.URL+"/run", mustJSON(t, httpadapter.RunRequest{Source: ",.", InputBase64: in}))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[httpadapter.RunResponse](t, resp)
	raw, err := base64.StdEncoding.DecodeString(body.OutputBase64)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, raw)
}

func TestServer_Run_Mismatch(t *testing.T) {
	srv, _ := newServer(t, nil)

	resp := do(t, http.MethodPost, srv.URL+"/run", mustJSON(t, httpadapter.RunRequest{Source: "+]"}))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[httpadapter.ErrorResponse](t, resp)
	assert.Equal(t, "unexpected_close", body.Kind)
	require.NotNil(t, body.Position)
	assert.Equal(t, 1, *body.Position)
}

func TestServer_Run_StepLimit(t *testing.T) {
	srv, _ := newServer(t, []brainloop.Option{brainloop.WithStepLimit(100)})

	resp := do(t, http.MethodPost, srv.URL+"/run", mustJSON(t, httpadapter.RunRequest{Source: ".+[]"}))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decode[httpadapter.RunResponse](t, resp)
	assert.Contains(t, body.Error, "step limit")
	assert.Equal(t, "\x00", body.Output, "partial output is returned")
}

func TestServer_Run_Timeout(t *testing.T) {
	srv, _ := newServer(t, nil, httpadapter.WithRunTimeout(20*time.Millisecond))

	resp := do(t, http.MethodPost, srv.URL+"/run", mustJSON(t, httpadapter.RunRequest{Source: "+[]"}))
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}

func TestServer_Run_TooLarge(t *testing.T) {
	t.Setenv("BRAINLOOP_MAX_SOURCE_SIZE", "4")
	srv, _ := newServer(t, nil)

	resp := do(t, http.MethodPost, srv.URL+"/run", mustJSON(t, httpadapter.RunRequest{Source: "+++++"}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestServer_BodyLimit(t *testing.T) {
	t.Setenv("BRAINLOOP_MAX_SOURCE_SIZE", "4")
	t.Setenv("BRAINLOOP_MAX_INPUT_SIZE", "4")
	srv, store := newServer(t, nil)
	body := mustJSON(t, httpadapter.ProgramRequest{Source: strings.Repeat("+", 8*1024)})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/run"},
		{http.MethodPost, "/check"},
		{http.MethodPut, "/programs/big"},
		{http.MethodPost, "/programs/big/run"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp := do(t, tc.method, srv.URL+tc.path, body)
			assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
			assert.Contains(t, decode[httpadapter.ErrorResponse](t, resp).Error, "request body too large")
		})
	}

	names, err := store.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestServer_Run_BadBody(t *testing.T) {
	srv, _ := newServer(t, nil)

	resp := do(t, http.MethodPost, srv.URL+"/run", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Check(t *testing.T) {
	srv, _ := newServer(t, nil)

	t.Run("Valid", func(t *testing.T) {
		resp := do(t, http.MethodPost, srv.URL+"/check", mustJSON(t, httpadapter.ProgramRequest{Source: "+[-[>]] comment"}))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[httpadapter.CheckResponse](t, resp)
		assert.True(t, body.Valid)
		assert.Equal(t, domain.ProgramStats{Leaves: 3, Loops: 2, MaxDepth: 2}, body.Stats)
		assert.Equal(t, "+[-[>]]", body.Canonical)
	})

	t.Run("Unclosed", func(t *testing.T) {
		resp := do(t, http.MethodPost, srv.URL+"/check", mustJSON(t, httpadapter.ProgramRequest{Source: "+\n[["}))
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		body := decode[httpadapter.ErrorResponse](t, resp)
		assert.Equal(t, "unclosed_open", body.Kind)
		require.NotNil(t, body.Position)
		assert.Equal(t, 1, *body.Position)
		assert.Equal(t, 2, body.Line)
		assert.Equal(t, 1, body.Column)
	})
}

func TestServer_Programs(t *testing.T) {
	srv, store := newServer(t, []brainloop.Option{brainloop.WithEOFPolicy(domain.EOFSetZero)})

	resp := do(t, http.MethodPut, srv.URL+"/programs/echo", mustJSON(t, httpadapter.ProgramRequest{Source: ",[.,]"}))
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/programs/echo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, httpadapter.ProgramResponse{Name: "echo", Source: ",[.,]"}, decode[httpadapter.ProgramResponse](t, resp))

	resp = do(t, http.MethodGet, srv.URL+"/programs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"echo"}, decode[map[string][]string](t, resp)["programs"])

	resp = do(t, http.MethodPost, srv.URL+"/programs/echo/run", mustJSON(t, httpadapter.RunRequest{Input: "hi"}))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hi", decode[httpadapter.RunResponse](t, resp).Output)

	resp = do(t, http.MethodDelete, srv.URL+"/programs/echo", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/programs/echo", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	names, err := store.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestServer_PutProgram_Rejected(t *testing.T) {
	srv, store := newServer(t, nil)

	resp := do(t, http.MethodPut, srv.URL+"/programs/bad", mustJSON(t, httpadapter.ProgramRequest{Source: "]["}))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/programs/.hidden", mustJSON(t, httpadapter.ProgramRequest{Source: "+"}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	names, err := store.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestServer_RunProgram_NotFound(t *testing.T) {
	srv, _ := newServer(t, nil)

	resp := do(t, http.MethodPost, srv.URL+"/programs/missing/run", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_HealthInfoMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("brainloop_runs_total 1\n"))
	})
	srv, _ := newServer(t, nil, httpadapter.WithMetricsHandler(metrics))

	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])

	resp = do(t, http.MethodGet, srv.URL+"/info", "")
	assert.Equal(t, strings.TrimSpace(brainloop.Version), decode[map[string]string](t, resp)["version"])

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodOptions, srv.URL+"/run", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
