package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/reactless"
	"github.com/aretw0/reactless/pkg/adapters/memory"
	"github.com/aretw0/reactless/pkg/domain"
	"github.com/aretw0/reactless/pkg/observability"
	"github.com/aretw0/reactless/pkg/ports"
	"github.com/aretw0/reactless/pkg/registry"
	"github.com/aretw0/reactless/pkg/session"
)

type fixture struct {
	server   *httptest.Server
	srv      *Server
	host     *memory.Host
	engine   *reactless.Engine
	sessions *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	host := memory.NewHost()
	recorder := observability.NewRecorder()
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng, err := reactless.New(host,
		reactless.WithFrame(4*time.Millisecond, 3*time.Millisecond),
		reactless.WithLifecycleHooks(recorder.Hooks()),
		reactless.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = eng.Run(ctx)
	}()

	handlers := registry.NewRegistry()
	handlers.Register("increment", func(domain.Event) {})

	sessions := session.NewManager(memory.NewStore(), host, func() ports.HostNode { return host.NewContainer("root") })
	srv := NewServer(Config{
		Engine:    eng,
		Sessions:  sessions,
		Mutations: recorder,
		Handlers:  handlers,
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Version:   "test",
	})
	ts := httptest.NewServer(srv.Handler())

	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return &fixture{server: ts, srv: srv, host: host, engine: eng, sessions: sessions}
}

func (f *fixture) do(t *testing.T, method, path, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *fixture) createSession(t *testing.T) string {
	t.Helper()
	resp := f.do(t, "POST", "/sessions", "", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["id"])
	return body["id"]
}

func (f *fixture) putTree(t *testing.T, id, contentType, doc string) (*http.Response, TreeResponse) {
	t.Helper()
	resp := f.do(t, "PUT", "/sessions/"+id+"/tree", contentType, doc)
	var out TreeResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHealthAndInfo(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])

	resp = f.do(t, "GET", "/info", "", "")
	var info map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "reactless-http", info["app"])
	assert.Equal(t, "test", info["version"])
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPutTree_RenderThenUpdate(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t)

	resp, out := f.putTree(t, id, "application/yaml", `
type: div
props: {id: app}
children:
  - type: button
    props: {onClick: increment}
    children: ["0"]
`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Snapshot.Children, 1)
	assert.Equal(t, "div", out.Snapshot.Children[0].Tag)
	assert.Equal(t, "0", out.Snapshot.Text())
	assert.NotEmpty(t, out.Mutations)

	resp, out = f.putTree(t, id, "application/json",
		`{"type": "div", "props": {"id": "app"}, "children": [
			{"type": "button", "props": {"onClick": "increment"}, "children": ["1"]}
		]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", out.Snapshot.Text())
	assert.Equal(t, []domain.Mutation{
		{Kind: domain.MutationSetAttribute, Tag: domain.TextElement, Name: domain.AttrNodeValue, Value: "1"},
	}, out.Mutations)

	resp = f.do(t, "GET", "/sessions/"+id, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stored domain.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stored))
	assert.Equal(t, "1", stored.Text())
}

func TestPutTree_InvalidDocument(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t)

	resp, _ := f.putTree(t, id, "application/yaml", `
type: div
props: {onClick: nope, style: {a: b}}
`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body["errors"], 2)
	assert.Contains(t, body["errors"][0], `unknown handler "nope"`)
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.putTree(t, "missing", "application/yaml", "type: p")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, "GET", "/sessions/missing", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, "GET", "/sessions/missing/fibers", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFibersListAndDelete(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t)

	resp, _ := f.putTree(t, id, "application/yaml", "type: ul\nchildren: [{type: li}, {type: li}]\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, "GET", "/sessions/"+id+"/fibers", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var infos []domain.FiberInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 3)
	assert.Equal(t, "ul", infos[0].Type)

	resp = f.do(t, "GET", "/sessions", "", "")
	var list map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Contains(t, list["sessions"], id)

	sess, ok := f.sessions.Get(id)
	require.True(t, ok)

	resp = f.do(t, "DELETE", "/sessions/"+id, "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, "GET", "/sessions/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The engine no longer keeps a fiber tree for the deleted session's container.
	infos, err := f.engine.Inspect(context.Background(), sess.Container)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t)
	resp, _ := f.putTree(t, id, "application/yaml", "type: p\nchildren: [hi]\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, "GET", "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	buf := new(strings.Builder)
	_, _ = bufio.NewReader(resp.Body).WriteTo(buf)
	assert.Contains(t, buf.String(), "reactless_commits_total 1")
}

func TestSubscribeEvents_Session(t *testing.T) {
	f := newFixture(t)
	id := f.createSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", f.server.URL+"/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	stream, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	reader := bufio.NewReader(stream.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	require.Eventually(t, func() bool { return f.srv.Streams.Subscribers(id) == 1 }, time.Second, 5*time.Millisecond)

	resp, _ := f.putTree(t, id, "application/yaml", "type: p\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: commit") {
			break
		}
	}
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "data: ["))
	assert.Contains(t, line, `"kind":"insert"`)
}

func TestSubscribeEvents_UnknownSession(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, "GET", "/sessions/missing/events", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamManager_SlowClient(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, unsubscribe := sm.Subscribe("s")

	for i := 0; i < 20; i++ {
		sm.Broadcast("s", "msg")
	}
	assert.Len(t, ch, cap(ch))

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, sm.Subscribers("s"))
}
