package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Wiktwn/mandelbulb-raymarching/logging"
	"github.com/Wiktwn/mandelbulb-raymarching/shader"
	"github.com/stretchr/testify/assert"
)

func shaderServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vertex.glsl":
			w.Write([]byte("void main() {}"))
		case "/frag.glsl":
			w.Write([]byte("void main() { gl_FragColor = vec4(1.0); }"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStartWhenReady_FetchFailureNeverStarts(t *testing.T) {
	srv := shaderServer(t)
	loader := &shader.Loader{Client: srv.Client()}
	pending := loader.Fetch(context.Background(), srv.URL+"/vertex.glsl", srv.URL+"/missing.glsl")

	var alert bytes.Buffer
	started := false
	status := startWhenReady(pending, &alert, logging.Nop(), func(shader.Source) int {
		started = true
		return 0
	})

	assert.Equal(t, 1, status)
	assert.False(t, started, "frame loop must not start without both shaders")
	assert.Equal(t, loadAlert+"\n", alert.String())
}

func TestStartWhenReady_StartsWithBothSources(t *testing.T) {
	srv := shaderServer(t)
	loader := &shader.Loader{Client: srv.Client()}
	pending := loader.Fetch(context.Background(), srv.URL+"/vertex.glsl", srv.URL+"/frag.glsl")

	var alert bytes.Buffer
	var got shader.Source
	status := startWhenReady(pending, &alert, logging.Nop(), func(src shader.Source) int {
		got = src
		return 7
	})

	assert.Equal(t, 7, status)
	assert.Empty(t, alert.String())
	assert.Equal(t, "void main() {}", got.Vertex)
	assert.Contains(t, got.Fragment, "gl_FragColor")
}
