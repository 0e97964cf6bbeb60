package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestResponseWriterPassesHijackThrough(t *testing.T) {
	rec := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	var w http.ResponseWriter = &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	hj, ok := w.(http.Hijacker)
	if !ok {
		t.Fatal("wrapped writer must implement http.Hijacker for websocket upgrades")
	}
	if _, _, err := hj.Hijack(); err != nil {
		t.Fatalf("Hijack: %v", err)
	}
	if !rec.hijacked {
		t.Fatal("hijack was not delegated to the underlying writer")
	}
}

func TestResponseWriterHijackWithoutSupport(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	if _, _, err := rw.Hijack(); err == nil {
		t.Fatal("expected an error when the underlying writer cannot hijack")
	}
}
