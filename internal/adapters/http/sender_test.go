package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bft-labs/docship/internal/domain"
	"github.com/bft-labs/docship/internal/ports"
)

func TestSender_Send(t *testing.T) {
	var (
		gotManifest manifest
		gotDoc      string
		gotFilename string
		gotHeaders  http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != documentsEndpoint {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		gotHeaders = r.Header.Clone()

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("manifest")), &gotManifest); err != nil {
			t.Errorf("manifest: %v", err)
		}
		f, hdr, err := r.FormFile("document")
		if err != nil {
			t.Errorf("document: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotDoc = string(data)
		gotFilename = hdr.Filename
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSender(srv.Client(), Endpoint{ServiceURL: srv.URL, AuthKey: "secret", Hostname: "box"}, 0, nil)
	meta := ports.SendMetadata{RunID: "run-1", FileName: "a.json", Format: "4.0"}
	if err := s.Send(context.Background(), domain.SignedContent("signed"), meta); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotDoc != "signed" {
		t.Errorf("document = %q, want %q", gotDoc, "signed")
	}
	if gotFilename != "a.json.signed" {
		t.Errorf("filename = %q", gotFilename)
	}
	want := manifest{RunID: "run-1", File: "a.json", Format: "4.0", Size: 6}
	if gotManifest != want {
		t.Errorf("manifest = %+v, want %+v", gotManifest, want)
	}
	if got := gotHeaders.Get("Authorization"); got != "Bearer secret" {
		t.Errorf("Authorization = %q", got)
	}
	if got := gotHeaders.Get("X-Agent-Hostname"); got != "box" {
		t.Errorf("X-Agent-Hostname = %q", got)
	}
	if got := gotHeaders.Get("X-Docship-Run-Id"); got != "run-1" {
		t.Errorf("X-Docship-Run-Id = %q", got)
	}
}

func TestSender_Send_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewSender(srv.Client(), Endpoint{ServiceURL: srv.URL}, 0, nil)
	err := s.Send(context.Background(), domain.SignedContent("x"), ports.SendMetadata{FileName: "a"})
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("Send() error = %v, want status 502", err)
	}
}

type failingClient struct{ err error }

func (c failingClient) Do(*http.Request) (*http.Response, error) { return nil, c.err }

func TestSender_Send_TransportError(t *testing.T) {
	boom := errors.New("boom")
	s := NewSender(failingClient{err: boom}, Endpoint{ServiceURL: "http://invalid"}, 0, nil)
	err := s.Send(context.Background(), domain.SignedContent("x"), ports.SendMetadata{FileName: "a"})
	if !errors.Is(err, boom) {
		t.Errorf("Send() error = %v, want %v", err, boom)
	}
}

func TestSender_Send_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSender(srv.Client(), Endpoint{ServiceURL: srv.URL}, 0.5, nil)
	meta := ports.SendMetadata{FileName: "a"}
	if err := s.Send(context.Background(), domain.SignedContent("x"), meta); err != nil {
		t.Fatalf("first Send() error = %v", err)
	}

	// The next token is two seconds away.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Send(ctx, domain.SignedContent("x"), meta); err == nil {
		t.Error("second Send() error = nil, want rate limit error")
	}
}
