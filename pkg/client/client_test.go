package client_test

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

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/client"
	"github.com/goliatone/go-formbind/pkg/errormap"
)

func TestLoad_ReturnsDataObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/service/local/repositories/central" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("accept = %q", got)
		}
		_, _ = io.WriteString(w, `{"data":{"id":"central","name":"Central"}}`)
	}))
	defer server.Close()

	c := client.New(client.WithBaseURL(server.URL + "/service/local"))
	data, err := c.Load(context.Background(), "repositories/central")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string]any{"id": "central", "name": "Central"}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_DecodeAndMissingData(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"not json":  {body: `<html>oops</html>`, want: client.ErrDecode},
		"no data":   {body: `{"other":1}`, want: client.ErrLoadFailure},
		"data list": {body: `{"data":[1,2]}`, want: client.ErrLoadFailure},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tc.body)
			}))
			defer server.Close()

			_, err := client.New().Load(context.Background(), server.URL)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSave_SendsEnvelope(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = io.WriteString(w, `{"data":{"id":"r1"}}`)
	}))
	defer server.Close()

	resp, err := client.New().Save(context.Background(), http.MethodPut, server.URL, map[string]any{"name": "a"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"data": map[string]any{"name": "a"}}, got); diff != "" {
		t.Fatalf("request body mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"id": "r1"}, resp.Data); diff != "" {
		t.Fatalf("response data mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_NoContentIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	resp, err := client.New().Save(context.Background(), http.MethodPost, server.URL, map[string]any{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if resp.Status != http.StatusNoContent || resp.Data != nil {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSave_BadRequestIsValidation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errors":[{"id":"name","msg":"Name is required"}]}`)
	}))
	defer server.Close()

	_, err := client.New().Save(context.Background(), http.MethodPost, server.URL, map[string]any{})
	var verr *client.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []errormap.Entry{{ID: "name", Msg: "Name is required"}}
	if diff := cmp.Diff(want, verr.Entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_ServerErrorExtractsHeading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `<html><body><h3>Disk <b>full</b></h3></body></html>`)
	}))
	defer server.Close()

	_, err := client.New().Save(context.Background(), http.MethodPost, server.URL, map[string]any{})
	var cerr *client.ConnectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if cerr.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d", cerr.Status)
	}
	if cerr.Detail != "Disk full" {
		t.Fatalf("detail = %q", cerr.Detail)
	}
	if !strings.Contains(cerr.Error(), "ERROR 500: Internal Server Error") {
		t.Fatalf("message = %q", cerr.Error())
	}
}

func TestLoad_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := client.New(client.WithTimeout(20*time.Millisecond)).Load(context.Background(), server.URL)
	var cerr *client.ConnectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !cerr.Timeout || cerr.Status != client.StatusNoResponse {
		t.Fatalf("unexpected error %+v", cerr)
	}
	if !strings.Contains(cerr.Error(), "request timed out") {
		t.Fatalf("message = %q", cerr.Error())
	}
}

func TestSyncTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"uiTimeout":90}}`)
	}))
	defer server.Close()

	c := client.New()
	got, err := c.SyncTimeout(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if got != 90*time.Second || c.Timeout() != 90*time.Second {
		t.Fatalf("timeout = %s", got)
	}
}

func TestBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer server.Close()

	if _, err := client.New(client.WithBasicAuth("admin", "secret")).Load(context.Background(), server.URL); err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err := client.New().Load(context.Background(), server.URL)
	var cerr *client.ConnectionError
	if !errors.As(err, &cerr) || !cerr.IsAuth() {
		t.Fatalf("expected auth error, got %v", err)
	}
}
