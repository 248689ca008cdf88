package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/kincut/kincut/pkg/export"
	"github.com/kincut/kincut/pkg/kinship"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	parents := map[int][]int{1: {}, 2: {}, 3: {1, 2}, 4: {1, 2}}
	children := map[int][]int{1: {3, 4}, 2: {3, 4}, 3: {}, 4: {}}
	m, err := kinship.Calculate(children, parents, []int{3, 4}, kinship.Options{})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	srv := httptest.NewServer(New(log.New(io.Discard), m).Router())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, wantStatus int, into any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: status %d, want %d (body %s)", url, resp.StatusCode, wantStatus, body)
	}
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	var body map[string]string
	getJSON(t, srv.URL+"/healthz", http.StatusOK, &body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestSinks(t *testing.T) {
	srv := testServer(t)
	var body struct {
		Sinks []int `json:"sinks"`
	}
	getJSON(t, srv.URL+"/api/v1/sinks", http.StatusOK, &body)
	if len(body.Sinks) != 2 || body.Sinks[0] != 3 || body.Sinks[1] != 4 {
		t.Errorf("sinks = %v, want [3 4]", body.Sinks)
	}
}

func TestKinshipLookup(t *testing.T) {
	srv := testServer(t)

	var body kinshipResponse
	getJSON(t, srv.URL+"/api/v1/kinship?i=3&j=4", http.StatusOK, &body)
	if body.Kinship != 0.25 {
		t.Errorf("kinship = %v, want 0.25", body.Kinship)
	}

	// Symmetric.
	var flipped kinshipResponse
	getJSON(t, srv.URL+"/api/v1/kinship?i=4&j=3", http.StatusOK, &flipped)
	if flipped.Kinship != body.Kinship {
		t.Errorf("lookup not symmetric: %v vs %v", flipped.Kinship, body.Kinship)
	}
}

func TestKinshipErrors(t *testing.T) {
	srv := testServer(t)
	getJSON(t, srv.URL+"/api/v1/kinship?i=3", http.StatusBadRequest, nil)
	getJSON(t, srv.URL+"/api/v1/kinship?i=3&j=abc", http.StatusBadRequest, nil)
	// Vertex 1 exists in the pedigree but is not a proband.
	getJSON(t, srv.URL+"/api/v1/kinship?i=1&j=3", http.StatusNotFound, nil)
}

func TestMatrix(t *testing.T) {
	srv := testServer(t)
	var dense export.Dense
	getJSON(t, srv.URL+"/api/v1/matrix", http.StatusOK, &dense)
	i, j := dense.Index[3], dense.Index[4]
	if dense.Matrix[i][j] != 0.25 {
		t.Errorf("matrix[3][4] = %v, want 0.25", dense.Matrix[i][j])
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID")
	}
}
