package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minf07l/olympiad-abyss/models"
	"github.com/minf07l/olympiad-abyss/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestIndexEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	testutil.CreateTestPoll(t, db, "Tabs or spaces?", []string{"Tabs", "Spaces"})
	user := testutil.CreateTestUser(t, db, "alice", false, false)
	testutil.SetPoints(t, db, user.ID, 7)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp models.IndexResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Polls) != 1 {
		t.Errorf("Expected 1 poll, got %d", len(resp.Polls))
	}
	if len(resp.TopClickers) != 1 || resp.TopClickers[0].Points != 7 {
		t.Errorf("Expected alice with 7 points on the leaderboard, got %+v", resp.TopClickers)
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// Test that routes respond (handler is invoked)
	// Auth errors and 404s are valid handler behavior here; 405 would mean
	// the route pattern is wrong
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/register"},
		{"POST", "/login"},
		{"GET", "/logout"},
		{"GET", "/profile"},
		{"POST", "/profile"},

		{"GET", "/chat"},
		{"GET", "/api/chat"},
		{"POST", "/api/chat"},

		{"GET", "/polls"},
		{"POST", "/polls"},
		{"GET", "/poll/test-id"},
		{"POST", "/poll/test-id"},

		{"GET", "/click"},
		{"POST", "/click"},

		{"GET", "/admin"},
		{"GET", "/toggle_admin"},
		{"POST", "/admin/delete/test-id"},
		{"POST", "/admin/promote/test-id"},
		{"POST", "/admin/demote/test-id"},

		{"GET", "/users"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405; pattern not registered", tc.method, tc.path)
			}
		})
	}
}

func TestPathMismatchIs404(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/no-such-page", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}
