package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minf07l/olympiad-abyss/models"
	"github.com/minf07l/olympiad-abyss/testutil"
)

func TestAdminPanel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	user := testutil.CreateTestUser(t, db, "alice", false, false)
	admin := testutil.CreateTestUser(t, db, "mod", true, false)
	god := testutil.CreateTestUser(t, db, "god", true, true)

	userToken := testutil.CreateTestSession(t, db, cfg, user.ID, false)
	adminOffToken := testutil.CreateTestSession(t, db, cfg, admin.ID, false)
	adminOnToken := testutil.CreateTestSession(t, db, cfg, admin.ID, true)
	godToken := testutil.CreateTestSession(t, db, cfg, god.ID, false)

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"plain user", testutil.AuthHeader(userToken), http.StatusForbidden},
		{"admin with mode off", testutil.AuthHeader(adminOffToken), http.StatusForbidden},
		{"admin with mode on", testutil.AuthHeader(adminOnToken), http.StatusOK},
		{"god without mode", testutil.AuthHeader(godToken), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/admin", nil, tt.headers)
			w := httptest.NewRecorder()

			handler.AdminPanel(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.UserDirectoryResponse
				testutil.AssertJSON(t, w, &resp)
				if len(resp.Users) != 3 {
					t.Errorf("Expected 3 users, got %d", len(resp.Users))
				}
				for _, u := range resp.Users {
					if u.Joined == "" {
						t.Errorf("Expected humanized join time for %s", u.Username)
					}
				}
			}
		})
	}
}

func TestToggleAdminMode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	user := testutil.CreateTestUser(t, db, "alice", false, false)
	admin := testutil.CreateTestUser(t, db, "mod", true, false)
	userToken := testutil.CreateTestSession(t, db, cfg, user.ID, false)
	adminToken := testutil.CreateTestSession(t, db, cfg, admin.ID, false)

	t.Run("anonymous", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/toggle_admin", nil, nil)
		w := httptest.NewRecorder()

		handler.ToggleAdminMode(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("plain user", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/toggle_admin", nil, testutil.AuthHeader(userToken))
		w := httptest.NewRecorder()

		handler.ToggleAdminMode(w, req)

		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("admin flips the toggle both ways", func(t *testing.T) {
		for _, want := range []bool{true, false} {
			req := testutil.MakeRequest("GET", "/toggle_admin", nil, testutil.AuthHeader(adminToken))
			w := httptest.NewRecorder()

			handler.ToggleAdminMode(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.ToggleAdminResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.AdminMode != want {
				t.Errorf("Expected admin_mode %v, got %v", want, resp.AdminMode)
			}
		}
	})
}

func TestDeleteAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	god := testutil.CreateTestUser(t, db, "god", true, true)
	godToken := testutil.CreateTestSession(t, db, cfg, god.ID, false)

	deleteReq := func(token, targetID string) *httptest.ResponseRecorder {
		var headers map[string]string
		if token != "" {
			headers = testutil.AuthHeader(token)
		}
		req := testutil.MakeRequest("POST", "/admin/delete/"+targetID, nil, headers)
		req.SetPathValue("uid", targetID)
		w := httptest.NewRecorder()
		handler.DeleteAccount(w, req)
		return w
	}

	t.Run("cascade delete by god", func(t *testing.T) {
		victim := testutil.CreateTestUser(t, db, "victim", false, false)
		victimToken := testutil.CreateTestSession(t, db, cfg, victim.ID, false)
		pollID := testutil.CreateTestPoll(t, db, "Q", []string{"A", "B"})
		testutil.CreateTestVote(t, db, victim.ID, pollID, 0)
		testutil.CreateTestMessage(t, db, victim, "bye", time.Now())

		w := deleteReq(godToken, victim.ID)
		testutil.AssertStatus(t, w, http.StatusOK)

		for _, table := range []string{"users", "messages", "votes", "sessions"} {
			var count int
			col := "user_id"
			if table == "users" {
				col = "id"
			}
			if err := db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE `+col+` = $1`, victim.ID).Scan(&count); err != nil {
				t.Fatalf("Failed to count %s: %v", table, err)
			}
			if count != 0 {
				t.Errorf("Expected no %s rows for deleted user, got %d", table, count)
			}
		}

		// Their session token is dead too
		req := testutil.MakeRequest("GET", "/profile", nil, testutil.AuthHeader(victimToken))
		if _, u := CurrentSession(db, cfg, req); u != nil {
			t.Error("Deleted user's session still resolves")
		}
	})

	t.Run("god cannot delete itself", func(t *testing.T) {
		w := deleteReq(godToken, god.ID)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("admin cannot delete admin", func(t *testing.T) {
		mod := testutil.CreateTestUser(t, db, "mod", true, false)
		mod2 := testutil.CreateTestUser(t, db, "mod2", true, false)
		modToken := testutil.CreateTestSession(t, db, cfg, mod.ID, true)

		w := deleteReq(modToken, mod2.ID)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("admin with mode on deletes plain user", func(t *testing.T) {
		mod := testutil.CreateTestUser(t, db, "mod3", true, false)
		modToken := testutil.CreateTestSession(t, db, cfg, mod.ID, true)
		target := testutil.CreateTestUser(t, db, "target", false, false)

		w := deleteReq(modToken, target.ID)
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("admin with mode off is forbidden", func(t *testing.T) {
		mod := testutil.CreateTestUser(t, db, "mod4", true, false)
		modToken := testutil.CreateTestSession(t, db, cfg, mod.ID, false)
		target := testutil.CreateTestUser(t, db, "target2", false, false)

		w := deleteReq(modToken, target.ID)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("plain user is forbidden", func(t *testing.T) {
		user := testutil.CreateTestUser(t, db, "pleb", false, false)
		userToken := testutil.CreateTestSession(t, db, cfg, user.ID, false)
		target := testutil.CreateTestUser(t, db, "target3", false, false)

		w := deleteReq(userToken, target.ID)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("target not found", func(t *testing.T) {
		w := deleteReq(godToken, "no-such-user")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestPromoteDemote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	god := testutil.CreateTestUser(t, db, "god", true, true)
	admin := testutil.CreateTestUser(t, db, "mod", true, false)
	user := testutil.CreateTestUser(t, db, "alice", false, false)

	godToken := testutil.CreateTestSession(t, db, cfg, god.ID, false)
	adminToken := testutil.CreateTestSession(t, db, cfg, admin.ID, true)

	isAdmin := func(id string) bool {
		var v bool
		if err := db.QueryRow(`SELECT is_admin FROM users WHERE id = $1`, id).Scan(&v); err != nil {
			t.Fatalf("Failed to query is_admin: %v", err)
		}
		return v
	}

	run := func(action, token, targetID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/admin/"+action+"/"+targetID, nil, testutil.AuthHeader(token))
		req.SetPathValue("uid", targetID)
		w := httptest.NewRecorder()
		if action == "promote" {
			handler.Promote(w, req)
		} else {
			handler.Demote(w, req)
		}
		return w
	}

	t.Run("god promotes a user", func(t *testing.T) {
		w := run("promote", godToken, user.ID)
		testutil.AssertStatus(t, w, http.StatusOK)
		if !isAdmin(user.ID) {
			t.Error("Expected user to be admin after promotion")
		}
	})

	t.Run("promotion is idempotent", func(t *testing.T) {
		w := run("promote", godToken, user.ID)
		testutil.AssertStatus(t, w, http.StatusOK)
		if !isAdmin(user.ID) {
			t.Error("Expected user to stay admin")
		}
	})

	t.Run("god demotes an admin", func(t *testing.T) {
		w := run("demote", godToken, user.ID)
		testutil.AssertStatus(t, w, http.StatusOK)
		if isAdmin(user.ID) {
			t.Error("Expected user to lose admin after demotion")
		}
	})

	t.Run("admin cannot promote", func(t *testing.T) {
		w := run("promote", adminToken, user.ID)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("god account is immutable", func(t *testing.T) {
		w := run("demote", godToken, god.ID)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
		if !isAdmin(god.ID) {
			t.Error("God account lost its admin flag")
		}
	})
}

func TestUsersDirectory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(db, cfg)

	// Creation order matters: the directory lists newest accounts first
	testutil.CreateTestUser(t, db, "alice", false, false)
	testutil.CreateTestUser(t, db, "alina", false, false)
	testutil.CreateTestUser(t, db, "bob", true, false)
	testutil.CreateTestUser(t, db, "god", true, true)

	tests := []struct {
		name          string
		query         string
		wantUsernames []string
	}{
		{"all users newest first", "/users", []string{"god", "bob", "alina", "alice"}},
		{"substring filter", "/users?q=ali", []string{"alina", "alice"}},
		{"admins only", "/users?role=admin", []string{"god", "bob"}},
		{"gods only", "/users?role=god", []string{"god"}},
		{"filter and role combined", "/users?q=bo&role=admin", []string{"bob"}},
		{"no matches", "/users?q=zzz", []string{}},
		{"unknown role applies no filter", "/users?role=wizard", []string{"god", "bob", "alina", "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No session: the directory is public
			req := testutil.MakeRequest("GET", tt.query, nil, nil)
			w := httptest.NewRecorder()

			handler.UsersDirectory(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.UserDirectoryResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp.Users) != len(tt.wantUsernames) {
				t.Fatalf("Expected %d users, got %d", len(tt.wantUsernames), len(resp.Users))
			}
			for i, want := range tt.wantUsernames {
				if resp.Users[i].Username != want {
					t.Errorf("User %d: expected %s, got %s", i, want, resp.Users[i].Username)
				}
			}
		})
	}
}
