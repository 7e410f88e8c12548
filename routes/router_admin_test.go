package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

type bannerResponse struct {
	ID       uint    `json:"id"`
	Title    string  `json:"title"`
	Order    int     `json:"order"`
	ImageURL *string `json:"imageUrl"`
}

func (a *testApp) bannerTitles() []string {
	a.t.Helper()
	w, env := a.json(http.MethodGet, "/api/banners", "", nil)
	if w.Code != http.StatusOK {
		a.t.Fatalf("list banners: %d", w.Code)
	}
	var list []bannerResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		a.t.Fatalf("decode banners: %v", err)
	}
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.Title)
	}
	return out
}

func TestBannerAdminFlow(t *testing.T) {
	app := newTestApp(t)
	root := app.admin()
	user := app.signup("alice", "pw1")

	body := map[string]any{"title": "A", "description": "first", "order": 0}
	if w, _ := app.json(http.MethodPost, "/api/banners", "", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", w.Code)
	}
	if w, _ := app.json(http.MethodPost, "/api/banners", user, body); w.Code != http.StatusForbidden {
		t.Fatalf("user create: expected 403, got %d", w.Code)
	}
	if w, _ := app.json(http.MethodPost, "/api/banners", root, map[string]any{"title": "no description"}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing description: expected 400, got %d", w.Code)
	}

	ids := map[string]uint{}
	for i, title := range []string{"A", "B", "C"} {
		w, env := app.json(http.MethodPost, "/api/banners", root, map[string]any{
			"title": title, "description": "slide " + title, "imageUrl": "https://img.example.com/" + title + ".jpg", "order": i,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("create %s: %d %s", title, w.Code, w.Body.String())
		}
		var b bannerResponse
		_ = json.Unmarshal(env.Data, &b)
		ids[title] = b.ID
	}
	if got := fmt.Sprint(app.bannerTitles()); got != "[A B C]" {
		t.Fatalf("initial order %s", got)
	}

	swap := []map[string]any{{"id": ids["A"], "order": 1}, {"id": ids["B"], "order": 0}, {"id": ids["C"], "order": 2}}
	if w, _ := app.json(http.MethodPut, "/api/banners", root, swap); w.Code != http.StatusOK {
		t.Fatalf("reorder: %d", w.Code)
	}
	if got := fmt.Sprint(app.bannerTitles()); got != "[B A C]" {
		t.Fatalf("after swap %s", got)
	}

	if w, _ := app.json(http.MethodPut, "/api/banners", root, []map[string]any{{"id": 9999, "order": 0}}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown id reorder: expected 404, got %d", w.Code)
	}
	if w, _ := app.json(http.MethodPut, "/api/banners", root, map[string]any{"not": "a list"}); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid body: expected 400, got %d", w.Code)
	}

	if w, _ := app.json(http.MethodDelete, "/api/banners", root, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("delete without id: expected 400, got %d", w.Code)
	}
	if w, _ := app.json(http.MethodDelete, fmt.Sprintf("/api/banners?id=%d", ids["A"]), root, nil); w.Code != http.StatusOK {
		t.Fatalf("delete by query: %d", w.Code)
	}
	if w, _ := app.json(http.MethodDelete, fmt.Sprintf("/api/banners/%d", ids["C"]), root, nil); w.Code != http.StatusOK {
		t.Fatalf("delete by path: %d", w.Code)
	}
	if w, _ := app.json(http.MethodDelete, fmt.Sprintf("/api/banners/%d", ids["C"]), root, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Code)
	}
	if got := fmt.Sprint(app.bannerTitles()); got != "[B]" {
		t.Fatalf("after deletes %s", got)
	}
}

func TestAdminUserManagement(t *testing.T) {
	app := newTestApp(t)
	root := app.admin()
	alice := app.signup("alice", "pw1")

	if w, _ := app.json(http.MethodGet, "/api/admin/users", alice, nil); w.Code != http.StatusForbidden {
		t.Fatalf("user listing users: expected 403, got %d", w.Code)
	}

	w, env := app.json(http.MethodGet, "/api/admin/users", root, nil)
	var users []struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	_ = json.Unmarshal(env.Data, &users)
	if w.Code != http.StatusOK || len(users) != 2 {
		t.Fatalf("list users: %d %s", w.Code, w.Body.String())
	}
	var aliceID uint
	for _, u := range users {
		if u.Username == "alice" {
			aliceID = u.ID
		}
	}

	rolePath := fmt.Sprintf("/api/admin/users/%d/role", aliceID)
	if w, _ := app.json(http.MethodPatch, rolePath, root, map[string]string{"role": "OWNER"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad role: expected 400, got %d", w.Code)
	}
	if w, _ := app.json(http.MethodPatch, "/api/admin/users/9999/role", root, map[string]string{"role": "ADMIN"}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", w.Code)
	}
	if w, _ := app.json(http.MethodPatch, rolePath, root, map[string]string{"role": "ADMIN"}); w.Code != http.StatusOK {
		t.Fatalf("promote: %d", w.Code)
	}

	// The promotion applies to the existing token since roles are re-read
	if w, _ := app.json(http.MethodGet, "/api/admin/users", alice, nil); w.Code != http.StatusOK {
		t.Fatalf("promoted user listing users: %d", w.Code)
	}
}

func TestPublicContent(t *testing.T) {
	app := newTestApp(t)

	w, env := app.json(http.MethodGet, "/api/analytics", "", nil)
	var analytics struct {
		ChartData      []map[string]any `json:"chartData"`
		RecentVisitors []map[string]any `json:"recentVisitors"`
		Stats          map[string]int   `json:"stats"`
	}
	_ = json.Unmarshal(env.Data, &analytics)
	if w.Code != http.StatusOK || len(analytics.ChartData) != 7 || len(analytics.RecentVisitors) != 5 || analytics.Stats["totalVisitors"] != 12345 {
		t.Fatalf("analytics: %d %s", w.Code, w.Body.String())
	}

	w, env = app.json(http.MethodGet, "/api/videos", "", nil)
	var videos struct {
		Videos []map[string]any `json:"videos"`
		Shorts []map[string]any `json:"shorts"`
	}
	_ = json.Unmarshal(env.Data, &videos)
	if w.Code != http.StatusOK || len(videos.Videos) == 0 || len(videos.Shorts) == 0 {
		t.Fatalf("videos: %d %s", w.Code, w.Body.String())
	}

	for _, path := range []string{"/api/config/notice", "/api/config/portals", "/health"} {
		if w, _ := app.json(http.MethodGet, path, "", nil); w.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, w.Code)
		}
	}
	if w, _ := app.json(http.MethodGet, "/api/nothing-here", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: %d", w.Code)
	}
}
