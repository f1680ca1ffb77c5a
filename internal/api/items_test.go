package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateAndGet_RoundTrip(t *testing.T) {
	_, router := testServer(t)

	created := doRequest(router, http.MethodPost, "/json", `{"title":"t","content":"c"}`, true)
	if created.Code != http.StatusCreated {
		t.Fatalf("POST /json status = %d, body = %s", created.Code, created.Body.String())
	}

	resp := decodeBody(t, created)
	id, ok := resp["id"].(string)
	if !ok || id == "" {
		t.Fatalf("response id = %v", resp["id"])
	}
	if resp["url"] != "/json/"+id {
		t.Errorf("url = %v, want /json/%s", resp["url"], id)
	}

	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("data = %v", resp["data"])
	}
	if data["createdAt"] == "" || data["createdAt"] == nil {
		t.Error("data missing createdAt stamp")
	}

	got := doRequest(router, http.MethodGet, "/json/"+id, "", false)
	if got.Code != http.StatusOK {
		t.Fatalf("GET /json/%s status = %d", id, got.Code)
	}
	body := decodeBody(t, got)
	if body["title"] != "t" || body["content"] != "c" {
		t.Errorf("round-trip body = %v", body)
	}
	if body["createdAt"] != data["createdAt"] {
		t.Errorf("createdAt changed between create and read: %v vs %v", data["createdAt"], body["createdAt"])
	}
}

func TestGet_FallbackFromDisk(t *testing.T) {
	srv, router := testServer(t)

	// A file placed directly in the data directory simulates the state
	// after a restart: on disk, not in memory.
	if err := srv.repo.Write("disk-only", map[string]any{"origin": "disk"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rec := doRequest(router, http.MethodGet, "/json/disk-only", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200 via disk fallback", rec.Code)
	}
	if decodeBody(t, rec)["origin"] != "disk" {
		t.Errorf("body = %s", rec.Body.String())
	}

	// The fallback hit must not repopulate the store.
	if srv.store.Count() != 0 {
		t.Errorf("store count = %d after fallback read, want 0", srv.store.Count())
	}

	// And it must appear in the full listing.
	list := doRequest(router, http.MethodGet, "/json", "", false)
	if list.Code != http.StatusOK {
		t.Fatalf("GET /json status = %d", list.Code)
	}
	if _, ok := decodeBody(t, list)["disk-only"]; !ok {
		t.Error("disk-only item missing from GET /json")
	}
}

func TestList_MemoryWinsOnConflict(t *testing.T) {
	srv, router := testServer(t)

	srv.store.Put("both", map[string]any{"from": "memory"})
	if err := srv.repo.Write("both", map[string]any{"from": "disk"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rec := doRequest(router, http.MethodGet, "/json", "", false)
	body := decodeBody(t, rec)
	entry, ok := body["both"].(map[string]any)
	if !ok {
		t.Fatalf("entry = %v", body["both"])
	}
	if entry["from"] != "memory" {
		t.Errorf("from = %v, memory must win over disk", entry["from"])
	}
}

func TestMutationBlindSpot(t *testing.T) {
	srv, router := testServer(t)

	if err := srv.repo.Write("disk-only", map[string]any{"origin": "disk"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	tests := []struct {
		method string
		body   string
	}{
		{http.MethodPut, `{"origin":"put"}`},
		{http.MethodPatch, `{"origin":"patch"}`},
		{http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := doRequest(router, tt.method, "/json/disk-only", tt.body, true)
			if rec.Code != http.StatusNotFound {
				t.Errorf("%s status = %d, want 404 for disk-only item", tt.method, rec.Code)
			}
		})
	}

	// The file itself is untouched; the item stays readable.
	rec := doRequest(router, http.MethodGet, "/json/disk-only", "", false)
	if rec.Code != http.StatusOK {
		t.Errorf("GET after blind-spot mutations = %d, want 200", rec.Code)
	}
}

func TestReplace_PreservesCreatedAt(t *testing.T) {
	_, router := testServer(t)

	created := doRequest(router, http.MethodPost, "/json", `{"title":"before"}`, true)
	resp := decodeBody(t, created)
	id := resp["id"].(string)
	createdAt := resp["data"].(map[string]any)["createdAt"]

	replaced := doRequest(router, http.MethodPut, "/json/"+id, `{"title":"after"}`, true)
	if replaced.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", replaced.Code)
	}

	body := decodeBody(t, replaced)
	if body["title"] != "after" {
		t.Errorf("title = %v, want after", body["title"])
	}
	if body["createdAt"] != createdAt {
		t.Errorf("createdAt = %v, want original %v", body["createdAt"], createdAt)
	}
}

func TestMerge_TopLevelOnly(t *testing.T) {
	_, router := testServer(t)

	created := doRequest(router, http.MethodPost, "/json", `{"title":"t","content":"c"}`, true)
	resp := decodeBody(t, created)
	id := resp["id"].(string)
	createdAt := resp["data"].(map[string]any)["createdAt"]

	patched := doRequest(router, http.MethodPatch, "/json/"+id, `{"content":"x"}`, true)
	if patched.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d", patched.Code)
	}

	body := decodeBody(t, patched)
	if body["title"] != "t" {
		t.Errorf("title = %v, untouched field must survive merge", body["title"])
	}
	if body["content"] != "x" {
		t.Errorf("content = %v, want x", body["content"])
	}
	if body["createdAt"] != createdAt {
		t.Errorf("createdAt = %v, want original %v", body["createdAt"], createdAt)
	}

	t.Run("createdAt survives hostile patch", func(t *testing.T) {
		rec := doRequest(router, http.MethodPatch, "/json/"+id, `{"createdAt":"1999-01-01T00:00:00Z"}`, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("PATCH status = %d", rec.Code)
		}
		if decodeBody(t, rec)["createdAt"] != createdAt {
			t.Error("patch overwrote createdAt")
		}
	})
}

func TestMerge_NonObject(t *testing.T) {
	_, router := testServer(t)

	// Arrays are stored verbatim and have no fields to merge into.
	created := doRequest(router, http.MethodPost, "/json", `[1,2,3]`, true)
	if created.Code != http.StatusCreated {
		t.Fatalf("POST status = %d", created.Code)
	}

	var resp struct {
		ID   string `json:"id"`
		Data any    `json:"data"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if _, ok := resp.Data.([]any); !ok {
		t.Errorf("array body stored as %T, want array", resp.Data)
	}

	rec := doRequest(router, http.MethodPatch, "/json/"+resp.ID, `{"a":1}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("PATCH on array item status = %d, want 400", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	srv, router := testServer(t)

	created := doRequest(router, http.MethodPost, "/json", `{"title":"t"}`, true)
	id := decodeBody(t, created)["id"].(string)

	deleted := doRequest(router, http.MethodDelete, "/json/"+id, "", true)
	if deleted.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", deleted.Code)
	}
	if decodeBody(t, deleted)["deleted"] != id {
		t.Errorf("confirmation body = %s", deleted.Body.String())
	}

	if rec := doRequest(router, http.MethodGet, "/json/"+id, "", false); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", rec.Code)
	}

	// Deleting a nonexistent item is an error at the handler layer,
	// even though the repository treats the missing file as success.
	if rec := doRequest(router, http.MethodDelete, "/json/"+id, "", true); rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", rec.Code)
	}
	if err := srv.repo.Delete(id); err != nil {
		t.Errorf("repository delete of missing file = %v, want nil", err)
	}
}

func TestAuth_NoStateChange(t *testing.T) {
	srv, router := testServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong secret", "not-the-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/json", strings.NewReader(`{"title":"t"}`))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if srv.store.Count() != 0 {
				t.Errorf("store count = %d after rejected create, want 0", srv.store.Count())
			}
			ids, err := srv.repo.ListIDs()
			if err != nil {
				t.Fatalf("ListIDs: %v", err)
			}
			if len(ids) != 0 {
				t.Errorf("repository has %d files after rejected create, want 0", len(ids))
			}
		})
	}

	t.Run("reads stay open", func(t *testing.T) {
		if rec := doRequest(router, http.MethodGet, "/json", "", false); rec.Code != http.StatusOK {
			t.Errorf("GET /json without auth = %d, want 200", rec.Code)
		}
	})
}

func TestBadJSON_NoStateChange(t *testing.T) {
	srv, router := testServer(t)

	t.Run("create", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/json", `{not json`, true)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if srv.store.Count() != 0 {
			t.Errorf("store count = %d, want 0", srv.store.Count())
		}
	})

	t.Run("replace", func(t *testing.T) {
		created := doRequest(router, http.MethodPost, "/json", `{"title":"t"}`, true)
		id := decodeBody(t, created)["id"].(string)

		rec := doRequest(router, http.MethodPut, "/json/"+id, `{broken`, true)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}

		got := doRequest(router, http.MethodGet, "/json/"+id, "", false)
		if decodeBody(t, got)["title"] != "t" {
			t.Error("stored value changed after rejected replace")
		}
	})
}
