package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/silver-potato-kebab/trade-tracker/internal/api/request"
	"github.com/silver-potato-kebab/trade-tracker/internal/api/response"
	"github.com/silver-potato-kebab/trade-tracker/internal/editor"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
	"github.com/silver-potato-kebab/trade-tracker/internal/service"
	"github.com/silver-potato-kebab/trade-tracker/internal/testutil"
)

func setupEditorHandler(t *testing.T) (*EditorHandler, *service.LedgerService, model.Row) {
	t.Helper()
	svc := testutil.NewTestLedgerService(t)
	row, err := svc.AddEntry(t.Context(), testutil.NewTrade().Build())
	if err != nil {
		t.Fatal(err)
	}
	return NewEditorHandler(svc), svc, row
}

func costColumn() int {
	for i, c := range model.GridColumns {
		if c == model.ColCost {
			return i
		}
	}
	return -1
}

// TestEditorHandler_Flow tests a full edit over HTTP.
//
// WHY: The client drives the editor one request per event; the session must
// survive between requests and a commit must change exactly one cell.
func TestEditorHandler_Flow(t *testing.T) {
	handler, svc, row := setupEditorHandler(t)

	w := httptest.NewRecorder()
	handler.Session(w, httptest.NewRequest(http.MethodGet, "/api/editor", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 while idle, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.Open(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/editor/open",
		request.OpenEditorRequest{Region: "cell", RowID: row.ID, Column: costColumn()}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	opened := testutil.DecodeJSON[OpenEditorResponse](t, w)
	if !opened.Opened || opened.Session == nil || opened.Session.Original != "100.00" || !opened.Session.Selected {
		t.Fatalf("Unexpected open response: %+v", opened)
	}

	w = httptest.NewRecorder()
	handler.Keystroke(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/editor/keystroke", request.KeystrokeRequest{Text: "abc"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for rejected keystroke, got %d", w.Code)
	}
	resp := testutil.DecodeJSON[response.ErrorResponse](t, w)
	details, _ := resp.Details.(map[string]any)
	if details["text"] != "100.00" {
		t.Errorf("Expected unchanged field in details, got %v", resp.Details)
	}

	w = httptest.NewRecorder()
	handler.Keystroke(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/editor/keystroke", request.KeystrokeRequest{Text: "99.5"}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.Commit(w, httptest.NewRequest(http.MethodPost, "/api/editor/commit", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	commit := testutil.DecodeJSON[editor.Commit](t, w)
	if commit.Value != "99.50" || commit.RowID != row.ID {
		t.Errorf("Unexpected commit: %+v", commit)
	}
	if got := svc.Rows()[0].Values[model.ColCost]; got != "99.50" {
		t.Errorf("Expected cost 99.50 in grid, got %q", got)
	}
}

func TestEditorHandler_Open(t *testing.T) {
	t.Run("heading click opens nothing", func(t *testing.T) {
		handler, _, _ := setupEditorHandler(t)

		w := httptest.NewRecorder()
		handler.Open(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/editor/open", request.OpenEditorRequest{Region: "heading"}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if resp := testutil.DecodeJSON[OpenEditorResponse](t, w); resp.Opened || resp.Session != nil {
			t.Errorf("Expected nothing opened, got %+v", resp)
		}
	})

	t.Run("unknown row returns 404", func(t *testing.T) {
		handler, _, _ := setupEditorHandler(t)

		w := httptest.NewRecorder()
		handler.Open(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/editor/open",
			request.OpenEditorRequest{Region: "tree", RowID: testutil.MakeID(), Column: -1}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("unknown region returns 400", func(t *testing.T) {
		handler, _, _ := setupEditorHandler(t)

		w := httptest.NewRecorder()
		handler.Open(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/editor/open", request.OpenEditorRequest{Region: "gutter"}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestEditorHandler_NoSession(t *testing.T) {
	handler, _, _ := setupEditorHandler(t)

	w := httptest.NewRecorder()
	handler.Commit(w, httptest.NewRequest(http.MethodPost, "/api/editor/commit", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for commit, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.Keystroke(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/editor/keystroke", request.KeystrokeRequest{Text: "1"}))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for keystroke, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.Discard(w, httptest.NewRequest(http.MethodPost, "/api/editor/discard", nil))
	if resp := testutil.DecodeJSON[DiscardResponse](t, w); resp.Discarded {
		t.Error("Expected nothing to discard")
	}
}
