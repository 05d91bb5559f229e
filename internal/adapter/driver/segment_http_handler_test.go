package driver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alorle/tvtube-proxy/internal/adapter/driven"
	"github.com/alorle/tvtube-proxy/internal/application"
)

func newSegmentHandler() (*SegmentHTTPHandler, *driven.SegmentMemoryStore) {
	store := driven.NewSegmentMemoryStore(0)
	return NewSegmentHTTPHandler(application.NewSegmentService(store, discardLogger())), store
}

func TestSegmentHTTPHandler_Put(t *testing.T) {
	t.Run("stores segments and marks the video current", func(t *testing.T) {
		handler, store := newSegmentHandler()

		body := `[{"category":"sponsor","segment":[10,25.5]},{"category":"outro","segment":[500,600]}]`
		req := httptest.NewRequest(http.MethodPut, "/segments/abc-123", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp segmentsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		want := segmentsResponse{
			VideoID: "abc-123",
			Current: true,
			Segments: []segmentJSON{
				{Category: "sponsor", Segment: [2]float64{10, 25.5}},
				{Category: "outro", Segment: [2]float64{500, 600}},
			},
		}
		if diff := cmp.Diff(want, resp); diff != "" {
			t.Errorf("response mismatch (-want +got):\n%s", diff)
		}

		if store.CurrentVideo() != "abc-123" {
			t.Errorf("CurrentVideo() = %q", store.CurrentVideo())
		}
		if got := store.Segments("abc-123"); len(got) != 2 || got[0].StartMs() != 10000 {
			t.Errorf("stored segments = %v", got)
		}
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		handler, store := newSegmentHandler()

		body := `[{"category":"sponsor","segment":[30,20]}]`
		req := httptest.NewRequest(http.MethodPut, "/segments/abc", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if store.CurrentVideo() != "" {
			t.Error("nothing should be stored")
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		handler, _ := newSegmentHandler()

		req := httptest.NewRequest(http.MethodPut, "/segments/abc", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestSegmentHTTPHandler_Get(t *testing.T) {
	handler, store := newSegmentHandler()
	_ = store.Put("other", nil)

	t.Run("unknown video returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/segments/abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("escaped ids are decoded", func(t *testing.T) {
		put := httptest.NewRequest(http.MethodPut, "/segments/a%2Bb", strings.NewReader(`[{"category":"intro","segment":[0,5]}]`))
		handler.ServeHTTP(httptest.NewRecorder(), put)

		req := httptest.NewRequest(http.MethodGet, "/segments/a%2Bb", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var resp segmentsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.VideoID != "a+b" || len(resp.Segments) != 1 {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("missing id returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/segments/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("DELETE returns 405", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/segments/abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", rec.Code)
		}
	})
}
