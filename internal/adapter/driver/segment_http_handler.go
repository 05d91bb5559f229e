package driver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/alorle/tvtube-proxy/internal/application"
	"github.com/alorle/tvtube-proxy/internal/segment"
)

// SegmentHTTPHandler lets the annotation collaborator publish the segments
// of the video being played.
type SegmentHTTPHandler struct {
	service *application.SegmentService
}

// NewSegmentHTTPHandler creates a new HTTP handler for segments.
func NewSegmentHTTPHandler(service *application.SegmentService) *SegmentHTTPHandler {
	return &SegmentHTTPHandler{service: service}
}

// segmentJSON is one annotation with times in seconds.
type segmentJSON struct {
	Category string     `json:"category"`
	Segment  [2]float64 `json:"segment"`
}

// segmentsResponse represents the segments of one video in JSON format.
type segmentsResponse struct {
	VideoID  string        `json:"video_id"`
	Current  bool          `json:"current"`
	Segments []segmentJSON `json:"segments"`
}

func (h *SegmentHTTPHandler) toResponse(videoID string, segs []segment.Segment) segmentsResponse {
	resp := segmentsResponse{
		VideoID:  videoID,
		Current:  h.service.CurrentVideo() == videoID,
		Segments: make([]segmentJSON, len(segs)),
	}
	for i, s := range segs {
		resp.Segments[i] = segmentJSON{Category: s.Category(), Segment: [2]float64{s.Start(), s.End()}}
	}
	return resp
}

// ServeHTTP routes PUT and GET /segments/{videoId}.
func (h *SegmentHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.EscapedPath(), "/segments/")

	var videoID string
	err := runtime.BindStyledParameterWithOptions("simple", "videoId", raw, &videoID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || videoID == "" || strings.Contains(videoID, "/") {
		writeError(w, http.StatusBadRequest, "invalid video id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.handlePut(w, r, videoID)
	case http.MethodGet:
		h.handleGet(w, r, videoID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handlePut handles PUT /segments/{videoId}
func (h *SegmentHTTPHandler) handlePut(w http.ResponseWriter, r *http.Request, videoID string) {
	var req []segmentJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inputs := make([]application.SegmentInput, len(req))
	for i, s := range req {
		inputs[i] = application.SegmentInput{Category: s.Category, Start: s.Segment[0], End: s.Segment[1]}
	}

	segs, err := h.service.Publish(videoID, inputs)
	if err != nil {
		if errors.Is(err, segment.ErrEmptyCategory) ||
			errors.Is(err, segment.ErrInvalidRange) ||
			errors.Is(err, segment.ErrEmptyVideoID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(videoID, segs))
}

// handleGet handles GET /segments/{videoId}
func (h *SegmentHTTPHandler) handleGet(w http.ResponseWriter, r *http.Request, videoID string) {
	segs, err := h.service.List(videoID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if segs == nil {
		writeError(w, http.StatusNotFound, "no segments for video")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(videoID, segs))
}
