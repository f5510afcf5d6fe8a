package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/couchcryptid/flood-area-check/internal/domain"
	"github.com/couchcryptid/flood-area-check/internal/session"
)

const maxBodyBytes = 64 << 10

// actionRequest carries the client's input fields. Locate requests also
// carry the browser's geolocation answer: a position, or an error code.
type actionRequest struct {
	session.Fields
	Lat              *float64 `json:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty"`
	GeolocationError string   `json:"geolocationError,omitempty"`
}

// geoErrUnsupported is the code a client without geolocation reports. Any
// other code, such as "denied" or "timeout", means the position is unavailable.
const geoErrUnsupported = "unsupported"

type actionResponse struct {
	session.Outcome
	Fields           session.Fields `json:"fields"`
	ErrorSummaryHTML string         `json:"errorSummaryHtml,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	sess := s.newSession(req.Fields)
	s.respond(w, sess, sess.Search(r.Context(), req.SearchText))
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	sess := s.newSession(req.Fields)
	s.respond(w, sess, sess.UseMyLocation(r.Context(), locatorFor(req)))
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	sess := s.newSession(req.Fields)
	s.respond(w, sess, sess.Draw(r.Context()))
}

// newSession builds a session scoped to one request.
func (s *Server) newSession(fields session.Fields) *session.Session {
	sess := session.New(s.api.Geocoder, s.api.Intersector, s.api.Publisher, s.logger, s.metrics)
	sess.SetFields(fields)
	sess.SetPublishTimeout(s.api.PublishTimeout)
	return sess
}

// decode reads the request body. An empty body is an empty request.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (actionRequest, bool) {
	var req actionRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Debug("bad request body", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return actionRequest{}, false
	}
	return req, true
}

func (s *Server) respond(w http.ResponseWriter, sess *session.Session, out session.Outcome) {
	resp := actionResponse{Outcome: out, Fields: sess.Fields()}
	if out.Error != nil {
		resp.ErrorSummaryHTML = RenderErrorSummary(out.Error.Message, out.Error.Target)
	}
	writeJSON(w, http.StatusOK, resp)
}

func locatorFor(req actionRequest) domain.Locator {
	switch {
	case req.GeolocationError == geoErrUnsupported:
		return domain.FixedLocator{Err: domain.ErrGeolocationUnsupported}
	case req.GeolocationError != "":
		return domain.FixedLocator{Err: domain.ErrLocationUnavailable}
	case req.Lat == nil || req.Lng == nil:
		return domain.FixedLocator{Err: domain.ErrLocationUnavailable}
	}
	return domain.FixedLocator{Point: domain.LatLng{Lat: *req.Lat, Lng: *req.Lng}}
}
