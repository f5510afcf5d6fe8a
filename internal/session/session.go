// Package session coordinates the search, use-my-location and draw actions
// over one user's input fields and displayed shapes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/flood-area-check/internal/domain"
	"github.com/couchcryptid/flood-area-check/internal/observability"
	"github.com/google/uuid"
)

// Publisher receives an event for every completed action.
type Publisher interface {
	Publish(ctx context.Context, event domain.OutcomeEvent) error
}

// DefaultPublishTimeout bounds the wait on the publisher when none is set.
const DefaultPublishTimeout = 2 * time.Second

// Session owns the input fields and the displayed shapes. Every action bumps
// a generation counter; an action superseded while waiting on an external
// call leaves the session untouched and returns a stale Outcome.
type Session struct {
	geocoder    domain.Geocoder
	intersector domain.Intersector
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics

	publishTimeout time.Duration

	mu     sync.Mutex
	gen    uint64
	state  State
	fields Fields
	shapes []domain.Shape
}

// New creates an idle Session. A nil geocoder makes search fail and
// use-my-location skip reverse geocoding; a nil publisher disables events.
func New(geocoder domain.Geocoder, intersector domain.Intersector, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Session {
	return &Session{
		geocoder:    geocoder,
		intersector: intersector,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		state:       StateIdle,

		publishTimeout: DefaultPublishTimeout,
	}
}

// SetPublishTimeout bounds how long an action waits on the publisher.
// Non-positive values keep the default.
func (s *Session) SetPublishTimeout(d time.Duration) {
	if d > 0 {
		s.publishTimeout = d
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Fields returns a copy of the input fields.
func (s *Session) Fields() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// SetFields replaces the input fields wholesale.
func (s *Session) SetFields(f Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = f
}

// Shapes returns a copy of the displayed shapes.
func (s *Session) Shapes() []domain.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Shape(nil), s.shapes...)
}

// Search geocodes a free-text query and, if the top result is in England,
// fills the bounding-box field from its view and draws.
func (s *Session) Search(ctx context.Context, query string) Outcome {
	gen := s.begin(StateSearching)

	q := domain.SanitizeText(query)
	if q == "" {
		return s.finish(ctx, gen, s.reject(ActionSearch, domain.KindInputValidation, domain.MsgEnterLocation), "")
	}
	if s.geocoder == nil {
		return s.finish(ctx, gen, s.fail(ActionSearch, domain.KindExternalService, domain.MsgSearchFailed, domain.FieldLocationSearch, "no geocoder configured"), q)
	}

	results, err := s.geocoder.Geocode(ctx, q)
	if err != nil {
		s.logger.Warn("geocode failed", "query", q, "error", err)
		return s.finish(ctx, gen, s.fail(ActionSearch, domain.KindExternalService, domain.MsgSearchFailed, domain.FieldLocationSearch, err.Error()), q)
	}
	if len(results) == 0 {
		return s.finish(ctx, gen, s.reject(ActionSearch, domain.KindInputValidation, domain.MsgLocationNotFound), q)
	}

	top := results[0]
	verdict, rule := domain.ExplainRegion(&top)
	s.metrics.RegionVerdicts.WithLabelValues(string(ActionSearch), string(verdict)).Inc()
	if verdict != domain.VerdictInEngland {
		s.logger.Info("search result outside England", "query", q, "rule", rule)
		out := s.reject(ActionSearch, domain.KindRegionRejection, domain.MsgOutsideEngland)
		out.Verdict = verdict
		return s.finish(ctx, gen, out, q)
	}
	if top.BestView == nil {
		s.logger.Warn("search result has no view", "query", q)
		return s.finish(ctx, gen, s.reject(ActionSearch, domain.KindInputValidation, domain.MsgLocationNotFound), q)
	}

	box := domain.BoundingBoxFromView(*top.BestView)
	if !s.setField(gen, func(f *Fields) { f.BoundingBoxText = formatBoundingBox(box) }) {
		return s.finish(ctx, gen, s.stale(ActionSearch), q)
	}

	out := s.draw(gen, ActionSearch)
	out.Verdict = verdict
	return s.finish(ctx, gen, out, q)
}

// UseMyLocation draws a small box around the device location, then tries to
// reverse-geocode it. A location outside England is still drawn but carries
// a warning.
func (s *Session) UseMyLocation(ctx context.Context, locator domain.Locator) Outcome {
	gen := s.begin(StateLocating)

	if locator == nil {
		return s.finish(ctx, gen, s.fail(ActionLocate, domain.KindExternalService, domain.MsgGeolocationUnsupported, "", ""), "")
	}
	point, err := locator.Locate(ctx)
	if err != nil {
		msg := domain.MsgLocationUnavailable
		if errors.Is(err, domain.ErrGeolocationUnsupported) {
			msg = domain.MsgGeolocationUnsupported
		}
		return s.finish(ctx, gen, s.fail(ActionLocate, domain.KindExternalService, msg, "", err.Error()), "")
	}

	box := domain.BoundingBoxAround(point, domain.LocateDelta)
	if !s.setField(gen, func(f *Fields) { f.BoundingBoxText = formatBoundingBox(box) }) {
		return s.finish(ctx, gen, s.stale(ActionLocate), "")
	}

	if s.geocoder == nil {
		return s.finish(ctx, gen, s.draw(gen, ActionLocate), "")
	}

	res, err := s.geocoder.ReverseGeocode(ctx, point.Lat, point.Lng)
	if err != nil {
		s.logger.Warn("reverse geocode failed, drawing anyway", "lat", point.Lat, "lng", point.Lng, "error", err)
		return s.finish(ctx, gen, s.draw(gen, ActionLocate), "")
	}

	verdict, rule := domain.ExplainRegion(&res)
	s.metrics.RegionVerdicts.WithLabelValues(string(ActionLocate), string(verdict)).Inc()
	if verdict != domain.VerdictInEngland {
		s.logger.Info("current location outside England", "rule", rule)
		out := s.draw(gen, ActionLocate)
		out.Verdict = verdict
		if !out.Stale {
			out.Warning = domain.MsgCurrentOutsideEngland
		}
		return s.finish(ctx, gen, out, "")
	}

	if name := res.DisplayName(); name != "" {
		if !s.setField(gen, func(f *Fields) { f.SearchText = name }) {
			return s.finish(ctx, gen, s.stale(ActionLocate), "")
		}
	}
	out := s.draw(gen, ActionLocate)
	out.Verdict = verdict
	return s.finish(ctx, gen, out, "")
}

// Draw parses the bounding-box and polygon fields and replaces the displayed
// shapes. When both are present the intersector decides whether they overlap.
func (s *Session) Draw(ctx context.Context) Outcome {
	gen := s.begin(StateValidating)
	return s.finish(ctx, gen, s.draw(gen, ActionDraw), "")
}

func (s *Session) draw(gen uint64, action Action) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		return s.stale(action)
	}
	s.state = StateValidating

	bboxText := strings.TrimSpace(s.fields.BoundingBoxText)
	polyText := strings.TrimSpace(s.fields.PolygonText)

	var (
		box     domain.BoundingBox
		poly    domain.PolygonPoints
		hasBox  = bboxText != ""
		hasPoly = polyText != ""
	)
	if hasBox {
		r := domain.ParseBoundingBox(bboxText)
		if !r.OK {
			s.shapes = nil
			return s.fail(action, domain.KindInputValidation, domain.MsgInvalidJSON, domain.FieldBoundingBox, r.Err)
		}
		box = r.Value
	}
	if hasPoly {
		r := domain.ParsePolygon(polyText)
		if !r.OK {
			s.shapes = nil
			return s.fail(action, domain.KindInputValidation, domain.MsgInvalidJSON, domain.FieldPolygon, r.Err)
		}
		poly = r.Value
	}

	shapes := make([]domain.Shape, 0, 2)
	var boxShape, polyShape domain.Shape
	if hasBox {
		boxShape = domain.Shape{Kind: domain.ShapeBoundingBox, Points: box.Corners()}
		shapes = append(shapes, boxShape)
	}
	if hasPoly {
		polyShape = domain.Shape{Kind: domain.ShapePolygon, Points: domain.BuildPolygon(poly)}
		shapes = append(shapes, polyShape)
	}
	s.shapes = shapes

	out := Outcome{
		Action:  action,
		State:   StateDrawn,
		Message: domain.MsgShapesDrawn,
		Shapes:  append([]domain.Shape(nil), shapes...),
	}
	if view, ok := domain.FitBounds(boxShape.Points, polyShape.Points); ok {
		out.View = &view
	}
	if hasBox && hasPoly && s.intersector != nil {
		intersects := s.intersector.Intersects(boxShape, polyShape)
		out.Intersects = &intersects
		if intersects {
			out.Message = domain.MsgShapesIntersect
			s.metrics.IntersectionChecks.WithLabelValues("intersect").Inc()
		} else {
			out.Message = domain.MsgNoIntersection
			s.metrics.IntersectionChecks.WithLabelValues("disjoint").Inc()
		}
	}
	s.state = StateDrawn
	return out
}

// begin starts a new action, superseding any in flight.
func (s *Session) begin(state State) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = state
	return s.gen
}

// setField applies fn to the fields if gen is still current.
func (s *Session) setField(gen uint64, fn func(*Fields)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	fn(&s.fields)
	return true
}

// finish records a terminal outcome, stamps it and emits metrics and events.
func (s *Session) finish(ctx context.Context, gen uint64, out Outcome, query string) Outcome {
	s.mu.Lock()
	if s.gen == gen && !out.Stale {
		s.state = out.State
	} else {
		out.Stale = true
	}
	s.mu.Unlock()

	out.At = domain.Now()
	if out.Shapes == nil {
		out.Shapes = []domain.Shape{}
	}

	label := string(out.State)
	if out.Stale {
		label = "stale"
		s.logger.Debug("action superseded", "action", out.Action)
	}
	s.metrics.Actions.WithLabelValues(string(out.Action), label).Inc()

	if !out.Stale {
		s.publish(ctx, out, query)
	}
	return out
}

func (s *Session) publish(ctx context.Context, out Outcome, query string) {
	if s.publisher == nil || !out.State.Terminal() {
		return
	}
	event := domain.OutcomeEvent{
		ID:         uuid.NewString(),
		Action:     string(out.Action),
		State:      string(out.State),
		Verdict:    out.Verdict,
		Intersects: out.Intersects,
		Query:      query,
		ShapeCount: len(out.Shapes),
		At:         out.At,
	}
	if out.Error != nil {
		event.ErrorKind = out.Error.Kind
	}
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish outcome failed", "action", out.Action, "error", err)
		return
	}
	s.metrics.OutcomesPublished.Inc()
}

func (s *Session) reject(action Action, kind domain.ErrorKind, msg string) Outcome {
	return Outcome{
		Action: action,
		State:  StateRejected,
		Error:  &domain.UserError{Kind: kind, Message: msg, Target: domain.FieldLocationSearch},
	}
}

func (s *Session) fail(action Action, kind domain.ErrorKind, msg, target, detail string) Outcome {
	if detail != "" {
		s.logger.Debug("action failed", "action", action, "message", msg, "detail", detail)
	}
	return Outcome{
		Action: action,
		State:  StateFailed,
		Error:  &domain.UserError{Kind: kind, Message: msg, Target: target, Detail: detail},
	}
}

func (s *Session) stale(action Action) Outcome {
	return Outcome{Action: action, Stale: true}
}

// formatBoundingBox renders a box the way the bounding-box field shows it.
func formatBoundingBox(box domain.BoundingBox) string {
	b, err := json.MarshalIndent(box, "", "  ")
	if err != nil {
		// NaN or Inf; an empty field draws nothing.
		return ""
	}
	return string(b)
}
