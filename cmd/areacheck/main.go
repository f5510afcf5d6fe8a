// Command areacheck runs one area-check action from the command line and
// prints the outcome. Without -search or -locate it draws the -bbox and
// -polygon fields and reports whether they intersect.
//
// Usage:
//
//	go run ./cmd/areacheck -bbox '[-1, 50, 1, 52]' -polygon '[[0, 51], [1, 51], [1, 52]]'
//	MAPBOX_TOKEN=pk... go run ./cmd/areacheck -search 'Leeds' -polygon '[[-1.55, 53.8], [-1.5, 53.8], [-1.5, 53.85]]'
//	MAPBOX_TOKEN=pk... go run ./cmd/areacheck -locate 51.5072,-0.1276 -json
//
// Exit status is 0 when shapes were drawn, 1 when the action was rejected or
// failed, and 2 on usage errors.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/flood-area-check/internal/adapter/mapbox"
	"github.com/couchcryptid/flood-area-check/internal/adapter/orbgeom"
	"github.com/couchcryptid/flood-area-check/internal/config"
	"github.com/couchcryptid/flood-area-check/internal/domain"
	"github.com/couchcryptid/flood-area-check/internal/observability"
	"github.com/couchcryptid/flood-area-check/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetrics()

	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		geocoder = mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, cfg.MapboxBaseURL, metrics, logger)
	}

	os.Exit(run(os.Args[1:], geocoder, metrics, logger, os.Stdout, os.Stderr))
}

func run(args []string, geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("areacheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	search := fs.String("search", "", "place to geocode; must be in England")
	locate := fs.String("locate", "", "device position as lat,lng")
	bbox := fs.String("bbox", "", "bounding box JSON [minLng, minLat, maxLng, maxLat]")
	polygon := fs.String("polygon", "", "polygon JSON [[lng, lat], ...]")
	asJSON := fs.Bool("json", false, "print the outcome as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *search != "" && *locate != "" {
		fmt.Fprintln(stderr, "-search and -locate are mutually exclusive")
		return 2
	}

	sess := session.New(geocoder, orbgeom.New(), nil, logger, metrics)
	sess.SetFields(session.Fields{BoundingBoxText: *bbox, PolygonText: *polygon})

	ctx := context.Background()
	var out session.Outcome
	switch {
	case *search != "":
		out = sess.Search(ctx, *search)
	case *locate != "":
		point, err := parseLatLng(*locate)
		if err != nil {
			fmt.Fprintf(stderr, "invalid -locate: %v\n", err)
			return 2
		}
		out = sess.UseMyLocation(ctx, domain.FixedLocator{Point: point})
	default:
		out = sess.Draw(ctx)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			session.Outcome
			Fields session.Fields `json:"fields"`
		}{out, sess.Fields()}); err != nil {
			fmt.Fprintf(stderr, "encode outcome: %v\n", err)
			return 1
		}
	} else {
		printOutcome(stdout, out, sess.Fields())
	}

	if out.State != session.StateDrawn {
		return 1
	}
	return 0
}

func parseLatLng(s string) (domain.LatLng, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.LatLng{}, fmt.Errorf("want lat,lng, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("lat: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return domain.LatLng{}, fmt.Errorf("lng: %w", err)
	}
	return domain.LatLng{Lat: lat, Lng: lng}, nil
}

func printOutcome(w io.Writer, out session.Outcome, fields session.Fields) {
	fmt.Fprintf(w, "%-9s %s\n", "action:", out.Action)
	fmt.Fprintf(w, "%-9s %s\n", "state:", out.State)
	if out.Message != "" {
		fmt.Fprintf(w, "%-9s %s\n", "message:", out.Message)
	}
	if out.Error != nil {
		msg := out.Error.Message
		if out.Error.Target != "" {
			msg += " (" + out.Error.Target + ")"
		}
		fmt.Fprintf(w, "%-9s %s\n", "error:", msg)
		if out.Error.Detail != "" {
			fmt.Fprintf(w, "%-9s %s\n", "detail:", out.Error.Detail)
		}
	}
	if out.Warning != "" {
		fmt.Fprintf(w, "%-9s %s\n", "warning:", out.Warning)
	}
	if out.Verdict != "" {
		fmt.Fprintf(w, "%-9s %s\n", "verdict:", out.Verdict)
	}
	if len(out.Shapes) > 0 {
		parts := make([]string, 0, len(out.Shapes))
		for _, s := range out.Shapes {
			parts = append(parts, fmt.Sprintf("%s (%d points)", s.Kind, len(s.Points)))
		}
		fmt.Fprintf(w, "%-9s %s\n", "shapes:", strings.Join(parts, ", "))
	}
	if out.View != nil {
		fmt.Fprintf(w, "%-9s S %.6f W %.6f N %.6f E %.6f\n", "view:",
			out.View.South, out.View.West, out.View.North, out.View.East)
	}
	if fields.SearchText != "" {
		fmt.Fprintf(w, "%-9s %s\n", "place:", fields.SearchText)
	}
	if out.Action != session.ActionDraw && fields.BoundingBoxText != "" {
		fmt.Fprintf(w, "bbox field:\n%s\n", fields.BoundingBoxText)
	}
}
