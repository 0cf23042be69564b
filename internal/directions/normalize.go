package directions

import (
	"strings"

	"github.com/sakaymap/sakaymap/internal/fare"
	"github.com/sakaymap/sakaymap/pkg/polyline"
)

// rankPalette maps route rank to a draw color. Rank 0 is the provider's
// default route; ranks beyond the palette reuse the last color.
var rankPalette = []string{"#00DF82", "#FFA500", "#FF4500"}

// RankColor returns the draw color for a route at the given rank.
func RankColor(rank int) string {
	if rank < 0 {
		rank = 0
	}
	if rank >= len(rankPalette) {
		rank = len(rankPalette) - 1
	}
	return rankPalette[rank]
}

// Normalize converts a raw directions payload into a ranked RouteSet.
//
// Provider order is preserved exactly: the output has one Route per raw
// route, never re-sorted. Returns ErrNoRoutesFound when the payload status
// is not OK or it contains zero routes.
//
// Fare resolution per route, in priority order:
//  1. the provider's route-level fare, when present;
//  2. the sum of per-step transit fares, when any step carries one;
//  3. an estimate from the total leg distance using the given rates.
func Normalize(p *Payload, rates fare.Rates) (RouteSet, error) {
	if p == nil || p.Status != StatusOK || len(p.Routes) == 0 {
		return nil, ErrNoRoutesFound
	}

	routes := make(RouteSet, 0, len(p.Routes))
	for i := range p.Routes {
		routes = append(routes, normalizeRoute(&p.Routes[i], i, rates))
	}
	return routes, nil
}

// normalizeRoute converts one raw candidate route.
func normalizeRoute(raw *RawRoute, rank int, rates fare.Rates) Route {
	route := Route{
		Summary:  raw.Summary,
		Polyline: raw.OverviewPolyline.Points,
		Currency: rates.Currency,
		Color:    RankColor(rank),
	}

	var (
		stepFareSum float64
		hasStepFare bool
	)

	for li := range raw.Legs {
		leg := &raw.Legs[li]
		if route.Duration == "" {
			route.Duration = leg.Duration.Text
		}
		route.DistanceMeters += leg.Distance.Value

		for si := range leg.Steps {
			step := buildStep(&leg.Steps[si])
			if step.Details != nil && step.Details.Fare != nil {
				stepFareSum += *step.Details.Fare
				hasStepFare = true
			}
			route.Steps = append(route.Steps, step)
		}
	}

	switch {
	case raw.Fare != nil:
		route.Fare = raw.Fare.Value
		if raw.Fare.Currency != "" {
			route.Currency = raw.Fare.Currency
		}
	case hasStepFare:
		route.Fare = stepFareSum
	default:
		route.Fare = rates.Estimate(routeDistance(raw, route.DistanceMeters))
	}

	return route
}

// routeDistance returns the leg distance total, falling back to the decoded
// overview polyline length when the provider omitted leg distances.
func routeDistance(raw *RawRoute, legTotal float64) float64 {
	if legTotal > 0 {
		return legTotal
	}
	return polyline.Length(polyline.Decode(raw.OverviewPolyline.Points))
}

// buildStep converts one raw step. Transit steps get a StepDetail; walking
// and other modes do not.
func buildStep(raw *RawStep) Step {
	step := Step{Instruction: stripTags(raw.HTMLInstructions)}

	if raw.TravelMode != TravelModeTransit || raw.TransitDetails == nil {
		return step
	}

	td := raw.TransitDetails
	detail := &StepDetail{
		Line:     td.Line.ShortName,
		Vehicle:  td.Line.Vehicle.Type,
		Duration: raw.Duration.Text,
	}
	if detail.Line == "" {
		detail.Line = td.Line.Name
	}

	if raw.Fare != nil {
		v := raw.Fare.Value
		detail.Fare = &v
	}

	// A missing boarding coordinate stays nil so no marker is drawn at (0,0).
	if td.DepartureStop.Location != nil {
		loc := *td.DepartureStop.Location
		detail.From = &loc
	}

	step.Details = detail
	return step
}

// stripTags removes HTML markup from provider instruction strings, which
// arrive like "Walk to <b>Taft Avenue</b>".
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
