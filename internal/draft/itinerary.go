package draft

import (
	"fmt"
	"math"
	"slices"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
)

func emptyItinerary() domain.Itinerary {
	return domain.Itinerary{Segments: []domain.FlightSegment{}}
}

func minItineraries(t domain.TripType) int {
	switch t {
	case domain.TripTypeRoundTrip, domain.TripTypeMultiCity:
		return 2
	default:
		return 1
	}
}

// maxItineraries is the most itineraries t allows; Multi City has no limit.
func maxItineraries(t domain.TripType) int {
	switch t {
	case domain.TripTypeOneWay:
		return 1
	case domain.TripTypeRoundTrip:
		return 2
	default:
		return math.MaxInt
	}
}

func inferTripType(itineraries int) domain.TripType {
	if itineraries == 2 {
		return domain.TripTypeRoundTrip
	}
	if itineraries > 2 {
		return domain.TripTypeMultiCity
	}
	return domain.TripTypeOneWay
}

// SetTripType is the only operation that resizes the itinerary list.
// One Way keeps itinerary 0 alone and discards the rest. Round Trip keeps
// exactly two. Multi City never truncates and keeps at least two.
func (e *Editor) SetTripType(t domain.TripType) error {
	d := e.draft
	itineraries := slices.Clone(d.Itineraries)

	switch t {
	case domain.TripTypeOneWay:
		if len(itineraries) > 1 {
			itineraries = itineraries[:1]
		}
	case domain.TripTypeRoundTrip:
		if len(itineraries) > 2 {
			itineraries = itineraries[:2]
		}
	case domain.TripTypeMultiCity:
	default:
		return fmt.Errorf("trip type %q: %w", t, domain.ErrUnknownTripType)
	}

	for len(itineraries) < minItineraries(t) {
		itineraries = append(itineraries, emptyItinerary())
	}

	d.TripType = t
	d.Itineraries = slices.Clip(itineraries)
	return nil
}

// AddSegment appends a blank segment to an itinerary.
func (e *Editor) AddSegment(itineraryIndex int) error {
	if err := checkIndex("itinerary", itineraryIndex, len(e.draft.Itineraries)); err != nil {
		return err
	}
	e.replaceSegments(itineraryIndex, func(segments []domain.FlightSegment) []domain.FlightSegment {
		return append(segments, domain.FlightSegment{})
	})
	return nil
}

func (e *Editor) RemoveSegment(itineraryIndex, segmentIndex int) error {
	if err := checkIndex("itinerary", itineraryIndex, len(e.draft.Itineraries)); err != nil {
		return err
	}
	if err := checkIndex("segment", segmentIndex, len(e.draft.Itineraries[itineraryIndex].Segments)); err != nil {
		return err
	}
	e.replaceSegments(itineraryIndex, func(segments []domain.FlightSegment) []domain.FlightSegment {
		return slices.Delete(segments, segmentIndex, segmentIndex+1)
	})
	return nil
}

// UpdateSegmentField sets one segment field. For departure and arrival the
// nested field names the sub-object field (iataCode, terminal, at); for every
// other field nested must be empty.
func (e *Editor) UpdateSegmentField(itineraryIndex, segmentIndex int, field, value, nested string) error {
	if err := checkIndex("itinerary", itineraryIndex, len(e.draft.Itineraries)); err != nil {
		return err
	}
	if err := checkIndex("segment", segmentIndex, len(e.draft.Itineraries[itineraryIndex].Segments)); err != nil {
		return err
	}

	seg := e.draft.Itineraries[itineraryIndex].Segments[segmentIndex]
	target, err := segmentField(&seg, field, nested)
	if err != nil {
		return err
	}
	*target = value

	e.replaceSegments(itineraryIndex, func(segments []domain.FlightSegment) []domain.FlightSegment {
		segments[segmentIndex] = seg
		return segments
	})
	return nil
}

func (e *Editor) replaceSegments(itineraryIndex int, fn func([]domain.FlightSegment) []domain.FlightSegment) {
	itineraries := slices.Clone(e.draft.Itineraries)
	segments := fn(slices.Clone(itineraries[itineraryIndex].Segments))
	if segments == nil {
		segments = []domain.FlightSegment{}
	}
	itineraries[itineraryIndex] = domain.Itinerary{Segments: segments}
	e.draft.Itineraries = itineraries
}

func segmentField(seg *domain.FlightSegment, field, nested string) (*string, error) {
	var endpoint *domain.FlightEndpoint
	switch field {
	case "departure":
		endpoint = &seg.Departure
	case "arrival":
		endpoint = &seg.Arrival
	}

	if endpoint == nil {
		if nested != "" {
			return nil, fmt.Errorf("segment field %q has no nested %q: %w", field, nested, domain.ErrUnknownField)
		}
		switch field {
		case "carrierCode":
			return &seg.CarrierCode, nil
		case "number":
			return &seg.Number, nil
		case "aircraftCode":
			return &seg.AircraftCode, nil
		case "duration":
			return &seg.Duration, nil
		}
		return nil, fmt.Errorf("segment field %q: %w", field, domain.ErrUnknownField)
	}

	switch nested {
	case "iataCode":
		return &endpoint.IATACode, nil
	case "terminal":
		return &endpoint.Terminal, nil
	case "at":
		return &endpoint.At, nil
	}
	return nil, fmt.Errorf("segment field %s.%s: %w", field, nested, domain.ErrUnknownField)
}
