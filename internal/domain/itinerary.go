package domain

type TripType string

const (
	TripTypeOneWay    TripType = "One Way"
	TripTypeRoundTrip TripType = "Round Trip"
	TripTypeMultiCity TripType = "Multi City"
)

type FlightEndpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type FlightSegment struct {
	Departure    FlightEndpoint `json:"departure"`
	Arrival      FlightEndpoint `json:"arrival"`
	CarrierCode  string         `json:"carrierCode"`
	Number       string         `json:"number"`
	AircraftCode string         `json:"aircraftCode,omitempty"`
	Duration     string         `json:"duration"`
}

type Itinerary struct {
	Segments []FlightSegment `json:"segments"`
}
