package domain

// ErrorKind classifies a user-facing failure.
type ErrorKind string

const (
	// KindInputValidation covers empty queries and malformed or missing
	// coordinate input. Always recoverable by editing the input.
	KindInputValidation ErrorKind = "input_validation"

	// KindExternalService covers geocoder and geolocation failures.
	// Never retried automatically.
	KindExternalService ErrorKind = "external_service"

	// KindRegionRejection is a successful lookup outside England.
	// It is an expected outcome, not a fault.
	KindRegionRejection ErrorKind = "region_rejection"
)

// Input field identifiers used as error focus targets.
const (
	FieldLocationSearch = "locationSearch"
	FieldBoundingBox    = "bbox"
	FieldPolygon        = "polygon"
)

// User-facing messages.
const (
	MsgEnterLocation          = "Please enter a location."
	MsgLocationNotFound       = "Location not found."
	MsgOutsideEngland         = "Location is outside England. Please search for a location within England."
	MsgSearchFailed           = "Search failed."
	MsgGeolocationUnsupported = "Geolocation is not supported by your browser."
	MsgLocationUnavailable    = "Unable to retrieve your location."
	MsgCurrentOutsideEngland  = "Your current location appears to be outside England. The app only accepts locations in England."
	MsgInvalidJSON            = "Invalid JSON format."
	MsgShapesIntersect        = "Shapes intersect!"
	MsgNoIntersection         = "No intersection."
	MsgShapesDrawn            = "Shapes drawn."
)

// UserError is a failure presented to the user as a message with an
// optional input field to focus.
type UserError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Target  string    `json:"target,omitempty"`
	Detail  string    `json:"-"`
}

func (e *UserError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}
