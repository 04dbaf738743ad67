package casework

import "context"

// Broadcaster posts a public one-way message to a named social channel.
// There is no delivery acknowledgment beyond call success.
type Broadcaster interface {
	Name() string
	Post(ctx context.Context, message string) error
}

// Messenger delivers group and direct text messages.
type Messenger interface {
	SendGroup(ctx context.Context, groupID, message string) error
	SendDirect(ctx context.Context, phone, message string) error
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves free-text locations to coordinates and renders
// static map URLs.
type Geocoder interface {
	Resolve(ctx context.Context, location string) (Coordinates, error)
	StaticMapURL(c Coordinates) string
}

// FaceComparison is the outcome of comparing two photos.
type FaceComparison struct {
	Match      bool    `json:"is_match"`
	Confidence float64 `json:"confidence"`
}

// FaceMatcher decides whether two photos depict the same person.
type FaceMatcher interface {
	Compare(ctx context.Context, imageURLA, imageURLB string) (FaceComparison, error)
}
