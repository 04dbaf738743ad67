// Package casefile defines the domain records of a missing-person case
// (Person, Photo, Case, Volunteer, Notification, Sighting), the Store
// interface for persisting them, and the typed error taxonomy the
// workflows report through.
package casefile
