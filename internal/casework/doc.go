// Package casework implements the missing-person coordination workflows:
// case intake, alert broadcast, volunteer matching and dispatch, search
// map generation, and sighting comparison. Each workflow is a stateless
// unit of work over the casefile.Store and the external adapters.
package casework
