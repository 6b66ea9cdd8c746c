// package models defines the data model for the streaming client core.
//
// Entities are the canonical cached shapes (User, Track, Collection) keyed by
// (kind, id). Raw types mirror the snake_case wire format returned by the
// streaming API and are converted to entities at the normalization boundary,
// where they are also validated. Nothing in this package performs I/O.
package models
