package engine

import "errors"

// Sentinel errors surfaced by the engine. Callers use errors.Is to map
// them onto their own failure handling (HTTP status codes etc).
var (
	// ErrModelNotFound means a referenced scoring model id has no record.
	// Unlike an unknown team, this is fatal to the requested operation.
	ErrModelNotFound = errors.New("scoring model not found")

	// ErrEmptyResultSet means a simulation filter left zero eligible
	// matches, so no meaningful report can be produced.
	ErrEmptyResultSet = errors.New("no matches satisfied the simulation filters")

	// ErrNoMatchData means the match snapshot is empty or absent. An empty
	// snapshot is "cannot score", never "scored zero matches".
	ErrNoMatchData = errors.New("no match data available")

	// ErrNoMarketOdds means a match carries no usable decimal odds, so
	// edge against the market cannot be computed.
	ErrNoMarketOdds = errors.New("no market odds for match")
)
