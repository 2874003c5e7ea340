// Package errors provides the coded rejection taxonomy shared by the engine.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable rejection code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Action errors
	CodeInvalidCardIndex Code = "INVALID_CARD_INDEX"
	CodePhaseViolation   Code = "PHASE_VIOLATION"
	CodeNoEffect         Code = "NO_EFFECT"

	// Tile errors
	CodeTileOutOfGrid  Code = "TILE_OUT_OF_GRID"
	CodeTileOccupied   Code = "TILE_OCCUPIED"
	CodeTileProtected  Code = "TILE_PROTECTED"
	CodeWindMismatch   Code = "WIND_MISMATCH"
	CodePatternInvalid Code = "PATTERN_INVALID"

	// Session errors
	CodeGameNotFound    Code = "GAME_NOT_FOUND"
	CodeInvalidSettings Code = "INVALID_SETTINGS"

	// CodeEngineInvariantViolation means the elimination bookkeeping is broken.
	// The match cannot continue.
	CodeEngineInvariantViolation Code = "ENGINE_INVARIANT_VIOLATION"
)

// Fatal reports whether the code aborts the match.
func (c Code) Fatal() bool {
	return c == CodeEngineInvariantViolation
}

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - malformed input
	case CodeInvalidCardIndex,
		CodeTileOutOfGrid,
		CodeInvalidSettings:
		return codes.InvalidArgument

	// FailedPrecondition - the board or turn does not allow the action
	case CodePhaseViolation,
		CodeNoEffect,
		CodeTileOccupied,
		CodeTileProtected,
		CodeWindMismatch,
		CodePatternInvalid:
		return codes.FailedPrecondition

	case CodeGameNotFound:
		return codes.NotFound

	case CodeEngineInvariantViolation:
		return codes.Internal

	default:
		return codes.Unknown
	}
}
