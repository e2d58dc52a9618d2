// Package errors defines the coded rejection type every game operation
// returns, plus the mapping from codes to transport status and
// translated user text.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Game lifecycle errors
	CodeGameAlreadyExists        Code = "GAME_ALREADY_EXISTS"
	CodeGameNoPlayers            Code = "GAME_NO_PLAYERS"
	CodeGameDuplicatePlayer      Code = "GAME_DUPLICATE_PLAYER"
	CodeGamePlayerNameEmpty      Code = "GAME_PLAYER_NAME_EMPTY"
	CodeGameReservedPlayerName   Code = "GAME_RESERVED_PLAYER_NAME"
	CodeGameUnknownRole          Code = "GAME_UNKNOWN_ROLE"
	CodeGameUnknownAlignment     Code = "GAME_UNKNOWN_ALIGNMENT"
	CodeGameUnknownModifier      Code = "GAME_UNKNOWN_MODIFIER"
	CodeGameInvalidStartPhase    Code = "GAME_INVALID_START_PHASE"
	CodeGameInvalidCategoryOrder Code = "GAME_INVALID_CATEGORY_ORDER"
	CodeGameAlreadyResolved      Code = "GAME_ALREADY_RESOLVED"
	CodeIllegalPhaseTransition   Code = "ILLEGAL_PHASE_TRANSITION"

	// Ability queue errors
	CodeUnknownAbility     Code = "UNKNOWN_ABILITY"
	CodeUnknownPlayer      Code = "UNKNOWN_PLAYER"
	CodeInvalidTarget      Code = "INVALID_TARGET"
	CodeInvalidTargetCount Code = "INVALID_TARGET_COUNT"
	CodeIneligibleNow      Code = "INELIGIBLE_NOW"

	// Chat errors
	CodeUnknownChat     Code = "UNKNOWN_CHAT"
	CodeChatNotReadable Code = "CHAT_NOT_READABLE"
	CodeChatNotWritable Code = "CHAT_NOT_WRITABLE"
	CodeChatBodyEmpty   Code = "CHAT_BODY_EMPTY"

	// Seat grant errors
	CodeSeatGrantInvalid  Code = "SEAT_GRANT_INVALID"
	CodeSeatGrantExpired  Code = "SEAT_GRANT_EXPIRED"
	CodeSeatGrantMismatch Code = "SEAT_GRANT_MISMATCH"

	// Authorization errors
	CodeNotAuthorized Code = "NOT_AUTHORIZED"

	// Query errors
	CodeInvalidFilter Code = "INVALID_FILTER"

	// Transport errors
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeGameNoPlayers,
		CodeGameDuplicatePlayer,
		CodeGamePlayerNameEmpty,
		CodeGameReservedPlayerName,
		CodeGameUnknownRole,
		CodeGameUnknownAlignment,
		CodeGameUnknownModifier,
		CodeGameInvalidStartPhase,
		CodeGameInvalidCategoryOrder,
		CodeInvalidTarget,
		CodeInvalidTargetCount,
		CodeChatBodyEmpty,
		CodeSeatGrantInvalid,
		CodeInvalidFilter,
		CodeInvalidRequest:
		return codes.InvalidArgument

	// AlreadyExists - duplicate resource creation
	case CodeGameAlreadyExists:
		return codes.AlreadyExists

	// FailedPrecondition - valid input, wrong state
	case CodeGameAlreadyResolved,
		CodeIllegalPhaseTransition,
		CodeIneligibleNow,
		CodeSeatGrantExpired:
		return codes.FailedPrecondition

	// PermissionDenied - caller lacks access
	case CodeChatNotReadable,
		CodeChatNotWritable,
		CodeSeatGrantMismatch,
		CodeNotAuthorized:
		return codes.PermissionDenied

	// NotFound - missing resources
	case CodeNotFound,
		CodeUnknownAbility,
		CodeUnknownPlayer,
		CodeUnknownChat:
		return codes.NotFound

	case CodeUnknown:
		return codes.Unknown

	default:
		return codes.Internal
	}
}
