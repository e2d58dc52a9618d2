package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeGameAlreadyExists        = "GAME_ALREADY_EXISTS"
	CodeGameNoPlayers            = "GAME_NO_PLAYERS"
	CodeGameDuplicatePlayer      = "GAME_DUPLICATE_PLAYER"
	CodeGamePlayerNameEmpty      = "GAME_PLAYER_NAME_EMPTY"
	CodeGameReservedPlayerName   = "GAME_RESERVED_PLAYER_NAME"
	CodeGameUnknownRole          = "GAME_UNKNOWN_ROLE"
	CodeGameUnknownAlignment     = "GAME_UNKNOWN_ALIGNMENT"
	CodeGameUnknownModifier      = "GAME_UNKNOWN_MODIFIER"
	CodeGameInvalidStartPhase    = "GAME_INVALID_START_PHASE"
	CodeGameInvalidCategoryOrder = "GAME_INVALID_CATEGORY_ORDER"
	CodeGameAlreadyResolved      = "GAME_ALREADY_RESOLVED"
	CodeIllegalPhaseTransition   = "ILLEGAL_PHASE_TRANSITION"
	CodeUnknownAbility           = "UNKNOWN_ABILITY"
	CodeUnknownPlayer            = "UNKNOWN_PLAYER"
	CodeInvalidTarget            = "INVALID_TARGET"
	CodeInvalidTargetCount       = "INVALID_TARGET_COUNT"
	CodeIneligibleNow            = "INELIGIBLE_NOW"
	CodeUnknownChat              = "UNKNOWN_CHAT"
	CodeChatNotReadable          = "CHAT_NOT_READABLE"
	CodeChatNotWritable          = "CHAT_NOT_WRITABLE"
	CodeChatBodyEmpty            = "CHAT_BODY_EMPTY"
	CodeSeatGrantInvalid         = "SEAT_GRANT_INVALID"
	CodeSeatGrantExpired         = "SEAT_GRANT_EXPIRED"
	CodeSeatGrantMismatch        = "SEAT_GRANT_MISMATCH"
	CodeNotAuthorized            = "NOT_AUTHORIZED"
	CodeNotFound                 = "NOT_FOUND"
)

// messagesEnUS holds the base-locale message templates.
var messagesEnUS = map[Code]string{
	CodeGameAlreadyExists:        "this game already exists",
	CodeGameNoPlayers:            "a game needs at least one player",
	CodeGameDuplicatePlayer:      "player {{.Player}} appears more than once",
	CodeGamePlayerNameEmpty:      "every player needs a name",
	CodeGameReservedPlayerName:   "{{.Player}} is a reserved name",
	CodeGameUnknownRole:          "unknown role {{.Role}}",
	CodeGameUnknownAlignment:     "unknown alignment {{.Alignment}}",
	CodeGameUnknownModifier:      "unknown modifier {{.Modifier}}",
	CodeGameInvalidStartPhase:    "games cannot start in phase {{.Phase}}",
	CodeGameInvalidCategoryOrder: "the category order must name each category exactly once",
	CodeGameAlreadyResolved:      "this game is already resolved",
	CodeIllegalPhaseTransition:   "the phase cannot change from {{.Phase}}",
	CodeUnknownAbility:           "unknown ability {{.Ability}}",
	CodeUnknownPlayer:            "unknown player {{.Player}}",
	CodeInvalidTarget:            "{{.Target}} is not a legal target",
	CodeInvalidTargetCount:       "this ability needs {{.Want}} target(s), got {{.Got}}",
	CodeIneligibleNow:            "this ability cannot be used right now",
	CodeUnknownChat:              "unknown chat {{.Chat}}",
	CodeChatNotReadable:          "you cannot read this chat",
	CodeChatNotWritable:          "you cannot post to this chat",
	CodeChatBodyEmpty:            "messages cannot be empty",
	CodeSeatGrantInvalid:         "the seat grant is invalid",
	CodeSeatGrantExpired:         "the seat grant is expired",
	CodeSeatGrantMismatch:        "the seat grant does not match this seat",
	CodeNotAuthorized:            "you are not allowed to do that",
	CodeNotFound:                 "not found",
}
