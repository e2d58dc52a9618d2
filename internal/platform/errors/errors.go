package errors

import (
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain tags ErrorInfo details so clients can tell Smalltown codes
// apart from codes minted by other services.
const Domain = "github.com/louisbranch/smalltown"

// Error is a rejection with a stable machine code. Message is the
// internal, English form; transports render user-facing text from the
// code and metadata via the i18n catalog.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on code alone. Two rejections with the same code are the
// same error no matter how their messages are worded.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// New returns a rejection carrying only a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata returns a rejection whose metadata feeds message
// templating. Keys must match the placeholders in the i18n catalog
// entry for the code.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap returns a rejection that keeps cause reachable through
// errors.Is and errors.As.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// ToGRPCStatus renders the error as a gRPC status. The status message
// stays internal; userMessage carries the translated text in a
// LocalizedMessage detail alongside the ErrorInfo code and metadata.
func (e *Error) ToGRPCStatus(locale string, userMessage string) error {
	grpcCode := e.Code.GRPCCode()
	st, err := status.New(grpcCode, e.Message).WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  locale,
			Message: userMessage,
		},
	)
	if err != nil {
		// Details failed to marshal; the bare status still carries the code.
		return status.New(grpcCode, e.Message).Err()
	}
	return st.Err()
}
