package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/app"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"google.golang.org/grpc/codes"
)

// Credential headers. The player name travels in the clear; games
// created with require_grants additionally demand the seat grant JWT.
const (
	headerModToken  = "Authorization-Mod-Token"
	headerPlayer    = "Authorization-Player-Name"
	headerSeatGrant = "Authorization-Seat-Grant"
	headerRequestID = "X-Request-ID"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// rejectionBody is one domain rejection as returned to clients.
type rejectionBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// rejectionsResponse carries the rejections of a refused command.
type rejectionsResponse struct {
	Rejections []rejectionBody `json:"rejections"`
}

// writeJSON writes a JSON response with the provided status code.
func writeJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// writeError maps an error to an HTTP status and writes the JSON
// envelope. Errors without a domain code are reported as internal and
// logged; their text never reaches the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := httpStatus(appErr.Code)
		if status >= http.StatusInternalServerError {
			s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		}
		_ = writeJSON(w, status, errorResponse{Code: string(appErr.Code), Message: appErr.Message})
		return
	}
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	_ = writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    string(apperrors.CodeUnknown),
		Message: "internal error",
	})
}

// writeRejections reports a refused command. The status comes from the
// first rejection code so clients can branch without parsing bodies.
func writeRejections(w http.ResponseWriter, rejections []command.Rejection) {
	body := rejectionsResponse{Rejections: make([]rejectionBody, 0, len(rejections))}
	for _, rej := range rejections {
		body.Rejections = append(body.Rejections, rejectionBody{Code: rej.Code, Message: rej.Message})
	}
	status := http.StatusBadRequest
	if len(rejections) > 0 {
		status = httpStatus(apperrors.Code(rejections[0].Code))
	}
	_ = writeJSON(w, status, body)
}

// httpStatus derives the HTTP status from a domain code via its gRPC
// mapping, keeping the two transports in agreement.
func httpStatus(code apperrors.Code) int {
	switch code.GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.FailedPrecondition:
		return http.StatusConflict
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody parses the request body into dst. An empty body leaves
// dst at its zero value so bodiless mutations stay legal.
func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperrors.Wrap(apperrors.CodeInvalidRequest, "decode request body", err)
}

// credentialsFrom extracts the caller credentials from the request
// headers.
func credentialsFrom(r *http.Request) app.Credentials {
	return app.Credentials{
		ModToken:  strings.TrimSpace(r.Header.Get(headerModToken)),
		Player:    strings.TrimSpace(r.Header.Get(headerPlayer)),
		SeatGrant: strings.TrimSpace(r.Header.Get(headerSeatGrant)),
	}
}

// pagingParams reads start/limit query parameters. Zero values defer
// to the store defaults.
func pagingParams(r *http.Request) (start, limit int) {
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("start")); err == nil && v > 0 {
		start = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	return start, limit
}

// requestIDFrom returns the correlation id injected by the middleware.
func requestIDFrom(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerRequestID))
}

// resolveActor authenticates the caller and returns the command actor.
// Moderator credentials win over player ones; anonymous callers cannot
// mutate.
func (s *Server) resolveActor(r *http.Request, gameID string) (command.ActorType, string, error) {
	viewer, err := s.service.ResolveViewer(r.Context(), gameID, credentialsFrom(r))
	if err != nil {
		return "", "", err
	}
	if viewer.Moderator {
		return command.ActorTypeModerator, "", nil
	}
	if viewer.Player != "" {
		return command.ActorTypePlayer, viewer.Player, nil
	}
	return "", "", apperrors.New(apperrors.CodeNotAuthorized, "credentials are required")
}
