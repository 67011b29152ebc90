package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/server/validation"
)

type errorResponse struct {
	Message    string                 `json:"message"`
	StatusCode int                    `json:"statusCode"`
	Timestamp  string                 `json:"timestamp"`
	Path       string                 `json:"path"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

// statusMapping is checked in order; the first matching error wins. An empty
// message means err.Error() is shown to the client.
var statusMapping = []struct {
	err    error
	status int
	msg    string
}{
	{errBadRequestBody, http.StatusBadRequest, ""},
	{common.ErrMalformedInput, http.StatusUnprocessableEntity, ""},
	{common.ErrDuplicateIdentity, http.StatusConflict, common.ErrDuplicateIdentity.Error()},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, common.ErrInvalidCredentials.Error()},
	{common.ErrorUnauthorized, http.StatusUnauthorized, common.ErrorUnauthorized.Error()},
	{common.ErrTokenExpired, http.StatusUnauthorized, common.ErrTokenExpired.Error()},
	{common.ErrInvalidToken, http.StatusUnauthorized, common.ErrInvalidToken.Error()},
}

var now = time.Now

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
		Timestamp:  now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
	}

	matched := false
	for _, m := range statusMapping {
		if errors.Is(err, m.err) {
			resp.StatusCode = m.status
			resp.Message = m.msg
			if resp.Message == "" {
				resp.Message = err.Error()
			}
			matched = true
			break
		}
	}
	if !matched {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Violations = verr.Violations
	}

	writeJSON(w, resp.StatusCode, resp)
}
