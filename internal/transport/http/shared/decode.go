package shared

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "parkgate/pkg/domain-errors"
)

// Validatable is implemented by request DTOs that validate and parse
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// Decode reads a JSON body into T and runs its validation, writing the error
// envelope itself on failure so handlers only deal with valid requests.
func Decode[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return nil, false
	}
	if err := PT(&req).Validate(); err != nil {
		WriteError(w, err)
		return nil, false
	}
	return &req, true
}

// IDParam parses a numeric URL parameter. Anything that is not a positive
// integer is a malformed identifier, not a missing resource.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, dErrors.Newf(dErrors.CodeMalformedID, "%s must be a positive integer", name)
	}
	return id, nil
}
