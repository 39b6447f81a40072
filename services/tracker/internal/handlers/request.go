package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/example/watchpicker/internal/platform/api"
)

const maxRequestBodyBytes = 64 << 10 // 64 KiB

var validate = validator.New()

// decodeJSON reads up to maxRequestBodyBytes from r.Body, decodes JSON into
// dst and validates its struct tags. On failure it writes a 400 response and
// returns false.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request, rid string, dst *T) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(dst); err != nil {
		api.BadRequest(w, "INVALID_JSON", "Invalid JSON", rid, nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			api.BadRequest(w, "INVALID_BODY", err.Error(), rid, nil)
			return false
		}
		details := make(map[string]any, len(verrs))
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
		api.BadRequest(w, "VALIDATION_FAILED", "Request body failed validation", rid, details)
		return false
	}
	return true
}

// queryPage parses the optional page query parameter. Missing means 1.
func queryPage(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 500 {
		return 0, false
	}
	return n, true
}
