package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

const maxBodyBytes = 1 << 20

// familyID resolves the caller's family scope from the X-Family-ID header
// or the family query parameter.
func familyID(r *http.Request) (string, bool) {
	if v := strings.TrimSpace(r.Header.Get("X-Family-ID")); v != "" {
		return v, true
	}
	if v := strings.TrimSpace(r.URL.Query().Get("family")); v != "" {
		return v, true
	}
	return "", false
}

// monthParam parses the month query parameter, defaulting to the current
// month when absent.
func monthParam(r *http.Request) (core.Month, error) {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		return core.CurrentMonth(), nil
	}
	return core.ParseMonth(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// scope bundles the family and month every collection request carries.
type scope struct {
	familyID string
	month    core.Month
}

func requestScope(w http.ResponseWriter, r *http.Request) (scope, bool) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return scope{}, false
	}
	month, err := monthParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return scope{}, false
	}
	return scope{familyID: fam, month: month}, true
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

var errInvalidDateFormat = errors.New("invalid date, expected RFC 3339 or YYYY-MM-DD")

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errInvalidDateFormat
}
