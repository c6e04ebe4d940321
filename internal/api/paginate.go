package api

import (
	"encoding/base64"
	"net/http"
	"strconv"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// parsePagination extracts cursor and limit from query parameters.
// limit defaults to 50 and is silently capped at 200.
func parsePagination(r *http.Request) (cursor string, limit int) {
	cursor = r.URL.Query().Get("cursor")
	limit = defaultLimit

	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return cursor, limit
}

// encodeCursor encodes an opaque cursor pointing at list position offset.
func encodeCursor(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// decodeCursor returns the list position behind cursor. ok is false for a
// cursor that was not produced by encodeCursor; an empty cursor is offset 0.
func decodeCursor(cursor string) (offset int, ok bool) {
	if cursor == "" {
		return 0, true
	}
	b, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, false
	}
	offset, err = strconv.Atoi(string(b))
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}
