package credstore

import (
	"strconv"
	"strings"
)

// Persisted layout: flat key=value lines under one slot. Unknown keys are
// ignored on decode so the format can grow without invalidating old records.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyIDToken      = "idToken"
	keyEmail        = "email"
	keyExpiresAt    = "expiresAt"
)

func encodeRecord(r *Record) []byte {
	var b strings.Builder
	writeField := func(key, value string) {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
		b.WriteByte('\n')
	}

	writeField(keyAccessToken, r.AccessToken)
	writeField(keyRefreshToken, r.RefreshToken)
	writeField(keyIDToken, r.IDToken)
	writeField(keyEmail, r.Email)
	writeField(keyExpiresAt, strconv.FormatInt(r.ExpiresAt, 10))

	return []byte(b.String())
}

// decodeRecord parses the flat key=value layout. Returns nil for anything
// structurally unusable: garbage lines, a missing access token or expiry,
// or an unparsable expiry. Token material never contains newlines, so a
// line-oriented format is safe.
func decodeRecord(data []byte) *Record {
	if len(data) == 0 {
		return nil
	}

	rec := &Record{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil
		}

		switch key {
		case keyAccessToken:
			rec.AccessToken = value
		case keyRefreshToken:
			rec.RefreshToken = value
		case keyIDToken:
			rec.IDToken = value
		case keyEmail:
			rec.Email = value
		case keyExpiresAt:
			expiresAt, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil
			}
			rec.ExpiresAt = expiresAt
		}
	}

	if !rec.Valid() {
		return nil
	}

	return rec
}
