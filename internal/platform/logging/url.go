package logging

import (
	"errors"
	"net/url"
	"strings"
)

// Redacted replaces sensitive values in logs, spans and error messages.
const Redacted = "[REDACTED]"

// SensitiveQueryParams are query parameters (lowercase) that carry secrets:
// the Cloud Endpoints API key, the push endpoint's verification token and
// OAuth access tokens.
var SensitiveQueryParams = map[string]bool{
	"key":          true,
	"api_key":      true,
	"token":        true,
	"access_token": true,
}

// RedactURL renders u with sensitive query parameter values replaced.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.RawQuery == "" {
		return u.String()
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		clean := *u
		clean.RawQuery = Redacted
		return clean.String()
	}
	for key := range q {
		if SensitiveQueryParams[strings.ToLower(key)] {
			q.Set(key, Redacted)
		}
	}
	clean := *u
	clean.RawQuery = q.Encode()
	return clean.String()
}

// RedactRawURL is RedactURL for an unparsed URL. When raw does not parse,
// everything after the first '?' is dropped.
func RedactRawURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if before, _, found := strings.Cut(raw, "?"); found {
			return before + "?" + Redacted
		}
		return raw
	}
	return RedactURL(u)
}

// RedactURLError rewrites the URL carried by a *url.Error, as returned by
// http.Client.Do, so its message no longer exposes query secrets. Other
// errors are returned unchanged.
func RedactURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = RedactRawURL(ue.URL)
	}
	return err
}
