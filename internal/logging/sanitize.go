// Package logging redacts secrets before they reach a log line.
package logging

import "regexp"

const RedactedText = "[REDACTED]"

var (
	// password=xxx or password='x y' in key/value connection strings
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=('(?:[^'\\]|\\.)*'|[^;&\s]+)`)

	// user:pass@ in URLs
	userinfoPattern = regexp.MustCompile(`://([^:/@\s]+):[^@\s]+@`)

	// Bearer tokens and Identity Toolkit API keys
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-_.]+`)
	apiKeyPattern = regexp.MustCompile(`(?i)([?&]key=)[A-Za-z0-9\-_]+`)
)

// SanitizeDSN removes passwords from a connection string or URL.
func SanitizeDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	out := passwordPattern.ReplaceAllString(dsn, "${1}="+RedactedText)
	return userinfoPattern.ReplaceAllString(out, "://${1}:"+RedactedText+"@")
}

// SanitizeError returns err's message with credentials, tokens and API keys
// redacted.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	out := SanitizeDSN(err.Error())
	out = bearerPattern.ReplaceAllString(out, "Bearer "+RedactedText)
	return apiKeyPattern.ReplaceAllString(out, "${1}"+RedactedText)
}
