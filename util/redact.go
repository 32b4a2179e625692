package util

import "regexp"

var (
	redactJSON    = regexp.MustCompile(`(?i)("(?:password|accessToken|account|deviceId|iccid)"\s*:\s*")[^"]*(")`)
	redactHeaders = regexp.MustCompile(`(?i)((?:accessToken|gwm-auth-sign|deviceId|iccid):\s*)\S+`)
)

// RedactHook is the hook for masking sensitive data in trace output.
// Assign nil to disable redaction.
var RedactHook = RedactDefaultHook

// RedactDefaultHook masks credential and token values in JSON bodies and headers
func RedactDefaultHook(s string) string {
	s = redactJSON.ReplaceAllString(s, "$1***$2")
	return redactHeaders.ReplaceAllString(s, "$1***")
}

// Redact applies the redaction hook if configured
func Redact(s string) string {
	if RedactHook == nil {
		return s
	}
	return RedactHook(s)
}
