package recognizer

import (
	"regexp"
	"strings"
)

var nonPlateChars = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizePlate canonicalizes raw OCR text: uppercase, strip everything that
// is not A-Z or 0-9, then accept only lengths 6-12. "76a-222.22" becomes
// "76A22222". The second return is false when the text cannot be a plate;
// such values are never stored, the caller degrades to the UNKNOWN sentinel.
func NormalizePlate(raw string) (string, bool) {
	plate := nonPlateChars.ReplaceAllString(strings.ToUpper(raw), "")
	if len(plate) < 6 || len(plate) > 12 {
		return "", false
	}
	return plate, true
}
