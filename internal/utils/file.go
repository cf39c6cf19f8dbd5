package utils

import "regexp"

var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename strips every character outside [A-Za-z0-9_.-] so exported
// report names are safe in Content-Disposition headers and on disk.
func SanitizeFilename(name string) string {
	sanitized := filenameSanitizer.ReplaceAllString(name, "_")
	if sanitized == "" {
		return "export"
	}
	return sanitized
}
