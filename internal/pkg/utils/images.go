package utils

import (
	"encoding/json"
	"strings"
)

// ImagesToString converts an ordered []string of image URLs to a JSON string (safe for DB)
func ImagesToString(urls []string) string {
	if len(urls) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(urls)
	return string(data)
}

// StringToImages converts the DB string back to the ordered []string
func StringToImages(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(s), &urls); err != nil {
		// Fallback: treat as comma-separated if invalid JSON
		return strings.Split(s, ",")
	}
	return urls
}
