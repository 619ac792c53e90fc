package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// ErrInvalidFileName is returned for names that are empty or attempt traversal.
var ErrInvalidFileName = errors.New("invalid file name")

const maxFileNameLen = 200

// SanitizeFileName reduces a client-supplied name to a single safe path
// segment: separators and control characters become underscores and the
// result is capped in length with the extension kept.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || s == "." || strings.Contains(s, "..") {
		return "", ErrInvalidFileName
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return '_'
		default:
			return r
		}
	}, s)
	if len(s) > maxFileNameLen {
		ext := path.Ext(s)
		if len(ext) > 16 {
			ext = ""
		}
		s = s[:maxFileNameLen-len(ext)] + ext
	}
	return s, nil
}

// ObjectKey builds the storage key for an archived upload.
func ObjectKey(ownerID, recordID, fileName string) (string, error) {
	sanitized, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(recordID) == "" {
		return "", errors.New("record id is required")
	}
	return path.Join(OwnerPrefix(ownerID), recordID+"_"+sanitized), nil
}
