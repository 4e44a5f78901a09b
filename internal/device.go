package internal

import "strings"

const (
	deviceFieldMaxRunes = 100
	deviceMaxBytes      = 1000
)

// DeviceString builds the free-text device fingerprint recorded with each
// login attempt. Every field is capped at 100 characters, the fields are
// joined with single spaces, and whole trailing fields are dropped until the
// result fits in 1000 UTF-8 bytes. Fields are never cut mid-way beyond the
// initial per-field cap.
func DeviceString(brand, model, deviceType, clientName, clientType, osName string) string {
	fields := []string{brand, model, deviceType, clientName, clientType, osName}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		parts = append(parts, truncateRunes(f, deviceFieldMaxRunes))
	}

	for len(parts) > 0 {
		joined := strings.Join(parts, " ")
		if len(joined) <= deviceMaxBytes {
			return joined
		}
		parts = parts[:len(parts)-1]
	}

	return ""
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}

	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
