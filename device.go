package authlane

import "github.com/authlane/authlane/internal"

// DeviceString derives the device fingerprint recorded with each login
// attempt from the six client-hint fields. Each field is capped at 100
// characters; the joined string is shrunk by dropping whole trailing fields
// until it fits in 1000 UTF-8 bytes.
func DeviceString(brand, model, deviceType, clientName, clientType, osName string) string {
	return internal.DeviceString(brand, model, deviceType, clientName, clientType, osName)
}
