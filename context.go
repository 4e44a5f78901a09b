package authlane

import "context"

type clientIPContextKey struct{}
type deviceContextKey struct{}
type originContextKey struct{}
type refererContextKey struct{}
type domainContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The Engine uses it
// for rate limiting, geo resolution, audit logging, and the hard IP-presence
// check before token issuance.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithDevice attaches the device fingerprint string to ctx. Callers should
// derive it with [DeviceString] so the per-field and total length caps hold.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, deviceContextKey{}, device)
}

// WithOrigin attaches the request Origin header to ctx.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originContextKey{}, origin)
}

// WithReferer attaches the request Referer header to ctx.
func WithReferer(ctx context.Context, referer string) context.Context {
	return context.WithValue(ctx, refererContextKey{}, referer)
}

// WithRequestDomain attaches the serving domain (x-real-origin) to ctx. It
// is recorded with login attempts and echoed in notification emails.
func WithRequestDomain(ctx context.Context, domain string) context.Context {
	return context.WithValue(ctx, domainContextKey{}, domain)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

func deviceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	device, _ := ctx.Value(deviceContextKey{}).(string)
	return device
}

func originFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	origin, _ := ctx.Value(originContextKey{}).(string)
	return origin
}

func refererFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	referer, _ := ctx.Value(refererContextKey{}).(string)
	return referer
}

func domainFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	domain, _ := ctx.Value(domainContextKey{}).(string)
	return domain
}
