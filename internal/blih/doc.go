// Package blih implements the signed request protocol spoken by the BLIH
// repository management API.
//
// It renders payloads as canonical JSON, signs them with HMAC-SHA512 keyed by
// the hashed account token, performs the HTTP exchange through resty, and
// classifies responses into typed results or APIError, DecodeError,
// UnknownError and TransportError failures. Typed operations cover
// repositories, ACLs, SSH keys and identity lookups.
package blih
