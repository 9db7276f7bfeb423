package blih

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
)

// Envelope is the signed body attached to every BLIH request.
// Data is omitted entirely when the payload is absent or falsy.
type Envelope struct {
	User      string          `json:"user"`
	Signature string          `json:"signature"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the envelope carries a payload.
func (envelope Envelope) HasData() bool {
	return len(envelope.Data) > 0
}

// Encode renders the envelope as the JSON request body.
func (envelope Envelope) Encode() ([]byte, error) {
	return json.Marshal(envelope)
}

// Sign builds the envelope for payload.
//
// The signature is hex(HMAC-SHA512(token, user || canonical(payload))). A nil or
// falsy payload (empty object, empty list, empty string, zero, false) adds no
// bytes to the MAC and produces no data key. The scheme carries no nonce or
// timestamp, so identical payloads always yield identical envelopes.
func Sign(credentials Credentials, payload any) (Envelope, error) {
	mac := hmac.New(sha512.New, []byte(credentials.Token))
	mac.Write([]byte(credentials.User))

	envelope := Envelope{User: credentials.User}

	if payload != nil {
		normalizedPayload, normalizationError := normalizePayload(payload)
		if normalizationError != nil {
			return Envelope{}, PayloadEncodingError{Cause: normalizationError}
		}

		if isTruthy(normalizedPayload) {
			canonicalPayload, canonicalError := CanonicalJSON(normalizedPayload)
			if canonicalError != nil {
				return Envelope{}, PayloadEncodingError{Cause: canonicalError}
			}
			mac.Write(canonicalPayload)
			envelope.Data = json.RawMessage(canonicalPayload)
		}
	}

	envelope.Signature = hex.EncodeToString(mac.Sum(nil))
	return envelope, nil
}
