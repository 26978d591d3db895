package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// The version suffix leaves room to change the algorithm later.
const (
	DomainState = "contacts/state/v1"
	DomainEvent = "contacts/event/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator removes any ambiguity at the domain/data boundary.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StateDigest returns a content digest of the state document.
// Two states have the same digest exactly when their canonical JSON matches.
func StateDigest(s State) (string, error) {
	canonical, err := MarshalCanonical(s.ToCanonical())
	if err != nil {
		return "", fmt.Errorf("StateDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainState, canonical), nil
}

// EventID computes a stable identifier for one dispatched event.
// fields is the event payload as produced by the state package.
func EventID(flowToken, name string, fields map[string]any, seq int64) (string, error) {
	obj := map[string]any{
		"flow_token": flowToken,
		"name":       name,
		"fields":     fields,
		"seq":        seq,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("EventID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEvent, canonical), nil
}

// MustStateDigest is like StateDigest but panics on error.
// State documents only hold strings and integers, so this cannot fail in practice.
func MustStateDigest(s State) string {
	d, err := StateDigest(s)
	if err != nil {
		panic(err)
	}
	return d
}
