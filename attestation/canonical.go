// Package attestation implements the epistemic wrapper that binds an
// observed or derived value to a canonical serialization, producing a
// content hash and a full-identity hash used as stable cross-subsystem
// references (account-balance-processor builds comparable hash-stable
// response objects the same way, over protobuf field order instead of
// an explicit writer).
package attestation

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

// Canonical is implemented by any value that can participate in
// content-addressed hashing. Field order inside CanonicalBytes must be
// fixed and deterministic — this is what makes the resulting hash stable
// across processes and Go versions, unlike reflection-based encoders
// (encoding/json, encoding/gob) whose field order is unspecified for maps.
type Canonical interface {
	CanonicalBytes() ([]byte, error)
}

// Writer accumulates a canonical byte sequence. Every variable-length
// Write* method is length-prefixed so that concatenating two encoded
// fields can never be ambiguous with a different split of the same bytes
// (e.g. "ab","c" vs "a","bc"); WriteBool and WriteInt64 write fixed-width
// fields with no prefix.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) writeLenPrefixed(b []byte) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(b)))
	w.buf.Write(lenBuf[:])
	w.buf.Write(b)
}

// WriteTag writes a sum-type variant discriminator, always as the first
// field written for a sum-type value.
func (w *Writer) WriteTag(tag string) { w.writeLenPrefixed([]byte(tag)) }

// WriteString writes a length-prefixed UTF-8 string field.
func (w *Writer) WriteString(s string) { w.writeLenPrefixed([]byte(s)) }

// WriteBytes writes a length-prefixed raw byte field.
func (w *Writer) WriteBytes(b []byte) { w.writeLenPrefixed(b) }

// WriteDecimal writes a decimal's canonical string form — apd's String()
// output, which never varies for equal values at equal precision.
func (w *Writer) WriteDecimal(s string) { w.writeLenPrefixed([]byte(s)) }

// WriteDateTime writes an ISO-8601 instant with explicit offset.
func (w *Writer) WriteDateTime(dt types.UTCDateTime) { w.writeLenPrefixed([]byte(dt.ISO8601())) }

// WriteBool writes a single boolean byte.
func (w *Writer) WriteBool(b bool) {
	if b {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteInt64 writes a fixed-width big-endian signed integer field.
func (w *Writer) WriteInt64(n int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(n))
	w.buf.Write(b[:])
}

// WriteSequence writes a length prefix followed by each element's own
// canonical bytes, in the order given — sequence order is part of the
// canonical form, unlike map/set fields.
func (w *Writer) WriteSequence(n int, each func(i int)) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(n))
	w.buf.Write(lenBuf[:])
	for i := 0; i < n; i++ {
		each(i)
	}
}

// WriteStringMap writes a string-keyed map sorted by key — map iteration
// order is never part of the canonical form.
func (w *Writer) WriteStringMap(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(keys)))
	w.buf.Write(lenBuf[:])
	for _, k := range keys {
		w.WriteString(k)
		w.WriteString(m[k])
	}
}

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// CanonicalBytesOf serializes any Canonical value, returning a DomainError
// rather than panicking for a nil value; any other failure is the error
// the value's own CanonicalBytes reports.
func CanonicalBytesOf(v Canonical) ([]byte, error) {
	if v == nil {
		return nil, result.NewDomainError("CANONICAL_NIL", "cannot serialize a nil value")
	}
	return v.CanonicalBytes()
}

// ContentHash computes the SHA-256 digest of a value's canonical bytes.
// The teacher's transaction-hashing code (stellar/go's own SHA-256 use
// for ledger transaction hashes) is the direct precedent for choosing
// SHA-256 here over any other digest.
func ContentHash(v Canonical) ([32]byte, error) {
	b, err := CanonicalBytesOf(v)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(b), nil
}

// sha256Sum hashes raw already-canonical bytes, used when the caller has
// assembled a composite byte sequence (e.g. attestation_id's
// {source, timestamp, confidence, value, provenance} tuple) rather than a
// single Canonical value.
func sha256Sum(b []byte) [32]byte { return sha256.Sum256(b) }
