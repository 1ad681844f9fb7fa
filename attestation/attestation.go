package attestation

import (
	"encoding/hex"

	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

// Attestation binds a value to its provenance: who or what produced it,
// when, with what confidence, and which upstream attestations it was
// derived from. T must be Canonical so the whole attestation can itself
// be content-addressed.
type Attestation[T Canonical] struct {
	Value         T
	Confidence    Confidence
	Source        string
	Timestamp     types.UTCDateTime
	Provenance    []string // attestation_id values of upstream attestations, in order
	ContentHash   [32]byte // hash of Value alone (R-ATT-1)
	AttestationID [32]byte // hash of {source, timestamp, confidence, value, provenance} (R-ATT-2, R-ATT-3)
}

// ContentHashHex renders ContentHash as a lowercase hex string, the form
// used when an attestation_id or content_hash is carried as a plain
// string reference (e.g. Confidence.UpstreamAttestationID, provenance
// entries).
func (a Attestation[T]) ContentHashHex() string { return hex.EncodeToString(a.ContentHash[:]) }

func (a Attestation[T]) AttestationIDHex() string { return hex.EncodeToString(a.AttestationID[:]) }

// CreateAttestation computes both hashes and validates that source is
// non-empty, returning an error rather than a partially-built value if
// any field fails validation (spec §4.2).
func CreateAttestation[T Canonical](value T, confidence Confidence, source string, timestamp types.UTCDateTime, provenance []string) (Attestation[T], error) {
	if source == "" {
		return Attestation[T]{}, result.NewValidationError(result.FieldViolation{
			Path: "source", Constraint: "must be non-empty", Actual: source,
		})
	}
	if confidence == nil {
		return Attestation[T]{}, result.NewValidationError(result.FieldViolation{
			Path: "confidence", Constraint: "must be present", Actual: "nil",
		})
	}

	contentHash, err := ContentHash(value)
	if err != nil {
		return Attestation[T]{}, err
	}

	w := NewWriter()
	w.WriteString(source)
	w.WriteDateTime(timestamp)
	confBytes, err := confidence.CanonicalBytes()
	if err != nil {
		return Attestation[T]{}, err
	}
	w.WriteBytes(confBytes)
	valueBytes, err := value.CanonicalBytes()
	if err != nil {
		return Attestation[T]{}, err
	}
	w.WriteBytes(valueBytes)
	w.WriteSequence(len(provenance), func(i int) { w.WriteString(provenance[i]) })

	attestationID := sha256Sum(w.Bytes())

	return Attestation[T]{
		Value:         value,
		Confidence:    confidence,
		Source:        source,
		Timestamp:     timestamp,
		Provenance:    append([]string(nil), provenance...),
		ContentHash:   contentHash,
		AttestationID: attestationID,
	}, nil
}
