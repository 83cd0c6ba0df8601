package fintidy

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// fingerprintLen is the number of hex characters kept from the SHA-256 digest.
// Short on purpose: the keys are meant to be eyeballed in the ledger file and
// in log output, and the RowID counter disambiguates within-key collisions.
const fingerprintLen = 5

// fingerprint hashes the given values into a short stable key.
func fingerprint(vals []string) string {
	sum := sha256.Sum256([]byte(strings.Join(vals, "")))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// ContentKey identifies the transaction by its content only, regardless of
// which export file it came from. Two exports of overlapping date ranges yield
// the same ContentKey for the same transaction.
//
// The key is sealed at import time, before duplicate rows are coalesced, so a
// merged row keeps the identity of its first occurrence.
func (t Transaction) ContentKey() string {
	if t.contentKey != "" {
		return t.contentKey
	}
	return fingerprint(t.hashValues(false))
}

// RowKey identifies a row within its export file: the content plus the source
// file name. Rows repeated inside a single export share a RowKey.
func (t Transaction) RowKey() string {
	if t.rowKey != "" {
		return t.rowKey
	}
	return fingerprint(t.hashValues(true))
}

// Seal freezes both keys on the transaction as computed from its current
// values. The importer calls it on every row before any merging.
func (t *Transaction) Seal() {
	t.contentKey = fingerprint(t.hashValues(false))
	t.rowKey = fingerprint(t.hashValues(true))
}

// sealedAs restores a content key read back from the ledger file.
func (t *Transaction) sealedAs(contentKey string) {
	t.contentKey = contentKey
}

// RowID builds a stable per-row identifier from the RowKey and a 1-based
// duplicate counter.
func RowID(rowKey string, n int) string {
	return rowKey + "_" + strconv.Itoa(n)
}

// hashValues returns the row values in canonical column order.
func (t Transaction) hashValues(includeSource bool) []string {
	vals := []string{
		t.Date.String(),
		t.Account,
		t.Description,
		t.Category,
		t.Amount.Decimal().String(),
		t.Institution,
		strconv.FormatBool(t.Hidden),
		strconv.FormatBool(t.Pending),
	}
	for _, e := range t.Extras {
		vals = append(vals, e.Value)
	}
	if includeSource {
		vals = append(vals, t.Source)
	}
	return vals
}
