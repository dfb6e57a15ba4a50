// Package ledger implements the transactional core: the Lock Coordinator,
// the Idempotency Gate, and the Ledger Engine that drives TOP_UP, BONUS,
// and SPEND to completion inside one store-level transaction.
package ledger

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// deriveAdvisoryKey produces a deterministic signed 64-bit advisory-lock
// key from the participating user ids and the asset-type id: sort the
// string parts lexicographically, concatenate with a delimiter, and fold
// the bytes through a stable hash. Sorting first makes the result
// order-insensitive with respect to which party is "from" and which is
// "to", so a SPEND (user→system) and a TOP_UP (system→user) on the same
// (user, asset) pair collide on the same key and serialize against each
// other.
func deriveAdvisoryKey(fromUser, toUser uuid.UUID, assetTypeID int32) int64 {
	parts := []string{fromUser.String(), toUser.String()}
	sort.Strings(parts)

	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p)
		b.WriteByte(':')
	}
	b.WriteString(strconv.Itoa(int(assetTypeID)))

	return foldHash(b.String())
}

// foldHash folds a string into a signed 64-bit two's-complement integer
// via the classic iterative h = (h<<5) - h + byte (equivalently h*31+byte).
// A collision across unrelated (users, asset) tuples is a performance
// concern, not a correctness one — the row-lock ordering in
// lockWalletsAscending still serializes true conflicts.
func foldHash(s string) int64 {
	var h int64
	for i := 0; i < len(s); i++ {
		h = (h << 5) - h + int64(s[i])
	}
	return h
}

// lockWalletsAscending returns the two user ids in the ascending order
// row locks must be acquired in (§4.1 row-lock ordering), breaking cycle
// formation under mixed operations.
func lockWalletsAscending(a, b uuid.UUID) (first, second uuid.UUID) {
	if a.String() <= b.String() {
		return a, b
	}
	return b, a
}
