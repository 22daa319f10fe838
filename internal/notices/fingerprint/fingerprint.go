// Package fingerprint computes content-addressable contact identities.
//
// The contact source adapter calls these functions when extracting raw
// contact rows; the resolver only ever compares the resulting digests. The
// canonical representation is a fixed-length lowercase SHA-256 hex digest so
// every code path shares one fingerprint format.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
)

// channel prefixes keep email and letter identities in disjoint digest
// spaces, so one fingerprint can never legitimately span both channels.
const (
	emailPrefix  = "email\n"
	letterPrefix = "letter\n"
)

// Email fingerprints an email contact. Two addresses that differ only in
// case or surrounding whitespace produce the same digest.
func Email(address string) id.Fingerprint {
	return digest(emailPrefix + Normalize(address))
}

// Postal fingerprints a letter contact over its identity fields: name parts
// and the full address. Field order is fixed; absent fields contribute an
// empty slot so "A||B" and "A|B|" stay distinct.
func Postal(c models.PostalContact) id.Fingerprint {
	fields := []string{
		Normalize(c.Salutation),
		Normalize(c.Forename),
		Normalize(c.Initials),
		Normalize(c.Name),
		Normalize(c.AddressLine1),
		Normalize(c.AddressLine2),
		Normalize(c.AddressLine3),
		Normalize(c.AddressLine4),
		Normalize(c.Town),
		Normalize(c.County),
		Normalize(c.Postcode),
		Normalize(c.Country),
	}
	return digest(letterPrefix + strings.Join(fields, "\n"))
}

// Normalize case-folds and collapses whitespace in one identity field. It is
// exported so the normalization rules can be tested independently of the
// digest and of the merge logic.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func digest(material string) id.Fingerprint {
	sum := sha256.Sum256([]byte(material))
	return id.Fingerprint(hex.EncodeToString(sum[:]))
}
