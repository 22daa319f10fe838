// Package address turns postal contacts into ordered letter address lines.
package address

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"waternotice/internal/notices/models"
	strutil "waternotice/pkg/platform/strings"
)

// InvalidAddressMarker is printed in place of the postcode when a contact has
// neither a postcode nor a country. An operator reviewing the batch sees the
// bad address instead of the letter vanishing into a delivery failure.
const InvalidAddressMarker = "INVALID ADDRESS - Needs a valid postcode or country outside the UK"

// maxLines is the letter template's address block capacity.
const maxLines = 6

var invalidAddresses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "waternotice_invalid_addresses_total",
	Help: "Total postal contacts flagged with the invalid address marker",
})

// LetterAddressBlock is an ordered, compacted address: no blank intermediate
// lines, at most six lines, postcode or country last.
type LetterAddressBlock struct {
	Lines []string
}

// NameLine returns the addressee line.
func (b LetterAddressBlock) NameLine() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return b.Lines[0]
}

// Valid reports whether the block carries a deliverable destination.
func (b LetterAddressBlock) Valid() bool {
	for _, line := range b.Lines {
		if line == InvalidAddressMarker {
			return false
		}
	}
	return true
}

// FormatPostalAddress builds the letter address block for a contact.
//
// The name line joins salutation, initials (or forename when no initials are
// held), and name. Address lines, town, and county follow, compacted so
// absent fields never leave gaps. The postcode goes last; a non-UK address
// with no postcode ends with its country instead. When neither is present the
// final line is the invalid address marker. The block never exceeds six
// lines: middle lines are dropped before the destination line is.
func FormatPostalAddress(contact models.PostalContact) LetterAddressBlock {
	nameParts := contact.Initials
	if nameParts == "" {
		nameParts = contact.Forename
	}
	name := strutil.JoinNonEmpty(" ", contact.Salutation, nameParts, contact.Name)

	body := compact(
		contact.AddressLine1,
		contact.AddressLine2,
		contact.AddressLine3,
		contact.AddressLine4,
		contact.Town,
		contact.County,
	)

	last := compact(contact.Postcode, contact.Country)
	if len(last) == 0 {
		invalidAddresses.Inc()
		last = []string{InvalidAddressMarker}
	}

	// Cap at six lines, keeping the name line and the destination line(s).
	room := maxLines - 1 - len(last)
	if room < 0 {
		room = 0
	}
	if len(body) > room {
		body = body[:room]
	}

	lines := make([]string, 0, maxLines)
	if name != "" {
		lines = append(lines, name)
	}
	lines = append(lines, body...)
	lines = append(lines, last...)

	return LetterAddressBlock{Lines: lines}
}

// compact trims each value and drops empties, preserving order. Unlike the
// resolver's licence ref unions this must not dedupe: a town repeating a
// county name is a legitimate address.
func compact(values ...string) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return kept
}
