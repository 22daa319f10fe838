// Package resolver collapses raw contact rows that represent the same
// real-world recipient into one canonical Recipient per fingerprint.
package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"waternotice/internal/notices/models"
	id "waternotice/pkg/domain"
	strutil "waternotice/pkg/platform/strings"
)

var (
	recipientsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waternotice_recipients_resolved_total",
		Help: "Total canonical recipients produced by identity resolution",
	})
	mergeCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waternotice_merge_collisions_total",
		Help: "Total fingerprint groups with more than one raw contact row",
	})
	integrityFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waternotice_data_integrity_failures_total",
		Help: "Total batches aborted by malformed raw contact records",
	})
)

// group accumulates the raw rows sharing one fingerprint, in input order.
type group struct {
	channel models.Channel
	members []models.RawContactRecord
}

// Resolve groups raw records by fingerprint and applies the merge rules.
// Output order follows first appearance of each fingerprint in the input, so
// the same input always yields the same recipient order.
//
// Malformed records and fingerprint groups that mix channels abort the whole
// batch with a DataIntegrityError; no partial recipient list is returned.
func Resolve(records []models.RawContactRecord) ([]models.Recipient, error) {
	groups := make(map[id.Fingerprint]*group, len(records))
	order := make([]id.Fingerprint, 0, len(records))

	for _, record := range records {
		if err := record.Validate(); err != nil {
			integrityFailures.Inc()
			return nil, err
		}

		g, ok := groups[record.Fingerprint]
		if !ok {
			g = &group{channel: record.Channel}
			groups[record.Fingerprint] = g
			order = append(order, record.Fingerprint)
		} else if g.channel != record.Channel {
			// Fingerprints are channel-specific by construction in the
			// adapter. A mixed group means corrupted source data.
			integrityFailures.Inc()
			return nil, &models.DataIntegrityError{
				Fingerprint: record.Fingerprint,
				Reason:      "fingerprint group mixes email and letter contacts",
			}
		}
		g.members = append(g.members, record)
	}

	recipients := make([]models.Recipient, 0, len(order))
	for _, fp := range order {
		g := groups[fp]
		if len(g.members) > 1 {
			mergeCollisions.Inc()
		}
		recipients = append(recipients, mergeGroup(fp, g))
	}

	recipientsResolved.Add(float64(len(recipients)))
	return recipients, nil
}

// mergeGroup collapses one fingerprint group into a canonical recipient.
func mergeGroup(fp id.Fingerprint, g *group) models.Recipient {
	roles := distinctRoles(g.members)
	winner := winningMember(g.channel, g.members)

	recipient := models.Recipient{
		Fingerprint: fp,
		Role:        mergedRole(g.channel, roles),
		Channel:     g.channel,
	}
	switch g.channel {
	case models.ChannelEmail:
		// All members share the fingerprint, hence the same normalized email.
		recipient.Email = winner.Email
	case models.ChannelLetter:
		recipient.Postal = winner.Postal
	}

	for _, m := range g.members {
		recipient.LicenceRefs = append(recipient.LicenceRefs, m.LicenceRefs...)
		recipient.ReturnLogIDs = appendReturnLogs(recipient.ReturnLogIDs, m.ReturnLogIDs)
	}
	recipient.LicenceRefs = strutil.DedupeAndTrim(recipient.LicenceRefs)

	return recipient
}

// winningMember picks which raw row contributes the contact block. Letters
// prefer the licence holder member, then an organisation contact over a
// person when upstream aggregation attached two structurally different
// blocks to one identity. Email groups take the first member.
func winningMember(channel models.Channel, members []models.RawContactRecord) models.RawContactRecord {
	if channel != models.ChannelLetter || len(members) == 1 {
		return members[0]
	}

	candidates := members
	if holders := membersWithRole(members, models.RoleLicenceHolder); len(holders) > 0 {
		candidates = holders
	}
	for _, m := range candidates {
		if m.Postal != nil && m.Postal.Type == models.PostalContactOrganisation {
			return m
		}
	}
	return candidates[0]
}

func membersWithRole(members []models.RawContactRecord, role models.ContactRole) []models.RawContactRecord {
	var out []models.RawContactRecord
	for _, m := range members {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

func distinctRoles(members []models.RawContactRecord) []models.ContactRole {
	seen := make(map[models.ContactRole]struct{}, len(members))
	roles := make([]models.ContactRole, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m.Role]; ok {
			continue
		}
		seen[m.Role] = struct{}{}
		roles = append(roles, m.Role)
	}
	return roles
}

// appendReturnLogs unions return log IDs preserving first appearance order.
func appendReturnLogs(dst, src []id.ReturnLogID) []id.ReturnLogID {
	seen := make(map[id.ReturnLogID]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range src {
		if v.IsNil() {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
