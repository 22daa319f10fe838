package resolver

import (
	"waternotice/internal/notices/models"
)

// Merge rules are one table keyed by (channel, role pair) rather than
// per-pipeline algorithms, so every code path that collapses duplicate
// contacts shares the same precedence.
//
// Only two pairs collapse to a synthetic role: an email identity that is
// both primary user and returns agent, and a postal identity that is both
// licence holder and returns-to. Every other duplicate group keeps the role
// of its first member.

type rolePair struct {
	a, b models.ContactRole
}

// pair normalizes ordering so lookups are symmetric.
func pair(a, b models.ContactRole) rolePair {
	if b < a {
		a, b = b, a
	}
	return rolePair{a: a, b: b}
}

var mergeRules = map[models.Channel]map[rolePair]models.ResolvedRole{
	models.ChannelEmail: {
		pair(models.RolePrimaryUser, models.RoleReturnsAgent): models.ResolvedBoth,
	},
	models.ChannelLetter: {
		pair(models.RoleLicenceHolder, models.RoleReturnsTo): models.ResolvedBoth,
	},
}

// mergedRole resolves the role label for a duplicate group. It scans the
// distinct roles for a pair the table collapses; failing that, the first
// member's role carries through.
func mergedRole(channel models.Channel, roles []models.ContactRole) models.ResolvedRole {
	rules := mergeRules[channel]
	for i := 0; i < len(roles); i++ {
		for j := i + 1; j < len(roles); j++ {
			if resolved, ok := rules[pair(roles[i], roles[j])]; ok {
				return resolved
			}
		}
	}
	return models.ResolvedRole(roles[0])
}
