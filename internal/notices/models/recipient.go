package models

import (
	id "waternotice/pkg/domain"
)

// ResolvedRole is the merged role label on a canonical recipient. It carries
// the raw role values plus the synthetic "both" produced when two roles
// collapse onto one fingerprint.
type ResolvedRole string

const (
	ResolvedLicenceHolder     ResolvedRole = ResolvedRole(RoleLicenceHolder)
	ResolvedReturnsTo         ResolvedRole = ResolvedRole(RoleReturnsTo)
	ResolvedPrimaryUser       ResolvedRole = ResolvedRole(RolePrimaryUser)
	ResolvedReturnsAgent      ResolvedRole = ResolvedRole(RoleReturnsAgent)
	ResolvedAdditionalContact ResolvedRole = ResolvedRole(RoleAdditionalContact)
	ResolvedSingleUse         ResolvedRole = ResolvedRole(RoleSingleUse)
	ResolvedBoth              ResolvedRole = "both"
)

// Recipient is the canonical, deduplicated party that receives exactly one
// notification per run (or one per due return, for return forms). Exactly one
// Recipient exists per distinct fingerprint in a resolved batch.
type Recipient struct {
	Fingerprint  id.Fingerprint   `json:"fingerprint"`
	Role         ResolvedRole     `json:"role"`
	Channel      Channel          `json:"channel"`
	Email        string           `json:"email,omitempty"`
	Postal       *PostalContact   `json:"postal,omitempty"`
	LicenceRefs  []string         `json:"licence_refs"`
	ReturnLogIDs []id.ReturnLogID `json:"return_log_ids,omitempty"`
}
