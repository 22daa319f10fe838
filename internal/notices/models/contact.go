package models

import (
	"strings"

	id "waternotice/pkg/domain"
)

// Channel discriminates how a notification reaches a recipient.
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelLetter Channel = "letter"
)

// IsValid reports whether the channel is a known value.
func (c Channel) IsValid() bool {
	return c == ChannelEmail || c == ChannelLetter
}

// ContactRole is the role a raw contact row plays against its licences, as
// extracted from the source role tables.
type ContactRole string

const (
	RoleLicenceHolder     ContactRole = "licence_holder"
	RoleReturnsTo         ContactRole = "returns_to"
	RolePrimaryUser       ContactRole = "primary_user"
	RoleReturnsAgent      ContactRole = "returns_agent"
	RoleAdditionalContact ContactRole = "additional_contact"
	RoleSingleUse         ContactRole = "single_use"
)

// PostalContactType distinguishes organisation contacts from named persons.
type PostalContactType string

const (
	PostalContactOrganisation PostalContactType = "organisation"
	PostalContactPerson       PostalContactType = "person"
)

// PostalContact is the structured letter identity carried by a raw contact
// row. Fields mirror the source system's address block; any line may be empty.
type PostalContact struct {
	Type         PostalContactType `json:"type"`
	Salutation   string            `json:"salutation"`
	Forename     string            `json:"forename"`
	Initials     string            `json:"initials"`
	Name         string            `json:"name"`
	AddressLine1 string            `json:"address_line_1"`
	AddressLine2 string            `json:"address_line_2"`
	AddressLine3 string            `json:"address_line_3"`
	AddressLine4 string            `json:"address_line_4"`
	Town         string            `json:"town"`
	County       string            `json:"county"`
	Postcode     string            `json:"postcode"`
	Country      string            `json:"country"`
	Role         string            `json:"role"`
}

// RawContactRecord is one row per (licence, role) combination as produced by
// the contact source adapter. The adapter computes the fingerprint; this core
// only compares it.
type RawContactRecord struct {
	LicenceRefs  []string         `json:"licence_refs"`
	Role         ContactRole      `json:"role"`
	Channel      Channel          `json:"channel"`
	Email        string           `json:"email,omitempty"`
	Postal       *PostalContact   `json:"postal,omitempty"`
	Fingerprint  id.Fingerprint   `json:"fingerprint"`
	ReturnLogIDs []id.ReturnLogID `json:"return_log_ids,omitempty"`
}

// Validate rejects records the resolver must not guess about. A malformed
// record is a compliance failure, not something to skip.
func (r RawContactRecord) Validate() error {
	if r.Fingerprint.IsNil() {
		return &DataIntegrityError{Fingerprint: r.Fingerprint, Reason: "raw contact record has no fingerprint"}
	}
	if !r.hasLicenceRef() {
		return &DataIntegrityError{Fingerprint: r.Fingerprint, Reason: "raw contact record has no licence reference"}
	}
	switch r.Channel {
	case ChannelEmail:
		if r.Email == "" {
			return &DataIntegrityError{Fingerprint: r.Fingerprint, Reason: "email contact has no email address"}
		}
	case ChannelLetter:
		if r.Postal == nil {
			return &DataIntegrityError{Fingerprint: r.Fingerprint, Reason: "letter contact has no postal contact"}
		}
	default:
		return &DataIntegrityError{Fingerprint: r.Fingerprint, Reason: "unknown contact channel"}
	}
	return nil
}

// hasLicenceRef reports whether at least one licence ref survives trimming.
// Every recipient carries a non-empty licence list, so a row attached to no
// licence cannot be resolved.
func (r RawContactRecord) hasLicenceRef() bool {
	for _, ref := range r.LicenceRefs {
		if strings.TrimSpace(ref) != "" {
			return true
		}
	}
	return false
}
