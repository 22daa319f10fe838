// Package template maps notice context and recipient attributes to the
// notification template that applies. The tables are immutable and therefore
// safe for concurrent read-only access across batch shards.
package template

import (
	"waternotice/internal/notices/models"
)

// Template pairs the symbolic message reference with the delivery provider's
// template identifier.
type Template struct {
	MessageRef string
	ID         string
}

type key struct {
	family  models.Journey
	notice  models.NoticeType
	role    models.ResolvedRole
	channel models.Channel
}

// templates is total over every (role, channel) combination the resolver can
// emit. Selection never falls back to an arbitrary template: an unmapped
// tuple is a ConfigurationError.
var templates = map[key]Template{
	// Standard returns invitations
	{models.JourneyStandard, models.NoticeInvitations, models.ResolvedPrimaryUser, models.ChannelEmail}: {
		MessageRef: "returns_invitation_primary_user_email", ID: "2fa7fc9a-4d7c-48f6-a1d2-5f4ec8b71c13"},
	{models.JourneyStandard, models.NoticeInvitations, models.ResolvedReturnsAgent, models.ChannelEmail}: {
		MessageRef: "returns_invitation_returns_agent_email", ID: "41c45bd4-8225-4bf0-93cd-f9e98cae9116"},
	{models.JourneyStandard, models.NoticeInvitations, models.ResolvedLicenceHolder, models.ChannelLetter}: {
		MessageRef: "returns_invitation_licence_holder_letter", ID: "4fe80aed-c5dd-44c3-9044-d0289d635019"},
	{models.JourneyStandard, models.NoticeInvitations, models.ResolvedReturnsTo, models.ChannelLetter}: {
		MessageRef: "returns_invitation_returns_to_letter", ID: "0e535549-99a2-44a9-84a7-589b12d00879"},

	// Standard returns reminders
	{models.JourneyStandard, models.NoticeReminders, models.ResolvedPrimaryUser, models.ChannelEmail}: {
		MessageRef: "returns_reminder_primary_user_email", ID: "f1144bc7-8bdc-4e82-87cb-1a6c85485479"},
	{models.JourneyStandard, models.NoticeReminders, models.ResolvedReturnsAgent, models.ChannelEmail}: {
		MessageRef: "returns_reminder_returns_agent_email", ID: "038e1807-d1b5-4f09-a5b6-d97b5e15ffaa"},
	{models.JourneyStandard, models.NoticeReminders, models.ResolvedLicenceHolder, models.ChannelLetter}: {
		MessageRef: "returns_reminder_licence_holder_letter", ID: "c01c808b-094b-4a3a-ab9f-a6e86bad36ba"},
	{models.JourneyStandard, models.NoticeReminders, models.ResolvedReturnsTo, models.ChannelLetter}: {
		MessageRef: "returns_reminder_returns_to_letter", ID: "e9f132c7-a550-4e18-a5c1-78fcd47f54bc"},

	// Ad-hoc invitations reuse the standard wording with run-specific content
	{models.JourneyAdhoc, models.NoticeInvitations, models.ResolvedPrimaryUser, models.ChannelEmail}: {
		MessageRef: "returns_invitation_primary_user_email", ID: "a44bfbf4-4bcd-45e4-a7c4-6c7de401475c"},
	{models.JourneyAdhoc, models.NoticeInvitations, models.ResolvedReturnsAgent, models.ChannelEmail}: {
		MessageRef: "returns_invitation_returns_agent_email", ID: "d59b0b6c-5edc-4a77-9f39-0efcd3a0a0c2"},
	{models.JourneyAdhoc, models.NoticeInvitations, models.ResolvedLicenceHolder, models.ChannelLetter}: {
		MessageRef: "returns_invitation_licence_holder_letter", ID: "f74b1b17-88a9-4e30-b3e4-378ab4b8a886"},
	{models.JourneyAdhoc, models.NoticeInvitations, models.ResolvedReturnsTo, models.ChannelLetter}: {
		MessageRef: "returns_invitation_returns_to_letter", ID: "9e9c4d5f-2f21-4e32-8a59-e4f1b7c4d9b3"},

	// Ad-hoc reminders
	{models.JourneyAdhoc, models.NoticeReminders, models.ResolvedPrimaryUser, models.ChannelEmail}: {
		MessageRef: "returns_reminder_primary_user_email", ID: "97bd8e65-7038-4e3d-8128-6d0c35b422cb"},
	{models.JourneyAdhoc, models.NoticeReminders, models.ResolvedReturnsAgent, models.ChannelEmail}: {
		MessageRef: "returns_reminder_returns_agent_email", ID: "5dcd293b-9822-4f43-8a3f-cd4e332db1b2"},
	{models.JourneyAdhoc, models.NoticeReminders, models.ResolvedLicenceHolder, models.ChannelLetter}: {
		MessageRef: "returns_reminder_licence_holder_letter", ID: "3db0ddc7-1c5f-48b9-b7b3-26bf0b4e6ee7"},
	{models.JourneyAdhoc, models.NoticeReminders, models.ResolvedReturnsTo, models.ChannelLetter}: {
		MessageRef: "returns_reminder_returns_to_letter", ID: "8c77274f-6a61-46a5-82f3-a297e7f54f4e"},
}

// paperFormTemplate is the single PDF form template. Paper forms carry the
// same rendered document whatever role the recipient holds, so the selector
// does not consult the role table for them.
var paperFormTemplate = Template{MessageRef: "pdf.return_form", ID: "pdf.return_form"}

// Select returns the template for a recipient in a standard or ad-hoc run.
// Alerts use SelectAlert instead.
func Select(ctx models.NoticeContext, role models.ResolvedRole, channel models.Channel) (Template, error) {
	if ctx.NoticeType == models.NoticePaperReturn || ctx.NoticeType == models.NoticeReturnForms {
		return paperFormTemplate, nil
	}

	normalized := normalizeRole(role, channel)

	tpl, ok := templates[key{
		family:  journeyFamily(ctx.Journey),
		notice:  ctx.NoticeType,
		role:    normalized,
		channel: channel,
	}]
	if !ok {
		return Template{}, &models.ConfigurationError{
			Journey:    ctx.Journey,
			NoticeType: ctx.NoticeType,
			Role:       role,
			Channel:    channel,
		}
	}
	return tpl, nil
}

// journeyFamily collapses journeys to the two template families.
func journeyFamily(j models.Journey) models.Journey {
	if j == models.JourneyAdhoc {
		return models.JourneyAdhoc
	}
	return models.JourneyStandard
}

// normalizeRole maps merged and operator-added roles onto the template
// table's primary axes. A "both" email identity receives the primary user
// wording; a "both" letter identity receives the licence holder wording.
// Single-use and additional contacts always get the primary template for
// their channel, never a secondary-role one.
func normalizeRole(role models.ResolvedRole, channel models.Channel) models.ResolvedRole {
	switch role {
	case models.ResolvedBoth, models.ResolvedSingleUse, models.ResolvedAdditionalContact:
		if channel == models.ChannelEmail {
			return models.ResolvedPrimaryUser
		}
		return models.ResolvedLicenceHolder
	}
	return role
}
