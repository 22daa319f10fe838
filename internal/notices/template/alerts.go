package template

import (
	"waternotice/internal/notices/models"
)

// Alert templates are keyed by (restriction type, sending type) rather than
// role and channel: every alert recipient gets the wording that matches the
// licence condition being triggered.

type alertKey struct {
	restriction models.RestrictionType
	sending     models.AlertSendingType
	channel     models.Channel
}

var alertTemplates = map[alertKey]Template{
	// Warnings
	{models.RestrictionStop, models.AlertWarning, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_stop_warning_email", ID: "a9a8f6f9-2bbd-4a1e-9a7a-c1f0296ba7d4"},
	{models.RestrictionStop, models.AlertWarning, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_stop_warning_letter", ID: "1b7cfa29-5f47-4b2f-b4fb-e77b2fe839a0"},
	{models.RestrictionReduce, models.AlertWarning, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_reduce_warning_email", ID: "53d603d1-0ea1-4b86-9e4e-680f6f8e0b67"},
	{models.RestrictionReduce, models.AlertWarning, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_reduce_warning_letter", ID: "6ec7265d-8ebb-4217-86e8-3fdc6ccd6b74"},
	{models.RestrictionStopOrReduce, models.AlertWarning, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_reduce_or_stop_warning_email", ID: "5eae5e5b-47fb-4181-9ca0-b2f3e4e3b0a0"},
	{models.RestrictionStopOrReduce, models.AlertWarning, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_reduce_or_stop_warning_letter", ID: "a877b839-7a4e-4ba9-89a5-ec45c8e1d859"},

	// Reduce alerts
	{models.RestrictionReduce, models.AlertReduce, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_reduce_email", ID: "04dd8f80-2a9c-4e17-9b32-b1e6cba8b2a7"},
	{models.RestrictionReduce, models.AlertReduce, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_reduce_letter", ID: "0a3a38c5-2c0b-4ac7-b4e7-9f26ad3b9d39"},
	{models.RestrictionStopOrReduce, models.AlertReduce, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_reduce_or_stop_email", ID: "31e9a5d7-8e1a-4c3f-a5c2-78f1a92b80cf"},
	{models.RestrictionStopOrReduce, models.AlertReduce, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_reduce_or_stop_letter", ID: "9f8b7b22-3ec3-426b-9b11-2f1c5761a0b5"},

	// Stop alerts
	{models.RestrictionStop, models.AlertStop, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_stop_email", ID: "d94bf110-b173-4f77-8e9a-cf7a4b12b2c7"},
	{models.RestrictionStop, models.AlertStop, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_stop_letter", ID: "c2635893-0dd7-4fff-a152-774707e2175e"},
	{models.RestrictionStopOrReduce, models.AlertStop, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_stop_email", ID: "d94bf110-b173-4f77-8e9a-cf7a4b12b2c7"},
	{models.RestrictionStopOrReduce, models.AlertStop, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_stop_letter", ID: "c2635893-0dd7-4fff-a152-774707e2175e"},

	// Resume alerts apply whatever the restriction was
	{models.RestrictionStop, models.AlertResume, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_resume_email", ID: "5eb1a2b3-6b3f-4f3e-b8c7-29b9e9a0f0d1"},
	{models.RestrictionStop, models.AlertResume, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_resume_letter", ID: "e1f42bd1-7d9e-4a32-8fd5-1734ab0a9a2b"},
	{models.RestrictionReduce, models.AlertResume, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_resume_email", ID: "5eb1a2b3-6b3f-4f3e-b8c7-29b9e9a0f0d1"},
	{models.RestrictionReduce, models.AlertResume, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_resume_letter", ID: "e1f42bd1-7d9e-4a32-8fd5-1734ab0a9a2b"},
	{models.RestrictionStopOrReduce, models.AlertResume, models.ChannelEmail}: {
		MessageRef: "water_abstraction_alert_resume_email", ID: "5eb1a2b3-6b3f-4f3e-b8c7-29b9e9a0f0d1"},
	{models.RestrictionStopOrReduce, models.AlertResume, models.ChannelLetter}: {
		MessageRef: "water_abstraction_alert_resume_letter", ID: "e1f42bd1-7d9e-4a32-8fd5-1734ab0a9a2b"},
}

// SelectAlert returns the template for one station threshold in an alerts
// run. A (restriction, sending type) pair with no wording defined - such as
// a reduce alert against a stop-only condition - is a ConfigurationError.
func SelectAlert(station models.LicenceMonitoringStation, sending models.AlertSendingType, channel models.Channel) (Template, error) {
	tpl, ok := alertTemplates[alertKey{
		restriction: station.RestrictionType,
		sending:     sending,
		channel:     channel,
	}]
	if !ok {
		return Template{}, &models.ConfigurationError{
			Journey:    models.JourneyAlerts,
			NoticeType: models.NoticeAbstractionAlerts,
			Role:       models.ResolvedRole(string(station.RestrictionType) + "/" + string(sending)),
			Channel:    channel,
		}
	}
	return tpl, nil
}
