// Package fanout expands canonical recipients into the final notification
// batch: one notification per recipient for standard and ad-hoc notices, one
// per (recipient, due return) for paper forms, one per (recipient, station
// threshold) for abstraction alerts.
package fanout

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"waternotice/internal/notices/address"
	"waternotice/internal/notices/models"
	"waternotice/internal/notices/template"
	id "waternotice/pkg/domain"
)

var notificationsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "waternotice_notifications_built_total",
	Help: "Total notifications built, labelled by notice type",
}, []string{"notice_type"})

// BuildNotifications emits exactly one notification per recipient for a
// standard or ad-hoc run. Output order follows resolver output order.
//
// Either the whole batch is returned or none: the first unmapped template
// tuple aborts with a ConfigurationError.
func BuildNotifications(ctx models.NoticeContext, recipients []models.Recipient) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		tpl, err := template.Select(ctx, recipient.Role, recipient.Channel)
		if err != nil {
			return nil, err
		}

		notification := newNotification(ctx, recipient, tpl)
		notification.Personalisation = basePersonalisation(ctx, recipient)
		notifications = append(notifications, notification)
	}

	notificationsBuilt.WithLabelValues(string(ctx.NoticeType)).Add(float64(len(notifications)))
	return notifications, nil
}

// newNotification fills the fields every notice type shares.
func newNotification(ctx models.NoticeContext, recipient models.Recipient, tpl template.Template) models.Notification {
	n := models.Notification{
		ID:                   id.NewNotificationID(),
		EventID:              ctx.EventID,
		MessageRef:           tpl.MessageRef,
		TemplateID:           tpl.ID,
		Channel:              recipient.Channel,
		RecipientFingerprint: recipient.Fingerprint,
		Licences:             recipient.LicenceRefs,
		ReturnLogIDs:         recipient.ReturnLogIDs,
		Reference:            ctx.ReferenceCode,
		Status:               models.StatusPending,
	}
	if recipient.Channel == models.ChannelEmail {
		n.Recipient = recipient.Email
	}
	return n
}

// basePersonalisation builds the period and due-date fields, plus the
// address block for letters.
func basePersonalisation(ctx models.NoticeContext, recipient models.Recipient) map[string]string {
	p := map[string]string{
		"returnDueDate": formatLongDate(dueDateFor(ctx, recipient.Channel)),
	}
	if ctx.ReturnsPeriod != nil {
		p["periodStartDate"] = formatLongDate(ctx.ReturnsPeriod.StartDate)
		p["periodEndDate"] = formatLongDate(ctx.ReturnsPeriod.EndDate)
	}
	if recipient.Channel == models.ChannelLetter && recipient.Postal != nil {
		addAddressLines(p, address.FormatPostalAddress(*recipient.Postal))
	}
	return p
}

// addAddressLines writes address_line_1..6 and duplicates the first line as
// the template's name field.
func addAddressLines(p map[string]string, block address.LetterAddressBlock) {
	for i, line := range block.Lines {
		p["address_line_"+strconv.Itoa(i+1)] = line
	}
	p["name"] = block.NameLine()
}

// BuildAlertNotifications emits one notification per (recipient, relevant
// station threshold). A station is relevant to a recipient when its licence
// reference appears in the recipient's merged licence list. Recipients keep
// resolver order; within a recipient, stations keep their given order.
func BuildAlertNotifications(actx models.AlertContext, recipients []models.Recipient, stations []models.LicenceMonitoringStation) ([]models.Notification, error) {
	var notifications []models.Notification
	for _, recipient := range recipients {
		licences := make(map[string]struct{}, len(recipient.LicenceRefs))
		for _, ref := range recipient.LicenceRefs {
			licences[ref] = struct{}{}
		}

		for _, station := range stations {
			if _, ok := licences[station.LicenceRef]; !ok {
				continue
			}

			tpl, err := template.SelectAlert(station, actx.SendingAlertType, recipient.Channel)
			if err != nil {
				return nil, err
			}

			notification := newNotification(actx.NoticeContext, recipient, tpl)
			notification.Licences = []string{station.LicenceRef}
			notification.LicenceMonitoringStationID = station.ID
			notification.Personalisation = alertPersonalisation(actx, recipient, station)
			notifications = append(notifications, notification)
		}
	}

	notificationsBuilt.WithLabelValues(string(models.NoticeAbstractionAlerts)).Add(float64(len(notifications)))
	return notifications, nil
}

func alertPersonalisation(actx models.AlertContext, recipient models.Recipient, station models.LicenceMonitoringStation) map[string]string {
	p := map[string]string{
		"alert_type":              string(actx.SendingAlertType),
		"condition_type":          string(station.RestrictionType),
		"flow_or_level":           string(station.MeasureType),
		"licence_ref":             station.LicenceRef,
		"monitoring_station_name": station.StationName,
		"threshold_value":         strconv.FormatFloat(station.ThresholdValue, 'f', -1, 64),
		"threshold_unit":          station.ThresholdUnit,
	}
	if recipient.Channel == models.ChannelLetter && recipient.Postal != nil {
		addAddressLines(p, address.FormatPostalAddress(*recipient.Postal))
	}
	return p
}

// twoPartTariffLabel renders the flag the way the form template prints it.
func twoPartTariffLabel(flag bool) string {
	if flag {
		return "yes"
	}
	return "no"
}
