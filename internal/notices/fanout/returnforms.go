package fanout

import (
	"context"
	"fmt"

	"waternotice/internal/notices/address"
	"waternotice/internal/notices/models"
	"waternotice/internal/notices/ports"
	"waternotice/internal/notices/template"
	id "waternotice/pkg/domain"
)

// Engine carries the collaborators the return-forms expansion needs. The
// standard and alert builders stay plain functions; only paper forms pull in
// the external PDF renderer.
type Engine struct {
	renderer ports.FormRenderer
}

// New constructs a fan-out engine.
func New(renderer ports.FormRenderer) (*Engine, error) {
	if renderer == nil {
		return nil, fmt.Errorf("form renderer is required")
	}
	return &Engine{renderer: renderer}, nil
}

// BuildReturnFormsNotifications emits one notification per (selected due
// return, recipient). The outer loop follows the due returns in their given
// order and the inner loop follows resolver order; review screens index the
// batch positionally, so this nesting is a contract.
//
// An empty selection is a valid, if unusual, input and yields an empty batch,
// not an error. Callers are expected to have validated the selection
// upstream.
func (e *Engine) BuildReturnFormsNotifications(
	ctx context.Context,
	nctx models.NoticeContext,
	recipients []models.Recipient,
	dueReturns []models.DueReturnLog,
	selected []id.ReturnLogID,
) ([]models.Notification, error) {
	selectedSet := make(map[id.ReturnLogID]struct{}, len(selected))
	for _, rid := range selected {
		selectedSet[rid] = struct{}{}
	}

	var notifications []models.Notification
	for _, dueReturn := range dueReturns {
		if _, ok := selectedSet[dueReturn.ID]; !ok {
			continue
		}

		for _, recipient := range recipients {
			tpl, err := template.Select(nctx, recipient.Role, recipient.Channel)
			if err != nil {
				return nil, err
			}

			block := address.LetterAddressBlock{}
			if recipient.Postal != nil {
				block = address.FormatPostalAddress(*recipient.Postal)
			}

			content, err := e.renderer.RenderReturnFormPdf(ctx, block, dueReturn)
			if err != nil {
				return nil, fmt.Errorf("render return form for %s: %w", dueReturn.ReturnReference, err)
			}

			notification := newNotification(nctx, recipient, tpl)
			notification.Licences = []string{dueReturn.LicenceRef}
			notification.ReturnLogIDs = []id.ReturnLogID{dueReturn.ID}
			notification.Content = content
			notification.Personalisation = returnFormPersonalisation(nctx, recipient, dueReturn, block)
			notifications = append(notifications, notification)
		}
	}

	notificationsBuilt.WithLabelValues(string(models.NoticeReturnForms)).Add(float64(len(notifications)))
	return notifications, nil
}

func returnFormPersonalisation(nctx models.NoticeContext, recipient models.Recipient, dueReturn models.DueReturnLog, block address.LetterAddressBlock) map[string]string {
	p := map[string]string{
		"return_reference":         dueReturn.ReturnReference,
		"licence_ref":              dueReturn.LicenceRef,
		"purpose":                  dueReturn.Purpose,
		"site_description":         dueReturn.SiteDescription,
		"region_name":              dueReturn.RegionName,
		"area_name":                dueReturn.AreaName,
		"abstraction_period_start": dueReturn.AbstractionPeriodStart,
		"abstraction_period_end":   dueReturn.AbstractionPeriodEnd,
		"two_part_tariff":          twoPartTariffLabel(dueReturn.TwoPartTariff),
		"periodStartDate":          formatLongDate(dueReturn.StartDate),
		"periodEndDate":            formatLongDate(dueReturn.EndDate),
		"returnDueDate":            formatLongDate(dueReturn.DueDate),
	}
	if recipient.Channel == models.ChannelLetter && recipient.Postal != nil {
		addAddressLines(p, block)
	}
	return p
}
