package models

import (
	"fmt"

	id "waternotice/pkg/domain"
)

// DataIntegrityError marks a raw contact record the resolver refuses to
// guess about: a missing fingerprint, a channel/field mismatch, or one
// fingerprint spanning both channels. Fatal to the batch; silently dropping
// or misrouting a recipient is a compliance risk.
type DataIntegrityError struct {
	Fingerprint id.Fingerprint
	Reason      string
}

func (e *DataIntegrityError) Error() string {
	if e.Fingerprint.IsNil() {
		return fmt.Sprintf("data integrity: %s", e.Reason)
	}
	return fmt.Sprintf("data integrity: %s (fingerprint %s)", e.Reason, e.Fingerprint)
}

// ConfigurationError marks a template lookup with no mapping for an observed
// tuple. Fatal: a deployment gap must not default to an arbitrary template.
type ConfigurationError struct {
	Journey    Journey
	NoticeType NoticeType
	Role       ResolvedRole
	Channel    Channel
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no template mapped for journey=%s notice=%s role=%s channel=%s",
		e.Journey, e.NoticeType, e.Role, e.Channel)
}
