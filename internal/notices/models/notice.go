package models

import (
	"time"

	id "waternotice/pkg/domain"
)

// Journey identifies which notice journey collected the run parameters.
type Journey string

const (
	JourneyStandard Journey = "standard"
	JourneyAdhoc    Journey = "adhoc"
	JourneyAlerts   Journey = "alerts"
)

// NoticeType identifies what kind of notice a run sends.
type NoticeType string

const (
	NoticeInvitations       NoticeType = "invitations"
	NoticeReminders         NoticeType = "reminders"
	NoticePaperReturn       NoticeType = "paper_return"
	NoticeReturnForms       NoticeType = "return_forms"
	NoticeAbstractionAlerts NoticeType = "abstraction_alerts"
)

// ReturnsPeriod is the reporting period a returns notice covers.
type ReturnsPeriod struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	DueDate   time.Time `json:"due_date"`
	IsSummer  bool      `json:"is_summer"`
}

// NoticeContext holds the immutable parameters of a notification run. It is
// assembled by the journey layer before the engine is invoked; the engine
// never mutates it.
type NoticeContext struct {
	Journey       Journey
	NoticeType    NoticeType
	ReferenceCode string
	EventID       id.EventID

	// ReturnsPeriod is absent for abstraction alerts.
	ReturnsPeriod *ReturnsPeriod

	// LatestDueDate overrides the computed due date when several periods are
	// combined into one notice.
	LatestDueDate *time.Time
}

// AlertSendingType is the kind of alert an alerts run sends.
type AlertSendingType string

const (
	AlertWarning AlertSendingType = "warning"
	AlertReduce  AlertSendingType = "reduce"
	AlertStop    AlertSendingType = "stop"
	AlertResume  AlertSendingType = "resume"
)

// AlertContext extends NoticeContext with the alert-specific run parameters.
// Journey-specific fields live here rather than in an untyped property bag.
type AlertContext struct {
	NoticeContext
	SendingAlertType AlertSendingType
}

// MeasureType is what a monitoring station measures.
type MeasureType string

const (
	MeasureFlow  MeasureType = "flow"
	MeasureLevel MeasureType = "level"
)

// RestrictionType is the abstraction restriction a threshold enforces.
type RestrictionType string

const (
	RestrictionStop         RestrictionType = "stop"
	RestrictionReduce       RestrictionType = "reduce"
	RestrictionStopOrReduce RestrictionType = "stop_or_reduce"
)

// LicenceMonitoringStation ties a licence condition to a monitoring station
// threshold. One alert notification is built per (recipient, relevant
// station).
type LicenceMonitoringStation struct {
	ID              string          `json:"id"`
	LicenceRef      string          `json:"licence_ref"`
	StationName     string          `json:"station_name"`
	MeasureType     MeasureType     `json:"measure_type"`
	RestrictionType RestrictionType `json:"restriction_type"`
	ThresholdValue  float64         `json:"threshold_value"`
	ThresholdUnit   string          `json:"threshold_unit"`
}

// DueReturnLog is an outstanding return obligation tied to a licence and
// reporting period. Paper return forms are expanded per selected due return.
type DueReturnLog struct {
	ID                     id.ReturnLogID `json:"id"`
	ReturnReference        string         `json:"return_reference"`
	LicenceRef             string         `json:"licence_ref"`
	StartDate              time.Time      `json:"start_date"`
	EndDate                time.Time      `json:"end_date"`
	DueDate                time.Time      `json:"due_date"`
	Purpose                string         `json:"purpose"`
	SiteDescription        string         `json:"site_description"`
	RegionName             string         `json:"region_name"`
	AreaName               string         `json:"area_name"`
	AbstractionPeriodStart string         `json:"abstraction_period_start"`
	AbstractionPeriodEnd   string         `json:"abstraction_period_end"`
	TwoPartTariff          bool           `json:"two_part_tariff"`
}
