package standardize

import "tcpagent/internal"

// DefaultFieldTable declares, per contract attribute, which normalizer
// applies. Built once at startup and shared read-only.
func DefaultFieldTable() map[string]internal.FieldKind {
	return map[string]internal.FieldKind{
		"contract_date":       internal.KindDate,
		"delivery_date":       internal.KindDate,
		"last_special_survey": internal.KindDate,
		"next_special_survey": internal.KindDate,

		"vessel_name": internal.KindVessel,

		"daily_hire_rate_usd": internal.KindCurrency,

		"charter_period_months":    internal.KindInteger,
		"off_hire_threshold_hours": internal.KindInteger,
		"year_built":               internal.KindInteger,
		"imo_number":               internal.KindInteger,

		"contract_number":            internal.KindText,
		"vessel_flag":                internal.KindText,
		"vessel_type":                internal.KindText,
		"deadweight":                 internal.KindText,
		"gross_tonnage":              internal.KindText,
		"speed_about":                internal.KindText,
		"consumption_per_day":        internal.KindText,
		"owner_name":                 internal.KindText,
		"owner_location":             internal.KindText,
		"charterer_name":             internal.KindText,
		"charterer_location":         internal.KindText,
		"charter_period_description": internal.KindText,
		"delivery_port":              internal.KindText,
		"redelivery_port":            internal.KindText,
		"bunkers_delivery_ifo":       internal.KindText,
		"bunkers_delivery_mgo":       internal.KindText,
		"bunkers_redelivery_ifo":     internal.KindText,
		"bunkers_redelivery_mgo":     internal.KindText,
		"drydocking_policy":          internal.KindText,
		"trading_limits":             internal.KindText,
		"law_and_arbitration":        internal.KindText,
		"commission_rate":            internal.KindText,
		"additional_notes":           internal.KindText,
	}
}

// ContractColumnOrder is the canonical column ordering for exports.
var ContractColumnOrder = []string{
	"contract_number", "contract_date", "vessel_name", "imo_number",
	"vessel_flag", "year_built", "vessel_type", "deadweight", "gross_tonnage",
	"owner_name", "owner_location", "charterer_name", "charterer_location",
	"charter_period_months", "daily_hire_rate_usd", "delivery_date",
	"delivery_port", "redelivery_port", "speed_about", "consumption_per_day",
	"bunkers_delivery_ifo", "bunkers_delivery_mgo",
	"bunkers_redelivery_ifo", "bunkers_redelivery_mgo",
	"last_special_survey", "next_special_survey", "drydocking_policy",
	"off_hire_threshold_hours", "trading_limits", "law_and_arbitration",
	"commission_rate", "charter_period_description", "additional_notes",
	internal.MetaSourceFile, internal.MetaProcessedAt,
}
