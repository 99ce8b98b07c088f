package claude

import "fmt"

const fieldSchema = `{
    "contract_number": "Contract reference number",
    "contract_date": "Date of contract",
    "vessel_name": "Name of the vessel",
    "imo_number": "IMO number",
    "vessel_flag": "Flag/nationality",
    "year_built": "Year vessel was built",
    "vessel_type": "Type of vessel (bulk carrier, tanker, container, etc.)",
    "deadweight": "Deadweight tonnage",
    "gross_tonnage": "Gross tonnage",
    "speed_about": "Speed in knots",
    "consumption_per_day": "Fuel consumption per day",
    "owner_name": "Owner's company name",
    "owner_location": "Owner's location/country",
    "charterer_name": "Charterer's company name",
    "charterer_location": "Charterer's location/country",
    "charter_period_months": "Charter period in months (numeric)",
    "charter_period_description": "Full charter period description",
    "daily_hire_rate_usd": "Daily hire rate in USD (numeric only)",
    "delivery_date": "Delivery date or period",
    "delivery_port": "Delivery port/place",
    "redelivery_port": "Redelivery port/place or range",
    "bunkers_delivery_ifo": "IFO/VLSFO quantity on delivery (metric tons)",
    "bunkers_delivery_mgo": "MGO/MDO quantity on delivery (metric tons)",
    "bunkers_redelivery_ifo": "IFO/VLSFO quantity on redelivery (metric tons)",
    "bunkers_redelivery_mgo": "MGO/MDO quantity on redelivery (metric tons)",
    "last_special_survey": "Date of last special survey",
    "next_special_survey": "Date when next special survey is due",
    "drydocking_policy": "Summary of drydocking provisions",
    "off_hire_threshold_hours": "Minimum hours before off-hire applies (numeric)",
    "trading_limits": "Geographic trading limits",
    "law_and_arbitration": "Governing law and arbitration location",
    "commission_rate": "Commission rate percentage",
    "additional_notes": "Any other significant terms or special conditions"
}`

// BuildPrompt wraps contract text in the fixed extraction instruction.
func BuildPrompt(contractText string) string {
	return fmt.Sprintf(`Please analyze this Time Charter Party (TCP) contract and extract the following information into a structured format.

CONTRACT TEXT:
%s

Please extract and return ONLY the following fields in valid JSON format. If a field is not found, use null:

%s

Return ONLY valid JSON, no other text or explanation.`, contractText, fieldSchema)
}
