package domain

import "strings"

// DefaultPlanLocation stands in for an empty location in fallback plans.
const DefaultPlanLocation = "the affected area"

// planTemplate is a canned plan whose SMS carries a %LOCATION% placeholder.
type planTemplate struct {
	immediate  []string
	mediumTerm []string
	resources  []Resource
	sms        string
}

const locationToken = "%LOCATION%"

var fallbackPlans = map[EventType]planTemplate{
	EventTypeFire: {
		immediate: []string{
			"Evacuate villages within 5km radius",
			"Deploy fire truck units from nearest stations",
			"Alert medical centers for potential casualties",
			"Establish incident command center at district HQ",
		},
		mediumTerm: []string{
			"Mobilize disaster response teams",
			"Arrange temporary shelters",
			"Alert neighboring states",
			"Deploy aerial firefighting resources",
		},
		resources: []Resource{
			{Name: "Fire Trucks", Quantity: 8},
			{Name: "Helicopters", Quantity: 2},
			{Name: "Personnel", Quantity: 150},
			{Name: "Water Tankers", Quantity: 4},
		},
		sms: "ALERT: Forest fire active near %LOCATION%. Evacuate immediately. Call 112. -RAKSHAK",
	},
	EventTypeDeforestation: {
		immediate: []string{
			"Dispatch forest protection team",
			"Document evidence for legal action",
			"Block access roads to area",
			"Notify district forest officer",
		},
		mediumTerm: []string{
			"Initiate legal proceedings",
			"Engage local community",
			"Plan reforestation",
		},
		resources: []Resource{
			{Name: "Forest Officers", Quantity: 5},
			{Name: "Police Units", Quantity: 2},
			{Name: "Documentation Experts", Quantity: 3},
		},
		sms: "ALERT: Unauthorized tree cutting detected near %LOCATION%. Forest dept investigating. -RAKSHAK",
	},
	EventTypePollution: {
		immediate: []string{
			"Issue air quality warning",
			"Advise vulnerable populations to stay indoors",
			"Prepare health facilities",
			"Monitor pollution spread",
		},
		mediumTerm: []string{
			"Implement traffic restrictions",
			"Close schools if AQI severe",
			"Distribute masks to vulnerable groups",
		},
		resources: []Resource{
			{Name: "Health Centers", Quantity: 10},
			{Name: "Ambulances", Quantity: 15},
			{Name: "Air Quality Monitors", Quantity: 20},
		},
		sms: "ALERT: High pollution levels near %LOCATION%. Sensitive groups stay indoors. Masks recommended. -RAKSHAK",
	},
	EventTypeFlood: {
		immediate: []string{
			"Pre-position rescue boats",
			"Alert district administration",
			"Prepare evacuation routes",
			"Alert medical teams",
		},
		mediumTerm: []string{
			"Arrange temporary shelters",
			"Stock relief materials",
			"Coordinate with neighboring districts",
		},
		resources: []Resource{
			{Name: "Rescue Boats", Quantity: 8},
			{Name: "Personnel", Quantity: 200},
			{Name: "Relief Camps", Quantity: 5},
			{Name: "Medical Units", Quantity: 10},
		},
		sms: "FLOOD WARNING: Heavy flooding likely near %LOCATION%. Move to high ground. Call 112. -RAKSHAK",
	},
}

var genericPlan = planTemplate{
	immediate: []string{
		"Alert district authorities",
		"Document incident details",
		"Monitor situation",
	},
	mediumTerm: []string{
		"Coordinate response teams",
		"Prepare public alerts",
	},
	resources: []Resource{
		{Name: "Response Teams", Quantity: 5},
	},
	sms: "ALERT: Environmental incident detected near %LOCATION%. Authorities responding. -RAKSHAK",
}

// FallbackPlan returns the canned plan for t with location substituted into
// the SMS. It never fails: unknown types get the generic plan.
func FallbackPlan(t EventType, location string) ActionPlan {
	tmpl, ok := fallbackPlans[t]
	if !ok {
		tmpl = genericPlan
	}
	if strings.TrimSpace(location) == "" {
		location = DefaultPlanLocation
	}
	// Copy so callers can't mutate the table.
	return ActionPlan{
		Immediate:  append([]string(nil), tmpl.immediate...),
		MediumTerm: append([]string(nil), tmpl.mediumTerm...),
		Resources:  append([]Resource(nil), tmpl.resources...),
		SMS:        strings.ReplaceAll(tmpl.sms, locationToken, location),
	}
}
