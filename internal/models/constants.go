package models

import (
	"regexp"
	"strings"
)

// Role is the session role of the logged-in user.
type Role string

const (
	RoleSalesPerson Role = "salesPerson"
	RoleIntern      Role = "intern"
	RoleAdmin       Role = "admin"
)

// Store-side role labels as they appear in the user sheet.
const (
	StoreRoleSalesPerson = "Sales Person"
	StoreRoleIntern      = "Intern"
	StoreRoleAdmin       = "Admin"
)

const (
	ActionLeadCreated   = "Lead Created"
	ActionStatusChanged = "Status Changed"

	// StageFresh is the implicit stage of a lead with no qualifying log entry.
	StageFresh = "Fresh"
)

// PipelineStages are the recognized milestone actions, in display order.
// Together with ActionLeadCreated they are the only actions that move a
// lead's derived stage.
var PipelineStages = []string{
	"Call",
	"Intro Email",
	"LinkedIn",
	"Price List Shared",
	"Meeting",
	"Proposal",
	"Negotiation",
	"Order Received",
	"Payment Received",
}

// QuickActionGroups drive the quick-action menu.
var QuickActionGroups = map[string][]string{
	"Initial Contact":    {"Call", "Intro Email", "LinkedIn"},
	"Engagement":         {"Price List Shared", "Meeting", "Proposal"},
	"Closing":            {"Negotiation", "Order Received", "Payment Received"},
	"Lead Status Update": {"Not Interested", "Deal Lost", "On Hold"},
	"General":            {"Set Follow-up", "Add Note"},
}

// TerminalActions are quick actions that also overwrite the contact's status.
var TerminalActions = []string{"Not Interested", "Deal Lost", "On Hold"}

// StatusOptions is the closed set of contact statuses (plus empty).
var StatusOptions = []string{"Hot", "Warm", "Cold", "Not Interested", "Deal Lost", "On Hold"}

// IsPipelineStage reports whether action is a recognized pipeline milestone.
func IsPipelineStage(action string) bool {
	for _, s := range PipelineStages {
		if s == action {
			return true
		}
	}
	return false
}

// IsTerminalAction reports whether a quick action closes out the lead status.
func IsTerminalAction(action string) bool {
	for _, a := range TerminalActions {
		if a == action {
			return true
		}
	}
	return false
}

// InternTag builds the attribution tag appended to remarks entered by an
// intern, so the owning salesperson can tell intern activity apart.
func InternTag(name string) string {
	return "(By Intern: " + name + ")"
}

var internTagPattern = regexp.MustCompile(`\s*\(By Intern: [^)]*\)\s*`)

// CleanRemarks strips the intern attribution tag for display, whatever name
// is embedded in it.
func CleanRemarks(remarks string) string {
	return strings.TrimSpace(internTagPattern.ReplaceAllString(remarks, " "))
}
