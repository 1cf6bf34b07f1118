package mutation

// FollowUpInput is what the follow-up form submits alongside the chosen
// action.
type FollowUpInput struct {
	Remarks          string `json:"remarks"`
	NextFollowUpDate string `json:"nextFollowUpDate"`
	// TemplateID names the contact's template slot ("tEMP1"/"tEMP2") to
	// overwrite with the remarks text, when the action edits a template.
	TemplateID string `json:"templateId,omitempty"`
	// ProofFile is an optional attachment reference shipped with the log.
	ProofFile string `json:"proofFile,omitempty"`
}

type StatusChangeRequest struct {
	Status string `json:"status"`
}

type FollowUpRequest struct {
	Action  string `json:"action"`
	Details string `json:"details"`
	FollowUpInput
}

type SocialClickRequest struct {
	Action  string `json:"action"`
	Details string `json:"details"`
}
