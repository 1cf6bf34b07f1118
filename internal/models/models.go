package models

import "time"

// Contact is one denormalized row: company fields plus one key person at that
// company. Every contact sharing a LeadNo belongs to the same lead and carries
// identical company fields.
type Contact struct {
	// ID is the client-side identity, normally ContactRow. Rows created
	// optimistically before the store assigns them get a negative ID.
	ID         int64 `json:"id"`
	ContactRow int   `json:"contactRow"`
	CompanyRow int   `json:"companyRow"`

	// Company fields
	LeadNo              string `json:"leadNo"`
	Country             string `json:"country"`
	SalesPerson         string `json:"salesPerson"`
	InternName          string `json:"internName,omitempty"`
	Company             string `json:"company"`
	ImportValue         string `json:"importValue,omitempty"`
	TotalImportValue    string `json:"totalImportValue,omitempty"`
	Website             string `json:"website,omitempty"`
	CompanyLinkedinPage string `json:"companyLinkedinPage,omitempty"`
	Facebook            string `json:"facebook,omitempty"`
	Instagram           string `json:"instagram,omitempty"`

	// Person fields
	KeyPerson          string `json:"keyPerson"`
	Designation        string `json:"designation"`
	Number             string `json:"number"`
	Email              string `json:"email,omitempty"`
	PersonLinkedinPage string `json:"personLinkedinPage,omitempty"`

	Verification     string `json:"verification"`
	NextFollowUpDate string `json:"nextFollowUpDate,omitempty"`
	Temp1            string `json:"tEMP1,omitempty"`
	Temp2            string `json:"tEMP2,omitempty"`
	Status           string `json:"status,omitempty"`
}

// ApplyCompany copies the company-level fields of src onto c, leaving the
// person fields alone. Used when a company edit fans out to every row of a
// lead.
func (c *Contact) ApplyCompany(src CompanyFields) {
	c.Country = src.Country
	c.SalesPerson = src.SalesPerson
	c.InternName = src.InternName
	c.Company = src.Company
	c.ImportValue = src.ImportValue
	c.TotalImportValue = src.TotalImportValue
	c.Website = src.Website
	c.CompanyLinkedinPage = src.CompanyLinkedinPage
	c.Facebook = src.Facebook
	c.Instagram = src.Instagram
}

// CompanyFields is the company half of a contact row, used for lead creation
// and company edits.
type CompanyFields struct {
	Country             string `json:"country"`
	SalesPerson         string `json:"salesPerson"`
	InternName          string `json:"internName,omitempty"`
	Company             string `json:"company"`
	ImportValue         string `json:"importValue,omitempty"`
	TotalImportValue    string `json:"totalImportValue,omitempty"`
	Website             string `json:"website,omitempty"`
	CompanyLinkedinPage string `json:"companyLinkedinPage,omitempty"`
	Facebook            string `json:"facebook,omitempty"`
	Instagram           string `json:"instagram,omitempty"`
}

// PersonFields is the person half of a contact row.
type PersonFields struct {
	KeyPerson          string `json:"keyPerson"`
	Designation        string `json:"designation"`
	Number             string `json:"number"`
	Email              string `json:"email,omitempty"`
	PersonLinkedinPage string `json:"personLinkedinPage,omitempty"`
}

// LeadDraft is the input to lead creation: one company plus one-or-more
// persons, all of which will share the lead number assigned by the store.
type LeadDraft struct {
	Company CompanyFields  `json:"companyData"`
	Persons []PersonFields `json:"personsData"`
}

// FollowUpLog is one immutable activity-log event. Logs are never edited or
// deleted; they are the audit trail the pipeline stage is derived from.
type FollowUpLog struct {
	LeadNo        string    `json:"leadNo"`
	Company       string    `json:"company"`
	KeyPerson     string    `json:"keyPerson"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	SalesPerson   string    `json:"salesPerson"`
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	Details       string    `json:"details"`
	Remarks       string    `json:"remarks"`
	ProofURL      string    `json:"proofUrl,omitempty"`
}

// Snapshot is the full dataset held by the client: everything the record
// store returns from a fetch-all. Replacement is always whole-value.
type Snapshot struct {
	Contacts     []Contact     `json:"contacts"`
	FollowUpLogs []FollowUpLog `json:"followUpLogs"`
}

// User is a row in the store's user sheet, managed by admins.
type User struct {
	UserRow  int    `json:"userRow"`
	Name     string `json:"name"`
	Role     string `json:"role"` // "Sales Person", "Intern" or "Admin"
	Password string `json:"password,omitempty"`
}
