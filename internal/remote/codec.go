package remote

import (
	"fmt"
	"regexp"
	"time"

	"go-pipeline/internal/models"
)

// The record store keys its rows by business-language column labels
// ("Lead-no", "Sales Person", ...). That wire format stays inside this file;
// the rest of the codebase only sees the typed domain structs.

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			switch s := v.(type) {
			case string:
				if s != "" {
					return s
				}
			case float64:
				return fmt.Sprintf("%v", s)
			}
		}
	}
	return ""
}

func pickInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := v.(float64); ok {
				return int(f)
			}
		}
	}
	return 0
}

func decodeContact(m map[string]any, index int) models.Contact {
	c := models.Contact{
		ContactRow:          pickInt(m, "contactRow"),
		CompanyRow:          pickInt(m, "companyRow"),
		LeadNo:              pickString(m, "Lead-no", "leadNo"),
		Country:             pickString(m, "Country", "country"),
		SalesPerson:         pickString(m, "Sales Person", "salesPerson"),
		InternName:          pickString(m, "Intern Name", "internName"),
		Company:             pickString(m, "Company", "company"),
		ImportValue:         pickString(m, "Import Value in Mn $ (Chiansaw & Brushcutters)", "importValue"),
		TotalImportValue:    pickString(m, "Total Import Value ($)", "totalImportValue"),
		Website:             pickString(m, "Website", "website"),
		CompanyLinkedinPage: pickString(m, "Linkedin Page (Company)", "Linkedin Page", "companyLinkedinPage"),
		Facebook:            pickString(m, "Facebook", "facebook"),
		Instagram:           pickString(m, "Instagram", "instagram"),
		KeyPerson:           pickString(m, "Key Person", "keyPerson"),
		Designation:         pickString(m, "Designation", "designation"),
		Number:              pickString(m, "Number", "number"),
		Email:               pickString(m, "Email", "email"),
		PersonLinkedinPage:  pickString(m, "Linkedin Page (Person)", "personLinkedinPage"),
		Verification:        pickString(m, "Verification", "verification"),
		NextFollowUpDate:    pickString(m, "Next Follow-up Date", "nextFollowUpDate"),
		Temp1:               pickString(m, "TEMP1", "tEMP1"),
		Temp2:               pickString(m, "TEMP2", "tEMP2"),
		Status:              pickString(m, "Status", "status"),
	}
	if c.Verification == "" {
		c.Verification = "Not verified"
	}
	// Rows the store has not numbered yet get a synthetic negative identity.
	if c.ContactRow != 0 {
		c.ID = int64(c.ContactRow)
	} else {
		c.ID = -(time.Now().UnixMilli() + int64(index))
	}
	return c
}

func decodeFollowUpLog(m map[string]any) models.FollowUpLog {
	ts := time.Now().UTC()
	if raw := pickString(m, "Timestamp", "timestamp"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			ts = parsed
		}
	}
	return models.FollowUpLog{
		LeadNo:        pickString(m, "Lead-no", "leadNo"),
		Company:       pickString(m, "Company", "company"),
		KeyPerson:     pickString(m, "Key Person", "keyPerson"),
		ContactNumber: pickString(m, "Contact Number", "contactNumber"),
		SalesPerson:   pickString(m, "Sales Person", "salesPerson"),
		Timestamp:     ts,
		Action:        pickString(m, "Action", "action"),
		Details:       pickString(m, "Details", "details"),
		Remarks:       pickString(m, "Remarks", "remarks"),
		ProofURL:      pickString(m, "Proof URL", "proofUrl"),
	}
}

var plainDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// normalizeFollowUpDate turns a plain YYYY-MM-DD into a UTC-midnight RFC3339
// timestamp before it goes on the wire, so client and store agree on the day
// regardless of timezone. Anything else passes through untouched.
func normalizeFollowUpDate(date string) string {
	if !plainDatePattern.MatchString(date) {
		return date
	}
	parsed, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return date
	}
	return parsed.Format(time.RFC3339)
}
