// Package projection derives the per-lead views from the activity log. The
// log is the audit trail of record, so these views are recomputed from it on
// demand and never stored.
package projection

import (
	"sort"

	"go-pipeline/internal/models"
)

// StageByLead computes the current pipeline stage of every lead: the action
// of the latest qualifying log entry (a pipeline milestone or "Lead
// Created"). Entries with equal timestamps keep their input order, so the
// one appearing later in the collection wins the tie. Leads absent from the
// result are implicitly at StageFresh.
func StageByLead(logs []models.FollowUpLog) map[string]string {
	ordered := make([]models.FollowUpLog, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	stages := make(map[string]string)
	for _, entry := range ordered {
		if entry.LeadNo == "" {
			continue
		}
		if entry.Action == models.ActionLeadCreated || models.IsPipelineStage(entry.Action) {
			stages[entry.LeadNo] = entry.Action
		}
	}
	return stages
}

// Stage looks one lead up in a StageByLead result, applying the Fresh
// default.
func Stage(stages map[string]string, leadNo string) string {
	if stage, ok := stages[leadNo]; ok {
		return stage
	}
	return models.StageFresh
}

// LastActionByLead returns the most recent log entry per lead, whatever its
// action. This is the display view next to each row and is independent of
// the stage projection.
func LastActionByLead(logs []models.FollowUpLog) map[string]models.FollowUpLog {
	ordered := make([]models.FollowUpLog, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.After(ordered[j].Timestamp)
	})

	last := make(map[string]models.FollowUpLog)
	for _, entry := range ordered {
		if entry.LeadNo == "" {
			continue
		}
		if _, seen := last[entry.LeadNo]; !seen {
			last[entry.LeadNo] = entry
		}
	}
	return last
}
