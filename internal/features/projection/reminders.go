package projection

import (
	"sort"
	"time"

	"go-pipeline/internal/models"
)

// ReminderLists partitions a user's follow-ups into overdue and upcoming.
type ReminderLists struct {
	Overdue  []models.Contact `json:"overdue"`
	Upcoming []models.Contact `json:"upcoming"`
}

// Reminders builds the reminder lists for one actor. Only contacts owned by
// that salesperson with a parseable next-follow-up date participate:
// strictly before the start of today is overdue, within the next seven days
// (today inclusive) is upcoming. Later dates and unparseable dates appear in
// neither. Admins get empty lists; reminders are a per-salesperson concept.
func Reminders(contacts []models.Contact, user string, role models.Role, today time.Time) ReminderLists {
	lists := ReminderLists{Overdue: []models.Contact{}, Upcoming: []models.Contact{}}
	if role == models.RoleAdmin || user == "" {
		return lists
	}

	todayStart := startOfDay(today)
	horizon := todayStart.AddDate(0, 0, 7)

	for _, c := range contacts {
		if c.SalesPerson != user || c.NextFollowUpDate == "" {
			continue
		}
		due, ok := parseFollowUpDate(c.NextFollowUpDate)
		if !ok {
			continue
		}
		day := startOfDay(due)
		switch {
		case day.Before(todayStart):
			lists.Overdue = append(lists.Overdue, c)
		case !day.After(horizon):
			lists.Upcoming = append(lists.Upcoming, c)
		}
	}

	byDate := func(list []models.Contact) {
		sort.SliceStable(list, func(i, j int) bool {
			a, _ := parseFollowUpDate(list[i].NextFollowUpDate)
			b, _ := parseFollowUpDate(list[j].NextFollowUpDate)
			return a.Before(b)
		})
	}
	byDate(lists.Overdue)
	byDate(lists.Upcoming)
	return lists
}

// parseFollowUpDate accepts the two encodings the store hands back: plain
// YYYY-MM-DD and a full RFC3339 timestamp.
func parseFollowUpDate(raw string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
