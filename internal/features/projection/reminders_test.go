package projection

import (
	"testing"
	"time"

	"go-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reminderContact(id int64, owner, due string) models.Contact {
	return models.Contact{
		ID:               id,
		SalesPerson:      owner,
		NextFollowUpDate: due,
	}
}

func TestRemindersPartition(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	contacts := []models.Contact{
		reminderContact(1, "Ravi", "2026-03-09"), // yesterday, overdue
		reminderContact(2, "Ravi", "2026-03-10"), // today, upcoming
		reminderContact(3, "Ravi", "2026-03-17"), // seventh day, upcoming
		reminderContact(4, "Ravi", "2026-03-18"), // past the horizon
		reminderContact(5, "Ravi", ""),           // no date set
	}

	lists := Reminders(contacts, "Ravi", models.RoleSalesPerson, today)
	require.Len(t, lists.Overdue, 1)
	assert.Equal(t, int64(1), lists.Overdue[0].ID)
	require.Len(t, lists.Upcoming, 2)
	assert.Equal(t, int64(2), lists.Upcoming[0].ID)
	assert.Equal(t, int64(3), lists.Upcoming[1].ID)
}

func TestRemindersFiltersByOwner(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	contacts := []models.Contact{
		reminderContact(1, "Ravi", "2026-03-01"),
		reminderContact(2, "Priya", "2026-03-01"),
	}

	lists := Reminders(contacts, "Ravi", models.RoleSalesPerson, today)
	require.Len(t, lists.Overdue, 1)
	assert.Equal(t, int64(1), lists.Overdue[0].ID)
	assert.Empty(t, lists.Upcoming)
}

func TestRemindersAdminGetsNone(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	contacts := []models.Contact{
		reminderContact(1, "Ravi", "2026-03-01"),
	}

	lists := Reminders(contacts, "Ravi", models.RoleAdmin, today)
	assert.Empty(t, lists.Overdue)
	assert.Empty(t, lists.Upcoming)
}

func TestRemindersEmptyUser(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	contacts := []models.Contact{
		reminderContact(1, "", "2026-03-01"),
	}

	lists := Reminders(contacts, "", models.RoleSalesPerson, today)
	assert.Empty(t, lists.Overdue)
	assert.Empty(t, lists.Upcoming)
}

func TestRemindersSkipsUnparseableDates(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	contacts := []models.Contact{
		reminderContact(1, "Ravi", "next tuesday"),
		reminderContact(2, "Ravi", "2026-03-12T00:00:00Z"),
	}

	lists := Reminders(contacts, "Ravi", models.RoleSalesPerson, today)
	assert.Empty(t, lists.Overdue)
	require.Len(t, lists.Upcoming, 1)
	assert.Equal(t, int64(2), lists.Upcoming[0].ID)
}

func TestRemindersSortedByDate(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	contacts := []models.Contact{
		reminderContact(1, "Ravi", "2026-03-14"),
		reminderContact(2, "Ravi", "2026-03-11"),
		reminderContact(3, "Ravi", "2026-03-05"),
		reminderContact(4, "Ravi", "2026-03-02"),
	}

	lists := Reminders(contacts, "Ravi", models.RoleSalesPerson, today)
	require.Len(t, lists.Overdue, 2)
	assert.Equal(t, int64(4), lists.Overdue[0].ID)
	assert.Equal(t, int64(3), lists.Overdue[1].ID)
	require.Len(t, lists.Upcoming, 2)
	assert.Equal(t, int64(2), lists.Upcoming[0].ID)
	assert.Equal(t, int64(1), lists.Upcoming[1].ID)
}
