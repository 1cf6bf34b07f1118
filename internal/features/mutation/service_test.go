package mutation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-pipeline/internal/features/sync"
	"go-pipeline/internal/models"
	"go-pipeline/internal/remote"
	"go-pipeline/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRemote implements remote.Client with per-method hooks. Unhooked
// methods succeed and do nothing.
type fakeRemote struct {
	createLeadFn    func(ctx context.Context, draft models.LeadDraft) (string, error)
	createPersonFn  func(ctx context.Context, leadNo, companyName string, person models.PersonFields) error
	updateContactFn func(ctx context.Context, contact models.Contact) error
	deletePersonFn  func(ctx context.Context, contactRow int) error
	appendLogFn     func(ctx context.Context, entry models.FollowUpLog, opts remote.AppendLogOptions) (models.FollowUpLog, error)
}

func (f *fakeRemote) FetchInitialData(ctx context.Context) (models.Snapshot, error) {
	return models.Snapshot{}, nil
}

func (f *fakeRemote) Authenticate(ctx context.Context, name, password, role string) error {
	return nil
}

func (f *fakeRemote) ListUsers(ctx context.Context) ([]models.User, error) { return nil, nil }

func (f *fakeRemote) AddUser(ctx context.Context, user models.User) error { return nil }

func (f *fakeRemote) UpdateUser(ctx context.Context, user models.User) error { return nil }

func (f *fakeRemote) DeleteUser(ctx context.Context, userRow int) error { return nil }

func (f *fakeRemote) CreateLead(ctx context.Context, draft models.LeadDraft) (string, error) {
	if f.createLeadFn != nil {
		return f.createLeadFn(ctx, draft)
	}
	return "L-100", nil
}

func (f *fakeRemote) CreatePerson(ctx context.Context, leadNo, companyName string, person models.PersonFields) error {
	if f.createPersonFn != nil {
		return f.createPersonFn(ctx, leadNo, companyName, person)
	}
	return nil
}

func (f *fakeRemote) UpdateContact(ctx context.Context, contact models.Contact) error {
	if f.updateContactFn != nil {
		return f.updateContactFn(ctx, contact)
	}
	return nil
}

func (f *fakeRemote) DeletePerson(ctx context.Context, contactRow int) error {
	if f.deletePersonFn != nil {
		return f.deletePersonFn(ctx, contactRow)
	}
	return nil
}

func (f *fakeRemote) AppendLog(ctx context.Context, entry models.FollowUpLog, opts remote.AppendLogOptions) (models.FollowUpLog, error) {
	if f.appendLogFn != nil {
		return f.appendLogFn(ctx, entry, opts)
	}
	return entry, nil
}

// fakeSync records reload requests without touching any state.
type fakeSync struct {
	loads int
}

func (f *fakeSync) Load(ctx context.Context, showLoader bool) (sync.LoadResult, error) {
	f.loads++
	return sync.LoadResult{}, nil
}

func (f *fakeSync) InitializeScheduler(ctx context.Context) error { return nil }

func (f *fakeSync) StopScheduler() error { return nil }

func newTestService(client remote.Client) (*MutationServiceImpl, *state.AppState, *fakeSync) {
	appState := state.NewAppState()
	appState.SetSession("Ravi", models.RoleSalesPerson)
	syncSvc := &fakeSync{}
	svc := &MutationServiceImpl{
		State:  appState,
		Remote: client,
		Sync:   syncSvc,
		Logger: zap.NewNop(),
	}
	return svc, appState, syncSvc
}

func seedContact(appState *state.AppState, contacts ...models.Contact) {
	appState.SetContacts(contacts)
}

func baseContact() models.Contact {
	return models.Contact{
		ID:          42,
		ContactRow:  42,
		CompanyRow:  7,
		LeadNo:      "L-042",
		SalesPerson: "Ravi",
		Company:     "Acme Corp",
		KeyPerson:   "Jane Doe",
		Number:      "+91 98765",
		Status:      "Warm",
	}
}

func TestCreateLeadAppliesRowsAndLog(t *testing.T) {
	svc, appState, _ := newTestService(&fakeRemote{})

	draft := models.LeadDraft{
		Company: models.CompanyFields{Company: "Acme Corp", SalesPerson: "Ravi", Country: "India"},
		Persons: []models.PersonFields{
			{KeyPerson: "Jane Doe", Designation: "CEO"},
			{KeyPerson: "John Roe", Designation: "Buyer"},
		},
	}

	leadNo, err := svc.CreateLead(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "L-100", leadNo)

	snap := appState.Snapshot()
	require.Len(t, snap.Contacts, 2)
	for _, c := range snap.Contacts {
		assert.Negative(t, c.ID)
		assert.Equal(t, "L-100", c.LeadNo)
		assert.Equal(t, "Acme Corp", c.Company)
		assert.Equal(t, "Not verified", c.Verification)
	}
	require.Len(t, snap.FollowUpLogs, 1)
	assert.Equal(t, models.ActionLeadCreated, snap.FollowUpLogs[0].Action)
	assert.Equal(t, "L-100", snap.FollowUpLogs[0].LeadNo)
	assert.Equal(t, "Ravi", snap.FollowUpLogs[0].SalesPerson)
}

func TestCreateLeadFailsFastOnRemote(t *testing.T) {
	boom := errors.New("store rejected the lead")
	svc, appState, _ := newTestService(&fakeRemote{
		createLeadFn: func(ctx context.Context, draft models.LeadDraft) (string, error) {
			return "", boom
		},
	})

	_, err := svc.CreateLead(context.Background(), models.LeadDraft{
		Persons: []models.PersonFields{{KeyPerson: "Jane Doe"}},
	})
	require.ErrorIs(t, err, boom)

	// Nothing was applied locally; there is nothing to roll back.
	snap := appState.Snapshot()
	assert.Empty(t, snap.Contacts)
	assert.Empty(t, snap.FollowUpLogs)
}

func TestCreateLeadRollsBackWhenLogAppendFails(t *testing.T) {
	boom := errors.New("append failed")
	svc, appState, _ := newTestService(&fakeRemote{
		appendLogFn: func(ctx context.Context, entry models.FollowUpLog, opts remote.AppendLogOptions) (models.FollowUpLog, error) {
			return models.FollowUpLog{}, boom
		},
	})

	_, err := svc.CreateLead(context.Background(), models.LeadDraft{
		Persons: []models.PersonFields{{KeyPerson: "Jane Doe"}},
	})
	require.ErrorIs(t, err, boom)

	snap := appState.Snapshot()
	assert.Empty(t, snap.Contacts)
	assert.Empty(t, snap.FollowUpLogs)
}

func TestCreateLeadRequiresSession(t *testing.T) {
	svc, appState, _ := newTestService(&fakeRemote{})
	appState.Clear()

	_, err := svc.CreateLead(context.Background(), models.LeadDraft{
		Persons: []models.PersonFields{{KeyPerson: "Jane Doe"}},
	})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestCreateLeadRequiresAPerson(t *testing.T) {
	svc, _, _ := newTestService(&fakeRemote{})

	_, err := svc.CreateLead(context.Background(), models.LeadDraft{})
	assert.Error(t, err)
}

func TestAddPersonReloadsInsteadOfApplying(t *testing.T) {
	var gotLeadNo, gotCompany string
	svc, appState, syncSvc := newTestService(&fakeRemote{
		createPersonFn: func(ctx context.Context, leadNo, companyName string, person models.PersonFields) error {
			gotLeadNo = leadNo
			gotCompany = companyName
			return nil
		},
	})
	seedContact(appState, baseContact())

	err := svc.AddPerson(context.Background(), 42, models.PersonFields{KeyPerson: "New Person"})
	require.NoError(t, err)
	assert.Equal(t, "L-042", gotLeadNo)
	assert.Equal(t, "Acme Corp", gotCompany)
	assert.Equal(t, 1, syncSvc.loads)

	// The local snapshot was not guessed at; the reload is authoritative.
	snap := appState.Snapshot()
	require.Len(t, snap.Contacts, 1)
}

func TestAddPersonUnknownContact(t *testing.T) {
	svc, appState, _ := newTestService(&fakeRemote{})
	seedContact(appState, baseContact())

	err := svc.AddPerson(context.Background(), 999, models.PersonFields{KeyPerson: "New Person"})
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestEditPersonRollsBack(t *testing.T) {
	boom := errors.New("update failed")
	svc, appState, _ := newTestService(&fakeRemote{
		updateContactFn: func(ctx context.Context, contact models.Contact) error {
			return boom
		},
	})
	seedContact(appState, baseContact())

	updated := baseContact()
	updated.KeyPerson = "Renamed Person"

	err := svc.EditPerson(context.Background(), updated)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "Jane Doe", appState.Snapshot().Contacts[0].KeyPerson)
}

func TestEditPersonApplies(t *testing.T) {
	svc, appState, _ := newTestService(&fakeRemote{})
	seedContact(appState, baseContact())

	updated := baseContact()
	updated.KeyPerson = "Renamed Person"

	require.NoError(t, svc.EditPerson(context.Background(), updated))
	assert.Equal(t, "Renamed Person", appState.Snapshot().Contacts[0].KeyPerson)
}

func TestEditCompanyFansOut(t *testing.T) {
	first := baseContact()
	second := baseContact()
	second.ID = 43
	second.ContactRow = 43
	second.KeyPerson = "John Roe"

	var sent models.Contact
	svc, appState, _ := newTestService(&fakeRemote{
		updateContactFn: func(ctx context.Context, contact models.Contact) error {
			sent = contact
			return nil
		},
	})
	seedContact(appState, first, second)

	company := models.CompanyFields{Company: "Acme Renamed", SalesPerson: "Ravi", Country: "India"}
	require.NoError(t, svc.EditCompany(context.Background(), "L-042", company))

	snap := appState.Snapshot()
	assert.Equal(t, "Acme Renamed", snap.Contacts[0].Company)
	assert.Equal(t, "Acme Renamed", snap.Contacts[1].Company)
	// Person fields survive the fan-out.
	assert.Equal(t, "Jane Doe", snap.Contacts[0].KeyPerson)
	assert.Equal(t, "John Roe", snap.Contacts[1].KeyPerson)
	// The store takes one update keyed on the first row of the lead.
	assert.Equal(t, int64(42), sent.ID)
	assert.Equal(t, "Acme Renamed", sent.Company)
}

func TestEditCompanyUnknownLead(t *testing.T) {
	svc, appState, _ := newTestService(&fakeRemote{})
	seedContact(appState, baseContact())

	err := svc.EditCompany(context.Background(), "L-999", models.CompanyFields{})
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestChangeStatusJointRollback(t *testing.T) {
	// The contact update succeeds but the log append fails. Both writes
	// form one logical mutation, so the status change is rolled back too.
	boom := errors.New("append failed")
	svc, appState, _ := newTestService(&fakeRemote{
		appendLogFn: func(ctx context.Context, entry models.FollowUpLog, opts remote.AppendLogOptions) (models.FollowUpLog, error) {
			return models.FollowUpLog{}, boom
		},
	})
	seedContact(appState, baseContact())

	err := svc.ChangeStatus(context.Background(), 42, "Hot")
	require.ErrorIs(t, err, boom)

	snap := appState.Snapshot()
	assert.Equal(t, "Warm", snap.Contacts[0].Status)
	assert.Empty(t, snap.FollowUpLogs)
}

func TestChangeStatusApplies(t *testing.T) {
	svc, appState, _ := newTestService(&fakeRemote{})
	seedContact(appState, baseContact())

	require.NoError(t, svc.ChangeStatus(context.Background(), 42, "Hot"))

	snap := appState.Snapshot()
	assert.Equal(t, "Hot", snap.Contacts[0].Status)
	require.Len(t, snap.FollowUpLogs, 1)
	assert.Equal(t, models.ActionStatusChanged, snap.FollowUpLogs[0].Action)
	assert.Equal(t, "Status set to Hot", snap.FollowUpLogs[0].Details)
}

func TestSaveFollowUpMovesDateAndLogs(t *testing.T) {
	var gotOpts remote.AppendLogOptions
	svc, appState, _ := newTestService(&fakeRemote{
		appendLogFn: func(ctx context.Context, entry models.FollowUpLog, opts remote.AppendLogOptions) (models.FollowUpLog, error) {
			gotOpts = opts
			return entry, nil
		},
	})
	seedContact(appState, baseContact())

	err := svc.SaveFollowUp(context.Background(), 42, "Call", "Quick Action: Call", FollowUpInput{
		Remarks:          "Spoke to Jane",
		NextFollowUpDate: "2026-03-20",
	})
	require.NoError(t, err)

	snap := appState.Snapshot()
	assert.Equal(t, "2026-03-20", snap.Contacts[0].NextFollowUpDate)
	assert.Equal(t, "Warm", snap.Contacts[0].Status)
	require.Len(t, snap.FollowUpLogs, 1)
	assert.Equal(t, "Call", snap.FollowUpLogs[0].Action)
	assert.Equal(t, "Spoke to Jane", snap.FollowUpLogs[0].Remarks)
	assert.Equal(t, "2026-03-20", gotOpts.NextFollowUpDate)
}

func TestSaveFollowUpTerminalActionClosesStatus(t *testing.T) {
	svc, appState, _ := newTestService(&fakeRemote{})
	seedContact(appState, baseContact())

	err := svc.SaveFollowUp(context.Background(), 42, "Not Interested", "Quick Action: Not Interested", FollowUpInput{})
	require.NoError(t, err)
	assert.Equal(t, "Not Interested", appState.Snapshot().Contacts[0].Status)
}

func TestSaveFollowUpTemplateRemarks(t *testing.T) {
	svc, appState, _ := newTestService(&fakeRemote{})
	seedContact(appState, baseContact())

	err := svc.SaveFollowUp(context.Background(), 42, "Intro Email", "Quick Action: Intro Email", FollowUpInput{
		Remarks:    "Template one body",
		TemplateID: "tEMP1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Template one body", appState.Snapshot().Contacts[0].Temp1)
}

func TestSaveFollowUpJointRollback(t *testing.T) {
	boom := errors.New("update failed")
	svc, appState, _ := newTestService(&fakeRemote{
		updateContactFn: func(ctx context.Context, contact models.Contact) error {
			return boom
		},
	})
	seedContact(appState, baseContact())

	err := svc.SaveFollowUp(context.Background(), 42, "Call", "details", FollowUpInput{
		NextFollowUpDate: "2026-03-20",
	})
	require.ErrorIs(t, err, boom)

	snap := appState.Snapshot()
	assert.Empty(t, snap.Contacts[0].NextFollowUpDate)
	assert.Empty(t, snap.FollowUpLogs)
}

func TestSaveFollowUpInternAttribution(t *testing.T) {
	var sent models.FollowUpLog
	svc, appState, _ := newTestService(&fakeRemote{
		appendLogFn: func(ctx context.Context, entry models.FollowUpLog, opts remote.AppendLogOptions) (models.FollowUpLog, error) {
			sent = entry
			return entry, nil
		},
	})
	appState.SetSession("Asha", models.RoleIntern)
	seedContact(appState, baseContact())

	err := svc.SaveFollowUp(context.Background(), 42, "Call", "details", FollowUpInput{Remarks: "Left a voicemail"})
	require.NoError(t, err)

	// Interns act on behalf of the owning salesperson but are tagged in
	// the remarks, and the tag strips cleanly for display.
	assert.Equal(t, "Ravi", sent.SalesPerson)
	assert.True(t, strings.HasSuffix(sent.Remarks, models.InternTag("Asha")))
	assert.Equal(t, "Left a voicemail", models.CleanRemarks(sent.Remarks))
}

func TestLogSocialClickRollsBackLogsOnly(t *testing.T) {
	boom := errors.New("append failed")
	svc, appState, _ := newTestService(&fakeRemote{
		appendLogFn: func(ctx context.Context, entry models.FollowUpLog, opts remote.AppendLogOptions) (models.FollowUpLog, error) {
			return models.FollowUpLog{}, boom
		},
	})
	seedContact(appState, baseContact())

	err := svc.LogSocialClick(context.Background(), 42, "LinkedIn", "Visited company page")
	require.ErrorIs(t, err, boom)

	snap := appState.Snapshot()
	assert.Empty(t, snap.FollowUpLogs)
	require.Len(t, snap.Contacts, 1)
}

func TestDeletePersonRollsBack(t *testing.T) {
	boom := errors.New("delete failed")
	var gotRow int
	svc, appState, _ := newTestService(&fakeRemote{
		deletePersonFn: func(ctx context.Context, contactRow int) error {
			gotRow = contactRow
			return boom
		},
	})
	seedContact(appState, baseContact())

	err := svc.DeletePerson(context.Background(), 42)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 42, gotRow)
	require.Len(t, appState.Snapshot().Contacts, 1)
}

func TestDeletePersonApplies(t *testing.T) {
	svc, appState, _ := newTestService(&fakeRemote{})
	first := baseContact()
	second := baseContact()
	second.ID = 43
	seedContact(appState, first, second)

	require.NoError(t, svc.DeletePerson(context.Background(), 42))

	snap := appState.Snapshot()
	require.Len(t, snap.Contacts, 1)
	assert.Equal(t, int64(43), snap.Contacts[0].ID)
}
