package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"go-pipeline/internal/features/sync"
	"go-pipeline/internal/models"
	"go-pipeline/internal/remote"
	"go-pipeline/internal/state"

	"go.uber.org/zap"
)

var (
	ErrNotLoggedIn     = errors.New("mutation: no active session")
	ErrContactNotFound = errors.New("mutation: contact not found")
	ErrLeadNotFound    = errors.New("mutation: lead not found")
)

// MutationService coordinates every write: capture the pre-mutation
// snapshot, apply the change locally first, confirm against the record
// store, and restore the pre-image on any remote failure. Mutations are
// serialized so two of them can never interleave between apply and confirm.
type MutationService interface {
	CreateLead(ctx context.Context, draft models.LeadDraft) (string, error)
	AddPerson(ctx context.Context, contactID int64, person models.PersonFields) error
	EditPerson(ctx context.Context, updated models.Contact) error
	EditCompany(ctx context.Context, leadNo string, company models.CompanyFields) error
	ChangeStatus(ctx context.Context, contactID int64, newStatus string) error
	SaveFollowUp(ctx context.Context, contactID int64, action, details string, input FollowUpInput) error
	LogSocialClick(ctx context.Context, contactID int64, action, details string) error
	DeletePerson(ctx context.Context, contactID int64) error
}

type MutationServiceImpl struct {
	State  *state.AppState
	Remote remote.Client
	Sync   sync.SyncService
	Logger *zap.Logger

	mu gosync.Mutex
}

func NewMutationService(appState *state.AppState, client remote.Client, syncService sync.SyncService, logger *zap.Logger) MutationService {
	return &MutationServiceImpl{
		State:  appState,
		Remote: client,
		Sync:   syncService,
		Logger: logger,
	}
}

// CreateLead synthesizes the new rows locally only after the store hands
// back a lead number: if the create call fails there is nothing to roll
// back. The "Lead Created" log entry is applied locally before its append is
// confirmed, like every other log write.
func (s *MutationServiceImpl) CreateLead(ctx context.Context, draft models.LeadDraft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.State.Session()
	if !ok {
		return "", ErrNotLoggedIn
	}
	if len(draft.Persons) == 0 {
		return "", fmt.Errorf("mutation: a lead needs at least one person")
	}

	leadNo, err := s.Remote.CreateLead(ctx, draft)
	if err != nil {
		return "", err
	}

	pre := s.State.Snapshot()
	now := time.Now()

	contacts := pre.Contacts
	for i, person := range draft.Persons {
		row := models.Contact{
			ID:           -(now.UnixMilli() + int64(i)),
			LeadNo:       leadNo,
			KeyPerson:    person.KeyPerson,
			Designation:  person.Designation,
			Number:       person.Number,
			Email:        person.Email,
			Verification: "Not verified",
		}
		row.PersonLinkedinPage = person.PersonLinkedinPage
		row.ApplyCompany(draft.Company)
		contacts = append(contacts, row)
	}
	s.State.SetContacts(contacts)

	creationLog := models.FollowUpLog{
		LeadNo:      leadNo,
		Company:     draft.Company.Company,
		KeyPerson:   draft.Persons[0].KeyPerson,
		SalesPerson: actingSalesPerson(session, draft.Company.SalesPerson),
		Timestamp:   now.UTC(),
		Action:      models.ActionLeadCreated,
		Details:     "New lead added to the system.",
		Remarks:     systemRemarks(session, "System auto-log"),
	}
	s.State.SetLogs(append(pre.FollowUpLogs, creationLog))

	if _, err := s.Remote.AppendLog(ctx, creationLog, remote.AppendLogOptions{}); err != nil {
		s.State.SetContacts(pre.Contacts)
		s.State.SetLogs(pre.FollowUpLogs)
		return "", err
	}
	return leadNo, nil
}

// AddPerson deliberately skips the optimistic apply: the new row's identity
// is assigned by the store, so after the create confirms we reload the
// authoritative snapshot instead of guessing.
func (s *MutationServiceImpl) AddPerson(ctx context.Context, contactID int64, person models.PersonFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.State.Session(); !ok {
		return ErrNotLoggedIn
	}

	reference, ok := findContact(s.State.Snapshot().Contacts, contactID)
	if !ok {
		return ErrContactNotFound
	}

	if err := s.Remote.CreatePerson(ctx, reference.LeadNo, reference.Company, person); err != nil {
		return err
	}

	_, err := s.Sync.Load(ctx, false)
	return err
}

func (s *MutationServiceImpl) EditPerson(ctx context.Context, updated models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.State.Session(); !ok {
		return ErrNotLoggedIn
	}

	pre := s.State.Snapshot()
	contacts := make([]models.Contact, len(pre.Contacts))
	copy(contacts, pre.Contacts)

	found := false
	for i := range contacts {
		if contacts[i].ID == updated.ID {
			contacts[i] = updated
			found = true
			break
		}
	}
	if !found {
		return ErrContactNotFound
	}

	s.State.SetContacts(contacts)
	if err := s.Remote.UpdateContact(ctx, updated); err != nil {
		s.State.SetContacts(pre.Contacts)
		return err
	}
	return nil
}

// EditCompany fans the new company fields out to every row of the lead. The
// store takes a single update call keyed on the reference row.
func (s *MutationServiceImpl) EditCompany(ctx context.Context, leadNo string, company models.CompanyFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.State.Session(); !ok {
		return ErrNotLoggedIn
	}

	pre := s.State.Snapshot()
	contacts := make([]models.Contact, len(pre.Contacts))
	copy(contacts, pre.Contacts)

	var reference *models.Contact
	for i := range contacts {
		if contacts[i].LeadNo == leadNo {
			contacts[i].ApplyCompany(company)
			if reference == nil {
				reference = &contacts[i]
			}
		}
	}
	if reference == nil {
		return ErrLeadNotFound
	}

	s.State.SetContacts(contacts)
	if err := s.Remote.UpdateContact(ctx, *reference); err != nil {
		s.State.SetContacts(pre.Contacts)
		return err
	}
	return nil
}

// ChangeStatus pairs a contact update with a log append. Both remote calls
// run concurrently and both must succeed; the first failure rolls back
// contacts and logs together, which is why both arrays are snapshotted up
// front.
func (s *MutationServiceImpl) ChangeStatus(ctx context.Context, contactID int64, newStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.State.Session()
	if !ok {
		return ErrNotLoggedIn
	}

	pre := s.State.Snapshot()
	contacts := make([]models.Contact, len(pre.Contacts))
	copy(contacts, pre.Contacts)

	idx := indexOfContact(contacts, contactID)
	if idx < 0 {
		return ErrContactNotFound
	}
	contact := contacts[idx]
	contacts[idx].Status = newStatus
	updated := contacts[idx]

	entry := models.FollowUpLog{
		LeadNo:        contact.LeadNo,
		Company:       contact.Company,
		KeyPerson:     contact.KeyPerson,
		ContactNumber: contact.Number,
		SalesPerson:   actingSalesPerson(session, contact.SalesPerson),
		Timestamp:     time.Now().UTC(),
		Action:        models.ActionStatusChanged,
		Details:       "Status set to " + newStatus,
		Remarks:       systemRemarks(session, "System auto-log"),
	}

	s.State.SetContacts(contacts)
	s.State.SetLogs(append(pre.FollowUpLogs, entry))

	err := runConcurrently(
		func() error { return s.Remote.UpdateContact(ctx, updated) },
		func() error {
			_, err := s.Remote.AppendLog(ctx, entry, remote.AppendLogOptions{})
			return err
		},
	)
	if err != nil {
		s.State.SetContacts(pre.Contacts)
		s.State.SetLogs(pre.FollowUpLogs)
		return err
	}
	return nil
}

// SaveFollowUp handles quick actions and logged follow-ups: the contact's
// next follow-up date moves, terminal actions also close out its status, and
// the action lands in the log. Same joint-rollback pairing as ChangeStatus.
func (s *MutationServiceImpl) SaveFollowUp(ctx context.Context, contactID int64, action, details string, input FollowUpInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.State.Session()
	if !ok {
		return ErrNotLoggedIn
	}

	pre := s.State.Snapshot()
	contacts := make([]models.Contact, len(pre.Contacts))
	copy(contacts, pre.Contacts)

	idx := indexOfContact(contacts, contactID)
	if idx < 0 {
		return ErrContactNotFound
	}
	contact := contacts[idx]

	updated := contact
	updated.NextFollowUpDate = input.NextFollowUpDate
	switch input.TemplateID {
	case "tEMP1":
		updated.Temp1 = input.Remarks
	case "tEMP2":
		updated.Temp2 = input.Remarks
	}
	if models.IsTerminalAction(action) {
		updated.Status = action
	}
	contacts[idx] = updated

	entry := models.FollowUpLog{
		LeadNo:        contact.LeadNo,
		Company:       contact.Company,
		KeyPerson:     contact.KeyPerson,
		ContactNumber: contact.Number,
		SalesPerson:   actingSalesPerson(session, contact.SalesPerson),
		Timestamp:     time.Now().UTC(),
		Action:        action,
		Details:       details,
		Remarks:       taggedRemarks(session, input.Remarks),
	}

	s.State.SetContacts(contacts)
	s.State.SetLogs(append(pre.FollowUpLogs, entry))

	err := runConcurrently(
		func() error {
			_, err := s.Remote.AppendLog(ctx, entry, remote.AppendLogOptions{
				NextFollowUpDate: input.NextFollowUpDate,
				ProofFile:        input.ProofFile,
			})
			return err
		},
		func() error { return s.Remote.UpdateContact(ctx, updated) },
	)
	if err != nil {
		s.State.SetContacts(pre.Contacts)
		s.State.SetLogs(pre.FollowUpLogs)
		return err
	}
	return nil
}

// LogSocialClick appends a log entry for a social-channel click. Contacts
// are untouched, so only the log array is snapshotted and rolled back.
func (s *MutationServiceImpl) LogSocialClick(ctx context.Context, contactID int64, action, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.State.Session()
	if !ok {
		return ErrNotLoggedIn
	}

	pre := s.State.Snapshot()
	contact, ok := findContact(pre.Contacts, contactID)
	if !ok {
		return ErrContactNotFound
	}

	entry := models.FollowUpLog{
		LeadNo:        contact.LeadNo,
		Company:       contact.Company,
		KeyPerson:     contact.KeyPerson,
		ContactNumber: contact.Number,
		SalesPerson:   actingSalesPerson(session, contact.SalesPerson),
		Timestamp:     time.Now().UTC(),
		Action:        action,
		Details:       details,
		Remarks:       systemRemarks(session, "Clicked from social links"),
	}
	s.State.SetLogs(append(pre.FollowUpLogs, entry))

	if _, err := s.Remote.AppendLog(ctx, entry, remote.AppendLogOptions{}); err != nil {
		s.State.SetLogs(pre.FollowUpLogs)
		return err
	}
	return nil
}

func (s *MutationServiceImpl) DeletePerson(ctx context.Context, contactID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.State.Session(); !ok {
		return ErrNotLoggedIn
	}

	pre := s.State.Snapshot()
	contact, ok := findContact(pre.Contacts, contactID)
	if !ok {
		return ErrContactNotFound
	}

	filtered := make([]models.Contact, 0, len(pre.Contacts)-1)
	for _, c := range pre.Contacts {
		if c.ID != contactID {
			filtered = append(filtered, c)
		}
	}
	s.State.SetContacts(filtered)

	if err := s.Remote.DeletePerson(ctx, contact.ContactRow); err != nil {
		s.State.SetContacts(pre.Contacts)
		return err
	}
	return nil
}

// actingSalesPerson attributes the action: interns act on behalf of the
// lead's owning salesperson, everyone else acts as themselves.
func actingSalesPerson(session state.Session, owner string) string {
	if session.Role == models.RoleIntern {
		return owner
	}
	return session.User
}

// systemRemarks prefixes system-generated remark text with the intern tag
// when an intern is acting.
func systemRemarks(session state.Session, base string) string {
	if session.Role == models.RoleIntern {
		return models.InternTag(session.User) + " " + base
	}
	return base
}

// taggedRemarks appends the intern tag to user-entered remarks.
func taggedRemarks(session state.Session, remarks string) string {
	if session.Role != models.RoleIntern {
		return remarks
	}
	tag := models.InternTag(session.User)
	if strings.TrimSpace(remarks) == "" {
		return tag
	}
	return remarks + " " + tag
}

func findContact(contacts []models.Contact, id int64) (models.Contact, bool) {
	if idx := indexOfContact(contacts, id); idx >= 0 {
		return contacts[idx], true
	}
	return models.Contact{}, false
}

func indexOfContact(contacts []models.Contact, id int64) int {
	for i := range contacts {
		if contacts[i].ID == id {
			return i
		}
	}
	return -1
}

// runConcurrently issues the calls together and waits for all of them. The
// first error wins, but rollback must not start until every call has
// resolved, hence the full drain.
func runConcurrently(calls ...func() error) error {
	errs := make(chan error, len(calls))
	for _, call := range calls {
		go func(f func() error) { errs <- f() }(call)
	}
	var first error
	for range calls {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}
