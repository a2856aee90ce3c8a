package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"campusevents/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(date string) func() time.Time {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func hostingKey(eventID, userID string) string {
	return eventID + ":" + userID
}

// mockHostingRepository keeps hosting rows in memory and enforces the same
// check order as the real store: exists, not past, not duplicate, capacity.
type mockHostingRepository struct {
	events          map[string]*domain.EventSummary
	rows            map[string]*domain.Hosting
	userDepartments map[string]string
	err             error
}

func newMockHostingRepository() *mockHostingRepository {
	return &mockHostingRepository{
		events:          map[string]*domain.EventSummary{},
		rows:            map[string]*domain.Hosting{},
		userDepartments: map[string]string{},
	}
}

func (m *mockHostingRepository) Register(ctx context.Context, eventID, userID, today string) (*domain.Hosting, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if ev.Date < today {
		return nil, domain.ErrEventPassed
	}
	if _, ok := m.rows[hostingKey(eventID, userID)]; ok {
		return nil, domain.ErrAlreadyRegistered
	}
	count := 0
	for _, h := range m.rows {
		if h.EventID == eventID {
			count++
		}
	}
	if count >= ev.MaxCapacity {
		return nil, domain.ErrEventFull
	}
	h := domain.NewHosting(eventID, userID, domain.HostingRoleAttendee, time.Now())
	m.rows[hostingKey(eventID, userID)] = h
	return h, nil
}

func (m *mockHostingRepository) Cancel(ctx context.Context, eventID, userID, today string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rows[hostingKey(eventID, userID)]; !ok {
		return domain.ErrNotRegistered
	}
	if ev, ok := m.events[eventID]; ok && ev.Date < today {
		return domain.ErrEventPassed
	}
	delete(m.rows, hostingKey(eventID, userID))
	return nil
}

func (m *mockHostingRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Hosting, error) {
	if m.err != nil {
		return nil, m.err
	}
	h, ok := m.rows[hostingKey(eventID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return h, nil
}

func (m *mockHostingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.UserRegistration, error) {
	if m.err != nil {
		return nil, m.err
	}
	var regs []*domain.UserRegistration
	for _, h := range m.rows {
		if h.UserID != userID {
			continue
		}
		ev := m.events[h.EventID]
		reg := &domain.UserRegistration{
			EventID:      h.EventID,
			Role:         h.Role,
			RegisteredAt: h.CreatedAt,
		}
		if ev != nil {
			reg.Date = ev.Date
			reg.Time = ev.Time
			reg.Department = ev.Department
			reg.Fee = ev.Fee
		}
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].Date != regs[j].Date {
			return regs[i].Date < regs[j].Date
		}
		return regs[i].Time < regs[j].Time
	})
	return regs, nil
}

func (m *mockHostingRepository) ListRoster(ctx context.Context, eventID string) ([]*domain.RosterEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	var roster []*domain.RosterEntry
	for _, h := range m.rows {
		if h.EventID != eventID {
			continue
		}
		roster = append(roster, &domain.RosterEntry{
			UserID:     h.UserID,
			Department: m.userDepartments[h.UserID],
			Role:       h.Role,
		})
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].UserID < roster[j].UserID })
	return roster, nil
}

func (m *mockHostingRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	count := 0
	for _, h := range m.rows {
		if h.EventID == eventID {
			count++
		}
	}
	return count, nil
}

// addRow seeds an existing hosting row without going through Register.
func (m *mockHostingRepository) addRow(eventID, userID, role string) {
	m.rows[hostingKey(eventID, userID)] = domain.NewHosting(eventID, userID, role, time.Now())
}

type mockEventRepository struct {
	events    map[string]*domain.Event
	summaries map[string]*domain.EventSummary
	byCreator map[string][]*domain.EventSummary
	created   []*domain.Event
	err       error
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{
		events:    map[string]*domain.Event{},
		summaries: map[string]*domain.EventSummary{},
		byCreator: map[string][]*domain.EventSummary{},
	}
}

func (m *mockEventRepository) CreateWithCreator(ctx context.Context, event *domain.Event, creatorID string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[event.ID]; ok {
		return domain.ErrDuplicateEvent
	}
	m.events[event.ID] = event
	m.created = append(m.created, event)
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *mockEventRepository) ListUpcoming(ctx context.Context, fromDate string) ([]*domain.EventSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.EventSummary
	for _, sum := range m.summaries {
		if sum.Date >= fromDate {
			out = append(out, sum)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *mockEventRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.EventSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byCreator[userID], nil
}

func (m *mockEventRepository) GetSummary(ctx context.Context, id string) (*domain.EventSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	sum, ok := m.summaries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sum, nil
}

type mockUserRepository struct {
	users map[string]*domain.User
	err   error
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[user.ID]; ok {
		return domain.ErrDuplicateUser
	}
	if m.users == nil {
		m.users = map[string]*domain.User{}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type mockDepartmentRepository struct {
	departments map[string]*domain.Department
	err         error
}

func (m *mockDepartmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.departments[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (m *mockDepartmentRepository) List(ctx context.Context) ([]*domain.Department, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Department
	for _, d := range m.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type mockCredentialRepository struct {
	creds map[string]*domain.Credential
	err   error
}

func (m *mockCredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	if m.err != nil {
		return m.err
	}
	if m.creds == nil {
		m.creds = map[string]*domain.Credential{}
	}
	m.creds[cred.UserID] = cred
	return nil
}

func (m *mockCredentialRepository) GetByUserID(ctx context.Context, userID string) (*domain.Credential, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.creds[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

type mockEmailService struct {
	confirmations []*domain.RegistrationConfirmationEmailData
	eventCreated  []*domain.EventCreatedEmailData
	err           error
}

func (m *mockEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.confirmations = append(m.confirmations, data)
	return nil
}

func (m *mockEmailService) SendEventCreated(ctx context.Context, data *domain.EventCreatedEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.eventCreated = append(m.eventCreated, data)
	return nil
}

type mockHasher struct {
	saltErr error
	hashErr error
}

func (m *mockHasher) GenerateSalt() (string, error) {
	if m.saltErr != nil {
		return "", m.saltErr
	}
	return "salt", nil
}

func (m *mockHasher) Hash(salt, password string) (string, error) {
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "hash:" + salt + ":" + password, nil
}

func (m *mockHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type mockTokenIssuer struct {
	err error
}

func (m *mockTokenIssuer) Issue(userID, accountType string, expiry time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "token:" + userID + ":" + accountType, nil
}
