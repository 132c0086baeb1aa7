package contact

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/S-Stepanov-1/contacts-api/internal/domain"
)

// fakeContactStore is an in-memory contactStore.
type fakeContactStore struct {
	mu       sync.Mutex
	contacts map[string]*domain.Contact
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{contacts: map[string]*domain.Contact{}}
}

func (f *fakeContactStore) Put(_ context.Context, c *domain.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.contacts[c.ContactID] = &cp
	return nil
}

func (f *fakeContactStore) Get(_ context.Context, contactID string) (*domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[contactID]
	if !ok {
		return nil, fmt.Errorf("contact: %w", domain.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContactStore) ListByUser(_ context.Context, userID string) ([]domain.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Contact
	for _, c := range f.contacts {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeContactStore) Update(_ context.Context, contactID string, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[contactID]
	if !ok {
		return fmt.Errorf("contact: %w", domain.ErrNotFound)
	}
	for k, v := range updates {
		switch k {
		case "first_name":
			c.FirstName = v.(string)
		case "last_name":
			c.LastName = v.(string)
		case "email":
			c.Email = v.(string)
		case "phone_number":
			c.PhoneNumber = v.(string)
		case "position":
			c.Position = v.(string)
		case "birthday":
			c.Birthday = v.(*time.Time)
		}
	}
	return nil
}

func (f *fakeContactStore) Delete(_ context.Context, contactID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.contacts, contactID)
	return nil
}

func newTestService(store *fakeContactStore, now time.Time) *service {
	return &service{repo: store, now: func() time.Time { return now }}
}

func mustCreate(t *testing.T, svc Service, userID string, req domain.CreateContactRequest) *domain.Contact {
	t.Helper()
	c, err := svc.Create(context.Background(), userID, req)
	require.NoError(t, err)
	return c
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestCreate_And_Get(t *testing.T) {
	svc := newTestService(newFakeContactStore(), fixedNow)

	c := mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+380501112233",
		Birthday:    "1990-12-10",
	})
	require.NotEmpty(t, c.ContactID)
	require.NotNil(t, c.Birthday)
	assert.Equal(t, time.December, c.Birthday.Month())

	got, err := svc.Get(context.Background(), "user-1", c.ContactID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
}

func TestCreate_DuplicateEmail_Conflict(t *testing.T) {
	svc := newTestService(newFakeContactStore(), fixedNow)

	mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", PhoneNumber: "+380501112233",
	})
	_, err := svc.Create(context.Background(), "user-1", domain.CreateContactRequest{
		FirstName: "Other", LastName: "Person",
		Email: "ada@example.com", PhoneNumber: "+380509998877",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_DuplicatePhone_Conflict(t *testing.T) {
	svc := newTestService(newFakeContactStore(), fixedNow)

	mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", PhoneNumber: "+380501112233",
	})
	_, err := svc.Create(context.Background(), "user-1", domain.CreateContactRequest{
		FirstName: "Other", LastName: "Person",
		Email: "other@example.com", PhoneNumber: "+380501112233",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_DuplicateAcrossUsers_Allowed(t *testing.T) {
	svc := newTestService(newFakeContactStore(), fixedNow)

	mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", PhoneNumber: "+380501112233",
	})
	_, err := svc.Create(context.Background(), "user-2", domain.CreateContactRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", PhoneNumber: "+380501112233",
	})
	assert.NoError(t, err)
}

func TestCreate_BadBirthday(t *testing.T) {
	svc := newTestService(newFakeContactStore(), fixedNow)

	_, err := svc.Create(context.Background(), "user-1", domain.CreateContactRequest{
		FirstName: "Ada", LastName: "Lovelace",
		PhoneNumber: "+380501112233", Birthday: "10-12-1990",
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = svc.Create(context.Background(), "user-1", domain.CreateContactRequest{
		FirstName: "Ada", LastName: "Lovelace",
		PhoneNumber: "+380501112233", Birthday: "2030-01-01",
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestGet_OtherUsersContact_NotFound(t *testing.T) {
	svc := newTestService(newFakeContactStore(), fixedNow)

	c := mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Ada", LastName: "Lovelace", PhoneNumber: "+380501112233",
	})

	_, err := svc.Get(context.Background(), "user-2", c.ContactID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(context.Background(), "user-2", c.ContactID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The contact is still there for its owner.
	_, err = svc.Get(context.Background(), "user-1", c.ContactID)
	assert.NoError(t, err)
}

func TestList_SearchAndPaging(t *testing.T) {
	svc := newTestService(newFakeContactStore(), fixedNow)

	names := []struct{ first, last, email, phone string }{
		{"Ada", "Lovelace", "ada@example.com", "+380501"},
		{"Alan", "Turing", "alan@example.com", "+380502"},
		{"Grace", "Hopper", "grace@example.com", "+380503"},
	}
	for _, n := range names {
		mustCreate(t, svc, "user-1", domain.CreateContactRequest{
			FirstName: n.first, LastName: n.last, Email: n.email, PhoneNumber: n.phone,
		})
	}

	all, err := svc.List(context.Background(), "user-1", "", 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Case-insensitive match on first name, last name or email.
	found, err := svc.List(context.Background(), "user-1", "LOVELACE", 0, 100)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ada", found[0].FirstName)

	found, err = svc.List(context.Background(), "user-1", "grace@", 0, 100)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	paged, err := svc.List(context.Background(), "user-1", "", 1, 1)
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	past, err := svc.List(context.Background(), "user-1", "", 10, 100)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestPatch_PartialUpdate(t *testing.T) {
	svc := newTestService(newFakeContactStore(), fixedNow)

	c := mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", PhoneNumber: "+380501112233", Position: "engineer",
	})

	newEmail := "ada.l@example.com"
	got, err := svc.Patch(context.Background(), "user-1", c.ContactID, domain.UpdateContactRequest{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, newEmail, got.Email)
	assert.Equal(t, "engineer", got.Position)
	assert.Equal(t, "+380501112233", got.PhoneNumber)
}

func TestUpdate_FullOverwrite(t *testing.T) {
	svc := newTestService(newFakeContactStore(), fixedNow)

	c := mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", PhoneNumber: "+380501112233",
		Birthday: "1990-12-10", Position: "engineer",
	})

	// PUT replaces every field; omitted birthday and position are cleared.
	got, err := svc.Update(context.Background(), "user-1", c.ContactID, domain.CreateContactRequest{
		FirstName: "Ada", LastName: "King",
		Email: "ada@example.com", PhoneNumber: "+380501112233",
	})
	require.NoError(t, err)
	assert.Equal(t, "King", got.LastName)
	assert.Nil(t, got.Birthday)
	assert.Empty(t, got.Position)
}

func TestUpcomingBirthdays(t *testing.T) {
	// June 15th: birthdays on the 16th-22nd are upcoming, the 15th and the
	// 23rd are not.
	svc := newTestService(newFakeContactStore(), fixedNow)

	mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Today", LastName: "X", PhoneNumber: "+1", Birthday: "1990-06-15",
	})
	mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Soon", LastName: "X", PhoneNumber: "+2", Birthday: "1985-06-20",
	})
	mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Edge", LastName: "X", PhoneNumber: "+3", Birthday: "1992-06-22",
	})
	mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Late", LastName: "X", PhoneNumber: "+4", Birthday: "1992-06-23",
	})

	upcoming, err := svc.UpcomingBirthdays(context.Background(), "user-1", 7)
	require.NoError(t, err)
	got := map[string]bool{}
	for _, c := range upcoming {
		got[c.FirstName] = true
	}
	assert.Equal(t, map[string]bool{"Soon": true, "Edge": true}, got)
}

func TestUpcomingBirthdays_YearWrap(t *testing.T) {
	// December 29th: a January 3rd birthday falls within the next 7 days even
	// though its month precedes the current one.
	svc := newTestService(newFakeContactStore(), time.Date(2024, 12, 29, 9, 0, 0, 0, time.UTC))

	mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "NewYear", LastName: "X", PhoneNumber: "+1", Birthday: "1991-01-03",
	})
	mustCreate(t, svc, "user-1", domain.CreateContactRequest{
		FirstName: "Spring", LastName: "X", PhoneNumber: "+2", Birthday: "1991-04-01",
	})

	upcoming, err := svc.UpcomingBirthdays(context.Background(), "user-1", 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "NewYear", upcoming[0].FirstName)
}
