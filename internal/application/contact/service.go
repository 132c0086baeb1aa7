package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/S-Stepanov-1/contacts-api/internal/domain"
	"github.com/S-Stepanov-1/contacts-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateContactRequest) (*domain.Contact, error)
	List(ctx context.Context, userID, query string, skip, limit int) ([]domain.Contact, error)
	Get(ctx context.Context, userID, contactID string) (*domain.Contact, error)
	Update(ctx context.Context, userID, contactID string, req domain.CreateContactRequest) (*domain.Contact, error)
	Patch(ctx context.Context, userID, contactID string, req domain.UpdateContactRequest) (*domain.Contact, error)
	Delete(ctx context.Context, userID, contactID string) error
	UpcomingBirthdays(ctx context.Context, userID string, days int) ([]domain.Contact, error)
}

type contactStore interface {
	Put(ctx context.Context, c *domain.Contact) error
	Get(ctx context.Context, contactID string) (*domain.Contact, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Contact, error)
	Update(ctx context.Context, contactID string, updates map[string]interface{}) error
	Delete(ctx context.Context, contactID string) error
}

type service struct {
	repo contactStore
	now  func() time.Time
}

func NewService(repo contactStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateContactRequest) (*domain.Contact, error) {
	birthday, err := parseBirthday(req.Birthday, s.now())
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if req.Email != "" && existing[i].Email == req.Email {
			return nil, fmt.Errorf("contact email already exists: %w", domain.ErrConflict)
		}
		if existing[i].PhoneNumber == req.PhoneNumber {
			return nil, fmt.Errorf("contact phone number already exists: %w", domain.ErrConflict)
		}
	}
	now := s.now().UTC()
	c := &domain.Contact{
		ContactID:   id.New(),
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthday:    birthday,
		Position:    req.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the user's contacts, optionally filtered by a case-insensitive
// substring match on first name, last name or email, paged by skip/limit.
func (s *service) List(ctx context.Context, userID, query string, skip, limit int) ([]domain.Contact, error) {
	contacts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if query != "" {
		q := strings.ToLower(query)
		filtered := contacts[:0]
		for _, c := range contacts {
			if strings.Contains(strings.ToLower(c.FirstName), q) ||
				strings.Contains(strings.ToLower(c.LastName), q) ||
				strings.Contains(strings.ToLower(c.Email), q) {
				filtered = append(filtered, c)
			}
		}
		contacts = filtered
	}
	return page(contacts, skip, limit), nil
}

func (s *service) Get(ctx context.Context, userID, contactID string) (*domain.Contact, error) {
	return s.owned(ctx, userID, contactID)
}

func (s *service) Update(ctx context.Context, userID, contactID string, req domain.CreateContactRequest) (*domain.Contact, error) {
	if _, err := s.owned(ctx, userID, contactID); err != nil {
		return nil, err
	}
	birthday, err := parseBirthday(req.Birthday, s.now())
	if err != nil {
		return nil, err
	}
	// Full overwrite: an omitted birthday clears the stored one.
	updates := map[string]interface{}{
		"first_name":   req.FirstName,
		"last_name":    req.LastName,
		"email":        req.Email,
		"phone_number": req.PhoneNumber,
		"position":     req.Position,
		"birthday":     birthday,
	}
	if err := s.repo.Update(ctx, contactID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, contactID)
}

func (s *service) Patch(ctx context.Context, userID, contactID string, req domain.UpdateContactRequest) (*domain.Contact, error) {
	if _, err := s.owned(ctx, userID, contactID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, contactID)
	}
	if err := s.repo.Update(ctx, contactID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, contactID)
}

func (s *service) Delete(ctx context.Context, userID, contactID string) error {
	if _, err := s.owned(ctx, userID, contactID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, contactID)
}

// UpcomingBirthdays returns contacts whose birthday falls within the next
// `days` days, handling the year wrap (a December birthday queried in late
// December still matches its January occurrence).
func (s *service) UpcomingBirthdays(ctx context.Context, userID string, days int) ([]domain.Contact, error) {
	contacts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	end := today.AddDate(0, 0, days)

	var upcoming []domain.Contact
	for _, c := range contacts {
		if c.Birthday == nil {
			continue
		}
		for _, year := range []int{today.Year(), today.Year() + 1} {
			occurrence := time.Date(year, c.Birthday.Month(), c.Birthday.Day(), 0, 0, 0, 0, time.UTC)
			if occurrence.After(today) && !occurrence.After(end) {
				upcoming = append(upcoming, c)
				break
			}
		}
	}
	return upcoming, nil
}

func (s *service) owned(ctx context.Context, userID, contactID string) (*domain.Contact, error) {
	c, err := s.repo.Get(ctx, contactID)
	if err != nil {
		return nil, err
	}
	// A contact belonging to another user is reported as absent, not forbidden.
	if c.UserID != userID {
		return nil, fmt.Errorf("contact not found: %w", domain.ErrNotFound)
	}
	return c, nil
}

func parseBirthday(value string, now time.Time) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("birthday must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	if t.After(now) {
		return nil, fmt.Errorf("birthday must be in the past: %w", domain.ErrBadRequest)
	}
	return &t, nil
}

func page(contacts []domain.Contact, skip, limit int) []domain.Contact {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(contacts) {
		return []domain.Contact{}
	}
	contacts = contacts[skip:]
	if limit > 0 && limit < len(contacts) {
		contacts = contacts[:limit]
	}
	return contacts
}
