package tenders

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Tender, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Tender, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, tender *Tender) (*Tender, error) {
	if tender.Title == "" {
		return nil, fmt.Errorf("tender: missing title")
	}
	if tender.Status == "" {
		tender.Status = StatusNew
	}
	if _, ok := knownStatuses[tender.Status]; !ok {
		return nil, fmt.Errorf("tender: unknown status %q", tender.Status)
	}
	if tender.Category == "" {
		tender.Category = CategoryGeneral
	}
	return s.repo.Create(ctx, tender)
}

// Update changes a tender's workflow status and notes. An empty status keeps
// the current one.
func (s *Service) Update(ctx context.Context, id string, status, notes string) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if status == "" {
		status = current.Status
	}
	if _, ok := knownStatuses[status]; !ok {
		return fmt.Errorf("tender: unknown status %q", status)
	}

	return s.repo.UpdateStatus(ctx, id, status, notes)
}

func (s *Service) AddFavorite(ctx context.Context, userID, tenderID string) error {
	if _, err := s.repo.Get(ctx, tenderID); err != nil {
		return err
	}
	return s.repo.AddFavorite(ctx, userID, tenderID)
}

func (s *Service) RemoveFavorite(ctx context.Context, userID, tenderID string) error {
	return s.repo.RemoveFavorite(ctx, userID, tenderID)
}

func (s *Service) ListFavorites(ctx context.Context, userID string) ([]Tender, error) {
	return s.repo.ListFavorites(ctx, userID)
}

// Share records the tender being shared with the given recipients.
func (s *Service) Share(ctx context.Context, userID, tenderID string, sharedWith []string, message string) (*Share, error) {
	if _, err := s.repo.Get(ctx, tenderID); err != nil {
		return nil, err
	}

	var recipients []string
	for _, r := range sharedWith {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("share: no recipients")
	}

	return s.repo.CreateShare(ctx, &Share{
		TenderID:   tenderID,
		SharedBy:   userID,
		SharedWith: recipients,
		Message:    message,
	})
}

func (s *Service) ListShares(ctx context.Context, userID, email string) ([]Share, error) {
	return s.repo.ListShares(ctx, userID, email)
}
