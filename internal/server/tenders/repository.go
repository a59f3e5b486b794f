package tenders

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Tender, error)
	Get(ctx context.Context, id string) (*Tender, error)
	Create(ctx context.Context, tender *Tender) (*Tender, error)
	UpdateStatus(ctx context.Context, id string, status, notes string) error

	AddFavorite(ctx context.Context, userID, tenderID string) error
	RemoveFavorite(ctx context.Context, userID, tenderID string) error
	ListFavorites(ctx context.Context, userID string) ([]Tender, error)

	CreateShare(ctx context.Context, share *Share) (*Share, error)
	// ListShares returns shares the user sent plus shares addressed to
	// their email.
	ListShares(ctx context.Context, userID, email string) ([]Share, error)
}
