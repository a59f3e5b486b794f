package tenders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grovellows/tendertrack/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	tenders   map[string]*Tender
	favorites map[string]map[string]bool // userID -> tenderID
	shares    []Share
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tenders:   map[string]*Tender{},
		favorites: map[string]map[string]bool{},
	}
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]Tender, error) {
	var out []Tender
	for _, t := range f.tenders {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*Tender, error) {
	t, ok := f.tenders[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *t
	return &out, nil
}

func (f *fakeRepo) Create(_ context.Context, tender *Tender) (*Tender, error) {
	f.nextID++
	t := *tender
	t.ID = fmt.Sprintf("t-%d", f.nextID)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.tenders[t.ID] = &t
	out := t
	return &out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status, notes string) error {
	t, ok := f.tenders[id]
	if !ok {
		return common.ErrorNotFound
	}
	t.Status = status
	t.Notes = notes
	t.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) AddFavorite(_ context.Context, userID, tenderID string) error {
	if f.favorites[userID] == nil {
		f.favorites[userID] = map[string]bool{}
	}
	f.favorites[userID][tenderID] = true
	return nil
}

func (f *fakeRepo) RemoveFavorite(_ context.Context, userID, tenderID string) error {
	delete(f.favorites[userID], tenderID)
	return nil
}

func (f *fakeRepo) ListFavorites(_ context.Context, userID string) ([]Tender, error) {
	var out []Tender
	for id := range f.favorites[userID] {
		out = append(out, *f.tenders[id])
	}
	return out, nil
}

func (f *fakeRepo) CreateShare(_ context.Context, share *Share) (*Share, error) {
	s := *share
	s.ID = fmt.Sprintf("s-%d", len(f.shares)+1)
	s.CreatedAt = time.Now()
	f.shares = append(f.shares, s)
	out := s
	return &out, nil
}

func (f *fakeRepo) ListShares(_ context.Context, userID, email string) ([]Share, error) {
	var out []Share
	for _, s := range f.shares {
		if s.SharedBy == userID {
			out = append(out, s)
			continue
		}
		for _, w := range s.SharedWith {
			if w == email {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func createTender(t *testing.T, s *Service, title string) *Tender {
	t.Helper()
	created, err := s.Create(context.Background(), &Tender{Title: title})
	require.NoError(t, err)
	return created
}

func TestCreate_DefaultsApplied(t *testing.T) {
	s := NewService(newFakeRepo())

	created := createTender(t, s, "Bridge renovation")
	assert.Equal(t, StatusNew, created.Status)
	assert.Equal(t, CategoryGeneral, created.Category)
	assert.NotEmpty(t, created.ID)
}

func TestCreate_Invalid(t *testing.T) {
	s := NewService(newFakeRepo())

	_, err := s.Create(context.Background(), &Tender{})
	assert.Error(t, err, "missing title")

	_, err = s.Create(context.Background(), &Tender{Title: "x", Status: "Done"})
	assert.Error(t, err, "unknown status")
}

func TestUpdate(t *testing.T) {
	repo := newFakeRepo()
	s := NewService(repo)
	created := createTender(t, s, "Bridge renovation")

	require.NoError(t, s.Update(context.Background(), created.ID, StatusInProgress, "called the authority"))
	got, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
	assert.Equal(t, "called the authority", got.Notes)

	// empty status keeps the current one
	require.NoError(t, s.Update(context.Background(), created.ID, "", "more notes"))
	got, err = s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)

	assert.Error(t, s.Update(context.Background(), created.ID, "Done", ""))
	assert.ErrorIs(t, s.Update(context.Background(), "missing", StatusClosed, ""), common.ErrorNotFound)
}

func TestFavorites(t *testing.T) {
	repo := newFakeRepo()
	s := NewService(repo)
	created := createTender(t, s, "Bridge renovation")

	assert.ErrorIs(t, s.AddFavorite(context.Background(), "u-1", "missing"), common.ErrorNotFound)

	require.NoError(t, s.AddFavorite(context.Background(), "u-1", created.ID))
	favs, err := s.ListFavorites(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, created.ID, favs[0].ID)

	require.NoError(t, s.RemoveFavorite(context.Background(), "u-1", created.ID))
	favs, err = s.ListFavorites(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestShare(t *testing.T) {
	repo := newFakeRepo()
	s := NewService(repo)
	created := createTender(t, s, "Bridge renovation")

	_, err := s.Share(context.Background(), "u-1", created.ID, []string{"  ", ""}, "look")
	assert.Error(t, err, "no usable recipients")

	_, err = s.Share(context.Background(), "u-1", "missing", []string{"b@x.com"}, "look")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	share, err := s.Share(context.Background(), "u-1", created.ID, []string{"b@x.com", " c@x.com "}, "look at this")
	require.NoError(t, err)
	assert.Equal(t, []string{"b@x.com", "c@x.com"}, share.SharedWith)

	// sender sees it
	shares, err := s.ListShares(context.Background(), "u-1", "a@x.com")
	require.NoError(t, err)
	assert.Len(t, shares, 1)

	// recipient sees it by email
	shares, err = s.ListShares(context.Background(), "u-2", "b@x.com")
	require.NoError(t, err)
	assert.Len(t, shares, 1)

	// stranger does not
	shares, err = s.ListShares(context.Background(), "u-3", "z@x.com")
	require.NoError(t, err)
	assert.Empty(t, shares)
}
