package property

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainproperty "unilodge/internal/domain/property"
	domainuser "unilodge/internal/domain/user"
)

type stubProperties struct {
	byID  map[domainproperty.ID]*domainproperty.Property
	saved []*domainproperty.Property
}

func (s *stubProperties) ByID(_ context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, domainproperty.ErrNotFound
}

func (s *stubProperties) Search(context.Context, domainproperty.SearchParams) ([]*domainproperty.Property, error) {
	return nil, nil
}

func (s *stubProperties) ListByLandlord(context.Context, domainuser.ID) ([]*domainproperty.Property, error) {
	return nil, nil
}

func (s *stubProperties) ListFeatured(context.Context, int) ([]*domainproperty.Property, error) {
	return nil, nil
}

func (s *stubProperties) Save(_ context.Context, p *domainproperty.Property) error {
	s.saved = append(s.saved, p)
	return nil
}

func seedListing(t *testing.T, landlordID string) *domainproperty.Property {
	t.Helper()
	p, err := domainproperty.New(domainproperty.CreateParams{
		ID:             "prop-1",
		LandlordID:     domainuser.ID(landlordID),
		Title:          "Room near campus",
		Type:           domainproperty.TypePG,
		City:           "Delft",
		PricePerMonth:  45000,
		RoomsTotal:     2,
		RoomsAvailable: 1,
	})
	require.NoError(t, err)
	return p
}

func TestUpdateRequiresOwnership(t *testing.T) {
	repo := &stubProperties{byID: map[domainproperty.ID]*domainproperty.Property{
		"prop-1": seedListing(t, "landlord"),
	}}
	svc := &Service{Properties: repo}

	_, err := svc.Update(context.Background(), "prop-1", "someone-else", UpdateParams{
		Title: "Hijacked", Type: "pg", City: "Delft", PricePerMonth: 1, RoomsTotal: 1,
	})
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Empty(t, repo.saved)
}

func TestUpdatePersistsChanges(t *testing.T) {
	repo := &stubProperties{byID: map[domainproperty.ID]*domainproperty.Property{
		"prop-1": seedListing(t, "landlord"),
	}}
	svc := &Service{Properties: repo}

	prop, err := svc.Update(context.Background(), " prop-1 ", "landlord", UpdateParams{
		Title:          "Renovated room",
		Type:           " PG ",
		RoomTypes:      []string{" Single "},
		City:           "Delft",
		PricePerMonth:  52000,
		RoomsTotal:     2,
		RoomsAvailable: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renovated room", prop.Title)
	assert.Equal(t, []domainproperty.RoomType{domainproperty.RoomSingle}, prop.RoomTypes)
	require.Len(t, repo.saved, 1)
	assert.Same(t, prop, repo.saved[0])
}

func TestUpdateUnknownListing(t *testing.T) {
	svc := &Service{Properties: &stubProperties{byID: map[domainproperty.ID]*domainproperty.Property{}}}
	_, err := svc.Update(context.Background(), "missing", "landlord", UpdateParams{})
	assert.ErrorIs(t, err, domainproperty.ErrNotFound)
}
