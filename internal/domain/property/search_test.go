package property

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(mutate func(*Property)) *Property {
	p, err := New(CreateParams{
		ID:               "prop-1",
		LandlordID:       "landlord",
		Title:            "Bright studio near campus",
		Type:             TypeStudio,
		RoomTypes:        []RoomType{RoomSingle},
		City:             "Delft",
		Country:          "Netherlands",
		PricePerMonth:    85000,
		RoomsTotal:       1,
		RoomsAvailable:   1,
		NearbyUniversity: "TU Delft",
	})
	if err != nil {
		panic(err)
	}
	if mutate != nil {
		mutate(p)
	}
	return p
}

func TestSearchParamsNormalized(t *testing.T) {
	params := SearchParams{
		City:     "  DELFT ",
		Country:  " Netherlands",
		Query:    " Studio ",
		PriceMin: -5,
		PriceMax: 100,
		Limit:    0,
		Offset:   -3,
		Sort:     "sneaky; drop table",
	}
	n := params.Normalized()

	assert.Equal(t, "delft", n.City)
	assert.Equal(t, "netherlands", n.Country)
	assert.Equal(t, "studio", n.Query)
	assert.Equal(t, int64(0), n.PriceMin)
	assert.Equal(t, int64(100), n.PriceMax)
	assert.Equal(t, defaultSearchLimit, n.Limit)
	assert.Equal(t, 0, n.Offset)
	assert.Equal(t, Sort(""), n.Sort, "unknown sort falls back to default")
}

func TestSearchParamsNormalizedBounds(t *testing.T) {
	n := SearchParams{Limit: 500, PriceMin: 200, PriceMax: 100, Sort: SortPriceAsc}.Normalized()
	assert.Equal(t, maxSearchLimit, n.Limit)
	assert.Equal(t, int64(0), n.PriceMax, "inverted price range drops the cap")
	assert.Equal(t, SortPriceAsc, n.Sort)
}

func TestSearchParamsMatches(t *testing.T) {
	prop := listing(nil)

	cases := []struct {
		name   string
		params SearchParams
		want   bool
	}{
		{"empty filter matches", SearchParams{}, true},
		{"city substring", SearchParams{City: "delft"}, true},
		{"city mismatch", SearchParams{City: "amsterdam"}, false},
		{"country exact", SearchParams{Country: "netherlands"}, true},
		{"country mismatch", SearchParams{Country: "germany"}, false},
		{"price in range", SearchParams{PriceMin: 80000, PriceMax: 90000}, true},
		{"price below min", SearchParams{PriceMin: 90000}, false},
		{"price above max", SearchParams{PriceMax: 80000}, false},
		{"type match", SearchParams{Type: TypeStudio}, true},
		{"type mismatch", SearchParams{Type: TypeHostel}, false},
		{"room type match", SearchParams{RoomType: RoomSingle}, true},
		{"room type mismatch", SearchParams{RoomType: RoomTriple}, false},
		{"query hits university", SearchParams{Query: "tu delft"}, true},
		{"query hits title", SearchParams{Query: "bright studio"}, true},
		{"query miss", SearchParams{Query: "penthouse"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.params.Normalized().Matches(prop))
		})
	}

	assert.False(t, SearchParams{}.Matches(nil))
}

func TestNewPropertyValidation(t *testing.T) {
	base := CreateParams{
		ID:             "prop-1",
		LandlordID:     "landlord",
		Title:          "Room",
		Type:           TypePG,
		City:           "Delft",
		PricePerMonth:  100,
		RoomsTotal:     2,
		RoomsAvailable: 1,
	}

	_, err := New(base)
	require.NoError(t, err)

	bad := base
	bad.Title = "  "
	_, err = New(bad)
	assert.ErrorIs(t, err, ErrTitleRequired)

	bad = base
	bad.Type = "castle"
	_, err = New(bad)
	assert.ErrorIs(t, err, ErrInvalidType)

	bad = base
	bad.PricePerMonth = 0
	_, err = New(bad)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	bad = base
	bad.RoomsAvailable = 3
	_, err = New(bad)
	assert.ErrorIs(t, err, ErrInvalidRooms)

	// Currency defaults and normalises.
	withCurrency := base
	withCurrency.Currency = " eur "
	p, err := New(withCurrency)
	require.NoError(t, err)
	assert.Equal(t, "EUR", p.Currency)
}

func TestUpdateReplacesEditableFields(t *testing.T) {
	p, err := New(CreateParams{
		ID:             "prop-1",
		LandlordID:     "landlord",
		Title:          "Room",
		Type:           TypePG,
		City:           "Delft",
		PricePerMonth:  100,
		RoomsTotal:     2,
		RoomsAvailable: 1,
		Images:         []string{"https://cdn/img.jpg"},
	})
	require.NoError(t, err)
	p.RecordReview(4, p.CreatedAt)

	err = p.Update(UpdateParams{
		Title:          " Bigger room ",
		Type:           TypeStudio,
		City:           "Rotterdam",
		PricePerMonth:  250,
		RoomsTotal:     3,
		RoomsAvailable: 2,
		Now:            p.CreatedAt.Add(time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, "Bigger room", p.Title)
	assert.Equal(t, TypeStudio, p.Type)
	assert.Equal(t, "Rotterdam", p.City)
	assert.Equal(t, int64(250), p.PricePerMonth)
	// Empty currency keeps the previous one.
	assert.Equal(t, "EUR", p.Currency)
	// Photos and review state are not editable here.
	assert.Equal(t, []string{"https://cdn/img.jpg"}, p.Images)
	assert.Equal(t, 1, p.ReviewCount)
	assert.True(t, p.UpdatedAt.After(p.CreatedAt))
}

func TestUpdateValidatesLikeNew(t *testing.T) {
	p := listing(nil)
	good := UpdateParams{
		Title:          "Room",
		Type:           TypePG,
		City:           "Delft",
		PricePerMonth:  100,
		RoomsTotal:     2,
		RoomsAvailable: 1,
	}

	bad := good
	bad.Title = " "
	assert.ErrorIs(t, p.Update(bad), ErrTitleRequired)

	bad = good
	bad.City = ""
	assert.ErrorIs(t, p.Update(bad), ErrCityRequired)

	bad = good
	bad.Type = "castle"
	assert.ErrorIs(t, p.Update(bad), ErrInvalidType)

	bad = good
	bad.PricePerMonth = -5
	assert.ErrorIs(t, p.Update(bad), ErrInvalidPrice)

	bad = good
	bad.RoomsAvailable = 9
	assert.ErrorIs(t, p.Update(bad), ErrInvalidRooms)
}

func TestRecordReviewFoldsRating(t *testing.T) {
	p := listing(nil)
	p.RecordReview(4, p.CreatedAt)
	p.RecordReview(2, p.CreatedAt)

	assert.Equal(t, 2, p.ReviewCount)
	assert.InDelta(t, 3.0, p.Rating, 0.0001)
}
