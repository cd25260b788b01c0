package property

import "strings"

// Sort defines a supported catalog ordering.
type Sort string

const (
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortRating    Sort = "rating"
	SortNewest    Sort = "newest"

	defaultSearchLimit = 20
	maxSearchLimit     = 60
)

// SearchParams describe catalog filters and paging.
type SearchParams struct {
	City     string
	Country  string
	PriceMin int64
	PriceMax int64
	Type     Type
	RoomType RoomType
	Query    string // matches title, city and nearby university
	Sort     Sort
	Limit    int
	Offset   int
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	normalized := p
	normalized.City = strings.TrimSpace(strings.ToLower(normalized.City))
	normalized.Country = strings.TrimSpace(strings.ToLower(normalized.Country))
	normalized.Query = strings.TrimSpace(strings.ToLower(normalized.Query))
	if normalized.PriceMin < 0 {
		normalized.PriceMin = 0
	}
	if normalized.PriceMax > 0 && normalized.PriceMax < normalized.PriceMin {
		normalized.PriceMax = 0
	}
	if normalized.Limit <= 0 {
		normalized.Limit = defaultSearchLimit
	}
	if normalized.Limit > maxSearchLimit {
		normalized.Limit = maxSearchLimit
	}
	if normalized.Offset < 0 {
		normalized.Offset = 0
	}
	switch normalized.Sort {
	case SortPriceAsc, SortPriceDesc, SortRating, SortNewest:
	default:
		normalized.Sort = ""
	}
	return normalized
}

// Matches reports whether a property satisfies the normalized filters.
// Repositories that cannot push filters into the store use it directly.
func (p SearchParams) Matches(prop *Property) bool {
	if prop == nil {
		return false
	}
	if p.City != "" && !strings.Contains(strings.ToLower(prop.City), p.City) {
		return false
	}
	if p.Country != "" && strings.ToLower(prop.Country) != p.Country {
		return false
	}
	if p.PriceMin > 0 && prop.PricePerMonth < p.PriceMin {
		return false
	}
	if p.PriceMax > 0 && prop.PricePerMonth > p.PriceMax {
		return false
	}
	if p.Type != "" && prop.Type != p.Type {
		return false
	}
	if p.RoomType != "" && !hasRoomType(prop.RoomTypes, p.RoomType) {
		return false
	}
	if p.Query != "" {
		haystack := strings.ToLower(prop.Title + " " + prop.City + " " + prop.NearbyUniversity)
		if !strings.Contains(haystack, p.Query) {
			return false
		}
	}
	return true
}

func hasRoomType(types []RoomType, want RoomType) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
