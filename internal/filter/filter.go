// Package filter turns the flat query parameters of the recipe listing into a
// query plan: match criteria, a sort and a pagination window.
package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/pageza/recipe-catalog/backend/internal/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// SortField names a supported listing order.
type SortField string

const (
	SortNewest     SortField = "newest"
	SortOldest     SortField = "oldest"
	SortName       SortField = "name"
	SortPrepTime   SortField = "prepTime"
	SortDifficulty SortField = "difficulty"
)

// Criteria is the conjunction of every supplied filter. Zero values mean
// the filter is absent.
type Criteria struct {
	SearchTerms  []string
	Cuisine      string
	IsVegetarian *bool
	MinPrepTime  *int
	MaxPrepTime  *int
	Difficulty   string
	Tags         []string
	Ingredients  []string
}

// Sort is the resolved ordering of a listing.
type Sort struct {
	Field      SortField
	Descending bool
}

// Window is a 1-based page of a listing.
type Window struct {
	Page  int
	Limit int
}

// Offset is the number of matching rows skipped before this page.
func (w Window) Offset() int {
	return (w.Page - 1) * w.Limit
}

// Plan is the full compiled listing request.
type Plan struct {
	Criteria Criteria
	Sort     Sort
	Window   Window
}

// Compile maps listing parameters to a Plan. It never fails: malformed
// values are treated as absent and unknown sorts fall back to newest.
func Compile(params url.Values) Plan {
	var plan Plan
	c := &plan.Criteria

	c.SearchTerms = searchTerms(params.Get("search"))
	c.Cuisine = strings.TrimSpace(params.Get("cuisine"))
	c.Difficulty = strings.TrimSpace(params.Get("difficulty"))

	switch params.Get("isVegetarian") {
	case "true":
		v := true
		c.IsVegetarian = &v
	case "false":
		v := false
		c.IsVegetarian = &v
	}

	c.MinPrepTime = parseInt(params.Get("minTime"))
	c.MaxPrepTime = parseInt(params.Get("maxTime"))
	c.Tags = splitList(params.Get("tags"))
	c.Ingredients = splitList(params.Get("ingredients"))

	plan.Sort = compileSort(params.Get("sortBy"), params.Get("order"))
	plan.Window = compileWindow(params.Get("page"), params.Get("limit"))
	return plan
}

// compileSort resolves sortBy/order. newest and oldest carry their own
// direction and ignore order; the other fields default to ascending.
func compileSort(sortBy, order string) Sort {
	switch field := SortField(sortBy); field {
	case SortOldest:
		return Sort{Field: SortOldest}
	case SortName, SortPrepTime, SortDifficulty:
		return Sort{Field: field, Descending: strings.EqualFold(order, "desc")}
	default:
		return Sort{Field: SortNewest, Descending: true}
	}
}

func compileWindow(page, limit string) Window {
	w := Window{Page: DefaultPage, Limit: DefaultLimit}
	if p := parseInt(page); p != nil && *p >= 1 {
		w.Page = *p
	}
	if l := parseInt(limit); l != nil && *l >= 1 {
		w.Limit = min(*l, MaxLimit)
	}
	// Keeps (Page-1)*Limit within int.
	w.Page = min(w.Page, math.MaxInt/w.Limit)
	return w
}

// TotalPages is ceil(total/limit), and 0 when nothing matched.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func parseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

// splitList splits a comma-separated parameter, lowercasing and trimming
// each entry and dropping empties.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return model.NormalizeTags(strings.Split(s, ","))
}

// searchTerms reduces free text to lowercase alphanumeric words so they can
// be handed to a text index without escaping.
func searchTerms(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return nil
	}
	return words
}
