package filter

import (
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SearchDocument is the postgres text-search vector over the searchable
// recipe fields. The GIN index created at migration time uses the same
// expression so the planner can pick it up.
const SearchDocument = "to_tsvector('english', name || ' ' || cuisine || ' ' || instructions || ' ' || ingredients::text || ' ' || tags::text)"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Apply narrows db to the recipes matching every criterion. Text search,
// tag membership and ingredient matching use dialect-specific SQL.
func (c Criteria) Apply(db *gorm.DB) *gorm.DB {
	postgres := db.Dialector.Name() == "postgres"

	if len(c.SearchTerms) > 0 {
		if postgres {
			db = db.Where(SearchDocument+" @@ to_tsquery('english', ?)", strings.Join(c.SearchTerms, " | "))
		} else {
			sql, vars := anyTermLike(c.SearchTerms,
				"LOWER(recipes.name)", "LOWER(recipes.cuisine)", "LOWER(recipes.instructions)",
				"LOWER(recipes.ingredients)", "LOWER(recipes.tags)")
			db = db.Where(sql, vars...)
		}
	}

	if c.Cuisine != "" {
		db = db.Where("recipes.cuisine = ?", c.Cuisine)
	}
	if c.IsVegetarian != nil {
		db = db.Where("recipes.is_vegetarian = ?", *c.IsVegetarian)
	}
	if c.MinPrepTime != nil {
		db = db.Where("recipes.prep_time_minutes >= ?", *c.MinPrepTime)
	}
	if c.MaxPrepTime != nil {
		db = db.Where("recipes.prep_time_minutes <= ?", *c.MaxPrepTime)
	}
	if c.Difficulty != "" {
		db = db.Where("recipes.difficulty = ?", c.Difficulty)
	}

	if len(c.Tags) > 0 {
		if postgres {
			db = db.Where("jsonb_exists_any(recipes.tags, ?)", pq.Array(c.Tags))
		} else {
			db = db.Where("EXISTS (SELECT 1 FROM json_each(recipes.tags) WHERE json_each.value IN ?)", c.Tags)
		}
	}

	if len(c.Ingredients) > 0 {
		if postgres {
			patterns := make([]string, len(c.Ingredients))
			for i, term := range c.Ingredients {
				patterns[i] = containsPattern(term)
			}
			db = db.Where("EXISTS (SELECT 1 FROM jsonb_array_elements_text(recipes.ingredients) AS ing(value) WHERE ing.value ILIKE ANY (?))", pq.Array(patterns))
		} else {
			sql, vars := anyTermLike(c.Ingredients, "LOWER(json_each.value)")
			db = db.Where("EXISTS (SELECT 1 FROM json_each(recipes.ingredients) WHERE "+sql+")", vars...)
		}
	}

	return db
}

// anyTermLike builds "(col1 LIKE t1 OR col2 LIKE t1 OR ... colN LIKE tM)".
func anyTermLike(terms []string, columns ...string) (string, []any) {
	var sb strings.Builder
	vars := make([]any, 0, len(terms)*len(columns))
	sb.WriteString("(")
	for i, term := range terms {
		pattern := containsPattern(term)
		for j, col := range columns {
			if i > 0 || j > 0 {
				sb.WriteString(" OR ")
			}
			sb.WriteString(col)
			sb.WriteString(` LIKE ? ESCAPE '\'`)
			vars = append(vars, pattern)
		}
	}
	sb.WriteString(")")
	return sb.String(), vars
}

// Apply orders db by the sort, with id as a tiebreaker so pages are stable.
func (s Sort) Apply(db *gorm.DB) *gorm.DB {
	dir := " ASC"
	if s.Descending {
		dir = " DESC"
	}

	switch s.Field {
	case SortOldest:
		db = db.Order("recipes.created_at ASC")
	case SortName:
		db = db.Order("recipes.name" + dir)
	case SortPrepTime:
		db = db.Order("recipes.prep_time_minutes" + dir)
	case SortDifficulty:
		db = db.Order("CASE recipes.difficulty WHEN 'easy' THEN 1 WHEN 'medium' THEN 2 WHEN 'hard' THEN 3 ELSE 4 END" + dir)
	default:
		db = db.Order("recipes.created_at DESC")
	}
	return db.Order("recipes.id ASC")
}

// Apply restricts db to the rows of this page.
func (w Window) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset(w.Offset()).Limit(w.Limit)
}
