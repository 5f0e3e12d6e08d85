package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Cuisine is one of the fixed set of cuisines a recipe may belong to.
type Cuisine string

const (
	CuisineIndian        Cuisine = "Indian"
	CuisineItalian       Cuisine = "Italian"
	CuisineChinese       Cuisine = "Chinese"
	CuisineMexican       Cuisine = "Mexican"
	CuisineMediterranean Cuisine = "Mediterranean"
	CuisineJapanese      Cuisine = "Japanese"
	CuisineThai          Cuisine = "Thai"
	CuisineAmerican      Cuisine = "American"
	CuisineFrench        Cuisine = "French"
	CuisineSpanish       Cuisine = "Spanish"
	CuisineKorean        Cuisine = "Korean"
	CuisineVietnamese    Cuisine = "Vietnamese"
	CuisineMiddleEastern Cuisine = "Middle Eastern"
	CuisineGreek         Cuisine = "Greek"
	CuisineOther         Cuisine = "Other"
)

// Cuisines lists every valid cuisine in display order.
var Cuisines = []Cuisine{
	CuisineIndian, CuisineItalian, CuisineChinese, CuisineMexican, CuisineMediterranean,
	CuisineJapanese, CuisineThai, CuisineAmerican, CuisineFrench, CuisineSpanish,
	CuisineKorean, CuisineVietnamese, CuisineMiddleEastern, CuisineGreek, CuisineOther,
}

// Valid reports whether c is an exact member of the cuisine set.
func (c Cuisine) Valid() bool {
	for _, known := range Cuisines {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCuisine matches s against the cuisine set ignoring case and
// surrounding whitespace, returning the canonical spelling.
func ParseCuisine(s string) (Cuisine, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Cuisines {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Difficulty is the effort level of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of easy, medium or hard.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// StringList is an ordered list of strings stored as a JSON array column
// (jsonb on postgres, text elsewhere).
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}

	return json.Unmarshal(bytes, l)
}

// GormDataType implements schema.GormDataTypeInterface
func (StringList) GormDataType() string {
	return "json"
}

// GormDBDataType picks the column type per dialect.
func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// Recipe is a validated catalog entry. Only Validate produces one from
// untrusted input.
type Recipe struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string     `gorm:"size:100;not null" json:"name"`
	Cuisine          Cuisine    `gorm:"size:32;not null;index:idx_recipes_cuisine_difficulty,priority:1" json:"cuisine"`
	IsVegetarian     bool       `gorm:"not null" json:"isVegetarian"`
	PrepTimeMinutes  int        `gorm:"not null;index" json:"prepTimeMinutes"`
	CookTimeMinutes  int        `gorm:"not null;default:0" json:"cookTimeMinutes"`
	Servings         int        `gorm:"not null" json:"servings"`
	Ingredients      StringList `gorm:"not null" json:"ingredients"`
	Instructions     string     `gorm:"type:text;not null" json:"instructions"`
	Difficulty       Difficulty `gorm:"size:16;not null;index:idx_recipes_cuisine_difficulty,priority:2" json:"difficulty"`
	Tags             StringList `gorm:"not null" json:"tags"`
	ImageURL         string     `gorm:"size:2048" json:"imageUrl"`
	Calories         *int       `json:"calories"`
	CreatedBy        string     `gorm:"size:100;not null" json:"createdBy"`
	IsFavorite       bool       `gorm:"not null;default:false" json:"isFavorite"`
	Rating           float64    `gorm:"not null;default:0" json:"rating"`
	Views            int64      `gorm:"not null;default:0" json:"views"`
	TotalTimeMinutes int        `gorm:"-" json:"totalTimeMinutes"`
	CreatedAt        time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns an id when the caller did not.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AfterFind fills the derived total time; it is never stored.
func (r *Recipe) AfterFind(tx *gorm.DB) error {
	r.computeTotalTime()
	return nil
}

// AfterSave keeps the derived total time current on the in-memory record.
func (r *Recipe) AfterSave(tx *gorm.DB) error {
	r.computeTotalTime()
	return nil
}

func (r *Recipe) computeTotalTime() {
	r.TotalTimeMinutes = r.PrepTimeMinutes + r.CookTimeMinutes
}
