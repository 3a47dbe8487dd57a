package catalog

import (
	"strings"

	"github.com/valyala/fastrand"
)

// MinWordsPerCategory is the floor below which a category is not playable.
const MinWordsPerCategory = 10

// GridWordCount is the size of the secret-word grid dealt at game start.
const GridWordCount = 24

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

type CategoryID string

type Category struct {
	ID          CategoryID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Words       []string   `json:"words"`
	Difficulty  Difficulty `json:"difficulty"`
}

func (c Category) HasEnoughWords() bool {
	return len(c.Words) >= MinWordsPerCategory
}

func (c Category) RandomWord() (string, bool) {
	if len(c.Words) == 0 {
		return "", false
	}
	return c.Words[fastrand.Uint32n(uint32(len(c.Words)))], true
}

// Catalog is a read-only provider of category -> word-list mappings.
type Catalog struct {
	categories []Category
	byID       map[CategoryID]Category
}

func New() *Catalog {
	return newFrom(spanishCategories)
}

func newFrom(categories []Category) *Catalog {
	byID := make(map[CategoryID]Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}
	return &Catalog{categories: categories, byID: byID}
}

func (c *Catalog) AllCategories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) CategoryByID(id CategoryID) (Category, bool) {
	category, ok := c.byID[id]
	return category, ok
}

func (c *Catalog) CategoriesByDifficulty(d Difficulty) []Category {
	var out []Category
	for _, category := range c.categories {
		if category.Difficulty == d {
			out = append(out, category)
		}
	}
	return out
}

// Search matches the query case-insensitively against name and description.
func (c *Catalog) Search(query string) []Category {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var out []Category
	for _, category := range c.categories {
		if strings.Contains(strings.ToLower(category.Name), query) ||
			strings.Contains(strings.ToLower(category.Description), query) {
			out = append(out, category)
		}
	}
	return out
}

func (c *Catalog) RandomCategory() (Category, bool) {
	if len(c.categories) == 0 {
		return Category{}, false
	}
	return c.categories[fastrand.Uint32n(uint32(len(c.categories)))], true
}

// GameWords returns a shuffled count-sized sample without replacement.
// A category smaller than count yields all of its words; an unknown id
// yields nil. Callers must tolerate a short list.
func (c *Catalog) GameWords(id CategoryID, count int) []string {
	category, ok := c.byID[id]
	if !ok || count <= 0 {
		return nil
	}

	words := make([]string, len(category.Words))
	copy(words, category.Words)

	for i := len(words) - 1; i > 0; i-- {
		j := int(fastrand.Uint32n(uint32(i + 1)))
		words[i], words[j] = words[j], words[i]
	}

	if count < len(words) {
		words = words[:count]
	}
	return words
}
