package catalog

import (
	"sort"
	"strings"
	"time"
)

// QuestionBankItem maps to the question_bank table. QuestionID is unique
// within IllnessType.
type QuestionBankItem struct {
	IllnessType      string    `db:"illness_type" json:"illness_type" yaml:"illness_type"`
	QuestionID       string    `db:"question_id" json:"question_id" yaml:"question_id"`
	Text             string    `db:"text" json:"text" yaml:"text"`
	Weight           float64   `db:"weight" json:"weight" yaml:"weight"`
	AutoPopulate     bool      `db:"auto_populate" json:"auto_populate" yaml:"auto_populate,omitempty"`
	AutoPopulateFrom *string   `db:"auto_populate_from" json:"auto_populate_from,omitempty" yaml:"auto_populate_from,omitempty"`
	SortOrder        int       `db:"sort_order" json:"sort_order" yaml:"sort_order"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at" yaml:"-"`
}

// NormalizeType canonicalizes an illness type key ("  Glaucoma " -> "glaucoma").
func NormalizeType(illnessType string) string {
	return strings.ToLower(strings.TrimSpace(illnessType))
}

// Catalog is the question bank of one illness type indexed by question id.
type Catalog struct {
	IllnessType string
	items       []*QuestionBankItem
	byID        map[string]*QuestionBankItem
}

// NewCatalog indexes items of illnessType. Items filed under another type are
// dropped; a repeated question id keeps the last entry.
func NewCatalog(illnessType string, items []*QuestionBankItem) *Catalog {
	illnessType = NormalizeType(illnessType)
	c := &Catalog{
		IllnessType: illnessType,
		byID:        make(map[string]*QuestionBankItem, len(items)),
	}
	for _, it := range items {
		if it == nil || NormalizeType(it.IllnessType) != illnessType {
			continue
		}
		c.byID[it.QuestionID] = it
	}
	for _, it := range c.byID {
		c.items = append(c.items, it)
	}
	sort.Slice(c.items, func(i, j int) bool {
		if c.items[i].SortOrder != c.items[j].SortOrder {
			return c.items[i].SortOrder < c.items[j].SortOrder
		}
		return c.items[i].QuestionID < c.items[j].QuestionID
	})
	return c
}

func (c *Catalog) Lookup(questionID string) (*QuestionBankItem, bool) {
	if c == nil {
		return nil, false
	}
	it, ok := c.byID[questionID]
	return it, ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns the questions in display order.
func (c *Catalog) Items() []*QuestionBankItem {
	if c == nil {
		return nil
	}
	return c.items
}
