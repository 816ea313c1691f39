package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "glaucoma", NormalizeType("  Glaucoma "))
	assert.Equal(t, "", NormalizeType("   "))
}

func TestNewCatalog_IndexesAndOrders(t *testing.T) {
	c := NewCatalog("Glaucoma", []*QuestionBankItem{
		{IllnessType: "glaucoma", QuestionID: "G2", Weight: 2, SortOrder: 2},
		{IllnessType: "glaucoma", QuestionID: "G1", Weight: 1, SortOrder: 1},
		{IllnessType: "cancer", QuestionID: "C1", Weight: 3, SortOrder: 1},
		nil,
	})

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "glaucoma", c.IllnessType)
	assert.Equal(t, "G1", c.Items()[0].QuestionID)
	assert.Equal(t, "G2", c.Items()[1].QuestionID)

	_, ok := c.Lookup("C1")
	assert.False(t, ok, "questions of another type must not be indexed")

	it, ok := c.Lookup("G2")
	require.True(t, ok)
	assert.Equal(t, 2.0, it.Weight)
}

func TestNewCatalog_DuplicateIDKeepsLast(t *testing.T) {
	c := NewCatalog("cancer", []*QuestionBankItem{
		{IllnessType: "cancer", QuestionID: "C1", Weight: 1},
		{IllnessType: "cancer", QuestionID: "C1", Weight: 4},
	})
	require.Equal(t, 1, c.Len())
	it, _ := c.Lookup("C1")
	assert.Equal(t, 4.0, it.Weight)
}

func TestCatalog_NilSafe(t *testing.T) {
	var c *Catalog
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Items())
	_, ok := c.Lookup("G1")
	assert.False(t, ok)
}
