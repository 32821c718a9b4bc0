package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestItemURL(t *testing.T) {
	it := NewItem(map[string]any{"product": "Milk"}, Image{})
	it.ID = primitive.NewObjectID()
	assert.Equal(t, "/inventory/dairy/"+it.ID.Hex(), ItemURL(Dairy, it))
	assert.Equal(t, "/inventory/market/"+it.ID.Hex(), ItemURL(Market, it))
}

func TestPriceLabel(t *testing.T) {
	t.Run("plain categories", func(t *testing.T) {
		it := NewItem(map[string]any{"price": 2.89}, Image{})
		assert.Equal(t, "$2.89", PriceLabel(Dairy, it))
		assert.Equal(t, "$2.89", PriceLabel(Grocery, it))
	})

	t.Run("per-pound categories", func(t *testing.T) {
		it := NewItem(map[string]any{"price": 8.99}, Image{})
		assert.Equal(t, "$8.99 / lb", PriceLabel(Market, it))
		assert.Equal(t, "$8.99 / lb", PriceLabel(Produce, it))
	})

	t.Run("whole prices drop the cents", func(t *testing.T) {
		it := NewItem(map[string]any{"price": 2.0}, Image{})
		assert.Equal(t, "$2", PriceLabel(Dairy, it))
	})

	t.Run("no price yields empty label", func(t *testing.T) {
		it := NewItem(nil, Image{})
		assert.Equal(t, "", PriceLabel(Dairy, it))
	})
}

func TestItemNumberCoercion(t *testing.T) {
	// BSON decodes numbers as int32, int64 or float64 depending on how
	// they were written.
	for _, v := range []any{int32(7), int64(7), 7.0} {
		it := NewItem(map[string]any{"quantity": v}, Image{})
		n, ok := it.Number("quantity")
		require.True(t, ok)
		assert.Equal(t, 7.0, n)
	}
}

func TestItemIdent(t *testing.T) {
	it := NewItem(map[string]any{"brandname": "Cheep Brand", "product": "Milk"}, Image{})
	assert.Equal(t, "Milk", it.Ident(Dairy))

	it = NewItem(map[string]any{"name": "Bacon"}, Image{})
	assert.Equal(t, "Bacon", it.Ident(Market))
}

func TestLookup(t *testing.T) {
	for _, code := range []string{"dairy", "grocery", "market", "produce"} {
		s, ok := Lookup(code)
		require.True(t, ok)
		assert.Equal(t, code, s.Code)
	}
	_, ok := Lookup("bakery")
	assert.False(t, ok)
}
