package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"cuisineberg/internal/domain"
)

func menuItem(id, name string, price string) domain.MenuItem {
	return domain.MenuItem{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

func TestCart_AddSameItemIncrements(t *testing.T) {
	c := New()
	item := menuItem("d1", "Margherita", "8.50")

	for i := 0; i < 5; i++ {
		c.Add(item)
	}

	assert.Equal(t, 5, c.ItemCount())
	lines := c.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, "d1", lines[0].Item.ID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestCart_RemoveDecrementsThenDeletes(t *testing.T) {
	c := New()
	item := menuItem("d1", "Margherita", "8.50")

	c.Add(item)
	c.Add(item)
	c.Add(item)

	c.Remove("d1")
	assert.Equal(t, 2, c.ItemCount())
	assert.Len(t, c.Lines(), 1)

	c.Remove("d1")
	c.Remove("d1")
	assert.Equal(t, 0, c.ItemCount())
	assert.Empty(t, c.Lines())
}

func TestCart_RemoveAbsentIsNoop(t *testing.T) {
	c := New()
	c.Add(menuItem("d1", "Margherita", "8.50"))

	c.Remove("missing")

	assert.Equal(t, 1, c.ItemCount())
}

func TestCart_TotalRecomputed(t *testing.T) {
	c := New()
	pizza := menuItem("d1", "Margherita", "8.50")
	cola := menuItem("d2", "Cola", "1.25")

	c.Add(pizza)
	c.Add(pizza)
	c.Add(cola)

	assert.True(t, c.Total().Equal(decimal.RequireFromString("18.25")), "got %s", c.Total())
}

func TestCart_AddRemoveRoundTripRestoresTotal(t *testing.T) {
	c := New()
	c.Add(menuItem("d1", "Margherita", "8.50"))
	c.Add(menuItem("d2", "Cola", "1.25"))

	before := c.Total()
	c.Add(menuItem("d3", "Tiramisu", "4.75"))
	c.Remove("d3")

	assert.True(t, c.Total().Equal(before), "got %s want %s", c.Total(), before)
}

func TestCart_InsertionOrderStableUnderChurn(t *testing.T) {
	c := New()
	c.Add(menuItem("d1", "Margherita", "8.50"))
	c.Add(menuItem("d2", "Cola", "1.25"))
	c.Add(menuItem("d3", "Tiramisu", "4.75"))

	// Churn on the middle line must not reorder the others.
	c.Add(menuItem("d2", "Cola", "1.25"))
	c.Remove("d2")
	c.Remove("d2")

	lines := c.Lines()
	assert.Len(t, lines, 2)
	assert.Equal(t, "d1", lines[0].Item.ID)
	assert.Equal(t, "d3", lines[1].Item.ID)
}

func TestCart_Clear(t *testing.T) {
	c := New()
	c.Add(menuItem("d1", "Margherita", "8.50"))

	c.Clear()

	assert.Equal(t, 0, c.ItemCount())
	assert.True(t, c.Total().IsZero())
}
