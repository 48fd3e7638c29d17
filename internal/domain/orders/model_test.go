package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventa/internal/core/id"
	"inventa/internal/core/types"
)

func TestBuildLines_AssignsSequentialLineNumbers(t *testing.T) {
	a, b, c := id.New(), id.New(), id.New()

	lines, err := buildLines([]LineInput{
		{ItemID: a, Quantity: 1},
		{ItemID: b, Quantity: 2},
		{ItemID: c, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, lines, 3)

	for i, line := range lines {
		assert.Equal(t, i+1, line.LineNo)
		assert.False(t, id.IsNil(line.LineID))
	}
}

func TestBuildLines_MergeKeepsFirstPositionAndPrice(t *testing.T) {
	a, b := id.New(), id.New()
	firstPrice := types.MustMoney("9.99")
	otherPrice := types.MustMoney("1.00")

	lines, err := buildLines([]LineInput{
		{ItemID: a, Quantity: 2, Price: firstPrice},
		{ItemID: b, Quantity: 1, Price: otherPrice},
		{ItemID: a, Quantity: 3, Price: otherPrice},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, a, lines[0].ItemID)
	assert.Equal(t, types.Quantity(5), lines[0].Quantity)
	assert.True(t, firstPrice.Equal(lines[0].Price))

	assert.Equal(t, b, lines[1].ItemID)
	assert.Equal(t, types.Quantity(1), lines[1].Quantity)
}

func TestNewOrder_Defaults(t *testing.T) {
	order := NewOrder("alice")

	assert.False(t, id.IsNil(order.ID))
	assert.Equal(t, StatusCreated, order.Status)
	assert.Equal(t, 1, order.Version)
	assert.False(t, order.IsCancelled())
	assert.Equal(t, order.CreatedAt, order.OrderDate)
}
