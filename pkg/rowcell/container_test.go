package rowcell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rowbridge/pkg/rowerrors"
)

func TestWriteContainer(t *testing.T) {
	c := NewWriteContainer(3)
	assert.Equal(t, 3, c.NumFields())
	assert.Equal(t, []any{nil, nil, nil}, c.Values())

	require.NoError(t, c.SetValue(0, "anything"))
	require.NoError(t, c.SetValue(1, struct{ X int }{1}))
	assert.Equal(t, "anything", c.Value(0))

	err := c.SetValue(3, 1)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeValidation))
	assert.Nil(t, c.Value(3))
	assert.Nil(t, c.Value(-1))
}

func TestNewCell(t *testing.T) {
	for k := KindBoolean; k <= KindText; k++ {
		cell := NewCell(k)
		require.NotNil(t, cell, k.String())
		assert.Equal(t, k, cell.Kind())
	}
	assert.Nil(t, NewCell(Kind(99)))
}

func TestWriteContainer_SetDatum(t *testing.T) {
	c := NewWriteContainer(3)
	nested := NewWriteContainer(1)

	require.NoError(t, c.SetDatum(0, NewLongCell(9)))
	require.NoError(t, c.SetDatum(1, nested))
	require.NoError(t, c.SetDatum(2, nil))
	assert.Same(t, nested, c.Value(1))

	err := c.SetDatum(2, 9)
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeTypeMismatch))
}

func TestWriteContainer_SetValues(t *testing.T) {
	c := NewWriteContainer(2)

	vs := []any{1, "two"}
	require.NoError(t, c.SetValues(vs))
	assert.Equal(t, vs, c.Values())

	err := c.SetValues([]any{1})
	assert.True(t, rowerrors.IsType(err, rowerrors.ErrorTypeValidation))
	assert.Equal(t, vs, c.Values())
}

func TestIsDatum(t *testing.T) {
	assert.True(t, IsDatum(nil))
	assert.True(t, IsDatum(NewBooleanCell(true)))
	assert.True(t, IsDatum(NewWriteContainer(0)))
	assert.False(t, IsDatum(1))
	assert.False(t, IsDatum("s"))
}
