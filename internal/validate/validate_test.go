package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVar_Colormap(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Var("viridis", "colormap"))
	assert.NoError(t, Var("Gray", "colormap"))
	assert.Error(t, Var("jet", "colormap"))
	assert.Error(t, Var("", "colormap"))
}

func TestStruct_Tags(t *testing.T) {
	t.Parallel()
	type prefs struct {
		Width float64 `validate:"gte=2"`
		ID    string  `validate:"omitempty,uuid4"`
	}
	assert.NoError(t, Struct(prefs{Width: 2}))
	assert.Error(t, Struct(prefs{Width: 1}))
	assert.Error(t, Struct(prefs{Width: 3, ID: "not-a-uuid"}))
	assert.NoError(t, Struct(prefs{Width: 3, ID: "9b2f4c1e-8a5d-4f3b-9c7e-2d1a6b8e0f42"}))
}
