package dbhelper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pizzashack/service/models"
)

func TestGetOffset(t *testing.T) {
	assert.Equal(t, 20, getOffset(3, 10))
	assert.Equal(t, 10, getOffset(2, 10))
	assert.Equal(t, 0, getOffset(1, 10))
	// pages below 1 fall back to the first page
	assert.Equal(t, 0, getOffset(0, 10))
	assert.Equal(t, 0, getOffset(-4, 10))
}

func TestWrapTx(t *testing.T) {
	assert.NoError(t, wrapTx("op failed", nil))

	raw := wrapTx("op failed", errors.New("boom"))
	assert.Equal(t, models.KindTx, models.KindOf(raw))
	assert.Contains(t, raw.Error(), "op failed")

	// a classification set inside the transaction body survives
	typed := wrapTx("op failed", models.NotFoundErr("unknown user for franchise admin"))
	assert.Equal(t, models.KindNotFound, models.KindOf(typed))
	assert.Equal(t, "unknown user for franchise admin", typed.Error())
}
