package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorNoTrailingNewline(t *testing.T) {
	err := NewError("记录不存在")
	assert.Equal(t, "记录不存在", err.Error())

	err = NewError("a", "b")
	assert.Equal(t, "a b", err.Error())
}

func TestNewErrorf(t *testing.T) {
	err := NewErrorf("字段 %s 必须是有效数字", "freight")
	assert.Equal(t, "字段 freight 必须是有效数字", err.Error())
}

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine())
	assert.NoError(t, Combine(nil, nil))

	err := Combine(nil, errors.New("first"), nil, errors.New("second"))
	require.Error(t, err)
	assert.Equal(t, "first, second", err.Error())
}

func TestRecoverSwallowsPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		defer Recover("")
		panic("boom")
	})

	// no panic, nothing to report
	assert.Nil(t, Recover(""))
}
