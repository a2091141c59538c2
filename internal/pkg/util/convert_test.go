package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrToUint64(t *testing.T) {
	v, err := StrToUint64("42")
	require.NoError(t, err)
	require.Equal(t, uint64(42), v)

	_, err = StrToUint64("not a number")
	require.Error(t, err)

	_, err = StrToUint64("-1")
	require.Error(t, err)
}

func TestStrSliceToUInt64Slice(t *testing.T) {
	ids, err := StrSliceToUInt64Slice([]string{"1", "2", "3"})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3}, ids)

	_, err = StrSliceToUInt64Slice([]string{"1", "x"})
	require.Error(t, err)
}
