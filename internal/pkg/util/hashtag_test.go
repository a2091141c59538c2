package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Go", "#go"},
		{"#Go", "#go"},
		{"##go", "#go"},
		{"go.", "#go"},
		{"go!?", "#go"},
		{"#", ""},
		{"", ""},
		{"  ", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, NormalizeTag(c.in), "input %q", c.in)
	}
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("learning #Go and #redis today, more #go tomorrow")
	require.Equal(t, []string{"#go", "#redis"}, tags)

	require.Empty(t, ExtractTags("no tags here"))
	require.Empty(t, ExtractTags(""))

	// 标点从标签尾部剥离
	tags = ExtractTags("shipping #v2.")
	require.Equal(t, []string{"#v2"}, tags)
}
