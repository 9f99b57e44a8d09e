package content_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumapress/luma/pkg/content"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Tokyo 2024", "tokyo-2024"},
		{"  Hello,   World!  ", "hello-world"},
		{"already-a-slug", "already-a-slug"},
		{"Ünïcödé Graphs", "n-c-d-graphs"},
		{"---", ""},
		{"", ""},
		{"CamelCaseName", "camelcasename"},
		{"file_name.md", "file-name-md"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, content.Slugify(tc.in))
		})
	}
}

func TestTitleFromFilename(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"tokyo-street_2024.jpg", "Tokyo Street 2024"},
		{"dsc01.jpg", "Dsc01"},
		{"my-trip", "My Trip"},
		{"about.md", "About"},
		{"", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, content.TitleFromFilename(tc.in))
		})
	}
}
