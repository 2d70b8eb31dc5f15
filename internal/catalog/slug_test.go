package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Home & Garden", "home-garden"},
		{"  Shoes  ", "shoes"},
		{"Déjà Vu", "d-j-vu"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER CASE", "upper-case"},
		{"a--b", "a-b"},
		{"---", ""},
		{"", ""},
		{"123 Numbers!", "123-numbers"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	for _, in := range []string{"Home & Garden", "Shoes", "a  b  c", "x_y_z"} {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once))
	}
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, defaultPageSize, normalizeLimit(0))
	assert.Equal(t, defaultPageSize, normalizeLimit(-3))
	assert.Equal(t, 25, normalizeLimit(25))
	assert.Equal(t, maxPageSize, normalizeLimit(5000))
}

func TestBuildPagination(t *testing.T) {
	assert.Nil(t, buildPagination(nil, 10, 42))

	page := 2
	info := buildPagination(&page, 5, 12)
	assert.Equal(t, 2, info.Page)
	assert.Equal(t, 5, info.Limit)
	assert.Equal(t, int64(12), info.Total)
	assert.Equal(t, int64(3), info.Pages)

	zero := 0
	info = buildPagination(&zero, 10, 0)
	assert.Equal(t, 1, info.Page)
	assert.Equal(t, int64(0), info.Pages)
}
