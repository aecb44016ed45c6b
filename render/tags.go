package render

import "hash/fnv"

// TagColor is the background and text color pair of a technology tag.
type TagColor struct {
	Background string
	Text       string
}

var tagPalette = []TagColor{
	{"#e0f2fe", "#0369a1"},
	{"#dcfce7", "#15803d"},
	{"#fef3c7", "#b45309"},
	{"#fce7f3", "#be185d"},
	{"#ede9fe", "#6d28d9"},
	{"#fee2e2", "#b91c1c"},
	{"#ccfbf1", "#0f766e"},
	{"#f1f5f9", "#334155"},
}

// ColorForTag hashes the tag into the fixed palette; equal tags get equal colors.
func ColorForTag(tag string) TagColor {
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	return tagPalette[h.Sum32()%uint32(len(tagPalette))]
}
