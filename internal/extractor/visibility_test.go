package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVisibility_NoMarkers(t *testing.T) {
	source := []byte("struct _Foo {\n  int a;\n  int b;\n};\n")
	vis := parseVisibility(source, 1, 4)

	assert.True(t, vis.isPublic(2))
	assert.True(t, vis.isPublic(3))
}

func TestParseVisibility_PublicMarkerFlipsDefault(t *testing.T) {
	source := []byte("struct _Foo {\n" +
		"  int hidden;\n" +
		"  /*<public>*/\n" +
		"  int shown;\n" +
		"  /*<private>*/\n" +
		"  int internal;\n" +
		"};\n")
	vis := parseVisibility(source, 1, 7)

	// A <public> marker anywhere makes earlier members private.
	assert.False(t, vis.isPublic(2))
	assert.True(t, vis.isPublic(4))
	assert.False(t, vis.isPublic(6))
}

func TestParseVisibility_PrivateOnly(t *testing.T) {
	source := []byte("struct _Foo {\n" +
		"  int shown;\n" +
		"  /* <private> */\n" +
		"  int internal;\n" +
		"};\n")
	vis := parseVisibility(source, 1, 5)

	// Without a <public> marker the struct starts public.
	assert.True(t, vis.isPublic(2))
	assert.False(t, vis.isPublic(4))
}

func TestParseVisibility_MarkerLineBoundaries(t *testing.T) {
	source := []byte("struct _Foo {\n" +
		"  int hidden;\n" +
		"  /*<public>*/ int shown;\n" +
		"  int also_shown;\n" +
		"  /*<private>*/ int secret;\n" +
		"};\n")
	vis := parseVisibility(source, 1, 6)

	// A member sharing the marker's line already takes its effect.
	assert.False(t, vis.isPublic(2))
	assert.True(t, vis.isPublic(3))
	assert.True(t, vis.isPublic(4))
	assert.False(t, vis.isPublic(5))
}

func TestParseVisibility_ProtectedIsPrivate(t *testing.T) {
	source := []byte("/*<public>*/\nint a;\n/*<protected>*/\nint b;\n")
	vis := parseVisibility(source, 1, 4)

	assert.True(t, vis.isPublic(2))
	assert.False(t, vis.isPublic(4))
}
