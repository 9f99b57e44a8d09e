package content_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumapress/luma/pkg/content"
)

func TestHashPassword_VerifiableAndSalted(t *testing.T) {
	t.Parallel()

	h1, err := content.HashPassword("hunter2")
	require.NoError(t, err)
	h2, err := content.HashPassword("hunter2")
	require.NoError(t, err)

	// bcrypt salts, so equal inputs yield distinct digests.
	require.NotEqual(t, h1, h2)

	g := &content.Gallery{}
	g.PasswordHash = h1
	require.True(t, content.VerifyGalleryPassword(g, "hunter2"))
	require.False(t, content.VerifyGalleryPassword(g, "Hunter2"))
}

func TestVerifyGalleryPassword_Unprotected(t *testing.T) {
	t.Parallel()

	g := &content.Gallery{}
	require.True(t, content.VerifyGalleryPassword(g, ""))
	require.True(t, content.VerifyGalleryPassword(g, "anything"))
	require.False(t, content.VerifyGalleryPassword(nil, "anything"))
}
