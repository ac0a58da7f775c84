package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testSecret() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func TestNewCodecRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec([]byte("too-short"), "pantry-auth")
	require.ErrorIs(t, err, ErrShortSecret)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testSecret(), "pantry-auth")
	require.NoError(t, err)

	for _, category := range []string{CategoryAccess, CategoryRefresh} {
		token, err := codec.Issue(category, "01J5ZTESTSUBJECT", "alice", "user", time.Minute)
		require.NoError(t, err)

		claims, err := codec.Verify(token)
		require.NoError(t, err)
		require.Equal(t, category, claims.Category)
		require.Equal(t, "01J5ZTESTSUBJECT", claims.Subject)
		require.Equal(t, "alice", claims.Username)
		require.Equal(t, "user", claims.Role)
		require.Equal(t, "pantry-auth", claims.Issuer)
		require.NotEmpty(t, claims.ID)
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testSecret(), "")
	require.NoError(t, err)

	t.Run("accepted just before expiry", func(t *testing.T) {
		token, err := codec.Issue(CategoryAccess, "sub", "alice", "user", 2*time.Second)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.NoError(t, err)
	})

	t.Run("rejected past expiry", func(t *testing.T) {
		token, err := codec.Sign(NewClaims(
			CategoryAccess, "sub", "alice", "user",
			time.Second, "", time.Now().UTC().Add(-2*time.Second),
		))
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	signer, err := NewCodec(testSecret(), "")
	require.NoError(t, err)
	verifier, err := NewCodec([]byte("ffffffffffffffffffffffffffffffff"), "")
	require.NoError(t, err)

	token, err := signer.Issue(CategoryAccess, "sub", "alice", "user", time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testSecret(), "")
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-jwt", "a.b", "a.b.c"} {
		_, err := codec.Verify(token)
		require.ErrorIs(t, err, ErrMalformed, "token %q", token)
	}
}

func TestVerifyIssuerMismatch(t *testing.T) {
	t.Parallel()

	signer, err := NewCodec(testSecret(), "other-issuer")
	require.NoError(t, err)
	verifier, err := NewCodec(testSecret(), "pantry-auth")
	require.NoError(t, err)

	token, err := signer.Issue(CategoryAccess, "sub", "alice", "user", time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testSecret(), "")
	require.NoError(t, err)

	token, err := codec.Issue(CategoryRefresh, "sub", "alice", "user", time.Minute)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[1] = parts[1][:len(parts[1])-2] + "xx"

	_, err = codec.Verify(strings.Join(parts, "."))
	require.Error(t, err)
}

func TestCategoryHelpers(t *testing.T) {
	t.Parallel()

	access := NewClaims(CategoryAccess, "s", "u", "r", time.Minute, "", time.Now())
	refresh := NewClaims(CategoryRefresh, "s", "u", "r", time.Minute, "", time.Now())

	require.True(t, access.IsAccess())
	require.False(t, access.IsRefresh())
	require.True(t, refresh.IsRefresh())
	require.False(t, refresh.IsAccess())
}
