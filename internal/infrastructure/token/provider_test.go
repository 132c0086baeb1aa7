package token

import (
	"errors"
	"testing"
	"time"

	"github.com/S-Stepanov-1/contacts-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTTLs() TTLs {
	return TTLs{
		Access:        20 * time.Minute,
		Refresh:       5 * 24 * time.Hour,
		EmailVerify:   24 * time.Hour,
		PasswordReset: time.Hour,
	}
}

func TestNewProvider_EmptySecret(t *testing.T) {
	_, err := NewProvider("", testTTLs())
	require.Error(t, err)
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	p, err := NewProvider("test-secret", testTTLs())
	require.NoError(t, err)

	tok, err := p.Issue("user-1", PurposeAccess)
	require.NoError(t, err)

	sub, err := p.Verify(tok, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestVerify_WrongPurpose(t *testing.T) {
	p, err := NewProvider("test-secret", testTTLs())
	require.NoError(t, err)

	tok, err := p.Issue("user-1", PurposeRefresh)
	require.NoError(t, err)

	_, err = p.Verify(tok, PurposeAccess)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestVerify_Expired(t *testing.T) {
	ttls := testTTLs()
	ttls.Access = -time.Minute
	p, err := NewProvider("test-secret", ttls)
	require.NoError(t, err)

	tok, err := p.Issue("user-1", PurposeAccess)
	require.NoError(t, err)

	_, err = p.Verify(tok, PurposeAccess)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestVerify_Malformed(t *testing.T) {
	p, err := NewProvider("test-secret", testTTLs())
	require.NoError(t, err)

	_, err = p.Verify("not-a-jwt", PurposeAccess)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestVerify_WrongSecret(t *testing.T) {
	p1, err := NewProvider("secret-one", testTTLs())
	require.NoError(t, err)
	p2, err := NewProvider("secret-two", testTTLs())
	require.NoError(t, err)

	tok, err := p1.Issue("user-1", PurposeAccess)
	require.NoError(t, err)

	_, err = p2.Verify(tok, PurposeAccess)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestIssue_TokensForSameSubjectDiffer(t *testing.T) {
	p, err := NewProvider("test-secret", testTTLs())
	require.NoError(t, err)

	t1, err := p.Issue("user-1", PurposeAccess)
	require.NoError(t, err)
	t2, err := p.Issue("user-1", PurposeAccess)
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}
