package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestService(secret string) (*Service, *time.Time) {
	s := NewService(secret)
	current := time.Now()
	s.now = func() time.Time { return current }
	return s, &current
}

func TestIssueAndValidate(t *testing.T) {
	s, _ := newTestService("test-secret")

	signed, err := s.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	require.True(t, s.IsValid(signed, "alice"))
	require.False(t, s.IsValid(signed, "bob"))
}

func TestIssue_EmptySubject(t *testing.T) {
	s, _ := newTestService("test-secret")

	_, err := s.Issue("")
	require.ErrorIs(t, err, ErrEmptySubject)
}

func TestSubjectOf(t *testing.T) {
	s, _ := newTestService("test-secret")

	signed, err := s.Issue("alice")
	require.NoError(t, err)

	subject, err := s.SubjectOf(signed)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)
}

func TestSubjectOf_Malformed(t *testing.T) {
	s, _ := newTestService("test-secret")

	_, err := s.SubjectOf("not-a-token")
	require.ErrorIs(t, err, ErrMalformedToken)
}

func TestSubjectOf_WrongKey(t *testing.T) {
	s, _ := newTestService("test-secret")
	other, _ := newTestService("different-secret")

	signed, err := other.Issue("alice")
	require.NoError(t, err)

	_, err = s.SubjectOf(signed)
	require.ErrorIs(t, err, ErrMalformedToken)

	require.False(t, s.IsValid(signed, "alice"))
}

func TestIsValid_Expiry(t *testing.T) {
	s, clock := newTestService("test-secret")

	signed, err := s.Issue("alice")
	require.NoError(t, err)
	require.True(t, s.IsValid(signed, "alice"))

	// One second shy of the TTL the token is still good.
	*clock = clock.Add(time.Hour - time.Second)
	require.True(t, s.IsValid(signed, "alice"))

	// Validity ends exactly at the expiry instant.
	*clock = clock.Add(time.Second)
	require.False(t, s.IsValid(signed, "alice"))
}

func TestSubjectOf_ExpiredTokenStillParses(t *testing.T) {
	s, clock := newTestService("test-secret")

	signed, err := s.Issue("alice")
	require.NoError(t, err)

	*clock = clock.Add(2 * time.Hour)
	require.False(t, s.IsValid(signed, "alice"))

	subject, err := s.SubjectOf(signed)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)
}
