package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLinkSignerIssueAndVerify(t *testing.T) {
	signer := NewLinkSigner("secret", time.Hour)
	token, expiresAt, err := signer.Issue("tt-1", "timetable-spring-v1.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	timetableID, filename, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "tt-1", timetableID)
	require.Equal(t, "timetable-spring-v1.csv", filename)
}

func TestLinkSignerRejectsExpired(t *testing.T) {
	signer := NewLinkSigner("secret", time.Millisecond*10)
	token, _, err := signer.Issue("tt-1", "timetable-spring-v1.csv")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, err = signer.Verify(token)
	require.Error(t, err)
}

func TestLinkSignerRejectsTamperedToken(t *testing.T) {
	signer := NewLinkSigner("secret", time.Hour)
	token, _, err := signer.Issue("tt-1", "timetable-spring-v1.csv")
	require.NoError(t, err)

	_, _, err = signer.Verify("tt-2" + token[4:])
	require.Error(t, err)

	_, _, err = NewLinkSigner("other", time.Hour).Verify(token)
	require.Error(t, err)
}
