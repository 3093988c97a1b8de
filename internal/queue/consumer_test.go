package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestHandleMessageWritesMailLine(t *testing.T) {
	chdirTemp(t)

	ev := PasswordResetRequestedEvent{
		UserID:   3,
		Email:    "wes@example.com",
		Name:     "Wes",
		ResetURL: "http://localhost:8080/account/reset/deadbeef",
	}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, handleMessage(body))
	require.NoError(t, handleMessage(body)) // appends, does not truncate

	data, err := os.ReadFile(filepath.Join("logs", "mail.log"))
	require.NoError(t, err)
	lines := string(data)
	assert.Contains(t, lines, `to="wes@example.com"`)
	assert.Contains(t, lines, "http://localhost:8080/account/reset/deadbeef")
	assert.Equal(t, 2, countLines(lines))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	chdirTemp(t)

	err := handleMessage([]byte("not json"))
	require.Error(t, err)
	_, statErr := os.Stat("logs")
	assert.True(t, os.IsNotExist(statErr)) // nothing written for bad input
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}
