package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "sk-ant-REDACTED"

func newStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorage(filepath.Join(t.TempDir(), "nested", "auth.json"))
}

func TestStorage_SetGetRemove(t *testing.T) {
	s := newStorage(t)

	c, err := s.Get(ProviderAnthropic)
	require.NoError(t, err)
	assert.Nil(t, c, "missing file means no credential")

	saved := Credential{Type: AuthTypeAPIKey, APIKey: testKey, SavedAt: time.Now().Truncate(time.Second)}
	require.NoError(t, s.Set(ProviderAnthropic, saved))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	c, err = s.Get(ProviderAnthropic)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, testKey, c.APIKey)
	assert.True(t, c.SavedAt.Equal(saved.SavedAt))

	providers, err := s.Providers()
	require.NoError(t, err)
	assert.Equal(t, []string{ProviderAnthropic}, providers)

	removed, err := s.Remove(ProviderAnthropic)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Remove(ProviderAnthropic)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStorage_RejectsEmptyCredential(t *testing.T) {
	s := newStorage(t)
	assert.Error(t, s.Set(ProviderAnthropic, Credential{Type: AuthTypeAPIKey}))
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestStorage_CorruptFile(t *testing.T) {
	s := newStorage(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0600))

	_, err := s.Get(ProviderAnthropic)
	assert.Error(t, err)
}

func TestCredential_Masked(t *testing.T) {
	assert.Equal(t, "sk-ant-...mnop", Credential{APIKey: testKey}.Masked())
	assert.Equal(t, "*****", Credential{APIKey: "short"}.Masked())
}

func TestResolveAPIKey(t *testing.T) {
	s := newStorage(t)

	key, source := ResolveAPIKey("", s)
	assert.Empty(t, key)
	assert.Equal(t, SourceNone, source)

	require.NoError(t, s.Set(ProviderAnthropic, Credential{Type: AuthTypeAPIKey, APIKey: testKey}))
	key, source = ResolveAPIKey("", s)
	assert.Equal(t, testKey, key)
	assert.Equal(t, SourceStored, source)

	key, source = ResolveAPIKey("sk-ant-from-env", s)
	assert.Equal(t, "sk-ant-from-env", key)
	assert.Equal(t, SourceEnv, source)

	key, _ = ResolveAPIKey("", nil)
	assert.Empty(t, key)
}

func TestLogin(t *testing.T) {
	s := newStorage(t)
	var opened string
	var out bytes.Buffer

	c, err := Login(strings.NewReader("  "+testKey+"\n"), &out, s, func(url string) error {
		opened = url
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ConsoleKeysURL, opened)
	assert.Equal(t, testKey, c.APIKey)
	assert.Contains(t, out.String(), "Opened")
	assert.Contains(t, out.String(), c.Masked())

	stored, err := s.Get(ProviderAnthropic)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, testKey, stored.APIKey)
}

func TestLogin_BrowserUnavailable(t *testing.T) {
	s := newStorage(t)
	var out bytes.Buffer

	_, err := Login(strings.NewReader(testKey), &out, s, func(string) error {
		return errors.New("no display")
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Create an API key at")
}

func TestLogin_InvalidKey(t *testing.T) {
	s := newStorage(t)
	noop := func(string) error { return nil }

	for _, input := range []string{"", "hello\n", "sk-ant-\n"} {
		_, err := Login(strings.NewReader(input), &bytes.Buffer{}, s, noop)
		assert.ErrorIs(t, err, ErrInvalidKey, input)
	}
	providers, err := s.Providers()
	require.NoError(t, err)
	assert.Empty(t, providers)
}
