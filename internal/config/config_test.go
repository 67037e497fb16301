package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s := Load(v)
	require.Equal(t, "ALL", s.Device)
	require.Equal(t, "0", s.Verbose)
	require.True(t, s.Insecure)
	require.Equal(t, 5*time.Second, s.LoginTimeout)
	require.Equal(t, ".", s.OutputDir)
	require.Zero(t, s.RetryCount)
	require.Equal(t, time.Second, s.RetryWait)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cvp.yaml")
	data := []byte("cvphost: cvp.lab.local\nuser: cvpadmin\ninsecure: false\nlogin-timeout: 2s\nretry-count: 3\noutput-dir: /tmp/configs\n")
	require.NoError(t, os.WriteFile(path, data, 0600))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	s := Load(v)
	require.Equal(t, "cvp.lab.local", s.Host)
	require.Equal(t, "cvpadmin", s.User)
	require.False(t, s.Insecure)
	require.Equal(t, 2*time.Second, s.LoginTimeout)
	require.Equal(t, 3, s.RetryCount)
	require.Equal(t, "/tmp/configs", s.OutputDir)
	require.Equal(t, "ALL", s.Device)
}

func TestResolvePassword(t *testing.T) {
	t.Run("given", func(t *testing.T) {
		s := Settings{Password: "secret"}
		called := false
		require.NoError(t, s.ResolvePassword(func(string) (string, error) {
			called = true
			return "", nil
		}))
		require.False(t, called)
		require.Equal(t, "secret", s.Password)
	})

	t.Run("prompted", func(t *testing.T) {
		var s Settings
		require.NoError(t, s.ResolvePassword(func(prompt string) (string, error) {
			require.Equal(t, "CVP Password: ", prompt)
			return "typed", nil
		}))
		require.Equal(t, "typed", s.Password)
	})

	t.Run("prompt fails", func(t *testing.T) {
		var s Settings
		err := s.ResolvePassword(func(string) (string, error) { return "", ErrNoTerminal })
		require.True(t, errors.Is(err, ErrNoTerminal))
	})
}

func TestMissing(t *testing.T) {
	v := viper.New()
	SetupEnv(v)
	SetDefaults(v)
	require.Equal(t, []string{KeyHost, KeyUser}, Missing(v))

	t.Setenv("CVP_CVPHOST", "cvp.lab.local")
	require.Equal(t, []string{KeyUser}, Missing(v))

	t.Setenv("CVP_USER", "cvpadmin")
	require.Empty(t, Missing(v))
	require.Equal(t, "cvp.lab.local", Load(v).Host)
}

func TestSetupEnv_DashedKeys(t *testing.T) {
	t.Setenv("CVP_LOGIN_TIMEOUT", "3s")
	t.Setenv("CVP_RETRY_COUNT", "2")

	v := viper.New()
	SetupEnv(v)
	SetDefaults(v)

	s := Load(v)
	require.Equal(t, 3*time.Second, s.LoginTimeout)
	require.Equal(t, 2, s.RetryCount)
}
