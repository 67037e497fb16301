package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Setting keys, shared by flags, CVP_* environment variables and the config file.
const (
	KeyHost         = "cvphost"
	KeyUser         = "user"
	KeyPassword     = "password"
	KeyDevice       = "device"
	KeyVerbose      = "verbose"
	KeyInsecure     = "insecure"
	KeyLoginTimeout = "login-timeout"
	KeyOutputDir    = "output-dir"
	KeyRetryCount   = "retry-count"
	KeyRetryWait    = "retry-wait"
)

// Settings is the resolved configuration of one run.
type Settings struct {
	Host         string
	User         string
	Password     string
	Device       string
	Verbose      string
	Insecure     bool
	LoginTimeout time.Duration
	OutputDir    string
	RetryCount   int
	RetryWait    time.Duration
}

// InitConfig reads in .env, config file and ENV variables if set.
func InitConfig(cfgFile string) {
	// A missing .env is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".cvp-getconfig" (without extension).
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".cvp-getconfig")
	}

	SetupEnv(viper.GetViper())
	SetDefaults(viper.GetViper())

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: could not read config file %s: %v\n", cfgFile, err)
		}
	}
}

// SetupEnv makes every key readable from a CVP_ variable, e.g. login-timeout from CVP_LOGIN_TIMEOUT.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("CVP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Required settings have no default and may come from a flag, CVP_ variable or config file.
var Required = []string{KeyHost, KeyUser}

// Missing returns the required keys that resolve to an empty value.
func Missing(v *viper.Viper) []string {
	var missing []string
	for _, key := range Required {
		if v.GetString(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// SetDefaults registers the default of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDevice, "ALL")
	v.SetDefault(KeyVerbose, "0")
	v.SetDefault(KeyInsecure, true)
	v.SetDefault(KeyLoginTimeout, 5*time.Second)
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyRetryCount, 0)
	v.SetDefault(KeyRetryWait, time.Second)
}

// Load resolves Settings from v.
func Load(v *viper.Viper) Settings {
	return Settings{
		Host:         v.GetString(KeyHost),
		User:         v.GetString(KeyUser),
		Password:     v.GetString(KeyPassword),
		Device:       v.GetString(KeyDevice),
		Verbose:      v.GetString(KeyVerbose),
		Insecure:     v.GetBool(KeyInsecure),
		LoginTimeout: v.GetDuration(KeyLoginTimeout),
		OutputDir:    v.GetString(KeyOutputDir),
		RetryCount:   v.GetInt(KeyRetryCount),
		RetryWait:    v.GetDuration(KeyRetryWait),
	}
}
