package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cvp-getconfig/internal/client"
	"cvp-getconfig/internal/config"
	"cvp-getconfig/internal/configfile"
	"cvp-getconfig/internal/getconfig"
	"cvp-getconfig/internal/logging"
)

var cfgFile string
var jsonOutput bool

// prompt is replaced in tests.
var prompt config.PromptFunc = config.TerminalPrompt

// rootCmd retrieves running configs when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cvp-getconfig",
	Short: "Retrieve running configurations of CVP managed devices",
	Long: `Logs in to a CVP server, selects provisioned devices by hostname or IP
address and writes each running configuration to <hostname>-<timestamp>.cvpcfg.`,
	Example: `  cvp-getconfig -c cvp.lab.local -u cvpadmin
  cvp-getconfig -c 10.0.0.5 -u cvpadmin -p secret -d leaf1,10.0.0.12 -v 1`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !skipsSettings(cmd) {
			if err := requireSettings(viper.GetViper()); err != nil {
				return err
			}
		}
		_, err := logging.ParseLevel(viper.GetString(config.KeyVerbose))
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		s := config.Load(viper.GetViper())
		if err := runGetConfig(cmd.Context(), s, cmd.OutOrStdout()); err != nil {
			fatal(err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// requireSettings fails like a missing required flag when cvphost or user
// is set by neither flag, CVP_ variable nor config file.
func requireSettings(v *viper.Viper) error {
	missing := config.Missing(v)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf(`required flag(s) "%s" not set`, strings.Join(missing, `", "`))
}

// skipsSettings is true for cobra's help and shell completion commands.
func skipsSettings(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// fatal prints a tagged diagnostic and exits non-zero.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s%v\n", logging.Tag, err)
	os.Exit(1)
}

// login builds a CVP client from s and authenticates it.
func login(ctx context.Context, s *config.Settings, log *logging.Logger) (*client.CVPClient, error) {
	if err := s.ResolvePassword(prompt); err != nil {
		return nil, err
	}

	api := client.New(client.ClientConfig{
		Host:               s.Host,
		Username:           s.User,
		Password:           s.Password,
		InsecureSkipVerify: s.Insecure,
		LoginTimeout:       s.LoginTimeout,
		RetryCount:         s.RetryCount,
		RetryWait:          s.RetryWait,
	})

	log.Debugf("login to %s as %s", client.BaseURL(s.Host), s.User)
	if _, err := api.Login(ctx); err != nil {
		return nil, err
	}
	return api, nil
}

func runGetConfig(ctx context.Context, s config.Settings, out io.Writer) error {
	level, err := logging.ParseLevel(s.Verbose)
	if err != nil {
		return err
	}
	log := logging.New(out, level)

	api, err := login(ctx, &s, log)
	if err != nil {
		return err
	}

	runner := &getconfig.Runner{
		Source: api,
		Writer: &configfile.Writer{Dir: s.OutputDir},
		Log:    log,
	}
	_, err = runner.Run(ctx, s.Device)
	return err
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cvp-getconfig.yaml)")
	flags.BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	flags.StringP(config.KeyHost, "c", "", "CVP host name FQDN or IP")
	flags.StringP(config.KeyUser, "u", "", "CVP username")
	flags.StringP(config.KeyPassword, "p", "", "CVP password, prompted if omitted")
	flags.StringP(config.KeyDevice, "d", "ALL", "Target devices IP(s) or hostname(s), -d leaf1[,leaf2]")
	flags.StringP(config.KeyVerbose, "v", "0", "Verbose level 0, 1 or 2")

	flags.Bool(config.KeyInsecure, true, "Skip TLS certificate verification")
	flags.Duration(config.KeyLoginTimeout, 0, "Timeout of the login request (default 5s)")
	flags.String(config.KeyOutputDir, ".", "Directory for .cvpcfg files")
	flags.Int(config.KeyRetryCount, 0, "Retries on connection failures (0 disables)")
	flags.Duration(config.KeyRetryWait, 0, "Wait between retries (default 1s)")

	for _, key := range []string{
		config.KeyHost, config.KeyUser, config.KeyPassword, config.KeyDevice, config.KeyVerbose,
		config.KeyInsecure, config.KeyLoginTimeout, config.KeyOutputDir, config.KeyRetryCount, config.KeyRetryWait,
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}
