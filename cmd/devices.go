package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cvp-getconfig/internal/config"
	"cvp-getconfig/internal/logging"
	"cvp-getconfig/internal/match"
	"cvp-getconfig/pkg/models"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List provisioned devices selected by --device",
	Example: `  cvp-getconfig devices -c cvp.lab.local -u cvpadmin
  cvp-getconfig devices -c cvp.lab.local -u cvpadmin -d leaf1,leaf2 --json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := config.Load(viper.GetViper())
		level, _ := logging.ParseLevel(s.Verbose)

		api, err := login(cmd.Context(), &s, logging.New(cmd.ErrOrStderr(), level))
		if err != nil {
			fatal(err)
		}

		devices, err := api.GetDevices(cmd.Context())
		if err != nil {
			fatal(err)
		}

		if err := printDevices(cmd.OutOrStdout(), match.Devices(devices, s.Device), jsonOutput); err != nil {
			fatal(err)
		}
	},
}

func printDevices(out io.Writer, devices []models.Device, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(devices); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	}

	if len(devices) == 0 {
		fmt.Fprintln(out, "No matching devices.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "HOSTNAME\tIP\tMAC\tMODEL\tVERSION\tSTREAMING")
	fmt.Fprintln(w, "--------\t--\t---\t-----\t-------\t---------")

	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Hostname,
			d.IPAddress,
			d.SystemMacAddress,
			d.ModelName,
			d.Version,
			d.StreamingStatus,
		)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
