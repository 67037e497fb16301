// Package getconfig runs the inventory, match, retrieve and write pipeline.
package getconfig

import (
	"context"

	"cvp-getconfig/internal/configfile"
	"cvp-getconfig/internal/logging"
	"cvp-getconfig/internal/match"
	"cvp-getconfig/pkg/models"
)

// Source is the part of the CVP client the pipeline needs.
type Source interface {
	GetDevices(ctx context.Context) ([]models.Device, error)
	GetDeviceConfig(ctx context.Context, netElementID string) (*models.DeviceConfig, error)
}

// Runner retrieves configs sequentially. The first error aborts the run;
// files already written stay on disk.
type Runner struct {
	Source Source
	Writer *configfile.Writer
	Log    *logging.Logger
}

// Run fetches the inventory, selects devices with spec and writes one file per
// match. It returns the paths written, in match order.
func (r *Runner) Run(ctx context.Context, spec string) ([]string, error) {
	devices, err := r.Source.GetDevices(ctx)
	if err != nil {
		return nil, err
	}
	r.Log.Debugf("%d provisioned devices", len(devices))
	r.Log.Debugf("targets %q", match.Targets(spec))

	if r.Log.DebugEnabled() {
		for _, d := range devices {
			r.Log.Debugf("device %s ip=%s mac=%s", d.Hostname, d.IPAddress, d.SystemMacAddress)
		}
	}

	matched := match.Match(devices, spec)
	r.Log.Debugf("matched ids %v", matched.IDs)
	r.Log.Debugf("matched hostnames %v", matched.Hostnames)

	var written []string
	for i, id := range matched.IDs {
		hostname := matched.Hostnames[i]

		cfg, err := r.Source.GetDeviceConfig(ctx, id)
		if err != nil {
			return written, err
		}
		r.Log.Debugf("Device=%s config", hostname)
		r.Log.Infof("Device config %s retrieved", hostname)

		path, err := r.Writer.Write(hostname, cfg.Timestamp, cfg.Output)
		if err != nil {
			return written, err
		}
		r.Log.Debugf("wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}
