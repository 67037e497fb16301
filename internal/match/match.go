// Package match filters the CVP inventory against a device target list.
package match

import (
	"strings"

	"cvp-getconfig/pkg/models"
)

// All is the target spec that selects every device.
const All = "ALL"

// Result holds matched identifiers and hostnames as parallel slices, in match order.
type Result struct {
	IDs       []string
	Hostnames []string
}

// Len returns the number of matches.
func (r Result) Len() int { return len(r.IDs) }

func (r *Result) add(d models.Device) {
	r.IDs = append(r.IDs, d.SystemMacAddress)
	r.Hostnames = append(r.Hostnames, d.Hostname)
}

// IsAll reports whether spec selects every device.
func IsAll(spec string) bool {
	return strings.EqualFold(spec, All)
}

// Targets splits a comma separated spec. Entries are not trimmed.
func Targets(spec string) []string {
	return strings.Split(spec, ",")
}

// Match returns the identifiers and hostnames of the devices selected by spec.
func Match(devices []models.Device, spec string) Result {
	var res Result
	for _, d := range Devices(devices, spec) {
		res.add(d)
	}
	return res
}

// Devices returns the devices selected by spec, in inventory order. A device is
// selected by a target when its hostname equals the target ignoring case, or
// its IP address equals the target exactly. A device selected by several
// targets appears once per target, in target order.
func Devices(devices []models.Device, spec string) []models.Device {
	if IsAll(spec) {
		return devices
	}

	var out []models.Device
	targets := Targets(spec)
	for _, d := range devices {
		for _, t := range targets {
			if selects(d, t) {
				out = append(out, d)
			}
		}
	}
	return out
}

func selects(d models.Device, target string) bool {
	return strings.EqualFold(d.Hostname, target) || d.IPAddress == target
}
