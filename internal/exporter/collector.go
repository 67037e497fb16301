// Package exporter exposes CVP inventory state as Prometheus metrics.
package exporter

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cvp-getconfig/internal/client"
	"cvp-getconfig/pkg/models"
)

// API is the part of the CVP client the collector uses.
type API interface {
	Login(ctx context.Context) (string, error)
	GetDevices(ctx context.Context) ([]models.Device, error)
}

var _ API = (*client.CVPClient)(nil)

var (
	upDesc = prometheus.NewDesc(
		"cvp_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"cvp_scrape_duration_seconds", "Time taken to scrape the CVP API.", nil, nil,
	)
	devicesCountDesc = prometheus.NewDesc(
		"cvp_devices_total", "Number of provisioned devices.", nil, nil,
	)
	deviceInfoDesc = prometheus.NewDesc(
		"cvp_device_info", "Provisioned device, value is always 1.", []string{"hostname", "ip", "mac", "model", "version"}, nil,
	)
	deviceStreamingDesc = prometheus.NewDesc(
		"cvp_device_streaming", "Telemetry streaming status (1=active).", []string{"hostname", "mac"}, nil,
	)
)

// Collector scrapes CVP on every Prometheus collection.
type Collector struct {
	Client API
	Mutex  sync.Mutex
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- devicesCountDesc
	ch <- deviceInfoDesc
	ch <- deviceStreamingDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()
	success := 1.0

	if devices, err := c.fetchDevicesWithRetry(context.Background()); err == nil {
		ch <- prometheus.MustNewConstMetric(devicesCountDesc, prometheus.GaugeValue, float64(len(devices)))
		for _, d := range devices {
			ip := d.IPAddress
			if ip == "" {
				ip = "unknown"
			}
			ch <- prometheus.MustNewConstMetric(deviceInfoDesc, prometheus.GaugeValue, 1,
				d.Hostname, ip, d.SystemMacAddress, d.ModelName, d.Version)

			streaming := 0.0
			if strings.EqualFold(d.StreamingStatus, "active") {
				streaming = 1.0
			}
			ch <- prometheus.MustNewConstMetric(deviceStreamingDesc, prometheus.GaugeValue, streaming, d.Hostname, d.SystemMacAddress)
		}
	} else {
		success = 0.0
		log.Printf("Error scraping devices: %v", err)
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// fetchDevicesWithRetry logs in again once when the session has expired.
func (c *Collector) fetchDevicesWithRetry(ctx context.Context) ([]models.Device, error) {
	res, err := c.Client.GetDevices(ctx)
	if err == nil {
		return res, nil
	}
	if client.IsAuthError(err) {
		if _, e := c.Client.Login(ctx); e == nil {
			return c.Client.GetDevices(ctx)
		}
	}
	return nil, err
}
