package client

import (
	"context"
	"fmt"
	"net/http"

	"cvp-getconfig/pkg/models"
)

// GetDevices fetches every provisioned device known to CVP.
func (c *CVPClient) GetDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetQueryParam("provisioned", "true").
		ForceContentType("application/json").
		SetResult(&devices).
		Get(DevicesPath)

	if err != nil {
		return nil, &TransportError{Host: c.Config.Host, Endpoint: DevicesPath, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{Host: c.Config.Host, Endpoint: DevicesPath, StatusCode: resp.StatusCode()}
	}

	return devices, nil
}

// configResponse uses pointers so absent keys can be told apart from empty ones.
type configResponse struct {
	Output    *string `json:"output"`
	Timestamp *string `json:"deviceConfigTimeStamp"`
}

// GetDeviceConfig fetches the running configuration of one device,
// identified by its systemMacAddress.
func (c *CVPClient) GetDeviceConfig(ctx context.Context, netElementID string) (*models.DeviceConfig, error) {
	var respData configResponse

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetQueryParam("netElementId", netElementID).
		ForceContentType("application/json").
		SetResult(&respData).
		Get(DeviceConfigPath)

	if err != nil {
		return nil, &TransportError{Host: c.Config.Host, Endpoint: DeviceConfigPath, DeviceID: netElementID, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{Host: c.Config.Host, Endpoint: DeviceConfigPath, DeviceID: netElementID, StatusCode: resp.StatusCode()}
	}

	if respData.Output == nil || respData.Timestamp == nil {
		return nil, fmt.Errorf("%w (device %s)", ErrMalformedConfig, netElementID)
	}

	return &models.DeviceConfig{
		Output:    *respData.Output,
		Timestamp: *respData.Timestamp,
	}, nil
}
