package models

// DeviceConfig is the running configuration returned by
// GET /cvpservice/inventory/device/config
type DeviceConfig struct {
	Output    string `json:"output"`
	Timestamp string `json:"deviceConfigTimeStamp"`
}
