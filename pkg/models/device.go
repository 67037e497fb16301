package models

// Device represents a single provisioned device as returned by
// GET /cvpservice/inventory/devices
type Device struct {
	Hostname         string `json:"hostname"`
	IPAddress        string `json:"ipAddress"`
	SystemMacAddress string `json:"systemMacAddress"` // netElementId for config lookups

	// Descriptive fields, not required by the config pipeline
	FQDN            string `json:"fqdn,omitempty"`
	SerialNumber    string `json:"serialNumber,omitempty"`
	ModelName       string `json:"modelName,omitempty"`
	Version         string `json:"version,omitempty"`
	StreamingStatus string `json:"streamingStatus,omitempty"` // "active" / "inactive"
	Status          string `json:"status,omitempty"`          // e.g. "Registered"
	ComplianceCode  string `json:"complianceCode,omitempty"`
}
