// Package model defines the dashboard resources this tool reads and patches.
package model

// Organization is the root of a management hierarchy.
type Organization struct {
	ID   FlexString `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`
}

// Network is a named group of devices owned by one organization.
type Network struct {
	ID             FlexString `json:"id" yaml:"id"`
	OrganizationID FlexString `json:"organizationId,omitempty" yaml:"organization_id,omitempty"`
	Name           string     `json:"name" yaml:"name"`
}

// Device is a managed hardware unit. Serial and MAC are immutable.
type Device struct {
	Serial    string     `json:"serial"`
	MAC       string     `json:"mac"`
	Name      string     `json:"name"`
	Tags      Tags       `json:"tags"`
	Lat       FlexString `json:"lat"`
	Lng       FlexString `json:"lng"`
	Address   string     `json:"address"`
	Model     string     `json:"model"`
	NetworkID string     `json:"networkId"`
}

// ExportColumns is the fixed column order of an export file.
var ExportColumns = []string{"serial", "name", "tags", "lat", "lng", "address", "mac", "model", "network_id"}

// ExportRow is the flat projection of a Device written to an export file.
// Any device attribute outside these fields is dropped.
type ExportRow struct {
	Serial    string `json:"serial" yaml:"serial"`
	Name      string `json:"name" yaml:"name"`
	Tags      string `json:"tags" yaml:"tags"`
	Lat       string `json:"lat" yaml:"lat"`
	Lng       string `json:"lng" yaml:"lng"`
	Address   string `json:"address" yaml:"address"`
	MAC       string `json:"mac" yaml:"mac"`
	Model     string `json:"model" yaml:"model"`
	NetworkID string `json:"network_id" yaml:"network_id"`
}

// NewExportRow projects d, stamped with the network it was listed from.
func NewExportRow(d Device, networkID string) ExportRow {
	return ExportRow{
		Serial:    d.Serial,
		Name:      d.Name,
		Tags:      d.Tags.String(),
		Lat:       d.Lat.String(),
		Lng:       d.Lng.String(),
		Address:   d.Address,
		MAC:       d.MAC,
		Model:     d.Model,
		NetworkID: networkID,
	}
}

// Values returns the row's cells in ExportColumns order.
func (r ExportRow) Values() []string {
	return []string{r.Serial, r.Name, r.Tags, r.Lat, r.Lng, r.Address, r.MAC, r.Model, r.NetworkID}
}

// UpdateRow is one operator-authored line of an update file. Blank optional
// fields mean "leave this attribute unchanged".
type UpdateRow struct {
	Line      int
	Serial    string
	Name      string
	Tags      string
	Lat       string
	Lng       string
	Address   string
	NetworkID string
}
