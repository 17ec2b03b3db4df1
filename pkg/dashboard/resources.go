package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/merakisync/merakisync/pkg/model"
	"github.com/merakisync/merakisync/pkg/util"
)

// UpdateResponse is the outcome of a device update that reached the API.
type UpdateResponse struct {
	StatusCode int
	Body       string
}

// OK reports whether the API accepted the update.
func (r *UpdateResponse) OK() bool {
	return r.StatusCode == http.StatusOK
}

// ListOrganizations returns every organization visible to the API key.
func (c *Client) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	if err := c.getJSON(ctx, "organizations/", &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// ListNetworks returns the networks of one organization.
func (c *Client) ListNetworks(ctx context.Context, orgID string) ([]model.Network, error) {
	var nets []model.Network
	path := "organizations/" + url.PathEscape(orgID) + "/networks"
	if err := c.getJSON(ctx, path, &nets); err != nil {
		return nil, err
	}
	return nets, nil
}

// ListDevices returns every device of one network. Results are not paginated.
func (c *Client) ListDevices(ctx context.Context, networkID string) ([]model.Device, error) {
	var devices []model.Device
	if err := c.getJSON(ctx, devicesPath(networkID), &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetDevice fetches the current state of one device. A serial that does not
// exist in the network yields an error matching util.ErrNotFound.
func (c *Client) GetDevice(ctx context.Context, networkID, serial string) (*model.Device, error) {
	var d model.Device
	if err := c.getJSON(ctx, devicePath(networkID, serial), &d); err != nil {
		return nil, err
	}
	if d.Serial == "" && d.MAC == "" {
		return nil, fmt.Errorf("%w: device %s in network %s", util.ErrNotFound, serial, networkID)
	}
	return &d, nil
}

// UpdateDevice sends a partial update. Any status the API answers with is
// returned in the response; only transport failures are errors.
func (c *Client) UpdateDevice(ctx context.Context, networkID, serial string, payload interface{}) (*UpdateResponse, error) {
	resp, err := c.do(ctx, http.MethodPut, devicePath(networkID, serial), payload)
	if err != nil {
		return nil, err
	}
	return &UpdateResponse{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(resp.Body)),
	}, nil
}

func devicesPath(networkID string) string {
	return "networks/" + url.PathEscape(networkID) + "/devices/"
}

func devicePath(networkID, serial string) string {
	return "networks/" + url.PathEscape(networkID) + "/devices/" + url.PathEscape(serial)
}
