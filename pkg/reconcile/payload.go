package reconcile

import (
	"github.com/merakisync/merakisync/pkg/model"
)

// Payload is a partial device update. Optional attributes are omitted when
// blank so the API leaves them unchanged; mac and serial are always present
// because the API uses them to validate the target device.
type Payload struct {
	Name    string `json:"name,omitempty"`
	Tags    string `json:"tags,omitempty"`
	Lat     string `json:"lat,omitempty"`
	Lng     string `json:"lng,omitempty"`
	Address string `json:"address,omitempty"`
	MAC     string `json:"mac"`
	Serial  string `json:"serial"`
}

// BuildPayload merges the non-blank attributes of row with the identity of
// the device as currently known to the API. Values are copied verbatim.
func BuildPayload(row model.UpdateRow, current *model.Device) Payload {
	return Payload{
		Name:    row.Name,
		Tags:    row.Tags,
		Lat:     row.Lat,
		Lng:     row.Lng,
		Address: row.Address,
		MAC:     current.MAC,
		Serial:  row.Serial,
	}
}

// Fields returns the keys the payload will carry on the wire.
func (p Payload) Fields() map[string]string {
	out := map[string]string{"mac": p.MAC, "serial": p.Serial}
	for k, v := range map[string]string{
		"name":    p.Name,
		"tags":    p.Tags,
		"lat":     p.Lat,
		"lng":     p.Lng,
		"address": p.Address,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Changes returns only the operator-specified attributes.
func (p Payload) Changes() map[string]string {
	out := p.Fields()
	delete(out, "mac")
	delete(out, "serial")
	return out
}
