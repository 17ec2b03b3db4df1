package model

import (
	"encoding/json"
	"testing"
)

func TestDevice_DecodeLegacyShape(t *testing.T) {
	raw := `{
		"serial": "Q2XX-1111-2222",
		"mac": "00:11:22:33:44:55",
		"name": null,
		"tags": " lobby floor1 ",
		"lat": 37.4180951010362,
		"lng": -122.098531723022,
		"address": "1600 Amphitheatre Pkwy",
		"model": "MR33",
		"networkId": "N_1234",
		"lanIp": "10.0.0.2"
	}`

	var d Device
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d.Name != "" {
		t.Errorf("Name = %q, want empty for null", d.Name)
	}
	if d.Tags != " lobby floor1 " {
		t.Errorf("Tags = %q", d.Tags)
	}
	if d.Lat != "37.4180951010362" {
		t.Errorf("Lat = %q, want exact number text", d.Lat)
	}
	if d.Lng != "-122.098531723022" {
		t.Errorf("Lng = %q", d.Lng)
	}
}

func TestDevice_DecodeArrayTagsAndStringCoords(t *testing.T) {
	raw := `{"serial":"Q2","mac":"aa","tags":["a","b"],"lat":"1.5","lng":null}`

	var d Device
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d.Tags != "a b" {
		t.Errorf("Tags = %q, want %q", d.Tags, "a b")
	}
	if d.Lat != "1.5" || d.Lng != "" {
		t.Errorf("Lat/Lng = %q/%q", d.Lat, d.Lng)
	}
}

func TestFlexString_Rejects(t *testing.T) {
	var f FlexString
	if err := json.Unmarshal([]byte(`{"a":1}`), &f); err == nil {
		t.Error("expected error for object value")
	}
	var tg Tags
	if err := json.Unmarshal([]byte(`12`), &tg); err == nil {
		t.Error("expected error for numeric tags")
	}
}

func TestOrganization_NumericID(t *testing.T) {
	var orgs []Organization
	if err := json.Unmarshal([]byte(`[{"id":549236,"name":"Acme"},{"id":"681155","name":"Beta"}]`), &orgs); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if orgs[0].ID != "549236" || orgs[1].ID != "681155" {
		t.Errorf("IDs = %q, %q", orgs[0].ID, orgs[1].ID)
	}
}

func TestExportRow_Values(t *testing.T) {
	d := Device{
		Serial: "Q2XX-1111-2222", MAC: "00:11:22:33:44:55", Name: "Lobby-AP",
		Tags: " t1 ", Lat: "1.0", Lng: "2.0", Address: "Main St", Model: "MR33",
		NetworkID: "ignored",
	}
	row := NewExportRow(d, "N_1")

	got := row.Values()
	want := []string{"Q2XX-1111-2222", "Lobby-AP", " t1 ", "1.0", "2.0", "Main St", "00:11:22:33:44:55", "MR33", "N_1"}
	if len(got) != len(ExportColumns) {
		t.Fatalf("Values() len = %d, want %d", len(got), len(ExportColumns))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values()[%d] (%s) = %q, want %q", i, ExportColumns[i], got[i], want[i])
		}
	}
}
