package sheet

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/merakisync/merakisync/pkg/model"
	"github.com/merakisync/merakisync/pkg/util"
)

func TestReadUpdates(t *testing.T) {
	in := "\ufeffSerial, Name ,tags,lat,lng,address,network_id,mac\n" +
		"Q2XX-1111-2222,Lobby-AP,,,,,N_1,ignored\n" +
		"\n" +
		" Q2XX-3333-4444 ,  ,\" t1 t2 \",37.4,-122.1,\"1 Main St, Springfield\", N_2 ,\n"

	rows, h, err := ReadUpdates(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, h.Has(ColNetworkID))
	assert.False(t, h.Has("model"))

	assert.Equal(t, model.UpdateRow{Line: 2, Serial: "Q2XX-1111-2222", Name: "Lobby-AP", NetworkID: "N_1"}, rows[0])

	r := rows[1]
	assert.Equal(t, 4, r.Line)
	assert.Equal(t, "Q2XX-3333-4444", r.Serial, "serial key is trimmed")
	assert.Equal(t, "  ", r.Name, "whitespace-only cell is a value, not blank")
	assert.Equal(t, " t1 t2 ", r.Tags)
	assert.Equal(t, "37.4", r.Lat)
	assert.Equal(t, "-122.1", r.Lng)
	assert.Equal(t, "1 Main St, Springfield", r.Address)
	assert.Equal(t, "N_2", r.NetworkID, "network key is trimmed")
}

func TestReadUpdates_SerialOnlyHeader(t *testing.T) {
	rows, h, err := ReadUpdates(strings.NewReader("serial\nQ2\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Q2", rows[0].Serial)
	assert.False(t, h.Has(ColNetworkID))
}

func TestReadUpdates_ShortRowsArePadded(t *testing.T) {
	rows, _, err := ReadUpdates(strings.NewReader("serial,name,tags\nQ2,AP\n"))
	require.NoError(t, err)
	assert.Equal(t, "AP", rows[0].Name)
	assert.Equal(t, "", rows[0].Tags)
}

func TestReadUpdates_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty file", "", "empty"},
		{"missing serial", "name,tags\nAP,\n", `missing required column "serial"`},
		{"duplicate column", "serial,name,Name\nQ2,a,b\n", "duplicate column"},
		{"bad quoting", "serial,name\nQ2,\"unterminated\n", "line"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadUpdates(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, util.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadUpdatesFile_Missing(t *testing.T) {
	_, _, err := ReadUpdatesFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatCSV, "CSV": FormatCSV, "json": FormatJSON, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	assert.Error(t, err)
}

func sampleRows() []model.ExportRow {
	return []model.ExportRow{
		model.NewExportRow(model.Device{Serial: "Q2XX-1111-2222", MAC: "00:11:22:33:44:55", Name: "Lobby-AP", Model: "MR33", Lat: "37.4"}, "N_1"),
		model.NewExportRow(model.Device{Serial: "Q2XX-3333-4444", MAC: "00:11:22:33:44:66", Address: "1 Main St, Springfield", Model: "MS220"}, "N_2"),
	}
}

func TestWrite_CSVFixedColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleRows()))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"serial", "name", "tags", "lat", "lng", "address", "mac", "model", "network_id"}, recs[0])
	assert.Equal(t, []string{"Q2XX-1111-2222", "Lobby-AP", "", "37.4", "", "", "00:11:22:33:44:55", "MR33", "N_1"}, recs[1])
	assert.Equal(t, "1 Main St, Springfield", recs[2][5])
	assert.Equal(t, "N_2", recs[2][8])
}

func TestWrite_ExportReadsBackVerbatim(t *testing.T) {
	rows := []model.ExportRow{
		model.NewExportRow(model.Device{Serial: "Q2XX-1111-2222", MAC: "00:11:22:33:44:55", Name: " Lobby-AP ", Tags: " wifi lobby ", Address: "  "}, "N_1"),
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, rows))

	got, _, err := ReadUpdates(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, " Lobby-AP ", got[0].Name)
	assert.Equal(t, " wifi lobby ", got[0].Tags)
	assert.Equal(t, "  ", got[0].Address)
	assert.Equal(t, "N_1", got[0].NetworkID)
}

func TestWrite_CSVEmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, nil))
	assert.Equal(t, "serial,name,tags,lat,lng,address,mac,model,network_id\n", buf.String())
}

func TestWrite_JSONAndYAML(t *testing.T) {
	var jbuf bytes.Buffer
	require.NoError(t, Write(&jbuf, FormatJSON, sampleRows()))
	var fromJSON []map[string]string
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 2)
	assert.Len(t, fromJSON[0], len(model.ExportColumns))
	assert.Equal(t, "N_1", fromJSON[0]["network_id"])

	var ybuf bytes.Buffer
	require.NoError(t, Write(&ybuf, FormatYAML, sampleRows()))
	var fromYAML []map[string]string
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "MS220", fromYAML[1]["model"])
}

func TestWriteFile_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.csv")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer than the new one\n"+strings.Repeat("x", 2048)), 0600))

	require.NoError(t, WriteFile(path, FormatCSV, sampleRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "serial,name,"))
	assert.NotContains(t, string(data), "old content")
	assert.Equal(t, 3, strings.Count(string(data), "\n"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "devices.csv")
	err := WriteFile(path, FormatCSV, sampleRows())
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
