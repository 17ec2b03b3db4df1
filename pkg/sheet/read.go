// Package sheet reads update files and writes export files. Both are flat
// tables with a header row; CSV is the interchange format, JSON and YAML
// are offered for exports.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/merakisync/merakisync/pkg/model"
	"github.com/merakisync/merakisync/pkg/util"
)

// Update file columns. Only ColSerial is required.
const (
	ColSerial    = "serial"
	ColName      = "name"
	ColTags      = "tags"
	ColLat       = "lat"
	ColLng       = "lng"
	ColAddress   = "address"
	ColNetworkID = "network_id"
)

// Header describes which update columns a file carries.
type Header struct {
	index map[string]int
}

// Has reports whether the file has column name.
func (h Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// ReadUpdatesFile reads an update file from path.
func ReadUpdatesFile(path string) ([]model.UpdateRow, Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Header{}, err
	}
	defer f.Close()
	return ReadUpdates(f)
}

// ReadUpdates parses an update table. The header is matched case-insensitively
// and unknown columns (for example mac or model in a re-used export) are
// ignored. The serial and network_id keys are trimmed; attribute cells are
// kept verbatim and only an empty cell means "leave unchanged".
func ReadUpdates(r io.Reader) ([]model.UpdateRow, Header, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headerRec, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, Header{}, util.NewParseError(0, "update file is empty")
	}
	if err != nil {
		return nil, Header{}, wrapCSVError(err)
	}

	h := Header{index: make(map[string]int, len(headerRec))}
	for i, col := range headerRec {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		name := strings.ToLower(strings.TrimSpace(col))
		if _, dup := h.index[name]; dup && name != "" {
			return nil, Header{}, util.NewParseError(1, "duplicate column %q", name)
		}
		h.index[name] = i
	}
	if !h.Has(ColSerial) {
		return nil, Header{}, util.NewParseError(1, "missing required column %q", ColSerial)
	}

	var rows []model.UpdateRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Header{}, wrapCSVError(err)
		}
		line, _ := cr.FieldPos(0)

		cell := func(name string) string {
			i, ok := h.index[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		key := func(name string) string {
			return strings.TrimSpace(cell(name))
		}

		rows = append(rows, model.UpdateRow{
			Line:      line,
			Serial:    key(ColSerial),
			Name:      cell(ColName),
			Tags:      cell(ColTags),
			Lat:       cell(ColLat),
			Lng:       cell(ColLng),
			Address:   cell(ColAddress),
			NetworkID: key(ColNetworkID),
		})
	}
	return rows, h, nil
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return util.NewParseError(pe.Line, "%v", pe.Err)
	}
	return fmt.Errorf("reading update file: %w", err)
}
