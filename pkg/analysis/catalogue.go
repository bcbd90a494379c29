package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/AlbinSjoegren/SPV/internal/types"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/astrometry"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
)

// Columns is the catalogue layout in positional order.
var Columns = []string{
	"ra_j2000", "dec_j2000", "hip", "name",
	"pm_ra_j2000", "pm_dec_j2000", "plx_j2000", "rv_j2000", "vmag_j2000",
}

const (
	colRA = iota
	colDec
	colHIP
	colName
	colPMRA
	colPMDec
	colPlx
	colRV
	colVmag
	numColumns
)

// requiredColumns must be present in every row; vmag is optional.
const requiredColumns = colVmag

// ProperMotionUnit is the unit of the catalogue proper-motion columns.
type ProperMotionUnit string

const (
	MilliarcsecPerYear ProperMotionUnit = "mas/yr"
	ArcsecPerYear      ProperMotionUnit = "arcsec/yr"
)

// ParseProperMotionUnit accepts the names used in configuration.
func ParseProperMotionUnit(s string) (ProperMotionUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mas/yr", "mas":
		return MilliarcsecPerYear, nil
	case "arcsec/yr", "arcsec", "as/yr":
		return ArcsecPerYear, nil
	}
	return "", fmt.Errorf("unknown proper motion unit %q", s)
}

func (u ProperMotionUnit) toArcsec(v float64) float64 {
	if u == ArcsecPerYear {
		return v
	}
	return v / 1000
}

// Observation converts a catalogue record to calculator units.
func Observation(rec types.StarRecord, pm ProperMotionUnit) astrometry.Observation {
	return astrometry.Observation{
		ParallaxMas:                rec.ParallaxMas,
		RightAscensionDeg:          rec.RightAscensionDeg,
		DeclinationDeg:             rec.DeclinationDeg,
		ProperMotionRAArcsecPerYr:  pm.toArcsec(rec.ProperMotionRA),
		ProperMotionDecArcsecPerYr: pm.toArcsec(rec.ProperMotionDec),
		RadialVelocityKmS:          rec.RadialVelocityKmS,
	}
}

// columnIndex maps a catalogue column to its position in a row.
type columnIndex [numColumns]int

func positional() columnIndex {
	var idx columnIndex
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// headerIndex reads a header row. It reports false when the row is data.
func headerIndex(row []string) (columnIndex, bool) {
	if len(row) == 0 {
		return columnIndex{}, false
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64); err == nil {
		return columnIndex{}, false
	}

	idx := positional()
	names := make(map[string]int, len(row))
	for i, name := range row {
		names[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for c, name := range Columns {
		if i, ok := names[name]; ok {
			idx[c] = i
		}
	}
	return idx, true
}

// ReadCatalogue reads star records from r. A header row is detected and
// used to locate columns by name; it may follow rows that fail to parse but
// not data rows. Rows that cannot be parsed are logged with their physical
// line number and counted in skipped.
func ReadCatalogue(r io.Reader, logger *slog.Logger) (records []types.StarRecord, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	idx := positional()
	headerAllowed := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Warn("skipping record", "line", perr.StartLine, "error", err)
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("failed to read catalogue: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if headerAllowed {
			headerAllowed = false
			if h, ok := headerIndex(row); ok {
				idx = h
				continue
			}
		}

		rec, err := parseRecord(row, idx, line, logger)
		if err != nil {
			logger.Warn("skipping record", "line", line, "error", err)
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func parseRecord(row []string, idx columnIndex, line int, logger *slog.Logger) (types.StarRecord, error) {
	rec := types.StarRecord{Line: line}

	field := func(c int) (string, bool) {
		i := idx[c]
		if i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}
	parseFloat := func(c int) (float64, error) {
		s, ok := field(c)
		if !ok || s == "" {
			return 0, errorsmod.Wrapf(validation.ErrInvalidRecord, "missing %s", Columns[c])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errorsmod.Wrapf(validation.ErrInvalidRecord, "invalid %s: %v", Columns[c], err)
		}
		return v, nil
	}

	if len(row) < requiredColumns {
		return rec, errorsmod.Wrapf(validation.ErrInvalidRecord,
			"expected at least %d fields, got %d", requiredColumns, len(row))
	}

	var err error
	if rec.RightAscensionDeg, err = parseFloat(colRA); err != nil {
		return rec, err
	}
	if rec.DeclinationDeg, err = parseFloat(colDec); err != nil {
		return rec, err
	}
	if s, _ := field(colHIP); s != "" {
		hip, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return rec, errorsmod.Wrapf(validation.ErrInvalidRecord, "invalid hip: %v", err)
		}
		rec.HIP = uint32(hip)
	}
	rec.Name, _ = field(colName)
	if rec.ProperMotionRA, err = parseFloat(colPMRA); err != nil {
		return rec, err
	}
	if rec.ProperMotionDec, err = parseFloat(colPMDec); err != nil {
		return rec, err
	}
	if rec.ParallaxMas, err = parseFloat(colPlx); err != nil {
		return rec, err
	}
	if rec.RadialVelocityKmS, err = parseFloat(colRV); err != nil {
		return rec, err
	}

	// Optional; a malformed magnitude leaves the field unset.
	if s, ok := field(colVmag); ok && s != "" {
		vmag, err := strconv.ParseFloat(s, 64)
		if err != nil {
			logger.Debug("ignoring malformed vmag_j2000", "line", line, "value", s)
		} else {
			rec.VisualMagnitude = vmag
		}
	}
	return rec, nil
}
