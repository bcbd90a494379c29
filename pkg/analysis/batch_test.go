package analysis

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlbinSjoegren/SPV/internal/metrics"
	"github.com/AlbinSjoegren/SPV/internal/types"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

const catalogue = `ra_j2000,dec_j2000,hip,name,pm_ra_j2000,pm_dec_j2000,plx_j2000,rv_j2000,vmag_j2000
269.45207,4.69339,87937,Barnard's Star,-798.58,10328.12,548.31,-110.6,9.54
0,0,1,Unit,0,0,1000,0,
10,10,2,Zero Parallax,0,0,0,0,5
abc,10,3,Broken,0,0,10,0,5
1,2,4
`

func writeCatalogue(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCatalogue(t *testing.T) {
	records, skipped, err := ReadCatalogue(strings.NewReader(catalogue), testLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, skipped)
	require.Len(t, records, 3)
	assert.Equal(t, types.StarRecord{
		Line:              2,
		HIP:               87937,
		Name:              "Barnard's Star",
		RightAscensionDeg: 269.45207,
		DeclinationDeg:    4.69339,
		ProperMotionRA:    -798.58,
		ProperMotionDec:   10328.12,
		ParallaxMas:       548.31,
		RadialVelocityKmS: -110.6,
		VisualMagnitude:   9.54,
	}, records[0])
	assert.Equal(t, "Unit", records[1].Name)
	assert.Zero(t, records[1].VisualMagnitude)
}

func TestReadCatalogueWithoutHeader(t *testing.T) {
	in := "0,0,1,Unit,0,0,1000,0,1\n"
	records, skipped, err := ReadCatalogue(strings.NewReader(in), testLogger())
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Line)
	assert.Equal(t, 1000.0, records[0].ParallaxMas)
}

func TestReadCatalogueReorderedHeader(t *testing.T) {
	in := "name,hip,plx_j2000,ra_j2000,dec_j2000,pm_ra_j2000,pm_dec_j2000,rv_j2000,vmag_j2000\n" +
		"Unit,7,1000,15,-20,1,2,3,4\n"
	records, _, err := ReadCatalogue(strings.NewReader(in), testLogger())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Unit", rec.Name)
	assert.Equal(t, uint32(7), rec.HIP)
	assert.Equal(t, 1000.0, rec.ParallaxMas)
	assert.Equal(t, 15.0, rec.RightAscensionDeg)
	assert.Equal(t, -20.0, rec.DeclinationDeg)
	assert.Equal(t, 3.0, rec.RadialVelocityKmS)
}

func TestParseRecordErrors(t *testing.T) {
	_, err := parseRecord([]string{"1", "2"}, positional(), 1, testLogger())
	assert.ErrorIs(t, err, validation.ErrInvalidRecord)

	_, err = parseRecord([]string{"1", "2", "-5", "x", "0", "0", "1", "0"}, positional(), 1, testLogger())
	assert.ErrorIs(t, err, validation.ErrInvalidRecord)
}

func TestParseRecordMalformedMagnitude(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rec, err := parseRecord([]string{"1", "2", "3", "Dim", "0", "0", "10", "0", "bright"}, positional(), 7, logger)
	require.NoError(t, err)
	assert.Zero(t, rec.VisualMagnitude)
	assert.Contains(t, buf.String(), "ignoring malformed vmag_j2000")
	assert.Contains(t, buf.String(), "line=7")
	assert.Contains(t, buf.String(), "value=bright")
}

func TestReadCatalogueHeaderAfterBrokenLine(t *testing.T) {
	in := "a\"b,c\n" +
		"ra_j2000,dec_j2000,hip,name,pm_ra_j2000,pm_dec_j2000,plx_j2000,rv_j2000,vmag_j2000\n" +
		"0,0,1,Unit,0,0,1000,0,1\n"
	records, skipped, err := ReadCatalogue(strings.NewReader(in), testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "Unit", records[0].Name)
	assert.Equal(t, 3, records[0].Line)
}

func TestReadCataloguePhysicalLineNumbers(t *testing.T) {
	in := "0,0,1,\"Two\nLines\",0,0,1000,0,1\n" +
		"0,0,2,Next,0,0,1000,0,1\n"
	records, _, err := ReadCatalogue(strings.NewReader(in), testLogger())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Line)
	assert.Equal(t, "Two\nLines", records[0].Name)
	assert.Equal(t, 3, records[1].Line)
}

func TestRunSkipsNonFiniteStates(t *testing.T) {
	input := writeCatalogue(t, "0,0,1,Far,0,0,1e-320,0,1\n0,0,2,Unit,0,0,1000,0,1\n")
	output := filepath.Join(t.TempDir(), "states.jsonl")

	summary, err := NewPipeline(1, MilliarcsecPerYear, testLogger()).Run(context.Background(), input, output)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RowsWritten)
	assert.Equal(t, 1, summary.RowsSkipped)
}

func TestRunReportsFailedOutput(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	input := writeCatalogue(t, "0,0,1,Unit,0,0,1000,0,1\n")
	output := filepath.Join(t.TempDir(), "states.jsonl")
	require.NoError(t, os.Symlink("/dev/full", output))

	_, err := NewPipeline(1, MilliarcsecPerYear, testLogger()).Run(context.Background(), input, output)
	assert.Error(t, err)
}

func TestObservationProperMotionUnit(t *testing.T) {
	rec := types.StarRecord{ProperMotionRA: 1500, ProperMotionDec: -250}

	o := Observation(rec, MilliarcsecPerYear)
	assert.Equal(t, 1.5, o.ProperMotionRAArcsecPerYr)
	assert.Equal(t, -0.25, o.ProperMotionDecArcsecPerYr)

	o = Observation(rec, ArcsecPerYear)
	assert.Equal(t, 1500.0, o.ProperMotionRAArcsecPerYr)
}

func TestParseProperMotionUnit(t *testing.T) {
	u, err := ParseProperMotionUnit("")
	require.NoError(t, err)
	assert.Equal(t, MilliarcsecPerYear, u)

	u, err = ParseProperMotionUnit("arcsec/yr")
	require.NoError(t, err)
	assert.Equal(t, ArcsecPerYear, u)

	_, err = ParseProperMotionUnit("furlongs")
	assert.Error(t, err)
}

func TestPipelineRun(t *testing.T) {
	input := writeCatalogue(t, catalogue)
	output := filepath.Join(t.TempDir(), "out", "states.csv")

	written := testutil.ToFloat64(metrics.BatchRows(metrics.OutcomeWritten))
	skipped := testutil.ToFloat64(metrics.BatchRows(metrics.OutcomeSkipped))

	p := NewPipeline(2, MilliarcsecPerYear, testLogger())
	summary, err := p.Run(context.Background(), input, output)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.RowsRead)
	assert.Equal(t, 2, summary.RowsWritten)
	assert.Equal(t, 3, summary.RowsSkipped)
	assert.InDelta(t, (1000/548.31+1)/2, summary.MeanDistancePc, 1e-6)
	assert.InDelta(t, 142.4/2, summary.MeanSpeedKmS, 1.0)
	assert.Greater(t, summary.StdDistancePc, 0.0)

	assert.Equal(t, written+2, testutil.ToFloat64(metrics.BatchRows(metrics.OutcomeWritten)))
	assert.Equal(t, skipped+3, testutil.ToFloat64(metrics.BatchRows(metrics.OutcomeSkipped)))

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"hip", "name", "x", "y", "z", "vx", "vy", "vz"}, rows[0])
	assert.Equal(t, "87937", rows[1][0])
	assert.Equal(t, []string{"1", "Unit"}, rows[2][:2])
	assert.Equal(t, []string{"0", "0", "0"}, rows[2][5:])
}

func TestProcessPreservesOrder(t *testing.T) {
	records := make([]types.StarRecord, 200)
	for i := range records {
		records[i] = types.StarRecord{HIP: uint32(i), ParallaxMas: float64(i + 1), RightAscensionDeg: float64(i)}
	}
	records[17].ParallaxMas = 0

	p := NewPipeline(8, MilliarcsecPerYear, testLogger())
	outcomes, err := p.Process(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, outcomes, len(records))

	for i, o := range outcomes {
		if i == 17 {
			assert.ErrorIs(t, o.Err, validation.ErrInvalidParallax)
			continue
		}
		require.NoError(t, o.Err)
		assert.Equal(t, uint32(i), o.State.HIP)
	}
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(1, MilliarcsecPerYear, testLogger())
	_, err := p.Process(ctx, []types.StarRecord{{ParallaxMas: 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunMissingInput(t *testing.T) {
	p := NewPipeline(1, MilliarcsecPerYear, testLogger())
	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), "out.csv")
	assert.Error(t, err)
}

func TestSummarizeSingleState(t *testing.T) {
	var s types.BatchSummary
	Summarize(&s, []types.StarState{{}})
	assert.Zero(t, s.StdDistancePc)
	assert.Zero(t, s.StdSpeedKmS)
}
