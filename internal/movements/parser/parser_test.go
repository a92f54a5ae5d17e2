package parser_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromov/movements-backend/internal/movements/domain"
	"github.com/aeromov/movements-backend/internal/movements/parser"
)

// Fixture lines follow the tower export layout: sequence code [0:9), date
// ddmmyy [9:15), registration [15:22), aircraft type [22:27), destination,
// departure time HHMM, flight rule marker, runway, operator last.
const (
	ifrLine = "SBIZ00001150124PTMAB  C152 SBGR      1430 IV 09  DEP    JSILVA"
	vfrLine = "SBIZ00002150124PPXYZ  R44  LOCAL     0812 VV 27  TRG    MCOSTA"
)

func TestParseLine(t *testing.T) {
	t.Run("parses IFR departure", func(t *testing.T) {
		rec, ok := parser.ParseLine(ifrLine)
		require.True(t, ok)

		assert.Equal(t, "PTMAB", rec.Registration)
		assert.Equal(t, "C152", rec.AircraftType)
		assert.Equal(t, "SBGR", rec.Destination)
		assert.Equal(t, domain.RuleIFR, rec.FlightRule)
		assert.Equal(t, "09", rec.Runway)
		assert.Equal(t, "JSILVA", rec.Operator)

		require.NotNil(t, rec.Timestamp)
		assert.Equal(t, time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC), *rec.Timestamp)
	})

	t.Run("parses VFR movement", func(t *testing.T) {
		rec, ok := parser.ParseLine(vfrLine)
		require.True(t, ok)

		assert.Equal(t, domain.RuleVFR, rec.FlightRule)
		assert.Equal(t, "PPXYZ", rec.Registration)
		assert.Equal(t, "R44", rec.AircraftType)
		assert.Equal(t, "LOCAL", rec.Destination)
		assert.Equal(t, "27", rec.Runway)
		assert.Equal(t, "MCOSTA", rec.Operator)

		require.NotNil(t, rec.Timestamp)
		assert.Equal(t, time.Date(2024, 1, 15, 8, 12, 0, 0, time.UTC), *rec.Timestamp)
	})

	t.Run("skips short lines", func(t *testing.T) {
		_, ok := parser.ParseLine("SBIZ header")
		assert.False(t, ok)
	})

	t.Run("skips station self-reports", func(t *testing.T) {
		line := "SBIZAIZ0" + strings.Repeat("X", 55)
		_, ok := parser.ParseLine(line)
		assert.False(t, ok)
	})

	t.Run("skips blank and whitespace lines", func(t *testing.T) {
		_, ok := parser.ParseLine("   ")
		assert.False(t, ok)
	})

	t.Run("invalid date keeps record without timestamp", func(t *testing.T) {
		line := "SBIZ00003999999PTMAB  C152 SBGR      1430 IV 09  DEP    JSILVA"
		rec, ok := parser.ParseLine(line)
		require.True(t, ok)

		assert.Nil(t, rec.Timestamp)
		assert.Equal(t, "PTMAB", rec.Registration)
		assert.Equal(t, domain.RuleIFR, rec.FlightRule)
		assert.Equal(t, "SBGR", rec.Destination)
	})

	t.Run("line without rule marker keeps fixed fields only", func(t *testing.T) {
		line := "SBIZ00004150124PTMAB  C152 " + strings.Repeat("-", 30) + " JSILVA"
		rec, ok := parser.ParseLine(line)
		require.True(t, ok)

		assert.Equal(t, "PTMAB", rec.Registration)
		assert.Equal(t, "C152", rec.AircraftType)
		assert.Equal(t, domain.FieldAbsent, rec.FlightRule)
		assert.Equal(t, domain.FieldAbsent, rec.Destination)
		assert.Equal(t, "", rec.Runway)
		assert.Equal(t, "JSILVA", rec.Operator)
		assert.Nil(t, rec.Timestamp)
	})

	t.Run("leading and trailing whitespace is ignored", func(t *testing.T) {
		rec, ok := parser.ParseLine("  " + ifrLine + "  ")
		require.True(t, ok)
		assert.Equal(t, "PTMAB", rec.Registration)
		assert.Equal(t, "JSILVA", rec.Operator)
	})
}

func TestParse(t *testing.T) {
	t.Run("parses multi-line file", func(t *testing.T) {
		input := strings.Join([]string{
			"HEADER",
			ifrLine,
			"",
			vfrLine,
			"SBIZAIZ0" + strings.Repeat("X", 55),
		}, "\n")

		records, err := parser.Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, domain.RuleIFR, records[0].FlightRule)
		assert.Equal(t, domain.RuleVFR, records[1].FlightRule)
	})

	t.Run("empty input yields empty slice", func(t *testing.T) {
		records, err := parser.Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("oversized line does not fail the file", func(t *testing.T) {
		// 2 MiB of junk on one line; the rest of the file must still parse.
		input := strings.Join([]string{
			strings.Repeat("X", 2<<20),
			ifrLine,
		}, "\n")

		records, err := parser.Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "PTMAB", records[1].Registration)
	})
}
