package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mosmix-api/internal/models"
)

const header = "ID    ICAO NAME                 LAT    LON     ELEV\n"

func TestParse_EndToEndSample(t *testing.T) {
	raw := "HEADER\n10147 ---- HAMBURG 53.63 9.99 11\n10184 ---- GREIFSWALD 54.06 13.24 5\n"

	stations := Parse(raw)

	require.Len(t, stations, 2)
	assert.Equal(t, models.Station{
		ID:        "10147",
		ICAO:      "----",
		Name:      "HAMBURG",
		Latitude:  53.63,
		Longitude: 9.99,
		Elevation: 11,
		Active:    true,
	}, stations[0])
	assert.Equal(t, "10184", stations[1].ID)
	assert.Equal(t, "GREIFSWALD", stations[1].Name)
	assert.False(t, stations[1].HasICAO())
}

func TestParse_NameTokenCountDoesNotShiftCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
	}{
		{name: "one word", line: "P0001 EDDB BERLIN 52.38 13.52 47", wantName: "BERLIN"},
		{name: "two words", line: "P0001 EDDB BERLIN BRANDENBURG 52.38 13.52 47", wantName: "BERLIN BRANDENBURG"},
		{name: "three words", line: "P0001 EDDB BERLIN  BRANDENBURG   AIRPORT 52.38 13.52 47", wantName: "BERLIN BRANDENBURG AIRPORT"},
		{name: "tab separated", line: "P0001\tEDDB\tBERLIN\tTXL\t52.38\t13.52\t47", wantName: "BERLIN TXL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stations := Parse(header + tt.line + "\n")

			require.Len(t, stations, 1)
			s := stations[0]
			assert.Equal(t, "P0001", s.ID)
			assert.Equal(t, "EDDB", s.ICAO)
			assert.True(t, s.HasICAO())
			assert.Equal(t, tt.wantName, s.Name)
			assert.Equal(t, 52.38, s.Latitude)
			assert.Equal(t, 13.52, s.Longitude)
			assert.Equal(t, 47.0, s.Elevation)
		})
	}
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	valid := []string{
		"10147 ---- HAMBURG 53.63 9.99 11",
		"10184 ---- GREIFSWALD 54.06 13.24 5",
		"10865 EDDM MUENCHEN FLUGHAFEN 48.35 11.78 446",
	}
	malformed := []string{
		"10001 ---- TOO SHORT",
		"10002 ---- 53.0 9.0",
		"x",
		"10003 ---- BROKEN abc 9.99 11",
		"10004 ---- BROKEN 53.63 east 11",
		"10005 ---- NOTANUMBER NaN 9.99 11",
		"----- ---- -------------------- -----  ------- -----",
	}

	var b strings.Builder
	b.WriteString(header)
	for i := range valid {
		b.WriteString(malformed[i] + "\n")
		b.WriteString(valid[i] + "\n")
		b.WriteString("\n")
	}
	for _, line := range malformed[len(valid):] {
		b.WriteString(line + "\n")
	}

	res := ParseWithStats(b.String())

	require.Len(t, res.Stations, len(valid))
	assert.Equal(t, len(malformed), res.Skipped)
	assert.Equal(t, "10147", res.Stations[0].ID)
	assert.Equal(t, "10184", res.Stations[1].ID)
	assert.Equal(t, "10865", res.Stations[2].ID)
	assert.Equal(t, "MUENCHEN FLUGHAFEN", res.Stations[2].Name)
}

func TestParse_UnparsableElevationKeepsStation(t *testing.T) {
	stations := Parse(header + "10147 ---- HAMBURG 53.63 9.99 n/a\n")

	require.Len(t, stations, 1)
	assert.Equal(t, 0.0, stations[0].Elevation)
}

func TestParse_NegativeElevationAndCRLF(t *testing.T) {
	stations := Parse("HEADER\r\n10028 ---- ST. PETER-ORDING 54.33 8.60 -2\r\n")

	require.Len(t, stations, 1)
	assert.Equal(t, "ST. PETER-ORDING", stations[0].Name)
	assert.Equal(t, -2.0, stations[0].Elevation)
}

func TestParse_EmptyAndHeaderOnly(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse(header))
	assert.Empty(t, Parse("10147 ---- HAMBURG 53.63 9.99 11"), "first line is always the header")
}

func TestScanner_IsRestartable(t *testing.T) {
	raw := header + "10147 ---- HAMBURG 53.63 9.99 11\nbad line\n10184 ---- GREIFSWALD 54.06 13.24 5\n"

	collect := func() ([]string, int) {
		var ids []string
		s := NewScanner(strings.NewReader(raw))
		for s.Scan() {
			ids = append(ids, s.Station().ID)
		}
		require.NoError(t, s.Err())
		return ids, s.Skipped()
	}

	first, skippedFirst := collect()
	second, skippedSecond := collect()

	assert.Equal(t, []string{"10147", "10184"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, skippedFirst)
	assert.Equal(t, skippedFirst, skippedSecond)
}

func TestAll_StopsEarly(t *testing.T) {
	raw := header + "10147 ---- HAMBURG 53.63 9.99 11\n10184 ---- GREIFSWALD 54.06 13.24 5\n"

	var ids []string
	for s := range All(strings.NewReader(raw)) {
		ids = append(ids, s.ID)
		break
	}

	assert.Equal(t, []string{"10147"}, ids)
}
