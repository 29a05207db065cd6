package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mapStatsFixture = `
<div class="map-statistics">
  <div class="map-statistics-container">
    <div class="map-statistics-row">
      <div class="map-statistics-row-map-mapname">Mirage</div>
      <div class="map-statistics-row-win-percentage">70%</div>
    </div>
    <div class="map-statistics-extended">
      <div class="map-statistics-extended-wdl">
        <div class="stat">10</div>
        <div class="stat">1</div>
        <div class="stat">4</div>
      </div>
    </div>
  </div>
  <div class="map-statistics-container">
    <div class="map-statistics-row">
      <div class="map-statistics-row-map-mapname"></div>
    </div>
  </div>
</div>`

func TestTeamMapStats(t *testing.T) {
	t.Parallel()

	maps := TeamMapStats(parseFixture(t, mapStatsFixture))
	require.Len(t, maps, 1)

	m := maps[0]
	assert.Equal(t, "Mirage", m.MapName)
	assert.Equal(t, 15, m.MatchesPlayed)
	assert.Equal(t, 10, m.MatchesWon)
	assert.InDelta(t, 70.0, m.WinRate, 1e-9)
	assert.InDelta(t, 100.0*10.0/15.0, m.RoundWinRate, 1e-9)

	// Derived approximations, flagged as estimates.
	assert.True(t, m.SidesEstimated)
	assert.Equal(t, 15*approxRoundsPerMatch, m.RoundsPlayed)
	assert.Equal(t, 10*approxRoundsToWin, m.RoundsWon)
	assert.Equal(t, 6, m.CTRoundsWon)
	assert.Equal(t, 4, m.TRoundsWon)
	assert.InDelta(t, 60.0, m.CTWinRate, 1e-9)
	assert.InDelta(t, 40.0, m.TWinRate, 1e-9)
}

func TestTeamMapStatsMissingRecordSkipsMap(t *testing.T) {
	t.Parallel()

	fixture := `
<div class="map-statistics">
  <div class="map-statistics-container">
    <div class="map-statistics-row">
      <div class="map-statistics-row-map-mapname">Nuke</div>
      <div class="map-statistics-row-win-percentage">55%</div>
    </div>
  </div>
</div>`

	assert.Empty(t, TeamMapStats(parseFixture(t, fixture)))
}

func TestTeamMapStatsEmptyDocument(t *testing.T) {
	t.Parallel()

	assert.Empty(t, TeamMapStats(parseFixture(t, "<html></html>")))
}
