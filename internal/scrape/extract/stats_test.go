package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsFixture = `
<div class="standard-box">
  <div class="stats-row"><span>Total kills</span><span>15420</span></div>
  <div class="stats-row"><span>Headshot %</span><span>52.3%</span></div>
  <div class="stats-row"><span>Total deaths</span><span>11876</span></div>
  <div class="stats-row"><span>K/D Ratio</span><span>1.30</span></div>
  <div class="stats-row"><span>Damage / Round</span><span>85.2</span></div>
  <div class="stats-row"><span>Maps played</span><span>1468</span></div>
  <div class="stats-row"><span>Rating 2.1</span><span>1.21</span></div>
</div>`

func TestPlayerStats(t *testing.T) {
	t.Parallel()

	block := PlayerStats(parseFixture(t, statsFixture))

	require.NotNil(t, block.TotalKills)
	assert.Equal(t, int64(15420), *block.TotalKills)
	require.NotNil(t, block.HeadshotPct)
	assert.InDelta(t, 52.3, *block.HeadshotPct, 1e-9)
	require.NotNil(t, block.KDRatio)
	assert.InDelta(t, 1.30, *block.KDRatio, 1e-9)
	require.NotNil(t, block.MapsPlayed)
	assert.Equal(t, int64(1468), *block.MapsPlayed)
	require.NotNil(t, block.Rating)
	assert.InDelta(t, 1.21, *block.Rating, 1e-9)

	// Rows absent from the fixture stay absent, not zero.
	assert.Nil(t, block.GrenadeDamagePerRound)
	assert.Nil(t, block.RoundsPlayed)
	assert.Nil(t, block.KillsPerRound)
}

func TestPlayerStatsUnavailableValue(t *testing.T) {
	t.Parallel()

	fixture := `
<div class="standard-box">
  <div class="stats-row"><span>Total kills</span><span>N/A</span></div>
  <div class="stats-row"><span>Rating</span><span>1.05</span></div>
</div>`

	block := PlayerStats(parseFixture(t, fixture))
	assert.Nil(t, block.TotalKills)
	require.NotNil(t, block.Rating)
	assert.InDelta(t, 1.05, *block.Rating, 1e-9)
}

func TestPlayerStatsEmptyDocument(t *testing.T) {
	t.Parallel()

	block := PlayerStats(parseFixture(t, "<html></html>"))
	assert.True(t, block.Empty())
}
