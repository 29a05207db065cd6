package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csradar/csradar/internal/scrape"
)

const teamTrophiesFixture = `
<div class="trophyRow">
  <a class="trophy" href="/events/7148/major-2024">
    <img class="trophyIcon" src="/img/trophies/major.png">
    <span class="trophyDescription majorTrophy" title="PGL Major Copenhagen 2024"></span>
  </a>
  <div class="trophy">
    <img class="trophyIcon" src="/img/trophies/blast.png">
    <span class="trophyDescription" title="BLAST Premier World Final 2023"></span>
  </div>
  <div class="trophy">
    <span class="trophyDescription" title="No icon trophy is skipped"></span>
  </div>
</div>`

func TestTeamAchievements(t *testing.T) {
	t.Parallel()

	achievements := TeamAchievements(parseFixture(t, teamTrophiesFixture))
	require.Len(t, achievements, 2)

	major := achievements[0]
	assert.Equal(t, "PGL Major Copenhagen 2024", major.Title)
	assert.Equal(t, "PGL", major.EventName)
	require.NotNil(t, major.Year)
	assert.Equal(t, 2024, *major.Year)
	assert.Equal(t, TierMajor, major.Tier)
	assert.Equal(t, "1st", major.Placement)
	assert.Equal(t, "https://www.hltv.org/img/trophies/major.png", major.TrophyURL)
	assert.Equal(t, "https://www.hltv.org/events/7148/major-2024", major.EventURL)

	blast := achievements[1]
	assert.Equal(t, TierS, blast.Tier)
	require.NotNil(t, blast.Year)
	assert.Equal(t, 2023, *blast.Year)
	assert.Empty(t, blast.EventURL)
}

func TestTierClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title   string
		isMajor bool
		want    string
	}{
		{"ESL Pro League Season 19", false, TierA},
		{"IEM Katowice 2024", false, TierS},
		{"BLAST Premier Spring Final", false, TierS},
		{"ESL One Major Cologne", false, TierMajor},
		{"DreamHack Masters Malmo", false, TierA},
		{"Some Regional Cup", false, TierS},
		{"ESL Anything", true, TierMajor},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyTier(tc.title, tc.isMajor), "title %q", tc.title)
	}
}

const playerTrophiesFixture = `
<div class="trophyRow">
  <div class="trophy">
    <img class="trophyIcon" src="/img/trophies/top20.png">
    <span class="trophyDescription" title="Best Player of 2021"></span>
    <span class="award-year">'21</span>
  </div>
  <a class="trophy" href="/events/4866/iem-cologne">
    <img class="trophyIcon" src="/img/trophies/iem.png">
    <span class="trophyDescription" title="IEM Cologne 2021"></span>
  </a>
</div>`

func TestPlayerAchievements(t *testing.T) {
	t.Parallel()

	achievements := PlayerAchievements(parseFixture(t, playerTrophiesFixture))
	require.Len(t, achievements, 2)

	award := achievements[0]
	assert.Equal(t, scrape.KindIndividualAward, award.Kind)
	assert.Empty(t, award.Tier)
	assert.Empty(t, award.Placement)
	require.NotNil(t, award.Year)
	assert.Equal(t, 2021, *award.Year)

	tournament := achievements[1]
	assert.Equal(t, scrape.KindTournament, tournament.Kind)
	assert.Equal(t, TierS, tournament.Tier)
	assert.Equal(t, "1st", tournament.Placement)
}

func TestAchievementsEmptyDocument(t *testing.T) {
	t.Parallel()

	assert.Empty(t, TeamAchievements(parseFixture(t, "<html></html>")))
	assert.Empty(t, PlayerAchievements(parseFixture(t, "<html></html>")))
}
