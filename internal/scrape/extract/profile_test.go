package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileFixture = `
<div class="playerProfile">
  <img class="bodyshot-img" src="/img/playerbodyshot/7998.png">
  <div class="playerRealname">Oleksandr Kostyliev</div>
  <img class="flag" src="/img/flags/ua.gif" title="Ukraine">
  <div class="playerAge">27 years</div>
</div>`

func TestPlayerProfile(t *testing.T) {
	t.Parallel()

	profile := PlayerProfile(parseFixture(t, profileFixture))

	assert.Equal(t, "https://www.hltv.org/img/playerbodyshot/7998.png", profile.PhotoURL)
	assert.Equal(t, "Oleksandr Kostyliev", profile.RealName)
	assert.Equal(t, "Ukraine", profile.Country)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 27, *profile.Age)
}

func TestPlayerProfileMissingAge(t *testing.T) {
	t.Parallel()

	fixture := `
<div class="playerProfile">
  <img class="bodyshot-img" src="/img/playerbodyshot/1.png">
  <div class="playerRealname">Some Name</div>
  <img class="flag" title="Denmark">
</div>`

	profile := PlayerProfile(parseFixture(t, fixture))

	assert.Nil(t, profile.Age)
	assert.Equal(t, "Some Name", profile.RealName)
	assert.Equal(t, "Denmark", profile.Country)
	assert.NotEmpty(t, profile.PhotoURL)
}

func TestPlayerProfilePhotoFallback(t *testing.T) {
	t.Parallel()

	fixture := `<div><img src="/img/static/playerbodyshot/44.png"></div>`
	profile := PlayerProfile(parseFixture(t, fixture))
	assert.Equal(t, "https://www.hltv.org/img/static/playerbodyshot/44.png", profile.PhotoURL)
}

func TestPlayerProfileEmptyDocument(t *testing.T) {
	t.Parallel()

	profile := PlayerProfile(parseFixture(t, "<html><body></body></html>"))
	assert.Empty(t, profile.PhotoURL)
	assert.Empty(t, profile.Country)
	assert.Nil(t, profile.Age)
}
