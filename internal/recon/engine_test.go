package recon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/scrape"
	"github.com/csradar/csradar/internal/store"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeStore records engine writes in memory.
type fakeStore struct {
	store.Store

	teams        map[string]int64
	nextTeamID   int64
	upsertErr    error
	statsAge     time.Duration
	statsAgeErr  error
	bios         map[int64]scrape.PlayerProfile
	bioErr       error
	stats        map[int64]store.PlayerStats
	playerAchs   map[int64][]store.PlayerAchievement
	tx           *fakeTeamTx
	teamScopeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		teams:      map[string]int64{},
		nextTeamID: 1,
		bios:       map[int64]scrape.PlayerProfile{},
		stats:      map[int64]store.PlayerStats{},
		playerAchs: map[int64][]store.PlayerAchievement{},
		tx:         &fakeTeamTx{},
	}
}

func (f *fakeStore) UpsertTeam(_ context.Context, team store.Team) (int64, bool, error) {
	if f.upsertErr != nil {
		return 0, false, f.upsertErr
	}
	if id, ok := f.teams[team.Name]; ok {
		return id, false, nil
	}
	id := f.nextTeamID
	f.nextTeamID++
	f.teams[team.Name] = id
	return id, true, nil
}

func (f *fakeStore) TeamScope(_ context.Context) (store.TeamTx, error) {
	if f.teamScopeErr != nil {
		return nil, f.teamScopeErr
	}
	return f.tx, nil
}

func (f *fakeStore) UpdatePlayerBio(_ context.Context, id int64, realName, country *string, age *int, photoURL *string) error {
	if f.bioErr != nil {
		return f.bioErr
	}
	profile := scrape.PlayerProfile{Age: age}
	if realName != nil {
		profile.RealName = *realName
	}
	if country != nil {
		profile.Country = *country
	}
	if photoURL != nil {
		profile.PhotoURL = *photoURL
	}
	f.bios[id] = profile
	return nil
}

func (f *fakeStore) UpsertPlayerStats(_ context.Context, stats store.PlayerStats) error {
	f.stats[stats.PlayerID] = stats
	return nil
}

func (f *fakeStore) ReplacePlayerAchievements(_ context.Context, playerID int64, achievements []store.PlayerAchievement) error {
	f.playerAchs[playerID] = achievements
	return nil
}

func (f *fakeStore) StatsAge(_ context.Context, _ int64, _ time.Time) (time.Duration, error) {
	if f.statsAgeErr != nil {
		return 0, f.statsAgeErr
	}
	return f.statsAge, nil
}

// fakeTeamTx hands out member scopes and records replacement sets.
type fakeTeamTx struct {
	members      []*fakeMemberTx
	failMemberID int64
	achievements []store.TeamAchievement
	maps         []store.TeamMapStat
	committed    bool
	rolledBack   bool
}

func (t *fakeTeamTx) MemberScope(_ context.Context) (store.MemberTx, error) {
	m := &fakeMemberTx{parent: t}
	t.members = append(t.members, m)
	return m, nil
}

func (t *fakeTeamTx) ReplaceTeamAchievements(_ context.Context, _ int64, achievements []store.TeamAchievement) error {
	t.achievements = achievements
	return nil
}

func (t *fakeTeamTx) ReplaceTeamMapStats(_ context.Context, _ int64, maps []store.TeamMapStat) error {
	t.maps = maps
	return nil
}

func (t *fakeTeamTx) Commit(_ context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTeamTx) Rollback(_ context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeMemberTx struct {
	parent     *fakeTeamTx
	player     store.Player
	released   bool
	rolledBack bool
}

func (m *fakeMemberTx) UpsertPlayer(_ context.Context, player store.Player) (bool, error) {
	if m.parent.failMemberID != 0 && player.ID == m.parent.failMemberID {
		return false, errors.New("duplicate key value violates unique constraint")
	}
	m.player = player
	return true, nil
}

func (m *fakeMemberTx) Release(_ context.Context) error {
	m.released = true
	return nil
}

func (m *fakeMemberTx) Rollback(_ context.Context) error {
	m.rolledBack = true
	return nil
}

func testEngine(f *fakeStore) *Engine {
	return New(f, fixedClock{now: time.Unix(1700000000, 0).UTC()}, zap.NewNop(), 0)
}

func TestReconcileTeamCreatesThenUpdates(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	e := testEngine(f)

	id, created, err := e.ReconcileTeam(context.Background(), scrape.RankingEntry{Name: "Team Alpha", Rank: 1})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := e.ReconcileTeam(context.Background(), scrape.RankingEntry{Name: "Team Alpha", Rank: 2})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)
}

func TestReconcileRosterIsolatesMemberFailure(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	f.tx.failMemberID = 2
	e := testEngine(f)

	members := []scrape.RosterMember{
		{ExternalID: 1, Nickname: "alpha", Role: scrape.RolePlayer},
		{ExternalID: 2, Nickname: "broken", Role: scrape.RolePlayer},
		{ExternalID: 3, Nickname: "gamma", Role: scrape.RoleCoach},
	}

	result, err := e.ReconcileRoster(context.Background(), 42, members, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Failed)

	require.Len(t, f.tx.members, 3)
	assert.True(t, f.tx.members[0].released)
	assert.True(t, f.tx.members[1].rolledBack)
	assert.False(t, f.tx.members[1].released)
	assert.True(t, f.tx.members[2].released)
	assert.True(t, f.tx.committed)
}

func TestReconcileRosterWritesDependentSets(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	e := testEngine(f)
	year := 2024

	achievements := []scrape.Achievement{{Title: "PGL Major 2024", EventName: "PGL", Year: &year, Placement: "1st", Tier: "Major"}}
	maps := []scrape.TeamMapStats{{MapName: "Mirage", MatchesPlayed: 15, MatchesWon: 10, SidesEstimated: true}}

	_, err := e.ReconcileRoster(context.Background(), 42, nil, achievements, maps)
	require.NoError(t, err)

	require.Len(t, f.tx.achievements, 1)
	assert.Equal(t, int64(42), f.tx.achievements[0].TeamID)
	assert.Equal(t, "Major", f.tx.achievements[0].Tier)
	require.Len(t, f.tx.maps, 1)
	assert.True(t, f.tx.maps[0].SidesEstimated)
	assert.True(t, f.tx.committed)
}

func TestShouldRefreshStats(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	e := testEngine(f)
	ctx := context.Background()

	// Forced and targeted runs always refresh.
	refresh, err := e.ShouldRefreshStats(ctx, 1, true, false)
	require.NoError(t, err)
	assert.True(t, refresh)

	refresh, err = e.ShouldRefreshStats(ctx, 1, false, true)
	require.NoError(t, err)
	assert.True(t, refresh)

	// Missing row refreshes.
	f.statsAgeErr = store.ErrNotFound
	refresh, err = e.ShouldRefreshStats(ctx, 1, false, false)
	require.NoError(t, err)
	assert.True(t, refresh)

	// Fresh row is skipped, stale row refreshes.
	f.statsAgeErr = nil
	f.statsAge = time.Hour
	refresh, err = e.ShouldRefreshStats(ctx, 1, false, false)
	require.NoError(t, err)
	assert.False(t, refresh)

	f.statsAge = DefaultStatsTTL + time.Hour
	refresh, err = e.ShouldRefreshStats(ctx, 1, false, false)
	require.NoError(t, err)
	assert.True(t, refresh)
}

func TestReconcilePlayerDetails(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	e := testEngine(f)
	age := 27
	rating := 1.24
	year := 2021

	profile := scrape.PlayerProfile{RealName: "Oleksandr Kostyliev", Country: "Ukraine", Age: &age, PhotoURL: "https://img/p.png"}
	stats := scrape.StatsBlock{Rating: &rating}
	achievements := []scrape.Achievement{{Title: "Best Player of 2021", Year: &year, Kind: scrape.KindIndividualAward}}

	err := e.ReconcilePlayerDetails(context.Background(), 7998, profile, stats, achievements)
	require.NoError(t, err)

	bio, ok := f.bios[7998]
	require.True(t, ok)
	assert.Equal(t, "Ukraine", bio.Country)
	require.NotNil(t, bio.Age)
	assert.Equal(t, 27, *bio.Age)

	saved, ok := f.stats[7998]
	require.True(t, ok)
	require.NotNil(t, saved.Rating)
	assert.InDelta(t, 1.24, *saved.Rating, 1e-9)

	achs := f.playerAchs[7998]
	require.Len(t, achs, 1)
	assert.Equal(t, string(scrape.KindIndividualAward), achs[0].Kind)
}

func TestReconcilePlayerDetailsSkipsEmptyStats(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	e := testEngine(f)

	err := e.ReconcilePlayerDetails(context.Background(), 5, scrape.PlayerProfile{}, scrape.StatsBlock{}, nil)
	require.NoError(t, err)

	_, ok := f.stats[5]
	assert.False(t, ok, "empty stats block must not create a row")
}

func TestReconcilePlayerDetailsPropagatesBioError(t *testing.T) {
	t.Parallel()

	f := newFakeStore()
	f.bioErr = store.ErrNotFound
	e := testEngine(f)

	err := e.ReconcilePlayerDetails(context.Background(), 5, scrape.PlayerProfile{}, scrape.StatsBlock{}, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
