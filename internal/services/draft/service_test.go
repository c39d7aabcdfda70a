package draft

import (
	"context"
	"fmt"
	"testing"
	"time"

	coinMocks "github.com/KirkDiggler/ranked-arena/internal/coin/mocks"
	clockMocks "github.com/KirkDiggler/ranked-arena/internal/common/clock/mocks"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	sessionMocks "github.com/KirkDiggler/ranked-arena/internal/repositories/session/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DraftServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockSessionRepo *sessionMocks.MockRepository
	mockFlipper     *coinMocks.MockFlipper
	mockClock       *clockMocks.MockClock
	service         Service
	ctx             context.Context

	testTime    time.Time
	testPool    []string
	testSession *models.Session
}

func (s *DraftServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.mockCtrl)
	s.mockFlipper = coinMocks.NewMockFlipper(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.ctx = context.Background()

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	svc, err := NewService(&Config{
		SessionRepo: s.mockSessionRepo,
		Flipper:     s.mockFlipper,
		Clock:       s.mockClock,
	})
	s.Require().NoError(err)
	s.service = svc

	s.testPool = make([]string, 12)
	for i := range s.testPool {
		s.testPool[i] = fmt.Sprintf("hunter-%d", i+1)
	}

	teamA := []models.RosterSlot{
		{PlayerID: "captain-a", Rating: 1200},
		{PlayerID: "player-2", Rating: 900},
		{PlayerID: "player-3", Rating: 900},
		{PlayerID: "player-4", Rating: 900},
	}
	teamB := []models.RosterSlot{
		{PlayerID: "captain-b", Rating: 1100},
		{PlayerID: "player-6", Rating: 900},
		{PlayerID: "player-7", Rating: 900},
		{PlayerID: "player-8", Rating: 900},
	}

	pool := make([]string, len(s.testPool))
	copy(pool, s.testPool)

	s.testSession = &models.Session{
		ID:     "session-1",
		Mode:   models.GameModeDraft,
		Status: models.SessionStatusPending,
		TeamA:  teamA,
		TeamB:  teamB,
		Votes:  []string{},
		Draft: &models.DraftState{
			Stage:        models.DraftStageReadyCheck,
			CaptainA:     "captain-a",
			CaptainB:     "captain-b",
			Ready:        []string{},
			Available:    pool,
			Banned:       []string{},
			PicksA:       []string{},
			PicksB:       []string{},
			StartedAt:    s.testTime,
			LastActionAt: s.testTime,
		},
		CreatedAt: s.testTime,
	}
}

func (s *DraftServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectUpdate wires UpdateSession to apply the mutation against the
// suite's session fixture
func (s *DraftServiceTestSuite) expectUpdate() {
	s.mockSessionRepo.EXPECT().
		UpdateSession(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.UpdateSessionInput) (*models.Session, error) {
			if err := input.Mutate(s.testSession); err != nil {
				return nil, err
			}
			return s.testSession, nil
		})
}

// checkPoolPartition asserts that available, banned and both pick sets
// strictly partition the full option set
func (s *DraftServiceTestSuite) checkPoolPartition(d *models.DraftState) {
	seen := make(map[string]int)
	for _, o := range d.Available {
		seen[o]++
	}
	for _, o := range d.Banned {
		seen[o]++
	}
	for _, o := range d.PicksA {
		seen[o]++
	}
	for _, o := range d.PicksB {
		seen[o]++
	}

	s.Require().Len(seen, len(s.testPool))
	for _, o := range s.testPool {
		s.Equal(1, seen[o], "option %s must appear exactly once", o)
	}
}

func (s *DraftServiceTestSuite) TestMarkReadySingleCaptain() {
	s.expectUpdate()

	output, err := s.service.MarkReady(s.ctx, &MarkReadyInput{
		SessionID: "session-1",
		CaptainID: "captain-a",
	})
	s.Require().NoError(err)
	s.False(output.BothReady)
	s.Equal(models.DraftStageReadyCheck, output.Session.Draft.Stage)
	s.Equal([]string{"captain-a"}, output.Session.Draft.Ready)
}

func (s *DraftServiceTestSuite) TestMarkReadyIdempotent() {
	s.expectUpdate()
	s.expectUpdate()

	_, err := s.service.MarkReady(s.ctx, &MarkReadyInput{SessionID: "session-1", CaptainID: "captain-a"})
	s.Require().NoError(err)

	output, err := s.service.MarkReady(s.ctx, &MarkReadyInput{SessionID: "session-1", CaptainID: "captain-a"})
	s.Require().NoError(err)
	s.False(output.BothReady)
	s.Len(output.Session.Draft.Ready, 1)
}

func (s *DraftServiceTestSuite) TestMarkReadyBothAdvancesToCoinflip() {
	s.expectUpdate()
	s.expectUpdate()

	_, err := s.service.MarkReady(s.ctx, &MarkReadyInput{SessionID: "session-1", CaptainID: "captain-b"})
	s.Require().NoError(err)

	output, err := s.service.MarkReady(s.ctx, &MarkReadyInput{SessionID: "session-1", CaptainID: "captain-a"})
	s.Require().NoError(err)
	s.True(output.BothReady)
	s.Equal(models.DraftStageCoinflip, output.Session.Draft.Stage)
}

func (s *DraftServiceTestSuite) TestMarkReadyNonCaptain() {
	s.expectUpdate()

	_, err := s.service.MarkReady(s.ctx, &MarkReadyInput{SessionID: "session-1", CaptainID: "player-2"})
	s.Require().ErrorIs(err, ErrNotACaptain)
}

func (s *DraftServiceTestSuite) TestMarkReadyWrongStage() {
	s.testSession.Draft.Stage = models.DraftStageCoinflip
	s.expectUpdate()

	_, err := s.service.MarkReady(s.ctx, &MarkReadyInput{SessionID: "session-1", CaptainID: "captain-a"})
	s.Require().ErrorIs(err, ErrWrongStage)
}

func (s *DraftServiceTestSuite) TestMarkReadyNoDraft() {
	s.testSession.Draft = nil
	s.expectUpdate()

	_, err := s.service.MarkReady(s.ctx, &MarkReadyInput{SessionID: "session-1", CaptainID: "captain-a"})
	s.Require().ErrorIs(err, ErrNoDraft)
}

func (s *DraftServiceTestSuite) TestChooseFaceLostCall() {
	// Captain A calls heads, the draw is tails, so B drafts first
	s.testSession.Draft.Stage = models.DraftStageCoinflip
	s.mockFlipper.EXPECT().Flip().Return(models.CoinFaceTails)
	s.expectUpdate()

	output, err := s.service.ChooseFace(s.ctx, &ChooseFaceInput{
		SessionID: "session-1",
		CaptainID: "captain-a",
		Face:      models.CoinFaceHeads,
	})
	s.Require().NoError(err)
	s.Equal(models.CoinFaceTails, output.Result)
	s.Equal(models.TeamSideB, output.WinnerSide)
	s.Equal("captain-b", output.FirstActor)

	d := output.Session.Draft
	s.Equal(models.DraftStageInProgress, d.Stage)
	s.Equal(0, d.TurnIndex)
	s.Equal("captain-b", d.CurrentActor)
	s.Equal(models.DraftActionBan, d.CurrentAction)
}

func (s *DraftServiceTestSuite) TestChooseFaceWonCall() {
	s.testSession.Draft.Stage = models.DraftStageCoinflip
	s.mockFlipper.EXPECT().Flip().Return(models.CoinFaceHeads)
	s.expectUpdate()

	output, err := s.service.ChooseFace(s.ctx, &ChooseFaceInput{
		SessionID: "session-1",
		CaptainID: "captain-a",
		Face:      models.CoinFaceHeads,
	})
	s.Require().NoError(err)
	s.Equal(models.TeamSideA, output.WinnerSide)
	s.Equal("captain-a", output.FirstActor)
}

func (s *DraftServiceTestSuite) TestChooseFaceWrongCaptain() {
	s.testSession.Draft.Stage = models.DraftStageCoinflip
	s.expectUpdate()

	_, err := s.service.ChooseFace(s.ctx, &ChooseFaceInput{
		SessionID: "session-1",
		CaptainID: "captain-b",
		Face:      models.CoinFaceHeads,
	})
	s.Require().ErrorIs(err, ErrWrongCaptain)
}

func (s *DraftServiceTestSuite) TestChooseFaceInvalidFace() {
	_, err := s.service.ChooseFace(s.ctx, &ChooseFaceInput{
		SessionID: "session-1",
		CaptainID: "captain-a",
		Face:      models.CoinFace("edge"),
	})
	s.Require().ErrorIs(err, ErrInvalidFace)
}

func (s *DraftServiceTestSuite) TestChooseFaceWrongStage() {
	s.expectUpdate()

	_, err := s.service.ChooseFace(s.ctx, &ChooseFaceInput{
		SessionID: "session-1",
		CaptainID: "captain-a",
		Face:      models.CoinFaceHeads,
	})
	s.Require().ErrorIs(err, ErrWrongStage)
}

// startDraft moves the fixture straight into the script with the given
// coinflip winner
func (s *DraftServiceTestSuite) startDraft(winner models.TeamSide) {
	d := s.testSession.Draft
	d.Stage = models.DraftStageInProgress
	d.CoinflipWinner = winner
	d.TurnIndex = 0
	d.CurrentActor = d.WinnerCaptain()
	d.CurrentAction = models.DraftActionBan
}

func (s *DraftServiceTestSuite) TestSelectOptionOutOfTurn() {
	s.startDraft(models.TeamSideA)
	s.expectUpdate()

	_, err := s.service.SelectOption(s.ctx, &SelectOptionInput{
		SessionID: "session-1",
		CaptainID: "captain-b",
		Option:    "hunter-1",
	})
	s.Require().ErrorIs(err, ErrNotYourTurn)
}

func (s *DraftServiceTestSuite) TestSelectOptionNonCaptain() {
	s.startDraft(models.TeamSideA)
	s.expectUpdate()

	_, err := s.service.SelectOption(s.ctx, &SelectOptionInput{
		SessionID: "session-1",
		CaptainID: "player-3",
		Option:    "hunter-1",
	})
	s.Require().ErrorIs(err, ErrNotACaptain)
}

func (s *DraftServiceTestSuite) TestSelectOptionUnavailable() {
	s.startDraft(models.TeamSideA)
	s.expectUpdate()

	_, err := s.service.SelectOption(s.ctx, &SelectOptionInput{
		SessionID: "session-1",
		CaptainID: "captain-a",
		Option:    "hunter-99",
	})
	s.Require().ErrorIs(err, ErrOptionUnavailable)
}

func (s *DraftServiceTestSuite) TestSelectOptionBannedOptionCannotBePicked() {
	s.startDraft(models.TeamSideA)
	s.expectUpdate()
	s.expectUpdate()

	_, err := s.service.SelectOption(s.ctx, &SelectOptionInput{
		SessionID: "session-1",
		CaptainID: "captain-a",
		Option:    "hunter-1",
	})
	s.Require().NoError(err)

	// Now captain B's ban turn; the banned option is gone for good
	_, err = s.service.SelectOption(s.ctx, &SelectOptionInput{
		SessionID: "session-1",
		CaptainID: "captain-b",
		Option:    "hunter-1",
	})
	s.Require().ErrorIs(err, ErrOptionUnavailable)
}

func (s *DraftServiceTestSuite) TestFullScriptRun() {
	s.startDraft(models.TeamSideB)

	// Winner (captain B) acts at steps 0, 2, 3, 6, 7
	expectedActors := []string{
		"captain-b", "captain-a",
		"captain-b", "captain-b", "captain-a", "captain-a",
		"captain-b", "captain-b", "captain-a", "captain-a",
	}
	expectedActions := []models.DraftAction{
		models.DraftActionBan, models.DraftActionBan,
		models.DraftActionPick, models.DraftActionPick, models.DraftActionPick, models.DraftActionPick,
		models.DraftActionPick, models.DraftActionPick, models.DraftActionPick, models.DraftActionPick,
	}

	lastTurn := -1
	for step := 0; step < ScriptLength; step++ {
		d := s.testSession.Draft
		s.Equal(expectedActors[step], d.CurrentActor, "actor at step %d", step)
		s.Equal(expectedActions[step], d.CurrentAction, "action at step %d", step)
		s.Greater(d.TurnIndex, lastTurn)
		lastTurn = d.TurnIndex

		s.expectUpdate()
		output, err := s.service.SelectOption(s.ctx, &SelectOptionInput{
			SessionID: "session-1",
			CaptainID: d.CurrentActor,
			Option:    s.testPool[step],
		})
		s.Require().NoError(err)
		s.Equal(expectedActions[step], output.Action)
		s.checkPoolPartition(s.testSession.Draft)

		if step < ScriptLength-1 {
			s.False(output.Complete)
			s.Equal(expectedActors[step+1], output.NextActor)
		} else {
			s.True(output.Complete)
			s.Empty(output.NextActor)
		}
	}

	d := s.testSession.Draft
	s.Equal(models.DraftStageComplete, d.Stage)
	s.Len(d.Banned, 2)
	s.Len(d.PicksA, 4)
	s.Len(d.PicksB, 4)
	s.Len(d.Available, len(s.testPool)-ScriptLength)

	// Picks landed on the acting captain's own side
	s.Contains(d.PicksB, s.testPool[2])
	s.Contains(d.PicksA, s.testPool[4])

	// Nothing further is accepted
	s.expectUpdate()
	_, err := s.service.SelectOption(s.ctx, &SelectOptionInput{
		SessionID: "session-1",
		CaptainID: "captain-a",
		Option:    s.testPool[10],
	})
	s.Require().ErrorIs(err, ErrWrongStage)
}

func (s *DraftServiceTestSuite) TestSweepTimeoutsReadyCheck() {
	s.testSession.Draft.LastActionAt = s.testTime.Add(-11 * time.Minute)

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(s.ctx, gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{s.testSession}}, nil)
	s.expectUpdate()

	output, err := s.service.SweepTimeouts(s.ctx, &SweepTimeoutsInput{})
	s.Require().NoError(err)
	s.Require().Len(output.TimedOut, 1)
	s.Equal(models.SessionStatusTimedOutReadyCheck, output.TimedOut[0].Status)
}

func (s *DraftServiceTestSuite) TestSweepTimeoutsCoinflip() {
	s.testSession.Draft.Stage = models.DraftStageCoinflip
	s.testSession.Draft.LastActionAt = s.testTime.Add(-11 * time.Minute)

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(s.ctx, gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{s.testSession}}, nil)
	s.expectUpdate()

	output, err := s.service.SweepTimeouts(s.ctx, &SweepTimeoutsInput{})
	s.Require().NoError(err)
	s.Require().Len(output.TimedOut, 1)
	s.Equal(models.SessionStatusTimedOutCoinflip, output.TimedOut[0].Status)
}

func (s *DraftServiceTestSuite) TestSweepTimeoutsStalledTurn() {
	s.startDraft(models.TeamSideA)
	s.testSession.Draft.LastActionAt = s.testTime.Add(-6 * time.Minute)

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(s.ctx, gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{s.testSession}}, nil)
	s.expectUpdate()

	output, err := s.service.SweepTimeouts(s.ctx, &SweepTimeoutsInput{})
	s.Require().NoError(err)
	s.Require().Len(output.TimedOut, 1)
	s.Equal(models.SessionStatusTimedOutDraftTurn, output.TimedOut[0].Status)
}

func (s *DraftServiceTestSuite) TestSweepTimeoutsLeavesFreshDrafts() {
	s.testSession.Draft.LastActionAt = s.testTime.Add(-5 * time.Minute)

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(s.ctx, gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{s.testSession}}, nil)

	output, err := s.service.SweepTimeouts(s.ctx, &SweepTimeoutsInput{})
	s.Require().NoError(err)
	s.Empty(output.TimedOut)
	s.Equal(models.SessionStatusPending, s.testSession.Status)
}

func (s *DraftServiceTestSuite) TestSweepTimeoutsSkipsProgressedDraft() {
	// The scan saw a stale ready check, but by update time the draft
	// moved on
	stale := *s.testSession
	staleDraft := *s.testSession.Draft
	staleDraft.LastActionAt = s.testTime.Add(-11 * time.Minute)
	stale.Draft = &staleDraft

	s.testSession.Draft.Stage = models.DraftStageCoinflip

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(s.ctx, gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{&stale}}, nil)
	s.expectUpdate()

	output, err := s.service.SweepTimeouts(s.ctx, &SweepTimeoutsInput{})
	s.Require().NoError(err)
	s.Empty(output.TimedOut)
	s.Equal(models.SessionStatusPending, s.testSession.Status)
}

func TestDraftServiceSuite(t *testing.T) {
	suite.Run(t, new(DraftServiceTestSuite))
}
