package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/KirkDiggler/ranked-arena/internal/notify"
	notifyMocks "github.com/KirkDiggler/ranked-arena/internal/notify/mocks"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	sessionMocks "github.com/KirkDiggler/ranked-arena/internal/repositories/session/mocks"
	"github.com/KirkDiggler/ranked-arena/internal/services/draft"
	draftMocks "github.com/KirkDiggler/ranked-arena/internal/services/draft/mocks"
	"github.com/KirkDiggler/ranked-arena/internal/services/matchmaking"
	matchmakingMocks "github.com/KirkDiggler/ranked-arena/internal/services/matchmaking/mocks"
	"github.com/KirkDiggler/ranked-arena/internal/services/monitor"
	monitorMocks "github.com/KirkDiggler/ranked-arena/internal/services/monitor/mocks"
	"github.com/KirkDiggler/ranked-arena/internal/services/rating"
	ratingMocks "github.com/KirkDiggler/ranked-arena/internal/services/rating/mocks"
)

type orchestratorTestSuite struct {
	suite.Suite

	ctrl            *gomock.Controller
	mockSessionRepo *sessionMocks.MockRepository
	mockMatchmaking *matchmakingMocks.MockService
	mockDraft       *draftMocks.MockService
	mockRating      *ratingMocks.MockService
	mockMonitor     *monitorMocks.MockService
	mockNotifier    *notifyMocks.MockNotifier

	orchestrator *Orchestrator
	ctx          context.Context
}

func (s *orchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.ctrl)
	s.mockMatchmaking = matchmakingMocks.NewMockService(s.ctrl)
	s.mockDraft = draftMocks.NewMockService(s.ctrl)
	s.mockRating = ratingMocks.NewMockService(s.ctrl)
	s.mockMonitor = monitorMocks.NewMockService(s.ctrl)
	s.mockNotifier = notifyMocks.NewMockNotifier(s.ctrl)

	o, err := NewOrchestrator(&Config{
		SessionRepo: s.mockSessionRepo,
		Matchmaking: s.mockMatchmaking,
		Draft:       s.mockDraft,
		Rating:      s.mockRating,
		Monitor:     s.mockMonitor,
		Notifier:    s.mockNotifier,
	})
	s.Require().NoError(err)
	s.orchestrator = o
	s.ctx = context.Background()
}

func (s *orchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func rankedSession(id string) *models.Session {
	return &models.Session{
		ID:     id,
		Mode:   models.GameModeRanked,
		Status: models.SessionStatusPending,
		TeamA: []models.RosterSlot{
			{PlayerID: "player-1", IGN: "Alpha", Rating: 1000, Sigma: 300},
		},
		TeamB: []models.RosterSlot{
			{PlayerID: "player-5", IGN: "Echo", Rating: 1000, Sigma: 300},
		},
	}
}

func draftSession(id string, stage models.DraftStage) *models.Session {
	sess := rankedSession(id)
	sess.Mode = models.GameModeDraft
	sess.Draft = &models.DraftState{
		Stage:    stage,
		CaptainA: "player-1",
		CaptainB: "player-5",
	}
	return sess
}

// expectNoMatches serves TryMatch with an empty pool for every mode
func (s *orchestratorTestSuite) expectNoMatches() {
	s.mockMatchmaking.EXPECT().
		TryMatch(gomock.Any(), gomock.Any()).
		Return(&matchmaking.TryMatchOutput{Formed: false}, nil).
		Times(len(models.AllGameModes))
}

func (s *orchestratorTestSuite) expectQueueStatus() {
	s.mockMatchmaking.EXPECT().
		QueueStatus(gomock.Any(), gomock.Any()).
		Return(&matchmaking.QueueStatusOutput{
			Entries: map[models.GameMode][]*models.QueueEntry{},
		}, nil)
}

func (s *orchestratorTestSuite) expectMarkProcessed(sessionID string) {
	s.mockSessionRepo.EXPECT().
		UpdateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.UpdateSessionInput) (*models.Session, error) {
			s.Equal(sessionID, input.SessionID)
			sess := rankedSession(sessionID)
			s.Require().NoError(input.Mutate(sess))
			s.Equal(models.SessionStatusProcessed, sess.Status)
			s.True(sess.Announced)
			return sess, nil
		})
}

func (s *orchestratorTestSuite) TestScanQueuesDropsExpiredEntries() {
	s.mockMatchmaking.EXPECT().
		SweepExpired(gomock.Any(), gomock.Any()).
		Return(&matchmaking.SweepExpiredOutput{
			Removed: []*models.QueueEntry{
				{PlayerID: "player-9", Mode: models.GameModeRanked},
			},
		}, nil)
	s.mockNotifier.EXPECT().
		AnnounceQueueDrop(gomock.Any(), &notify.QueueDropEvent{
			PlayerID: "player-9",
			Mode:     models.GameModeRanked,
		}).
		Return(nil)
	s.expectNoMatches()
	s.expectQueueStatus()

	err := s.orchestrator.ScanQueues(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestScanQueuesFormsRankedMatchAndWatches() {
	sess := rankedSession("session-1")

	s.mockMatchmaking.EXPECT().
		SweepExpired(gomock.Any(), gomock.Any()).
		Return(&matchmaking.SweepExpiredOutput{}, nil)
	gomock.InOrder(
		s.mockMatchmaking.EXPECT().
			TryMatch(gomock.Any(), &matchmaking.TryMatchInput{Mode: models.GameModeRanked}).
			Return(&matchmaking.TryMatchOutput{Formed: true, Session: sess}, nil),
		s.mockMatchmaking.EXPECT().
			TryMatch(gomock.Any(), &matchmaking.TryMatchInput{Mode: models.GameModeRanked}).
			Return(&matchmaking.TryMatchOutput{Formed: false}, nil),
		s.mockMatchmaking.EXPECT().
			TryMatch(gomock.Any(), &matchmaking.TryMatchInput{Mode: models.GameModeDraft}).
			Return(&matchmaking.TryMatchOutput{Formed: false}, nil),
	)
	s.mockNotifier.EXPECT().
		AnnounceMatchFormed(gomock.Any(), &notify.MatchFormedEvent{Session: sess}).
		Return(nil)
	s.mockMonitor.EXPECT().
		Start(gomock.Any(), &monitor.StartInput{Session: sess}).
		Return(&monitor.StartOutput{Started: true}, nil)
	s.expectQueueStatus()

	err := s.orchestrator.ScanQueues(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestScanQueuesDraftMatchGetsNoWatcherYet() {
	sess := draftSession("session-1", models.DraftStageReadyCheck)

	s.mockMatchmaking.EXPECT().
		SweepExpired(gomock.Any(), gomock.Any()).
		Return(&matchmaking.SweepExpiredOutput{}, nil)
	gomock.InOrder(
		s.mockMatchmaking.EXPECT().
			TryMatch(gomock.Any(), &matchmaking.TryMatchInput{Mode: models.GameModeRanked}).
			Return(&matchmaking.TryMatchOutput{Formed: false}, nil),
		s.mockMatchmaking.EXPECT().
			TryMatch(gomock.Any(), &matchmaking.TryMatchInput{Mode: models.GameModeDraft}).
			Return(&matchmaking.TryMatchOutput{Formed: true, Session: sess}, nil),
		s.mockMatchmaking.EXPECT().
			TryMatch(gomock.Any(), &matchmaking.TryMatchInput{Mode: models.GameModeDraft}).
			Return(&matchmaking.TryMatchOutput{Formed: false}, nil),
	)
	s.mockNotifier.EXPECT().
		AnnounceMatchFormed(gomock.Any(), gomock.Any()).
		Return(nil)
	s.expectQueueStatus()

	err := s.orchestrator.ScanQueues(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestReconcileFinalizesDecidedSession() {
	sess := rankedSession("session-1")
	sess.Status = models.SessionStatusTeamAWon

	processed := rankedSession("session-1")
	processed.Status = models.SessionStatusProcessed

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{sess}}, nil)
	s.mockRating.EXPECT().
		Finalize(gomock.Any(), &rating.FinalizeInput{SessionID: "session-1"}).
		Return(&rating.FinalizeOutput{
			WinningSide: models.TeamSideA,
			Deltas: []rating.PlayerDelta{
				{PlayerID: "player-1", IGN: "Alpha", Won: true, Delta: 42},
			},
			Session: processed,
		}, nil)
	s.mockNotifier.EXPECT().
		AnnounceResults(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *notify.ResultsEvent) error {
			s.Equal(models.TeamSideA, event.WinningSide)
			s.Len(event.Deltas, 1)
			return nil
		})

	err := s.orchestrator.Reconcile(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestReconcileSkipsAlreadyProcessed() {
	sess := rankedSession("session-1")
	sess.Status = models.SessionStatusTeamBWon

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{sess}}, nil)
	s.mockRating.EXPECT().
		Finalize(gomock.Any(), gomock.Any()).
		Return(nil, rating.ErrAlreadyProcessed)

	err := s.orchestrator.Reconcile(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestReconcileRetiresDecidedIncompleteDraftUnrated() {
	sess := draftSession("session-1", models.DraftStageInProgress)
	sess.Status = models.SessionStatusTeamAWon

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{sess}}, nil)
	s.expectMarkProcessed("session-1")

	err := s.orchestrator.Reconcile(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestReconcileAnnouncesCanceledOnce() {
	sess := rankedSession("session-1")
	sess.Status = models.SessionStatusCanceled

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{sess}}, nil)
	s.mockNotifier.EXPECT().
		AnnounceSessionClosed(gomock.Any(), &notify.SessionClosedEvent{
			Session: sess,
			Reason:  models.SessionStatusCanceled,
		}).
		Return(nil)
	s.expectMarkProcessed("session-1")

	err := s.orchestrator.Reconcile(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestReconcileRetiresAlreadyAnnouncedWithoutRepeat() {
	sess := rankedSession("session-1")
	sess.Status = models.SessionStatusTimedOut
	sess.Announced = true

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{sess}}, nil)
	s.expectMarkProcessed("session-1")

	err := s.orchestrator.Reconcile(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestReconcileKeepsClosedSessionWhenAnnouncementFails() {
	sess := rankedSession("session-1")
	sess.Status = models.SessionStatusCanceled

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{Sessions: []*models.Session{sess}}, nil)
	s.mockNotifier.EXPECT().
		AnnounceSessionClosed(gomock.Any(), gomock.Any()).
		Return(Error("discord is down"))

	// No UpdateSession: the session stays in the open set for retry
	err := s.orchestrator.Reconcile(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestReconcileReattachesLostWatchers() {
	pendingRanked := rankedSession("session-1")
	pendingDraft := draftSession("session-2", models.DraftStageComplete)
	draftMidway := draftSession("session-3", models.DraftStageInProgress)

	s.mockSessionRepo.EXPECT().
		ListOpenSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{
			Sessions: []*models.Session{pendingRanked, pendingDraft, draftMidway},
		}, nil)
	s.mockMonitor.EXPECT().Watching("session-1").Return(true)
	s.mockMonitor.EXPECT().Watching("session-2").Return(false)
	s.mockMonitor.EXPECT().
		Start(gomock.Any(), &monitor.StartInput{Session: pendingDraft}).
		Return(&monitor.StartOutput{Started: true}, nil)

	err := s.orchestrator.Reconcile(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestSweepDrafts() {
	timedOut := draftSession("session-1", models.DraftStageReadyCheck)
	timedOut.Status = models.SessionStatusTimedOutReadyCheck

	s.mockDraft.EXPECT().
		SweepTimeouts(gomock.Any(), gomock.Any()).
		Return(&draft.SweepTimeoutsOutput{TimedOut: []*models.Session{timedOut}}, nil)

	err := s.orchestrator.SweepDrafts(s.ctx)
	s.NoError(err)
}

func (s *orchestratorTestSuite) TestStartStopLifecycle() {
	o, err := NewOrchestrator(&Config{
		ScanInterval:       time.Millisecond,
		DraftSweepInterval: time.Millisecond,
		SessionRepo:        s.mockSessionRepo,
		Matchmaking:        s.mockMatchmaking,
		Draft:              s.mockDraft,
		Rating:             s.mockRating,
		Monitor:            s.mockMonitor,
		Notifier:           s.mockNotifier,
	})
	s.Require().NoError(err)

	s.mockMatchmaking.EXPECT().
		SweepExpired(gomock.Any(), gomock.Any()).
		Return(&matchmaking.SweepExpiredOutput{}, nil).
		AnyTimes()
	s.mockMatchmaking.EXPECT().
		TryMatch(gomock.Any(), gomock.Any()).
		Return(&matchmaking.TryMatchOutput{Formed: false}, nil).
		AnyTimes()
	s.mockMatchmaking.EXPECT().
		QueueStatus(gomock.Any(), gomock.Any()).
		Return(&matchmaking.QueueStatusOutput{
			Entries: map[models.GameMode][]*models.QueueEntry{},
		}, nil).
		AnyTimes()
	s.mockSessionRepo.EXPECT().
		ListOpenSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ListOpenSessionsOutput{}, nil).
		AnyTimes()
	s.mockDraft.EXPECT().
		SweepTimeouts(gomock.Any(), gomock.Any()).
		Return(&draft.SweepTimeoutsOutput{}, nil).
		AnyTimes()
	s.mockMonitor.EXPECT().StopAll()

	o.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	o.Stop()

	// Stopping twice is a no-op
	o.Stop()
}

func (s *orchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := NewOrchestrator(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewOrchestrator(&Config{})
	s.ErrorIs(err, ErrNilSessionRepo)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(orchestratorTestSuite))
}
