package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/ranked-arena/internal/common/clock"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/KirkDiggler/ranked-arena/internal/oracle"
	oracleMocks "github.com/KirkDiggler/ranked-arena/internal/oracle/mocks"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	sessionMocks "github.com/KirkDiggler/ranked-arena/internal/repositories/session/mocks"
)

const watcherJoinTimeout = 5 * time.Second

type monitorServiceTestSuite struct {
	suite.Suite

	ctrl            *gomock.Controller
	mockSessionRepo *sessionMocks.MockRepository
	mockOracle      *oracleMocks.MockClient

	service *service
	session *models.Session
}

func (s *monitorServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.ctrl)
	s.mockOracle = oracleMocks.NewMockClient(s.ctrl)

	svc, err := NewService(&Config{
		InitialDelayRanked: time.Millisecond,
		InitialDelayDraft:  time.Millisecond,
		PollInterval:       time.Millisecond,
		Ceiling:            time.Hour,
		MaxFailures:        3,
		FailureBackoff:     time.Millisecond,
		SessionRepo:        s.mockSessionRepo,
		Oracle:             s.mockOracle,
		Clock:              &clock.DefaultClock{},
	})
	s.Require().NoError(err)
	s.service = svc

	s.session = &models.Session{
		ID:     "session-1",
		Mode:   models.GameModeRanked,
		Status: models.SessionStatusPending,
		TeamA: []models.RosterSlot{
			{PlayerID: "player-1", IGN: "Alpha", Rating: 1000, Sigma: 300},
			{PlayerID: "player-2", IGN: "Bravo", Rating: 1000, Sigma: 300},
		},
		TeamB: []models.RosterSlot{
			{PlayerID: "player-3", IGN: "Charlie", Rating: 1000, Sigma: 300},
			{PlayerID: "player-4", IGN: "Delta", Rating: 1000, Sigma: 300},
		},
		CreatedAt: time.Now(),
	}
}

func (s *monitorServiceTestSuite) TearDownTest() {
	s.service.StopAll()
	s.ctrl.Finish()
}

// join waits for the watcher to exit before mock expectations are checked
func (s *monitorServiceTestSuite) join(done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(watcherJoinTimeout):
		s.FailNow("watcher did not exit")
	}
}

// expectPendingReads serves every session re-read with a pending copy
func (s *monitorServiceTestSuite) expectPendingReads() {
	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), &sessionRepo.GetSessionInput{SessionID: "session-1"}).
		DoAndReturn(func(_ context.Context, _ *sessionRepo.GetSessionInput) (*models.Session, error) {
			copied := *s.session
			return &copied, nil
		}).
		AnyTimes()
}

// expectStatusWrite expects one update moving the pending session to status
func (s *monitorServiceTestSuite) expectStatusWrite(status models.SessionStatus) {
	s.mockSessionRepo.EXPECT().
		UpdateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.UpdateSessionInput) (*models.Session, error) {
			s.Equal("session-1", input.SessionID)
			copied := *s.session
			if err := input.Mutate(&copied); err != nil {
				return nil, err
			}
			s.Equal(status, copied.Status)
			return &copied, nil
		})
}

func (s *monitorServiceTestSuite) TestRecordsTeamAWin() {
	s.expectPendingReads()
	s.mockOracle.EXPECT().
		Observe(gomock.Any(), &oracle.ObserveInput{
			SessionID: "session-1",
			IGN:       "Alpha",
			Mode:      models.GameModeRanked,
		}).
		Return(&oracle.ObserveOutput{Outcome: oracle.OutcomeTeamA, Fingerprint: "fp-1"}, nil)
	s.mockSessionRepo.EXPECT().
		ClaimFingerprint(gomock.Any(), &sessionRepo.ClaimFingerprintInput{
			Fingerprint: "fp-1",
			SessionID:   "session-1",
		}).
		Return(&sessionRepo.ClaimFingerprintOutput{Claimed: true, OwnerSessionID: "session-1"}, nil)
	s.expectStatusWrite(models.SessionStatusTeamAWon)

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)
	s.True(output.Started)

	s.join(output.Done)
	s.False(s.service.Watching("session-1"))
}

func (s *monitorServiceTestSuite) TestRecordsTeamBWin() {
	s.expectPendingReads()
	s.mockOracle.EXPECT().
		Observe(gomock.Any(), gomock.Any()).
		Return(&oracle.ObserveOutput{Outcome: oracle.OutcomeTeamB, Fingerprint: "fp-1"}, nil)
	s.mockSessionRepo.EXPECT().
		ClaimFingerprint(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ClaimFingerprintOutput{Claimed: true, OwnerSessionID: "session-1"}, nil)
	s.expectStatusWrite(models.SessionStatusTeamBWon)

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)

	s.join(output.Done)
}

func (s *monitorServiceTestSuite) TestStartIsIdempotentPerSession() {
	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *sessionRepo.GetSessionInput) (*models.Session, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		AnyTimes()

	first, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)
	s.True(first.Started)

	second, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)
	s.False(second.Started)

	s.True(s.service.Watching("session-1"))
	s.service.Stop("session-1")
	s.join(first.Done)
	s.join(second.Done)
}

func (s *monitorServiceTestSuite) TestEmptyRoster() {
	s.session.TeamA = nil

	_, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.ErrorIs(err, ErrEmptyRoster)
}

func (s *monitorServiceTestSuite) TestStopsWhenSessionCanceledExternally() {
	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sessionRepo.GetSessionInput) (*models.Session, error) {
			copied := *s.session
			copied.Status = models.SessionStatusCanceled
			return &copied, nil
		})

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)

	s.join(output.Done)
}

func (s *monitorServiceTestSuite) TestCeilingForcesTimeout() {
	svc, err := NewService(&Config{
		InitialDelayRanked: time.Millisecond,
		InitialDelayDraft:  time.Millisecond,
		PollInterval:       time.Millisecond,
		Ceiling:            time.Nanosecond,
		MaxFailures:        3,
		FailureBackoff:     time.Millisecond,
		SessionRepo:        s.mockSessionRepo,
		Oracle:             s.mockOracle,
		Clock:              &clock.DefaultClock{},
	})
	s.Require().NoError(err)
	s.service = svc

	s.expectPendingReads()
	s.expectStatusWrite(models.SessionStatusTimedOut)

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)

	s.join(output.Done)
}

func (s *monitorServiceTestSuite) TestCeilingCountsFromMatchFormation() {
	// A fresh watcher on an old session times out immediately: restarts
	// after oracle failures must not extend the monitoring window
	s.session.CreatedAt = time.Now().Add(-2 * time.Hour)

	s.expectPendingReads()
	s.expectStatusWrite(models.SessionStatusTimedOut)

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)

	s.join(output.Done)
}

func (s *monitorServiceTestSuite) TestUnknownOutcomeStopsWithoutWrite() {
	s.expectPendingReads()
	s.mockOracle.EXPECT().
		Observe(gomock.Any(), gomock.Any()).
		Return(&oracle.ObserveOutput{Outcome: oracle.OutcomeUnknown}, nil)

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)

	s.join(output.Done)
}

func (s *monitorServiceTestSuite) TestKeepsPollingWhileStillPlaying() {
	s.expectPendingReads()
	gomock.InOrder(
		s.mockOracle.EXPECT().
			Observe(gomock.Any(), gomock.Any()).
			Return(&oracle.ObserveOutput{Outcome: oracle.OutcomeStillPlaying}, nil).
			Times(2),
		s.mockOracle.EXPECT().
			Observe(gomock.Any(), gomock.Any()).
			Return(&oracle.ObserveOutput{Outcome: oracle.OutcomeTeamA, Fingerprint: "fp-1"}, nil),
	)
	s.mockSessionRepo.EXPECT().
		ClaimFingerprint(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ClaimFingerprintOutput{Claimed: true, OwnerSessionID: "session-1"}, nil)
	s.expectStatusWrite(models.SessionStatusTeamAWon)

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)

	s.join(output.Done)
}

func (s *monitorServiceTestSuite) TestForeignFingerprintKeepsPolling() {
	s.expectPendingReads()
	gomock.InOrder(
		s.mockOracle.EXPECT().
			Observe(gomock.Any(), gomock.Any()).
			Return(&oracle.ObserveOutput{Outcome: oracle.OutcomeTeamA, Fingerprint: "fp-old"}, nil),
		s.mockOracle.EXPECT().
			Observe(gomock.Any(), gomock.Any()).
			Return(&oracle.ObserveOutput{Outcome: oracle.OutcomeTeamB, Fingerprint: "fp-new"}, nil),
	)
	gomock.InOrder(
		s.mockSessionRepo.EXPECT().
			ClaimFingerprint(gomock.Any(), &sessionRepo.ClaimFingerprintInput{
				Fingerprint: "fp-old",
				SessionID:   "session-1",
			}).
			Return(&sessionRepo.ClaimFingerprintOutput{Claimed: false, OwnerSessionID: "session-0"}, nil),
		s.mockSessionRepo.EXPECT().
			ClaimFingerprint(gomock.Any(), &sessionRepo.ClaimFingerprintInput{
				Fingerprint: "fp-new",
				SessionID:   "session-1",
			}).
			Return(&sessionRepo.ClaimFingerprintOutput{Claimed: true, OwnerSessionID: "session-1"}, nil),
	)
	s.expectStatusWrite(models.SessionStatusTeamBWon)

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)

	s.join(output.Done)
}

func (s *monitorServiceTestSuite) TestOracleFailuresEventuallyGiveUp() {
	s.expectPendingReads()
	s.mockOracle.EXPECT().
		Observe(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("oracle unreachable")).
		Times(3)

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)

	// No status write: the session stays pending for the next scan
	s.join(output.Done)
}

func (s *monitorServiceTestSuite) TestOutcomeLosesRaceToFinalTransition() {
	s.expectPendingReads()
	s.mockOracle.EXPECT().
		Observe(gomock.Any(), gomock.Any()).
		Return(&oracle.ObserveOutput{Outcome: oracle.OutcomeTeamA, Fingerprint: "fp-1"}, nil)
	s.mockSessionRepo.EXPECT().
		ClaimFingerprint(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.ClaimFingerprintOutput{Claimed: true, OwnerSessionID: "session-1"}, nil)
	s.mockSessionRepo.EXPECT().
		UpdateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.UpdateSessionInput) (*models.Session, error) {
			copied := *s.session
			copied.Status = models.SessionStatusCanceled
			if err := input.Mutate(&copied); err != nil {
				return nil, err
			}
			return &copied, nil
		})

	output, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)

	s.join(output.Done)
}

func (s *monitorServiceTestSuite) TestStopAllJoinsEveryWatcher() {
	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *sessionRepo.GetSessionInput) (*models.Session, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		AnyTimes()

	second := *s.session
	second.ID = "session-2"

	first, err := s.service.Start(context.Background(), &StartInput{Session: s.session})
	s.Require().NoError(err)
	other, err := s.service.Start(context.Background(), &StartInput{Session: &second})
	s.Require().NoError(err)

	s.service.StopAll()
	s.join(first.Done)
	s.join(other.Done)
	s.False(s.service.Watching("session-1"))
	s.False(s.service.Watching("session-2"))
}

func (s *monitorServiceTestSuite) TestNilConfigValidation() {
	_, err := NewService(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewService(&Config{})
	s.ErrorIs(err, ErrNilSessionRepo)
}

func TestMonitorServiceSuite(t *testing.T) {
	suite.Run(t, new(monitorServiceTestSuite))
}
