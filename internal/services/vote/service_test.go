package vote

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/models"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	sessionMocks "github.com/KirkDiggler/ranked-arena/internal/repositories/session/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type VoteServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockSessionRepo *sessionMocks.MockRepository
	service         Service
	ctx             context.Context

	testSession *models.Session
}

func (s *VoteServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.mockCtrl)
	s.ctx = context.Background()

	svc, err := NewService(&Config{
		SessionRepo: s.mockSessionRepo,
	})
	s.Require().NoError(err)
	s.service = svc

	teamA := make([]models.RosterSlot, 4)
	teamB := make([]models.RosterSlot, 4)
	for i := 0; i < 4; i++ {
		teamA[i] = models.RosterSlot{PlayerID: fmt.Sprintf("player-%d", i+1)}
		teamB[i] = models.RosterSlot{PlayerID: fmt.Sprintf("player-%d", i+5)}
	}

	s.testSession = &models.Session{
		ID:        "session-1",
		Mode:      models.GameModeRanked,
		Status:    models.SessionStatusPending,
		TeamA:     teamA,
		TeamB:     teamB,
		Votes:     []string{},
		CreatedAt: time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC),
	}
}

func (s *VoteServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectUpdate wires UpdateSession to apply the mutation against the
// suite's session fixture, the way the real repository would
func (s *VoteServiceTestSuite) expectUpdate() {
	s.mockSessionRepo.EXPECT().
		UpdateSession(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.UpdateSessionInput) (*models.Session, error) {
			s.Equal("session-1", input.SessionID)
			if err := input.Mutate(s.testSession); err != nil {
				return nil, err
			}
			return s.testSession, nil
		})
}

func (s *VoteServiceTestSuite) TestCastVoteRecordsVote() {
	s.expectUpdate()

	output, err := s.service.CastVote(s.ctx, &CastVoteInput{
		SessionID: "session-1",
		PlayerID:  "player-3",
	})
	s.Require().NoError(err)
	s.Equal(1, output.VoteCount)
	s.False(output.Canceled)
	s.Equal(models.SessionStatusPending, output.Session.Status)
}

func (s *VoteServiceTestSuite) TestCastVoteFiveVotesDoNotCancel() {
	for i := 1; i <= 5; i++ {
		s.expectUpdate()
		output, err := s.service.CastVote(s.ctx, &CastVoteInput{
			SessionID: "session-1",
			PlayerID:  fmt.Sprintf("player-%d", i),
		})
		s.Require().NoError(err)
		s.Equal(i, output.VoteCount)
		s.False(output.Canceled)
	}

	s.Equal(models.SessionStatusPending, s.testSession.Status)
}

func (s *VoteServiceTestSuite) TestCastVoteSixthVoteCancels() {
	s.testSession.Votes = []string{"player-1", "player-2", "player-3", "player-4", "player-5"}
	s.expectUpdate()

	output, err := s.service.CastVote(s.ctx, &CastVoteInput{
		SessionID: "session-1",
		PlayerID:  "player-6",
	})
	s.Require().NoError(err)
	s.Equal(6, output.VoteCount)
	s.True(output.Canceled)
	s.Equal(models.SessionStatusCanceled, output.Session.Status)
}

func (s *VoteServiceTestSuite) TestCastVoteAfterCancellationRejected() {
	s.testSession.Status = models.SessionStatusCanceled
	s.testSession.Votes = []string{"player-1", "player-2", "player-3", "player-4", "player-5", "player-6"}
	s.expectUpdate()

	_, err := s.service.CastVote(s.ctx, &CastVoteInput{
		SessionID: "session-1",
		PlayerID:  "player-7",
	})
	s.Require().ErrorIs(err, ErrSessionAlreadyFinal)
	s.Len(s.testSession.Votes, 6)
}

func (s *VoteServiceTestSuite) TestCastVoteDuplicateRejected() {
	s.testSession.Votes = []string{"player-2"}
	s.expectUpdate()

	_, err := s.service.CastVote(s.ctx, &CastVoteInput{
		SessionID: "session-1",
		PlayerID:  "player-2",
	})
	s.Require().ErrorIs(err, ErrDuplicateVote)
	s.Len(s.testSession.Votes, 1)
}

func (s *VoteServiceTestSuite) TestCastVoteNonParticipantRejected() {
	s.expectUpdate()

	_, err := s.service.CastVote(s.ctx, &CastVoteInput{
		SessionID: "session-1",
		PlayerID:  "stranger",
	})
	s.Require().ErrorIs(err, ErrNotAParticipant)
	s.Empty(s.testSession.Votes)
}

func (s *VoteServiceTestSuite) TestCastVoteSessionNotFound() {
	s.mockSessionRepo.EXPECT().
		UpdateSession(s.ctx, gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound)

	_, err := s.service.CastVote(s.ctx, &CastVoteInput{
		SessionID: "missing",
		PlayerID:  "player-1",
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *VoteServiceTestSuite) TestCastVoteRetriesConflict() {
	first := s.mockSessionRepo.EXPECT().
		UpdateSession(s.ctx, gomock.Any()).
		Return(nil, sessionRepo.ErrConflict)
	s.mockSessionRepo.EXPECT().
		UpdateSession(s.ctx, gomock.Any()).
		After(first).
		DoAndReturn(func(_ context.Context, input *sessionRepo.UpdateSessionInput) (*models.Session, error) {
			if err := input.Mutate(s.testSession); err != nil {
				return nil, err
			}
			return s.testSession, nil
		})

	output, err := s.service.CastVote(s.ctx, &CastVoteInput{
		SessionID: "session-1",
		PlayerID:  "player-1",
	})
	s.Require().NoError(err)
	s.Equal(1, output.VoteCount)
}

func TestVoteServiceSuite(t *testing.T) {
	suite.Run(t, new(VoteServiceTestSuite))
}
