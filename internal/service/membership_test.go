package service_test

import (
	"errors"
	"testing"

	"collab-hub-backend/internal/database/models"
	apperrors "collab-hub-backend/internal/errors"
	"collab-hub-backend/internal/logger"
	"collab-hub-backend/internal/mocks"
	"collab-hub-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// recordedEntry captures one call to the fake recorder.
type recordedEntry struct {
	ActorID    uuid.UUID
	GroupID    uuid.UUID
	Action     models.ActivityAction
	EntityType string
	EntityID   uuid.UUID
	Details    interface{}
}

// fakeRecorder is a hand-written ActivityRecorder for service tests. Setting
// Err simulates an audit store outage.
type fakeRecorder struct {
	Entries []recordedEntry
	Err     error
}

func (f *fakeRecorder) Record(actorID, groupID uuid.UUID, action models.ActivityAction, entityType string, entityID uuid.UUID, details interface{}) error {
	if f.Err != nil {
		return f.Err
	}
	f.Entries = append(f.Entries, recordedEntry{
		ActorID:    actorID,
		GroupID:    groupID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	})
	return nil
}

// MembershipServiceTestSuite defines the test suite for MembershipService
type MembershipServiceTestSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	mockMembershipRepo *mocks.MockMembershipRepositoryInterface
	mockGroupRepo      *mocks.MockGroupRepositoryInterface
	mockUserRepo       *mocks.MockUserRepositoryInterface
	recorder           *fakeRecorder
	membershipService  *service.MembershipService

	groupID   uuid.UUID
	creatorID uuid.UUID
	group     *models.Group
}

// SetupTest sets up the test suite
func (suite *MembershipServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockMembershipRepo = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.mockGroupRepo = mocks.NewMockGroupRepositoryInterface(suite.ctrl)
	suite.mockUserRepo = mocks.NewMockUserRepositoryInterface(suite.ctrl)
	suite.recorder = &fakeRecorder{}
	suite.membershipService = service.NewMembershipService(
		suite.mockMembershipRepo,
		suite.mockGroupRepo,
		suite.mockUserRepo,
		suite.recorder,
		logger.New(),
	)

	suite.groupID = uuid.New()
	suite.creatorID = uuid.New()
	suite.group = &models.Group{
		BaseModel: models.BaseModel{ID: suite.groupID},
		Name:      "test-group",
		CreatedBy: suite.creatorID,
	}
}

// TearDownTest cleans up after each test
func (suite *MembershipServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *MembershipServiceTestSuite) membership(userID uuid.UUID, role models.GroupRole) *models.GroupMembership {
	return &models.GroupMembership{
		BaseModel: models.BaseModel{ID: uuid.New()},
		GroupID:   suite.groupID,
		UserID:    userID,
		Role:      role,
	}
}

func (suite *MembershipServiceTestSuite) expectActorRole(actorID uuid.UUID, role models.GroupRole) {
	suite.mockGroupRepo.EXPECT().GetByID(suite.groupID).Return(suite.group, nil)
	if role == "" {
		suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, actorID).Return(nil, gorm.ErrRecordNotFound)
	} else {
		suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, actorID).Return(suite.membership(actorID, role), nil)
	}
}

// --- AddMember ---

func (suite *MembershipServiceTestSuite) TestAddMemberAsLeader() {
	actorID := suite.creatorID
	targetID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockUserRepo.EXPECT().GetByID(targetID).Return(&models.User{BaseModel: models.BaseModel{ID: targetID}}, nil)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(nil, gorm.ErrRecordNotFound)
	suite.mockMembershipRepo.EXPECT().Create(gomock.Any()).Return(nil)

	resp, err := suite.membershipService.AddMember(actorID, suite.groupID, targetID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), targetID, resp.UserID)
	assert.Equal(suite.T(), string(models.GroupRoleMember), resp.Role)

	// The audit entry lands after the mutation.
	suite.Require().Len(suite.recorder.Entries, 1)
	assert.Equal(suite.T(), models.ActionMemberAdded, suite.recorder.Entries[0].Action)
	assert.Equal(suite.T(), actorID, suite.recorder.Entries[0].ActorID)
}

func (suite *MembershipServiceTestSuite) TestAddMemberAsAdmin() {
	actorID := uuid.New()
	targetID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleAdmin)
	suite.mockUserRepo.EXPECT().GetByID(targetID).Return(&models.User{BaseModel: models.BaseModel{ID: targetID}}, nil)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(nil, gorm.ErrRecordNotFound)
	suite.mockMembershipRepo.EXPECT().Create(gomock.Any()).Return(nil)

	_, err := suite.membershipService.AddMember(actorID, suite.groupID, targetID)
	assert.NoError(suite.T(), err)
}

func (suite *MembershipServiceTestSuite) TestAddMemberAsMemberForbidden() {
	actorID := uuid.New()
	targetID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleMember)

	_, err := suite.membershipService.AddMember(actorID, suite.groupID, targetID)

	assert.True(suite.T(), apperrors.IsAuthorization(err))
	assert.Empty(suite.T(), suite.recorder.Entries)
}

func (suite *MembershipServiceTestSuite) TestAddMemberAsNonMember() {
	actorID := uuid.New()

	suite.expectActorRole(actorID, "")

	_, err := suite.membershipService.AddMember(actorID, suite.groupID, uuid.New())
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotGroupMember)
}

func (suite *MembershipServiceTestSuite) TestAddMemberGroupNotFound() {
	suite.mockGroupRepo.EXPECT().GetByID(suite.groupID).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.membershipService.AddMember(uuid.New(), suite.groupID, uuid.New())
	assert.ErrorIs(suite.T(), err, apperrors.ErrGroupNotFound)
}

func (suite *MembershipServiceTestSuite) TestAddMemberTargetUserNotFound() {
	actorID := suite.creatorID
	targetID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockUserRepo.EXPECT().GetByID(targetID).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.membershipService.AddMember(actorID, suite.groupID, targetID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrUserNotFound)
}

func (suite *MembershipServiceTestSuite) TestAddMemberAlreadyMember() {
	actorID := suite.creatorID
	targetID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockUserRepo.EXPECT().GetByID(targetID).Return(&models.User{BaseModel: models.BaseModel{ID: targetID}}, nil)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(suite.membership(targetID, models.GroupRoleMember), nil)

	_, err := suite.membershipService.AddMember(actorID, suite.groupID, targetID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrAlreadyMember)
	assert.Empty(suite.T(), suite.recorder.Entries)
}

func (suite *MembershipServiceTestSuite) TestAddMemberDuplicateInsertRace() {
	actorID := suite.creatorID
	targetID := uuid.New()

	// The membership check sees nothing, but a concurrent request wins the
	// insert. The unique-violation translates to the same already-member
	// outcome, not an internal error.
	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockUserRepo.EXPECT().GetByID(targetID).Return(&models.User{BaseModel: models.BaseModel{ID: targetID}}, nil)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(nil, gorm.ErrRecordNotFound)
	suite.mockMembershipRepo.EXPECT().Create(gomock.Any()).Return(gorm.ErrDuplicatedKey)

	_, err := suite.membershipService.AddMember(actorID, suite.groupID, targetID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrAlreadyMember)
	assert.Empty(suite.T(), suite.recorder.Entries)
}

func (suite *MembershipServiceTestSuite) TestAddMemberAuditFailureDoesNotFailAdd() {
	actorID := suite.creatorID
	targetID := uuid.New()
	suite.recorder.Err = errors.New("activity store down")

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockUserRepo.EXPECT().GetByID(targetID).Return(&models.User{BaseModel: models.BaseModel{ID: targetID}}, nil)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(nil, gorm.ErrRecordNotFound)
	suite.mockMembershipRepo.EXPECT().Create(gomock.Any()).Return(nil)

	resp, err := suite.membershipService.AddMember(actorID, suite.groupID, targetID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), resp)
}

// --- RemoveMember ---

func (suite *MembershipServiceTestSuite) TestRemoveMemberAsLeader() {
	actorID := suite.creatorID
	targetID := uuid.New()
	target := suite.membership(targetID, models.GroupRoleMember)

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(target, nil)
	suite.mockMembershipRepo.EXPECT().Delete(suite.groupID, targetID).Return(nil)

	err := suite.membershipService.RemoveMember(actorID, suite.groupID, targetID)

	assert.NoError(suite.T(), err)
	suite.Require().Len(suite.recorder.Entries, 1)
	assert.Equal(suite.T(), models.ActionMemberRemoved, suite.recorder.Entries[0].Action)
}

func (suite *MembershipServiceTestSuite) TestRemoveCreatorForbidden() {
	// Leadership has been transferred away, yet the creator stays protected
	// from removal by the new leader.
	leaderID := uuid.New()
	suite.expectActorRole(leaderID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, suite.creatorID).Return(suite.membership(suite.creatorID, models.GroupRoleMember), nil)

	err := suite.membershipService.RemoveMember(leaderID, suite.groupID, suite.creatorID)

	assert.True(suite.T(), apperrors.IsAuthorization(err))
	assert.Empty(suite.T(), suite.recorder.Entries)
}

func (suite *MembershipServiceTestSuite) TestRemoveMemberAsAdminForbidden() {
	actorID := uuid.New()
	targetID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleAdmin)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(suite.membership(targetID, models.GroupRoleMember), nil)

	err := suite.membershipService.RemoveMember(actorID, suite.groupID, targetID)
	assert.True(suite.T(), apperrors.IsAuthorization(err))
}

func (suite *MembershipServiceTestSuite) TestMemberCanLeave() {
	actorID := uuid.New()
	self := suite.membership(actorID, models.GroupRoleMember)

	suite.mockGroupRepo.EXPECT().GetByID(suite.groupID).Return(suite.group, nil)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, actorID).Return(self, nil).Times(2)
	suite.mockMembershipRepo.EXPECT().Delete(suite.groupID, actorID).Return(nil)

	err := suite.membershipService.RemoveMember(actorID, suite.groupID, actorID)
	assert.NoError(suite.T(), err)
}

func (suite *MembershipServiceTestSuite) TestLeaderCannotLeave() {
	// The creator transferred nothing; as leader they cannot leave, or the
	// group would be left without one.
	actorID := uuid.New()
	self := suite.membership(actorID, models.GroupRoleLeader)

	suite.mockGroupRepo.EXPECT().GetByID(suite.groupID).Return(suite.group, nil)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, actorID).Return(self, nil).Times(2)

	err := suite.membershipService.RemoveMember(actorID, suite.groupID, actorID)

	assert.True(suite.T(), apperrors.IsAuthorization(err))
	assert.Empty(suite.T(), suite.recorder.Entries)
}

func (suite *MembershipServiceTestSuite) TestRemoveMemberNotFound() {
	actorID := suite.creatorID
	targetID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(nil, gorm.ErrRecordNotFound)

	err := suite.membershipService.RemoveMember(actorID, suite.groupID, targetID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrMembershipNotFound)
}

// --- ChangeRole ---

func (suite *MembershipServiceTestSuite) TestChangeRolePromoteToAdmin() {
	actorID := suite.creatorID
	targetID := uuid.New()
	target := suite.membership(targetID, models.GroupRoleMember)

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(target, nil)
	suite.mockMembershipRepo.EXPECT().UpdateRole(suite.groupID, targetID, models.GroupRoleAdmin).Return(nil)

	resp, err := suite.membershipService.ChangeRole(actorID, suite.groupID, targetID, models.GroupRoleAdmin)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), string(models.GroupRoleAdmin), resp.Role)

	suite.Require().Len(suite.recorder.Entries, 1)
	assert.Equal(suite.T(), models.ActionRoleChanged, suite.recorder.Entries[0].Action)
}

func (suite *MembershipServiceTestSuite) TestChangeRoleDemoteToMember() {
	actorID := suite.creatorID
	targetID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(suite.membership(targetID, models.GroupRoleAdmin), nil)
	suite.mockMembershipRepo.EXPECT().UpdateRole(suite.groupID, targetID, models.GroupRoleMember).Return(nil)

	resp, err := suite.membershipService.ChangeRole(actorID, suite.groupID, targetID, models.GroupRoleMember)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), string(models.GroupRoleMember), resp.Role)
}

func (suite *MembershipServiceTestSuite) TestChangeRoleInvalidRole() {
	_, err := suite.membershipService.ChangeRole(uuid.New(), suite.groupID, uuid.New(), models.GroupRole("owner"))
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidRole)
}

func (suite *MembershipServiceTestSuite) TestChangeRoleToLeaderRejected() {
	// Leadership is a single seat; it only moves via TransferLeadership.
	_, err := suite.membershipService.ChangeRole(suite.creatorID, suite.groupID, uuid.New(), models.GroupRoleLeader)
	assert.ErrorIs(suite.T(), err, apperrors.ErrLeaderViaRoleChange)
}

func (suite *MembershipServiceTestSuite) TestChangeRoleAsAdminForbidden() {
	actorID := uuid.New()
	targetID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleAdmin)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, targetID).Return(suite.membership(targetID, models.GroupRoleMember), nil)

	_, err := suite.membershipService.ChangeRole(actorID, suite.groupID, targetID, models.GroupRoleAdmin)
	assert.True(suite.T(), apperrors.IsAuthorization(err))
}

func (suite *MembershipServiceTestSuite) TestChangeCreatorRoleForbidden() {
	leaderID := uuid.New()

	suite.expectActorRole(leaderID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, suite.creatorID).Return(suite.membership(suite.creatorID, models.GroupRoleAdmin), nil)

	_, err := suite.membershipService.ChangeRole(leaderID, suite.groupID, suite.creatorID, models.GroupRoleMember)
	assert.True(suite.T(), apperrors.IsAuthorization(err))
}

// --- TransferLeadership ---

func (suite *MembershipServiceTestSuite) TestTransferLeadership() {
	actorID := suite.creatorID
	candidateID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, candidateID).Return(suite.membership(candidateID, models.GroupRoleMember), nil)
	suite.mockMembershipRepo.EXPECT().TransferLeadership(suite.groupID, actorID, candidateID).Return(nil)

	err := suite.membershipService.TransferLeadership(actorID, suite.groupID, candidateID)

	assert.NoError(suite.T(), err)
	suite.Require().Len(suite.recorder.Entries, 1)
	assert.Equal(suite.T(), models.ActionLeaderChanged, suite.recorder.Entries[0].Action)
}

func (suite *MembershipServiceTestSuite) TestTransferLeadershipToSelf() {
	actorID := suite.creatorID

	suite.expectActorRole(actorID, models.GroupRoleLeader)

	err := suite.membershipService.TransferLeadership(actorID, suite.groupID, actorID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrTransferToSelf)
}

func (suite *MembershipServiceTestSuite) TestTransferLeadershipAsNonLeader() {
	actorID := uuid.New()
	candidateID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleAdmin)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, candidateID).Return(suite.membership(candidateID, models.GroupRoleMember), nil)

	err := suite.membershipService.TransferLeadership(actorID, suite.groupID, candidateID)
	assert.True(suite.T(), apperrors.IsAuthorization(err))
}

func (suite *MembershipServiceTestSuite) TestTransferLeadershipCandidateNotMember() {
	actorID := suite.creatorID
	candidateID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, candidateID).Return(nil, gorm.ErrRecordNotFound)

	err := suite.membershipService.TransferLeadership(actorID, suite.groupID, candidateID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrMembershipNotFound)
}

func (suite *MembershipServiceTestSuite) TestFullLeadershipHandover() {
	// creator -> transfer to member -> old leader leaves -> creator protected
	// from removal by the new leader throughout.
	actorID := suite.creatorID
	newLeaderID := uuid.New()

	suite.expectActorRole(actorID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, newLeaderID).Return(suite.membership(newLeaderID, models.GroupRoleMember), nil)
	suite.mockMembershipRepo.EXPECT().TransferLeadership(suite.groupID, actorID, newLeaderID).Return(nil)
	suite.Require().NoError(suite.membershipService.TransferLeadership(actorID, suite.groupID, newLeaderID))

	// The old leader, now a plain member but still the creator, tries to
	// leave: denied by creator protection.
	suite.mockGroupRepo.EXPECT().GetByID(suite.groupID).Return(suite.group, nil)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, actorID).Return(suite.membership(actorID, models.GroupRoleMember), nil).Times(2)
	err := suite.membershipService.RemoveMember(actorID, suite.groupID, actorID)
	assert.True(suite.T(), apperrors.IsAuthorization(err))

	// The new leader cannot remove the creator either.
	suite.expectActorRole(newLeaderID, models.GroupRoleLeader)
	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(suite.groupID, actorID).Return(suite.membership(actorID, models.GroupRoleMember), nil)
	err = suite.membershipService.RemoveMember(newLeaderID, suite.groupID, actorID)
	assert.True(suite.T(), apperrors.IsAuthorization(err))
}

// --- ListMembers ---

func (suite *MembershipServiceTestSuite) TestListMembers() {
	actorID := uuid.New()
	other := suite.membership(uuid.New(), models.GroupRoleAdmin)
	other.User = models.User{BaseModel: models.BaseModel{ID: other.UserID}, DisplayName: "Other User", Email: "other@test.com"}

	suite.expectActorRole(actorID, models.GroupRoleMember)
	suite.mockMembershipRepo.EXPECT().GetByGroupID(suite.groupID, 20, 0).Return([]models.GroupMembership{*other}, int64(1), nil)

	resp, err := suite.membershipService.ListMembers(actorID, suite.groupID, 1, 20)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), resp.Total)
	suite.Require().Len(resp.Members, 1)
	assert.Equal(suite.T(), "Other User", resp.Members[0].DisplayName)
	assert.Equal(suite.T(), string(models.GroupRoleAdmin), resp.Members[0].Role)
}

func (suite *MembershipServiceTestSuite) TestListMembersAsNonMember() {
	actorID := uuid.New()

	suite.expectActorRole(actorID, "")

	_, err := suite.membershipService.ListMembers(actorID, suite.groupID, 1, 20)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotGroupMember)
}

// TestMembershipServiceTestSuite runs the test suite
func TestMembershipServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipServiceTestSuite))
}
