package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"collab-hub-backend/internal/api/handlers"
	"collab-hub-backend/internal/database/models"
	"collab-hub-backend/internal/logger"
	"collab-hub-backend/internal/mocks"
	"collab-hub-backend/internal/service"
	"collab-hub-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// noopRecorder satisfies service.ActivityRecorder for handler tests, where the
// audit trail is not under test.
type noopRecorder struct{}

func (noopRecorder) Record(actorID, groupID uuid.UUID, action models.ActivityAction, entityType string, entityID uuid.UUID, details interface{}) error {
	return nil
}

// MembershipHandlerTestSuite drives the real handler and service over mocked
// repositories, so routing, status mapping, and JSON shapes are all exercised.
type MembershipHandlerTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	membershipRepo *mocks.MockMembershipRepositoryInterface
	groupRepo      *mocks.MockGroupRepositoryInterface
	userRepo       *mocks.MockUserRepositoryInterface
	http           *testutils.HTTPTestSuite

	actorID uuid.UUID
	group   *models.Group
}

// SetupTest sets up the test suite
func (suite *MembershipHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.membershipRepo = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.groupRepo = mocks.NewMockGroupRepositoryInterface(suite.ctrl)
	suite.userRepo = mocks.NewMockUserRepositoryInterface(suite.ctrl)

	membershipService := service.NewMembershipService(
		suite.membershipRepo, suite.groupRepo, suite.userRepo, noopRecorder{}, logger.New(),
	)
	handler := handlers.NewMembershipHandler(membershipService)

	suite.actorID = uuid.New()
	suite.group = &models.Group{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "test-group",
		CreatedBy: suite.actorID,
	}

	suite.http = testutils.SetupHTTPTest()
	authed := suite.http.Router.Group("/api/v1", testutils.AsActor(suite.actorID))
	authed.GET("/groups/:id/members", handler.ListMembers)
	authed.POST("/groups/:id/members", handler.AddMember)
	authed.DELETE("/groups/:id/members/:userId", handler.RemoveMember)
	authed.PUT("/groups/:id/members/role", handler.ChangeRole)
	authed.POST("/groups/:id/leadership", handler.TransferLeadership)
}

// TearDownTest cleans up after each test
func (suite *MembershipHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// expectActorRole primes the group lookup and the actor's membership. An
// empty role means the actor is not a member.
func (suite *MembershipHandlerTestSuite) expectActorRole(role models.GroupRole) {
	suite.groupRepo.EXPECT().GetByID(suite.group.ID).Return(suite.group, nil)
	if role == "" {
		suite.membershipRepo.EXPECT().
			GetByGroupAndUser(suite.group.ID, suite.actorID).
			Return(nil, gorm.ErrRecordNotFound)
		return
	}
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(suite.group.ID, suite.actorID).
		Return(&models.GroupMembership{
			GroupID: suite.group.ID,
			UserID:  suite.actorID,
			Role:    role,
		}, nil)
}

func (suite *MembershipHandlerTestSuite) membersURL() string {
	return "/api/v1/groups/" + suite.group.ID.String() + "/members"
}

func (suite *MembershipHandlerTestSuite) TestAddMember() {
	target := uuid.New()
	suite.expectActorRole(models.GroupRoleLeader)
	suite.userRepo.EXPECT().GetByID(target).Return(&models.User{}, nil)
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(suite.group.ID, target).
		Return(nil, gorm.ErrRecordNotFound)
	suite.membershipRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(m *models.GroupMembership) error {
			m.ID = uuid.New()
			m.CreatedAt = time.Now()
			return nil
		})

	recorder := suite.http.MakeRequest(http.MethodPost, suite.membersURL(),
		handlers.AddMemberRequest{UserID: target})

	var resp service.MemberResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusCreated, &resp)
	suite.Equal(target, resp.UserID)
	suite.Equal("member", resp.Role)
}

func (suite *MembershipHandlerTestSuite) TestAddMemberForbiddenForMembers() {
	suite.expectActorRole(models.GroupRoleMember)

	recorder := suite.http.MakeRequest(http.MethodPost, suite.membersURL(),
		handlers.AddMemberRequest{UserID: uuid.New()})

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusForbidden, "only the leader or an admin")
}

func (suite *MembershipHandlerTestSuite) TestAddMemberConflictWhenAlreadyMember() {
	target := uuid.New()
	suite.expectActorRole(models.GroupRoleAdmin)
	suite.userRepo.EXPECT().GetByID(target).Return(&models.User{}, nil)
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(suite.group.ID, target).
		Return(&models.GroupMembership{GroupID: suite.group.ID, UserID: target}, nil)

	recorder := suite.http.MakeRequest(http.MethodPost, suite.membersURL(),
		handlers.AddMemberRequest{UserID: target})

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusConflict, "already exists")
}

func (suite *MembershipHandlerTestSuite) TestAddMemberGroupNotFound() {
	suite.groupRepo.EXPECT().GetByID(suite.group.ID).Return(nil, gorm.ErrRecordNotFound)

	recorder := suite.http.MakeRequest(http.MethodPost, suite.membersURL(),
		handlers.AddMemberRequest{UserID: uuid.New()})

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusNotFound, "group not found")
}

func (suite *MembershipHandlerTestSuite) TestAddMemberInvalidGroupID() {
	recorder := suite.http.MakeRequest(http.MethodPost, "/api/v1/groups/not-a-uuid/members",
		handlers.AddMemberRequest{UserID: uuid.New()})

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusBadRequest, "Invalid id")
}

func (suite *MembershipHandlerTestSuite) TestAddMemberMissingBody() {
	recorder := suite.http.MakeRequest(http.MethodPost, suite.membersURL(), nil)

	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *MembershipHandlerTestSuite) TestRemoveMember() {
	target := uuid.New()
	suite.expectActorRole(models.GroupRoleLeader)
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(suite.group.ID, target).
		Return(&models.GroupMembership{GroupID: suite.group.ID, UserID: target, Role: models.GroupRoleMember}, nil)
	suite.membershipRepo.EXPECT().Delete(suite.group.ID, target).Return(nil)

	recorder := suite.http.MakeRequest(http.MethodDelete, suite.membersURL()+"/"+target.String(), nil)

	suite.Equal(http.StatusNoContent, recorder.Code)
}

func (suite *MembershipHandlerTestSuite) TestRemoveCreatorForbidden() {
	// Not even the leader may remove the group creator.
	creator := uuid.New()
	suite.group.CreatedBy = creator
	suite.expectActorRole(models.GroupRoleLeader)
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(suite.group.ID, creator).
		Return(&models.GroupMembership{GroupID: suite.group.ID, UserID: creator, Role: models.GroupRoleMember}, nil)

	recorder := suite.http.MakeRequest(http.MethodDelete, suite.membersURL()+"/"+creator.String(), nil)

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusForbidden, "creator")
}

func (suite *MembershipHandlerTestSuite) TestRemoveMemberNotFound() {
	target := uuid.New()
	suite.expectActorRole(models.GroupRoleLeader)
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(suite.group.ID, target).
		Return(nil, gorm.ErrRecordNotFound)

	recorder := suite.http.MakeRequest(http.MethodDelete, suite.membersURL()+"/"+target.String(), nil)

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusNotFound, "membership not found")
}

func (suite *MembershipHandlerTestSuite) TestChangeRole() {
	target := uuid.New()
	suite.expectActorRole(models.GroupRoleLeader)
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(suite.group.ID, target).
		Return(&models.GroupMembership{GroupID: suite.group.ID, UserID: target, Role: models.GroupRoleMember}, nil)
	suite.membershipRepo.EXPECT().
		UpdateRole(suite.group.ID, target, models.GroupRoleAdmin).
		Return(nil)

	recorder := suite.http.MakeRequest(http.MethodPut, suite.membersURL()+"/role",
		handlers.ChangeRoleRequest{UserID: target, NewRole: "admin"})

	var resp service.MemberResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &resp)
	suite.Equal("admin", resp.Role)
}

func (suite *MembershipHandlerTestSuite) TestChangeRoleToLeaderRejected() {
	recorder := suite.http.MakeRequest(http.MethodPut, suite.membersURL()+"/role",
		handlers.ChangeRoleRequest{UserID: uuid.New(), NewRole: "leader"})

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusBadRequest, "leadership transfer")
}

func (suite *MembershipHandlerTestSuite) TestChangeRoleInvalidRole() {
	recorder := suite.http.MakeRequest(http.MethodPut, suite.membersURL()+"/role",
		handlers.ChangeRoleRequest{UserID: uuid.New(), NewRole: "owner"})

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusBadRequest, "role must be one of")
}

func (suite *MembershipHandlerTestSuite) TestTransferLeadership() {
	candidate := uuid.New()
	suite.expectActorRole(models.GroupRoleLeader)
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(suite.group.ID, candidate).
		Return(&models.GroupMembership{GroupID: suite.group.ID, UserID: candidate, Role: models.GroupRoleMember}, nil)
	suite.membershipRepo.EXPECT().
		TransferLeadership(suite.group.ID, suite.actorID, candidate).
		Return(nil)

	recorder := suite.http.MakeRequest(http.MethodPost,
		"/api/v1/groups/"+suite.group.ID.String()+"/leadership",
		handlers.TransferLeadershipRequest{UserID: candidate})

	suite.Equal(http.StatusNoContent, recorder.Code)
}

func (suite *MembershipHandlerTestSuite) TestTransferLeadershipToSelf() {
	suite.expectActorRole(models.GroupRoleLeader)

	recorder := suite.http.MakeRequest(http.MethodPost,
		"/api/v1/groups/"+suite.group.ID.String()+"/leadership",
		handlers.TransferLeadershipRequest{UserID: suite.actorID})

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusBadRequest, "current leader")
}

func (suite *MembershipHandlerTestSuite) TestTransferLeadershipAsNonLeader() {
	candidate := uuid.New()
	suite.expectActorRole(models.GroupRoleAdmin)
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(suite.group.ID, candidate).
		Return(&models.GroupMembership{GroupID: suite.group.ID, UserID: candidate, Role: models.GroupRoleMember}, nil)

	recorder := suite.http.MakeRequest(http.MethodPost,
		"/api/v1/groups/"+suite.group.ID.String()+"/leadership",
		handlers.TransferLeadershipRequest{UserID: candidate})

	suite.Equal(http.StatusForbidden, recorder.Code)
}

func (suite *MembershipHandlerTestSuite) TestListMembers() {
	suite.expectActorRole(models.GroupRoleMember)
	suite.membershipRepo.EXPECT().
		GetByGroupID(suite.group.ID, 20, 0).
		Return([]models.GroupMembership{
			{GroupID: suite.group.ID, UserID: suite.actorID, Role: models.GroupRoleMember},
		}, int64(1), nil)

	recorder := suite.http.MakeRequest(http.MethodGet, suite.membersURL(), nil)

	var resp service.MemberListResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &resp)
	suite.Equal(int64(1), resp.Total)
	suite.Len(resp.Members, 1)
}

func (suite *MembershipHandlerTestSuite) TestListMembersAsNonMember() {
	suite.expectActorRole("")

	recorder := suite.http.MakeRequest(http.MethodGet, suite.membersURL(), nil)

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusForbidden, "not a member")
}

// TestMembershipHandlerTestSuite runs the test suite
func TestMembershipHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipHandlerTestSuite))
}
