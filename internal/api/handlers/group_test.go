package handlers_test

import (
	"net/http"
	"testing"

	"collab-hub-backend/internal/api/handlers"
	"collab-hub-backend/internal/database/models"
	"collab-hub-backend/internal/logger"
	"collab-hub-backend/internal/mocks"
	"collab-hub-backend/internal/service"
	"collab-hub-backend/internal/testutils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// GroupHandlerTestSuite drives the real handler and service over mocked
// repositories.
type GroupHandlerTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	groupRepo      *mocks.MockGroupRepositoryInterface
	membershipRepo *mocks.MockMembershipRepositoryInterface
	http           *testutils.HTTPTestSuite

	actorID uuid.UUID
}

// SetupTest sets up the test suite
func (suite *GroupHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.groupRepo = mocks.NewMockGroupRepositoryInterface(suite.ctrl)
	suite.membershipRepo = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)

	groupService := service.NewGroupService(
		suite.groupRepo, suite.membershipRepo, noopRecorder{}, validator.New(), logger.New(),
	)
	handler := handlers.NewGroupHandler(groupService)

	suite.actorID = uuid.New()

	suite.http = testutils.SetupHTTPTest()
	authed := suite.http.Router.Group("/api/v1", testutils.AsActor(suite.actorID))
	authed.GET("/groups", handler.ListGroups)
	authed.POST("/groups", handler.CreateGroup)
	authed.GET("/groups/:id", handler.GetGroup)
	authed.PUT("/groups/:id", handler.UpdateGroup)
	authed.DELETE("/groups/:id", handler.DeleteGroup)
}

// TearDownTest cleans up after each test
func (suite *GroupHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *GroupHandlerTestSuite) expectActorRole(group *models.Group, role models.GroupRole) {
	suite.groupRepo.EXPECT().GetByID(group.ID).Return(group, nil)
	if role == "" {
		suite.membershipRepo.EXPECT().
			GetByGroupAndUser(group.ID, suite.actorID).
			Return(nil, gorm.ErrRecordNotFound)
		return
	}
	suite.membershipRepo.EXPECT().
		GetByGroupAndUser(group.ID, suite.actorID).
		Return(&models.GroupMembership{
			GroupID: group.ID,
			UserID:  suite.actorID,
			Role:    role,
		}, nil)
}

func (suite *GroupHandlerTestSuite) testGroup() *models.Group {
	return &models.Group{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "platform-team",
		CreatedBy: suite.actorID,
	}
}

func (suite *GroupHandlerTestSuite) TestCreateGroup() {
	suite.groupRepo.EXPECT().
		CreateWithLeader(gomock.Any(), suite.actorID).
		DoAndReturn(func(group *models.Group, leaderID uuid.UUID) error {
			group.ID = uuid.New()
			return nil
		})

	recorder := suite.http.MakeRequest(http.MethodPost, "/api/v1/groups",
		service.CreateGroupRequest{Name: "platform-team", Description: "infra work"})

	var resp service.GroupResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusCreated, &resp)
	suite.Equal("platform-team", resp.Name)
	suite.Equal(suite.actorID, resp.CreatedBy)
}

func (suite *GroupHandlerTestSuite) TestCreateGroupEmptyName() {
	recorder := suite.http.MakeRequest(http.MethodPost, "/api/v1/groups",
		service.CreateGroupRequest{Name: ""})

	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *GroupHandlerTestSuite) TestGetGroup() {
	group := suite.testGroup()
	suite.expectActorRole(group, models.GroupRoleMember)

	recorder := suite.http.MakeRequest(http.MethodGet, "/api/v1/groups/"+group.ID.String(), nil)

	var resp service.GroupResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &resp)
	suite.Equal(group.ID, resp.ID)
}

func (suite *GroupHandlerTestSuite) TestGetGroupAsNonMember() {
	group := suite.testGroup()
	suite.expectActorRole(group, "")

	recorder := suite.http.MakeRequest(http.MethodGet, "/api/v1/groups/"+group.ID.String(), nil)

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusForbidden, "not a member")
}

func (suite *GroupHandlerTestSuite) TestGetGroupNotFound() {
	id := uuid.New()
	suite.groupRepo.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)

	recorder := suite.http.MakeRequest(http.MethodGet, "/api/v1/groups/"+id.String(), nil)

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusNotFound, "group not found")
}

func (suite *GroupHandlerTestSuite) TestListGroups() {
	suite.groupRepo.EXPECT().
		GetByUserID(suite.actorID, 20, 0).
		Return([]models.Group{*suite.testGroup()}, int64(1), nil)

	recorder := suite.http.MakeRequest(http.MethodGet, "/api/v1/groups", nil)

	var resp service.GroupListResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &resp)
	suite.Equal(int64(1), resp.Total)
	suite.Len(resp.Groups, 1)
}

func (suite *GroupHandlerTestSuite) TestUpdateGroupAsAdmin() {
	group := suite.testGroup()
	suite.expectActorRole(group, models.GroupRoleAdmin)
	suite.groupRepo.EXPECT().Update(gomock.Any()).Return(nil)

	recorder := suite.http.MakeRequest(http.MethodPut, "/api/v1/groups/"+group.ID.String(),
		service.UpdateGroupRequest{Name: "renamed", Description: "still infra"})

	var resp service.GroupResponse
	testutils.AssertJSONResponse(suite.T(), recorder, http.StatusOK, &resp)
	suite.Equal("renamed", resp.Name)
}

func (suite *GroupHandlerTestSuite) TestUpdateGroupAsMemberForbidden() {
	group := suite.testGroup()
	suite.expectActorRole(group, models.GroupRoleMember)

	recorder := suite.http.MakeRequest(http.MethodPut, "/api/v1/groups/"+group.ID.String(),
		service.UpdateGroupRequest{Name: "renamed"})

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusForbidden, "only the leader or an admin")
}

func (suite *GroupHandlerTestSuite) TestDeleteGroupAsLeader() {
	group := suite.testGroup()
	suite.expectActorRole(group, models.GroupRoleLeader)
	suite.groupRepo.EXPECT().Delete(group.ID).Return(nil)

	recorder := suite.http.MakeRequest(http.MethodDelete, "/api/v1/groups/"+group.ID.String(), nil)

	suite.Equal(http.StatusNoContent, recorder.Code)
}

func (suite *GroupHandlerTestSuite) TestDeleteGroupAsAdminForbidden() {
	group := suite.testGroup()
	suite.expectActorRole(group, models.GroupRoleAdmin)

	recorder := suite.http.MakeRequest(http.MethodDelete, "/api/v1/groups/"+group.ID.String(), nil)

	testutils.AssertErrorResponse(suite.T(), recorder, http.StatusForbidden, "only the leader can delete")
}

// TestGroupHandlerTestSuite runs the test suite
func TestGroupHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GroupHandlerTestSuite))
}
