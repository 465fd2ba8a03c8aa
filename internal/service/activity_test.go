package service_test

import (
	"testing"
	"time"

	"collab-hub-backend/internal/database/models"
	apperrors "collab-hub-backend/internal/errors"
	"collab-hub-backend/internal/mocks"
	"collab-hub-backend/internal/repository"
	"collab-hub-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// ActivityServiceTestSuite defines the test suite for ActivityService
type ActivityServiceTestSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	mockRepo           *mocks.MockActivityRepositoryInterface
	mockMembershipRepo *mocks.MockMembershipRepositoryInterface
	activityService    *service.ActivityService
}

// SetupTest sets up the test suite
func (suite *ActivityServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockActivityRepositoryInterface(suite.ctrl)
	suite.mockMembershipRepo = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.activityService = service.NewActivityService(suite.mockRepo, suite.mockMembershipRepo)
}

// TearDownTest cleans up after each test
func (suite *ActivityServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ActivityServiceTestSuite) entry(groupID uuid.UUID, createdAt time.Time) models.ActivityEntry {
	return models.ActivityEntry{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: createdAt,
		},
		GroupID:     groupID,
		ActorUserID: uuid.New(),
		Action:      models.ActionMemberAdded,
		EntityType:  "membership",
		EntityID:    uuid.New(),
	}
}

func (suite *ActivityServiceTestSuite) TestRecord() {
	suite.mockRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(entry *models.ActivityEntry) error {
		assert.Equal(suite.T(), models.ActionMemberAdded, entry.Action)
		assert.Equal(suite.T(), "membership", entry.EntityType)
		assert.JSONEq(suite.T(), `{"user_id":"abc"}`, string(entry.Details))
		return nil
	})

	err := suite.activityService.Record(uuid.New(), uuid.New(), models.ActionMemberAdded, "membership", uuid.New(), map[string]interface{}{
		"user_id": "abc",
	})
	assert.NoError(suite.T(), err)
}

func (suite *ActivityServiceTestSuite) TestRecordWithoutDetails() {
	suite.mockRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(entry *models.ActivityEntry) error {
		assert.Nil(suite.T(), entry.Details)
		return nil
	})

	err := suite.activityService.Record(uuid.New(), uuid.New(), models.ActionGroupUpdated, "group", uuid.New(), nil)
	assert.NoError(suite.T(), err)
}

func (suite *ActivityServiceTestSuite) TestRecordRejectsUnknownAction() {
	err := suite.activityService.Record(uuid.New(), uuid.New(), models.ActivityAction("user_poked"), "membership", uuid.New(), nil)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidAction)
}

func (suite *ActivityServiceTestSuite) TestRecordRequiresIDs() {
	err := suite.activityService.Record(uuid.Nil, uuid.New(), models.ActionMemberAdded, "membership", uuid.New(), nil)
	assert.True(suite.T(), apperrors.IsValidation(err))

	err = suite.activityService.Record(uuid.New(), uuid.New(), models.ActionMemberAdded, "", uuid.New(), nil)
	assert.True(suite.T(), apperrors.IsValidation(err))
}

func (suite *ActivityServiceTestSuite) TestListForGroup() {
	groupID := uuid.New()
	actorID := uuid.New()
	now := time.Now()

	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(groupID, actorID).Return(&models.GroupMembership{
		GroupID: groupID,
		UserID:  actorID,
		Role:    models.GroupRoleMember,
	}, nil)
	suite.mockRepo.EXPECT().ListByGroup(groupID, 20, nil).Return([]models.ActivityEntry{
		suite.entry(groupID, now),
		suite.entry(groupID, now.Add(-time.Minute)),
	}, nil)

	resp, err := suite.activityService.ListForGroup(actorID, groupID, 20, "")

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), resp.Entries, 2)
	// Short page: nothing left to load.
	assert.Empty(suite.T(), resp.NextCursor)
}

func (suite *ActivityServiceTestSuite) TestListForGroupFullPageReturnsCursor() {
	groupID := uuid.New()
	actorID := uuid.New()
	now := time.Now()

	entries := []models.ActivityEntry{
		suite.entry(groupID, now),
		suite.entry(groupID, now.Add(-time.Minute)),
	}

	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(groupID, actorID).Return(&models.GroupMembership{
		GroupID: groupID,
		UserID:  actorID,
		Role:    models.GroupRoleAdmin,
	}, nil).Times(2)
	suite.mockRepo.EXPECT().ListByGroup(groupID, 2, nil).Return(entries, nil)

	resp, err := suite.activityService.ListForGroup(actorID, groupID, 2, "")
	suite.Require().NoError(err)
	suite.Require().NotEmpty(resp.NextCursor)

	// The returned cursor decodes to the last entry's position and is handed
	// to the repository on the next page.
	last := entries[1]
	suite.mockRepo.EXPECT().ListByGroup(groupID, 2, gomock.Any()).DoAndReturn(
		func(_ uuid.UUID, _ int, before *repository.ActivityCursor) ([]models.ActivityEntry, error) {
			suite.Require().NotNil(before)
			assert.Equal(suite.T(), last.ID, before.ID)
			assert.WithinDuration(suite.T(), last.CreatedAt, before.CreatedAt, time.Millisecond)
			return nil, nil
		})

	_, err = suite.activityService.ListForGroup(actorID, groupID, 2, resp.NextCursor)
	assert.NoError(suite.T(), err)
}

func (suite *ActivityServiceTestSuite) TestListForGroupInvalidCursor() {
	groupID := uuid.New()
	actorID := uuid.New()

	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(groupID, actorID).Return(&models.GroupMembership{
		GroupID: groupID,
		UserID:  actorID,
		Role:    models.GroupRoleMember,
	}, nil)

	_, err := suite.activityService.ListForGroup(actorID, groupID, 20, "not a cursor")
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidCursor)
}

func (suite *ActivityServiceTestSuite) TestListForGroupAsNonMember() {
	groupID := uuid.New()
	actorID := uuid.New()

	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(groupID, actorID).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.activityService.ListForGroup(actorID, groupID, 20, "")
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotGroupMember)
}

func (suite *ActivityServiceTestSuite) TestListForGroupClampsPageSize() {
	groupID := uuid.New()
	actorID := uuid.New()

	suite.mockMembershipRepo.EXPECT().GetByGroupAndUser(groupID, actorID).Return(&models.GroupMembership{
		GroupID: groupID,
		UserID:  actorID,
		Role:    models.GroupRoleMember,
	}, nil)
	suite.mockRepo.EXPECT().ListByGroup(groupID, 20, nil).Return(nil, nil)

	resp, err := suite.activityService.ListForGroup(actorID, groupID, 5000, "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 20, resp.PageSize)
}

// TestActivityServiceTestSuite runs the test suite
func TestActivityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ActivityServiceTestSuite))
}
