package testutils

import (
	"fmt"
	"time"

	"collab-hub-backend/internal/database/models"

	"github.com/google/uuid"
)

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with default values
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		// Unique email per user to avoid unique-index collisions
		Email:       fmt.Sprintf("user-%s@test.com", id.String()[:8]),
		DisplayName: "Test User",
	}
}

// WithEmail sets a custom email for the user
func (f *UserFactory) WithEmail(email string) *models.User {
	user := f.Create()
	user.Email = email
	return user
}

// WithDisplayName sets a custom display name for the user
func (f *UserFactory) WithDisplayName(name string) *models.User {
	user := f.Create()
	user.DisplayName = name
	return user
}

// GroupFactory provides methods to create test Group data
type GroupFactory struct{}

// NewGroupFactory creates a new GroupFactory
func NewGroupFactory() *GroupFactory {
	return &GroupFactory{}
}

// Create creates a test Group with default values
func (f *GroupFactory) Create() *models.Group {
	return &models.Group{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "test-group",
		Description: "A test group for testing purposes",
		CreatedBy:   uuid.New(),
	}
}

// WithName sets a custom name for the group
func (f *GroupFactory) WithName(name string) *models.Group {
	group := f.Create()
	group.Name = name
	return group
}

// WithCreator sets the creator for the group
func (f *GroupFactory) WithCreator(userID uuid.UUID) *models.Group {
	group := f.Create()
	group.CreatedBy = userID
	return group
}

// MembershipFactory provides methods to create test GroupMembership data
type MembershipFactory struct{}

// NewMembershipFactory creates a new MembershipFactory
func NewMembershipFactory() *MembershipFactory {
	return &MembershipFactory{}
}

// Create creates a test GroupMembership with default values
func (f *MembershipFactory) Create() *models.GroupMembership {
	return &models.GroupMembership{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		GroupID: uuid.New(),
		UserID:  uuid.New(),
		Role:    models.GroupRoleMember,
	}
}

// In creates a membership for the given group and user
func (f *MembershipFactory) In(groupID, userID uuid.UUID) *models.GroupMembership {
	m := f.Create()
	m.GroupID = groupID
	m.UserID = userID
	return m
}

// WithRole creates a membership with the given role
func (f *MembershipFactory) WithRole(groupID, userID uuid.UUID, role models.GroupRole) *models.GroupMembership {
	m := f.In(groupID, userID)
	m.Role = role
	return m
}

// ActivityFactory provides methods to create test ActivityEntry data
type ActivityFactory struct{}

// NewActivityFactory creates a new ActivityFactory
func NewActivityFactory() *ActivityFactory {
	return &ActivityFactory{}
}

// Create creates a test ActivityEntry with default values
func (f *ActivityFactory) Create() *models.ActivityEntry {
	return &models.ActivityEntry{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		GroupID:     uuid.New(),
		ActorUserID: uuid.New(),
		Action:      models.ActionMemberAdded,
		EntityType:  "membership",
		EntityID:    uuid.New(),
	}
}

// In creates an activity entry for the given group and actor
func (f *ActivityFactory) In(groupID, actorID uuid.UUID) *models.ActivityEntry {
	e := f.Create()
	e.GroupID = groupID
	e.ActorUserID = actorID
	return e
}

// WithAction sets the action for the entry
func (f *ActivityFactory) WithAction(groupID, actorID uuid.UUID, action models.ActivityAction) *models.ActivityEntry {
	e := f.In(groupID, actorID)
	e.Action = action
	return e
}

// NoteFactory provides methods to create test Note data
type NoteFactory struct{}

// NewNoteFactory creates a new NoteFactory
func NewNoteFactory() *NoteFactory {
	return &NoteFactory{}
}

// Create creates a test Note with default values
func (f *NoteFactory) Create() *models.Note {
	return &models.Note{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		GroupID:  uuid.New(),
		AuthorID: uuid.New(),
		Title:    "Test Note",
		Body:     "A test note for testing purposes",
	}
}

// In creates a note for the given group and author
func (f *NoteFactory) In(groupID, authorID uuid.UUID) *models.Note {
	n := f.Create()
	n.GroupID = groupID
	n.AuthorID = authorID
	return n
}

// GoalFactory provides methods to create test Goal data
type GoalFactory struct{}

// NewGoalFactory creates a new GoalFactory
func NewGoalFactory() *GoalFactory {
	return &GoalFactory{}
}

// Create creates a test Goal with default values
func (f *GoalFactory) Create() *models.Goal {
	return &models.Goal{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		GroupID:     uuid.New(),
		AuthorID:    uuid.New(),
		Title:       "Test Goal",
		Description: "A test goal for testing purposes",
		Status:      models.GoalStatusOpen,
	}
}

// In creates a goal for the given group and author
func (f *GoalFactory) In(groupID, authorID uuid.UUID) *models.Goal {
	g := f.Create()
	g.GroupID = groupID
	g.AuthorID = authorID
	return g
}

// FactorySet provides access to all factories
type FactorySet struct {
	User       *UserFactory
	Group      *GroupFactory
	Membership *MembershipFactory
	Activity   *ActivityFactory
	Note       *NoteFactory
	Goal       *GoalFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		User:       NewUserFactory(),
		Group:      NewGroupFactory(),
		Membership: NewMembershipFactory(),
		Activity:   NewActivityFactory(),
		Note:       NewNoteFactory(),
		Goal:       NewGoalFactory(),
	}
}

// CreateGroupWithLeader creates a user, a group created by that user, and the
// leader membership that goes with it.
func (fs *FactorySet) CreateGroupWithLeader() (*models.User, *models.Group, *models.GroupMembership) {
	leader := fs.User.Create()
	group := fs.Group.WithCreator(leader.ID)
	membership := fs.Membership.WithRole(group.ID, leader.ID, models.GroupRoleLeader)
	return leader, group, membership
}
