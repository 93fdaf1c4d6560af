package social

import (
	"context"
	"testing"

	"github.com/snapgram/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")

	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "weekend hikes", false)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, group.CreatorID)

	// The creator is seeded as an admin member.
	members, total, err := e.GroupMembers(ctx, group.ID, Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, members, 1)
	assert.Equal(t, string(models.GroupRoleAdmin), members[0].Role)
}

func TestCreateGroup_NameRequired(t *testing.T) {
	e, _ := newTestEngine(t)
	alice := createTestUser(t, e.DB, "alice")

	_, err := e.CreateGroup(context.Background(), alice.ID, "   ", "", false)
	assert.Equal(t, models.CodeInvalidInput, appCode(t, err))
}

func TestJoinGroup_Idempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	bob := createTestUser(t, e.DB, "bob")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)

	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))
	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))

	var rows int64
	require.NoError(t, e.DB.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, bob.ID).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestJoinGroup_DoesNotDemoteAdmin(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	bob := createTestUser(t, e.DB, "bob")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)

	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))
	require.NoError(t, e.PromoteAdmin(ctx, alice.ID, group.ID, bob.ID))

	// A repeat join must not overwrite the admin role with member.
	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))

	var membership models.GroupMember
	require.NoError(t, e.DB.Where("group_id = ? AND user_id = ?", group.ID, bob.ID).
		First(&membership).Error)
	assert.Equal(t, models.GroupRoleAdmin, membership.Role)
}

func TestLeaveGroup(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	bob := createTestUser(t, e.DB, "bob")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)

	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))
	require.NoError(t, e.PromoteAdmin(ctx, alice.ID, group.ID, bob.ID))

	// Leaving removes both the membership and the admin role.
	require.NoError(t, e.LeaveGroup(ctx, bob.ID, group.ID))

	var rows int64
	require.NoError(t, e.DB.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, bob.ID).
		Count(&rows).Error)
	assert.Equal(t, int64(0), rows)

	// The creator can never leave.
	err = e.LeaveGroup(ctx, alice.ID, group.ID)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))
}

func TestPromoteAdmin(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	bob := createTestUser(t, e.DB, "bob")
	carol := createTestUser(t, e.DB, "carol")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)

	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))

	// A plain member cannot promote.
	err = e.PromoteAdmin(ctx, bob.ID, group.ID, bob.ID)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))

	// Promoting a non-member is rejected.
	err = e.PromoteAdmin(ctx, alice.ID, group.ID, carol.ID)
	assert.Equal(t, models.CodeInvalidOperation, appCode(t, err))

	require.NoError(t, e.PromoteAdmin(ctx, alice.ID, group.ID, bob.ID))

	// Fresh admins get admin powers.
	require.NoError(t, e.JoinGroup(ctx, carol.ID, group.ID))
	require.NoError(t, e.PromoteAdmin(ctx, bob.ID, group.ID, carol.ID))
}

func TestDemoteAdmin(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	bob := createTestUser(t, e.DB, "bob")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)

	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))
	require.NoError(t, e.PromoteAdmin(ctx, alice.ID, group.ID, bob.ID))
	require.NoError(t, e.DemoteAdmin(ctx, alice.ID, group.ID, bob.ID))

	var membership models.GroupMember
	require.NoError(t, e.DB.Where("group_id = ? AND user_id = ?", group.ID, bob.ID).
		First(&membership).Error)
	assert.Equal(t, models.GroupRoleMember, membership.Role)

	// The creator's admin status is structural and cannot be revoked.
	err = e.DemoteAdmin(ctx, bob.ID, group.ID, alice.ID)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))
}

func TestRemoveMember(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	bob := createTestUser(t, e.DB, "bob")
	carol := createTestUser(t, e.DB, "carol")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)

	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))
	require.NoError(t, e.JoinGroup(ctx, carol.ID, group.ID))

	// A plain member cannot kick.
	err = e.RemoveMember(ctx, bob.ID, group.ID, carol.ID)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))

	// The creator cannot be removed by anyone.
	require.NoError(t, e.PromoteAdmin(ctx, alice.ID, group.ID, bob.ID))
	err = e.RemoveMember(ctx, bob.ID, group.ID, alice.ID)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))

	require.NoError(t, e.RemoveMember(ctx, bob.ID, group.ID, carol.ID))

	var rows int64
	require.NoError(t, e.DB.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, carol.ID).
		Count(&rows).Error)
	assert.Equal(t, int64(0), rows)
}

func TestUpdateGroup(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	bob := createTestUser(t, e.DB, "bob")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)

	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))

	name := "Trail Club"
	_, err = e.UpdateGroup(ctx, bob.ID, group.ID, UpdateGroupInput{Name: &name})
	assert.Equal(t, models.CodeForbidden, appCode(t, err))

	updated, err := e.UpdateGroup(ctx, alice.ID, group.ID, UpdateGroupInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Trail Club", updated.Name)
}

func TestDeleteGroup_Cascade(t *testing.T) {
	e, media := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	bob := createTestUser(t, e.DB, "bob")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)
	require.NoError(t, e.JoinGroup(ctx, bob.ID, group.ID))

	post, err := e.CreatePost(ctx, bob.ID, CreatePostInput{
		Caption:   "summit",
		MediaType: "photo",
		MediaKey:  "media/summit.jpg",
		MediaURL:  "https://media.test/media/summit.jpg",
		GroupID:   &group.ID,
	})
	require.NoError(t, err)
	_, _, err = e.ToggleLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	_, _, err = e.AddComment(ctx, alice.ID, post.ID, "great view")
	require.NoError(t, err)

	// Only the creator can delete, even a promoted admin cannot.
	require.NoError(t, e.PromoteAdmin(ctx, alice.ID, group.ID, bob.ID))
	err = e.DeleteGroup(ctx, bob.ID, group.ID)
	assert.Equal(t, models.CodeForbidden, appCode(t, err))

	require.NoError(t, e.DeleteGroup(ctx, alice.ID, group.ID))

	assert.Contains(t, media.deletedKeys(), "media/summit.jpg")

	for name, model := range map[string]interface{}{
		"posts":       &models.Post{},
		"likes":       &models.Like{},
		"comments":    &models.Comment{},
		"memberships": &models.GroupMember{},
	} {
		var rows int64
		require.NoError(t, e.DB.Model(model).Count(&rows).Error)
		assert.Equal(t, int64(0), rows, "expected no %s after cascade", name)
	}

	_, err = e.getGroup(ctx, group.ID)
	assert.Equal(t, models.CodeNotFound, appCode(t, err))
}

func TestDeleteGroup_ReleasesPlaceCounts(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)

	_, err = e.CreatePost(ctx, alice.ID, CreatePostInput{
		Caption:   "sunset at the pier",
		MediaType: "photo",
		MediaKey:  "media/pier.jpg",
		MediaURL:  "https://media.test/media/pier.jpg",
		GroupID:   &group.ID,
		Place:     &PlaceInput{ExternalID: "ext-pier", Name: "The Pier"},
	})
	require.NoError(t, err)

	place, err := e.GetPlaceBySlug(ctx, "the-pier")
	require.NoError(t, err)
	require.Equal(t, 1, place.PostCount)

	require.NoError(t, e.DeleteGroup(ctx, alice.ID, group.ID))

	place, err = e.GetPlace(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, place.PostCount)
}

func TestCreatePost_GroupMembershipRequired(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	alice := createTestUser(t, e.DB, "alice")
	bob := createTestUser(t, e.DB, "bob")
	group, err := e.CreateGroup(ctx, alice.ID, "Hiking Club", "", false)
	require.NoError(t, err)

	_, err = e.CreatePost(ctx, bob.ID, CreatePostInput{
		Caption:   "sneaky",
		MediaType: "photo",
		MediaKey:  "media/x.jpg",
		MediaURL:  "https://media.test/media/x.jpg",
		GroupID:   &group.ID,
	})
	assert.Equal(t, models.CodeForbidden, appCode(t, err))
}
