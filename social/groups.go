package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/snapgram/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateGroup creates a group with the actor as creator, admin and
// member.
func (e *Engine) CreateGroup(ctx context.Context, actorID uint, name, description string, isPrivate bool) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewInvalidInputError("Group name is required")
	}

	group := models.Group{
		Name:        name,
		Description: description,
		IsPrivate:   isPrivate,
		CreatorID:   actorID,
	}

	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		return tx.Create(&models.GroupMember{
			GroupID: group.ID,
			UserID:  actorID,
			Role:    models.GroupRoleAdmin,
		}).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &group, nil
}

func (e *Engine) getGroup(ctx context.Context, groupID uint) (*models.Group, error) {
	var group models.Group
	if err := e.DB.WithContext(ctx).First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Group", groupID)
		}
		return nil, models.NewInternalError(err)
	}
	return &group, nil
}

func (e *Engine) isGroupMember(ctx context.Context, group *models.Group, userID uint) (bool, error) {
	if group.CreatorID == userID {
		return true, nil
	}
	var count int64
	if err := e.DB.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// isGroupAdmin: the creator is permanently an admin regardless of
// membership rows; everyone else needs an admin-role row.
func (e *Engine) isGroupAdmin(ctx context.Context, group *models.Group, userID uint) (bool, error) {
	if group.CreatorID == userID {
		return true, nil
	}
	var count int64
	if err := e.DB.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND role = ?", group.ID, userID, models.GroupRoleAdmin).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// JoinGroup is idempotent: joining a group you are already in (at any
// role) is a no-op, never a demotion.
func (e *Engine) JoinGroup(ctx context.Context, actorID, groupID uint) error {
	group, err := e.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	res := e.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&models.GroupMember{
		GroupID: group.ID,
		UserID:  actorID,
		Role:    models.GroupRoleMember,
	})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	return nil
}

// LeaveGroup removes membership and any admin role in one step. The
// creator can never leave their own group.
func (e *Engine) LeaveGroup(ctx context.Context, actorID, groupID uint) error {
	group, err := e.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if group.CreatorID == actorID {
		return models.NewForbiddenError("The creator cannot leave the group")
	}

	if err := e.DB.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", group.ID, actorID).
		Delete(&models.GroupMember{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// PromoteAdmin moves a member to admin. Caller must be an admin or the
// creator; the target must already be a member.
func (e *Engine) PromoteAdmin(ctx context.Context, actorID, groupID, targetUserID uint) error {
	group, err := e.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	admin, err := e.isGroupAdmin(ctx, group, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Group admin access required")
	}

	res := e.DB.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, targetUserID).
		Update("role", models.GroupRoleAdmin)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewInvalidOperationError("User is not a member of this group")
	}
	return nil
}

// DemoteAdmin moves an admin back to member. The creator's admin status
// is not held in a membership row and cannot be revoked.
func (e *Engine) DemoteAdmin(ctx context.Context, actorID, groupID, targetUserID uint) error {
	group, err := e.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	admin, err := e.isGroupAdmin(ctx, group, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Group admin access required")
	}

	if group.CreatorID == targetUserID {
		return models.NewForbiddenError("The creator cannot be demoted")
	}

	res := e.DB.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, targetUserID).
		Update("role", models.GroupRoleMember)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewInvalidOperationError("User is not a member of this group")
	}
	return nil
}

// RemoveMember kicks a user out of the group. Caller must be an admin or
// the creator; the creator can never be removed. Users removing
// themselves should use LeaveGroup, which needs no admin role.
func (e *Engine) RemoveMember(ctx context.Context, actorID, groupID, targetUserID uint) error {
	group, err := e.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	admin, err := e.isGroupAdmin(ctx, group, actorID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Group admin access required")
	}

	if group.CreatorID == targetUserID {
		return models.NewForbiddenError("The creator cannot be removed from the group")
	}

	if err := e.DB.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", group.ID, targetUserID).
		Delete(&models.GroupMember{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// UpdateGroupInput carries the editable group settings.
type UpdateGroupInput struct {
	Name        *string
	Description *string
	IsPrivate   *bool
}

// UpdateGroup edits group settings; admins and the creator only.
func (e *Engine) UpdateGroup(ctx context.Context, actorID, groupID uint, input UpdateGroupInput) (*models.Group, error) {
	group, err := e.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	admin, err := e.isGroupAdmin(ctx, group, actorID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.NewForbiddenError("Group admin access required")
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, models.NewInvalidInputError("Group name is required")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.IsPrivate != nil {
		updates["is_private"] = *input.IsPrivate
	}

	if len(updates) > 0 {
		if err := e.DB.WithContext(ctx).Model(group).Updates(updates).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	return group, nil
}

// DeleteGroup is terminal and creator-only. It cascades to the group's
// posts (including their stored media) and memberships; a partial
// cascade failure is reported, never hidden.
func (e *Engine) DeleteGroup(ctx context.Context, actorID, groupID uint) error {
	group, err := e.getGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if group.CreatorID != actorID {
		return models.NewForbiddenError("Only the creator can delete the group")
	}

	db := e.DB.WithContext(ctx)

	var posts []models.Post
	if err := db.Preload("Media").Where("group_id = ?", group.ID).Find(&posts).Error; err != nil {
		return models.NewInternalError(err)
	}

	// Release media before touching rows. Object deletion is idempotent,
	// so a failure here leaves the database untouched and a retry safe.
	for i := range posts {
		if err := e.releaseMedia(ctx, &posts[i]); err != nil {
			return models.NewInternalError(fmt.Errorf("cascade delete of group %d stopped at post %d: %w", group.ID, posts[i].ID, err))
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range posts {
			postID := posts[i].ID
			if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", postID).Delete(&models.PostMedia{}).Error; err != nil {
				return err
			}
		}
		// Cascaded posts release their place references the same way a
		// single delete does: floored conditional decrement per post.
		for i := range posts {
			if posts[i].PlaceID == nil {
				continue
			}
			if err := tx.Model(&models.Place{}).
				Where("id = ? AND post_count > 0", *posts[i].PlaceID).
				UpdateColumn("post_count", gorm.Expr("post_count - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GroupMemberEntry is a membership listing row.
type GroupMemberEntry struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

// GroupMembers lists members with roles, admins first then by join time.
func (e *Engine) GroupMembers(ctx context.Context, groupID uint, p Pagination) ([]GroupMemberEntry, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	if _, err := e.getGroup(ctx, groupID); err != nil {
		return nil, 0, err
	}

	db := e.DB.WithContext(ctx).Model(&models.GroupMember{}).
		Select("users.id as user_id, users.username, group_members.role, group_members.created_at as joined_at").
		Joins("JOIN users ON users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var members []GroupMemberEntry
	if err := db.Order("group_members.role ASC, group_members.created_at ASC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&members).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return members, total, nil
}
