package models

import "time"

// GroupMemberRole defines a member's role within a group.
type GroupMemberRole string

const (
	// GroupRoleAdmin may edit the group, manage admins and remove members.
	GroupRoleAdmin GroupMemberRole = "admin"
	// GroupRoleMember is the default role after joining.
	GroupRoleMember GroupMemberRole = "member"
)

// GroupMember maps users to groups and tracks role. Membership is a set:
// the composite primary key rejects duplicate joins at the storage layer.
type GroupMember struct {
	GroupID   uint            `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	Group     *Group          `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	UserID    uint            `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      GroupMemberRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (GroupMember) TableName() string {
	return "group_members"
}
