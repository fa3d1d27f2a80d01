package workspace

import "time"

// Role is a collaborator's role within a workspace.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// CollaboratorStatus tracks invitation and membership state.
type CollaboratorStatus string

const (
	StatusPending  CollaboratorStatus = "pending"
	StatusActive   CollaboratorStatus = "active"
	StatusInactive CollaboratorStatus = "inactive"
)

// Collaborator is a workspace member entry.
type Collaborator struct {
	UserID    string             `bson:"user_id" json:"userId"`
	Email     string             `bson:"email" json:"email"`
	Role      Role               `bson:"role" json:"role"`
	Status    CollaboratorStatus `bson:"status" json:"status"`
	InvitedAt time.Time          `bson:"invited_at" json:"invitedAt"`
}

// Workspace is a named collaboration container owning a set of websites.
// Exactly one collaborator has the owner role, set at creation.
type Workspace struct {
	ID            string         `bson:"_id" json:"id"`
	OwnerID       string         `bson:"owner_id" json:"ownerId"`
	Name          string         `bson:"name" json:"name"`
	Collaborators []Collaborator `bson:"collaborators" json:"collaborators"`
	WebsiteIDs    []string       `bson:"website_ids,omitempty" json:"websiteIds,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// FindCollaborator returns the entry for the given user.
func (w *Workspace) FindCollaborator(userID string) (Collaborator, bool) {
	for _, c := range w.Collaborators {
		if c.UserID == userID {
			return c, true
		}
	}
	return Collaborator{}, false
}

// IsMember reports whether the user is an active or pending collaborator.
func (w *Workspace) IsMember(userID string) bool {
	c, ok := w.FindCollaborator(userID)
	return ok && c.Status != StatusInactive
}
