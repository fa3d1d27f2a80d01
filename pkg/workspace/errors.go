package workspace

import "errors"

var (
	// ErrNotFound means no workspace matches the lookup.
	ErrNotFound = errors.New("workspace not found")
	// ErrMissingID means a workspace was saved without an ID.
	ErrMissingID = errors.New("workspace ID is required")
	// ErrMissingName rejects workspaces without a name.
	ErrMissingName = errors.New("workspace name is required")
	// ErrNotOwner means the caller lacks the owner role for the operation.
	ErrNotOwner = errors.New("only the workspace owner may do this")
	// ErrLastWorkspace blocks deleting the owner's only workspace.
	ErrLastWorkspace = errors.New("cannot delete your only workspace")
	// ErrCannotRemoveOwner blocks removing the owner collaborator.
	ErrCannotRemoveOwner = errors.New("the workspace owner cannot be removed")
	// ErrInvalidRole rejects invites with a role other than admin or member.
	ErrInvalidRole = errors.New("invite role must be admin or member")
	// ErrAlreadyCollaborator means the invitee is already on the workspace.
	ErrAlreadyCollaborator = errors.New("user is already a collaborator")
	// ErrNoInvite means no pending invitation exists for the user.
	ErrNoInvite = errors.New("no pending invitation for this user")
)
