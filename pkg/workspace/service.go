package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/webdashhq/webdash/pkg/email"
	"github.com/webdashhq/webdash/pkg/logger"
)

// Config is loaded from the environment by pkg/config.
type Config struct {
	InviteAcceptURL string `env:"WORKSPACE_INVITE_URL,required"` // InviteAcceptURL is the app page handling invite acceptance; the workspace ID is appended.
}

// Service enforces workspace invariants around the store: exactly one owner
// per workspace, the owner's last workspace cannot be deleted, and the owner
// cannot be removed.
type Service struct {
	store  Store
	mailer email.Sender
	cfg    Config
	log    *slog.Logger
}

// NewService creates a workspace Service. Panics on nil dependencies to fail
// fast during initialization.
func NewService(store Store, mailer email.Sender, cfg Config, log *slog.Logger) *Service {
	if store == nil {
		panic("workspace: store is required")
	}
	if mailer == nil {
		panic("workspace: mailer is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, mailer: mailer, cfg: cfg, log: log}
}

// Create makes a new workspace with the caller as its single owner
// collaborator.
func (s *Service) Create(ctx context.Context, ownerID, ownerEmail, name string) (*Workspace, error) {
	if name == "" {
		return nil, ErrMissingName
	}

	ws := &Workspace{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Name:    name,
		Collaborators: []Collaborator{
			{
				UserID:    ownerID,
				Email:     ownerEmail,
				Role:      RoleOwner,
				Status:    StatusActive,
				InvitedAt: time.Now().UTC(),
			},
		},
	}
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "workspace created",
		logger.WorkspaceID(ws.ID), logger.UserID(ownerID), logger.Component("workspace"))
	return ws, nil
}

// Get returns the workspace when the caller is a member; otherwise
// ErrNotFound so outsiders cannot probe for existence.
func (s *Service) Get(ctx context.Context, userID, workspaceID string) (*Workspace, error) {
	ws, err := s.store.Get(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !ws.IsMember(userID) {
		return nil, ErrNotFound
	}
	return ws, nil
}

// List returns the caller's workspaces.
func (s *Service) List(ctx context.Context, userID string) ([]Workspace, error) {
	return s.store.ListByUser(ctx, userID)
}

// Rename changes the workspace name. Owner only.
func (s *Service) Rename(ctx context.Context, userID, workspaceID, name string) (*Workspace, error) {
	if name == "" {
		return nil, ErrMissingName
	}

	ws, err := s.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	if ws.OwnerID != userID {
		return nil, ErrNotOwner
	}

	ws.Name = name
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Delete removes the workspace. Owner only, and never the owner's last
// workspace.
func (s *Service) Delete(ctx context.Context, userID, workspaceID string) error {
	ws, err := s.Get(ctx, userID, workspaceID)
	if err != nil {
		return err
	}
	if ws.OwnerID != userID {
		return ErrNotOwner
	}

	owned, err := s.store.CountByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if owned <= 1 {
		return ErrLastWorkspace
	}

	if err := s.store.Delete(ctx, workspaceID); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "workspace deleted",
		logger.WorkspaceID(workspaceID), logger.UserID(userID), logger.Component("workspace"))
	return nil
}

// Invite adds a pending collaborator and sends the invitation email. A mail
// delivery failure is logged but does not roll the entry back; the invitee
// can still accept through a re-sent link.
func (s *Service) Invite(ctx context.Context, inviterID, inviterName, workspaceID string, inviteeID, inviteeEmail string, role Role) (*Workspace, error) {
	if role != RoleAdmin && role != RoleMember {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidRole, role)
	}

	ws, err := s.Get(ctx, inviterID, workspaceID)
	if err != nil {
		return nil, err
	}
	if ws.OwnerID != inviterID {
		return nil, ErrNotOwner
	}
	if _, exists := ws.FindCollaborator(inviteeID); exists {
		return nil, ErrAlreadyCollaborator
	}

	ws.Collaborators = append(ws.Collaborators, Collaborator{
		UserID:    inviteeID,
		Email:     inviteeEmail,
		Role:      role,
		Status:    StatusPending,
		InvitedAt: time.Now().UTC(),
	})
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, err
	}

	msg := email.NewInviteMessage(email.InviteParams{
		To:            inviteeEmail,
		InviterName:   inviterName,
		WorkspaceName: ws.Name,
		AcceptURL:     s.cfg.InviteAcceptURL + "/" + ws.ID,
	})
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.ErrorContext(ctx, "failed to send invite email",
			logger.WorkspaceID(ws.ID), logger.Error(err), logger.Component("workspace"))
	}

	return ws, nil
}

// AcceptInvite flips the caller's pending entry to active.
func (s *Service) AcceptInvite(ctx context.Context, userID, workspaceID string) (*Workspace, error) {
	ws, err := s.store.Get(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	for i, c := range ws.Collaborators {
		if c.UserID == userID && c.Status == StatusPending {
			ws.Collaborators[i].Status = StatusActive
			if err := s.store.Save(ctx, ws); err != nil {
				return nil, err
			}
			return ws, nil
		}
	}
	return nil, ErrNoInvite
}

// RemoveCollaborator marks a collaborator inactive. The owner cannot be
// removed.
func (s *Service) RemoveCollaborator(ctx context.Context, callerID, workspaceID, userID string) (*Workspace, error) {
	ws, err := s.Get(ctx, callerID, workspaceID)
	if err != nil {
		return nil, err
	}
	if ws.OwnerID != callerID && callerID != userID {
		return nil, ErrNotOwner
	}
	if userID == ws.OwnerID {
		return nil, ErrCannotRemoveOwner
	}

	for i, c := range ws.Collaborators {
		if c.UserID == userID {
			ws.Collaborators[i].Status = StatusInactive
			if err := s.store.Save(ctx, ws); err != nil {
				return nil, err
			}
			return ws, nil
		}
	}
	return nil, ErrNotFound
}

// AttachWebsite records a website under the workspace.
func (s *Service) AttachWebsite(ctx context.Context, userID, workspaceID, websiteID string) (*Workspace, error) {
	ws, err := s.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}

	for _, id := range ws.WebsiteIDs {
		if id == websiteID {
			return ws, nil
		}
	}
	ws.WebsiteIDs = append(ws.WebsiteIDs, websiteID)
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}
