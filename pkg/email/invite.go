package email

import (
	"fmt"
	"html"
)

// InviteParams shapes a workspace collaborator invitation.
type InviteParams struct {
	To            string
	InviterName   string
	WorkspaceName string
	AcceptURL     string
}

// NewInviteMessage builds the collaborator invite email. Values are HTML
// escaped since names are user controlled.
func NewInviteMessage(p InviteParams) Message {
	inviter := html.EscapeString(p.InviterName)
	workspace := html.EscapeString(p.WorkspaceName)

	body := fmt.Sprintf(`<html><body>
<p>%s invited you to collaborate on the <strong>%s</strong> workspace.</p>
<p><a href="%s">Accept the invitation</a></p>
<p>If you were not expecting this invitation you can ignore this email.</p>
</body></html>`, inviter, workspace, html.EscapeString(p.AcceptURL))

	return Message{
		To:       p.To,
		Subject:  fmt.Sprintf("%s invited you to %s", inviter, workspace),
		BodyHTML: body,
		Tag:      "workspace-invite",
	}
}
