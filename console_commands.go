package gate

import "context"

const defaultPromptHost = "clutch"

const welcomeMessage = `Welcome to Clutch. Type "help" for a list of commands.`

const helpMessage = `
  Clutch CLI v1.0.0
  Available commands:

  help          - Show this help message
  whoami        - Display current user's email
  gen-invite    - Generate a new 15-minute invite link
  clear         - Clear the terminal screen
  logout        - Log out of the current session
`

func (c *Console) helpCommand(_ context.Context, _ string) []Line {
	return []Line{{Type: LineOutput, Content: helpMessage}}
}

func (c *Console) whoamiCommand(_ context.Context, _ string) []Line {
	email := c.identity.Email()
	if email == "" {
		return []Line{{Type: LineOutput, Content: "No email found."}}
	}
	return []Line{{Type: LineOutput, Content: email}}
}

// genInviteCommand is the one console verb with a durable side effect: it
// mints a new invite token and prints the shareable link.
func (c *Console) genInviteCommand(ctx context.Context, _ string) []Line {
	record, err := c.invites.Issue(ctx)
	if err != nil {
		c.logger.Error("console gen-invite failed", "error", err)
		return []Line{{Type: LineOutput, Content: "ERROR: could not generate invite"}}
	}

	return []Line{{Type: LineOutput, Content: "Invite link generated: " + c.invites.Link(record)}}
}

// clearCommand wipes the displayed lines, the echo of the clear itself
// included. History is left alone; Up still recalls "clear".
func (c *Console) clearCommand(_ context.Context, _ string) []Line {
	c.transcript = c.transcript[:0]
	return nil
}

// logoutCommand delegates sign-out to the auth gateway. Failures surface as
// a best-effort error line and never block returning to the prompt.
func (c *Console) logoutCommand(ctx context.Context, _ string) []Line {
	if err := c.gateway.SignOut(ctx); err != nil {
		c.logger.Error("console logout failed", "error", err)
		return []Line{{Type: LineOutput, Content: "ERROR: could not log out"}}
	}

	return []Line{{Type: LineOutput, Content: "Logging out..."}}
}
