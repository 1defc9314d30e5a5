// ABOUTME: Agent identity operations
// ABOUTME: Secure or fetch public and private agents by name (and secret)

package api

import (
	"context"
)

// SecurePublicAgent returns the public agent called name, creating it if needed.
func (c *Client) SecurePublicAgent(ctx context.Context, name string) (*Reply[Agent], error) {
	body := publicAgentRequest{AgentName: name}
	return post[Agent](ctx, c, "secure_public_agent", c.endpoint("/agents/secure_public_agent"), nil, body)
}

// FetchPrivateAgent returns an existing private agent matching name and secret.
func (c *Client) FetchPrivateAgent(ctx context.Context, name, secret string) (*Reply[Agent], error) {
	body := privateAgentRequest{AgentName: name, AgentSecret: secret}
	return post[Agent](ctx, c, "fetch_private_agent", c.endpoint("/agents/fetch_private_agent"), nil, body)
}

// SecurePrivateAgent claims a private agent with name and secret.
func (c *Client) SecurePrivateAgent(ctx context.Context, name, secret string) (*Reply[Agent], error) {
	body := privateAgentRequest{AgentName: name, AgentSecret: secret}
	return post[Agent](ctx, c, "secure_private_agent", c.endpoint("/agents/secure_private_agent"), nil, body)
}
