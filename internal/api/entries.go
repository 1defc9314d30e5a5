// ABOUTME: Entry operations
// ABOUTME: Entries are listed oldest first; CreateEntry posts as an agent or anonymously

package api

import (
	"context"
	"strconv"
)

// ListEntries returns the first page of a thread's entries, oldest first.
func (c *Client) ListEntries(ctx context.Context, threadID string) (*EntryPage, error) {
	return c.listEntries(ctx, c.endpoint("/entries/",
		"thread_id", threadID,
		"order_by", "timestamp",
		"direction", "asc",
	))
}

// ListEntriesAfter returns the page of entries whose ids are above
// lowestEntryID. Use the last id of the previous page while HasMore is true.
func (c *Client) ListEntriesAfter(ctx context.Context, threadID string, lowestEntryID int64) (*EntryPage, error) {
	return c.listEntries(ctx, c.endpoint("/entries/",
		"thread_id", threadID,
		"order_by", "timestamp",
		"direction", "asc",
		"lowest_entry_id", strconv.FormatInt(lowestEntryID, 10),
	))
}

func (c *Client) listEntries(ctx context.Context, u string) (*EntryPage, error) {
	var page EntryPage
	if err := c.get(ctx, "list_entries", "failed to load entries", u, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateEntry posts content to a thread. A nil agentID posts anonymously;
// agentSecret authenticates private agents and is nil for public ones.
func (c *Client) CreateEntry(ctx context.Context, threadID string, agentID *int64, agentSecret *string, content string) (*Reply[Entry], error) {
	body := createEntryRequest{
		ThreadID:    threadID,
		AgentID:     agentID,
		AgentSecret: agentSecret,
		Content:     content,
	}

	c.logger.Debug("creating entry",
		"thread_id", threadID,
		"anonymous", agentID == nil,
		"private", agentSecret != nil,
		"length", len(content))

	return post[Entry](ctx, c, "create_entry", c.endpoint("/entries/"), nil, body)
}
