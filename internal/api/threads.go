// ABOUTME: Thread operations
// ABOUTME: ListThreads includes entry counts; CreateThread returns the unchecked reply

package api

import (
	"context"
)

// ListThreads returns the threads of an event, each with its entry count.
func (c *Client) ListThreads(ctx context.Context, eventID string) ([]ThreadWithCount, error) {
	u := c.endpoint("/threads/", "event_id", eventID, "include_entry_count", "true")

	var threads []ThreadWithCount
	if err := c.get(ctx, "list_threads", "failed to load threads", u, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// CreateThread opens a thread titled title in an event.
func (c *Client) CreateThread(ctx context.Context, eventID, title string) (*Reply[Thread], error) {
	body := createThreadRequest{
		EventID: eventID,
		Title:   title,
	}
	return post[Thread](ctx, c, "create_thread", c.endpoint("/threads/"), nil, body)
}
