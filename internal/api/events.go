// ABOUTME: Event read operations
// ABOUTME: GetEvent maps HTTP 404 to a nil event instead of an error

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListEvents returns all events.
func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.get(ctx, "list_events", "failed to load events", c.endpoint("/events/"), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListEventsByTag returns the events carrying tag.
func (c *Client) ListEventsByTag(ctx context.Context, tag string) ([]Event, error) {
	var events []Event
	if err := c.get(ctx, "list_events", "failed to load events", c.endpoint("/events/", "tag", tag), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent returns one event with its threads. A 404 is not an error: it
// returns (nil, nil) so callers can render a not-found state.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*EventWithThreads, error) {
	const op = "get_event"

	status, data, err := c.send(ctx, op, http.MethodGet, c.endpoint("/events/"+url.PathEscape(eventID)+"/"), nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if !isSuccess(status) {
		return nil, newRequestFailed(op, "failed to load event: "+strconv.Itoa(status), status, data)
	}

	var event EventWithThreads
	if err := c.decode(op, status, data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
