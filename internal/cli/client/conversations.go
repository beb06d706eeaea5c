package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lvyanru/coractl/internal/cli/types"
)

// isoMillis matches JavaScript's Date.toISOString
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ListConversations fetches the signed-in user's conversations
func (c *APIClient) ListConversations(ctx context.Context) ([]types.Conversation, error) {
	var out []types.Conversation
	err := c.do(ctx, &call{
		op:       "fetch conversations",
		method:   consts.MethodGet,
		path:     endpointConversations,
		auth:     true,
		mode:     defaultOnly,
		fallback: "Error fetching conversations",
	}, &out)
	return out, err
}

// GetConversation fetches one conversation with its messages
func (c *APIClient) GetConversation(ctx context.Context, id types.ID) (*types.Conversation, error) {
	var out types.Conversation
	err := c.do(ctx, &call{
		op:       "fetch conversation",
		method:   consts.MethodGet,
		path:     pathf(endpointConversationByID, id.String()),
		auth:     true,
		mode:     defaultOnly,
		fallback: "Error fetching conversation",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateConversation opens a conversation owned by the signed-in user
func (c *APIClient) CreateConversation(ctx context.Context, title string) (*types.Conversation, error) {
	var out types.Conversation
	err := c.do(ctx, &call{
		op:       "create conversation",
		method:   consts.MethodPost,
		path:     endpointConversations,
		json:     types.CreateConversationRequest{Title: title},
		auth:     true,
		mode:     bodyText,
		fallback: "Error creating conversation",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddMessage appends a message to a conversation
func (c *APIClient) AddMessage(ctx context.Context, id types.ID, msg types.MessagePayload) error {
	return c.do(ctx, &call{
		op:       "add message",
		method:   consts.MethodPost,
		path:     pathf(endpointConversationMsgs, id.String()),
		json:     msg,
		auth:     true,
		mode:     defaultOnly,
		fallback: "Error adding message",
	}, nil)
}

// TopTitles reports the most searched document titles between start and end
func (c *APIClient) TopTitles(ctx context.Context, start, end time.Time, limit int) ([]types.TitleCount, error) {
	if limit <= 0 {
		limit = 5
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("start_date", start.UTC().Format(isoMillis))
	q.Set("end_date", end.UTC().Format(isoMillis))

	var out []types.TitleCount
	err := c.do(ctx, &call{
		op:       "fetch most searched data",
		method:   consts.MethodGet,
		path:     endpointTopTitles,
		query:    q,
		auth:     true,
		mode:     defaultOnly,
		fallback: "Failed to fetch most searched data",
	}, &out)
	return out, err
}

// SubmitReview records a satisfaction rating
func (c *APIClient) SubmitReview(ctx context.Context, rating int) (*types.MessageResponse, error) {
	var out types.MessageResponse
	err := c.do(ctx, &call{
		op:       "submit review",
		method:   consts.MethodPost,
		path:     endpointSubmitReview,
		json:     types.ReviewRequest{Rating: rating},
		auth:     true,
		fallback: "Failed to submit review",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Satisfaction reports rating metrics. Zero times leave the range open.
func (c *APIClient) Satisfaction(ctx context.Context, start, end time.Time) (*types.SatisfactionMetrics, error) {
	q := url.Values{}
	if !start.IsZero() {
		q.Set("start_date", start.UTC().Format(isoMillis))
	}
	if !end.IsZero() {
		q.Set("end_date", end.UTC().Format(isoMillis))
	}

	var out types.SatisfactionMetrics
	err := c.do(ctx, &call{
		op:       "fetch satisfaction metrics",
		method:   consts.MethodGet,
		path:     endpointSatisfaction,
		query:    q,
		auth:     true,
		mode:     defaultOnly,
		fallback: "Failed to fetch satisfaction metrics",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
