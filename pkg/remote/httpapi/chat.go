package httpapi

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

type recommendationWire struct {
	Title      string   `json:"title"`
	MatchScore float64  `json:"match_score"`
	KeySkills  []string `json:"key_skills"`
	Reasoning  string   `json:"reasoning"`
}

type replyWire struct {
	Message         string               `json:"message"`
	Stage           string               `json:"stage"`
	Progress        int                  `json:"progress"`
	Suggestions     []string             `json:"suggestions"`
	Recommendations []recommendationWire `json:"recommendations"`
	Actions         []string             `json:"actions"`
	Action          string               `json:"action"`
}

type chatEnvelope struct {
	Success  bool       `json:"success"`
	Response *replyWire `json:"response"`
	Message  string     `json:"message"`
}

type chatMessageRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

var (
	errUnsuccessful = errors.New("backend reported failure")
	errEmptyReply   = errors.New("backend reply has no message")
)

// StartChat opens a conversation for sessionID and returns the greeting.
func (c *Client) StartChat(ctx context.Context, sessionID string) (remote.ChatReply, error) {
	var env chatEnvelope
	if err := c.postJSON(ctx, "/chat/start", url.Values{"user_id": {sessionID}}, nil, &env); err != nil {
		return remote.ChatReply{}, remote.Wrap(remote.OpChatStart, err)
	}
	reply, err := env.reply()
	if err != nil {
		return remote.ChatReply{}, remote.Wrap(remote.OpChatStart, err)
	}
	return reply, nil
}

// SendChatMessage posts one user turn and returns the assistant turn.
func (c *Client) SendChatMessage(ctx context.Context, sessionID, text string) (remote.ChatReply, error) {
	var env chatEnvelope
	in := chatMessageRequest{UserID: sessionID, Message: text}
	if err := c.postJSON(ctx, "/chat/message", nil, in, &env); err != nil {
		return remote.ChatReply{}, remote.Wrap(remote.OpChatMessage, err)
	}
	reply, err := env.reply()
	if err != nil {
		return remote.ChatReply{}, remote.Wrap(remote.OpChatMessage, err)
	}
	return reply, nil
}

// ResetChat drops server-side conversation state.
func (c *Client) ResetChat(ctx context.Context, sessionID string) error {
	var env chatEnvelope
	if err := c.postJSON(ctx, "/chat/reset/"+url.PathEscape(sessionID), nil, nil, &env); err != nil {
		return remote.Wrap(remote.OpChatReset, err)
	}
	if !env.Success {
		return remote.Wrap(remote.OpChatReset, errUnsuccessful)
	}
	return nil
}

type summaryEnvelope struct {
	Success bool `json:"success"`
	Summary struct {
		UserID             string         `json:"user_id"`
		Stage              string         `json:"stage"`
		CollectedData      map[string]any `json:"collected_data"`
		ConversationLength int            `json:"conversation_length"`
	} `json:"summary"`
}

// ChatSummary fetches the server's view of a conversation. An unknown
// session yields an empty summary.
func (c *Client) ChatSummary(ctx context.Context, sessionID string) (remote.ChatSummary, error) {
	var env summaryEnvelope
	if err := c.getJSON(ctx, "/chat/history/"+url.PathEscape(sessionID), nil, &env); err != nil {
		return remote.ChatSummary{}, remote.Wrap(remote.OpChatSummary, err)
	}
	if !env.Success {
		return remote.ChatSummary{}, remote.Wrap(remote.OpChatSummary, errUnsuccessful)
	}
	return remote.ChatSummary{
		SessionID:          sessionID,
		Stage:              env.Summary.Stage,
		ConversationLength: env.Summary.ConversationLength,
		CollectedData:      env.Summary.CollectedData,
	}, nil
}

func (e chatEnvelope) reply() (remote.ChatReply, error) {
	if !e.Success || e.Response == nil {
		if e.Message != "" {
			return remote.ChatReply{}, errors.New(e.Message)
		}
		return remote.ChatReply{}, errUnsuccessful
	}
	w := e.Response
	if strings.TrimSpace(w.Message) == "" {
		return remote.ChatReply{}, errEmptyReply
	}
	r := remote.ChatReply{
		Message:     w.Message,
		Stage:       w.Stage,
		Progress:    remote.ClampPercent(w.Progress),
		Suggestions: nonNil(w.Suggestions),
		Action:      w.Action,
	}
	if len(w.Recommendations) > 0 || len(w.Actions) > 0 {
		md := &remote.Metadata{Actions: w.Actions}
		for _, rec := range w.Recommendations {
			if strings.TrimSpace(rec.Title) == "" {
				continue
			}
			md.Recommendations = append(md.Recommendations, remote.Recommendation{
				Title:      rec.Title,
				MatchScore: matchPercent(rec.MatchScore),
				KeySkills:  nonNil(rec.KeySkills),
				Reasoning:  rec.Reasoning,
			})
		}
		r.Metadata = md
	}
	return r, nil
}

// matchPercent converts the wire match score to a percentage. The server
// sends a 0..1 fraction; values above 1 are taken as percentages already.
func matchPercent(score float64) float64 {
	if score <= 1 {
		score *= 100
	}
	return min(max(score, 0), 100)
}
