package trello

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cardctl/pkg/api"
)

// BoardPrefs is the preference bundle applied to boards created on a miss.
var BoardPrefs = url.Values{
	"defaultLabels":         {"true"},
	"defaultLists":          {"false"},
	"keepFromSource":        {"none"},
	"prefs_permissionLevel": {"public"},
	"prefs_voting":          {"disabled"},
	"prefs_comments":        {"members"},
	"prefs_invitations":     {"members"},
	"prefs_selfJoin":        {"true"},
	"prefs_cardCovers":      {"true"},
	"prefs_background":      {"blue"},
	"prefs_cardAging":       {"regular"},
}

// TokenMember returns the member id owning the client's token.
func (c *Client) TokenMember(ctx context.Context) (string, error) {
	var info api.TokenInfo
	if err := c.Invoke(ctx, http.MethodGet, fmt.Sprintf("/tokens/%s", url.PathEscape(c.creds.Token)), nil, &info); err != nil {
		return "", err
	}
	return info.MemberID, nil
}

// MemberBoardIDs lists the ids of the boards a member belongs to.
func (c *Client) MemberBoardIDs(ctx context.Context, memberID string) ([]string, error) {
	var ids []string
	if err := c.Invoke(ctx, http.MethodGet, fmt.Sprintf("/members/%s/idBoards", memberID), nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// BoardName reads the name field of a board.
func (c *Client) BoardName(ctx context.Context, boardID string) (string, error) {
	var v api.FieldValue
	if err := c.Invoke(ctx, http.MethodGet, fmt.Sprintf("/boards/%s/name", boardID), nil, &v); err != nil {
		return "", err
	}
	return v.Value, nil
}

// CreateBoard creates a board with BoardPrefs.
func (c *Client) CreateBoard(ctx context.Context, name string) (*api.Board, error) {
	params := url.Values{}
	for k, v := range BoardPrefs {
		params[k] = v
	}
	params.Set("name", name)

	var board api.Board
	if err := c.Invoke(ctx, http.MethodPost, "/boards", params, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// BoardLabels lists up to limit labels of a board.
func (c *Client) BoardLabels(ctx context.Context, boardID string, limit int) ([]api.Label, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var labels []api.Label
	if err := c.Invoke(ctx, http.MethodGet, fmt.Sprintf("/boards/%s/labels", boardID), params, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// CreateLabel creates a label on a board. An empty color creates a label
// without color.
func (c *Client) CreateLabel(ctx context.Context, boardID, name, color string) (*api.Label, error) {
	if color == "" {
		color = "null"
	}
	params := url.Values{}
	params.Set("name", name)
	params.Set("color", color)
	params.Set("idBoard", boardID)

	var label api.Label
	if err := c.Invoke(ctx, http.MethodPost, "/labels", params, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// BoardLists lists the open lists of a board.
func (c *Client) BoardLists(ctx context.Context, boardID string) ([]api.List, error) {
	params := url.Values{}
	params.Set("filter", "open")

	var lists []api.List
	if err := c.Invoke(ctx, http.MethodGet, fmt.Sprintf("/boards/%s/lists", boardID), params, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateList creates a list at the top of a board.
func (c *Client) CreateList(ctx context.Context, boardID, name string) (*api.List, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("idBoard", boardID)
	params.Set("pos", api.PositionTop)

	var list api.List
	if err := c.Invoke(ctx, http.MethodPost, "/lists", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateCard creates a card at the bottom of a list carrying labelIDs.
func (c *Client) CreateCard(ctx context.Context, listID, name string, labelIDs []string) (*api.Card, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("pos", api.PositionBottom)
	params.Set("idList", listID)
	params.Set("idLabels", strings.Join(labelIDs, ","))
	params.Set("keepFromSource", "all")

	var card api.Card
	if err := c.Invoke(ctx, http.MethodPost, "/cards", params, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// AddComment posts text as a comment on a card.
func (c *Client) AddComment(ctx context.Context, cardID, text string) (*api.Action, error) {
	params := url.Values{}
	params.Set("text", text)

	var action api.Action
	if err := c.Invoke(ctx, http.MethodPost, fmt.Sprintf("/cards/%s/actions/comments", cardID), params, &action); err != nil {
		return nil, err
	}
	return &action, nil
}
