// Package api contains the JSON payloads exchanged with the board service.
// Field names follow the service's REST API.
package api

// TokenInfo is the response of GET /tokens/{token}.
type TokenInfo struct {
	ID       string `json:"id"`
	MemberID string `json:"idMember"`
}

// FieldValue is the response of single-field reads such as
// GET /boards/{id}/name.
type FieldValue struct {
	Value string `json:"_value"`
}

// Board is a top-level container of lists.
type Board struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed,omitempty"`
}

// List is a column within a board.
type List struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BoardID string `json:"idBoard,omitempty"`
	Closed  bool   `json:"closed,omitempty"`
}

// Label is a named, colored tag scoped to a board.
// Color is nil for labels without a color.
type Label struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Color   *string `json:"color"`
	BoardID string  `json:"idBoard,omitempty"`
}

// Card is a work item in a list.
type Card struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ListID   string   `json:"idList"`
	BoardID  string   `json:"idBoard,omitempty"`
	LabelIDs []string `json:"idLabels"`
	ShortURL string   `json:"shortUrl,omitempty"`
}

// Action is the response of comment creation.
type Action struct {
	ID   string     `json:"id"`
	Type string     `json:"type"`
	Data ActionData `json:"data"`
}

// ActionData holds the payload of an action.
type ActionData struct {
	Text string `json:"text"`
}

// Position values accepted for lists and cards.
const (
	PositionTop    = "top"
	PositionBottom = "bottom"
)

// LabelColors is the fixed palette offered for new labels.
// The empty string stands for "no color".
var LabelColors = []string{
	"green",
	"yellow",
	"orange",
	"red",
	"purple",
	"blue",
	"sky",
	"lime",
	"pink",
	"black",
	"",
}
