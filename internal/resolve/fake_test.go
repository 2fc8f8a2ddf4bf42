package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cardctl/pkg/api"
)

// fakeService is an in-memory board service that records every call.
type fakeService struct {
	memberID string
	boards   []api.Board
	lists    map[string][]api.List
	labels   map[string][]api.Label
	cards    []api.Card
	comments map[string][]string

	// failOn makes the named call fail.
	failOn     map[string]error
	// failNth makes only the nth (1-based) call of a name fail.
	failNth    map[string]int
	calls      []string
	nextID     int
	labelLimit int
}

func newFakeService() *fakeService {
	return &fakeService{
		memberID: "member-1",
		lists:    map[string][]api.List{},
		labels:   map[string][]api.Label{},
		comments: map[string][]string{},
		failOn:   map[string]error{},
		failNth:  map[string]int{},
	}
}

func (f *fakeService) call(name string) error {
	f.calls = append(f.calls, name)
	if n, ok := f.failNth[name]; ok && f.count(name) == n {
		return errors.New("unavailable")
	}
	return f.failOn[name]
}

func (f *fakeService) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-new-%d", prefix, f.nextID)
}

func (f *fakeService) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeService) called(prefix string) bool {
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (f *fakeService) TokenMember(ctx context.Context) (string, error) {
	if err := f.call("TokenMember"); err != nil {
		return "", err
	}
	return f.memberID, nil
}

func (f *fakeService) MemberBoardIDs(ctx context.Context, memberID string) ([]string, error) {
	if err := f.call("MemberBoardIDs"); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(f.boards))
	for _, b := range f.boards {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (f *fakeService) BoardName(ctx context.Context, boardID string) (string, error) {
	if err := f.call("BoardName"); err != nil {
		return "", err
	}
	for _, b := range f.boards {
		if b.ID == boardID {
			return b.Name, nil
		}
	}
	return "", errors.New("board not found")
}

func (f *fakeService) CreateBoard(ctx context.Context, name string) (*api.Board, error) {
	if err := f.call("CreateBoard"); err != nil {
		return nil, err
	}
	b := api.Board{ID: f.id("board"), Name: name}
	f.boards = append(f.boards, b)
	return &b, nil
}

func (f *fakeService) BoardLists(ctx context.Context, boardID string) ([]api.List, error) {
	if err := f.call("BoardLists"); err != nil {
		return nil, err
	}
	return f.lists[boardID], nil
}

func (f *fakeService) CreateList(ctx context.Context, boardID, name string) (*api.List, error) {
	if err := f.call("CreateList"); err != nil {
		return nil, err
	}
	l := api.List{ID: f.id("list"), Name: name, BoardID: boardID}
	// new lists go to the top
	f.lists[boardID] = append([]api.List{l}, f.lists[boardID]...)
	return &l, nil
}

func (f *fakeService) BoardLabels(ctx context.Context, boardID string, limit int) ([]api.Label, error) {
	if err := f.call("BoardLabels"); err != nil {
		return nil, err
	}
	f.labelLimit = limit
	labels := f.labels[boardID]
	if len(labels) > limit {
		labels = labels[:limit]
	}
	return labels, nil
}

func (f *fakeService) CreateLabel(ctx context.Context, boardID, name, color string) (*api.Label, error) {
	if err := f.call("CreateLabel"); err != nil {
		return nil, err
	}
	l := api.Label{ID: f.id("label"), Name: name, BoardID: boardID}
	if color != "" {
		l.Color = &color
	}
	f.labels[boardID] = append(f.labels[boardID], l)
	return &l, nil
}

func (f *fakeService) CreateCard(ctx context.Context, listID, name string, labelIDs []string) (*api.Card, error) {
	if err := f.call("CreateCard"); err != nil {
		return nil, err
	}
	c := api.Card{ID: f.id("card"), Name: name, ListID: listID, LabelIDs: labelIDs}
	f.cards = append(f.cards, c)
	return &c, nil
}

func (f *fakeService) AddComment(ctx context.Context, cardID, text string) (*api.Action, error) {
	if err := f.call("AddComment"); err != nil {
		return nil, err
	}
	f.comments[cardID] = append(f.comments[cardID], text)
	return &api.Action{ID: f.id("action"), Type: "commentCard", Data: api.ActionData{Text: text}}, nil
}

func newTestResolver(svc Service, opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(42)
	}
	r, err := New(svc, opts)
	if err != nil {
		panic(err)
	}
	return r
}
