package resolve

import (
	"context"
	"errors"
	"iter"
	"testing"

	"cardctl/pkg/api"
)

func refs(items ...ResourceRef) iter.Seq2[ResourceRef, error] {
	return func(yield func(ResourceRef, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func TestResolveOrCreate_FirstMatchWins(t *testing.T) {
	created := false
	ref, err := ResolveOrCreate(context.Background(),
		refs(
			ResourceRef{Name: "Ops", ID: "1"},
			ResourceRef{Name: "Dev", ID: "2"},
			ResourceRef{Name: "Dev", ID: "3"},
		),
		ByName("Dev"),
		func(ctx context.Context) (ResourceRef, error) {
			created = true
			return ResourceRef{}, nil
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "2" || ref.Created {
		t.Errorf("expected existing ref 2, got %+v", ref)
	}
	if created {
		t.Error("create should not be called on a match")
	}
}

func TestResolveOrCreate_CaseSensitive(t *testing.T) {
	ref, err := ResolveOrCreate(context.Background(),
		refs(ResourceRef{Name: "dev", ID: "1"}),
		ByName("Dev"),
		func(ctx context.Context) (ResourceRef, error) {
			return ResourceRef{Name: "Dev", ID: "9"}, nil
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "9" || !ref.Created {
		t.Errorf("expected created ref 9, got %+v", ref)
	}
}

func TestResolveOrCreate_ListErrorStopsBeforeCreate(t *testing.T) {
	listErr := errors.New("boom")
	failing := func(yield func(ResourceRef, error) bool) {
		yield(ResourceRef{}, listErr)
	}

	_, err := ResolveOrCreate(context.Background(), failing, ByName("x"),
		func(ctx context.Context) (ResourceRef, error) {
			t.Error("create should not be called after a list error")
			return ResourceRef{}, nil
		},
	)
	if !errors.Is(err, listErr) {
		t.Errorf("expected list error, got %v", err)
	}
}

func TestResolveOrCreate_CreatedWithoutID(t *testing.T) {
	_, err := ResolveOrCreate(context.Background(), refs(), ByName("x"),
		func(ctx context.Context) (ResourceRef, error) {
			return ResourceRef{Name: "x"}, nil
		},
	)
	if !errors.Is(err, errNoID) {
		t.Errorf("expected errNoID, got %v", err)
	}
}

func TestResolveMember(t *testing.T) {
	svc := newFakeService()
	r := newTestResolver(svc, Options{})

	id, err := r.ResolveMember(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "member-1" {
		t.Errorf("expected member-1, got %s", id)
	}
}

func TestResolveMember_Failures(t *testing.T) {
	t.Run("call fails", func(t *testing.T) {
		svc := newFakeService()
		svc.failOn["TokenMember"] = errors.New("invalid token")
		r := newTestResolver(svc, Options{})

		_, err := r.ResolveMember(context.Background())
		if !errors.Is(err, ErrAuth) {
			t.Errorf("expected ErrAuth, got %v", err)
		}
	})

	t.Run("missing member id", func(t *testing.T) {
		svc := newFakeService()
		svc.memberID = ""
		r := newTestResolver(svc, Options{})

		_, err := r.ResolveMember(context.Background())
		if !errors.Is(err, ErrAuth) {
			t.Errorf("expected ErrAuth, got %v", err)
		}
	})
}

func TestResolveBoard_ExistingBoardIsNotCreated(t *testing.T) {
	svc := newFakeService()
	svc.boards = []api.Board{
		{ID: "b1", Name: "Personal"},
		{ID: "b2", Name: "Test board"},
		{ID: "b3", Name: "Test board"},
		{ID: "b4", Name: "Archive"},
	}
	r := newTestResolver(svc, Options{})

	ref, err := r.ResolveBoard(context.Background(), "member-1", "Test board")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "b2" {
		t.Errorf("expected first matching board b2, got %s", ref.ID)
	}
	if ref.Created {
		t.Error("expected existing board")
	}
	if svc.called("CreateBoard") {
		t.Error("CreateBoard should not be called when the board exists")
	}
	// b3 and b4 are never read
	if n := svc.count("BoardName"); n != 2 {
		t.Errorf("expected 2 name reads, got %d", n)
	}
}

func TestResolveBoard_MissingBoardIsCreatedOnce(t *testing.T) {
	svc := newFakeService()
	svc.boards = []api.Board{{ID: "b1", Name: "Personal"}}
	r := newTestResolver(svc, Options{})

	ref, err := r.ResolveBoard(context.Background(), "member-1", "Test board")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := svc.count("CreateBoard"); n != 1 {
		t.Errorf("expected exactly one CreateBoard, got %d", n)
	}
	if !ref.Created || ref.ID != svc.boards[1].ID {
		t.Errorf("expected created board %s, got %+v", svc.boards[1].ID, ref)
	}
}

func TestResolveBoard_Failures(t *testing.T) {
	for _, call := range []string{"MemberBoardIDs", "BoardName", "CreateBoard"} {
		t.Run(call, func(t *testing.T) {
			svc := newFakeService()
			svc.boards = []api.Board{{ID: "b1", Name: "Personal"}}
			svc.failOn[call] = errors.New("unavailable")
			r := newTestResolver(svc, Options{})

			_, err := r.ResolveBoard(context.Background(), "member-1", "Test board")
			if !errors.Is(err, ErrBoardResolution) {
				t.Errorf("expected ErrBoardResolution, got %v", err)
			}
		})
	}
}

func TestResolveColumn(t *testing.T) {
	svc := newFakeService()
	svc.lists["b1"] = []api.List{
		{ID: "l1", Name: "To Do"},
		{ID: "l2", Name: "Doing"},
		{ID: "l3", Name: "Doing"},
	}
	r := newTestResolver(svc, Options{})

	ref, err := r.ResolveColumn(context.Background(), "b1", "Doing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "l2" || ref.Created {
		t.Errorf("expected existing list l2, got %+v", ref)
	}

	ref, err = r.ResolveColumn(context.Background(), "b1", "Done")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.Created || ref.Name != "Done" {
		t.Errorf("expected created list Done, got %+v", ref)
	}
	if svc.lists["b1"][0].ID != ref.ID {
		t.Errorf("expected new list at the top, got %+v", svc.lists["b1"])
	}
	if n := svc.count("CreateList"); n != 1 {
		t.Errorf("expected one CreateList, got %d", n)
	}
}

func TestResolveColumn_Failure(t *testing.T) {
	svc := newFakeService()
	svc.failOn["BoardLists"] = errors.New("unavailable")
	r := newTestResolver(svc, Options{})

	_, err := r.ResolveColumn(context.Background(), "b1", "Doing")
	if !errors.Is(err, ErrColumnResolution) {
		t.Errorf("expected ErrColumnResolution, got %v", err)
	}
	if errors.Is(err, ErrBoardResolution) {
		t.Error("column failure must not match another stage")
	}
}

func TestCreateCard_And_AddComment(t *testing.T) {
	svc := newFakeService()
	r := newTestResolver(svc, Options{})
	ctx := context.Background()

	card, err := r.CreateCard(ctx, "l1", "Fix login", []string{"x", "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Name != "Fix login" || !card.Created {
		t.Errorf("unexpected card ref: %+v", card)
	}

	if _, err := r.AddComment(ctx, card.ID, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.comments[card.ID]; len(got) != 1 || got[0] != "" {
		t.Errorf("expected one empty comment, got %q", got)
	}
}

func TestCreateCard_Failures(t *testing.T) {
	svc := newFakeService()
	svc.failOn["CreateCard"] = errors.New("unavailable")
	svc.failOn["AddComment"] = errors.New("unavailable")
	r := newTestResolver(svc, Options{})

	if _, err := r.CreateCard(context.Background(), "l1", "t", nil); !errors.Is(err, ErrCardCreation) {
		t.Errorf("expected ErrCardCreation, got %v", err)
	}
	if _, err := r.AddComment(context.Background(), "c1", "t"); !errors.Is(err, ErrComment) {
		t.Errorf("expected ErrComment, got %v", err)
	}
}

func TestStageError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := stageError(ErrLabelResolution, cause)

	if !errors.Is(err, ErrLabelResolution) || !errors.Is(err, cause) {
		t.Errorf("expected both stage and cause to match, got %v", err)
	}
	if err.Error() != "label resolution failed: connection reset" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
