package portfolio

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/storage"
	"github.com/s2design/site/internal/services/site/storage/memory"
)

type fakeGateway struct {
	items     []backend.PortfolioItem
	listErr   error
	listCalls int
	lastInput backend.PortfolioInput
	deleted   backend.ID
}

func (f *fakeGateway) ListPortfolio(context.Context) ([]backend.PortfolioItem, error) {
	f.listCalls++
	return f.items, f.listErr
}

func (f *fakeGateway) CreatePortfolioItem(_ context.Context, _ string, in backend.PortfolioInput) (backend.PortfolioItem, error) {
	f.lastInput = in
	return backend.PortfolioItem{ID: "new", Src: in.Src}, nil
}

func (f *fakeGateway) UpdatePortfolioItem(_ context.Context, _ string, id backend.ID, in backend.PortfolioInput) (backend.PortfolioItem, error) {
	f.lastInput = in
	return backend.PortfolioItem{ID: id, Src: in.Src}, nil
}

func (f *fakeGateway) DeletePortfolioItem(_ context.Context, _ string, id backend.ID) error {
	f.deleted = id
	return nil
}

func gallery(n int, category string) []backend.PortfolioItem {
	out := make([]backend.PortfolioItem, n)
	for i := range out {
		out[i] = backend.PortfolioItem{ID: backend.ID(strconv.Itoa(i + 1)), Src: "img.jpg", Width: 4, Height: 3, Category: category}
	}
	return out
}

func TestListDefaultsDimensions(t *testing.T) {
	gw := &fakeGateway{items: []backend.PortfolioItem{{ID: "1", Src: "a.jpg"}, {ID: "2", Src: "b.jpg", Width: 3, Height: 4}}}
	items, err := NewService(gw, nil, nil).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items[0].Width != 4 || items[0].Height != 3 {
		t.Fatalf("defaults = %dx%d", items[0].Width, items[0].Height)
	}
	if items[1].Width != 3 || items[1].Height != 4 {
		t.Fatalf("kept = %dx%d", items[1].Width, items[1].Height)
	}
}

func TestListFailure(t *testing.T) {
	items, err := NewService(&fakeGateway{listErr: errors.New("down")}, nil, nil).List(context.Background())
	if err == nil || items == nil || len(items) != 0 {
		t.Fatalf("items=%#v err=%v", items, err)
	}
}

func TestMutationsInvalidate(t *testing.T) {
	gw := &fakeGateway{items: gallery(2, "office")}
	svc := NewService(gw, storage.NewCache(memory.New(), time.Minute, nil), nil)
	ctx := context.Background()
	_, _ = svc.List(ctx)
	_, _ = svc.List(ctx)
	if gw.listCalls != 1 {
		t.Fatalf("list calls = %d", gw.listCalls)
	}
	if _, err := svc.Update(ctx, "tok", "1", backend.PortfolioInput{Src: "x.jpg", Alt: "X"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	_, _ = svc.List(ctx)
	if gw.listCalls != 2 {
		t.Fatalf("list calls after update = %d", gw.listCalls)
	}
}

func TestCreateValidation(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw, nil, nil)
	if _, err := svc.Create(context.Background(), "tok", backend.PortfolioInput{Alt: "A"}); apperrors.LocalizationKey(err) != KeySrcRequired {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Create(context.Background(), "tok", backend.PortfolioInput{Src: "a.jpg"}); apperrors.LocalizationKey(err) != KeyAltRequired {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Create(context.Background(), "tok", backend.PortfolioInput{Src: " a.jpg ", Alt: "A", Width: -1, Height: 8, Category: "office"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := backend.PortfolioInput{Src: "a.jpg", Alt: "A", Width: 4, Height: 3, Category: "office"}
	if diff := cmp.Diff(want, gw.lastInput); diff != "" {
		t.Fatalf("input (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	gw := &fakeGateway{}
	if err := NewService(gw, nil, nil).Delete(context.Background(), "tok", "7"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gw.deleted != "7" {
		t.Fatalf("deleted = %q", gw.deleted)
	}
}

func TestByIDAndCategory(t *testing.T) {
	items := append(gallery(2, "office"), backend.PortfolioItem{ID: "k", Category: "kitchen"})
	if got, ok := ByID(items, "k"); !ok || got.Category != "kitchen" {
		t.Fatalf("ByID = %#v, %v", got, ok)
	}
	if _, ok := ByID(items, "missing"); ok {
		t.Fatal("expected miss")
	}
	if got := ByCategory(items, "all"); len(got) != 3 {
		t.Fatalf("all = %d", len(got))
	}
	if got := ByCategory(items, "kitchen"); len(got) != 1 {
		t.Fatalf("kitchen = %d", len(got))
	}
}

func TestPaginate(t *testing.T) {
	items := append(gallery(14, "office"), gallery(2, "kitchen")...)

	page := Paginate(items, "all", false)
	if len(page.Items) != PageLimit || !page.HasMore || page.Total != 16 {
		t.Fatalf("all page = %d items, hasMore=%v total=%d", len(page.Items), page.HasMore, page.Total)
	}

	page = Paginate(items, "", true)
	if len(page.Items) != 16 || !page.HasMore || page.Category != AllCategory {
		t.Fatalf("show more page = %d items, hasMore=%v", len(page.Items), page.HasMore)
	}

	page = Paginate(items, "office", false)
	if len(page.Items) != 14 || page.HasMore {
		t.Fatalf("category page = %d items, hasMore=%v", len(page.Items), page.HasMore)
	}

	page = Paginate(gallery(5, "office"), "all", false)
	if len(page.Items) != 5 || page.HasMore {
		t.Fatalf("small page = %d items, hasMore=%v", len(page.Items), page.HasMore)
	}
}
