package projects

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/storage"
	"github.com/s2design/site/internal/services/site/storage/memory"
)

type fakeGateway struct {
	mu         sync.Mutex
	projects   []backend.Project
	categories []string
	listErr    error
	catErr     error
	mutateErr  error

	listCalls int
	catCalls  int
	lastToken string
	lastInput backend.ProjectInput
	deletedID backend.ID
}

func (f *fakeGateway) ListProjects(context.Context) ([]backend.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.projects, f.listErr
}

func (f *fakeGateway) GetProject(_ context.Context, id backend.ID) (backend.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return backend.Project{}, apperrors.EK(apperrors.KindNotFound, backend.KeyNotFound, "missing")
}

func (f *fakeGateway) ListProjectCategories(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catCalls++
	return f.categories, f.catErr
}

func (f *fakeGateway) CreateProject(_ context.Context, token string, in backend.ProjectInput) (backend.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken, f.lastInput = token, in
	return backend.Project{ID: "9", Title: in.Title}, f.mutateErr
}

func (f *fakeGateway) UpdateProject(_ context.Context, token string, id backend.ID, in backend.ProjectInput) (backend.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken, f.lastInput = token, in
	return backend.Project{ID: id, Title: in.Title}, f.mutateErr
}

func (f *fakeGateway) DeleteProject(_ context.Context, token string, id backend.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken, f.deletedID = token, id
	return f.mutateErr
}

func sampleProjects() []backend.Project {
	return []backend.Project{
		{ID: "1", Title: "Jelambar Loft", Description: "Warm oak kitchen", Category: "kitchen"},
		{ID: "2", Title: "Quiet Bedroom", Description: "Linen and rattan", Category: "bedroom"},
		{ID: "3", Title: "Family Space", Description: "", Category: "living-room"},
	}
}

func TestListIsCachedAndMutationsInvalidate(t *testing.T) {
	gw := &fakeGateway{projects: sampleProjects()}
	svc := NewService(gw, storage.NewCache(memory.New(), time.Minute, nil), nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		items, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("len = %d", len(items))
		}
	}
	if gw.listCalls != 1 {
		t.Fatalf("list calls = %d, want 1", gw.listCalls)
	}

	if err := svc.Delete(ctx, "tok", "2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gw.deletedID != "2" || gw.lastToken != "tok" {
		t.Fatalf("delete call = %q/%q", gw.deletedID, gw.lastToken)
	}
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
	if gw.listCalls != 2 {
		t.Fatalf("list calls after delete = %d, want 2", gw.listCalls)
	}
}

func TestListFailureReturnsEmptySliceAndError(t *testing.T) {
	gw := &fakeGateway{listErr: apperrors.E(apperrors.KindUnavailable, "down")}
	items, err := NewService(gw, nil, nil).List(context.Background())
	if !apperrors.Is(err, apperrors.KindUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %#v", items)
	}
}

func TestCategoriesSwallowFailure(t *testing.T) {
	gw := &fakeGateway{catErr: errors.New("boom")}
	got := NewService(gw, nil, nil).Categories(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("categories = %#v", got)
	}
}

func TestRefreshAllLoadsBoth(t *testing.T) {
	gw := &fakeGateway{projects: sampleProjects(), categories: []string{"kitchen", "bedroom"}}
	snap, err := NewService(gw, nil, nil).RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	if len(snap.Projects) != 3 {
		t.Fatalf("projects = %d", len(snap.Projects))
	}
	if diff := cmp.Diff([]string{"kitchen", "bedroom"}, snap.Categories); diff != "" {
		t.Fatalf("categories (-want +got):\n%s", diff)
	}
	if gw.listCalls != 1 || gw.catCalls != 1 {
		t.Fatalf("calls = %d/%d", gw.listCalls, gw.catCalls)
	}
}

func TestRefreshAllReportsProjectFailure(t *testing.T) {
	gw := &fakeGateway{listErr: errors.New("down"), categories: []string{"office"}}
	snap, err := NewService(gw, nil, nil).RefreshAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if snap.Projects == nil {
		t.Fatal("expected non-nil project list")
	}
}

func TestGetRequiresID(t *testing.T) {
	_, err := NewService(&fakeGateway{}, nil, nil).Get(context.Background(), " ")
	if !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestGetReturnsProject(t *testing.T) {
	gw := &fakeGateway{projects: sampleProjects()}
	got, err := NewService(gw, nil, nil).Get(context.Background(), "3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Family Space" {
		t.Fatalf("title = %q", got.Title)
	}
}

func TestCreateValidatesBeforeCallingGateway(t *testing.T) {
	tests := []struct {
		name string
		in   backend.ProjectInput
		key  string
	}{
		{name: "title", in: backend.ProjectInput{Category: "office", ThumbnailImage: "a.jpg"}, key: KeyTitleRequired},
		{name: "category", in: backend.ProjectInput{Title: "A", ThumbnailImage: "a.jpg"}, key: KeyCategoryRequired},
		{name: "thumbnail", in: backend.ProjectInput{Title: "A", Category: "office", ThumbnailImage: "  "}, key: KeyThumbnailRequired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{}
			_, err := NewService(gw, nil, nil).Create(context.Background(), "tok", tc.in)
			if got := apperrors.LocalizationKey(err); got != tc.key {
				t.Fatalf("key = %q, want %q", got, tc.key)
			}
			if gw.lastToken != "" {
				t.Fatal("gateway should not be called")
			}
		})
	}
}

func TestCreateSendsNormalizedImages(t *testing.T) {
	gw := &fakeGateway{}
	in := backend.ProjectInput{
		Title:          " Loft ",
		Category:       "office",
		ThumbnailImage: "thumb.jpg",
		Images: []backend.ProjectImage{
			{ImageURL: "", DisplayOrder: 1},
			{ImageURL: " b.jpg ", AltText: "B", DisplayOrder: 7},
			{ImageURL: "c.jpg", DisplayOrder: 3},
		},
	}
	if _, err := NewService(gw, nil, nil).Create(context.Background(), "tok", in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := []backend.ProjectImage{
		{ImageURL: "b.jpg", AltText: "B", DisplayOrder: 1},
		{ImageURL: "c.jpg", DisplayOrder: 2},
	}
	if diff := cmp.Diff(want, gw.lastInput.Images); diff != "" {
		t.Fatalf("images (-want +got):\n%s", diff)
	}
	if gw.lastInput.Title != "Loft" {
		t.Fatalf("title = %q", gw.lastInput.Title)
	}
}

func TestUpdatePropagatesGatewayError(t *testing.T) {
	gw := &fakeGateway{mutateErr: apperrors.E(apperrors.KindUnauthorized, "expired")}
	in := backend.ProjectInput{Title: "A", Category: "office", ThumbnailImage: "a.jpg"}
	_, err := NewService(gw, nil, nil).Update(context.Background(), "tok", "1", in)
	if !apperrors.Is(err, apperrors.KindUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}

func TestNilServiceIsUnavailable(t *testing.T) {
	var svc *Service
	if _, err := svc.List(context.Background()); !apperrors.Is(err, apperrors.KindUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestFilter(t *testing.T) {
	items := sampleProjects()
	tests := []struct {
		name     string
		category string
		query    string
		want     []backend.ID
	}{
		{name: "all", category: "all", want: []backend.ID{"1", "2", "3"}},
		{name: "empty category", category: "", want: []backend.ID{"1", "2", "3"}},
		{name: "category case-insensitive", category: "KITCHEN", want: []backend.ID{"1"}},
		{name: "title query", category: "all", query: "  QUIET ", want: []backend.ID{"2"}},
		{name: "description query", category: "all", query: "rattan", want: []backend.ID{"2"}},
		{name: "display name query", category: "all", query: "living room", want: []backend.ID{"3"}},
		{name: "category and query", category: "kitchen", query: "bedroom", want: []backend.ID{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := []backend.ID{}
			for _, p := range Filter(items, tc.category, tc.query) {
				got = append(got, p.ID)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("ids (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveCategory(t *testing.T) {
	known := []string{"kitchen", "office"}
	if got := ResolveCategory("Office", known); got != "office" {
		t.Fatalf("got %q", got)
	}
	if got := ResolveCategory("garage", known); got != AllCategory {
		t.Fatalf("unknown category = %q", got)
	}
	if got := ResolveCategory("", known); got != AllCategory {
		t.Fatalf("empty category = %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"living-room": "Living Room",
		"office":      "Office",
		"":            "",
		"dining-room": "Dining Room",
	}
	for slug, want := range tests {
		if got := DisplayName(slug); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", slug, got, want)
		}
	}
}

func TestImageRows(t *testing.T) {
	rows := FormRows(nil)
	if diff := cmp.Diff([]backend.ProjectImage{{DisplayOrder: 1}}, rows); diff != "" {
		t.Fatalf("FormRows(nil) (-want +got):\n%s", diff)
	}

	rows = AddRow(AddRow(rows))
	if len(rows) != 3 || rows[2].DisplayOrder != 3 {
		t.Fatalf("AddRow = %#v", rows)
	}
	rows[0].ImageURL, rows[1].ImageURL, rows[2].ImageURL = "a", "b", "c"

	rows = RemoveRow(rows, 0)
	want := []backend.ProjectImage{{ImageURL: "b", DisplayOrder: 1}, {ImageURL: "c", DisplayOrder: 2}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("RemoveRow (-want +got):\n%s", diff)
	}

	last := RemoveRow([]backend.ProjectImage{{ImageURL: "x", DisplayOrder: 1}}, 0)
	if len(last) != 1 {
		t.Fatalf("last row removed: %#v", last)
	}
}
