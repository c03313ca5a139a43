package testimonials

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/s2design/site/internal/services/site/backend"
	apperrors "github.com/s2design/site/internal/services/site/platform/errors"
	"github.com/s2design/site/internal/services/site/storage"
	"github.com/s2design/site/internal/services/site/storage/memory"
)

type fakeGateway struct {
	items     []backend.Testimonial
	listErr   error
	listCalls int
	lastInput backend.TestimonialInput
	calls     int
}

func (f *fakeGateway) ListTestimonials(context.Context) ([]backend.Testimonial, error) {
	f.listCalls++
	return f.items, f.listErr
}

func (f *fakeGateway) CreateTestimonial(_ context.Context, _ string, in backend.TestimonialInput) (backend.Testimonial, error) {
	f.calls++
	f.lastInput = in
	return backend.Testimonial{ID: "1", Name: in.Name, Quote: in.Quote, Rating: in.Rating}, nil
}

func (f *fakeGateway) UpdateTestimonial(_ context.Context, _ string, id backend.ID, in backend.TestimonialInput) (backend.Testimonial, error) {
	f.calls++
	f.lastInput = in
	return backend.Testimonial{ID: id, Name: in.Name}, nil
}

func (f *fakeGateway) DeleteTestimonial(context.Context, string, backend.ID) error {
	f.calls++
	return nil
}

func TestListEmptyOnFailure(t *testing.T) {
	items, err := NewService(&fakeGateway{listErr: errors.New("down")}, nil, nil).List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %#v", items)
	}
}

func TestListClampsRatings(t *testing.T) {
	gw := &fakeGateway{items: []backend.Testimonial{{Name: "A", Rating: 9}, {Name: "B", Rating: 0}, {Name: "C", Rating: 3}}}
	items, err := NewService(gw, nil, nil).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	got := []int{items[0].Rating, items[1].Rating, items[2].Rating}
	if diff := cmp.Diff([]int{5, 5, 3}, got); diff != "" {
		t.Fatalf("ratings (-want +got):\n%s", diff)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	gw := &fakeGateway{items: []backend.Testimonial{{Name: "A", Quote: "Q", Rating: 5}}}
	svc := NewService(gw, storage.NewCache(memory.New(), time.Minute, nil), nil)
	ctx := context.Background()
	_, _ = svc.List(ctx)
	_, _ = svc.List(ctx)
	if gw.listCalls != 1 {
		t.Fatalf("list calls = %d", gw.listCalls)
	}
	if err := svc.Delete(ctx, "tok", "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, _ = svc.List(ctx)
	if gw.listCalls != 2 {
		t.Fatalf("list calls after delete = %d", gw.listCalls)
	}
}

func TestCreateValidation(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw, nil, nil)
	_, err := svc.Create(context.Background(), "tok", backend.TestimonialInput{Quote: "Lovely"})
	if apperrors.LocalizationKey(err) != KeyNameRequired {
		t.Fatalf("err = %v", err)
	}
	_, err = svc.Create(context.Background(), "tok", backend.TestimonialInput{Name: "Sarah", Quote: " "})
	if apperrors.LocalizationKey(err) != KeyQuoteRequired {
		t.Fatalf("err = %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("gateway called %d times", gw.calls)
	}

	if _, err := svc.Create(context.Background(), "tok", backend.TestimonialInput{Name: " Sarah ", Quote: "Lovely", Rating: 0}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := backend.TestimonialInput{Name: "Sarah", Quote: "Lovely", Rating: 5}
	if diff := cmp.Diff(want, gw.lastInput); diff != "" {
		t.Fatalf("input (-want +got):\n%s", diff)
	}
}

func TestClampRating(t *testing.T) {
	tests := map[int]int{-3: 1, 0: 5, 1: 1, 4: 4, 5: 5, 6: 5}
	for in, want := range tests {
		if got := ClampRating(in); got != want {
			t.Fatalf("ClampRating(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestStars(t *testing.T) {
	if diff := cmp.Diff([]bool{true, true, true, false, false}, Stars(3)); diff != "" {
		t.Fatalf("stars (-want +got):\n%s", diff)
	}
}
