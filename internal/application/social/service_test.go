package social

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domitem "github.com/corpz/marketplace/internal/domain/item"
	domsocial "github.com/corpz/marketplace/internal/domain/social"
	domuser "github.com/corpz/marketplace/internal/domain/user"
	"github.com/corpz/marketplace/internal/infrastructure/memory"
)

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newFixture(t *testing.T) (*Service, *memory.ItemRepository, *memory.UserRepository) {
	t.Helper()
	items := memory.NewItemRepository()
	users := memory.NewUserRepository()
	svc := NewService(memory.NewFavoriteRepository(), memory.NewFollowRepository(), items, users, &seqIDGen{}, nil)
	return svc, items, users
}

func TestFavoriteRequiresExistingItem(t *testing.T) {
	svc, items, _ := newFixture(t)
	ctx := context.Background()

	if _, err := svc.Favorite(ctx, "u1", "missing"); !errors.Is(err, domitem.ErrNotFound) {
		t.Errorf("got %v, want item.ErrNotFound", err)
	}

	item, err := domitem.New("i1", "seller", "Mechanical keyboard", "Cherry MX switches, barely used", 100, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := items.Create(ctx, item); err != nil {
		t.Fatal(err)
	}

	first, err := svc.Favorite(ctx, "u1", "i1")
	if err != nil {
		t.Fatalf("Favorite: %v", err)
	}
	second, err := svc.Favorite(ctx, "u1", "i1")
	if err != nil {
		t.Fatalf("repeat Favorite: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("repeat favorite minted a new row: %s vs %s", second.ID, first.ID)
	}
}

func TestFollowRejectsSelf(t *testing.T) {
	svc, _, users := newFixture(t)
	ctx := context.Background()

	u, err := domuser.New("u1", "a@b.com", "Alice", "hash")
	if err != nil {
		t.Fatal(err)
	}
	if err := users.Insert(ctx, u); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Follow(ctx, "u1", "u1"); !errors.Is(err, domsocial.ErrSelfFollow) {
		t.Errorf("got %v, want ErrSelfFollow", err)
	}
}

func TestFollowRequiresExistingUser(t *testing.T) {
	svc, _, _ := newFixture(t)
	if _, err := svc.Follow(context.Background(), "u1", "ghost"); !errors.Is(err, domuser.ErrNotFound) {
		t.Errorf("got %v, want user.ErrNotFound", err)
	}
}
