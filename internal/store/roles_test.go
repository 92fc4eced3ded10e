package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoles(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	addPlayers(t, s, "Ace", "Bert")

	for _, r := range []string{"Pitcher", " Captain "} {
		if _, err := s.AddRole(ctx, r); err != nil {
			t.Fatalf("AddRole(%q) error: %v", r, err)
		}
	}

	t.Run("names sorted", func(t *testing.T) {
		got, err := s.RoleNames(ctx)
		if err != nil {
			t.Fatalf("RoleNames() error: %v", err)
		}
		if diff := cmp.Diff([]string{"Captain", "Pitcher"}, got); diff != "" {
			t.Errorf("roles mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicate ignores case", func(t *testing.T) {
		if _, err := s.AddRole(ctx, "pitcher"); !errors.Is(err, ErrRoleExists) {
			t.Errorf("err = %v, want ErrRoleExists", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		if _, err := s.AddRole(ctx, "  "); err == nil {
			t.Error("expected error for empty role name")
		}
	})

	t.Run("assign", func(t *testing.T) {
		for _, r := range []string{"pitcher", "Captain", "Pitcher"} {
			if err := s.AssignRole(ctx, "ace", r); err != nil {
				t.Fatalf("AssignRole(ace, %q) error: %v", r, err)
			}
		}
		got, err := s.PlayerRoles(ctx, "Ace")
		if err != nil {
			t.Fatalf("PlayerRoles() error: %v", err)
		}
		if diff := cmp.Diff([]string{"Captain", "Pitcher"}, got); diff != "" {
			t.Errorf("Ace roles mismatch (-want +got):\n%s", diff)
		}

		got, err = s.PlayerRoles(ctx, "Bert")
		if err != nil {
			t.Fatalf("PlayerRoles() error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Bert roles = %v, want none", got)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		if err := s.AssignRole(ctx, "Ace", "Goalie"); !errors.Is(err, ErrUnknownRole) {
			t.Errorf("err = %v, want ErrUnknownRole", err)
		}
	})

	t.Run("unknown player", func(t *testing.T) {
		if err := s.AssignRole(ctx, "Zed", "Captain"); !errors.Is(err, ErrUnknownPlayer) {
			t.Errorf("err = %v, want ErrUnknownPlayer", err)
		}
		if _, err := s.PlayerRoles(ctx, "Zed"); !errors.Is(err, ErrUnknownPlayer) {
			t.Errorf("err = %v, want ErrUnknownPlayer", err)
		}
	})
}

func TestPlayerImages(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	addPlayers(t, s, "Ace")

	t.Run("none by default", func(t *testing.T) {
		got, err := s.PlayerImages(ctx, "Ace")
		if err != nil {
			t.Fatalf("PlayerImages() error: %v", err)
		}
		if got.Logo != nil || got.Headshot != nil {
			t.Errorf("images = %+v, want none", got)
		}
	})

	t.Run("set and keep", func(t *testing.T) {
		if err := s.SetPlayerImages(ctx, "ace", PlayerImages{Logo: []byte("logo"), Headshot: []byte("face")}); err != nil {
			t.Fatalf("SetPlayerImages() error: %v", err)
		}
		// A missing headshot keeps the stored one.
		if err := s.SetPlayerImages(ctx, "Ace", PlayerImages{Logo: []byte("logo2")}); err != nil {
			t.Fatalf("SetPlayerImages() error: %v", err)
		}
		got, err := s.PlayerImages(ctx, "Ace")
		if err != nil {
			t.Fatalf("PlayerImages() error: %v", err)
		}
		want := PlayerImages{Logo: []byte("logo2"), Headshot: []byte("face")}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("images mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown player", func(t *testing.T) {
		if err := s.SetPlayerImages(ctx, "Zed", PlayerImages{Logo: []byte("x")}); !errors.Is(err, ErrUnknownPlayer) {
			t.Errorf("err = %v, want ErrUnknownPlayer", err)
		}
		if _, err := s.PlayerImages(ctx, "Zed"); !errors.Is(err, ErrUnknownPlayer) {
			t.Errorf("err = %v, want ErrUnknownPlayer", err)
		}
	})
}
