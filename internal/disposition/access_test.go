package disposition

import (
	"context"
	"fmt"
	"testing"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/identity"
)

func seedDispositions(t *testing.T, svc *Service, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := svc.Create(context.Background(), CreateInput{
			LetterNumber: fmt.Sprintf("%03d/SET/2026", i+1),
			LetterDate:   "2026-08-01",
			Origin:       "Sekretariat Daerah",
			Subject:      fmt.Sprintf("Surat %d", i+1),
			Deadline:     "2026-08-15",
		}, adminActor)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestMemberSeesOnlyAssigned(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ids := seedDispositions(t, svc, 10)

	for _, id := range ids[:3] {
		if err := svc.Assign(ctx, id, "USER-member", RolePersonInCharge, adminActor); err != nil {
			t.Fatal(err)
		}
	}

	member := identity.Account{UserID: "USER-member", RoleName: identity.RoleMember}
	visible, err := svc.List(ctx, member)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 3 {
		t.Fatalf("member sees %d dispositions, want 3", len(visible))
	}
	want := map[string]bool{ids[0]: true, ids[1]: true, ids[2]: true}
	for _, d := range visible {
		if !want[d.ID] {
			t.Fatalf("member sees unassigned disposition %s", d.ID)
		}
	}
}

func TestManagersSeeEverything(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	seedDispositions(t, svc, 5)

	for _, role := range []string{identity.RoleAdministrator, identity.RoleTeamLead} {
		acc := identity.Account{UserID: "USER-any", RoleName: role}
		visible, err := svc.List(ctx, acc)
		if err != nil {
			t.Fatal(err)
		}
		if len(visible) != 5 {
			t.Fatalf("role %s sees %d dispositions, want 5", role, len(visible))
		}
	}
}

func TestAccessRecomputedPerCall(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ids := seedDispositions(t, svc, 2)
	member := identity.Account{UserID: "USER-member", RoleName: identity.RoleMember}

	visible, err := svc.List(ctx, member)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 0 {
		t.Fatalf("unassigned member sees %d dispositions", len(visible))
	}

	if err := svc.Assign(ctx, ids[1], "USER-member", RoleDelegate, adminActor); err != nil {
		t.Fatal(err)
	}
	visible, err = svc.List(ctx, member)
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 1 || visible[0].ID != ids[1] {
		t.Fatalf("expected the newly assigned disposition, got %#v", visible)
	}
	if len(visible[0].PICs) != 1 {
		t.Fatalf("list items carry active assignments, got %#v", visible[0].PICs)
	}
}

func TestVisibleToProjection(t *testing.T) {
	all := []Disposition{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := visibleTo(all, []string{"c", "a", "zz"})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected projection: %#v", got)
	}
	if got := visibleTo(all, nil); len(got) != 0 {
		t.Fatalf("no assignments means nothing visible, got %#v", got)
	}
}
