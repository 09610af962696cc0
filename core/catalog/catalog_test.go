package catalog

import "testing"

func TestUnitIDs(t *testing.T) {
	f := &File{Units: []*Unit{{ID: "b"}, {ID: "a"}, {ID: "c"}}}
	got := f.UnitIDs()
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnitIDs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnitByID(t *testing.T) {
	f := &File{Units: []*Unit{{ID: "a", Source: "A"}, {ID: "b", Source: "B"}}}
	if u := f.UnitByID("b"); u == nil || u.Source != "B" {
		t.Errorf("UnitByID(b) = %+v", u)
	}
	if u := f.UnitByID("missing"); u != nil {
		t.Errorf("UnitByID(missing) = %+v, want nil", u)
	}
}

func TestSetTarget(t *testing.T) {
	u := &Unit{ID: "a"}
	if u.HasTarget {
		t.Fatal("new unit must not have a target")
	}
	u.SetTarget("")
	if !u.HasTarget {
		t.Error("SetTarget must mark an empty translation as present")
	}
}
