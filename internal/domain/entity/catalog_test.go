package entity

import "testing"

func testCatalog() *Catalog {
	return &Catalog{
		Barbers: []Barber{
			{Name: "Ricardo", AdminUserID: "admin-ricardo"},
			{Name: "Alexandre"},
		},
		Services:     DefaultServices(),
		MasterAdmins: []string{"master-1"},
	}
}

func TestServiceByCode(t *testing.T) {
	c := testCatalog()

	if svc, ok := c.ServiceByCode("1"); !ok || !svc.Exclusive {
		t.Fatalf("code 1 should be an exclusive cut, got %+v ok=%v", svc, ok)
	}
	if svc, ok := c.ServiceByCode("6"); !ok || svc.Exclusive {
		t.Fatalf("code 6 should be an add-on, got %+v ok=%v", svc, ok)
	}
	for _, code := range []string{"p", "P", " bundle "} {
		svc, ok := c.ServiceByCode(code)
		if !ok || svc.ID != BundleID {
			t.Fatalf("code %q should resolve to the bundle, got %+v ok=%v", code, svc, ok)
		}
		if !svc.Exclusive || svc.Price != 45 {
			t.Fatalf("bundle misconfigured: %+v", svc)
		}
	}
	if _, ok := c.ServiceByCode("99"); ok {
		t.Fatal("code 99 should not resolve")
	}
}

func TestBarberLookup(t *testing.T) {
	c := testCatalog()

	if b, ok := c.BarberByIndex(1); !ok || b.Name != "Ricardo" {
		t.Fatalf("index 1: got %+v ok=%v", b, ok)
	}
	for _, i := range []int{0, 3, -1} {
		if _, ok := c.BarberByIndex(i); ok {
			t.Fatalf("index %d should not resolve", i)
		}
	}
	if b, ok := c.BarberByName(" alexandre "); !ok || b.Name != "Alexandre" {
		t.Fatalf("name lookup: got %+v ok=%v", b, ok)
	}
}

func TestIsAdmin(t *testing.T) {
	c := testCatalog()

	for _, id := range []string{"admin-ricardo", "master-1"} {
		if !c.IsAdmin(id) {
			t.Fatalf("%s should be an admin", id)
		}
	}
	if c.IsAdmin("user-1") {
		t.Fatal("user-1 should not be an admin")
	}
}

func TestSessionSelectionHelpers(t *testing.T) {
	c := testCatalog()
	s := NewSession()

	if s.HasExclusive() {
		t.Fatal("fresh session has no exclusive service")
	}

	cut, _ := c.ServiceByCode("1")
	addOn, _ := c.ServiceByCode("6")
	s.Services = append(s.Services, cut, addOn)

	if !s.HasExclusive() {
		t.Fatal("cut should count as exclusive")
	}
	if !s.HasService(addOn.ID) || s.HasService("color") {
		t.Fatal("HasService mismatch")
	}
	if got := s.TotalPrice(); got != cut.Price+addOn.Price {
		t.Fatalf("total %v, want %v", got, cut.Price+addOn.Price)
	}
	if got := s.ServiceNames(); got != cut.Name+" + "+addOn.Name {
		t.Fatalf("names %q", got)
	}
}
