package venue

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
)

func openVenues(t *testing.T, path string) *Module {
	t.Helper()
	m, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return m
}

func seed(t *testing.T, m *Module) {
	t.Helper()
	for _, v := range []*model.Venue{
		{Name: "Royal Hall", City: "London", Country: "UK", Capacity: 500},
		{Name: "Blue Note", City: "New York", State: "NY", Capacity: 200},
		{Name: "Hall of Fame", City: "london", Capacity: 1200},
	} {
		if _, err := m.Create(v); err != nil {
			t.Fatalf("Create(%q) error = %v", v.Name, err)
		}
	}
}

func TestModule_Create(t *testing.T) {
	m := openVenues(t, filepath.Join(t.TempDir(), FileName))

	id, err := m.Create(&model.Venue{Name: "Hall", Capacity: 500})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 1 {
		t.Errorf("Create() id = %d, want 1", id)
	}

	tests := []struct {
		name  string
		venue model.Venue
	}{
		{"missing name", model.Venue{Capacity: 10}},
		{"negative capacity", model.Venue{Name: "Pit", Capacity: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Create(&tt.venue); !errors.Is(err, ErrInvalid) {
				t.Errorf("Create() error = %v, want ErrInvalid", err)
			}
		})
	}

	if n := len(m.All()); n != 1 {
		t.Errorf("len(All()) = %d, want 1", n)
	}
}

func TestModule_Queries(t *testing.T) {
	m := openVenues(t, filepath.Join(t.TempDir(), FileName))
	seed(t, m)

	names := func(vs []*model.Venue) []string {
		var out []string
		for _, v := range vs {
			out = append(out, v.Name)
		}
		return out
	}

	tests := []struct {
		name string
		got  []*model.Venue
		want []string
	}{
		{"search hall", m.SearchByName("HALL"), []string{"Royal Hall", "Hall of Fame"}},
		{"search none", m.SearchByName("arena"), nil},
		{"city", m.FindByCity("London"), []string{"Royal Hall", "Hall of Fame"}},
		{"capacity", m.FindByMinCapacity(500), []string{"Royal Hall", "Hall of Fame"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := names(tt.got); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModule_UpdateDelete(t *testing.T) {
	m := openVenues(t, filepath.Join(t.TempDir(), FileName))
	seed(t, m)

	if err := m.Update(2, func(v *model.Venue) { v.Capacity = 250 }); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if v, _ := m.Get(2); v.Capacity != 250 {
		t.Errorf("Capacity = %d, want 250", v.Capacity)
	}

	err := m.Update(2, func(v *model.Venue) { v.Name = "" })
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Update() error = %v, want ErrInvalid", err)
	}
	if v, _ := m.Get(2); v.Name != "Blue Note" {
		t.Errorf("Name = %q after rejected update, want Blue Note", v.Name)
	}

	removed, err := m.Delete(2)
	if err != nil || !removed {
		t.Fatalf("Delete() = %v, %v", removed, err)
	}
	if _, err := m.Get(2); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrNotFound", err)
	}
}

func TestModule_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := openVenues(t, path)
	seed(t, m)
	if err := m.Update(1, func(v *model.Venue) {
		v.Address = "1 Kensington Gore"
		v.ZipCode = "SW7 2AP"
		v.Description = "Grand concert hall"
		v.ContactInfo = "+44 20 7589 8212"
	}); err != nil {
		t.Fatal(err)
	}

	fresh := openVenues(t, path)
	if !reflect.DeepEqual(fresh.All(), m.All()) {
		t.Errorf("reopened venues = %+v, want %+v", fresh.All(), m.All())
	}
}
