package crew

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/handiism/concert-manager/internal/model"
	"github.com/handiism/concert-manager/internal/store"
)

func openCrew(t *testing.T, path string) *Module {
	t.Helper()
	m, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return m
}

func seed(t *testing.T, m *Module) {
	t.Helper()
	for _, c := range []*model.Crew{
		{Name: "Sam Sound", Role: "Sound", HourlyRateCents: 3000},
		{Name: "Lee Lights", Role: "Lighting", HourlyRateCents: 2550},
		{Name: "Sally Secure", Role: "security", HourlyRateCents: 2000},
	} {
		if _, err := m.Create(c); err != nil {
			t.Fatal(err)
		}
	}
}

func TestModule_Create(t *testing.T) {
	m := openCrew(t, filepath.Join(t.TempDir(), FileName))

	tests := []struct {
		name string
		crew model.Crew
	}{
		{"no name", model.Crew{Role: "Sound"}},
		{"no role", model.Crew{Name: "Sam"}},
		{"negative rate", model.Crew{Name: "Sam", Role: "Sound", HourlyRateCents: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Create(&tt.crew); !errors.Is(err, ErrInvalid) {
				t.Errorf("Create() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestModule_Assignments(t *testing.T) {
	m := openCrew(t, filepath.Join(t.TempDir(), FileName))
	seed(t, m)

	for _, id := range []model.CrewID{1, 2} {
		if err := m.AssignToConcert(id, 5); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.AssignToConcert(99, 5); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("AssignToConcert(99) error = %v, want ErrNotFound", err)
	}

	if got := m.FindByConcert(5); len(got) != 2 {
		t.Errorf("FindByConcert() = %d crew, want 2", len(got))
	}

	// (3000 + 2550) * 4.5 hours
	if got := m.LaborCost(5, 4.5); got != 24975 {
		t.Errorf("LaborCost() = %d, want 24975", got)
	}
	if got := m.LaborCost(6, 8); got != 0 {
		t.Errorf("LaborCost() of unstaffed concert = %d, want 0", got)
	}

	removed, err := m.UnassignFromConcert(2, 5)
	if err != nil || !removed {
		t.Fatalf("UnassignFromConcert() = %v, %v", removed, err)
	}
	if got := m.LaborCost(5, 1); got != 3000 {
		t.Errorf("LaborCost() after unassign = %d, want 3000", got)
	}
}

func TestModule_Queries(t *testing.T) {
	m := openCrew(t, filepath.Join(t.TempDir(), FileName))
	seed(t, m)

	if got := m.FindByRole("SECURITY"); len(got) != 1 || got[0].Name != "Sally Secure" {
		t.Errorf("FindByRole() = %+v", got)
	}
	if got := m.SearchByName("s"); len(got) != 3 {
		t.Errorf("SearchByName(s) = %d crew, want 3", len(got))
	}

	for _, duty := range []string{"Mixing", " mixing ", "", "Soundcheck"} {
		if err := m.AddDuty(1, duty); err != nil {
			t.Fatal(err)
		}
	}
	c, _ := m.Get(1)
	if want := []string{"Mixing", "Soundcheck"}; !reflect.DeepEqual(c.Duties, want) {
		t.Errorf("Duties = %v, want %v", c.Duties, want)
	}
}

func TestModule_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := openCrew(t, path)
	seed(t, m)
	if err := m.Update(1, func(c *model.Crew) {
		c.Email = "sam@example.com"
		c.Phone = "+1 555 0100"
	}); err != nil {
		t.Fatal(err)
	}
	if err := m.AddDuty(1, "Mixing"); err != nil {
		t.Fatal(err)
	}
	if err := m.AssignToConcert(3, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Delete(2); err != nil {
		t.Fatal(err)
	}

	fresh := openCrew(t, path)
	if !reflect.DeepEqual(fresh.All(), m.All()) {
		t.Errorf("reopened crew = %+v, want %+v", fresh.All(), m.All())
	}
}
