package patient

import (
	"sync"
	"testing"

	"github.com/kumohax/platform/pkg/common/models"
)

func row(id string, age int) models.EnrichedPatient {
	return models.EnrichedPatient{
		PatientProfile: models.PatientProfile{ID: id, Age: age, Sex: "F"},
		RiskScore:      0.5,
	}
}

func TestUpsertOverwritesDuplicateID(t *testing.T) {
	store := NewStore()

	if replaced := store.Upsert(row("P-100", 40)); replaced {
		t.Fatal("first insert should not report replacement")
	}
	if replaced := store.Upsert(row("P-100", 41)); !replaced {
		t.Fatal("duplicate id should overwrite")
	}

	if store.Len() != 1 {
		t.Fatalf("expected 1 record after overwrite, got %d", store.Len())
	}
	got, ok := store.Get("P-100")
	if !ok {
		t.Fatal("record missing after overwrite")
	}
	if got.Age != 41 {
		t.Fatalf("expected overwritten age 41, got %d", got.Age)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	store := NewStore()
	store.UpsertBatch([]models.EnrichedPatient{row("a", 1), row("b", 2), row("c", 3)})

	rows := store.List()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, want := range []string{"a", "b", "c"} {
		if rows[i].ID != want {
			t.Fatalf("row %d: expected id %s, got %s", i, want, rows[i].ID)
		}
	}
}

func TestNextPatientIDSkipsTakenIDs(t *testing.T) {
	store := NewStore()
	store.Upsert(row("P-1000", 30))

	id := store.NextPatientID()
	if id == "P-1000" {
		t.Fatal("generated id collides with stored record")
	}
	if store.Has(id) {
		t.Fatalf("generated id %s already in store", id)
	}
}

func TestConcurrentUpsertAndList(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.UpsertBatch([]models.EnrichedPatient{row("x", 1), row("y", 2)})
		}()
		go func() {
			defer wg.Done()
			_ = store.List()
			_ = store.Len()
		}()
	}
	wg.Wait()

	if store.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", store.Len())
	}
}

func TestSeedProfiles(t *testing.T) {
	seeds := SeedProfiles()
	if len(seeds) != 3 {
		t.Fatalf("expected 3 seed patients, got %d", len(seeds))
	}
	ids := map[string]bool{}
	for _, p := range seeds {
		if ids[p.ID] {
			t.Fatalf("duplicate seed id %s", p.ID)
		}
		ids[p.ID] = true
	}
}
