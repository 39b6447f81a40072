package moods

import "testing"

func TestByID(t *testing.T) {
	m, ok := ByID("mind-bending")
	if !ok {
		t.Fatal("expected mind-bending mood")
	}
	if len(m.GenreIDs) != 2 || m.GenreIDs[0] != 878 || m.GenreIDs[1] != 9648 {
		t.Fatalf("unexpected genres %v", m.GenreIDs)
	}
	if _, ok := ByID("sleepy"); ok {
		t.Fatal("expected unknown mood to be missing")
	}
}

func TestAll_IsACopy(t *testing.T) {
	got := All()
	if len(got) != 8 {
		t.Fatalf("expected 8 moods, got %d", len(got))
	}
	got[0].Title = "changed"
	if All()[0].Title != "Feel Good" {
		t.Fatal("catalog mutated through returned slice")
	}
}

func TestYearOptions(t *testing.T) {
	got := YearOptions(2026, 3)
	if len(got) != 3 || got[0].Value != "2026" || got[2].Label != "2024" {
		t.Fatalf("unexpected years %+v", got)
	}
}

func TestGenresAndRatings(t *testing.T) {
	if len(Genres()) != 18 {
		t.Fatalf("expected 18 genres, got %d", len(Genres()))
	}
	if r := RatingOptions(); len(r) != 4 || r[0].Value != "9" {
		t.Fatalf("unexpected ratings %+v", r)
	}
}
