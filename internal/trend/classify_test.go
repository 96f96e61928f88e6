package trend

import (
	"strings"
	"testing"
)

func TestClassify_UpWithNumberAndDate(t *testing.T) {
	rec, ok := Classify("Palm Oil price increased to 950 in March 2024.", PalmOil)
	if !ok {
		t.Fatalf("expected a record")
	}
	if rec.Direction != Up {
		t.Fatalf("direction=%q, want up", rec.Direction)
	}
	if rec.Number != "950" {
		t.Fatalf("number=%q, want 950", rec.Number)
	}
	if rec.Date != "March 2024" {
		t.Fatalf("date=%q, want March 2024", rec.Date)
	}
	if !strings.HasPrefix(rec.Description, "Palm Oil price is going up: 950 (March 2024).") {
		t.Fatalf("unexpected description: %q", rec.Description)
	}
}

func TestClassify_AbsentWithoutProduct(t *testing.T) {
	if _, ok := Classify("Soybean oil price increased to 950.", PalmOil); ok {
		t.Fatalf("expected no record when product is not mentioned")
	}
}

func TestClassify_AbsentWithoutKeyword(t *testing.T) {
	if _, ok := Classify("Palm Oil is harvested in Malaysia.", PalmOil); ok {
		t.Fatalf("expected no record without a relevance keyword")
	}
}

func TestClassify_CaseInsensitiveProduct(t *testing.T) {
	rec, ok := Classify("PALM OIL COSTS DROPPED to 810,5 last week", PalmOil)
	if !ok {
		t.Fatalf("expected a record")
	}
	if rec.Direction != Down {
		t.Fatalf("direction=%q, want down", rec.Direction)
	}
	if rec.Number != "810,5" {
		t.Fatalf("number=%q, want 810,5", rec.Number)
	}
	if rec.Product != PalmOil {
		t.Fatalf("product=%q, want configured name", rec.Product)
	}
}

func TestClassify_NoDirectionStillCaptured(t *testing.T) {
	rec, ok := Classify("PFAD export volumes were steady.", PFAD)
	if !ok {
		t.Fatalf("expected broad capture on supply keyword")
	}
	if rec.Direction != None {
		t.Fatalf("direction=%q, want none", rec.Direction)
	}
	if rec.Description != "PFAD, no clear trend: PFAD export volumes were steady." {
		t.Fatalf("unexpected description: %q", rec.Description)
	}
	if len(rec.Drivers) != 1 || rec.Drivers[0] != "export" {
		t.Fatalf("drivers=%v, want [export]", rec.Drivers)
	}
}

func TestClassify_UpWinsOverDown(t *testing.T) {
	rec, ok := Classify("Sunflower Oil prices rise after the fall of 2023.", SunflowerOil)
	if !ok {
		t.Fatalf("expected a record")
	}
	if rec.Direction != Up {
		t.Fatalf("direction=%q, want up when both groups match", rec.Direction)
	}
}

func TestClassify_DescriptionBranches(t *testing.T) {
	cases := []struct {
		name     string
		sentence string
		want     string
	}{
		{"trend and number", "Rapeseed Oil rates went up to 1,020 today", "Rapeseed Oil price is going up: 1,020. Source: Rapeseed Oil rates went up to 1,020 today"},
		{"trend without number", "Rapeseed Oil prices went down", "Rapeseed Oil, no clear trend: Rapeseed Oil prices went down"},
		{"date without trend", "Rapeseed Oil tariffs from Jan 2025 apply", "Rapeseed Oil (Jan 2025), no clear trend: Rapeseed Oil tariffs from Jan 2025 apply"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, ok := Classify(tc.sentence, RapeseedOil)
			if !ok {
				t.Fatalf("expected a record")
			}
			if rec.Description != tc.want {
				t.Fatalf("description=%q, want %q", rec.Description, tc.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	s := "Palm Oil supply shortage pushed the cost up by 12.5% in Feb 2024 amid war."
	a, _ := Classify(s, PalmOil)
	b, _ := Classify(s, PalmOil)
	if a.Description != b.Description || a.Number != b.Number || a.Date != b.Date || a.Direction != b.Direction {
		t.Fatalf("classification differs between calls: %+v vs %+v", a, b)
	}
	if strings.Join(a.Drivers, ",") != "supply,shortage,war" {
		t.Fatalf("drivers=%v", a.Drivers)
	}
}
