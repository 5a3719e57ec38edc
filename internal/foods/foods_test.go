package foods

import (
	"strings"
	"testing"
)

func TestDefault_Loads(t *testing.T) {
	tbl := Default()
	if got := len(tbl.Names("")); got != 39 {
		t.Errorf("table size = %d, want 39", got)
	}
}

func TestLookup(t *testing.T) {
	tbl := Default()
	cases := []struct {
		query    string
		found    bool
		calories float64
		rating   string
	}{
		{"apple", true, 52, "A"},
		{"Chicken Breast", true, 165, "A"},
		{"  PIZZA ", true, 266, "D"},
		{"chick", false, 0, ""},
		{"dragonfruit", false, 0, ""},
	}
	for _, tc := range cases {
		f, ok := tbl.Lookup(tc.query)
		if ok != tc.found {
			t.Errorf("Lookup(%q) found = %v, want %v", tc.query, ok, tc.found)
			continue
		}
		if ok && (f.Calories != tc.calories || f.Rating != tc.rating) {
			t.Errorf("Lookup(%q) = %+v", tc.query, f)
		}
	}
}

func TestNames_Prefix(t *testing.T) {
	tbl := Default()
	got := tbl.Names("Ch")
	want := []string{"cheese", "chicken breast", "chips", "chocolate"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names(Ch) = %v, want %v", got, want)
	}
	if got := tbl.Names("zzz"); len(got) != 0 {
		t.Errorf("Names(zzz) = %v, want empty", got)
	}
}

func TestHealthTip(t *testing.T) {
	if !strings.HasPrefix(HealthTip("A"), "Excellent choice") {
		t.Errorf("A tip = %q", HealthTip("A"))
	}
	if HealthTip("Z") != "No rating available" {
		t.Errorf("Z tip = %q", HealthTip("Z"))
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed": "foods: [",
		"duplicate": "foods:\n  - name: egg\n  - name: Egg\n",
		"empty":     "foods:\n  - name: ''\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
