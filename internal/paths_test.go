package internal

import (
	"reflect"
	"testing"
)

func TestSplitSiblingSegments(t *testing.T) {
	tests := []struct {
		name     string
		rootPath string
		fullPath string
		want     []string
		ok       bool
	}{
		{
			name:     "root only",
			rootPath: "/Travels(ID=42,IsActiveEntity=true)",
			fullPath: "/Travels(ID=42,IsActiveEntity=true)",
			want:     []string{"/Travels(ID=42,IsActiveEntity=true)"},
			ok:       true,
		},
		{
			name:     "nested navigation",
			rootPath: "/Travels(ID=42,IsActiveEntity=true)",
			fullPath: "/Travels(ID=42,IsActiveEntity=true)/_Bookings(ID=7)/_Flight",
			want:     []string{"/Travels(ID=42,IsActiveEntity=true)", "_Bookings(ID=7)", "_Flight"},
			ok:       true,
		},
		{
			name:     "parametrized root keeps its slashes",
			rootPath: "/Set(aa)/Entity(bb)",
			fullPath: "/Set(aa)/Entity(bb)/_Nav(cc)",
			want:     []string{"/Set(aa)/Entity(bb)", "_Nav(cc)"},
			ok:       true,
		},
		{
			name:     "not a prefix",
			rootPath: "/Travels(ID=42)",
			fullPath: "/Bookings(ID=7)",
			ok:       false,
		},
		{
			name:     "prefix without segment boundary",
			rootPath: "/Travels(ID=1)",
			fullPath: "/Travels(ID=10)",
			ok:       false,
		},
		{
			name:     "empty root",
			rootPath: "",
			fullPath: "/Travels(ID=1)",
			ok:       false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := splitSiblingSegments(tt.rootPath, tt.fullPath)
			if ok != tt.ok {
				t.Fatalf("splitSiblingSegments() ok = %v, want %v", ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitSiblingSegments() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasKeyPredicate(t *testing.T) {
	if !hasKeyPredicate("_Bookings(ID=7)") {
		t.Error("keyed segment should have a key predicate")
	}
	if hasKeyPredicate("_Flight") {
		t.Error("1:1 navigation should not have a key predicate")
	}
}

func TestReplaceKeyPredicate(t *testing.T) {
	tests := []struct {
		name      string
		segment   string
		canonical string
		want      string
	}{
		{
			name:      "simple key swap",
			segment:   "_Bookings(ID=7)",
			canonical: "/Bookings(ID=9)",
			want:      "_Bookings(ID=9)",
		},
		{
			name:      "only the final predicate is replaced",
			segment:   "/Set(p=1)/Entity(ID=2)",
			canonical: "/EntitySiblings(ID=5)",
			want:      "/Set(p=1)/Entity(ID=5)",
		},
		{
			name:      "canonical without predicate passes through",
			segment:   "_Bookings(ID=7)",
			canonical: "/Bookings",
			want:      "_Bookings(ID=7)",
		},
		{
			name:      "segment without predicate passes through",
			segment:   "_Flight",
			canonical: "/Flights(ID=1)",
			want:      "_Flight",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := replaceKeyPredicate(tt.segment, tt.canonical); got != tt.want {
				t.Errorf("replaceKeyPredicate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinSegment(t *testing.T) {
	if got := joinSegment("", "/Travels(ID=1)"); got != "/Travels(ID=1)" {
		t.Errorf("joinSegment empty base = %q", got)
	}
	if got := joinSegment("/Travels(ID=1)", "_Bookings(ID=2)"); got != "/Travels(ID=1)/_Bookings(ID=2)" {
		t.Errorf("joinSegment = %q", got)
	}
}
