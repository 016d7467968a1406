package layout

import "testing"

func TestResourceKey_RoundTrip(t *testing.T) {
	tests := []struct {
		id   string
		want ResourceKey
	}{
		{"EKV-2000", WholeUnit("EKV-2000")},
		{"EKV-2000 - Strana 2", SideOf("EKV-2000", SideStrana, 2)},
		{"Climatic CH-1 - Prostor 1", SideOf("Climatic CH-1", SideProstor, 1)},
		{"TisNg Hybrid - PNEUMATIKA", SideOf("TisNg Hybrid", SidePneumatika, 2)},
		{"Shaker - Large", WholeUnit("Shaker - Large")},
		{"Oven - Strana x", WholeUnit("Oven - Strana x")},
		{"Oven - Strana 0", WholeUnit("Oven - Strana 0")},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := ParseResourceKey(tt.id)
			if got != tt.want {
				t.Fatalf("parse: got %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.id {
				t.Fatalf("string: got %q, want %q", got.String(), tt.id)
			}
		})
	}
}

func TestParseResourceKey_TrimsWhitespace(t *testing.T) {
	got := ParseResourceKey("  VTS-200 - Strana 1 ")
	if got != SideOf("VTS-200", SideStrana, 1) {
		t.Fatalf("got %+v", got)
	}
}
