package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// SideKind selects how a side of a multi-sided unit is labelled.
type SideKind int

const (
	SideWhole SideKind = iota
	SideStrana
	SideProstor
	SidePneumatika
)

// MaxSides is the most rows one piece of equipment may expand into.
const MaxSides = 64

const (
	sideSeparator   = " - "
	labelStrana     = "Strana"
	labelProstor    = "Prostor"
	labelPneumatika = "PNEUMATIKA"
)

// ResourceKey identifies one calendar row: a base piece of equipment plus the
// side (or space) of it. Side is 0 for single-row equipment.
type ResourceKey struct {
	Equipment string   `json:"equipment"`
	Side      int      `json:"side"`
	Kind      SideKind `json:"-"`
}

// WholeUnit returns the key of a single-row piece of equipment.
func WholeUnit(equipment string) ResourceKey {
	return ResourceKey{Equipment: equipment}
}

// SideOf returns the key of side n (1-based) of a multi-sided unit.
func SideOf(equipment string, kind SideKind, n int) ResourceKey {
	return ResourceKey{Equipment: equipment, Side: n, Kind: kind}
}

// String renders the legacy row identifier stored in bookings.equipment_id.
func (k ResourceKey) String() string {
	switch k.Kind {
	case SideStrana:
		return fmt.Sprintf("%s%s%s %d", k.Equipment, sideSeparator, labelStrana, k.Side)
	case SideProstor:
		return fmt.Sprintf("%s%s%s %d", k.Equipment, sideSeparator, labelProstor, k.Side)
	case SidePneumatika:
		return k.Equipment + sideSeparator + labelPneumatika
	default:
		return k.Equipment
	}
}

// ParseResourceKey parses a legacy row identifier such as "EKV-2000 - Strana 2".
// Identifiers without a recognised side suffix are whole-unit keys, so names
// that happen to contain " - " survive the round trip.
func ParseResourceKey(id string) ResourceKey {
	id = strings.TrimSpace(id)
	idx := strings.LastIndex(id, sideSeparator)
	if idx <= 0 {
		return WholeUnit(id)
	}
	base := strings.TrimSpace(id[:idx])
	suffix := strings.TrimSpace(id[idx+len(sideSeparator):])

	if suffix == labelPneumatika {
		return SideOf(base, SidePneumatika, 2)
	}

	label, num, ok := strings.Cut(suffix, " ")
	if !ok {
		return WholeUnit(id)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return WholeUnit(id)
	}
	switch label {
	case labelStrana:
		return SideOf(base, SideStrana, n)
	case labelProstor:
		return SideOf(base, SideProstor, n)
	}
	return WholeUnit(id)
}
