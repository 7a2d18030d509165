package model

import "fmt"

// Rect is an axis-aligned rectangle in image pixel coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Mask is an occlusion region on an image card.
// Masks that share a non-empty GroupID are quizzed together.
type Mask struct {
	ID         string `json:"id"`
	Label      string `json:"name"`
	Rect       Rect   `json:"rect"`
	IsQuestion bool   `json:"isQuestion"`
	GroupID    string `json:"groupId,omitempty"`
}

// MaskGroups partitions masks into groups keyed by GroupID and the ungrouped rest.
// Groups keep the order in which their key first appears; masks keep insertion order.
func MaskGroups(masks []Mask) (groups [][]Mask, ungrouped []Mask) {
	index := make(map[string]int)
	for _, m := range masks {
		if m.GroupID == "" {
			ungrouped = append(ungrouped, m)
			continue
		}
		i, ok := index[m.GroupID]
		if !ok {
			i = len(groups)
			index[m.GroupID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], m)
	}
	return groups, ungrouped
}

// LinkMasks assigns groupID to every mask listed in ids. At least two distinct known masks are required.
func LinkMasks(masks []Mask, ids []string, groupID string) ([]Mask, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	if len(want) < 2 {
		return nil, fmt.Errorf("%w: at least two masks are needed to form a group", ErrInvalidCard)
	}
	out := make([]Mask, len(masks))
	found := 0
	for i, m := range masks {
		if want[m.ID] {
			m.GroupID = groupID
			found++
		}
		out[i] = m
	}
	if found != len(want) {
		return nil, fmt.Errorf("%w: unknown mask id in %v", ErrInvalidCard, ids)
	}
	return out, nil
}

// UnlinkGroup clears groupID from every mask of that group.
func UnlinkGroup(masks []Mask, groupID string) []Mask {
	out := make([]Mask, len(masks))
	for i, m := range masks {
		if groupID != "" && m.GroupID == groupID {
			m.GroupID = ""
		}
		out[i] = m
	}
	return out
}
