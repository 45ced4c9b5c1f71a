package domain

import (
	"context"
	"fmt"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// SectionRepository is the editing capability shared by the local store and
// the remote HTTP backend. Unknown ids and boundary moves are no-ops.
type SectionRepository interface {
	List(ctx context.Context) ([]Section, error)
	Add(ctx context.Context, t SectionType) (Section, error)
	Update(ctx context.Context, id string, patch SectionPatch) error
	Remove(ctx context.Context, id string) error
	Move(ctx context.Context, id string, dir Direction) error
}

// SwapAdjacent returns a copy of list with id swapped towards dir, and
// whether anything moved.
func SwapAdjacent(list []Section, id string, dir Direction) ([]Section, bool) {
	i := IndexOf(list, id)
	if i < 0 {
		return list, false
	}
	j := i + 1
	if dir == Up {
		j = i - 1
	}
	if j < 0 || j >= len(list) {
		return list, false
	}
	out := make([]Section, len(list))
	copy(out, list)
	out[i], out[j] = out[j], out[i]
	return out, true
}

// FindSection returns the section with id from list.
func FindSection(list []Section, id string) (Section, bool) {
	if i := IndexOf(list, id); i >= 0 {
		return list[i], true
	}
	return Section{}, false
}
