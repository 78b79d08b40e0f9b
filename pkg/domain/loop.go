package domain

import (
	"errors"
	"fmt"
)

type LoopType string

const (
	// Launch spawns Jobs for pending runs.
	Launch LoopType = "launch"

	// Monitor watches Jobs of running runs, and finishes them.
	Monitor LoopType = "monitor"

	// Sync imports definitions from git repositories.
	Sync LoopType = "sync"
)

func (lt LoopType) String() string {
	return string(lt)
}

func (lt LoopType) IsKnown() bool {
	switch lt {
	case Launch, Monitor, Sync:
		return true
	default:
		return false
	}
}

func AsLoopType(s string) (LoopType, error) {
	l := LoopType(s)
	if l.IsKnown() {
		return l, nil
	}
	return l, fmt.Errorf(`%w: "%s"`, ErrUnknownLoopType, s)
}

var ErrUnknownLoopType = errors.New("unknown loop type")
