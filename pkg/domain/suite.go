package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kevintatou/sparktest/pkg/utils/pointer"
)

type ExecutionMode string

const (
	// runs in a suite run are started one by one, in order of the suite.
	Sequential ExecutionMode = "sequential"

	// runs in a suite run are started together.
	Parallel ExecutionMode = "parallel"
)

func (em ExecutionMode) String() string {
	return string(em)
}

// AsExecutionMode parses mode case-insensitively.
func AsExecutionMode(mode string) (ExecutionMode, error) {
	switch m := ExecutionMode(strings.ToLower(mode)); m {
	case Sequential, Parallel:
		return m, nil
	default:
		return "", fmt.Errorf("execution mode must be 'sequential' or 'parallel': %q", mode)
	}
}

type Suite struct {
	Id                string
	Name              string
	Description       *string
	ExecutionMode     ExecutionMode
	Labels            []string
	TestDefinitionIds []string
	CreatedAt         time.Time
}

func (s *Suite) Equal(o *Suite) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	return s.Id == o.Id &&
		s.Name == o.Name &&
		pointer.Equal(s.Description, o.Description) &&
		s.ExecutionMode == o.ExecutionMode &&
		slices.Equal(s.Labels, o.Labels) &&
		slices.Equal(s.TestDefinitionIds, o.TestDefinitionIds) &&
		s.CreatedAt.Equal(o.CreatedAt)
}

// SuiteChange is a set of new values for a Suite.
//
// A nil field means "keep as is".
type SuiteChange struct {
	Name              *string
	Description       *string
	ExecutionMode     *ExecutionMode
	Labels            []string
	TestDefinitionIds []string

	ClearDescription bool
	ReplaceLabels    bool
}

func (c SuiteChange) Apply(s Suite) Suite {
	if c.Name != nil {
		s.Name = *c.Name
	}
	if c.ClearDescription {
		s.Description = nil
	} else if c.Description != nil {
		s.Description = pointer.Ref(*c.Description)
	}
	if c.ExecutionMode != nil {
		s.ExecutionMode = *c.ExecutionMode
	}
	if c.Labels != nil || c.ReplaceLabels {
		s.Labels = slices.Clone(c.Labels)
	}
	if c.TestDefinitionIds != nil {
		s.TestDefinitionIds = slices.Clone(c.TestDefinitionIds)
	}
	return s
}

// SuiteRun is a set of runs started from a suite at once.
type SuiteRun struct {
	Id   string
	Runs []Run
}
