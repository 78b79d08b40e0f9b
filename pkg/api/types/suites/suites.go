package suites

import (
	"slices"

	"github.com/kevintatou/sparktest/pkg/api/types/patch"
	apiruns "github.com/kevintatou/sparktest/pkg/api/types/runs"
	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	"github.com/kevintatou/sparktest/pkg/utils/rfctime"
)

type Detail struct {
	Id                string          `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	ExecutionMode     string          `json:"execution_mode"`
	Labels            []string        `json:"labels"`
	TestDefinitionIds []string        `json:"test_definition_ids"`
	CreatedAt         rfctime.RFC3339 `json:"created_at"`
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.Id == o.Id &&
		d.Name == o.Name &&
		pointer.Equal(d.Description, o.Description) &&
		d.ExecutionMode == o.ExecutionMode &&
		slices.Equal(d.Labels, o.Labels) &&
		slices.Equal(d.TestDefinitionIds, o.TestDefinitionIds) &&
		d.CreatedAt.Equal(&o.CreatedAt)
}

func Compose(s domain.Suite) Detail {
	labels := s.Labels
	if labels == nil {
		labels = []string{}
	}
	defs := s.TestDefinitionIds
	if defs == nil {
		defs = []string{}
	}
	return Detail{
		Id:                s.Id,
		Name:              s.Name,
		Description:       s.Description,
		ExecutionMode:     s.ExecutionMode.String(),
		Labels:            labels,
		TestDefinitionIds: defs,
		CreatedAt:         rfctime.RFC3339(s.CreatedAt),
	}
}

// Create is a request body to register a suite, or to replace with PUT.
type Create struct {
	Id                *string  `json:"id"`
	Name              string   `json:"name"`
	Description       *string  `json:"description"`
	ExecutionMode     string   `json:"execution_mode"`
	Labels            []string `json:"labels"`
	TestDefinitionIds []string `json:"test_definition_ids"`
}

type Patch struct {
	Name              patch.Field[string]   `json:"name"`
	Description       patch.Field[string]   `json:"description"`
	ExecutionMode     patch.Field[string]   `json:"execution_mode"`
	Labels            patch.Field[[]string] `json:"labels"`
	TestDefinitionIds patch.Field[[]string] `json:"test_definition_ids"`
}

// RunResult is a response of starting a suite.
type RunResult struct {
	SuiteRunId string           `json:"suite_run_id"`
	Runs       []apiruns.Detail `json:"runs"`
}

func ComposeRunResult(sr domain.SuiteRun) RunResult {
	runs := make([]apiruns.Detail, 0, len(sr.Runs))
	for _, r := range sr.Runs {
		runs = append(runs, apiruns.Compose(r))
	}
	return RunResult{SuiteRunId: sr.Id, Runs: runs}
}
