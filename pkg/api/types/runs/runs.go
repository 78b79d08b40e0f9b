package runs

import (
	"slices"
	"time"

	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	"github.com/kevintatou/sparktest/pkg/utils/rfctime"
)

type Detail struct {
	Id               string           `json:"id"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Command          []string         `json:"command"`
	Status           string           `json:"status"`
	CreatedAt        rfctime.RFC3339  `json:"created_at"`
	StartedAt        *rfctime.RFC3339 `json:"started_at"`
	FinishedAt       *rfctime.RFC3339 `json:"finished_at"`
	Duration         *int             `json:"duration"`
	Logs             []string         `json:"logs"`
	ExitCode         *int             `json:"exit_code"`
	Message          *string          `json:"message"`
	TestDefinitionId *string          `json:"test_definition_id"`
	ExecutorId       *string          `json:"executor_id"`
	SuiteId          *string          `json:"suite_id"`
	SuiteRunId       *string          `json:"suite_run_id"`
	SuitePosition    *int             `json:"suite_position"`
	K8sJobName       string           `json:"k8s_job_name"`
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.Id == o.Id &&
		d.Name == o.Name &&
		d.Image == o.Image &&
		slices.Equal(d.Command, o.Command) &&
		d.Status == o.Status &&
		d.CreatedAt.Equal(&o.CreatedAt) &&
		d.StartedAt.Equal(o.StartedAt) &&
		d.FinishedAt.Equal(o.FinishedAt) &&
		pointer.Equal(d.Duration, o.Duration) &&
		slices.Equal(d.Logs, o.Logs) &&
		pointer.Equal(d.ExitCode, o.ExitCode) &&
		pointer.Equal(d.Message, o.Message) &&
		pointer.Equal(d.TestDefinitionId, o.TestDefinitionId) &&
		pointer.Equal(d.ExecutorId, o.ExecutorId) &&
		pointer.Equal(d.SuiteId, o.SuiteId) &&
		pointer.Equal(d.SuiteRunId, o.SuiteRunId) &&
		pointer.Equal(d.SuitePosition, o.SuitePosition) &&
		d.K8sJobName == o.K8sJobName
}

func Compose(r domain.Run) Detail {
	command := r.Command
	if command == nil {
		command = []string{}
	}
	d := Detail{
		Id:               r.Id,
		Name:             r.Name,
		Image:            r.Image,
		Command:          command,
		Status:           r.Status.String(),
		CreatedAt:        rfctime.RFC3339(r.CreatedAt),
		StartedAt:        timeOf(r.StartedAt),
		FinishedAt:       timeOf(r.FinishedAt),
		Duration:         r.Duration,
		Logs:             r.Logs,
		ExitCode:         r.ExitCode,
		Message:          r.Message,
		TestDefinitionId: r.TestDefinitionId,
		ExecutorId:       r.ExecutorId,
		K8sJobName:       r.JobName,
	}
	if s := r.Suite; s != nil {
		d.SuiteId = s.SuiteId
		d.SuiteRunId = pointer.Ref(s.SuiteRunId)
		d.SuitePosition = pointer.Ref(s.Position)
	}
	return d
}

func timeOf(t *time.Time) *rfctime.RFC3339 {
	if t == nil {
		return nil
	}
	return pointer.Ref(rfctime.RFC3339(*t))
}

// Create is a request body to start a run of a definition.
//
// Name, Image and Commands override the definition, if given.
type Create struct {
	TestDefinitionId string   `json:"test_definition_id"`
	Name             *string  `json:"name"`
	Image            *string  `json:"image"`
	Commands         []string `json:"commands"`
}
