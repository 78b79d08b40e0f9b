package jobs

import (
	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/utils/rfctime"
)

type Logs struct {
	JobName   string          `json:"job_name"`
	PodName   string          `json:"pod_name"`
	Logs      string          `json:"logs"`
	Timestamp rfctime.RFC3339 `json:"timestamp"`
	Status    string          `json:"status"`
}

func ComposeLogs(l domain.JobLogs) Logs {
	return Logs{
		JobName:   l.JobName,
		PodName:   l.PodName,
		Logs:      l.Logs,
		Timestamp: rfctime.RFC3339(l.Timestamp),
		Status:    string(l.Status),
	}
}

type Status struct {
	JobName   string          `json:"job_name"`
	Status    string          `json:"status"`
	Timestamp rfctime.RFC3339 `json:"timestamp"`
}

type Deleted struct {
	Message   string          `json:"message"`
	Timestamp rfctime.RFC3339 `json:"timestamp"`
}

type Health struct {
	KubernetesConnected bool            `json:"kubernetes_connected"`
	Timestamp           rfctime.RFC3339 `json:"timestamp"`
	Error               string          `json:"error,omitempty"`
}
