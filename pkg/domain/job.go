package domain

import "time"

// JobState is the state of a k8s Job, as reported by the API.
type JobState string

const (
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
	JobRunning   JobState = "running"
	JobPending   JobState = "pending"
	JobUnknown   JobState = "unknown"
)

func (s JobState) String() string {
	return string(s)
}

// JobLogs is a snapshot of logs of the first pod of a Job.
type JobLogs struct {
	JobName   string
	PodName   string
	Logs      string
	Timestamp time.Time
	Status    JobState
}

const (
	// logs of a pod which is not running yet.
	PodPendingLogPrefix = "Pod is pending: "

	// logs which can not be read.
	NoLogsAvailable = "No logs available yet"
)
