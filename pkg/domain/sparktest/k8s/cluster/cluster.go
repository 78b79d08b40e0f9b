package cluster

import (
	"context"
	"errors"
	"io"

	k8serrors "github.com/kevintatou/sparktest/pkg/domain/errors/k8serrors"
	"github.com/kevintatou/sparktest/pkg/utils/retry"
	kubebatch "k8s.io/api/batch/v1"
	kubecore "k8s.io/api/core/v1"
	kubeerr "k8s.io/apimachinery/pkg/api/errors"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8s "k8s.io/client-go/kubernetes"
)

// LabelJobName is the label which k8s puts on pods of a Job.
const LabelJobName = "job-name"

type LogOptions struct {
	// container name. If empty, the only container of the pod.
	Container string

	// lines from the end of logs. If nil, whole logs.
	TailLines *int64

	// prefix each line with RFC3339 timestamp.
	Timestamps bool
}

// subset of k8s.Clientset
type K8sClient interface {
	GetJob(ctx context.Context, namespace string, name string) (*kubebatch.Job, error)
	CreateJob(ctx context.Context, namespace string, spec *kubebatch.Job) (*kubebatch.Job, error)
	DeleteJob(ctx context.Context, namespace string, name string) error

	// FindPods lists pods matching labelSelector.
	//
	// When limit is 0, it is unlimited.
	FindPods(ctx context.Context, namespace string, labelSelector LabelSelector, limit int64) ([]kubecore.Pod, error)

	Log(ctx context.Context, namespace string, podname string, options LogOptions) (io.ReadCloser, error)
}

// A wrapper for the type k8s.Clientset; because it does not prefer method chain-style invocations of that type.
type k8sClient struct {
	client *k8s.Clientset
}

// type check: k8sClient implements K8sClient
var _ K8sClient = &k8sClient{}

func WrapK8sClient(c *k8s.Clientset) K8sClient {
	return &k8sClient{client: c}
}

func (k *k8sClient) CreateJob(ctx context.Context, namespace string, job *kubebatch.Job) (*kubebatch.Job, error) {
	return k.client.BatchV1().Jobs(namespace).Create(ctx, job, kubeapimeta.CreateOptions{})
}

func (k *k8sClient) GetJob(ctx context.Context, namespace string, name string) (*kubebatch.Job, error) {
	return k.client.BatchV1().Jobs(namespace).Get(ctx, name, kubeapimeta.GetOptions{})
}

func (k *k8sClient) DeleteJob(ctx context.Context, namespace string, name string) error {
	foreground := kubeapimeta.DeletePropagationForeground
	return k.client.BatchV1().Jobs(namespace).Delete(ctx, name, kubeapimeta.DeleteOptions{
		PropagationPolicy: &foreground,
	})
}

func (k *k8sClient) FindPods(ctx context.Context, namespace string, labels LabelSelector, limit int64) ([]kubecore.Pod, error) {
	resp, err := k.client.CoreV1().Pods(namespace).List(ctx, kubeapimeta.ListOptions{
		LabelSelector: labels.QueryString(),
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (k *k8sClient) Log(ctx context.Context, namespace string, podname string, options LogOptions) (io.ReadCloser, error) {
	return k.client.
		CoreV1().
		Pods(namespace).
		GetLogs(podname, &kubecore.PodLogOptions{
			Container:  options.Container,
			TailLines:  options.TailLines,
			Timestamps: options.Timestamps,
		}).
		Stream(ctx)
}

type JobStatus string

const (
	// no pods have been started.
	Pending JobStatus = "Pending"

	// at least one pod has started, and the job has not completed.
	Running JobStatus = "Running"

	// the job is succeeded.
	Succeeded JobStatus = "Succeeded"

	// the job is failed.
	Failed JobStatus = "Failed"
)

// abstraction of k8s job.
type Job interface {
	// the name of the job
	Name() string

	// the namespace where the job is placed in
	Namespace() string

	// how does the job progress, at least
	//
	// This value is just a SNAPSHOT of the job when you get the instance.
	// To refresh, get a new instance of `Job` with `Cluster.GetJob`.
	//
	// # return
	//
	// - Succeeded, Failed : it is succeeded or failed as a job.
	//
	// - Running : (At least) one pod has been started.
	//
	// - Pending : no pods have been started.
	Status() JobStatus

	// Conditions of the job, as k8s reports.
	Conditions() []kubebatch.JobCondition

	// ExitCode returns the exit code of the container of job
	//
	// # Return
	//
	// - exitCode : the exit code of the container.
	//
	// - reason: the reason of the termination.
	//
	// - ok : true if the container has been stopped, false otherwise.
	ExitCode(container string) (uint8, string, bool)

	// Pods of the job, found when the job is got.
	Pods() []Pod

	// Log get log stream of the first pod of the job.
	Log(ctx context.Context, options LogOptions) (io.ReadCloser, error)

	// destroy the job. If the job is running or pending, it is aborted.
	Close() error
}

type job struct {
	job    *kubebatch.Job
	pods   []kubecore.Pod
	client K8sClient
	close  func() error
}

var _ Job = &job{}

func (j *job) Name() string {
	return j.job.Name
}

func (j *job) Namespace() string {
	return j.job.Namespace
}

func (j *job) Status() JobStatus {
	for _, sc := range j.job.Status.Conditions {
		if sc.Status != kubecore.ConditionTrue {
			continue
		}
		switch sc.Type {
		case kubebatch.JobComplete:
			return Succeeded
		case kubebatch.JobFailed:
			return Failed
		}
	}

	for _, p := range j.pods {
		// if at least one pod has been run, the job has been run.
		switch p.Status.Phase {
		case kubecore.PodRunning, kubecore.PodSucceeded, kubecore.PodFailed:
			return Running
		}
	}

	return Pending
}

func (j *job) Conditions() []kubebatch.JobCondition {
	return j.job.Status.Conditions
}

func (j *job) Pods() []Pod {
	pods := make([]Pod, 0, len(j.pods))
	for _, p := range j.pods {
		pods = append(pods, &pod{description: p})
	}
	return pods
}

func (j *job) Log(ctx context.Context, options LogOptions) (io.ReadCloser, error) {
	if len(j.pods) == 0 {
		return nil, errors.New("no pods")
	}
	pod := j.pods[0]
	return j.client.Log(ctx, pod.Namespace, pod.Name, options)
}

func (j *job) ExitCode(container string) (uint8, string, bool) {
	for _, p := range j.pods {
		for _, c := range p.Status.ContainerStatuses {
			if c.Name != container {
				continue
			}
			if term := c.State.Terminated; term != nil {
				return uint8(term.ExitCode), term.Reason, true
			}
			break
		}
	}
	return 0, "", false
}

func (j *job) Close() error {
	if j.close == nil {
		return nil
	}
	return j.close()
}

type PodPhase kubecore.PodPhase

var (
	PodPending   PodPhase = PodPhase(kubecore.PodPending)
	PodRunning   PodPhase = PodPhase(kubecore.PodRunning)
	PodSucceeded PodPhase = PodPhase(kubecore.PodSucceeded)
	PodFailed    PodPhase = PodPhase(kubecore.PodFailed)
	PodUnknown   PodPhase = PodPhase(kubecore.PodUnknown)
)

type Pod interface {
	Name() string
	Status() PodPhase

	// PendingReason is the reason of PodScheduled=False condition.
	//
	// If there are no such conditions, it is "Unknown".
	PendingReason() string
}

type pod struct {
	description kubecore.Pod
}

func (p *pod) Name() string {
	return p.description.Name
}

func (p *pod) Status() PodPhase {
	return PodPhase(p.description.Status.Phase)
}

func (p *pod) PendingReason() string {
	for _, c := range p.description.Status.Conditions {
		if c.Type == kubecore.PodScheduled && c.Status == kubecore.ConditionFalse && c.Reason != "" {
			return c.Reason
		}
	}
	return "Unknown"
}

type Cluster interface {
	Namespace() string

	// Create new k8s job
	//
	// Args
	//
	// - context.Context
	//
	// - backoff retry.Backoff: backoff policy to wait for Job satisfy all requirements.
	//
	// - *Job: job specification
	//
	// - requirements ...Requirement[Job]: requirements for the Job.
	// If not given, JobHaveBeenCreated is used as default.
	//
	// Return
	//
	// - retry.Promise[Job]
	//
	// The Promise may have Error below:
	//
	// - k8serrors.ErrConflict: Job is already created.
	//
	// - k8serrors.ErrMissing: Job is missing after created until meets requirements.
	//
	// - other errors come from Requirements and context.Context
	NewJob(context.Context, retry.Backoff, *kubebatch.Job, ...Requirement[*kubebatch.Job]) retry.Promise[Job]

	// Get existing k8s job
	//
	// The Promise may have Error below:
	//
	// - k8serrors.ErrMissing: Job is not found.
	//
	// - other errors come from Requirements and context.Context
	GetJob(context.Context, retry.Backoff, string, ...Requirement[*kubebatch.Job]) retry.Promise[Job]

	// Delete the job and its pods, in foreground.
	//
	// Return
	//
	// - error: k8serrors.ErrMissing when the job is not found.
	DeleteJob(ctx context.Context, name string) error

	// FindPods lists pods matching selector.
	FindPods(ctx context.Context, selector LabelSelector) ([]Pod, error)

	// Log returns log stream of the pod.
	Log(ctx context.Context, podname string, options LogOptions) (io.ReadCloser, error)

	// Ping checks that the cluster is reachable, by listing at most one pod.
	Ping(ctx context.Context) error
}

type k8sCluster struct {
	client    K8sClient
	namespace string
}

// Requirement is a function that checks if k8s resource satisfies the requirement.
//
// # Return
//
// - error: When the value satisfies the requirement, return nil.
// If it is waiting to satisfy the requirement, return `retry.ErrRetry`.
// Otherwise, return error.
type Requirement[T any] func(value T) error

func satisfyAll[T any](value T, req []Requirement[T]) error {
	for _, r := range req {
		if err := r(value); err != nil {
			return err
		}
	}
	return nil
}

// type check: k8scluster implements Cluster
var _ Cluster = &k8sCluster{}

// Attach kubernetes cluster.
//
// args:
//   - client: k8s clientset
//   - namespace: k8s namespace. If empty string is passed, it uses `"default"`.
func AttachCluster(client K8sClient, namespace string) Cluster {
	if namespace == "" {
		namespace = "default"
	}
	return &k8sCluster{client: client, namespace: namespace}
}

func (c *k8sCluster) Namespace() string {
	return c.namespace
}

var JobHaveBeenCreated Requirement[*kubebatch.Job] = func(value *kubebatch.Job) error {
	return nil
}

func (c *k8sCluster) NewJob(
	ctx context.Context, p retry.Backoff, j *kubebatch.Job,
	requirements ...Requirement[*kubebatch.Job],
) retry.Promise[Job] {
	if len(requirements) == 0 {
		requirements = []Requirement[*kubebatch.Job]{JobHaveBeenCreated}
	}

	select {
	case <-ctx.Done():
		return retry.Failed[Job](ctx.Err())
	default:
	}
	_job, err := c.client.CreateJob(ctx, c.namespace, j)
	if err != nil {
		if kubeerr.IsAlreadyExists(err) {
			return retry.Failed[Job](k8serrors.NewConflictCausedBy("", err))
		}
		return retry.Failed[Job](err)
	}
	_close := func() error {
		return c.client.DeleteJob(
			context.Background(), c.namespace, _job.ObjectMeta.Name,
		)
	}

	if err := satisfyAll(_job, requirements); err == nil {
		pods, err := c.client.FindPods(
			ctx, c.namespace, LabelSelector{LabelJobName: _job.ObjectMeta.Name}, 0,
		)
		if err != nil {
			pods = []kubecore.Pod{}
		}
		return retry.Ok[Job](&job{job: _job, pods: pods, client: c.client, close: _close})
	} else if !errors.Is(err, retry.ErrRetry) {
		return retry.Failed[Job](err)
	}

	return c.GetJob(ctx, p, _job.ObjectMeta.Name, requirements...)
}

func (c *k8sCluster) GetJob(
	ctx context.Context, p retry.Backoff, name string,
	requirements ...Requirement[*kubebatch.Job],
) retry.Promise[Job] {
	if len(requirements) == 0 {
		requirements = []Requirement[*kubebatch.Job]{JobHaveBeenCreated}
	}
	_close := func() error {
		return c.client.DeleteJob(context.Background(), c.namespace, name)
	}

	return retry.Go(ctx, p, func() (Job, error) {
		_job, err := c.client.GetJob(ctx, c.namespace, name)
		if err != nil {
			if kubeerr.IsNotFound(err) {
				return nil, k8serrors.NewMissingCausedBy("", err)
			}
			return nil, err
		}
		ret := &job{job: _job, close: _close, client: c.client}

		if err := satisfyAll(_job, requirements); err != nil {
			return ret, err
		}

		pods, err := c.client.FindPods(
			ctx, c.namespace, LabelSelector{LabelJobName: name}, 0,
		)
		if err != nil {
			return nil, err
		}
		ret.pods = pods
		return ret, nil
	})
}

func (c *k8sCluster) DeleteJob(ctx context.Context, name string) error {
	err := c.client.DeleteJob(ctx, c.namespace, name)
	if kubeerr.IsNotFound(err) {
		return k8serrors.NewMissingCausedBy("", err)
	}
	return err
}

func (c *k8sCluster) FindPods(ctx context.Context, selector LabelSelector) ([]Pod, error) {
	pods, err := c.client.FindPods(ctx, c.namespace, selector, 0)
	if err != nil {
		return nil, err
	}
	ret := make([]Pod, 0, len(pods))
	for _, p := range pods {
		ret = append(ret, &pod{description: p})
	}
	return ret, nil
}

func (c *k8sCluster) Log(ctx context.Context, podname string, options LogOptions) (io.ReadCloser, error) {
	return c.client.Log(ctx, c.namespace, podname, options)
}

func (c *k8sCluster) Ping(ctx context.Context) error {
	_, err := c.client.FindPods(ctx, c.namespace, LabelSelector{}, 1)
	return err
}

// Unreachable is a Cluster which can not be connected.
//
// All operations fail with cause.
func Unreachable(namespace string, cause error) Cluster {
	if namespace == "" {
		namespace = "default"
	}
	return &unreachable{namespace: namespace, cause: cause}
}

type unreachable struct {
	namespace string
	cause     error
}

func (u *unreachable) Namespace() string {
	return u.namespace
}

func (u *unreachable) NewJob(context.Context, retry.Backoff, *kubebatch.Job, ...Requirement[*kubebatch.Job]) retry.Promise[Job] {
	return retry.Failed[Job](u.cause)
}

func (u *unreachable) GetJob(context.Context, retry.Backoff, string, ...Requirement[*kubebatch.Job]) retry.Promise[Job] {
	return retry.Failed[Job](u.cause)
}

func (u *unreachable) DeleteJob(context.Context, string) error {
	return u.cause
}

func (u *unreachable) FindPods(context.Context, LabelSelector) ([]Pod, error) {
	return nil, u.cause
}

func (u *unreachable) Log(context.Context, string, LogOptions) (io.ReadCloser, error) {
	return nil, u.cause
}

func (u *unreachable) Ping(context.Context) error {
	return u.cause
}
