package worker

import (
	"github.com/kevintatou/sparktest/pkg/configs/server"
	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/domain/sparktest/k8s/cluster"
	ptr "github.com/kevintatou/sparktest/pkg/utils/pointer"
	kubebatch "k8s.io/api/batch/v1"
	kubecore "k8s.io/api/core/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	LabelApp       = "app"
	LabelComponent = "component"
	LabelRunId     = "sparktest/run-id"

	App       = "sparktest"
	Component = "test-runner"
)

// JobSpec builds k8s Job which executes the run.
//
// The Job has one container named after the Job, and is never retried.
func JobSpec(conf *server.ClusterConfig, run domain.Run) *kubebatch.Job {
	return &kubebatch.Job{
		ObjectMeta: kubeapimeta.ObjectMeta{
			Name:      run.JobName,
			Namespace: conf.Namespace(),
			Labels: map[string]string{
				LabelApp:       App,
				LabelComponent: Component,
				LabelRunId:     run.Id,
			},
		},
		Spec: kubebatch.JobSpec{
			BackoffLimit:            ptr.Ref[int32](0),
			TTLSecondsAfterFinished: ptr.Ref(conf.TTLSecondsAfterFinished()),
			Template: kubecore.PodTemplateSpec{
				ObjectMeta: kubeapimeta.ObjectMeta{
					Labels: map[string]string{
						cluster.LabelJobName: run.JobName,
						LabelApp:             App,
					},
				},
				Spec: kubecore.PodSpec{
					RestartPolicy: kubecore.RestartPolicyNever,
					Containers: []kubecore.Container{
						{
							Name:    run.JobName,
							Image:   run.Image,
							Command: append([]string{}, run.Command...),
						},
					},
				},
			},
		},
	}
}
