package domain_test

import (
	"testing"

	"github.com/kevintatou/sparktest/pkg/domain"
)

func TestRunStatus_CanTransitTo(t *testing.T) {
	all := []domain.RunStatus{
		domain.Pending, domain.Running, domain.Succeeded, domain.Failed, domain.Cancelled,
	}
	allowed := map[domain.RunStatus][]domain.RunStatus{
		domain.Pending: {domain.Pending, domain.Running, domain.Failed, domain.Cancelled},
		domain.Running: {domain.Running, domain.Succeeded, domain.Failed, domain.Cancelled},
	}

	for _, from := range all {
		for _, to := range all {
			expected := false
			for _, a := range allowed[from] {
				if a == to {
					expected = true
				}
			}
			t.Run(from.String()+" -> "+to.String(), func(t *testing.T) {
				if got := from.CanTransitTo(to); got != expected {
					t.Errorf("expected %v, got %v", expected, got)
				}
			})
		}
	}

	t.Run("terminal statuses are not transitable", func(t *testing.T) {
		for _, s := range all {
			if !s.Terminal() {
				continue
			}
			for _, to := range all {
				if s.CanTransitTo(to) {
					t.Errorf("%s -> %s is allowed", s, to)
				}
			}
		}
	})
}

func TestAsRunStatus(t *testing.T) {
	for _, s := range []string{"pending", "running", "succeeded", "failed", "cancelled"} {
		got, err := domain.AsRunStatus(s)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != s {
			t.Errorf("expected %s, got %s", s, got)
		}
	}

	if _, err := domain.AsRunStatus("completed"); err == nil {
		t.Error("unknown status is accepted")
	}
}

func TestJobName(t *testing.T) {
	got := domain.JobName("0d1e1c5a-7f3b-4c1e-9b0e-3d8f3c2a1b00")
	if want := "sparktest-job-0d1e1c5a7f3b4c1e9b0e3d8f3c2a1b00"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
