package domain

import (
	"slices"
	"time"

	"github.com/kevintatou/sparktest/pkg/utils/pointer"
)

// Executor is a template of runners.
//
// Definitions may refer an executor, and runs remember the executor of their definition.
type Executor struct {
	Id                   string
	Name                 string
	Image                string
	DefaultCommand       []string
	SupportedFileTypes   []string
	EnvironmentVariables []string
	Description          *string
	Icon                 string
	CreatedAt            time.Time
}

func (e *Executor) Equal(o *Executor) bool {
	if e == nil || o == nil {
		return e == nil && o == nil
	}
	return e.Id == o.Id &&
		e.Name == o.Name &&
		e.Image == o.Image &&
		slices.Equal(e.DefaultCommand, o.DefaultCommand) &&
		slices.Equal(e.SupportedFileTypes, o.SupportedFileTypes) &&
		slices.Equal(e.EnvironmentVariables, o.EnvironmentVariables) &&
		pointer.Equal(e.Description, o.Description) &&
		e.Icon == o.Icon &&
		e.CreatedAt.Equal(o.CreatedAt)
}
