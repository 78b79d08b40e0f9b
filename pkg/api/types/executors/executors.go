package executors

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	"github.com/kevintatou/sparktest/pkg/utils/rfctime"
)

// Command is a command line.
//
// In JSON, it is an array of strings, or a string as a single entry.
type Command []string

func (c *Command) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*c = Command{}
		} else {
			*c = Command{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("command should be a string or an array of strings: %w", err)
	}
	*c = Command(many)
	return nil
}

type Detail struct {
	Id                   string          `json:"id"`
	Name                 string          `json:"name"`
	Image                string          `json:"image"`
	DefaultCommand       Command         `json:"default_command"`
	SupportedFileTypes   []string        `json:"supported_file_types"`
	EnvironmentVariables []string        `json:"environment_variables"`
	Description          *string         `json:"description"`
	Icon                 string          `json:"icon"`
	CreatedAt            rfctime.RFC3339 `json:"created_at"`
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.Id == o.Id &&
		d.Name == o.Name &&
		d.Image == o.Image &&
		slices.Equal(d.DefaultCommand, o.DefaultCommand) &&
		slices.Equal(d.SupportedFileTypes, o.SupportedFileTypes) &&
		slices.Equal(d.EnvironmentVariables, o.EnvironmentVariables) &&
		pointer.Equal(d.Description, o.Description) &&
		d.Icon == o.Icon &&
		d.CreatedAt.Equal(&o.CreatedAt)
}

func Compose(e domain.Executor) Detail {
	return Detail{
		Id:                   e.Id,
		Name:                 e.Name,
		Image:                e.Image,
		DefaultCommand:       nonNil(e.DefaultCommand),
		SupportedFileTypes:   nonNil(e.SupportedFileTypes),
		EnvironmentVariables: nonNil(e.EnvironmentVariables),
		Description:          e.Description,
		Icon:                 e.Icon,
		CreatedAt:            rfctime.RFC3339(e.CreatedAt),
	}
}

// Create is a request body to register an executor.
//
// When Id is nil or empty, a new id is assigned.
type Create struct {
	Id                   *string  `json:"id"`
	Name                 string   `json:"name"`
	Image                string   `json:"image"`
	DefaultCommand       Command  `json:"default_command"`
	SupportedFileTypes   []string `json:"supported_file_types"`
	EnvironmentVariables []string `json:"environment_variables"`
	Description          *string  `json:"description"`
	Icon                 string   `json:"icon"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
