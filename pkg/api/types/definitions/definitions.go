package definitions

import (
	"slices"

	"github.com/kevintatou/sparktest/pkg/api/types/patch"
	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/utils/pointer"
	"github.com/kevintatou/sparktest/pkg/utils/rfctime"
)

type Detail struct {
	Id          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Image       string          `json:"image"`
	Commands    []string        `json:"commands"`
	CreatedAt   rfctime.RFC3339 `json:"created_at"`
	ExecutorId  *string         `json:"executor_id"`
	Source      *string         `json:"source"`
	Labels      []string        `json:"labels"`
}

func (d *Detail) Equal(o *Detail) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.Id == o.Id &&
		d.Name == o.Name &&
		pointer.Equal(d.Description, o.Description) &&
		d.Image == o.Image &&
		slices.Equal(d.Commands, o.Commands) &&
		d.CreatedAt.Equal(&o.CreatedAt) &&
		pointer.Equal(d.ExecutorId, o.ExecutorId) &&
		pointer.Equal(d.Source, o.Source) &&
		slices.Equal(d.Labels, o.Labels)
}

func Compose(d domain.Definition) Detail {
	labels := d.Labels
	if labels == nil {
		labels = []string{}
	}
	commands := d.Commands
	if commands == nil {
		commands = []string{}
	}
	return Detail{
		Id:          d.Id,
		Name:        d.Name,
		Description: d.Description,
		Image:       d.Image,
		Commands:    commands,
		CreatedAt:   rfctime.RFC3339(d.CreatedAt),
		ExecutorId:  d.ExecutorId,
		Source:      d.Source,
		Labels:      labels,
	}
}

// Create is a request body to register a definition.
//
// It is also used to replace a definition with PUT. Then, Id is ignored.
type Create struct {
	Id          *string  `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Image       string   `json:"image"`
	Commands    []string `json:"commands"`
	ExecutorId  *string  `json:"executor_id"`
	Source      *string  `json:"source"`
	Labels      []string `json:"labels"`
}

// Patch is a request body to change some fields of a definition.
//
// Name, Image and Commands can not be cleared: null for them is a bad request.
type Patch struct {
	Name        patch.Field[string]   `json:"name"`
	Description patch.Field[string]   `json:"description"`
	Image       patch.Field[string]   `json:"image"`
	Commands    patch.Field[[]string] `json:"commands"`
	ExecutorId  patch.Field[string]   `json:"executor_id"`
	Source      patch.Field[string]   `json:"source"`
	Labels      patch.Field[[]string] `json:"labels"`
}
