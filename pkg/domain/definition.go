package domain

import (
	"path"
	"slices"
	"strings"
	"time"

	"github.com/kevintatou/sparktest/pkg/utils/pointer"
)

// Definition is a test: an image and commands to be run in it.
type Definition struct {
	Id          string
	Name        string
	Description *string
	Image       string
	Commands    []string
	CreatedAt   time.Time

	// executor which the definition is run with, if any.
	ExecutorId *string

	// where the definition is imported from, if it is synced from git.
	//
	// Source is unique among definitions.
	Source *string

	Labels []string
}

func (d *Definition) Equal(o *Definition) bool {
	if d == nil || o == nil {
		return d == nil && o == nil
	}
	return d.Id == o.Id &&
		d.Name == o.Name &&
		pointer.Equal(d.Description, o.Description) &&
		d.Image == o.Image &&
		slices.Equal(d.Commands, o.Commands) &&
		d.CreatedAt.Equal(o.CreatedAt) &&
		pointer.Equal(d.ExecutorId, o.ExecutorId) &&
		pointer.Equal(d.Source, o.Source) &&
		slices.Equal(d.Labels, o.Labels)
}

// HasLabel tells the definition has any of labels.
//
// When labels is empty, it is true.
func (d *Definition) HasLabel(labels ...string) bool {
	if len(labels) == 0 {
		return true
	}
	for _, l := range labels {
		if slices.Contains(d.Labels, l) {
			return true
		}
	}
	return false
}

// DefinitionChange is a set of new values for the fields of a Definition.
//
// A nil field means "keep as is".
// For nullable fields, Clear* flags take precedence over new values.
type DefinitionChange struct {
	Name        *string
	Description *string
	Image       *string
	Commands    []string
	ExecutorId  *string
	Source      *string
	Labels      []string

	ClearDescription bool
	ClearExecutorId  bool
	ClearSource      bool

	// Commands and Labels are kept when they are nil.
	// Set ReplaceLabels to replace labels with an empty list.
	ReplaceLabels bool
}

// Apply returns a copy of d with the change.
func (c DefinitionChange) Apply(d Definition) Definition {
	if c.Name != nil {
		d.Name = *c.Name
	}
	if c.ClearDescription {
		d.Description = nil
	} else if c.Description != nil {
		d.Description = pointer.Ref(*c.Description)
	}
	if c.Image != nil {
		d.Image = *c.Image
	}
	if c.Commands != nil {
		d.Commands = slices.Clone(c.Commands)
	}
	if c.ClearExecutorId {
		d.ExecutorId = nil
	} else if c.ExecutorId != nil {
		d.ExecutorId = pointer.Ref(*c.ExecutorId)
	}
	if c.ClearSource {
		d.Source = nil
	} else if c.Source != nil {
		d.Source = pointer.Ref(*c.Source)
	}
	if c.Labels != nil || c.ReplaceLabels {
		d.Labels = slices.Clone(c.Labels)
	}
	return d
}

// GitSource builds the source of a definition synced from a git repository.
//
// It looks like "https://github.com/owner/repo/blob/main/tests/a.json".
func GitSource(repository, branch, dir, file string) string {
	repo := strings.TrimSuffix(strings.TrimSuffix(repository, "/"), ".git")
	return repo + "/blob/" + path.Join(branch, dir, file)
}
