package gitsync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/kevintatou/sparktest/pkg/domain"
	"github.com/kevintatou/sparktest/pkg/domain/validation"
)

const (
	DefaultName    = "Unnamed"
	DefaultImage   = "ubuntu:latest"
	DefaultCommand = "echo Hello"
)

// File is the content of a definition file in a repository.
//
// Missing name, image and commands are nil.
type File struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Commands    []string `json:"commands"`
	Labels      []string `json:"labels"`
}

// Definition sanitizes f into a definition.
//
// Missing fields get defaults. Present but empty ones are sanitized as they are.
func (f File) Definition() (domain.Definition, error) {
	rawName := DefaultName
	if f.Name != nil {
		rawName = *f.Name
	}
	rawImage := DefaultImage
	if f.Image != nil {
		rawImage = *f.Image
	}
	rawCommands := f.Commands
	if rawCommands == nil {
		rawCommands = []string{DefaultCommand}
	}

	name, err := validation.Name(rawName)
	if err != nil {
		return domain.Definition{}, err
	}
	description, err := validation.OptionalDescription(f.Description)
	if err != nil {
		return domain.Definition{}, err
	}
	image, err := validation.Image(rawImage)
	if err != nil {
		return domain.Definition{}, err
	}
	commands, err := validation.Commands(rawCommands)
	if err != nil {
		return domain.Definition{}, err
	}
	labels, err := validation.Labels(f.Labels)
	if err != nil {
		return domain.Definition{}, err
	}

	return domain.Definition{
		Name:        name,
		Description: description,
		Image:       image,
		Commands:    commands,
		Labels:      labels,
	}, nil
}

// ReadFile reads a definition file.
func ReadFile(path string) (File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := json.Unmarshal(content, &f); err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Files lists definition files in dir, by name.
//
// A missing dir has no files.
func Files(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if st, err := os.Stat(m); err != nil || !st.Mode().IsRegular() {
			continue
		}
		files = append(files, filepath.Base(m))
	}
	slices.Sort(files)
	return files, nil
}
