package hook

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Load hook config from a file.
//
// If filename is empty, it returns config without hooks.
func Load(filename string) (Config, error) {
	if filename == "" {
		return Config{}, nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	return Unmarshal(content)
}

func Unmarshal(content []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type Config struct {
	Lifecycle WebHook `yaml:"lifecycle-hooks,omitempty"`
}

// WebHook is a set of URLs to be POSTed around an event.
type WebHook struct {
	Before []*url.URL
	After  []*url.URL
}

func (wh *WebHook) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Before []string `yaml:"before"`
		After  []string `yaml:"after"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	before, err := parseURLs(raw.Before)
	if err != nil {
		return fmt.Errorf("before: %w", err)
	}
	after, err := parseURLs(raw.After)
	if err != nil {
		return fmt.Errorf("after: %w", err)
	}

	wh.Before = before
	wh.After = after
	return nil
}

func parseURLs(raw []string) ([]*url.URL, error) {
	urls := make([]*url.URL, len(raw))
	for i, u := range raw {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, err
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return nil, fmt.Errorf("%s: webhook should be http or https", u)
		}
		urls[i] = parsed
	}
	return urls, nil
}
