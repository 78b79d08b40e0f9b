package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// load server config from a file, and override it with environmental variables.
//
// args:
//   - filepath: filepath refers a config file.
//     If it is empty, only defaults and environmental variables are used.
//
// returns *ServerConfig, error:
//
//	When loading success, returns `(*ServerConfig, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content := []byte{}
	if filepath != "" {
		c, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		content = c
	}
	return Unmarshal(content, os.LookupEnv)
}

func Unmarshal(conf []byte, lookupEnv func(string) (string, bool)) (out *ServerConfig, err error) {
	_out := &ServerConfigMarshall{}
	if err := yaml.Unmarshal(conf, _out); err != nil {
		return nil, err
	}
	if err := _out.Override(lookupEnv); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("misconfiguration: %v", r)
		}
	}()
	out = TrySeal(_out)
	return out, nil
}
