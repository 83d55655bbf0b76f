package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/xinkaiwang/solvercore/kerror"
)

var configValidate = validator.New()

func validateStruct(name string, obj interface{}) error {
	err := configValidate.Struct(obj)
	if err == nil {
		return nil
	}
	ke := kerror.CreateConfigError("InvalidConfig", "config validation failed").With("config", name)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			ke.With("field", fe.Namespace()).With("rule", fe.Tag())
		}
	}
	ke.CausedBy = err
	return ke
}

// LoadSolverConfigYaml decodes and validates. Unknown fields are rejected, an empty document means all defaults.
func LoadSolverConfigYaml(data []byte) (*SolverConfigJson, error) {
	sjc := &SolverConfigJson{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(sjc); err != nil {
		if errors.Is(err, io.EOF) {
			return sjc, nil
		}
		return nil, kerror.Wrap(err, "MalformedConfig", "failed to parse yaml solver config", false).WithErrorCode(kerror.EC_CONFIG_ERROR)
	}
	if err := sjc.Validate(); err != nil {
		return nil, err
	}
	return sjc, nil
}

// LoadSolverConfigJson: durations are nanoseconds in json, the unit fields are usually more convenient.
func LoadSolverConfigJson(data []byte) (*SolverConfigJson, error) {
	sjc := &SolverConfigJson{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(sjc); err != nil {
		return nil, kerror.Wrap(err, "MalformedConfig", "failed to parse json solver config", false).WithErrorCode(kerror.EC_CONFIG_ERROR)
	}
	if err := sjc.Validate(); err != nil {
		return nil, err
	}
	return sjc, nil
}

// LoadSolverConfigFile picks the decoder from the file extension (.yaml/.yml, otherwise json).
func LoadSolverConfigFile(path string) (*SolverConfigJson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kerror.Wrap(err, "ConfigFileError", "failed to read solver config", false).With("path", path).WithErrorCode(kerror.EC_CONFIG_ERROR)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadSolverConfigYaml(data)
	default:
		return LoadSolverConfigJson(data)
	}
}
