package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Expectation is the outcome a scenario asserts after submitting the form.
type Expectation string

const (
	ExpectError   = Expectation("error")
	ExpectSuccess = Expectation("success")
)

var (
	ErrUnknownExpectation = errors.New("unknown expectation")
	ErrMissingName        = errors.New("scenario has no name")
)

type Scenario struct {
	Name     string      `yaml:"name"`
	Username string      `yaml:"username"`
	Password string      `yaml:"password"`
	Expect   Expectation `yaml:"expect"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

func LoadScenarios(fs afero.Fs, path string) ([]Scenario, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	scenarios, err := ParseScenarios(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references. Any other $ is literal.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}

// ParseScenarios decodes a scenario file. Credentials may reference
// environment variables as ${VAR}.
func ParseScenarios(data []byte) ([]Scenario, error) {
	file := scenarioFile{}
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, err
	}

	for i, s := range file.Scenarios {
		if s.Name == "" {
			return nil, fmt.Errorf("scenario %d: %w", i, ErrMissingName)
		}

		switch s.Expect {
		case ExpectError, ExpectSuccess:
		case "":
			s.Expect = ExpectError
		default:
			return nil, fmt.Errorf("scenario %q: %w %q", s.Name, ErrUnknownExpectation, s.Expect)
		}

		s.Username = expandEnv(s.Username)
		s.Password = expandEnv(s.Password)
		file.Scenarios[i] = s
	}

	return file.Scenarios, nil
}
