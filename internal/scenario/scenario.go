package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/mte/internal/errors"
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Name      string               `yaml:"name"`
	Strict    bool                 `yaml:"strict"`
	Template  *NodeSpec            `yaml:"template"`
	Templates map[string]*NodeSpec `yaml:"templates"`
	Data      yaml.Node            `yaml:"data"`
	Steps     []Step               `yaml:"steps"`

	file string
}

// Step is one mutation.
type Step struct {
	// Op is one of set, add, remove, put, clear, replace.
	Op string `yaml:"op"`

	// Path is a dotted path from the root data to the target.
	Path string `yaml:"path"`

	// Key names the map entry for put and clear.
	Key string `yaml:"key"`

	// Index selects the sequence item for remove.
	Index *int `yaml:"index"`

	// Value is converted to fresh observable data each time it is applied.
	Value yaml.Node `yaml:"value"`

	// Note is printed alongside the step.
	Note string `yaml:"note"`

	line, column int
}

// UnmarshalYAML records the step's position.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	type raw Step
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}
	*s = Step(r)
	s.line, s.column = value.Line, value.Column
	return nil
}

// String describes the step.
func (s Step) String() string {
	switch s.Op {
	case OpPut, OpClear:
		return fmt.Sprintf("%s %s[%s]", s.Op, s.Path, s.Key)
	case OpReplace:
		return s.Op
	default:
		if s.Index != nil {
			return fmt.Sprintf("%s %s[%d]", s.Op, s.Path, *s.Index)
		}
		return fmt.Sprintf("%s %s", s.Op, s.Path)
	}
}

// Step ops.
const (
	OpSet     = "set"
	OpAdd     = "add"
	OpRemove  = "remove"
	OpPut     = "put"
	OpClear   = "clear"
	OpReplace = "replace"
)

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E200").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a scenario. file is used for error
// locations and may be empty.
func Parse(data []byte, file string) (*Scenario, error) {
	s := &Scenario{file: file}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.New("E201").
			WithDetail("Failed to parse " + displayName(file)).
			Wrap(err)
	}
	if s.Name == "" {
		s.Name = displayName(file)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// File returns the path the scenario was loaded from.
func (s *Scenario) File() string { return s.file }

func (s *Scenario) validate() error {
	if s.Template == nil {
		return errors.New("E201").
			WithDetail("A scenario needs a template").
			WithExample("template:\n  tag: p\n  children:\n    - bind: name")
	}
	if err := s.Template.validate(s.file); err != nil {
		return err
	}
	for _, name := range sortedNames(s.Templates) {
		if err := s.Templates[name].validate(s.file); err != nil {
			return err
		}
	}
	for _, step := range s.Steps {
		if err := step.validate(s.file); err != nil {
			return err
		}
	}
	return nil
}

func (s Step) validate(file string) error {
	fail := func(detail string) error {
		return locate(errors.New("E202").WithDetail(detail), file, s.line, s.column).
			WithSuggestion("Use one of set, add, remove, put, clear, replace")
	}
	hasValue := s.Value.Kind != 0

	switch s.Op {
	case OpSet:
		if s.Path == "" || !hasValue {
			return fail("set needs a path and a value")
		}
	case OpAdd:
		if s.Path == "" || !hasValue {
			return fail("add needs a path and a value")
		}
	case OpRemove:
		if s.Path == "" || (s.Index == nil && !hasValue) {
			return fail("remove needs a path and an index or value")
		}
	case OpPut:
		if s.Path == "" || s.Key == "" || !hasValue {
			return fail("put needs a path, a key and a value")
		}
	case OpClear:
		if s.Path == "" || s.Key == "" {
			return fail("clear needs a path and a key")
		}
	case OpReplace:
		if !hasValue {
			return fail("replace needs a value")
		}
	default:
		return fail(fmt.Sprintf("unknown op %q", s.Op))
	}
	return nil
}

func locate(e *errors.Error, file string, line, column int) *errors.Error {
	if file == "" || line == 0 {
		return e
	}
	return e.WithLocation(file, line, column)
}

func displayName(file string) string {
	if file == "" {
		return "scenario"
	}
	return file
}
