package resource

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultConfigYAML []byte

// SelectSpec is either a field list (generic query builder) or the name of a
// registered select function (computed/joined reads that bypass the builder).
type SelectSpec struct {
	Fields []string
	Func   string
}

// UnmarshalYAML accepts a string (function name) or a sequence of fields.
func (s *SelectSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&s.Func)
	case yaml.SequenceNode:
		return value.Decode(&s.Fields)
	default:
		return fmt.Errorf("select must be a field list or a function name")
	}
}

// Resource is the declarative description of one table's API surface:
// allowed operations, field whitelists and hook bindings.
type Resource struct {
	Tablename    string               `yaml:"tablename"`
	Key          string               `yaml:"key"`
	Select       SelectSpec           `yaml:"select"`
	Create       []string             `yaml:"create"`
	Update       []string             `yaml:"update"`
	Delete       bool                 `yaml:"delete"`
	BeforeSelect string               `yaml:"beforeselect"`
	BeforeCreate string               `yaml:"beforecreate"`
	BeforeUpdate string               `yaml:"beforeupdate"`
	BeforeDelete string               `yaml:"beforedelete"`
	AfterCreate  string               `yaml:"aftercreate"`
	Subkeys      map[string]*Resource `yaml:"subkeys"`

	// Bound at load time
	name         string
	table        string
	beforeSelect SelectHook
	beforeCreate CreateHook
	beforeUpdate SelectHook
	beforeDelete SelectHook
	afterCreate  AfterCreateHook
	selectFunc   SelectFunc
	selectable   map[string]bool
}

// Name returns the resource key this config was registered under.
func (r *Resource) Name() string { return r.name }

// Table returns the prefixed table name.
func (r *Resource) Table() string { return r.table }

// configFile is the YAML document shape.
type configFile struct {
	Resources map[string]*Resource `yaml:"resources"`
	Post      map[string]string    `yaml:"post"`
}

// Config is the bound resource configuration: every hook, select function
// and action name has been resolved against the registry.
type Config struct {
	resources map[string]*Resource
	actions   map[string]ActionFunc
}

// LoadDefault loads the embedded config.yaml.
func LoadDefault(tablePrefix string, reg *Registry) (*Config, error) {
	return Load(defaultConfigYAML, tablePrefix, reg)
}

// Load parses a YAML resource configuration and binds every referenced hook
// name against the registry. Unresolvable names fail here, at startup, so a
// misconfigured resource can never serve a single unscoped request.
func Load(data []byte, tablePrefix string, reg *Registry) (*Config, error) {
	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse resource config: %w", err)
	}

	cfg := &Config{
		resources: make(map[string]*Resource, len(file.Resources)),
		actions:   make(map[string]ActionFunc, len(file.Post)),
	}

	for name, res := range file.Resources {
		if err := bindResource(name, res, tablePrefix, reg); err != nil {
			return nil, err
		}
		cfg.resources[name] = res
	}

	for name, funcName := range file.Post {
		action, err := reg.action(funcName)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", name, err)
		}
		cfg.actions[name] = action
	}

	return cfg, nil
}

func bindResource(name string, res *Resource, tablePrefix string, reg *Registry) error {
	if res.Tablename == "" {
		return fmt.Errorf("resource %q: tablename is required", name)
	}
	if res.Key == "" {
		return fmt.Errorf("resource %q: key is required", name)
	}

	res.name = name
	res.table = tablePrefix + res.Tablename

	var err error
	if res.beforeSelect, err = reg.selectHook(res.BeforeSelect); err != nil {
		return fmt.Errorf("resource %q: %w", name, err)
	}
	if res.beforeCreate, err = reg.createHook(res.BeforeCreate); err != nil {
		return fmt.Errorf("resource %q: %w", name, err)
	}
	if res.beforeUpdate, err = reg.selectHook(res.BeforeUpdate); err != nil {
		return fmt.Errorf("resource %q: %w", name, err)
	}
	if res.beforeDelete, err = reg.selectHook(res.BeforeDelete); err != nil {
		return fmt.Errorf("resource %q: %w", name, err)
	}
	if res.afterCreate, err = reg.afterCreateHook(res.AfterCreate); err != nil {
		return fmt.Errorf("resource %q: %w", name, err)
	}

	if res.Select.Func != "" {
		if res.selectFunc, err = reg.selectFunc(res.Select.Func); err != nil {
			return fmt.Errorf("resource %q: %w", name, err)
		}
	}

	res.selectable = make(map[string]bool, len(res.Select.Fields))
	for _, f := range res.Select.Fields {
		res.selectable[f] = true
	}

	for subName, sub := range res.Subkeys {
		if err := bindResource(name+"/"+subName, sub, tablePrefix, reg); err != nil {
			return err
		}
	}

	return nil
}

// Resource looks up a resource config by its key.
func (c *Config) Resource(name string) (*Resource, bool) {
	res, ok := c.resources[name]
	return res, ok
}

// Action looks up a named POST action.
func (c *Config) Action(name string) (ActionFunc, bool) {
	a, ok := c.actions[name]
	return a, ok
}
