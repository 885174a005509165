// Package simulator runs scripted scenarios against an in-process realm, a
// rule-driven host and a bridge group, and reports what crossed the bridge.
package simulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/bnema/webbridge/internal/infrastructure/host"
	"github.com/spf13/viper"
)

// Scenario is one simulation, usually read from TOML.
type Scenario struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`

	// HostTimeout overrides bridge.host_timeout when set.
	HostTimeout time.Duration `mapstructure:"host_timeout"`
	// Settle keeps the loop running after the last step so delayed answers
	// and timeouts can land.
	Settle time.Duration `mapstructure:"settle"`

	EchoHandlers []string       `mapstructure:"echo_handlers"`
	Rules        []RuleSpec     `mapstructure:"rules"`
	Listeners    []ListenerSpec `mapstructure:"listeners"`
	Steps        []Step         `mapstructure:"steps"`
}

// RuleSpec is a host.Rule in file form. Value is raw JSON.
type RuleSpec struct {
	Method  string        `mapstructure:"method"`
	Handler string        `mapstructure:"handler"`
	Mode    string        `mapstructure:"mode"`
	Value   string        `mapstructure:"value"`
	Code    string        `mapstructure:"code"`
	Message string        `mapstructure:"message"`
	Delay   time.Duration `mapstructure:"delay"`
}

// ListenerSpec registers a web message listener before the first step.
type ListenerSpec struct {
	Name    string   `mapstructure:"name"`
	Origins []string `mapstructure:"origins"`
}

// Step is one action. Exactly one action field must be set.
type Step struct {
	// Script runs in World (the page world by default).
	Script string `mapstructure:"script"`
	World  string `mapstructure:"world"`

	// Evaluate runs through EvaluateWithResult and reports its value.
	Evaluate string `mapstructure:"evaluate"`

	// PostMessage posts to the page window. With Channel, a new channel's
	// second port is transferred and its first port started.
	PostMessage  string `mapstructure:"post_message"`
	TargetOrigin string `mapstructure:"target_origin"`
	Channel      bool   `mapstructure:"channel"`

	// PortMessage posts through the first port of the last channel.
	PortMessage string `mapstructure:"port_message"`

	// Reply answers a listener by name.
	Reply   string `mapstructure:"reply"`
	Message string `mapstructure:"message"`

	Navigate   string   `mapstructure:"navigate"`
	Popup      string   `mapstructure:"popup"`
	Permission []string `mapstructure:"permission"`
	Alert      string   `mapstructure:"alert"`
	ClientCert string   `mapstructure:"client_cert"`
}

func (s Step) kind() string {
	var kinds []string
	add := func(set bool, name string) {
		if set {
			kinds = append(kinds, name)
		}
	}
	add(s.Script != "", "script")
	add(s.Evaluate != "", "evaluate")
	add(s.PostMessage != "", "post_message")
	add(s.PortMessage != "", "port_message")
	add(s.Reply != "", "reply")
	add(s.Navigate != "", "navigate")
	add(s.Popup != "", "popup")
	add(len(s.Permission) > 0, "permission")
	add(s.Alert != "", "alert")
	add(s.ClientCert != "", "client_cert")
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := v.Unmarshal(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks the scenario before anything runs.
func (sc *Scenario) Validate() error {
	var problems []string
	if sc.URL == "" {
		problems = append(problems, "url is required")
	}
	if sc.HostTimeout < 0 || sc.Settle < 0 {
		problems = append(problems, "durations must be non-negative")
	}
	for i, r := range sc.Rules {
		if _, err := r.rule(); err != nil {
			problems = append(problems, fmt.Sprintf("rules[%d]: %v", i, err))
		}
	}
	for i, l := range sc.Listeners {
		if strings.TrimSpace(l.Name) == "" {
			problems = append(problems, fmt.Sprintf("listeners[%d]: name is required", i))
		}
	}
	for i, s := range sc.Steps {
		if s.kind() == "" {
			problems = append(problems, fmt.Sprintf("steps[%d]: exactly one action is required", i))
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// HostRules converts the rule specs.
func (sc *Scenario) HostRules() []host.Rule {
	rules := make([]host.Rule, 0, len(sc.Rules))
	for _, r := range sc.Rules {
		rule, err := r.rule()
		if err != nil {
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

func (r RuleSpec) rule() (host.Rule, error) {
	if r.Method == "" {
		return host.Rule{}, errors.New("method is required")
	}
	mode := host.Mode(strings.ToLower(r.Mode))
	switch mode {
	case "", host.ModeValue, host.ModeNotImplemented, host.ModeError, host.ModeSilent:
	default:
		return host.Rule{}, fmt.Errorf("unknown mode %q", r.Mode)
	}
	value := json.RawMessage(r.Value)
	if mode == "" || mode == host.ModeValue {
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		if !json.Valid(value) {
			return host.Rule{}, fmt.Errorf("value %q is not JSON", r.Value)
		}
	}
	return host.Rule{
		Method:  entity.HostMethod(r.Method),
		Handler: r.Handler,
		Mode:    mode,
		Value:   value,
		Code:    r.Code,
		Message: r.Message,
		Delay:   r.Delay,
	}, nil
}
