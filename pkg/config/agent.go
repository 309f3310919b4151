package config

import (
	"fmt"
	"strings"
	"time"
)

var agentConf Agent

type Agent struct {
	BaseUrl    string        `mapstructure:"baseUrl"`
	QueryPath  string        `mapstructure:"queryPath"`
	InputField string        `mapstructure:"inputField"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Qps        float64       `mapstructure:"qps"`
}

func (a Agent) validate() error {
	if strings.TrimSpace(a.BaseUrl) == "" {
		return fmt.Errorf("agent.baseUrl is required")
	}
	if !strings.HasPrefix(a.QueryPath, "/") {
		return fmt.Errorf("agent.queryPath must start with /: %q", a.QueryPath)
	}
	if strings.TrimSpace(a.InputField) == "" {
		return fmt.Errorf("agent.inputField is required")
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("agent.timeout must be positive")
	}
	return nil
}

func GetAgentConf() Agent {
	return agentConf
}
