package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type VeoConfig struct {
	ApiUrl       string
	ApiKey       string
	Model        string
	Project      string
	Region       string
	PollInterval time.Duration
	PollBudget   time.Duration
}

// GetVeoConfig fails when any required generation credential is absent; the
// caller falls back to the mock provider in that case.
func GetVeoConfig() (*VeoConfig, error) {
	apiUrl := os.Getenv("VEO_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("VEO_API_URL must be set")
	}
	apiKey := os.Getenv("VEO_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("VEO_API_KEY must be set")
	}
	model := os.Getenv("VEO_MODEL")
	if model == "" {
		return nil, fmt.Errorf("VEO_MODEL must be set")
	}
	project := os.Getenv("VEO_PROJECT")
	if project == "" {
		return nil, fmt.Errorf("VEO_PROJECT must be set")
	}
	region := os.Getenv("VEO_REGION")
	if region == "" {
		return nil, fmt.Errorf("VEO_REGION must be set")
	}

	pollInterval, err := secondsFromEnv("VEO_POLL_INTERVAL_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	pollBudget, err := secondsFromEnv("VEO_POLL_BUDGET_SECONDS", 300)
	if err != nil {
		return nil, err
	}

	return &VeoConfig{
		ApiUrl:       apiUrl,
		ApiKey:       apiKey,
		Model:        model,
		Project:      project,
		Region:       region,
		PollInterval: pollInterval,
		PollBudget:   pollBudget,
	}, nil
}

func secondsFromEnv(name string, fallback int) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return time.Duration(fallback) * time.Second, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return 0, fmt.Errorf("failed to parse %s", name)
	}
	return time.Duration(val) * time.Second, nil
}
