package config

import "os"

type PipelineConfig struct {
	MockPipeline    bool
	ForceLiveUpload bool
}

func GetPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		MockPipeline:    boolFromEnv("PIPELINE_MOCK_MODE"),
		ForceLiveUpload: boolFromEnv("PIPELINE_FORCE_LIVE_UPLOAD"),
	}
}

func boolFromEnv(name string) bool {
	switch os.Getenv(name) {
	case "1", "true", "TRUE", "True", "yes":
		return true
	default:
		return false
	}
}
