package config

import (
	"fmt"
	"os"
	"strconv"
)

type DynamoConfig struct {
	TableName  string
	TtlMinutes int
}

func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("RUN_LOG_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("RUN_LOG_TABLE_NAME must be set")
	}

	ttl := os.Getenv("RUN_LOG_TTL_MINUTES")
	if ttl == "" {
		return nil, fmt.Errorf("RUN_LOG_TTL_MINUTES must be set")
	}
	ttlMinutes, err := strconv.Atoi(ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run log ttl minutes")
	}

	return &DynamoConfig{
		TableName:  tableName,
		TtlMinutes: ttlMinutes,
	}, nil
}
