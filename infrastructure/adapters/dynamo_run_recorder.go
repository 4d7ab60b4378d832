package adapters

import (
	"context"
	"time"

	"content-factory/application/ports/outbound"
	"content-factory/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

type dynamoRunItem struct {
	RunID         string `dynamodbav:"run_id"`
	Prompt        string `dynamodbav:"prompt"`
	JobID         string `dynamodbav:"job_id"`
	VideoStatus   string `dynamodbav:"video_status"`
	Mock          bool   `dynamodbav:"mock"`
	YoutubeStatus string `dynamodbav:"youtube_status"`
	YoutubeID     string `dynamodbav:"youtube_id,omitempty"`
	DurationMs    int64  `dynamodbav:"duration_ms"`
	TTL           int64  `dynamodbav:"ttl"`
}

type dynamoRunRecorder struct {
	logger       outbound.LoggerPort
	dynamoSvc    *dynamodb.DynamoDB
	dynamoConfig *config.DynamoConfig
}

// NewDynamoRunRecorder keeps a TTL-bounded activity log of pipeline runs.
func NewDynamoRunRecorder(logger outbound.LoggerPort, dynamoSvc *dynamodb.DynamoDB, dynamoConfig *config.DynamoConfig) outbound.RunRecorderPort {
	return &dynamoRunRecorder{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
	}
}

func (r *dynamoRunRecorder) Record(ctx context.Context, params outbound.RecordRunParams) error {
	item := dynamoRunItem{
		RunID:       params.RunID,
		Prompt:      params.Prompt,
		JobID:       params.Result.Video.JobID,
		VideoStatus: string(params.Result.Video.Status),
		Mock:        params.Result.Video.Metadata.Mock,
		DurationMs:  params.Result.DurationMs,
		TTL:         time.Now().Add(time.Duration(r.dynamoConfig.TtlMinutes) * time.Minute).Unix(),
	}
	if params.Result.Youtube != nil {
		item.YoutubeStatus = string(params.Result.Youtube.Status)
		item.YoutubeID = params.Result.Youtube.VideoID
	}

	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to marshal run item", map[string]interface{}{
			"run_id": params.RunID,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(r.dynamoConfig.TableName),
	}

	if _, err := r.dynamoSvc.PutItemWithContext(ctx, input); err != nil {
		r.logger.ErrorWithFields(err, "Failed to put run item", map[string]interface{}{
			"run_id": params.RunID,
		})
		return err
	}

	return nil
}
