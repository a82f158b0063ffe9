// File: pkg/storage/gcp/metrics.go
package gcp

import (
	"bucketbridge/pkg/storage"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	monitoringpb "cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"google.golang.org/api/iterator"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	metricTimeWindow = 72 * time.Hour
	totalBytesMetric = "storage.googleapis.com/storage/v2/total_bytes"
)

// ErrMetricsNotFound indicates that the usage metrics could not be found within the queried time range
// This often happens for new buckets that haven't reported metrics yet
var ErrMetricsNotFound = errors.New("usage metrics not found in the monitoring window")

// BucketUsage reports the stored bytes of a bucket, averaged over the monitoring window
func (g *GCPStorage) BucketUsage(ctx context.Context, bucketName string) (int64, error) {
	const op = "BucketUsage"
	g.logger.Debug("Fetching GCP bucket usage metric via Monitoring API", "bucket", bucketName)

	client, err := monitoring.NewMetricClient(ctx, g.monitoringOpts...)
	if err != nil {
		return -1, mapError(op, "monitoring.NewMetricClient", err)
	}
	defer client.Close()

	it := client.ListTimeSeries(ctx, usageRequest(g.projectID, bucketName, time.Now()))

	// Everything is reduced into a single series, so the first response is the only one
	resp, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return -1, metricsNotFound(op, bucketName)
	}
	if err != nil {
		return -1, mapError(op, "MetricClient.ListTimeSeries", err)
	}

	if len(resp.GetPoints()) == 0 {
		return -1, metricsNotFound(op, bucketName)
	}
	return extractUsageValue(resp.GetPoints()[0].GetValue()), nil
}

func usageRequest(projectID, bucketName string, endTime time.Time) *monitoringpb.ListTimeSeriesRequest {
	return &monitoringpb.ListTimeSeriesRequest{
		Name:   fmt.Sprintf("projects/%s", projectID),
		Filter: fmt.Sprintf(`metric.type=%q AND resource.labels.bucket_name=%q`, totalBytesMetric, bucketName),
		Interval: &monitoringpb.TimeInterval{
			StartTime: timestamppb.New(endTime.Add(-metricTimeWindow)),
			EndTime:   timestamppb.New(endTime),
		},
		Aggregation: &monitoringpb.Aggregation{
			AlignmentPeriod:    durationpb.New(metricTimeWindow),
			PerSeriesAligner:   monitoringpb.Aggregation_ALIGN_MEAN,
			CrossSeriesReducer: monitoringpb.Aggregation_REDUCE_SUM,
			GroupByFields:      []string{"resource.labels.bucket_name"},
		},
	}
}

func metricsNotFound(op, bucketName string) error {
	return storage.NewError(op, &Error{
		Operation: "MetricClient.ListTimeSeries",
		Code:      CodeMetricsNotFound,
		Message:   fmt.Sprintf("no %s samples for bucket %q", totalBytesMetric, bucketName),
		Err:       ErrMetricsNotFound,
	})
}

func extractUsageValue(pointValue *monitoringpb.TypedValue) int64 {
	if pointValue == nil {
		return 0
	}

	switch v := pointValue.Value.(type) {
	case *monitoringpb.TypedValue_DoubleValue:
		return int64(math.Round(v.DoubleValue))
	case *monitoringpb.TypedValue_Int64Value:
		return v.Int64Value
	default:
		return 0
	}
}
