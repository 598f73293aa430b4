// Package bq adapts the BigQuery SDK to ports.BigQuery. Jobs are submitted
// without waiting; callers poll JobStatus.
package bq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/bucket"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/operation"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/table"
	"github.com/jsamuelsen11/gcp-samples/internal/platform/gcp"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// ServiceName names the breaker and health check.
const ServiceName = "bigquery"

var (
	_ ports.BigQuery      = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// Client implements ports.BigQuery.
type Client struct {
	sdk     *bigquery.Client
	breaker *gcp.Breaker
	logger  *slog.Logger
}

// New creates a BigQuery client billing jobs to projectID.
func New(ctx context.Context, projectID string, breaker *gcp.Breaker, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	sdk, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating bigquery client: %w", err)
	}
	return &Client{sdk: sdk, breaker: breaker, logger: logger}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.sdk.Close()
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string { return c.breaker.Name() }

// HealthCheck reports the breaker state.
func (c *Client) HealthCheck(ctx context.Context) error { return c.breaker.HealthCheck(ctx) }

// Query submits a standard SQL query.
func (c *Client) Query(ctx context.Context, sql string) (table.Job, error) {
	return c.submit(ctx, table.JobQuery, func() (*bigquery.Job, error) {
		return c.sdk.Query(sql).Run(ctx)
	})
}

// Extract submits an export of src to dst.
func (c *Client) Extract(ctx context.Context, src table.Ref, dst bucket.Ref, format table.Format) (table.Job, error) {
	ref := bigquery.NewGCSReference(dst.URI())
	ref.DestinationFormat = bigquery.DataFormat(format)
	return c.submit(ctx, table.JobExtract, func() (*bigquery.Job, error) {
		return c.table(src).ExtractorTo(ref).Run(ctx)
	})
}

// Load submits an import of src into dst with schema auto-detection.
func (c *Client) Load(ctx context.Context, src bucket.Ref, dst table.Ref, format table.Format) (table.Job, error) {
	ref := bigquery.NewGCSReference(src.URI())
	ref.SourceFormat = bigquery.DataFormat(format)
	ref.AutoDetect = true
	return c.submit(ctx, table.JobLoad, func() (*bigquery.Job, error) {
		return c.table(dst).LoaderFrom(ref).Run(ctx)
	})
}

// Copy submits a table copy.
func (c *Client) Copy(ctx context.Context, src, dst table.Ref) (table.Job, error) {
	return c.submit(ctx, table.JobCopy, func() (*bigquery.Job, error) {
		return c.table(dst).CopierFrom(c.table(src)).Run(ctx)
	})
}

// JobStatus fetches the job's current state. A DONE job carrying an error
// reports it in ErrorMessage.
func (c *Client) JobStatus(ctx context.Context, job table.Job) (operation.Status, error) {
	st, err := gcp.Call(c.breaker, func() (*bigquery.JobStatus, error) {
		j, err := c.sdk.JobFromIDLocation(ctx, job.ID, job.Location)
		if err != nil {
			return nil, err
		}
		return j.Status(ctx)
	})
	if err != nil {
		return operation.Status{}, fmt.Errorf("fetching status of job %s: %w", job.ID, err)
	}
	return toStatus(job.ID, st.State, st.Err()), nil
}

// Results reads every row of a finished query job.
func (c *Client) Results(ctx context.Context, job table.Job) (*table.Result, error) {
	res, err := gcp.Call(c.breaker, func() (*table.Result, error) {
		j, err := c.sdk.JobFromIDLocation(ctx, job.ID, job.Location)
		if err != nil {
			return nil, err
		}
		it, err := j.Read(ctx)
		if err != nil {
			return nil, err
		}
		return readRows(it)
	})
	if err != nil {
		return nil, fmt.Errorf("reading results of job %s: %w", job.ID, err)
	}
	return res, nil
}

func (c *Client) submit(ctx context.Context, kind table.JobKind, run func() (*bigquery.Job, error)) (table.Job, error) {
	j, err := gcp.Call(c.breaker, run)
	if err != nil {
		return table.Job{}, fmt.Errorf("submitting %s job: %w", kind, err)
	}
	c.logger.DebugContext(ctx, "job submitted",
		slog.String("job_id", j.ID()),
		slog.String("kind", string(kind)),
	)
	return table.Job{ID: j.ID(), Location: j.Location(), Kind: kind}, nil
}

func (c *Client) table(r table.Ref) *bigquery.Table {
	if r.Project != "" {
		return c.sdk.DatasetInProject(r.Project, r.Dataset).Table(r.Table)
	}
	return c.sdk.Dataset(r.Dataset).Table(r.Table)
}

// rowIterator is satisfied by *bigquery.RowIterator.
type rowIterator interface {
	Next(dst any) error
}

func readRows(it *bigquery.RowIterator) (*table.Result, error) {
	res := &table.Result{}
	if err := collect(it, func(row []bigquery.Value) {
		if res.Columns == nil {
			res.Columns = columns(it.Schema)
		}
		res.Rows = append(res.Rows, toAny(row))
	}); err != nil {
		return nil, err
	}
	if res.Columns == nil {
		res.Columns = columns(it.Schema)
	}
	return res, nil
}

func collect(it rowIterator, each func([]bigquery.Value)) error {
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		each(row)
	}
}

func columns(schema bigquery.Schema) []string {
	out := make([]string, len(schema))
	for i, f := range schema {
		out[i] = f.Name
	}
	return out
}

func toAny(row []bigquery.Value) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

func toStatus(id string, state bigquery.State, jobErr error) operation.Status {
	s := operation.Status{Name: id}
	switch state {
	case bigquery.Pending:
		s.State = operation.StatePending
	case bigquery.Running:
		s.State = operation.StateRunning
	case bigquery.Done:
		s.State = operation.StateDone
		s.Progress = 100
	default:
		s.State = operation.StatePending
	}
	if jobErr != nil {
		s.ErrorMessage = jobErr.Error()
	}
	return s
}
