package samples

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/bucket"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/operation"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/sample"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/table"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

func registerBigQuery(r *Registry, d Deps) {
	// job submits a BigQuery job, waits for it and reports the outcome.
	job := func(submit func(context.Context, ports.BigQuery, sample.Args) (table.Job, error),
		after func(context.Context, ports.BigQuery, table.Job, io.Writer) error,
	) RunFunc {
		return func(ctx context.Context, args sample.Args, out io.Writer) error {
			return with(ctx, d.Clients.BigQuery, func(bq ports.BigQuery) error {
				j, err := submit(ctx, bq, args)
				if err != nil {
					return err
				}
				if err := awaitJob(ctx, d, bq, j, out); err != nil {
					return err
				}
				if after != nil {
					return after(ctx, bq, j, out)
				}
				return nil
			})
		}
	}
	reg := func(name, summary string, run RunFunc, params ...sample.Param) {
		r.Register(sample.Sample{Name: name, Product: ProductBigQuery, Summary: summary, Params: params}, run)
	}

	formatParam := optional("FORMAT", "csv, json or avro", "csv")
	tableParam := param("DATASET.TABLE", "table reference")
	uriParam := param("GCS_URI", "gs://BUCKET/OBJECT")

	reg("query", "Run a standard SQL query and print its rows.",
		job(func(ctx context.Context, bq ports.BigQuery, a sample.Args) (table.Job, error) {
			return bq.Query(ctx, a.String("SQL"))
		}, printRows),
		param("SQL", "standard SQL query"))

	reg("export_table", "Export a table to Cloud Storage.",
		job(func(ctx context.Context, bq ports.BigQuery, a sample.Args) (table.Job, error) {
			src, dst, format, err := transferArgs(a)
			if err != nil {
				return table.Job{}, err
			}
			return bq.Extract(ctx, src, dst, format)
		}, nil),
		tableParam, uriParam, formatParam)

	reg("import_from_storage", "Load a Cloud Storage object into a table.",
		job(func(ctx context.Context, bq ports.BigQuery, a sample.Args) (table.Job, error) {
			dst, src, format, err := transferArgs(a)
			if err != nil {
				return table.Job{}, err
			}
			return bq.Load(ctx, src, dst, format)
		}, nil),
		tableParam, uriParam, formatParam)

	reg("copy_table", "Copy a table within a dataset.",
		job(func(ctx context.Context, bq ports.BigQuery, a sample.Args) (table.Job, error) {
			dataset := a.String("DATASET")
			src := table.Ref{Dataset: dataset, Table: a.String("SOURCE_TABLE")}
			dst := table.Ref{Dataset: dataset, Table: a.String("DESTINATION_TABLE")}
			return bq.Copy(ctx, src, dst)
		}, nil),
		param("DATASET", "dataset ID"),
		param("SOURCE_TABLE", "table to copy"),
		param("DESTINATION_TABLE", "table to create"))
}

// awaitJob polls the job to a terminal state.
func awaitJob(ctx context.Context, d Deps, bq ports.BigQuery, j table.Job, out io.Writer) error {
	_, err := d.Poller.Wait(ctx, j.ID, func(ctx context.Context) (operation.Status, error) {
		return bq.JobStatus(ctx, j)
	})
	if err != nil {
		printf(out, "Error running job: %s", err)
		return err
	}
	printf(out, "Job %s completed", j.ID)
	return nil
}

func transferArgs(a sample.Args) (table.Ref, bucket.Ref, table.Format, error) {
	ref, err := table.ParseRef(a.String("DATASET.TABLE"))
	if err != nil {
		return table.Ref{}, bucket.Ref{}, "", err
	}
	uri, err := bucket.ParseURI(a.String("GCS_URI"))
	if err != nil {
		return table.Ref{}, bucket.Ref{}, "", err
	}
	format, err := table.ParseFormat(a.String("FORMAT"))
	if err != nil {
		return table.Ref{}, bucket.Ref{}, "", err
	}
	return ref, uri, format, nil
}

func printRows(ctx context.Context, bq ports.BigQuery, j table.Job, out io.Writer) error {
	res, err := bq.Results(ctx, j)
	if err != nil {
		return fmt.Errorf("reading results of job %s: %w", j.ID, err)
	}
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			name := fmt.Sprintf("col%d", i)
			if i < len(res.Columns) {
				name = res.Columns[i]
			}
			cells[i] = fmt.Sprintf("%s: %v", name, v)
		}
		printf(out, "%s", strings.Join(cells, ", "))
	}
	printf(out, "Found %d row(s)", len(res.Rows))
	return nil
}
