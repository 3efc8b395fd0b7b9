package bq

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// InsertRecords inserts a batch of rows into the destination table.
func InsertRecords(ctx context.Context, dest Dest, rows []*RecordRow) error {
	client, err := bigquery.NewClient(ctx, dest.Project)
	if err != nil {
		return fmt.Errorf("InsertRecords: bigquery client: %w", err)
	}
	defer client.Close()

	return InsertRecordsWithClient(ctx, client, dest, rows)
}

// InsertRecordsWithClient inserts a batch of rows using the provided
// BigQuery client.
func InsertRecordsWithClient(ctx context.Context, client *bigquery.Client, dest Dest, rows []*RecordRow) error {
	if len(rows) == 0 {
		return nil
	}

	table := client.DatasetInProject(dest.Project, dest.Dataset).Table(dest.Table)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertRecords: inserting rows: %w", err)
	}
	return nil
}

// QueryRecordsByDateRange returns normalized records whose statement
// date falls inside [startDate, endDate].
func QueryRecordsByDateRange(ctx context.Context, dest Dest, startDate, endDate time.Time) ([]*RecordRow, error) {
	client, err := bigquery.NewClient(ctx, dest.Project)
	if err != nil {
		return nil, fmt.Errorf("QueryRecordsByDateRange: bigquery client: %w", err)
	}
	defer client.Close()

	return QueryRecordsByDateRangeWithClient(ctx, client, dest, startDate, endDate)
}

// QueryRecordsByDateRangeWithClient is QueryRecordsByDateRange with a
// caller-owned client.
func QueryRecordsByDateRangeWithClient(ctx context.Context, client *bigquery.Client, dest Dest, startDate, endDate time.Time) ([]*RecordRow, error) {
	sql, params := recordsByDateRangeQuery(dest, startDate, endDate)
	q := client.Query(sql)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryRecordsByDateRange: running query: %w", err)
	}

	var rows []*RecordRow
	for {
		var row RecordRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryRecordsByDateRange: reading row: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

// recordsByDateRangeQuery builds the parameterized SELECT the range
// query runs.
func recordsByDateRangeQuery(dest Dest, startDate, endDate time.Time) (string, []bigquery.QueryParameter) {
	sql := fmt.Sprintf(`
		SELECT
			record_id, run_id, source_file,
			date, amount,
			payer, inn, purpose, receiver,
			created_ts
		FROM %s.%s
		WHERE date IS NOT NULL
		  AND date BETWEEN @start_date AND @end_date
		ORDER BY date, created_ts
	`, dest.Dataset, dest.Table)

	params := []bigquery.QueryParameter{
		{Name: "start_date", Value: startDate.Format("2006-01-02")},
		{Name: "end_date", Value: endDate.Format("2006-01-02")},
	}
	return sql, params
}

// Reader answers record queries against one destination table. It
// satisfies the read interface the API handlers consume.
type Reader struct {
	dest Dest
}

// NewReader creates a Reader for the destination table.
func NewReader(dest Dest) *Reader {
	return &Reader{dest: dest}
}

// QueryByDateRange returns records with a statement date inside
// [startDate, endDate].
func (r *Reader) QueryByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*RecordRow, error) {
	return QueryRecordsByDateRange(ctx, r.dest, startDate, endDate)
}
