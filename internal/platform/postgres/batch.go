package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/langtogether/langtogether-api/internal/store"
)

// maxBindParams is PostgreSQL's limit on parameters in one statement.
const maxBindParams = 65535

// insertRows writes n rows with multi-row INSERT statements of the form
// "<insert> VALUES (...), (...)". Rows are split so that no statement binds
// more than maxParams parameters. row returns the cols values of row i.
// Callers needing atomicity pass a transaction as db.
func insertRows(
	ctx context.Context,
	db store.DBTX,
	insert string,
	cols, n, maxParams int,
	row func(i int) []any,
) error {
	perStatement := maxParams / cols
	if perStatement < 1 {
		return fmt.Errorf("%d columns exceed the parameter limit %d", cols, maxParams)
	}

	for start := 0; start < n; start += perStatement {
		end := min(start+perStatement, n)

		args := make([]any, 0, (end-start)*cols)
		values := make([]string, 0, end-start)
		placeholders := make([]string, cols)
		for i := start; i < end; i++ {
			base := len(args)
			for j := range placeholders {
				placeholders[j] = fmt.Sprintf("$%d", base+j+1)
			}
			values = append(values, "("+strings.Join(placeholders, ", ")+")")
			args = append(args, row(i)...)
		}

		if _, err := db.ExecContext(ctx, insert+" VALUES "+strings.Join(values, ", "), args...); err != nil {
			return err
		}
	}
	return nil
}
