package docflow

import (
	"context"

	"github.com/goliatone/go-docflow/internal/approvers"
	"github.com/goliatone/go-docflow/internal/documents"
	"github.com/uptrace/bun"
)

// Models returns every bun model the module persists, in creation order.
// Hosts running their own migration tooling can register these directly.
func Models() []any {
	return []any{
		(*documents.Instance)(nil),
		(*documents.Document)(nil),
		(*documents.Approval)(nil),
		(*documents.Rejection)(nil),
		(*approvers.Assignment)(nil),
	}
}

// CreateSchema creates the module's tables on the supplied database. It is
// meant for embedded deployments and tests; production hosts should prefer
// their own migration pipeline over Models().
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
