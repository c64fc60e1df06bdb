// Package querysql compiles ledger tag queries into parameterized SQLite SQL
// for the local dev ledger.
//
// Every compiled query ends with ORDER BY seq ASC, id COLLATE BINARY ASC so
// repeated reads of an unchanged ledger return identical sequences. Values are
// always bound as parameters, never interpolated.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/arwiki/internal/ledger"
)

// TxQuery selects transactions from the local ledger.
type TxQuery struct {
	// Predicates are ANDed; each matches one tag name against a set of values.
	Predicates []ledger.TagPredicate

	// IDs restricts the result to these transaction ids when non-empty.
	IDs []string

	// Limit caps the row count when > 0.
	Limit int
}

// SQLCompiler compiles TxQuery values to SQL.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts q to a SELECT over the transactions table.
// Returns (sql, params, error).
func (c *SQLCompiler) Compile(q TxQuery) (string, []any, error) {
	var where []string
	var params []any

	for i, p := range q.Predicates {
		sql, predParams, err := c.compilePredicate(p)
		if err != nil {
			return "", nil, fmt.Errorf("predicate %d: %w", i, err)
		}
		where = append(where, sql)
		params = append(params, predParams...)
	}

	if len(q.IDs) > 0 {
		where = append(where, "t.id IN ("+placeholders(len(q.IDs))+")")
		for _, id := range q.IDs {
			params = append(params, id)
		}
	}

	var b strings.Builder
	b.WriteString("SELECT t.id, t.owner, t.block FROM transactions t")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY " + stableOrderKey())
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, q.Limit)
	}

	return b.String(), params, nil
}

// compilePredicate compiles one tag predicate to an EXISTS subquery.
func (c *SQLCompiler) compilePredicate(p ledger.TagPredicate) (string, []any, error) {
	if p.Name == "" {
		return "", nil, fmt.Errorf("tag name is required")
	}
	if len(p.Values) == 0 {
		return "", nil, fmt.Errorf("tag %q: at least one value is required", p.Name)
	}

	params := make([]any, 0, len(p.Values)+1)
	params = append(params, p.Name)
	for _, v := range p.Values {
		params = append(params, v)
	}

	var valueSQL string
	if len(p.Values) == 1 {
		valueSQL = "g.value = ?"
	} else {
		valueSQL = "g.value IN (" + placeholders(len(p.Values)) + ")"
	}

	sql := "EXISTS (SELECT 1 FROM tags g WHERE g.tx_id = t.id AND g.name = ? AND " + valueSQL + ")"
	return sql, params, nil
}

// stableOrderKey is appended to every query.
func stableOrderKey() string {
	return "t.seq ASC, t.id COLLATE BINARY ASC"
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
