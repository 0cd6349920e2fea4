// Package journal persists every risk decision to SQLite so past verdicts
// can be audited after the fact. IDs are ULIDs, so a scan ordered by id is
// a scan ordered by time.
package journal

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tradeops/riskgate/pkg/id"
	"github.com/tradeops/riskgate/pkg/types"
)

const selectColumns = `id, created_at, symbol, side, amount, price, approved, risk_score,
	recommendation, reasoning, suggested_amount, stop_loss, take_profit, checks_json`

// Entry is one recorded decision.
type Entry struct {
	ID             string                `json:"id"`
	CreatedAt      time.Time             `json:"created_at"`
	Symbol         string                `json:"symbol"`
	Side           types.Side            `json:"side"`
	Amount         float64               `json:"amount"`
	Price          float64               `json:"price"`
	Approved       bool                  `json:"approved"`
	RiskScore      int                   `json:"risk_score"`
	Recommendation types.Recommendation  `json:"recommendation"`
	Reasoning      string                `json:"reasoning"`
	Adjustments    types.RiskAdjustments `json:"adjustments"`
	Checks         []types.CheckEntry    `json:"checks"`
}

// SQLite is a decision journal on a single database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal at path and ensures the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Record stores one decision and returns its id.
func (j *SQLite) Record(input types.RiskCheckInput, result *types.RiskCheckResult) (string, error) {
	checksJSON, err := json.Marshal(result.Checks)
	if err != nil {
		return "", err
	}

	var adj types.RiskAdjustments
	if result.Adjustments != nil {
		adj = *result.Adjustments
	}

	createdAt := result.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	entryID := id.New()
	_, err = j.db.Exec(`
		INSERT INTO risk_checks
		(`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entryID, createdAt, input.Symbol, string(input.Side), input.Amount, input.Price,
		result.Approved, result.RiskScore, string(result.Recommendation), result.Reasoning,
		adj.SuggestedAmount, adj.StopLoss, adj.TakeProfit, string(checksJSON),
	)
	if err != nil {
		return "", err
	}
	return entryID, nil
}

// Recent returns the latest decisions, newest first.
func (j *SQLite) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT `+selectColumns+` FROM risk_checks ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// BySymbol returns the latest decisions for one symbol, newest first.
func (j *SQLite) BySymbol(symbol string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT `+selectColumns+` FROM risk_checks WHERE symbol = ? ORDER BY id DESC LIMIT ?`,
		symbol, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			side       string
			rec        string
			checksJSON string
		)
		if err := rows.Scan(
			&e.ID, &e.CreatedAt, &e.Symbol, &side, &e.Amount, &e.Price,
			&e.Approved, &e.RiskScore, &rec, &e.Reasoning,
			&e.Adjustments.SuggestedAmount, &e.Adjustments.StopLoss,
			&e.Adjustments.TakeProfit, &checksJSON,
		); err != nil {
			return nil, err
		}
		e.Side = types.Side(side)
		e.Recommendation = types.Recommendation(rec)
		if err := json.Unmarshal([]byte(checksJSON), &e.Checks); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
