package journal

const schema = `
CREATE TABLE IF NOT EXISTS risk_checks (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	amount REAL NOT NULL,
	price REAL NOT NULL,
	approved INTEGER NOT NULL,
	risk_score INTEGER NOT NULL,
	recommendation TEXT NOT NULL,
	reasoning TEXT NOT NULL,
	suggested_amount REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	checks_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_risk_checks_symbol ON risk_checks(symbol);
CREATE INDEX IF NOT EXISTS idx_risk_checks_created ON risk_checks(created_at);
`
