package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    project TEXT NOT NULL,
    score INTEGER NOT NULL,
    unused INTEGER NOT NULL,
    outdated INTEGER NOT NULL,
    vulnerable INTEGER NOT NULL,
    duplicated INTEGER NOT NULL,
    missing INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
`
