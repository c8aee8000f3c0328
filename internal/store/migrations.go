package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id               TEXT PRIMARY KEY,
	received_at      DATETIME NOT NULL,
	subject          TEXT NOT NULL DEFAULT '',
	body             TEXT NOT NULL DEFAULT '',
	sender           TEXT NOT NULL DEFAULT '',
	fingerprint      TEXT NOT NULL UNIQUE,
	todo_flag        INTEGER NOT NULL DEFAULT 0 CHECK(todo_flag IN (0, 1, 2)),
	deadline         TEXT NOT NULL DEFAULT '',
	completion_state TEXT NOT NULL DEFAULT 'open'
		CHECK(completion_state IN ('open', 'excluded', 'completed')),
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_received_at ON messages(received_at);
CREATE INDEX IF NOT EXISTS idx_messages_todo_flag ON messages(todo_flag);

CREATE TABLE IF NOT EXISTS todos (
	id                 TEXT PRIMARY KEY,
	task               TEXT NOT NULL,
	memo               TEXT NOT NULL DEFAULT '',
	deadline           TEXT NOT NULL DEFAULT '',
	source_fingerprint TEXT,
	state              TEXT NOT NULL DEFAULT 'active'
		CHECK(state IN ('active', 'excluded')),
	created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_todos_source_fingerprint
	ON todos(source_fingerprint);
CREATE INDEX IF NOT EXISTS idx_todos_state ON todos(state);

CREATE TABLE IF NOT EXISTS keywords (
	id         TEXT PRIMARY KEY,
	keyword    TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sync_state (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	checkpoint DATETIME
);

INSERT OR IGNORE INTO sync_state (id, checkpoint) VALUES (1, NULL);

CREATE TABLE IF NOT EXISTS training_samples (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	is_todo    INTEGER NOT NULL CHECK(is_todo IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_messages_flag_state
	ON messages(todo_flag, completion_state);

CREATE INDEX IF NOT EXISTS idx_training_samples_created
	ON training_samples(created_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
