package store

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA busy_timeout = 5000;

-- Items table: one saved page per (owner, url)
CREATE TABLE IF NOT EXISTS items (
    item_id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner TEXT NOT NULL,
    url TEXT NOT NULL,
    title TEXT,
    author TEXT,
    og_image TEXT,
    content TEXT,
    summary TEXT,
    lang TEXT,
    error_note TEXT,

    -- PENDING -> COMPLETED | FAILED, one-way
    status TEXT NOT NULL DEFAULT 'PENDING',

    -- NO_SUMMARY -> GENERATING -> SUMMARIZED; reset on failed generation
    summary_state TEXT NOT NULL DEFAULT 'NO_SUMMARY',

    published_at TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

    UNIQUE(owner, url)
);

CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner);
CREATE INDEX IF NOT EXISTS idx_items_owner_status ON items(owner, status);

-- Tags: set semantics per item
CREATE TABLE IF NOT EXISTS item_tags (
    tag_id INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id INTEGER NOT NULL,
    tag TEXT NOT NULL,
    FOREIGN KEY (item_id) REFERENCES items(item_id) ON DELETE CASCADE,
    UNIQUE(item_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_tags_item ON item_tags(item_id);

-- Batches: bookkeeping for completed bulk imports
CREATE TABLE IF NOT EXISTS batches (
    batch_id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    url_count INTEGER NOT NULL,
    success_count INTEGER NOT NULL DEFAULT 0,
    failed_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_batches_owner ON batches(owner);
`
