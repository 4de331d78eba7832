package repository

import "github.com/vuongle/taxmate/pkg/database"

// Migrations is the full schema history, applied in order at startup.
var Migrations = []database.Migration{
	{
		Version: 1,
		Name:    "create_accounts",
		SQL: `
			CREATE TABLE accounts (
				id TEXT PRIMARY KEY,
				phone_number TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'CLIENT',
				is_paid INTEGER NOT NULL DEFAULT 0,
				profile_name TEXT NOT NULL DEFAULT '',
				profile_tax_id TEXT NOT NULL DEFAULT '',
				profile_address TEXT NOT NULL DEFAULT '',
				profile_industry TEXT NOT NULL DEFAULT '',
				profile_industry_code TEXT NOT NULL DEFAULT '',
				profile_owner_name TEXT NOT NULL DEFAULT '',
				has_profile INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 2,
		Name:    "create_sessions",
		SQL: `
			CREATE TABLE sessions (
				token TEXT PRIMARY KEY,
				account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				expires_at DATETIME NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_sessions_account ON sessions(account_id);
		`,
	},
	{
		Version: 3,
		Name:    "create_transactions",
		SQL: `
			CREATE TABLE transactions (
				id TEXT PRIMARY KEY,
				account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				date DATETIME NOT NULL,
				amount INTEGER NOT NULL CHECK (amount >= 0),
				description TEXT NOT NULL DEFAULT '',
				type TEXT NOT NULL CHECK (type IN ('INCOME', 'EXPENSE')),
				category TEXT NOT NULL DEFAULT '',
				risk_level TEXT NOT NULL DEFAULT 'SAFE',
				risk_note TEXT NOT NULL DEFAULT '',
				source TEXT NOT NULL DEFAULT 'MANUAL',
				is_verified INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_transactions_account_date ON transactions(account_id, date);
		`,
	},
	{
		Version: 4,
		Name:    "create_chat_messages",
		SQL: `
			CREATE TABLE chat_messages (
				id TEXT PRIMARY KEY,
				account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				role TEXT NOT NULL CHECK (role IN ('user', 'model')),
				text TEXT NOT NULL,
				image_url TEXT NOT NULL DEFAULT '',
				pending_data TEXT,
				action_required INTEGER NOT NULL DEFAULT 0,
				timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_chat_messages_account ON chat_messages(account_id, timestamp);
		`,
	},
	{
		Version: 5,
		Name:    "create_p2p_messages",
		SQL: `
			CREATE TABLE p2p_messages (
				id TEXT PRIMARY KEY,
				account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				sender_id TEXT NOT NULL,
				text TEXT NOT NULL,
				read INTEGER NOT NULL DEFAULT 0,
				timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_p2p_messages_account ON p2p_messages(account_id, timestamp);
		`,
	},
	{
		Version: 6,
		Name:    "create_bookings",
		SQL: `
			CREATE TABLE bookings (
				account_id TEXT PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
				accountant_id TEXT NOT NULL,
				step TEXT NOT NULL DEFAULT 'IDLE',
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}
