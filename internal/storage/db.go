package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"tcpagent/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS emails (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  messageId TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  receivedAt TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  rawRef TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, messageId)
);

CREATE TABLE IF NOT EXISTS contracts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  emailId INTEGER,
  sourceFile TEXT NOT NULL,
  processedAt TEXT NOT NULL,
  vesselName TEXT,
  contractDate TEXT,
  rawJson TEXT NOT NULL,
  fieldsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(emailId) REFERENCES emails(id)
);
CREATE INDEX IF NOT EXISTS idx_contracts_vesselName ON contracts(vesselName);
CREATE INDEX IF NOT EXISTS idx_contracts_contractDate ON contracts(contractDate);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  emailId INTEGER,
  contractId INTEGER,
  inputTokens INTEGER NOT NULL DEFAULT 0,
  outputTokens INTEGER NOT NULL DEFAULT 0,
  costUsd REAL NOT NULL DEFAULT 0,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(emailId) REFERENCES emails(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertEmail(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.EmailRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO emails (provider, messageId, subject, sender, receivedAt, hash, status, rawRef)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, messageId) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  receivedAt=excluded.receivedAt,
  hash=excluded.hash,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.EmailRow{}, err
	}

	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, errors.New("failed to upsert email")
	}
	return *row, nil
}

func (d *DB) GetEmailByProviderMessageID(provider, messageID string) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE provider = ? AND messageId = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) GetEmailByID(id int) (*internal.EmailRow, error) {
	var row internal.EmailRow
	err := d.conn.QueryRow(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE id = ?
`, id).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListEmailsByStatus(status string, limit int) ([]internal.EmailRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, messageId, subject, sender, receivedAt, hash, status, rawRef
FROM emails WHERE status = ? ORDER BY receivedAt ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.EmailRow
	for rows.Next() {
		var row internal.EmailRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateEmailStatus(emailID int, status string) error {
	_, err := d.conn.Exec(`UPDATE emails SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, emailID)
	return err
}

func (d *DB) MustEmailByProviderMessageID(provider, messageID string) (internal.EmailRow, error) {
	row, err := d.GetEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.EmailRow{}, err
	}
	if row == nil {
		return internal.EmailRow{}, fmt.Errorf("email not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}

// ClearEmailContracts drops contracts from a previous processing pass so
// a reprocess does not duplicate rows.
func (d *DB) ClearEmailContracts(emailID int) error {
	_, err := d.conn.Exec(`DELETE FROM contracts WHERE emailId = ?`, emailID)
	return err
}

// InsertContract stores one standardized contract record. The vessel name
// and contract date are lifted into their own columns for querying; the
// full mapping goes into fieldsJson and the pre-standardization mapping
// into rawJson.
func (d *DB) InsertContract(emailID *int, sourceFile, processedAt string, fields, raw map[string]any) (int64, error) {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return 0, err
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return 0, err
	}

	var vesselName, contractDate *string
	if v, ok := fields["vessel_name"].(string); ok && v != "" {
		vesselName = &v
	}
	if v, ok := fields["contract_date"].(string); ok && v != "" {
		contractDate = &v
	}

	result, err := d.conn.Exec(`
INSERT INTO contracts (emailId, sourceFile, processedAt, vesselName, contractDate, rawJson, fieldsJson)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, emailID, sourceFile, processedAt, vesselName, contractDate, string(rawJSON), string(fieldsJSON))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) GetContractByID(id int) (*internal.ContractRow, error) {
	row, err := d.scanContract(d.conn.QueryRow(`
SELECT id, emailId, sourceFile, processedAt, vesselName, contractDate, rawJson, fieldsJson
FROM contracts WHERE id = ?
`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (d *DB) ListContracts() ([]internal.ContractRow, error) {
	return d.queryContracts(`
SELECT id, emailId, sourceFile, processedAt, vesselName, contractDate, rawJson, fieldsJson
FROM contracts ORDER BY id ASC
`)
}

// QueryContractsByVessel does a case-insensitive substring match on the
// vessel name, most recent contract date first.
func (d *DB) QueryContractsByVessel(name string) ([]internal.ContractRow, error) {
	pattern := "%" + strings.ToUpper(strings.TrimSpace(name)) + "%"
	return d.queryContracts(`
SELECT id, emailId, sourceFile, processedAt, vesselName, contractDate, rawJson, fieldsJson
FROM contracts
WHERE vesselName IS NOT NULL AND UPPER(vesselName) LIKE ?
ORDER BY contractDate DESC, id DESC
`, pattern)
}

func (d *DB) queryContracts(query string, args ...any) ([]internal.ContractRow, error) {
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ContractRow
	for rows.Next() {
		var row internal.ContractRow
		if err := rows.Scan(&row.ID, &row.EmailID, &row.SourceFile, &row.ProcessedAt, &row.VesselName, &row.ContractDate, &row.RawJSON, &row.FieldsJSON); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) scanContract(scanner interface{ Scan(...any) error }) (*internal.ContractRow, error) {
	var row internal.ContractRow
	if err := scanner.Scan(&row.ID, &row.EmailID, &row.SourceFile, &row.ProcessedAt, &row.VesselName, &row.ContractDate, &row.RawJSON, &row.FieldsJSON); err != nil {
		return nil, err
	}
	return &row, nil
}

// ContractRecord rebuilds the full field mapping of a stored contract,
// metadata keys included.
func ContractRecord(row internal.ContractRow) (map[string]any, error) {
	record := map[string]any{}
	if err := json.Unmarshal([]byte(row.FieldsJSON), &record); err != nil {
		return nil, err
	}
	record[internal.MetaSourceFile] = row.SourceFile
	record[internal.MetaProcessedAt] = row.ProcessedAt
	return record, nil
}

func (d *DB) InsertRun(traceID string, emailID, contractID *int, usage internal.ExtractionUsage, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, emailId, contractId, inputTokens, outputTokens, costUsd, timingsJson, countsJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, traceID, emailID, contractID, usage.InputTokens, usage.OutputTokens, usage.CostUSD, string(timingsJSON), string(countsJSON))
	return err
}

// TotalUsage sums token and cost accounting across all recorded runs.
func (d *DB) TotalUsage() (internal.ExtractionUsage, int, error) {
	var usage internal.ExtractionUsage
	var runCount int
	err := d.conn.QueryRow(`
SELECT COUNT(*), COALESCE(SUM(inputTokens), 0), COALESCE(SUM(outputTokens), 0), COALESCE(SUM(costUsd), 0)
FROM runs
`).Scan(&runCount, &usage.InputTokens, &usage.OutputTokens, &usage.CostUSD)
	if err != nil {
		return internal.ExtractionUsage{}, 0, err
	}
	return usage, runCount, nil
}

func (d *DB) CountContracts() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM contracts`).Scan(&n)
	return n, err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
