package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sigreer/partid/internal/partid"
)

// Snapshot is a recorded IdentitySet of one device
type Snapshot struct {
	ID            string              `json:"id"`
	DevicePath    string              `json:"device_path"`
	CanonicalPath string              `json:"canonical_path"`
	RecordedAt    time.Time           `json:"recorded_at"`
	Identifiers   *partid.IdentitySet `json:"identifiers"`
}

// RecordSnapshot stores the identifiers discovered for a device
func (d *DB) RecordSnapshot(devicePath, canonicalPath string, set *partid.IdentitySet) (*Snapshot, error) {
	snap := &Snapshot{
		ID:            uuid.New().String(),
		DevicePath:    devicePath,
		CanonicalPath: canonicalPath,
		RecordedAt:    time.Now(),
		Identifiers:   set,
	}
	if snap.Identifiers == nil {
		snap.Identifiers = partid.NewIdentitySet()
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO snapshots (id, device_path, canonical_path, recorded_at)
		VALUES (?, ?, ?, ?)
	`, snap.ID, snap.DevicePath, snap.CanonicalPath, snap.RecordedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}

	for _, id := range snap.Identifiers.Identities() {
		_, err = tx.Exec(`
			INSERT INTO snapshot_identifiers (snapshot_id, source, value)
			VALUES (?, ?, ?)
		`, snap.ID, id.Source.Key(), id.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to record identifier %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}
	return snap, nil
}

// History returns snapshots of a device, newest first.
// The path is matched against both the recorded and the canonical path.
func (d *DB) History(devicePath string, limit int) ([]*Snapshot, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.conn.Query(`
		SELECT id, device_path, canonical_path, recorded_at
		FROM snapshots
		WHERE device_path = ? OR canonical_path = ?
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ?
	`, devicePath, devicePath, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	return d.scanSnapshots(rows)
}

// HistoryByIdentity returns snapshots in which the identity was seen, newest first
func (d *DB) HistoryByIdentity(id partid.Identity, limit int) ([]*Snapshot, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.conn.Query(`
		SELECT s.id, s.device_path, s.canonical_path, s.recorded_at
		FROM snapshots s
		JOIN snapshot_identifiers i ON i.snapshot_id = s.id
		WHERE i.source = ? AND i.value = ?
		ORDER BY s.recorded_at DESC, s.rowid DESC
		LIMIT ?
	`, id.Source.Key(), id.Value, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	return d.scanSnapshots(rows)
}

// scanSnapshots reads snapshot rows, then loads their identifiers
func (d *DB) scanSnapshots(rows *sql.Rows) ([]*Snapshot, error) {
	var snaps []*Snapshot
	for rows.Next() {
		s := &Snapshot{}
		var recordedAt int64
		if err := rows.Scan(&s.ID, &s.DevicePath, &s.CanonicalPath, &recordedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.RecordedAt = time.Unix(0, recordedAt)
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, s := range snaps {
		set, err := d.identifiers(s.ID)
		if err != nil {
			return nil, err
		}
		s.Identifiers = set
	}
	return snaps, nil
}

func (d *DB) identifiers(snapshotID string) (*partid.IdentitySet, error) {
	rows, err := d.conn.Query(`
		SELECT source, value FROM snapshot_identifiers WHERE snapshot_id = ?
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query identifiers: %w", err)
	}
	defer rows.Close()

	var ids []partid.Identity
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan identifier: %w", err)
		}
		source, err := partid.ParseSource(key)
		if err != nil {
			// written by a newer version; skip
			continue
		}
		ids = append(ids, partid.New(source, value))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return partid.NewIdentitySet(ids...), nil
}
