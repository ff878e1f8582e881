// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

// SyncState is the sync-engine's persisted state: the outer
// repository's commit hash at the last successful sync, if any.
type SyncState struct {
	LastSyncedCommit string `yaml:"last_synced_commit,omitempty"`
}
