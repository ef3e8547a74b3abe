package project

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/scribedocs/scribe/internal/storage"
)

// ChangeSet is the result of comparing disk state to the working database.
type ChangeSet struct {
	Added     []string // on disk, not in the database
	Modified  []string // different hash than the database
	Deleted   []string // in the database, gone from disk
	Unchanged []string // same hash (mtime may have drifted)
}

// HasChanges reports whether anything needs processing.
func (cs *ChangeSet) HasChanges() bool {
	return len(cs.Added) > 0 || len(cs.Modified) > 0 || len(cs.Deleted) > 0
}

// DetectChanges compares the candidate files against the recorded states.
//
// For each candidate: not in the database means Added; same mtime means
// Unchanged without hashing; differing mtime forces a hash comparison,
// where an equal hash is mtime drift (Unchanged) and a differing hash is
// Modified. When fullScan is set, recorded files missing from candidates
// are Deleted; partial scans (watcher hints) never report deletions for
// files they did not check, only for hinted files now gone from disk.
func DetectChanges(ctx context.Context, root string, candidates []string, known map[string]storage.FileState, fullScan bool) (*ChangeSet, error) {
	cs := &ChangeSet{}
	seen := make(map[string]bool, len(candidates))

	for _, relPath := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		seen[relPath] = true

		absPath := filepath.Join(root, filepath.FromSlash(relPath))
		info, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				if _, inDB := known[relPath]; inDB {
					cs.Deleted = append(cs.Deleted, relPath)
				}
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", relPath, err)
		}

		record, inDB := known[relPath]
		if !inDB {
			cs.Added = append(cs.Added, relPath)
			continue
		}

		if info.ModTime().Unix() == record.ModTime {
			cs.Unchanged = append(cs.Unchanged, relPath)
			continue
		}

		hash, err := HashFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", relPath, err)
		}
		if hash == record.Hash {
			cs.Unchanged = append(cs.Unchanged, relPath)
		} else {
			cs.Modified = append(cs.Modified, relPath)
		}
	}

	if fullScan {
		for relPath := range known {
			if !seen[relPath] {
				cs.Deleted = append(cs.Deleted, relPath)
			}
		}
	}

	// Deterministic processing order regardless of map iteration.
	sort.Strings(cs.Added)
	sort.Strings(cs.Modified)
	sort.Strings(cs.Deleted)
	sort.Strings(cs.Unchanged)
	return cs, nil
}

// HashFile returns the hex SHA-256 of a file's contents.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
