// Package gitstore provides a Git plumbing-based implementation of domain.Storage.
package gitstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/weekdeck/weekdeck/internal/domain"
	"github.com/weekdeck/weekdeck/internal/infra/crypto"
)

// valueEntry is the tree entry holding the stored value.
const valueEntry = "value"

// ErrRevisionNotFound is returned when a revision does not belong to a key's history.
var ErrRevisionNotFound = errors.New("revision not found")

// Store implements domain.Storage using Git plumbing (refs, trees and commits).
// Values never touch the working tree or HEAD.
//
// Data structure:
//
//	refs/<namespace>/
//	  keys/
//	    <key> → commit (tree: value → blob)
//	            parent → previous value of <key>
type Store struct {
	repo      *git.Repository
	encryptor *crypto.Encryptor
	clock     domain.Clock
	namespace string // e.g., "weekdeck"
	mu        sync.RWMutex
}

// New opens the repository at repoPath, searching parent directories.
func New(repoPath, namespace string) (*Store, error) {
	return NewWithEncryption(repoPath, namespace, "")
}

// NewWithEncryption opens the repository with optional encryption.
// If encryptionKey is empty, encryption is disabled.
func NewWithEncryption(repoPath, namespace, encryptionKey string) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}

	var encryptor *crypto.Encryptor
	if encryptionKey != "" {
		encryptor, err = crypto.NewEncryptor(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("create encryptor: %w", err)
		}
	}

	return NewWithRepoAndEncryptor(repo, namespace, encryptor), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	return NewWithRepoAndEncryptor(repo, namespace, nil)
}

// NewWithRepoAndEncryptor creates a new Store with an existing repository and encryptor.
func NewWithRepoAndEncryptor(repo *git.Repository, namespace string, encryptor *crypto.Encryptor) *Store {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &Store{
		repo:      repo,
		namespace: namespace,
		encryptor: encryptor,
		clock:     domain.RealClock{},
	}
}

// WithClock sets the clock used for commit timestamps.
func (s *Store) WithClock(clock domain.Clock) *Store {
	s.clock = clock
	return s
}

// refPrefix returns the ref prefix for this namespace.
func (s *Store) refPrefix() string {
	return "refs/" + s.namespace + "/"
}

// keyRef returns the ref name for a key.
func (s *Store) keyRef(key string) (plumbing.ReferenceName, error) {
	if key == "" || strings.ContainsAny(key, "/\\ ") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	name := plumbing.ReferenceName(s.refPrefix() + "keys/" + key)
	if err := name.Validate(); err != nil {
		return "", fmt.Errorf("invalid key %q: %w", key, err)
	}
	return name, nil
}

// Get returns the latest value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	refName, err := s.keyRef(key)
	if err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Reference(refName, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get key ref: %w", err)
	}

	data, err := s.readValue(ref.Hash())
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Set records value as a new revision of key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	refName, err := s.keyRef(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var parents []plumbing.Hash
	ref, err := s.repo.Reference(refName, true)
	switch {
	case err == nil:
		parents = append(parents, ref.Hash())
	case !errors.Is(err, plumbing.ErrReferenceNotFound):
		return fmt.Errorf("get key ref: %w", err)
	}

	blobHash, err := s.writeBlob([]byte(value))
	if err != nil {
		return err
	}
	treeHash, err := s.writeTree(blobHash)
	if err != nil {
		return err
	}
	commitHash, err := s.writeCommit(treeHash, parents, "set "+key)
	if err != nil {
		return err
	}

	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(refName, commitHash)); err != nil {
		return fmt.Errorf("set key ref: %w", err)
	}
	return nil
}

// Remove deletes key and its history ref. Objects are left for git gc.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	refName, err := s.keyRef(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Storer.RemoveReference(refName); err != nil {
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("remove key ref: %w", err)
		}
	}
	return nil
}

// History returns up to limit revisions of key, newest first.
// A limit of zero or less returns the whole history.
func (s *Store) History(ctx context.Context, key string, limit int) ([]domain.Revision, error) {
	refName, err := s.keyRef(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Reference(refName, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get key ref: %w", err)
	}

	var revs []domain.Revision
	hash := ref.Hash()
	for !hash.IsZero() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if limit > 0 && len(revs) >= limit {
			break
		}
		commit, err := s.repo.CommitObject(hash)
		if err != nil {
			return nil, fmt.Errorf("read revision %s: %w", hash, err)
		}
		revs = append(revs, domain.Revision{
			Hash:    commit.Hash.String(),
			When:    commit.Committer.When,
			Message: strings.TrimSpace(commit.Message),
		})
		hash = plumbing.ZeroHash
		if len(commit.ParentHashes) > 0 {
			hash = commit.ParentHashes[0]
		}
	}
	return revs, nil
}

// ValueAt returns the value of key at revision. revision may be abbreviated.
func (s *Store) ValueAt(ctx context.Context, key, revision string) (string, error) {
	revs, err := s.History(ctx, key, 0)
	if err != nil {
		return "", err
	}
	rev, err := matchRevision(revs, revision)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.readValue(plumbing.NewHash(rev.Hash))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Restore records the value of key at revision as a new revision.
func (s *Store) Restore(ctx context.Context, key, revision string) error {
	value, err := s.ValueAt(ctx, key, revision)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, value)
}

func matchRevision(revs []domain.Revision, revision string) (domain.Revision, error) {
	revision = strings.ToLower(strings.TrimSpace(revision))
	if len(revision) < 4 {
		return domain.Revision{}, fmt.Errorf("%w: %q is too short", ErrRevisionNotFound, revision)
	}
	var found []domain.Revision
	for _, r := range revs {
		if strings.HasPrefix(r.Hash, revision) {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return domain.Revision{}, fmt.Errorf("%w: %s", ErrRevisionNotFound, revision)
	case 1:
		return found[0], nil
	default:
		return domain.Revision{}, fmt.Errorf("revision %s is ambiguous", revision)
	}
}

// readValue reads the value blob of a revision commit.
func (s *Store) readValue(commitHash plumbing.Hash) ([]byte, error) {
	commit, err := s.repo.CommitObject(commitHash)
	if err != nil {
		return nil, fmt.Errorf("read revision: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("read revision tree: %w", err)
	}
	entry, err := tree.FindEntry(valueEntry)
	if err != nil {
		return nil, fmt.Errorf("read revision value: %w", err)
	}
	return s.readBlob(entry.Hash)
}

func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	// Encrypt if encryptor is configured
	blobData := data
	if s.encryptor != nil {
		encrypted, err := s.encryptor.Encrypt(data)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("encrypt data: %w", err)
		}
		blobData = encrypted
	}

	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(blobData)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(blobData); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

func (s *Store) writeTree(blobHash plumbing.Hash) (plumbing.Hash, error) {
	tree := &object.Tree{
		Entries: []object.TreeEntry{{Name: valueEntry, Mode: filemode.Regular, Hash: blobHash}},
	}

	obj := s.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode tree: %w", err)
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store tree: %w", err)
	}
	return hash, nil
}

func (s *Store) writeCommit(treeHash plumbing.Hash, parents []plumbing.Hash, message string) (plumbing.Hash, error) {
	sig := object.Signature{
		Name:  "weekdeck",
		Email: "weekdeck@localhost",
		When:  s.clock.Now(),
	}
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parents,
	}

	obj := s.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("encode commit: %w", err)
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store commit: %w", err)
	}
	return hash, nil
}

func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}

	// Decrypt if encryptor is configured
	if s.encryptor != nil {
		decrypted, err := s.encryptor.Decrypt(data)
		if err != nil {
			return nil, fmt.Errorf("decrypt data: %w", err)
		}
		return decrypted, nil
	}
	if crypto.IsEncrypted(data) {
		return nil, errors.New("value is encrypted; set storage.encryption_key")
	}

	return data, nil
}

// Ensure Store implements RevisionStore.
var _ domain.RevisionStore = (*Store)(nil)
