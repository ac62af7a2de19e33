package rewrite

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gomdmath/pkg/fix"
	"github.com/yaklabco/gomdmath/pkg/mathstore"
)

// ErrUnresolvedToken is returned when a placeholder has no store record.
var ErrUnresolvedToken = errors.New("unresolved math placeholder")

// RestoreResult is the outcome of Restore.
type RestoreResult struct {
	// Text is the content with every resolvable placeholder replaced by
	// its math source.
	Text []byte

	// Restored counts the replaced placeholders.
	Restored int

	// Unresolved lists placeholders whose identifier is not in the store.
	// They are left in Text.
	Unresolved []mathstore.TokenMatch
}

// Err returns ErrUnresolvedToken, wrapped with the first offending
// identifier, if any placeholder could not be resolved.
func (r *RestoreResult) Err() error {
	if len(r.Unresolved) == 0 {
		return nil
	}
	if len(r.Unresolved) == 1 {
		return fmt.Errorf("%w: %q", ErrUnresolvedToken, r.Unresolved[0].ID)
	}
	return fmt.Errorf("%w: %q and %d more", ErrUnresolvedToken, r.Unresolved[0].ID, len(r.Unresolved)-1)
}

// Restore replaces placeholders in text with the math they stand for.
// Applied to the output of a render and its store, it yields the
// original content.
func Restore(text []byte, store *mathstore.Store) (*RestoreResult, error) {
	res := &RestoreResult{}

	var edits []fix.TextEdit
	for _, match := range mathstore.FindTokens(text) {
		rec, ok := store.Lookup(match.ID)
		if !ok {
			res.Unresolved = append(res.Unresolved, match)
			continue
		}
		edits = append(edits, fix.TextEdit{
			StartOffset: match.Start,
			EndOffset:   match.End,
			NewText:     rec.Source,
		})
	}

	prepared, err := fix.PrepareEdits(edits, len(text))
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	res.Text = slices.Clone(fix.ApplyEdits(text, prepared))
	res.Restored = len(prepared)

	return res, nil
}

// VerifyError describes a broken correspondence between the placeholders
// in a text and the records of a store.
type VerifyError struct {
	// Missing are placeholder identifiers with no record.
	Missing []string

	// Orphaned are record identifiers with no placeholder.
	Orphaned []string

	// Repeated are identifiers whose placeholder appears more than once.
	Repeated []string
}

func (e *VerifyError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d placeholder(s) without a record", len(e.Missing)))
	}
	if len(e.Orphaned) > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s) without a placeholder", len(e.Orphaned)))
	}
	if len(e.Repeated) > 0 {
		parts = append(parts, fmt.Sprintf("%d placeholder(s) repeated", len(e.Repeated)))
	}
	return "placeholders do not match store: " + strings.Join(parts, ", ")
}

// Verify checks that every placeholder in text has exactly one record in
// store and every record has exactly one placeholder.
// It returns nil or a *VerifyError.
func Verify(text []byte, store *mathstore.Store) error {
	counts := make(map[string]int)
	var order []string
	for _, match := range mathstore.FindTokens(text) {
		if counts[match.ID] == 0 {
			order = append(order, match.ID)
		}
		counts[match.ID]++
	}

	verr := &VerifyError{}
	for _, id := range order {
		if _, ok := store.Lookup(id); !ok {
			verr.Missing = append(verr.Missing, id)
		}
		if counts[id] > 1 {
			verr.Repeated = append(verr.Repeated, id)
		}
	}
	for _, rec := range store.Records() {
		if counts[rec.ID] == 0 {
			verr.Orphaned = append(verr.Orphaned, rec.ID)
		}
	}

	if len(verr.Missing)+len(verr.Orphaned)+len(verr.Repeated) == 0 {
		return nil
	}
	return verr
}
