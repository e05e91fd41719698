// Package slug derives per-owner unique recipe slugs and resolves the path
// tokens clients use to address a recipe.
//
// A token is either a slug ("matcha-latte", "matcha-latte-2") or a legacy
// storage identifier (24 hex characters) from links created before slugs
// existed. The two are told apart by shape alone, so a title that derives to
// exactly 24 hex characters is routed as an identifier and will not resolve
// by slug. This is a known limitation; see IsLegacyID.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// nonWord matches runs of characters that are neither ASCII word
	// characters nor a literal space.
	nonWord = regexp.MustCompile(`[^\w ]+`)
	spaces  = regexp.MustCompile(` +`)
	legacy  = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)
)

// Derive converts a title to its base slug: lowercased, non-word characters
// removed, each run of spaces replaced by one hyphen.
//
// Leading and trailing spaces become leading and trailing hyphens; there is
// no length cap. A title with no word characters yields "".
func Derive(title string) string {
	s := strings.ToLower(title)
	s = nonWord.ReplaceAllString(s, "")
	return spaces.ReplaceAllString(s, "-")
}

// SuffixPattern returns an anchored regular expression matching base on its
// own or followed by a hyphen and a decimal counter.
// The pattern is valid for both Go's regexp and the Postgres ~ operator.
func SuffixPattern(base string) string {
	return "^" + regexp.QuoteMeta(base) + "(-[0-9]+)?$"
}

// Counter counts an owner's recipes whose slug matches pattern.
// When excludeID is non-empty the recipe with that ID is left out of the count.
type Counter interface {
	CountSlugMatches(ctx context.Context, ownerID, pattern, excludeID string) (int64, error)
}

// Assign returns a slug for title that is unique among ownerID's recipes:
// the base slug when no recipe of that owner uses it or a suffixed form of it,
// otherwise base-N where N is the number of such recipes.
//
// Pass the recipe's own ID as excludeID when re-slugging an existing recipe
// so it does not collide with itself. The count and the later write are not
// atomic; the (owner_id, slug) unique index rejects the loser of a race.
func Assign(ctx context.Context, c Counter, title, ownerID, excludeID string) (string, error) {
	base := Derive(title)

	n, err := c.CountSlugMatches(ctx, ownerID, SuffixPattern(base), excludeID)
	if err != nil {
		return "", fmt.Errorf("slug.Assign: %w", err)
	}
	if n == 0 {
		return base, nil
	}
	return base + "-" + strconv.FormatInt(n, 10), nil
}

// Lookup is an owner-scoped filter for a single recipe.
// Exactly one of ID and Slug is set. OwnerID is always set.
type Lookup struct {
	OwnerID string
	ID      string
	Slug    string
}

// ByID reports whether the lookup resolves by storage identifier.
func (l Lookup) ByID() bool {
	return l.ID != ""
}

// String renders the lookup for logs and error messages.
func (l Lookup) String() string {
	if l.ByID() {
		return "id=" + l.ID
	}
	return "slug=" + l.Slug
}

// IsLegacyID reports whether token has the shape of a storage identifier:
// exactly 24 hex characters, either case.
func IsLegacyID(token string) bool {
	return legacy.MatchString(token)
}

// BuildLookup turns a client-supplied path token into a filter scoped to
// ownerID. Tokens shaped like a storage identifier filter by ID, anything
// else filters by slug. The owner is part of every filter, so a lookup can
// never reach another user's recipe.
func BuildLookup(token, ownerID string) Lookup {
	if IsLegacyID(token) {
		return Lookup{OwnerID: ownerID, ID: strings.ToLower(token)}
	}
	return Lookup{OwnerID: ownerID, Slug: token}
}
