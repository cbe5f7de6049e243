// Package sitecontent turns the loosely-typed content records kept in the
// site's content-management datastore into the fixed-shape Content value the
// artist site renders.
//
// A raw record is an ordered list of named sections. Each section is decoded
// into one variant of the Section union (navigation, hero, about, images,
// videos, ...); names that match no variant decode to UnrecognizedSection and
// are ignored. Normalize folds the decoded sections, in record order, over a
// copy of the defaults, so every leaf of the result is always defined.
//
// Loading
//
// Sources (HTTP, file, blob store, repository) live in the source
// subpackage. Loader and Store collapse any fetch failure to the defaults;
// callers never branch on a missing field, only on an empty one.
package sitecontent
