// package lists implements paginated list aggregation over the entity cache.
//
// A list view (favoriters of a track, followers of a user, top supporters)
// interleaves a locally-known priority subset with a remotely paginated bulk
// source, deduplicates against what is already shown, and tracks whether more
// pages exist. The aggregator computes one page; the manager owns per-tag
// session state and guarantees at most one in-flight fetch per tag.
package lists
