// package cache implements the normalized in-memory entity store.
//
// Every user, track and collection fetched from any endpoint is merged into a
// single record per (kind, id), so one canonical copy backs every view that
// renders it. The store is process-lifetime only; nothing here touches disk.
//
// The normalizer is the single write path for fetched data: raw wire records
// are validated, deduplicated and merged into the store, with embedded owner
// records written first so cross-references never dangle.
package cache
