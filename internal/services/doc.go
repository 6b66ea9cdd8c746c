// package services implements remote page sources for the entity cache
// and list engine.
//
// [APIService] talks to the streaming API over HTTP. Implementations in
// other packages (sqlite fixtures) satisfy the same boundary for offline use.
package services
