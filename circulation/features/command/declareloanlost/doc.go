// Package declareloanlost implements writing off a lent copy that will not come back.
package declareloanlost
