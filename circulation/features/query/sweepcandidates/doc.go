// Package sweepcandidates finds the books the expiry sweep has to visit.
package sweepcandidates
