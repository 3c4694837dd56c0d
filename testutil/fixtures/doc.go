// Package fixtures seeds event stores with circulation histories for tests.
package fixtures
