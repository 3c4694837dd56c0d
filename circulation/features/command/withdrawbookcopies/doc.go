// Package withdrawbookcopies implements taking shelved copies out of circulation.
package withdrawbookcopies
