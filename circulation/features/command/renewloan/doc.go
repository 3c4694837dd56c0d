// Package renewloan implements the extension of a loan's due date.
package renewloan
