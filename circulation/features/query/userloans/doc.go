// Package userloans lists the borrowings of one user.
package userloans
