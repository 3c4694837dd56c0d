// Package userreservations lists the reservations of one user with their live queue positions.
package userreservations
