// Package repository handles all interactions with the database.
//
// Repositories name tables and columns and hand them, with values, to the
// generic database.Helper; no raw SQL lives here.
package repository
