// Package credstore persists the single authorization record that
// represents "currently signed in". A store holds at most one record; a new
// sign-in overwrites, never appends. Every backend fails closed: content
// that cannot be decoded is reported as an absent record, not an error.
package credstore
