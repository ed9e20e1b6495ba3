package domain

import "slices"

// CustomChoice is a tile defined inline on exactly one board. Unlike a
// BoardChoice it is embedded in its board, owned by it exclusively, and never
// referenced from anywhere else. The two kinds are intentionally distinct:
// collapsing them would lose the shared-versus-private distinction.
type CustomChoice struct {
	ID       string `json:"id"`
	Phrase   string `json:"phrase"`
	ImageKey string `json:"image"`
}

// Board is a named, owned collection of communication tiles. OwnerID is set
// at creation and never changes; it is the sole authorization key for every
// mutation.
type Board struct {
	Record
	OwnerID       string         `json:"user"`
	Name          string         `json:"name"`
	ChoiceIDs     []string       `json:"choices"`
	CustomChoices []CustomChoice `json:"custom_choices"`
}

// OwnedBy reports whether the given user is the board's owner.
func (b *Board) OwnedBy(userID string) bool {
	return b.OwnerID == userID
}

// AddChoices appends choice references. Duplicates are permitted: a board may
// reference the same choice more than once.
func (b *Board) AddChoices(choiceIDs []string) {
	b.ChoiceIDs = append(b.ChoiceIDs, choiceIDs...)
}

// RemoveChoices drops every reference matching the given IDs. Removing a
// reference that is not present is a no-op.
func (b *Board) RemoveChoices(choiceIDs []string) {
	b.ChoiceIDs = slices.DeleteFunc(b.ChoiceIDs, func(id string) bool {
		return slices.Contains(choiceIDs, id)
	})
}

// RemoveCustomChoice removes the embedded entry with the given ID.
// Returns false if no such entry exists.
func (b *Board) RemoveCustomChoice(customID string) bool {
	before := len(b.CustomChoices)
	b.CustomChoices = slices.DeleteFunc(b.CustomChoices, func(c CustomChoice) bool {
		return c.ID == customID
	})
	return len(b.CustomChoices) < before
}
