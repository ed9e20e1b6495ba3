package domain

// DefaultCategory is assigned to custom choices created without a category.
const DefaultCategory = "default"

// BoardChoice is a reusable tile definition: a phrase paired with an image
// stored in the object store. Choices with an empty OwnerID are public presets
// visible to everyone; choices with an owner are visible to that user only.
//
// A BoardChoice is referenced by boards, never embedded. Once created it is
// never updated or deleted - boards only drop their references to it.
type BoardChoice struct {
	Record
	Phrase   string `json:"phrase"`
	ImageKey string `json:"image"` // Object store key, resolved to a signed URL on read
	Category string `json:"category"`
	OwnerID  string `json:"user,omitempty"` // Empty for public preset choices
}

// IsPublic returns true if the choice is a preset visible to all users.
func (c *BoardChoice) IsPublic() bool {
	return c.OwnerID == ""
}

// VisibleTo reports whether the choice may be shown to the given user.
// Public choices are visible to everyone, including unauthenticated callers.
func (c *BoardChoice) VisibleTo(userID string) bool {
	return c.IsPublic() || c.OwnerID == userID
}
