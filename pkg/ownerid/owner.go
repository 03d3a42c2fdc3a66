package ownerid

// Owner is implemented by any entity type that can own documents.
//
// The data layer never touches the owner's own schema; it only needs a
// stable unique identifier and something printable for display. Concrete
// owner types embed their ID however they like (typically a uniquely
// indexed column) and satisfy this interface.
type Owner interface {
	// DocumentOwnerID returns the owner's assigned identifier, or the
	// zero ID when none has been assigned yet.
	DocumentOwnerID() ID

	// SetDocumentOwnerID sets the owner's identifier. Called exactly once
	// by the Provider on first persistence; implementations should not
	// call it themselves.
	SetDocumentOwnerID(ID)

	// DisplayName returns a human-readable name for the owner.
	DisplayName() string
}
