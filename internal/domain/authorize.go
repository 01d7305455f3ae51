package domain

// Identity is the acting caller of a request, passed explicitly through every rule
type Identity struct {
	UserID        uint // Valid only when Authenticated is true
	Authenticated bool
}

// Anonymous returns the identity of a caller without credentials
func Anonymous() Identity {
	return Identity{}
}

// AuthenticatedAs returns the identity of a verified user
func AuthenticatedAs(userID uint) Identity {
	return Identity{UserID: userID, Authenticated: true}
}

// Resource names the kind of record being accessed
type Resource string

const (
	ResourceCampaign Resource = "campaign"
	ResourceDonation Resource = "donation"
)

// Operation is the CRUD verb being authorized
type Operation string

const (
	OpList     Operation = "list"
	OpRetrieve Operation = "retrieve"
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
)

// IsRead reports whether op leaves records untouched
func (op Operation) IsRead() bool {
	return op == OpList || op == OpRetrieve
}

// CheckAccess applies the resource-level rules that do not depend on a specific record:
// campaigns are readable by anyone, donations only by authenticated callers,
// and every write requires authentication.
func CheckAccess(id Identity, res Resource, op Operation) error {
	if id.Authenticated {
		return nil
	}
	if op.IsRead() && res == ResourceCampaign {
		return nil
	}
	return &AuthenticationError{}
}

// CheckOwnership applies the record-level rule: updates and deletes are reserved
// for the record's owner (campaign) or donor (donation). A nil owner matches nobody.
// Staff and superuser flags are not consulted.
func CheckOwnership(id Identity, op Operation, owner *uint) error {
	if op != OpUpdate && op != OpDelete {
		return nil
	}
	if owner == nil || !id.Authenticated || *owner != id.UserID {
		return &AuthorizationError{}
	}
	return nil
}

// Authorize runs both access and ownership rules for an operation on one record
func Authorize(id Identity, res Resource, op Operation, owner *uint) error {
	if err := CheckAccess(id, res, op); err != nil {
		return err
	}
	return CheckOwnership(id, op, owner)
}

// RequireAuthenticated fails for anonymous callers
func RequireAuthenticated(id Identity) error {
	if !id.Authenticated {
		return &AuthenticationError{}
	}
	return nil
}
