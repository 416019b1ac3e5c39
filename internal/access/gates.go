package access

import "github.com/MKhiriev/go-user-keeper/models"

// Gates declared per user operation. Token-bearing operations exclude Basic
// principals; the password change accepts nothing but Basic.
//
// Operations on an existing record check their channel gate first, then
// look the record up, then check the full gate: a caller with acceptable
// credentials learns that an id is absent, which the public read reveals
// anyway.
var (
	UpdateUserChannel     = TokenBearing()
	ChangePasswordChannel = BasicResolved()


	CreateUserGate     = All(TokenBearing(), IsMasterOrRole(models.RoleAdmin))
	ListUsersGate      = All(TokenBearing(), HasRole(models.RoleAdmin))
	GetSelfGate        = All(TokenBearing(), Authenticated())
	UpdateUserGate     = All(TokenBearing(), IsSelfOrRole(models.RoleAdmin))
	ChangePasswordGate = All(BasicResolved(), IsSelfOrRole(models.RoleAdmin))
	DeleteUserGate     = All(TokenBearing(), HasRole(models.RoleAdmin))
	IssueSessionGate   = BasicResolved()
)
