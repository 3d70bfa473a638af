package models

type UserStatus string
type UserRole string
type ProposalStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleFreelancer UserRole = "freelancer"
	UserRoleEmployer   UserRole = "employer"
	UserRoleAdmin      UserRole = "admin"

	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// ValidDecision reports whether s is a status an employer may decide a
// proposal into. pending is never a valid decision target.
func (s ProposalStatus) ValidDecision() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusRejected
}
