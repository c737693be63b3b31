// Package reconcile drives reconciliation decisions for imported
// transactions: which actions an item is eligible for, and dispatching the
// chosen action to the server with the right cache invalidation.
package reconcile

// Action is one reconciliation decision a user can take on an imported
// transaction.
type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionMerge   Action = "MERGE"
	ActionReject  Action = "REJECT"
	ActionDelete  Action = "DELETE"
)

// StatusPending is the only imported-transaction status with open decisions.
const StatusPending = "PENDING"

// EligibleActions returns exactly the actions legal for an item in the given
// status. Match presence, not any client-side computation, decides between
// approve and merge; resolved items can only be removed from the queue.
func EligibleActions(status string, hasMatch bool) []Action {
	if status != StatusPending {
		return []Action{ActionDelete}
	}
	if hasMatch {
		return []Action{ActionMerge, ActionReject}
	}
	return []Action{ActionApprove, ActionReject}
}

// Allows reports whether action is legal for the given status and match
// presence.
func Allows(status string, hasMatch bool, action Action) bool {
	for _, eligible := range EligibleActions(status, hasMatch) {
		if eligible == action {
			return true
		}
	}
	return false
}
