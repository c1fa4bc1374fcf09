package attendance_service

import "sambo-academy/internal/models"

// action is what marking one student does to the stored record and the ledger.
type action int

const (
	actionNoop           action = iota // nothing stored, nothing to store
	actionCreate                       // new record; consumes a session when present
	actionCreateTransfer               // new transferred record plus compensation payment
	actionDelete                       // drop the record; consumed sessions stay consumed
	actionTouch                        // same status again: notes and marker only
	actionTransfer                     // status becomes transferred plus compensation payment
	actionUpdate                       // status change without side effects
)

func (a action) String() string {
	switch a {
	case actionNoop:
		return "noop"
	case actionCreate:
		return "create"
	case actionCreateTransfer:
		return "create_transfer"
	case actionDelete:
		return "delete"
	case actionTouch:
		return "touch"
	case actionTransfer:
		return "transfer"
	case actionUpdate:
		return "update"
	}
	return "unknown"
}

// decide maps (stored status, incoming status) to an action. nil means no record on the
// existing side and "clear" on the incoming side.
func decide(existing, incoming *models.AttendanceStatus) action {
	switch {
	case incoming == nil && existing == nil:
		return actionNoop
	case incoming == nil:
		return actionDelete
	case existing == nil && *incoming == models.StatusTransferred:
		return actionCreateTransfer
	case existing == nil:
		return actionCreate
	case *existing == *incoming:
		return actionTouch
	case *incoming == models.StatusTransferred:
		return actionTransfer
	default:
		// transferred -> present/absent and present <-> absent: no consumption, no reversal
		return actionUpdate
	}
}
