package branchstatus

import (
	"errors"
	"fmt"
)

const (
	// NotAvailableConstant fills reference and hash columns that have no value.
	NotAvailableConstant = "N/A"
	// HashPrefixLengthConstant is the number of commit id characters shown in reports.
	HashPrefixLengthConstant = 7

	syncedLabelConstant             = "✓ Synced"
	aheadLabelConstant              = "⬆ Ahead"
	behindLabelConstant             = "⬇ Behind"
	divergedLabelConstant           = "⬍ Diverged"
	noRemoteBranchLabelConstant     = "✗ No Remote Branch"
	remoteInaccessibleLabelConstant = "⚠ Remote Inaccessible"
	unknownStatusLabelConstant      = "? Unknown"

	trackingIncompleteMessageConstant  = "some branches have no working remote tracking"
	trackingIncompleteTemplateConstant = "%w: %d of %d branches"
)

// ErrTrackingIncomplete marks a report in which at least one branch could not be compared with its remote.
var ErrTrackingIncomplete = errors.New(trackingIncompleteMessageConstant)

// Status classifies one branch.
type Status int

// Branch statuses.
const (
	StatusSynced Status = iota
	StatusAhead
	StatusBehind
	StatusDiverged
	StatusNoRemoteBranch
	StatusRemoteInaccessible
)

// Label returns the glyph-prefixed display text used by every report format.
func (status Status) Label() string {
	switch status {
	case StatusSynced:
		return syncedLabelConstant
	case StatusAhead:
		return aheadLabelConstant
	case StatusBehind:
		return behindLabelConstant
	case StatusDiverged:
		return divergedLabelConstant
	case StatusNoRemoteBranch:
		return noRemoteBranchLabelConstant
	case StatusRemoteInaccessible:
		return remoteInaccessibleLabelConstant
	default:
		return unknownStatusLabelConstant
	}
}

// String returns Label.
func (status Status) String() string {
	return status.Label()
}

// HasTracking reports whether the status came from a successful comparison with a remote reference.
func (status Status) HasTracking() bool {
	return status != StatusNoRemoteBranch && status != StatusRemoteInaccessible
}

// Classify maps commit counts onto a status. It is a pure function of its arguments.
func Classify(ahead int, behind int) Status {
	switch {
	case ahead == 0 && behind == 0:
		return StatusSynced
	case ahead > 0 && behind == 0:
		return StatusAhead
	case ahead == 0 && behind > 0:
		return StatusBehind
	default:
		return StatusDiverged
	}
}

// BranchStatus is one report record: a local branch compared with its remote reference.
type BranchStatus struct {
	Repository       string
	Branch           string
	Remote           string
	RemoteReference  string
	Ahead            int
	Behind           int
	Status           Status
	LocalHashPrefix  string
	RemoteHashPrefix string
	IsDefaultBranch  bool
	TrackingOK       bool
}

// HashPrefix returns the first HashPrefixLengthConstant characters of a commit id, or the whole id when shorter.
func HashPrefix(commitID string) string {
	if len(commitID) <= HashPrefixLengthConstant {
		return commitID
	}
	return commitID[:HashPrefixLengthConstant]
}

// CheckTracking returns ErrTrackingIncomplete when any record lacks working tracking.
func CheckTracking(records []BranchStatus) error {
	untrackedCount := 0
	for _, record := range records {
		if !record.TrackingOK {
			untrackedCount++
		}
	}
	if untrackedCount == 0 {
		return nil
	}
	return fmt.Errorf(trackingIncompleteTemplateConstant, ErrTrackingIncomplete, untrackedCount, len(records))
}
