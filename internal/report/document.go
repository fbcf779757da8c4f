package report

import (
	"time"

	"github.com/temirov/gitupstream/internal/branchstatus"
)

// Record is the serialized form of one branch status.
type Record struct {
	Repository string `json:"repository" yaml:"repository"`
	Branch     string `json:"branch" yaml:"branch"`
	Remote     string `json:"remote" yaml:"remote"`
	RemoteRef  string `json:"remoteRef" yaml:"remoteRef"`
	Ahead      int    `json:"ahead" yaml:"ahead"`
	Behind     int    `json:"behind" yaml:"behind"`
	Status     string `json:"status" yaml:"status"`
	LocalHash  string `json:"localHash" yaml:"localHash"`
	RemoteHash string `json:"remoteHash" yaml:"remoteHash"`
	IsDefault  bool   `json:"isDefault" yaml:"isDefault"`
	TrackingOK bool   `json:"trackingOk" yaml:"trackingOk"`
}

// Summary aggregates records by status. Untracked counts branches without a remote branch or with an inaccessible one.
type Summary struct {
	Synced     int `json:"synced" yaml:"synced"`
	AheadOnly  int `json:"aheadOnly" yaml:"aheadOnly"`
	BehindOnly int `json:"behindOnly" yaml:"behindOnly"`
	Diverged   int `json:"diverged" yaml:"diverged"`
	Untracked  int `json:"untracked" yaml:"untracked"`
}

// Document is everything a renderer needs.
type Document struct {
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
	Remote    string   `json:"remote" yaml:"remote"`
	Branches  []Record `json:"branches" yaml:"branches"`
	Summary   Summary  `json:"summary" yaml:"summary"`
}

// Summarize counts records per status.
func Summarize(records []branchstatus.BranchStatus) Summary {
	summary := Summary{}
	for _, record := range records {
		switch record.Status {
		case branchstatus.StatusSynced:
			summary.Synced++
		case branchstatus.StatusAhead:
			summary.AheadOnly++
		case branchstatus.StatusBehind:
			summary.BehindOnly++
		case branchstatus.StatusDiverged:
			summary.Diverged++
		default:
			summary.Untracked++
		}
	}
	return summary
}

// BuildDocument converts records without reordering them.
func BuildDocument(records []branchstatus.BranchStatus, remoteName string, generatedAt time.Time) Document {
	branches := make([]Record, 0, len(records))
	for _, record := range records {
		branches = append(branches, Record{
			Repository: record.Repository,
			Branch:     record.Branch,
			Remote:     record.Remote,
			RemoteRef:  record.RemoteReference,
			Ahead:      record.Ahead,
			Behind:     record.Behind,
			Status:     record.Status.Label(),
			LocalHash:  record.LocalHashPrefix,
			RemoteHash: record.RemoteHashPrefix,
			IsDefault:  record.IsDefaultBranch,
			TrackingOK: record.TrackingOK,
		})
	}
	return Document{
		Timestamp: generatedAt.UTC().Format(time.RFC3339),
		Remote:    remoteName,
		Branches:  branches,
		Summary:   Summarize(records),
	}
}
